// clinfo lists the platforms and devices exposed by a gocl driver, and optionally
// smoke-tests program building and memory mapping on them.
//
// By default it uses the driver configured in GOCL_DRIVER (or the first registered
// driver); -driver overrides it. Only the pure Go "soft" driver is linked in here; a
// binary linking a native driver package gets it listed automatically.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gocl/gocl/cl"
	"github.com/gocl/gocl/driver"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	_ "github.com/gocl/gocl/driver/soft"
)

var (
	flagDriver = flag.String("driver", "",
		fmt.Sprintf("Driver configuration, formatted as \"<name>:<config>\". "+
			"It defaults to the value of %s, or to the first registered driver. "+
			"Registered: %s.", driver.GOCL_DRIVER, strings.Join(driver.Registered(), ", ")))
	flagSmokeTest = flag.Bool("smoke_test", false,
		"Build a trivial program and round-trip data through a mapped buffer on every device.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	drv := must.M1(newDriver())
	fmt.Printf("driver: %s (%s)\n", drv.Name(), drv.Description())

	platforms := must.M1(cl.Platforms(drv))
	for _, platform := range platforms {
		reportPlatform(platform)
	}
	if len(platforms) == 0 {
		klog.Warningf("driver %q exposes no platforms", drv.Name())
	}
}

func newDriver() (driver.Driver, error) {
	if *flagDriver != "" {
		return driver.NewWithConfig(*flagDriver)
	}
	return driver.New()
}

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 0, 4)
)

func newPlainTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			switch {
			case row == 1:
				s = headerRowStyle
			case row%2 == 0:
				s = oddRowStyle
			default:
				s = evenRowStyle
			}
			return
		})
}

func reportPlatform(platform *cl.Platform) {
	info := must.M1(platform.Info())
	version := must.M1(platform.Version())
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s -- %s (version %s)", info.Name, info.Vendor, version)))

	devices := must.M1(platform.AllDeviceList())
	table := newPlainTable()
	table.Row("Device", "Type", "Compute Units", "Global Mem", "Local Mem", "Available")
	for _, device := range devices {
		dInfo := must.M1(device.Info())
		table.Row(
			dInfo.Name,
			deviceTypeNames(dInfo.Type),
			fmt.Sprintf("%d", dInfo.MaxComputeUnits),
			humanize.IBytes(dInfo.GlobalMemSize),
			humanize.IBytes(dInfo.LocalMemSize),
			fmt.Sprintf("%v", dInfo.Available),
		)
	}
	fmt.Println(table.Render())

	if *flagSmokeTest {
		for _, device := range devices {
			smokeTest(platform, device)
		}
	}
}

func deviceTypeNames(mask driver.DeviceTypeMask) string {
	var names []string
	for _, dt := range []cl.DeviceType{cl.DeviceTypeCPU, cl.DeviceTypeGPU, cl.DeviceTypeAccelerator, cl.DeviceTypeCustom} {
		if mask&dt.Mask() != 0 {
			names = append(names, dt.String())
		}
	}
	if len(names) == 0 {
		return "?"
	}
	return strings.Join(names, "|")
}

// smokeTest builds a one-kernel program on the device and round-trips a few words
// through a mapped buffer.
func smokeTest(platform *cl.Platform, device *cl.Device) {
	fmt.Printf("smoke-testing %s... ", device.Name())

	ctx := must.M1(cl.NewContext(
		cl.NewContextProperties().Platform(platform),
		[]*cl.Device{device}))
	defer func() { must.M(ctx.Release()) }()
	queue := must.M1(cl.NewQueue(ctx, device))
	defer func() { must.M(queue.Release()) }()

	program := must.M1(cl.NewProgramBuilderFor(cl.SingleDevice{Device: device}).
		SourceDefine("SMOKE", "1").
		Source("__kernel void noop(__global float* unused) {}\n").
		Build(ctx))
	status := must.M1(program.BuildStatus(device))
	if status != driver.BuildSuccess {
		log := must.M1(program.BuildLog(device))
		klog.Errorf("build on %s finished with status %s:\n%s", device.Name(), status, log)
		os.Exit(1)
	}
	must.M(program.Release())

	const numWords = 256
	buf := must.M1(cl.NewBuffer(ctx, numWords*4))
	w := must.M1(cl.Map[float32](queue, buf, driver.MapWrite, 0, numWords))
	for i := range w.Slice() {
		w.Slice()[i] = float32(i)
	}
	must.M(w.Unmap(nil, nil, nil))
	r := must.M1(cl.Map[float32](queue, buf, driver.MapRead, 0, numWords))
	for i, v := range r.Slice() {
		if v != float32(i) {
			klog.Errorf("mapped read-back mismatch on %s at word %d: got %g, want %d", device.Name(), i, v, i)
			os.Exit(1)
		}
	}
	must.M(r.Unmap(nil, nil, nil))
	must.M(buf.Release())

	fmt.Println("ok")
}
