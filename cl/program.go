package cl

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// BuildOpt is one build directive of a ProgramBuilder: either a compiler command line
// switch or text for inclusion in the final program source. Directives keep their
// insertion order within each category; the categories are grouped independently at
// assembly time.
type BuildOpt interface {
	isBuildOpt()
}

// CompilerDefine is a compiler command line definition, emitted as "-D{Name}={Value}".
type CompilerDefine struct {
	Name  string
	Value string
}

// CompilerIncludeDir is a compiler include path, emitted as "-I{Path}".
type CompilerIncludeDir struct {
	Path string
}

// CompilerOption is a raw compiler command line parameter, emitted verbatim.
type CompilerOption struct {
	Text string
}

// SourceDefine is a definition injected at the top of the assembled source, rendered as
// "#define {Name}  {Value}\n".
type SourceDefine struct {
	Name  string
	Value string
}

// SourceHeader is raw text injected at the top of the assembled source, before any
// source file.
type SourceHeader struct {
	Text string
}

// SourceText is raw text appended at the end of the assembled source, after every source
// file.
type SourceText struct {
	Text string
}

func (CompilerDefine) isBuildOpt()     {}
func (CompilerIncludeDir) isBuildOpt() {}
func (CompilerOption) isBuildOpt()     {}
func (SourceDefine) isBuildOpt()       {}
func (SourceHeader) isBuildOpt()       {}
func (SourceText) isBuildOpt()         {}

// ProgramBuilder accumulates build directives, source files and a device specifier, and
// builds a Program from them. The zero value is not usable; start with
// NewProgramBuilder.
//
// Builders are value objects consumed within a single build request; they hold no native
// resources.
type ProgramBuilder struct {
	opts       []BuildOpt
	srcFiles   []string
	deviceSpec DeviceSpecifier

	// readFile is swappable so tests can count and fake disk reads.
	readFile func(path string) ([]byte, error)
}

// NewProgramBuilder returns a new, empty, build configuration.
func NewProgramBuilder() *ProgramBuilder {
	return &ProgramBuilder{
		opts:     make([]BuildOpt, 0, 16),
		srcFiles: make([]string, 0, 4),
		readFile: os.ReadFile,
	}
}

// Opt appends a pre-created build directive. No validation happens at add time;
// directives are checked when the program is assembled.
func (b *ProgramBuilder) Opt(opt BuildOpt) *ProgramBuilder {
	b.opts = append(b.opts, opt)
	return b
}

// Define appends a compiler command line definition, formatted as "-D{name}={value}".
func (b *ProgramBuilder) Define(name string, value int) *ProgramBuilder {
	return b.Opt(CompilerDefine{Name: name, Value: fmt.Sprintf("%d", value)})
}

// IncludeDir appends a compiler include path, formatted as "-I{path}".
func (b *ProgramBuilder) IncludeDir(path string) *ProgramBuilder {
	return b.Opt(CompilerIncludeDir{Path: path})
}

// CompilerOptions appends a raw compiler command line parameter, emitted as exact text.
func (b *ProgramBuilder) CompilerOptions(text string) *ProgramBuilder {
	return b.Opt(CompilerOption{Text: text})
}

// SourceDefine appends a "#define {name}  {value}" injected at the top of the assembled
// source.
func (b *ProgramBuilder) SourceDefine(name, value string) *ProgramBuilder {
	return b.Opt(SourceDefine{Name: name, Value: value})
}

// Source appends raw program text included at the end of the assembled source.
func (b *ProgramBuilder) Source(text string) *ProgramBuilder {
	return b.Opt(SourceText{Text: text})
}

// SourceFile appends a file to the list of included sources. The file is not read until
// the program is assembled. Note the assembly order documented in AssembleSources: files
// are emitted in reverse add order, so add application code first and base includes
// last.
func (b *ProgramBuilder) SourceFile(path string) *ProgramBuilder {
	b.srcFiles = append(b.srcFiles, path)
	return b
}

// SourceFiles returns the file paths added so far, in add order.
func (b *ProgramBuilder) SourceFiles() []string {
	return b.srcFiles
}

// SetDevices sets the specifier resolved to the concrete device list at build time. Only
// one specifier is permitted per builder: a second call fails with
// ErrDeviceSpecifierSet and keeps the first.
func (b *ProgramBuilder) SetDevices(spec DeviceSpecifier) error {
	if b.deviceSpec != nil {
		return errors.Wrapf(ErrDeviceSpecifierSet, "cl: ProgramBuilder.SetDevices")
	}
	if spec == nil {
		return errors.Errorf("cl: ProgramBuilder.SetDevices with nil specifier")
	}
	b.deviceSpec = spec
	return nil
}

// DeviceSpec returns the device specifier, or nil if none was set.
func (b *ProgramBuilder) DeviceSpec() DeviceSpecifier {
	return b.deviceSpec
}

// checkProgramText rejects text that cannot cross the native boundary intact.
func checkProgramText(what, text string) error {
	if strings.IndexByte(text, 0) >= 0 {
		return errors.Wrapf(ErrEmbeddedNUL, "cl: %s", what)
	}
	return nil
}

// AssembleSources returns the final program source as an ordered list of text blocks:
//
//  1. a single separator block,
//  2. every SourceDefine and SourceHeader directive, in insertion order,
//  3. the contents of the source files in reverse add order, each path emitted at most
//     once (a duplicated path is read on its first emission and skipped after),
//  4. a separator block,
//  5. every SourceText directive, in insertion order.
//
// The file reversal is deliberate: files added later act as base includes that must
// appear before the earlier-added application code.
func (b *ProgramBuilder) AssembleSources() ([]string, error) {
	blocks := make([]string, 0, len(b.opts)+len(b.srcFiles)+2)
	blocks = append(blocks, "\n")
	for _, opt := range b.opts {
		switch opt := opt.(type) {
		case SourceDefine:
			if err := checkProgramText(fmt.Sprintf("source define %q", opt.Name), opt.Name+opt.Value); err != nil {
				return nil, err
			}
			blocks = append(blocks, fmt.Sprintf("#define %s  %s\n", opt.Name, opt.Value))
		case SourceHeader:
			if err := checkProgramText("source header", opt.Text); err != nil {
				return nil, err
			}
			blocks = append(blocks, opt.Text)
		}
	}

	emitted := make(map[string]bool, len(b.srcFiles))
	for i := len(b.srcFiles) - 1; i >= 0; i-- {
		path := b.srcFiles[i]
		if emitted[path] {
			continue
		}
		emitted[path] = true
		data, err := b.readFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cl: reading program source %q", path)
		}
		if err := checkProgramText(fmt.Sprintf("source file %q", path), string(data)); err != nil {
			return nil, err
		}
		blocks = append(blocks, string(data))
	}

	blocks = append(blocks, "\n")
	for _, opt := range b.opts {
		if opt, ok := opt.(SourceText); ok {
			if err := checkProgramText("appended source", opt.Text); err != nil {
				return nil, err
			}
			blocks = append(blocks, opt.Text)
		}
	}
	return blocks, nil
}

// AssembleCompilerOptions returns the concatenated compiler command line: a leading
// blank token, then "-D{name}={value}" per CompilerDefine, "-I{path}" per
// CompilerIncludeDir and the exact text per CompilerOption, space separated, in
// insertion order. Source-category directives are not part of the command line.
func (b *ProgramBuilder) AssembleCompilerOptions() (string, error) {
	opts := make([]string, 0, len(b.opts)+1)
	opts = append(opts, " ")
	for _, opt := range b.opts {
		switch opt := opt.(type) {
		case CompilerDefine:
			opts = append(opts, fmt.Sprintf("-D%s=%s", opt.Name, opt.Value))
		case CompilerIncludeDir:
			opts = append(opts, fmt.Sprintf("-I%s", opt.Path))
		case CompilerOption:
			opts = append(opts, opt.Text)
		}
	}
	joined := strings.Join(opts, " ")
	if err := checkProgramText("compiler options", joined); err != nil {
		return "", err
	}
	return joined, nil
}

// Build resolves the device specifier against the context's platform and builds the
// assembled sources for the resolved devices.
//
// A specifier that resolves to zero devices (or a missing specifier) fails with
// ErrNoDevices before anything reaches the native layer; so do unreadable source files
// and embedded NUL bytes. No partial program is ever returned.
func (b *ProgramBuilder) Build(ctx *Context) (*Program, error) {
	ctx.AssertValid()

	var devices []*Device
	if b.deviceSpec != nil {
		var err error
		devices, err = b.deviceSpec.ToDeviceList(ctx.Platform())
		if err != nil {
			return nil, errors.WithMessagef(err, "cl: ProgramBuilder.Build resolving devices")
		}
	}
	if len(devices) == 0 {
		return nil, errors.Wrapf(ErrNoDevices, "cl: ProgramBuilder.Build")
	}

	sources, err := b.AssembleSources()
	if err != nil {
		return nil, err
	}
	options, err := b.AssembleCompilerOptions()
	if err != nil {
		return nil, err
	}

	if klog.V(2).Enabled() {
		klog.Infof("cl: building program from %d source block(s), options %q, on %d device(s)",
			len(sources), options, len(devices))
	}
	id, err := ctx.drv.BuildProgram(ctx.id, deviceIDList(devices), sources, options)
	if err != nil {
		return nil, errors.WithMessagef(err, "cl: building program on %d device(s)", len(devices))
	}
	return &Program{
		drv:     ctx.drv,
		id:      id,
		devices: devices,
	}, nil
}

// Program is a compiled unit of device-executable code, bound to the device set it was
// built for.
type Program struct {
	drv     driver.Driver
	id      driver.ProgramID
	devices []*Device
}

// NewProgramBuilderFor is shorthand for a builder with the device specifier already set.
func NewProgramBuilderFor(spec DeviceSpecifier) *ProgramBuilder {
	b := NewProgramBuilder()
	if err := b.SetDevices(spec); err != nil {
		// Unreachable on a fresh builder.
		exceptions.Panicf("cl: %+v", err)
	}
	return b
}

// AssertValid panics if the program is nil or was already released.
func (p *Program) AssertValid() {
	if p == nil || p.drv == nil {
		exceptions.Panicf("cl: Program is nil or was already released")
	}
}

// ID returns the raw driver handle.
func (p *Program) ID() driver.ProgramID { return p.id }

// Devices returns the devices the program was built for.
func (p *Program) Devices() []*Device {
	p.AssertValid()
	return p.devices
}

// BuildStatus queries the per-device build status.
func (p *Program) BuildStatus(device *Device) (driver.BuildStatus, error) {
	p.AssertValid()
	device.AssertValid()
	return p.drv.ProgramBuildStatus(p.id, device.id)
}

// BuildLog queries the per-device build log.
func (p *Program) BuildLog(device *Device) (string, error) {
	p.AssertValid()
	device.AssertValid()
	return p.drv.ProgramBuildLog(p.id, device.id)
}

// Release destroys the native program and invalidates the handle. Safe to call more
// than once.
func (p *Program) Release() error {
	if p == nil || p.drv == nil {
		return nil
	}
	err := p.drv.ReleaseProgram(p.id)
	p.drv = nil
	p.id = 0
	return err
}
