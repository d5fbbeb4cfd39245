package soft

import (
	"strings"

	"github.com/gocl/gocl/driver"
	"github.com/pkg/errors"
)

// BuildProgram concatenates the source blocks and "builds" them: there is no real
// compiler, but a block containing the directive "#error" fails the build the way a real
// front end would, so build status and build logs have observable behavior.
func (d *Driver) BuildProgram(c driver.ContextID, devices []driver.DeviceID, sources []string, options string) (driver.ProgramID, error) {
	if len(devices) == 0 {
		return 0, errors.Errorf("driver %q: BuildProgram with no devices", DriverName)
	}
	if len(sources) == 0 {
		return 0, errors.Errorf("driver %q: BuildProgram with no sources", DriverName)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.contexts[c]; !found {
		return 0, errors.Errorf("driver %q: unknown context %#x", DriverName, uintptr(c))
	}
	for _, dev := range devices {
		if d.deviceIndex(dev) < 0 {
			return 0, errors.Errorf("driver %q: unknown device %#x", DriverName, uintptr(dev))
		}
	}
	for i, src := range sources {
		if idx := strings.Index(src, "#error"); idx >= 0 {
			line := 1 + strings.Count(src[:idx], "\n")
			msg := src[idx:]
			if nl := strings.IndexByte(msg, '\n'); nl >= 0 {
				msg = msg[:nl]
			}
			return 0, errors.Errorf("driver %q: build failed: source block %d, line %d: %s",
				DriverName, i, line, msg)
		}
	}
	id := driver.ProgramID(d.newID())
	p := &program{
		devices: append([]driver.DeviceID(nil), devices...),
		sources: append([]string(nil), sources...),
		options: options,
		status:  make(map[driver.DeviceID]driver.BuildStatus, len(devices)),
		log:     make(map[driver.DeviceID]string, len(devices)),
	}
	for _, dev := range devices {
		p.status[dev] = driver.BuildSuccess
		p.log[dev] = ""
	}
	d.programs[id] = p
	return id, nil
}

func (d *Driver) lockedProgram(id driver.ProgramID, dev driver.DeviceID) (*program, error) {
	p, found := d.programs[id]
	if !found {
		return nil, errors.Errorf("driver %q: unknown program %#x", DriverName, uintptr(id))
	}
	if _, found := p.status[dev]; !found {
		return nil, errors.Errorf("driver %q: program %#x was not built for device %#x",
			DriverName, uintptr(id), uintptr(dev))
	}
	return p, nil
}

func (d *Driver) ProgramBuildStatus(id driver.ProgramID, dev driver.DeviceID) (driver.BuildStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.lockedProgram(id, dev)
	if err != nil {
		return driver.BuildNone, err
	}
	return p.status[dev], nil
}

func (d *Driver) ProgramBuildLog(id driver.ProgramID, dev driver.DeviceID) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.lockedProgram(id, dev)
	if err != nil {
		return "", err
	}
	return p.log[dev], nil
}

func (d *Driver) ReleaseProgram(id driver.ProgramID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.programs[id]; !found {
		return errors.Errorf("driver %q: release of unknown program %#x", DriverName, uintptr(id))
	}
	delete(d.programs, id)
	return nil
}

// ProgramSource returns the concatenated source the program was built from. This is a
// soft-driver extra (the native info query for it is not part of driver.Driver) used by
// tests and tooling.
func (d *Driver) ProgramSource(id driver.ProgramID) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, found := d.programs[id]
	if !found {
		return "", errors.Errorf("driver %q: unknown program %#x", DriverName, uintptr(id))
	}
	return strings.Join(p.sources, ""), nil
}
