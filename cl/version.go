package cl

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Version is a parsed platform or device version, e.g. the 1.2 of
// "OpenCL 1.2 CUDA 12.2.0".
type Version struct {
	Major int
	Minor int
}

// ParseVersion extracts the numeric version from an info string of the form
// "OpenCL <major>.<minor> <vendor specific>". The "OpenCL" prefix is matched case
// insensitively and may appear anywhere in the string; everything after the minor
// number is ignored.
func ParseVersion(info string) (Version, error) {
	for _, word := range strings.Fields(info) {
		if !strings.EqualFold(word, "opencl") {
			continue
		}
		rest := info[strings.Index(info, word)+len(word):]
		var v Version
		if _, err := fmt.Sscanf(rest, "%d.%d", &v.Major, &v.Minor); err != nil {
			return Version{}, errors.Errorf("cl: no <major>.<minor> after %q in version string %q", word, info)
		}
		return v, nil
	}
	return Version{}, errors.Errorf("cl: no \"OpenCL\" in version string %q", info)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is the given version or later.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}
