package cl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	for _, test := range []struct {
		info string
		want Version
	}{
		{"OpenCL 1.2 CUDA 12.2.148", Version{1, 2}},
		{"OpenCL 2.0 ", Version{2, 0}},
		{"OpenCL 3.0", Version{3, 0}},
		{"opencl 1.1 mesa", Version{1, 1}},
		{"Some Prefix OpenCL 2.1 vendor", Version{2, 1}},
	} {
		v, err := ParseVersion(test.info)
		require.NoError(t, err, "parsing %q", test.info)
		require.Equal(t, test.want, v, "parsing %q", test.info)
	}
}

func TestParseVersionErrors(t *testing.T) {
	for _, info := range []string{
		"",
		"CUDA 12.2",
		"OpenCL",
		"OpenCL x.y",
	} {
		_, err := ParseVersion(info)
		require.Error(t, err, "parsing %q", info)
	}
}

func TestVersionAtLeast(t *testing.T) {
	v := Version{1, 2}
	require.True(t, v.AtLeast(1, 2))
	require.True(t, v.AtLeast(1, 0))
	require.True(t, v.AtLeast(0, 9))
	require.False(t, v.AtLeast(1, 3))
	require.False(t, v.AtLeast(2, 0))
	require.Equal(t, "1.2", v.String())
}
