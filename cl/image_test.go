package cl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageFormatPixelBytes(t *testing.T) {
	for _, test := range []struct {
		format ImageFormat
		want   int
	}{
		{ImageFormat{ChannelOrderRGBA, ChannelTypeUNormInt8}, 4},
		{ImageFormat{ChannelOrderRGBA, ChannelTypeFloat}, 16},
		{ImageFormat{ChannelOrderRGBA, ChannelTypeHalfFloat}, 8},
		{ImageFormat{ChannelOrderR, ChannelTypeSignedInt32}, 4},
		{ImageFormat{ChannelOrderLuminance, ChannelTypeUNormInt16}, 2},
		// Packed types size the whole pixel regardless of the channel count.
		{ImageFormat{ChannelOrderRGB, ChannelTypeUNormShort565}, 2},
		{ImageFormat{ChannelOrderRGB, ChannelTypeUNormInt101010}, 4},
	} {
		require.Equal(t, test.want, test.format.PixelBytes(), "%v", test.format)
	}
}

func TestImageFormatRawRoundTrip(t *testing.T) {
	f := ImageFormat{ChannelOrderBGRA, ChannelTypeUNormInt8}
	raw := f.ToRaw()
	require.Equal(t, uint32(0x10B6), raw.ChannelOrder)
	require.Equal(t, uint32(0x10D2), raw.ChannelDataType)
	require.Equal(t, f, ImageFormatFromRaw(raw))
}

func TestImageDescriptorToRaw(t *testing.T) {
	d := ImageDescriptor{
		Type:   MemObjectImage2D,
		Width:  640,
		Height: 480,
	}
	raw := d.ToRaw()
	require.Equal(t, uint32(0x10F1), raw.Type)
	require.Equal(t, 640, raw.Width)
	require.Equal(t, 480, raw.Height)
	require.Zero(t, raw.Buffer)
}

func TestBufferRegionToRaw(t *testing.T) {
	r := BufferRegion[float32]{Origin: 3, Len: 5}
	raw := r.ToRaw()
	require.Equal(t, 12, raw.Origin)
	require.Equal(t, 20, raw.Size)

	half := BufferRegion[Half]{Origin: 2, Len: 2}.ToRaw()
	require.Equal(t, 4, half.Origin)
	require.Equal(t, 4, half.Size)
}

func TestUnknownChannelOrderPanics(t *testing.T) {
	require.Panics(t, func() { ChannelOrder(0).ChannelCount() })
	require.Panics(t, func() { ChannelDataType(0).Bytes() })
}
