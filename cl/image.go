package cl

import (
	"fmt"
	"unsafe"

	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
)

// ChannelOrder is the layout of channels within an image pixel.
type ChannelOrder uint32

const (
	ChannelOrderR            ChannelOrder = 0x10B0
	ChannelOrderA            ChannelOrder = 0x10B1
	ChannelOrderRG           ChannelOrder = 0x10B2
	ChannelOrderRA           ChannelOrder = 0x10B3
	ChannelOrderRGB          ChannelOrder = 0x10B4
	ChannelOrderRGBA         ChannelOrder = 0x10B5
	ChannelOrderBGRA         ChannelOrder = 0x10B6
	ChannelOrderARGB         ChannelOrder = 0x10B7
	ChannelOrderIntensity    ChannelOrder = 0x10B8
	ChannelOrderLuminance    ChannelOrder = 0x10B9
	ChannelOrderRx           ChannelOrder = 0x10BA
	ChannelOrderRGx          ChannelOrder = 0x10BB
	ChannelOrderRGBx         ChannelOrder = 0x10BC
	ChannelOrderDepth        ChannelOrder = 0x10BD
	ChannelOrderDepthStencil ChannelOrder = 0x10BE
)

// channelCounts maps each order to the number of channels in one pixel.
var channelCounts = map[ChannelOrder]int{
	ChannelOrderR:            1,
	ChannelOrderA:            1,
	ChannelOrderRG:           2,
	ChannelOrderRA:           2,
	ChannelOrderRGB:          3,
	ChannelOrderRGBA:         4,
	ChannelOrderBGRA:         4,
	ChannelOrderARGB:         4,
	ChannelOrderIntensity:    1,
	ChannelOrderLuminance:    1,
	ChannelOrderRx:           1,
	ChannelOrderRGx:          2,
	ChannelOrderRGBx:         3,
	ChannelOrderDepth:        1,
	ChannelOrderDepthStencil: 1,
}

// ChannelCount returns the number of channels in one pixel of this order.
func (o ChannelOrder) ChannelCount() int {
	n, ok := channelCounts[o]
	if !ok {
		exceptions.Panicf("cl: unknown ChannelOrder %#x", uint32(o))
	}
	return n
}

// ChannelDataType is the numeric representation of one image channel.
type ChannelDataType uint32

const (
	ChannelTypeSNormInt8      ChannelDataType = 0x10D0
	ChannelTypeSNormInt16     ChannelDataType = 0x10D1
	ChannelTypeUNormInt8      ChannelDataType = 0x10D2
	ChannelTypeUNormInt16     ChannelDataType = 0x10D3
	ChannelTypeUNormShort565  ChannelDataType = 0x10D4
	ChannelTypeUNormShort555  ChannelDataType = 0x10D5
	ChannelTypeUNormInt101010 ChannelDataType = 0x10D6
	ChannelTypeSignedInt8     ChannelDataType = 0x10D7
	ChannelTypeSignedInt16    ChannelDataType = 0x10D8
	ChannelTypeSignedInt32    ChannelDataType = 0x10D9
	ChannelTypeUnsignedInt8   ChannelDataType = 0x10DA
	ChannelTypeUnsignedInt16  ChannelDataType = 0x10DB
	ChannelTypeUnsignedInt32  ChannelDataType = 0x10DC
	ChannelTypeHalfFloat      ChannelDataType = 0x10DD
	ChannelTypeFloat          ChannelDataType = 0x10DE
	ChannelTypeUNormInt24     ChannelDataType = 0x10DF
)

// channelBytes maps each data type to the byte size of one channel. Packed types
// (565, 555, 101010) count the whole packed pixel.
var channelBytes = map[ChannelDataType]int{
	ChannelTypeSNormInt8:      1,
	ChannelTypeSNormInt16:     2,
	ChannelTypeUNormInt8:      1,
	ChannelTypeUNormInt16:     2,
	ChannelTypeUNormShort565:  2,
	ChannelTypeUNormShort555:  2,
	ChannelTypeUNormInt101010: 4,
	ChannelTypeSignedInt8:     1,
	ChannelTypeSignedInt16:    2,
	ChannelTypeSignedInt32:    4,
	ChannelTypeUnsignedInt8:   1,
	ChannelTypeUnsignedInt16:  2,
	ChannelTypeUnsignedInt32:  4,
	ChannelTypeHalfFloat:      2,
	ChannelTypeFloat:          4,
	ChannelTypeUNormInt24:     3,
}

// isPacked reports whether the data type packs all channels of a pixel in one value.
func (t ChannelDataType) isPacked() bool {
	switch t {
	case ChannelTypeUNormShort565, ChannelTypeUNormShort555, ChannelTypeUNormInt101010:
		return true
	}
	return false
}

// Bytes returns the byte size of one channel value (of one whole pixel for packed
// types).
func (t ChannelDataType) Bytes() int {
	n, ok := channelBytes[t]
	if !ok {
		exceptions.Panicf("cl: unknown ChannelDataType %#x", uint32(t))
	}
	return n
}

// ImageFormat pairs a channel order with a channel data type.
type ImageFormat struct {
	Order    ChannelOrder
	DataType ChannelDataType
}

// PixelBytes returns the byte size of one pixel in this format.
func (f ImageFormat) PixelBytes() int {
	if f.DataType.isPacked() {
		return f.DataType.Bytes()
	}
	return f.Order.ChannelCount() * f.DataType.Bytes()
}

// ToRaw converts to the wire structure.
func (f ImageFormat) ToRaw() driver.ImageFormat {
	return driver.ImageFormat{
		ChannelOrder:    uint32(f.Order),
		ChannelDataType: uint32(f.DataType),
	}
}

// ImageFormatFromRaw converts from the wire structure.
func ImageFormatFromRaw(raw driver.ImageFormat) ImageFormat {
	return ImageFormat{
		Order:    ChannelOrder(raw.ChannelOrder),
		DataType: ChannelDataType(raw.ChannelDataType),
	}
}

func (f ImageFormat) String() string {
	return fmt.Sprintf("ImageFormat{order: %#x, type: %#x, pixel: %d bytes}",
		uint32(f.Order), uint32(f.DataType), f.PixelBytes())
}

// MemObjectType selects the dimensionality of an image.
type MemObjectType uint32

const (
	MemObjectBuffer        MemObjectType = 0x10F0
	MemObjectImage2D       MemObjectType = 0x10F1
	MemObjectImage3D       MemObjectType = 0x10F2
	MemObjectImage2DArray  MemObjectType = 0x10F3
	MemObjectImage1D       MemObjectType = 0x10F4
	MemObjectImage1DArray  MemObjectType = 0x10F5
	MemObjectImage1DBuffer MemObjectType = 0x10F6
)

// ImageDescriptor describes the shape of an image. Zero pitches let the driver compute
// them from width and pixel size.
type ImageDescriptor struct {
	Type       MemObjectType
	Width      int
	Height     int
	Depth      int
	ArraySize  int
	RowPitch   int
	SlicePitch int

	// Buffer backs 1D image-buffer types; nil otherwise.
	Buffer *Buffer
}

// ToRaw converts to the wire structure.
func (d ImageDescriptor) ToRaw() driver.ImageDesc {
	raw := driver.ImageDesc{
		Type:       uint32(d.Type),
		Width:      d.Width,
		Height:     d.Height,
		Depth:      d.Depth,
		ArraySize:  d.ArraySize,
		RowPitch:   d.RowPitch,
		SlicePitch: d.SlicePitch,
	}
	if d.Buffer != nil {
		raw.Buffer = d.Buffer.ID()
	}
	return raw
}

// BufferRegion is an element-addressed (origin, length) window of a buffer of T,
// converted to the byte-addressed wire form by ToRaw.
type BufferRegion[T Scalar] struct {
	Origin int
	Len    int
}

// ToRaw scales the element-addressed window by the element size.
func (r BufferRegion[T]) ToRaw() driver.BufferRegion {
	elemBytes := int(unsafe.Sizeof(*new(T)))
	return driver.BufferRegion{
		Origin: r.Origin * elemBytes,
		Size:   r.Len * elemBytes,
	}
}
