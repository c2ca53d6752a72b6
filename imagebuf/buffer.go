// Package imagebuf decodes images into dense, row-major sample arrays.
package imagebuf

import (
	"fmt"
	"image/color"
)

// DType is the element type of a buffer's samples.
type DType int

const (
	Uint8 DType = iota
	Uint16
)

// String returns the string representation of the element type.
func (d DType) String() string {
	switch d {
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	default:
		return "unknown"
	}
}

// Mode names the channel layout of a buffer.
type Mode string

const (
	// ModeL is 8-bit grayscale, one channel.
	ModeL Mode = "L"
	// ModeI16 is 16-bit grayscale, one channel.
	ModeI16 Mode = "I;16"
	// ModeP holds palette indices, one channel. Buffer.Palette maps them to colors.
	ModeP    Mode = "P"
	ModeRGB  Mode = "RGB"
	ModeRGBA Mode = "RGBA"
	ModeCMYK Mode = "CMYK"
)

// Channels returns the number of samples per pixel for the mode.
func (m Mode) Channels() int {
	switch m {
	case ModeL, ModeI16, ModeP:
		return 1
	case ModeRGB:
		return 3
	case ModeRGBA, ModeCMYK:
		return 4
	default:
		return 0
	}
}

// Buffer is a decoded image laid out as height x width x channels samples.
// Exactly one of Pix8 and Pix16 is populated, matching DType.
type Buffer struct {
	Height   int
	Width    int
	Channels int
	Mode     Mode
	DType    DType

	Pix8  []uint8
	Pix16 []uint16

	// Palette is set for ModeP buffers.
	Palette color.Palette
}

func newBuffer(height, width int, mode Mode, dtype DType) *Buffer {
	b := &Buffer{
		Height:   height,
		Width:    width,
		Channels: mode.Channels(),
		Mode:     mode,
		DType:    dtype,
	}
	n := height * width * b.Channels
	if dtype == Uint16 {
		b.Pix16 = make([]uint16, n)
	} else {
		b.Pix8 = make([]uint8, n)
	}
	return b
}

// Shape returns (height, width) for single channel buffers and
// (height, width, channels) otherwise.
func (b *Buffer) Shape() []int {
	if b.Channels == 1 {
		return []int{b.Height, b.Width}
	}
	return []int{b.Height, b.Width, b.Channels}
}

// Len returns the total number of samples.
func (b *Buffer) Len() int {
	return b.Height * b.Width * b.Channels
}

func (b *Buffer) offset(y, x, c int) int {
	return (y*b.Width+x)*b.Channels + c
}

// At returns the sample at row y, column x and channel c.
func (b *Buffer) At(y, x, c int) int {
	if y < 0 || y >= b.Height || x < 0 || x >= b.Width || c < 0 || c >= b.Channels {
		panic(fmt.Sprintf("imagebuf: index (%d, %d, %d) out of range for shape %v", y, x, c, b.Shape()))
	}
	i := b.offset(y, x, c)
	if b.DType == Uint16 {
		return int(b.Pix16[i])
	}
	return int(b.Pix8[i])
}

// Pixel returns all channel samples of the pixel at row y, column x.
func (b *Buffer) Pixel(y, x int) []int {
	out := make([]int, b.Channels)
	for c := range out {
		out[c] = b.At(y, x, c)
	}
	return out
}

// String describes the buffer like "RGB uint8 [480 640 3]".
func (b *Buffer) String() string {
	return fmt.Sprintf("%s %s %v", b.Mode, b.DType, b.Shape())
}
