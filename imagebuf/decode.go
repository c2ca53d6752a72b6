package imagebuf

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"slices"

	// registered decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes an image in any registered format into a buffer.
// It returns the buffer and the format name reported by the codec.
func Decode(r io.Reader) (*Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), format, nil
}

// DecodeConfig reads only the header of an image.
func DecodeConfig(r io.Reader) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg, format, nil
}

type opaquer interface {
	Opaque() bool
}

// FromImage converts img to a buffer.
//
// Grayscale and paletted images become single channel buffers, 16-bit images
// keep their depth, opaque color images drop the alpha channel and
// translucent ones are stored non-premultiplied.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()

	switch src := img.(type) {
	case *image.Gray:
		buf := newBuffer(bounds.Dy(), bounds.Dx(), ModeL, Uint8)
		each(bounds, buf.Channels, func(y, x, i int) {
			buf.Pix8[i] = src.GrayAt(x, y).Y
		})
		return buf

	case *image.Gray16:
		buf := newBuffer(bounds.Dy(), bounds.Dx(), ModeI16, Uint16)
		each(bounds, buf.Channels, func(y, x, i int) {
			buf.Pix16[i] = src.Gray16At(x, y).Y
		})
		return buf

	case *image.Paletted:
		buf := newBuffer(bounds.Dy(), bounds.Dx(), ModeP, Uint8)
		buf.Palette = slices.Clone(src.Palette)
		each(bounds, buf.Channels, func(y, x, i int) {
			buf.Pix8[i] = src.ColorIndexAt(x, y)
		})
		return buf

	case *image.YCbCr:
		buf := newBuffer(bounds.Dy(), bounds.Dx(), ModeRGB, Uint8)
		each(bounds, buf.Channels, func(y, x, i int) {
			c := src.YCbCrAt(x, y)
			r, g, b := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
			buf.Pix8[i], buf.Pix8[i+1], buf.Pix8[i+2] = r, g, b
		})
		return buf

	case *image.CMYK:
		buf := newBuffer(bounds.Dy(), bounds.Dx(), ModeCMYK, Uint8)
		each(bounds, buf.Channels, func(y, x, i int) {
			c := src.CMYKAt(x, y)
			buf.Pix8[i], buf.Pix8[i+1], buf.Pix8[i+2], buf.Pix8[i+3] = c.C, c.M, c.Y, c.K
		})
		return buf

	case *image.RGBA64, *image.NRGBA64:
		return fromImage16(img)
	}

	return fromImage8(img)
}

// fromImage8 converts any image to 8-bit RGB or RGBA.
func fromImage8(img image.Image) *Buffer {
	bounds := img.Bounds()
	mode := ModeRGBA
	if o, ok := img.(opaquer); ok && o.Opaque() {
		mode = ModeRGB
	}

	buf := newBuffer(bounds.Dy(), bounds.Dx(), mode, Uint8)
	each(bounds, buf.Channels, func(y, x, i int) {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		buf.Pix8[i], buf.Pix8[i+1], buf.Pix8[i+2] = c.R, c.G, c.B
		if mode == ModeRGBA {
			buf.Pix8[i+3] = c.A
		}
	})
	return buf
}

// fromImage16 converts any image to 16-bit RGB or RGBA.
func fromImage16(img image.Image) *Buffer {
	bounds := img.Bounds()
	mode := ModeRGBA
	if o, ok := img.(opaquer); ok && o.Opaque() {
		mode = ModeRGB
	}

	buf := newBuffer(bounds.Dy(), bounds.Dx(), mode, Uint16)
	each(bounds, buf.Channels, func(y, x, i int) {
		c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
		buf.Pix16[i], buf.Pix16[i+1], buf.Pix16[i+2] = c.R, c.G, c.B
		if mode == ModeRGBA {
			buf.Pix16[i+3] = c.A
		}
	})
	return buf
}

// each calls fn for every pixel of bounds with image coordinates and the
// offset of the pixel's first sample in a buffer with the given channel count.
func each(bounds image.Rectangle, channels int, fn func(y, x, i int)) {
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			fn(y, x, i)
			i += channels
		}
	}
}
