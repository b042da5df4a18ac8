// Package raster holds the flat RGBA pixel buffer every algorithm in this
// module reads and writes.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"cubemosaic/palette"

	"golang.org/x/image/draw"
)

var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// Buffer is a W×H image stored as non-premultiplied RGBA quadruplets.
// The pixel at (x, y) starts at Pix[(y*Width+x)*4].
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

func New(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Wrap validates pix against the dimensions and uses it without copying.
func Wrap(width, height int, pix []uint8) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidBuffer, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidBuffer, len(pix), width, height)
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts any image into a buffer anchored at (0, 0).
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	return &Buffer{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    dst.Pix,
	}
}

// Image exposes the buffer as an *image.NRGBA sharing the same pixels.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

func (b *Buffer) RGBAt(x, y int) palette.RGB {
	i := b.Offset(x, y)
	return palette.RGB{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

func (b *Buffer) AlphaAt(x, y int) uint8 {
	return b.Pix[b.Offset(x, y)+3]
}

// SetOpaque writes c with alpha 255.
func (b *Buffer) SetOpaque(x, y int, c palette.RGB) {
	b.setAt(b.Offset(x, y), c, 0xFF)
}

// SetRGB writes c keeping the pixel's current alpha.
func (b *Buffer) SetRGB(x, y int, c palette.RGB) {
	i := b.Offset(x, y)
	b.setAt(i, c, b.Pix[i+3])
}

func (b *Buffer) setAt(i int, c palette.RGB, a uint8) {
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = a
}

// ClampChannel rounds half to even and saturates to [0, 255], the same
// conversion a clamped byte array applies on assignment. NaN maps to 0.
func ClampChannel(v float64) uint8 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}
