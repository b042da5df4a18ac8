package batch

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"cubemosaic/fileop"
	"cubemosaic/palette"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

func save(img image.Image, pal palette.Palette, imgType, outType, destDir, srcName string) error {
	outType, unsupOnly := strings.CutPrefix(outType, "unsup:")
	if (unsupOnly && (imgType != "webp")) || (outType == "same") {
		outType = imgType
	}

	destName := fileop.ReplaceExt(srcName, outType)
	dest := filepath.Join(destDir, destName)

	return fileop.WriteAtomic(dest, func(w io.Writer) error {
		return encode(w, img, pal, outType, destName)
	})
}

func encode(w io.Writer, img image.Image, pal palette.Palette, outType, destName string) error {
	switch outType {
	case "gif":
		// Quantized pixels are palette colours, so the indexed copy is exact.
		if err := gif.Encode(w, paletted(img, pal), nil); err != nil {
			return fmt.Errorf("could not encode GIF destination %q: %w", destName, err)
		}
	case "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG destination %q: %w", destName, err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, paletted(img, pal)); err != nil {
			return fmt.Errorf("could not encode PNG destination %q: %w", destName, err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP destination %q: %w", destName, err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF destination %q: %w", destName, err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outType)
	}
	return nil
}

// paletted converts img to an indexed image over pal. Palettes too large
// to index leave img as it is.
func paletted(img image.Image, pal palette.Palette) image.Image {
	if len(pal) == 0 || len(pal) > 256 {
		return img
	}
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal.Color())
	draw.Draw(dest, dr, img, sr.Min, draw.Src)
	return dest
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
