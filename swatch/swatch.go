package swatch

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"cubemosaic/palette"

	"golang.org/x/image/draw"
)

// Render lays the palette out as a strip of tile x tile squares.
func Render(pal palette.Palette, tile int) (*image.NRGBA, error) {
	if len(pal) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tile <= 0 {
		tile = 64
	}

	img := image.NewNRGBA(image.Rect(0, 0, tile*len(pal), tile))
	for i, c := range pal {
		r := image.Rect(i*tile, 0, (i+1)*tile, tile)
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img, nil
}

// Format is a palette file format.
type Format string

const (
	FormatPAL  Format = "pal"
	FormatText Format = "txt"
	FormatPNG  Format = "png"
)

// FormatOf guesses the format from a file extension, defaulting to text.
func FormatOf(path string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "pal":
		return FormatPAL
	case "png":
		return FormatPNG
	}
	return FormatText
}

// Write encodes pal in the given format. PNG output is a swatch strip.
func Write(w io.Writer, pal palette.Palette, format Format) error {
	switch format {
	case FormatPAL:
		_, err := palette.WriteRIFF(w, pal)
		return err
	case FormatPNG:
		img, err := Render(pal, 0)
		if err != nil {
			return err
		}
		return png.Encode(w, img)
	default:
		return palette.WriteText(w, pal)
	}
}
