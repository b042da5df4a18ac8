package mosaic

import (
	"fmt"
	"image"
	"image/color"

	"cubemosaic/palette"

	"golang.org/x/image/draw"
)

// Outline is the colour between stickers in a preview.
type Outline string

const (
	// OutlineNone draws stickerless cubes: faces are solid colour blocks.
	OutlineNone  Outline = "stickerless"
	OutlineWhite Outline = "white"
	OutlineBlack Outline = "black"
)

func (o Outline) color() (color.Color, bool) {
	switch o {
	case OutlineWhite:
		return color.White, true
	case OutlineBlack:
		return color.Black, true
	}
	return nil, false
}

// Render draws m with every sticker stickerPx pixels wide. With an outline
// each sticker leaves a one pixel gap on its top and left edges, filled
// with the outline colour. Missing cubes are drawn white.
func Render(m *Mosaic, stickerPx int, outline Outline) (*image.NRGBA, error) {
	if stickerPx < 1 {
		return nil, fmt.Errorf("invalid sticker size: %d", stickerPx)
	}

	n := m.CubeType.Size()
	cubePx := stickerPx * n
	bounds := image.Rect(0, 0, m.Width*cubePx, m.Height*cubePx)
	dest := image.NewNRGBA(bounds)

	gap := 0
	if bg, ok := outline.color(); ok {
		draw.Draw(dest, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
		if stickerPx > 1 {
			gap = 1
		}
	}

	faces := make(map[Position][][]string, len(m.Cubes))
	for _, c := range m.Cubes {
		faces[c.Position] = c.Face.Stickers
	}

	for row := range m.Height {
		for col := range m.Width {
			stickers := faces[Position{Row: row, Col: col}]
			for sr := range n {
				for sc := range n {
					c := palette.White.Color
					if sr < len(stickers) && sc < len(stickers[sr]) {
						c = stickerColor(stickers[sr][sc])
					}
					x := col*cubePx + sc*stickerPx
					y := row*cubePx + sr*stickerPx
					r := image.Rect(x+gap, y+gap, x+stickerPx, y+stickerPx)
					draw.Draw(dest, r, image.NewUniform(c), image.Point{}, draw.Src)
				}
			}
		}
	}

	return dest, nil
}
