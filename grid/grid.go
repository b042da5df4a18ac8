// Package grid maps a source buffer of any size onto the sticker plane of
// a cube mosaic.
package grid

import (
	"errors"
	"fmt"

	"cubemosaic/palette"
	"cubemosaic/raster"
)

var ErrInvalidGrid = errors.New("invalid grid")

// Cells holds one sampled colour per sticker. Colors is row-major over the
// whole sticker plane, which is Cols*Stickers wide and Rows*Stickers high.
type Cells struct {
	Cols     int
	Rows     int
	Stickers int
	Colors   []palette.RGB
}

func newCells(cols, rows, n int) *Cells {
	return &Cells{
		Cols:     cols,
		Rows:     rows,
		Stickers: n,
		Colors:   make([]palette.RGB, cols*n*rows*n),
	}
}

func (c *Cells) index(cubeRow, cubeCol, stickerRow, stickerCol int) int {
	y := cubeRow*c.Stickers + stickerRow
	x := cubeCol*c.Stickers + stickerCol
	return y*c.Cols*c.Stickers + x
}

func (c *Cells) At(cubeRow, cubeCol, stickerRow, stickerCol int) palette.RGB {
	return c.Colors[c.index(cubeRow, cubeCol, stickerRow, stickerCol)]
}

func (c *Cells) set(cubeRow, cubeCol, stickerRow, stickerCol int, v palette.RGB) {
	c.Colors[c.index(cubeRow, cubeCol, stickerRow, stickerCol)] = v
}

// Validate checks the grid shape. Cubes come in 2x2, 3x3 and 4x4.
func Validate(cols, rows, n int) error {
	switch {
	case cols <= 0 || rows <= 0:
		return fmt.Errorf("%w: %dx%d cubes", ErrInvalidGrid, cols, rows)
	case n < 2 || n > 4:
		return fmt.Errorf("%w: %d stickers per side, should be 2, 3 or 4", ErrInvalidGrid, n)
	}
	return nil
}

// Sample picks one source pixel per sticker. Each cube covers
// floor(W/cols) x floor(H/rows) source pixels and its stickers start at
// proportional offsets inside that block. No averaging takes place.
func Sample(buf *raster.Buffer, cols, rows, n int) (*Cells, error) {
	if err := Validate(cols, rows, n); err != nil {
		return nil, err
	}
	if buf.Width == 0 || buf.Height == 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidGrid)
	}

	px := buf.Width / cols
	py := buf.Height / rows
	cells := newCells(cols, rows, n)

	for row := range rows {
		for col := range cols {
			for sr := range n {
				sy := clamp(row*py+sr*py/n, buf.Height-1)
				for sc := range n {
					sx := clamp(col*px+sc*px/n, buf.Width-1)
					cells.set(row, col, sr, sc, buf.RGBAt(sx, sy))
				}
			}
		}
	}
	return cells, nil
}

// SampleExact maps pixels 1:1 to stickers. buf must already measure
// cols*n x rows*n, see ResizeToGrid.
func SampleExact(buf *raster.Buffer, cols, rows, n int) (*Cells, error) {
	if err := Validate(cols, rows, n); err != nil {
		return nil, err
	}
	if buf.Width != cols*n || buf.Height != rows*n {
		return nil, fmt.Errorf("%w: source is %dx%d, expected %dx%d", ErrInvalidGrid,
			buf.Width, buf.Height, cols*n, rows*n)
	}

	cells := newCells(cols, rows, n)
	for y := range buf.Height {
		for x := range buf.Width {
			cells.Colors[y*buf.Width+x] = buf.RGBAt(x, y)
		}
	}
	return cells, nil
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}
