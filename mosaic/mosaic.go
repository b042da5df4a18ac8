// Package mosaic holds the cube grid produced from a sampled image, the
// editing helpers around it and the .rm project file format.
package mosaic

import (
	"errors"
	"fmt"
	"slices"

	"cubemosaic/grid"
	"cubemosaic/palette"
)

var ErrInvalidMosaic = errors.New("invalid mosaic")

// EmptySticker is the colour of a sticker nobody has set yet.
var EmptySticker = palette.RGBToHex(palette.White.Color)

type CubeType string

const (
	Cube2x2 CubeType = "2x2"
	Cube3x3 CubeType = "3x3"
	Cube4x4 CubeType = "4x4"
)

// Size is the number of stickers per side. Unknown types count as 3x3.
func (t CubeType) Size() int {
	switch t {
	case Cube2x2:
		return 2
	case Cube4x4:
		return 4
	default:
		return 3
	}
}

func (t CubeType) Valid() bool {
	return t == Cube2x2 || t == Cube3x3 || t == Cube4x4
}

// CubeTypeOf returns the cube type with n stickers per side.
func CubeTypeOf(n int) (CubeType, error) {
	switch n {
	case 2:
		return Cube2x2, nil
	case 3:
		return Cube3x3, nil
	case 4:
		return Cube4x4, nil
	}
	return "", fmt.Errorf("%w: no %dx%d cube", ErrInvalidMosaic, n, n)
}

type Face struct {
	Stickers [][]string `json:"stickers"`
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Cube struct {
	Face     Face     `json:"face"`
	Position Position `json:"position"`
}

// Mosaic is a Width x Height wall of cube faces. Cubes may be sparse: a
// position without a cube is shown as an empty one.
type Mosaic struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	CubeType CubeType `json:"cubeType"`
	Cubes    []Cube   `json:"cubes"`
}

// New returns a mosaic without any cubes.
func New(width, height int, cubeType CubeType) *Mosaic {
	return &Mosaic{
		Width:    width,
		Height:   height,
		CubeType: cubeType,
		Cubes:    []Cube{},
	}
}

// EmptyCube returns an all-white cube at (row, col).
func EmptyCube(row, col int, cubeType CubeType) Cube {
	n := cubeType.Size()
	stickers := make([][]string, n)
	for i := range stickers {
		stickers[i] = slices.Repeat([]string{EmptySticker}, n)
	}
	return Cube{
		Face:     Face{Stickers: stickers},
		Position: Position{Row: row, Col: col},
	}
}

// Generate snaps every sampled sticker to its nearest colour in pal and
// lays the cubes out row by row.
func Generate(cells *grid.Cells, pal palette.Palette) (*Mosaic, error) {
	if len(pal) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidMosaic)
	}
	cubeType, err := CubeTypeOf(cells.Stickers)
	if err != nil {
		return nil, err
	}

	m := New(cells.Cols, cells.Rows, cubeType)
	m.Cubes = make([]Cube, 0, cells.Cols*cells.Rows)
	n := cells.Stickers
	for row := range cells.Rows {
		for col := range cells.Cols {
			stickers := make([][]string, n)
			for sr := range n {
				stickers[sr] = make([]string, n)
				for sc := range n {
					stickers[sr][sc] = palette.RGBToHex(pal.Nearest(cells.At(row, col, sr, sc)))
				}
			}
			m.Cubes = append(m.Cubes, Cube{
				Face:     Face{Stickers: stickers},
				Position: Position{Row: row, Col: col},
			})
		}
	}
	return m, nil
}

// CubeAt returns the cube at (row, col), if present.
func (m *Mosaic) CubeAt(row, col int) (Cube, bool) {
	for _, c := range m.Cubes {
		if c.Position.Row == row && c.Position.Col == col {
			return c, true
		}
	}
	return Cube{}, false
}

// Resize changes the wall dimensions and drops cubes that fall outside.
// Sticker rows are shared with m.
func (m *Mosaic) Resize(width, height int) *Mosaic {
	out := *m
	out.Width = width
	out.Height = height
	out.Cubes = slices.DeleteFunc(slices.Clone(m.Cubes), func(c Cube) bool {
		return c.Position.Row >= height || c.Position.Col >= width
	})
	return &out
}

// Fill returns a copy of c with every sticker set to hex.
func (c Cube) Fill(hex string) Cube {
	stickers := make([][]string, len(c.Face.Stickers))
	for i, row := range c.Face.Stickers {
		stickers[i] = slices.Repeat([]string{hex}, len(row))
	}
	c.Face = Face{Stickers: stickers}
	return c
}

// Clear returns a copy of c with every sticker reset to white.
func (c Cube) Clear() Cube {
	return c.Fill(EmptySticker)
}

// UsedColors lists the distinct non-white sticker colours in order of
// first appearance. Colours are compared by value, not by spelling.
func (m *Mosaic) UsedColors() []palette.RGB {
	white := palette.White.Color
	seen := make(map[palette.RGB]bool)
	var used []palette.RGB
	for _, cube := range m.Cubes {
		for _, row := range cube.Face.Stickers {
			for _, s := range row {
				if s == "" {
					continue
				}
				c := palette.HexToRGB(s)
				if c == white || seen[c] {
					continue
				}
				seen[c] = true
				used = append(used, c)
			}
		}
	}
	return used
}

// Count tallies stickers per colour, white included.
func (m *Mosaic) Count() map[palette.RGB]int {
	counts := make(map[palette.RGB]int)
	for _, cube := range m.Cubes {
		for _, row := range cube.Face.Stickers {
			for _, s := range row {
				counts[stickerColor(s)]++
			}
		}
	}
	return counts
}

func stickerColor(s string) palette.RGB {
	if s == "" {
		return palette.White.Color
	}
	return palette.HexToRGB(s)
}

// Validate checks the shape of m: a known cube type, positive dimensions,
// cubes within bounds with square faces of the right size and parseable
// colours.
func (m *Mosaic) Validate() error {
	if !m.CubeType.Valid() {
		return fmt.Errorf("%w: cube type %q", ErrInvalidMosaic, m.CubeType)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidMosaic, m.Width, m.Height)
	}

	n := m.CubeType.Size()
	for i, c := range m.Cubes {
		p := c.Position
		if p.Row < 0 || p.Row >= m.Height || p.Col < 0 || p.Col >= m.Width {
			return fmt.Errorf("%w: cube %d at (%d,%d) outside %dx%d", ErrInvalidMosaic, i, p.Row, p.Col,
				m.Width, m.Height)
		}
		if len(c.Face.Stickers) != n {
			return fmt.Errorf("%w: cube %d has %d sticker rows, expected %d", ErrInvalidMosaic, i,
				len(c.Face.Stickers), n)
		}
		for r, row := range c.Face.Stickers {
			if len(row) != n {
				return fmt.Errorf("%w: cube %d row %d has %d stickers, expected %d", ErrInvalidMosaic, i, r,
					len(row), n)
			}
			for _, s := range row {
				if s == "" {
					continue
				}
				if _, err := palette.ParseHex(s); err != nil {
					return fmt.Errorf("%w: cube %d: %w", ErrInvalidMosaic, i, err)
				}
			}
		}
	}
	return nil
}
