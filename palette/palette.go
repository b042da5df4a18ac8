package palette

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// RGB is an opaque 8-bit colour. Alpha never takes part in matching.
type RGB struct {
	R, G, B uint8
}

var Black = RGB{}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

func (c RGB) String() string {
	return RGBToHex(c)
}

// Brightness is the plain channel sum used to order gradient bands.
func (c RGB) Brightness() int {
	return int(c.R) + int(c.G) + int(c.B)
}

// FromColor drops alpha after un-premultiplying.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// HexToRGB parses "#RRGGBB" or "RRGGBB" in either case. Anything else
// yields black rather than an error.
func HexToRGB(s string) RGB {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Black
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Black
	}
	return RGB{R: b[0], G: b[1], B: b[2]}
}

func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex is the strict form of HexToRGB for user input.
func ParseHex(s string) (RGB, error) {
	t := strings.TrimPrefix(s, "#")
	if len(t) != 6 {
		return Black, fmt.Errorf("invalid colour %q, should be #RRGGBB", s)
	}
	b, err := hex.DecodeString(t)
	if err != nil {
		return Black, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return RGB{R: b[0], G: b[1], B: b[2]}, nil
}

// Distance is the Euclidean distance over the three channels.
func Distance(a, b RGB) float64 {
	return math.Sqrt(float64(distanceSq(a, b)))
}

func distanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

type Palette []RGB

// Index returns the position of the colour closest to c. On ties the
// earliest entry wins. An empty palette yields -1.
func (p Palette) Index(c RGB) int {
	ret, best := -1, math.MaxInt
	for i, v := range p {
		d := distanceSq(c, v)
		if d < best {
			if d == 0 {
				return i
			}
			ret, best = i, d
		}
	}
	return ret
}

// Nearest returns the closest palette colour, or black for an empty palette.
func (p Palette) Nearest(c RGB) RGB {
	i := p.Index(c)
	if i < 0 {
		return Black
	}
	return p[i]
}

func (p Palette) Contains(c RGB) bool {
	for _, v := range p {
		if v == c {
			return true
		}
	}
	return false
}

// Active builds the per-request palette: black is appended when extraDark
// is set and black is missing, then every excluded colour is removed.
// The result never shares storage with base.
func Active(base Palette, exclude []RGB, extraDark bool) Palette {
	pal := make(Palette, len(base), len(base)+1)
	copy(pal, base)
	if extraDark && !pal.Contains(Black) {
		pal = append(pal, Black)
	}

	if len(exclude) == 0 {
		return pal
	}

	skip := make(map[RGB]struct{}, len(exclude))
	for _, c := range exclude {
		skip[c] = struct{}{}
	}
	res := pal[:0]
	for _, c := range pal {
		if _, ok := skip[c]; !ok {
			res = append(res, c)
		}
	}
	return res
}

// Color converts to a standard library palette, e.g. for image.Paletted.
func (p Palette) Color() color.Palette {
	pal := make(color.Palette, len(p))
	for i, c := range p {
		pal[i] = c
	}
	return pal
}
