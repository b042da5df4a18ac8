// Package quantize maps every pixel of a buffer onto a fixed sticker
// palette, either directly or with one of several dithering strategies.
//
// All functions treat their input buffer as read-only and return a fresh
// buffer of the same size whose colours are drawn from the palette and
// whose alpha is 255.
package quantize

import (
	"errors"
	"fmt"
	"strings"

	"cubemosaic/palette"
	"cubemosaic/raster"
)

var ErrEmptyPalette = errors.New("active palette is empty")

type Method string

const (
	MethodDirect         Method = "closest_color"
	MethodGradient       Method = "gradient"
	MethodOrderedDither  Method = "ordered_dither"
	MethodErrorDiffusion Method = "error_diffusion"
	MethodAtkinson       Method = "atkinson"
)

// GradientOffset is the fixed second term of the gradient threshold formula.
const GradientOffset = 0.4

var methodAliases = map[string]Method{
	"closest_color":   MethodDirect,
	"direct":          MethodDirect,
	"nearest":         MethodDirect,
	"gradient":        MethodGradient,
	"ordered_dither":  MethodOrderedDither,
	"ordered":         MethodOrderedDither,
	"bayer":           MethodOrderedDither,
	"error_diffusion": MethodErrorDiffusion,
	"floyd_steinberg": MethodErrorDiffusion,
	"atkinson":        MethodAtkinson,
}

// ParseMethod accepts the canonical names plus a few aliases, ignoring case
// and treating '-' like '_'.
func ParseMethod(s string) (Method, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if m, ok := methodAliases[key]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown method %q", s)
}

// Request selects and parameterises one algorithm for a single call.
type Request struct {
	Method    Method
	Parameter float64
	// Exclude drops these colours from the active palette.
	Exclude []palette.RGB
	// ExtraDark appends black to the active palette when missing.
	ExtraDark bool
}

// Process builds the active palette for req and runs the selected
// algorithm. Unknown methods fall back to direct matching.
func Process(buf *raster.Buffer, req Request, base palette.Palette) (*raster.Buffer, error) {
	pal := palette.Active(base, req.Exclude, req.ExtraDark)
	if len(pal) == 0 {
		return nil, ErrEmptyPalette
	}

	switch req.Method {
	case MethodGradient:
		return Gradient(buf, pal, req.Parameter, GradientOffset), nil
	case MethodOrderedDither:
		return OrderedDither(buf, pal, req.Parameter), nil
	case MethodErrorDiffusion:
		return ErrorDiffusion(buf, pal, req.Parameter), nil
	case MethodAtkinson:
		return Atkinson(buf, pal, req.Parameter), nil
	default:
		return Direct(buf, pal), nil
	}
}

// Preset is a named method/parameter pair offered as a starting point.
type Preset struct {
	Name        string
	DisplayName string
	Method      Method
	Parameter   float64
	Description string
}

func Presets() []Preset {
	return []Preset{
		{"portrait_gradient", "Portrait Gradient", MethodGradient, 0.65,
			"Best for faces and portraits with smooth gradients"},
		{"error_diffusion", "Error Diffusion", MethodErrorDiffusion, 2.5,
			"High detail with natural color mixing"},
		{"ordered_dither", "Structured Dither", MethodOrderedDither, 1.0,
			"Clean patterns with controlled grain"},
		{"atkinson_dither", "Atkinson Dither", MethodAtkinson, 3.0,
			"Artistic cross-hatch patterns"},
		{"closest_color", "Direct Color Match", MethodDirect, 0,
			"Simple color replacement without dithering"},
	}
}

func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
