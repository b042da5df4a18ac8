package quantize

import (
	"fmt"
	"strconv"

	"cubemosaic/palette"
	"cubemosaic/raster"
)

// Options are the algorithm flags shared by the commands. A preset picks
// method and parameter; Method and Parameter override it one at a time.
type Options struct {
	Preset    string   `help:"Algorithm preset (portrait_gradient, error_diffusion, ordered_dither, atkinson_dither, closest_color)" default:"closest_color" group:"algorithm"`
	Method    string   `help:"Override the preset's method (closest_color, gradient, ordered_dither, error_diffusion, atkinson)" group:"algorithm"`
	Parameter string   `help:"Override the preset's parameter" group:"algorithm"`
	Exclude   []string `help:"Colours to drop from the palette, as #RRGGBB" group:"palette"`
	ExtraDark bool     `help:"Add black to the palette" default:"false" group:"palette"`
}

// Request resolves the flags into a request.
func (o *Options) Request() (Request, error) {
	preset, ok := PresetByName(o.Preset)
	if !ok {
		return Request{}, fmt.Errorf("unknown preset %q", o.Preset)
	}
	req := Request{
		Method:    preset.Method,
		Parameter: preset.Parameter,
		ExtraDark: o.ExtraDark,
	}

	if o.Method != "" {
		m, err := ParseMethod(o.Method)
		if err != nil {
			return Request{}, err
		}
		req.Method = m
	}

	if o.Parameter != "" {
		p, err := strconv.ParseFloat(o.Parameter, 64)
		if err != nil {
			return Request{}, fmt.Errorf("invalid parameter %q: %w", o.Parameter, err)
		}
		req.Parameter = p
	}

	for _, s := range o.Exclude {
		c, err := palette.ParseHex(s)
		if err != nil {
			return Request{}, fmt.Errorf("invalid excluded colour: %w", err)
		}
		req.Exclude = append(req.Exclude, c)
	}

	return req, nil
}

// Preprocess are the optional tone conversions applied before quantizing.
type Preprocess struct {
	Grayscale bool   `help:"Convert to grayscale first" default:"false" group:"preprocess"`
	TwoColor  bool   `help:"Reduce to two colours by luminance first" default:"false" group:"preprocess"`
	Light     string `help:"Light colour for two-colour mode" default:"#FFFFFF" group:"preprocess"`
	Dark      string `help:"Dark colour for two-colour mode" default:"#000000" group:"preprocess"`
}

// Validate checks the two-colour pair.
func (p *Preprocess) Validate() error {
	if !p.TwoColor {
		return nil
	}
	if _, err := palette.ParseHex(p.Light); err != nil {
		return fmt.Errorf("invalid light colour: %w", err)
	}
	if _, err := palette.ParseHex(p.Dark); err != nil {
		return fmt.Errorf("invalid dark colour: %w", err)
	}
	return nil
}

// Apply runs grayscale then two-colour reduction, as enabled. buf is
// returned unchanged when neither is.
func (p *Preprocess) Apply(buf *raster.Buffer) *raster.Buffer {
	if p.Grayscale {
		buf = Grayscale(buf)
	}
	if p.TwoColor {
		buf = TwoColorPreprocess(buf, palette.HexToRGB(p.Light), palette.HexToRGB(p.Dark))
	}
	return buf
}
