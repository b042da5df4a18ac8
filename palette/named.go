package palette

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var ErrUnknownPalette = errors.New("unknown palette")

// Sticker is one physical sticker colour.
type Sticker struct {
	Color    RGB
	Name     string
	Notation string
}

// Official sticker colours.
var (
	White  = Sticker{RGB{0xFF, 0xFF, 0xFF}, "White", "W"}
	Red    = Sticker{RGB{0xB9, 0x00, 0x00}, "UE Red", "R"}
	Blue   = Sticker{RGB{0x00, 0x45, 0xAD}, "Cobalt Blue", "B"}
	Orange = Sticker{RGB{0xFF, 0x59, 0x00}, "Pantone Orange", "O"}
	Green  = Sticker{RGB{0x00, 0x9B, 0x48}, "Pigment Green", "G"}
	Yellow = Sticker{RGB{0xFF, 0xD5, 0x00}, "Cyber Yellow", "Y"}
	Dark   = Sticker{Black, "Black", "D"}
)

var stickers = []Sticker{White, Red, Blue, Orange, Green, Yellow, Dark}

// Official is the default six-colour palette. Black is left out since most
// cubes do not carry black stickers.
func Official() Palette {
	return Palette{White.Color, Red.Color, Blue.Color, Orange.Color, Green.Color, Yellow.Color}
}

// Complete is Official plus black.
func Complete() Palette {
	return append(Official(), Dark.Color)
}

// WCA is the colour list used by the server-side generator.
func WCA() Palette {
	return Palette{
		{0xFF, 0xFF, 0xFF},
		{0xB7, 0x12, 0x34},
		{0x00, 0x46, 0xAD},
		{0x00, 0x9B, 0x48},
		{0xFF, 0xD5, 0x00},
		{0xFF, 0x58, 0x00},
		{0x00, 0x00, 0x00},
	}
}

var builtin = map[string]func() Palette{
	"rubiks":       Official,
	"rubiks-black": Complete,
	"wca":          WCA,
}

// Names lists the built-in palettes.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the sticker metadata for c, if it is an official colour.
func Lookup(c RGB) (Sticker, bool) {
	for _, s := range stickers {
		if s.Color == c {
			return s, true
		}
	}
	return Sticker{}, false
}

// Load resolves a built-in palette name, a RIFF PAL file (.pal) or a text
// file with one #RRGGBB colour per line.
func Load(name string) (Palette, error) {
	if f, ok := builtin[strings.ToLower(name)]; ok {
		return f(), nil
	}

	file, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w %q, should be one of %s or a palette file", ErrUnknownPalette, name,
				strings.Join(Names(), ", "))
		}
		return nil, fmt.Errorf("could not open palette %q: %w", name, err)
	}
	defer file.Close()

	var pal Palette
	if strings.EqualFold(filepath.Ext(name), ".pal") {
		pal, err = ReadRIFF(file)
	} else {
		pal, err = ReadText(file)
	}
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", name, err)
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("palette %q has no colours", name)
	}

	return pal, nil
}

// ReadText parses one colour per line. Blank lines and lines starting
// with ';' or '//' are skipped.
func ReadText(r io.Reader) (Palette, error) {
	var pal Palette
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, ";") || strings.HasPrefix(s, "//") {
			continue
		}
		c, err := ParseHex(strings.Fields(s)[0])
		if err != nil {
			return pal, fmt.Errorf("line %d: %w", line, err)
		}
		pal = append(pal, c)
	}
	return pal, sc.Err()
}

func WriteText(w io.Writer, p Palette) error {
	bw := bufio.NewWriter(w)
	for _, c := range p {
		line := RGBToHex(c)
		if s, ok := Lookup(c); ok {
			line += " " + s.Name
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
