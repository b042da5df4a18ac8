package swatch

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"cubemosaic/fileop"
	"cubemosaic/palette"

	"github.com/alecthomas/kong"
	"github.com/lucasb-eyer/go-colorful"
)

type CLICmd struct {
	Show    ShowCmd    `cmd:"" help:"List the colours of a palette"`
	Export  ExportCmd  `cmd:"" help:"Write a palette as RIFF PAL, hex text or a PNG swatch"`
	Extract ExtractCmd `cmd:"" help:"Derive a palette from an image"`
}

type ShowCmd struct {
	Palette string `arg:"" optional:"" help:"Palette name (rubiks, rubiks-black, wca) or palette file" default:"rubiks"`
}

func (c *ShowCmd) Run(kctx *kong.Context) error {
	pal, err := palette.Load(c.Palette)
	if err != nil {
		return err
	}
	return list(kctx.Stdout, pal)
}

// list prints one line per colour: hex, notation, name and CIE L*a*b*.
func list(w io.Writer, pal palette.Palette) error {
	for i, c := range pal {
		notation, name := "-", ""
		if s, ok := palette.Lookup(c); ok {
			notation, name = s.Notation, s.Name
		}
		col, _ := colorful.MakeColor(c)
		l, a, b := col.Lab()
		if _, err := fmt.Fprintf(w, "%2d  %s  %s  L=%5.1f a=%6.1f b=%6.1f  %s\n", i, palette.RGBToHex(c),
			notation, l*100, a*100, b*100, name); err != nil {
			return err
		}
	}
	return nil
}

type ExportCmd struct {
	Palette   string `arg:"" help:"Palette name (rubiks, rubiks-black, wca) or palette file"`
	Output    string `arg:"" help:"Destination file; .pal writes RIFF, .png a swatch, anything else hex text"`
	Overwrite bool   `help:"Replace an existing destination" default:"false"`
}

func (c *ExportCmd) Run(logger *slog.Logger) error {
	pal, err := palette.Load(c.Palette)
	if err != nil {
		return err
	}
	return save(logger, c.Output, pal, c.Overwrite)
}

type ExtractCmd struct {
	Input     string `arg:"" help:"Source image" type:"existingfile"`
	Colors    int    `help:"Number of colours to extract" default:"6"`
	Method    Method `help:"Extraction method" enum:"dominant,kmeans" default:"dominant"`
	Snap      string `help:"Snap extracted colours to this palette (rubiks, rubiks-black, wca or file)"`
	Output    string `help:"Write the palette to this file (.pal, .png or hex text)" short:"o"`
	Overwrite bool   `help:"Replace an existing destination" default:"false"`
}

func (c *ExtractCmd) Validate(kctx *kong.Context) error {
	if c.Colors < 1 || c.Colors > 256 {
		return fmt.Errorf("invalid colour count: %d", c.Colors)
	}
	if c.Snap != "" {
		if _, err := palette.Load(c.Snap); err != nil {
			return err
		}
	}
	return nil
}

func (c *ExtractCmd) Run(kctx *kong.Context, logger *slog.Logger) error {
	logger = logger.With("file", c.Input)

	file, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("could not open image %q: %w", c.Input, err)
	}
	img, _, err := image.Decode(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("could not decode image %q: %w", c.Input, err)
	}

	pal, err := Extract(img, c.Colors, c.Method)
	if err != nil {
		return err
	}
	logger.Info("extracted palette", "method", c.Method, "colors", len(pal))

	if c.Snap != "" {
		target, err := palette.Load(c.Snap)
		if err != nil {
			return err
		}
		pal = Snap(pal, target)
		logger.Info("snapped palette", "palette", c.Snap, "colors", len(pal))
	}

	if err = list(kctx.Stdout, pal); err != nil {
		return err
	}
	if c.Output != "" {
		return save(logger, c.Output, pal, c.Overwrite)
	}
	return nil
}

func save(logger *slog.Logger, dest string, pal palette.Palette, overwrite bool) error {
	if err := fileop.CheckDest(dest, overwrite); err != nil {
		return err
	}
	format := FormatOf(dest)
	err := fileop.WriteAtomic(dest, func(w io.Writer) error {
		return Write(w, pal, format)
	})
	if err != nil {
		return fmt.Errorf("could not save palette %q: %w", dest, err)
	}
	logger.Info("saved palette", "dest", dest, "format", format, "colors", len(pal))
	return nil
}
