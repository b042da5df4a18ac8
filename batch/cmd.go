// Package batch quantizes every image in a folder onto a sticker palette.
package batch

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"cubemosaic/grid"
	"cubemosaic/palette"
	"cubemosaic/parallel"
	"cubemosaic/quantize"
	"cubemosaic/raster"

	"github.com/alecthomas/kong"
	"golang.org/x/image/draw"
)

type CLICmd struct {
	Scan      string `help:"Source folder to scan" default:"."`
	Dest      string `help:"Destination folder for processed pictures. Relative to scan dir if not absolute. If same as scan dir, will overwrite source files." default:"quantized"`
	Resize    bool   `help:"Resize image" default:"false" group:"resize"`
	Width     int    `help:"Max width" group:"resize"`
	Height    int    `help:"Max height" group:"resize"`
	Crop      bool   `help:"Crop image to maintain requested aspect ratio" default:"false" group:"resize"`
	Fill      string `help:"If given and not cropping, will fill background with this color to maintain destination aspect ratio" group:"resize"`
	Square    bool   `help:"Crop to a centred square before anything else" default:"false" group:"resize"`
	Palette   string `help:"Palette name (rubiks, rubiks-black, wca), PAL file in RIFF format or hex text file" default:"rubiks" group:"palette"`
	Format    string `help:"Output format of quantized image. If prefixed with 'unsup:' will convert only unsupported formats" enum:"same,gif,unsup:gif,jpeg,unsup:jpeg,png,unsup:png,bmp,unsup:bmp,tiff,unsup:tiff" default:"unsup:png"`

	quantize.Options
	quantize.Preprocess

	FillColor color.Color      `kong:"-"`
	base      palette.Palette  `kong:"-"`
	request   quantize.Request `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if c.Resize {
		switch {
		case (c.Width < 0):
			return fmt.Errorf("invalid resize width: %d", c.Width)
		case (c.Height < 0):
			return fmt.Errorf("invalid resize height: %d", c.Height)
		case (c.Width == 0) && (c.Height == 0):
			return fmt.Errorf("no resize dimensions given")
		}
	}

	if (!c.Crop) && (c.Fill != "") {
		if c.FillColor, err = parseHexToColor(c.Fill); err != nil {
			return err
		}
	}

	if c.base, err = palette.Load(c.Palette); err != nil {
		return err
	}
	if c.request, err = c.Options.Request(); err != nil {
		return err
	}
	if len(palette.Active(c.base, c.request.Exclude, c.request.ExtraDark)) == 0 {
		return quantize.ErrEmptyPalette
	}
	return c.Preprocess.Validate()
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	slog.Info("quantizing", "dir", c.Scan, "palette", c.Palette, "method", c.request.Method,
		"parameter", c.request.Parameter)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		fileName := file.Name()
		worker(func() error {
			filePath := filepath.Join(c.Scan, fileName)
			logger := slog.Default().With("file", filePath)

			if err := c.process(logger, filePath, fileName); err != nil {
				logger.Error("could not process image", "error", err)
				return err
			}
			return nil
		})
	}

	stats := wait(true)
	slog.Info("stats", "processed", stats.Processed, "errors", stats.Errors, "total", stats.Total())

	if stats.Errors > 0 {
		return fmt.Errorf("error processing %d files", stats.Errors)
	}
	return nil
}

func (c *CLICmd) process(logger *slog.Logger, filePath, fileName string) error {
	imgFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	img, imgType, err := image.Decode(imgFile)
	imgFile.Close()
	if err != nil {
		return fmt.Errorf("could not decode image: %w", err)
	}

	buf := raster.FromImage(img)
	if c.Square {
		buf = grid.CropSquare(buf)
	}

	if c.Resize {
		resized, err := grid.Resize(logger, buf.Image(), c.Width, c.Height, c.Crop, c.FillColor, draw.CatmullRom)
		if err != nil {
			return fmt.Errorf("could not resize image: %w", err)
		}
		buf = raster.FromImage(resized)
	}

	buf = c.Preprocess.Apply(buf)

	logger.Info("applying palette", "colors", len(c.activePalette()))
	if buf, err = quantize.Process(buf, c.request, c.base); err != nil {
		return fmt.Errorf("could not quantize image: %w", err)
	}

	if err = save(buf.Image(), c.activePalette(), imgType, c.Format, c.Dest, fileName); err != nil {
		return fmt.Errorf("could not save image to %q: %w", c.Dest, err)
	}
	return nil
}

func (c *CLICmd) activePalette() palette.Palette {
	return palette.Active(c.base, c.request.Exclude, c.request.ExtraDark)
}

// parseHexToColor accepts #RGB, #RGBA, #RRGGBB and #RRGGBBAA.
func parseHexToColor(s string) (color.Color, error) {
	c := color.NRGBA{A: 0xFF}
	var n int
	var err error
	switch len(s) {
	case 4:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
	case 5:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
	case 7:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
	case 9:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return nil, fmt.Errorf("invalid fill color, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA")
	}
	if err != nil {
		return nil, fmt.Errorf("could not read color: %w", err)
	} else if n < 3 {
		return nil, fmt.Errorf("insufficient fill color fields: %d", n)
	}

	if len(s) < 6 {
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		if len(s) == 5 {
			c.A |= c.A << 4
		}
	}
	return c, nil
}
