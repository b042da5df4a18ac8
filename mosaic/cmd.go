package mosaic

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cubemosaic/fileop"
	"cubemosaic/grid"
	"cubemosaic/palette"
	"cubemosaic/quantize"
	"cubemosaic/raster"

	"github.com/alecthomas/kong"
	"golang.org/x/image/draw"
)

type CLICmd struct {
	Input     string   `arg:"" help:"Source image" type:"existingfile"`
	Output    string   `help:"Destination project file. Defaults to the source name with a .rm extension" short:"o"`
	Name      string   `help:"Project name. Defaults to the source file name"`
	Overwrite bool     `help:"Replace existing output files" default:"false"`
	Width     int      `help:"Mosaic width in cubes" default:"10" group:"grid"`
	Height    int      `help:"Mosaic height in cubes" default:"10" group:"grid"`
	Cube      CubeType `help:"Cube type" enum:"2x2,3x3,4x4" default:"3x3" group:"grid"`
	Sampler   string   `help:"client stretches, quantizes then samples; server cover-crops and matches each pixel" enum:"client,server" default:"client" group:"grid"`
	Square    bool     `help:"Crop the source to a centred square first" default:"false" group:"grid"`
	Palette   string   `help:"Palette name (rubiks, rubiks-black, wca) or palette file" default:"rubiks" group:"palette"`
	Preview   string   `help:"Also render a PNG preview to this path" group:"preview"`
	StickerPx int      `help:"Preview sticker size in pixels" default:"16" group:"preview"`
	Outline   Outline  `help:"Preview outline" enum:"stickerless,white,black" default:"black" group:"preview"`

	quantize.Options
	quantize.Preprocess

	base    palette.Palette  `kong:"-"`
	request quantize.Request `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if err := grid.Validate(c.Width, c.Height, c.Cube.Size()); err != nil {
		return err
	}
	if c.StickerPx < 1 {
		return fmt.Errorf("invalid sticker size: %d", c.StickerPx)
	}

	var err error
	if c.base, err = palette.Load(c.Palette); err != nil {
		return err
	}
	if c.request, err = c.Options.Request(); err != nil {
		return err
	}
	if len(palette.Active(c.base, c.request.Exclude, c.request.ExtraDark)) == 0 {
		return quantize.ErrEmptyPalette
	}
	if err = c.Preprocess.Validate(); err != nil {
		return err
	}

	if c.Output == "" {
		c.Output = fileop.ReplaceExt(c.Input, ProjectExt)
	}
	if c.Name == "" {
		base := filepath.Base(c.Input)
		c.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return nil
}

func (c *CLICmd) Run(logger *slog.Logger) error {
	logger = logger.With("file", c.Input)

	if err := fileop.CheckDest(c.Output, c.Overwrite); err != nil {
		return err
	}
	if c.Preview != "" {
		if err := fileop.CheckDest(c.Preview, c.Overwrite); err != nil {
			return err
		}
	}

	img, err := decodeFile(c.Input)
	if err != nil {
		return err
	}

	m, err := c.build(logger, img)
	if err != nil {
		return err
	}

	project := NewProject(c.Name, m, c.Palette, time.Now())
	if err = SaveProject(c.Output, project); err != nil {
		return fmt.Errorf("could not save project %q: %w", c.Output, err)
	}
	logger.Info("saved project", "dest", c.Output, "width", m.Width, "height", m.Height,
		"cube", m.CubeType, "colors", len(m.UsedColors()))

	if c.Preview != "" {
		preview, err := Render(m, c.StickerPx, c.Outline)
		if err != nil {
			return err
		}
		err = fileop.WriteAtomic(c.Preview, func(w io.Writer) error {
			return png.Encode(w, preview)
		})
		if err != nil {
			return fmt.Errorf("could not save preview %q: %w", c.Preview, err)
		}
		logger.Info("saved preview", "dest", c.Preview)
	}

	return nil
}

// build runs the selected sampler over img.
func (c *CLICmd) build(logger *slog.Logger, img image.Image) (*Mosaic, error) {
	n := c.Cube.Size()
	pal := palette.Active(c.base, c.request.Exclude, c.request.ExtraDark)

	src := raster.FromImage(img)
	if c.Square {
		src = grid.CropSquare(src)
	}
	src = c.Preprocess.Apply(src)

	var cells *grid.Cells
	switch c.Sampler {
	case "server":
		if c.request.Method != quantize.MethodDirect {
			logger.Warn("server sampler ignores the quantization method", "method", c.request.Method)
		}
		buf, err := grid.ResizeToGrid(logger, src.Image(), c.Width, c.Height, n)
		if err != nil {
			return nil, fmt.Errorf("could not resize image: %w", err)
		}
		if cells, err = grid.SampleExact(buf, c.Width, c.Height, n); err != nil {
			return nil, err
		}
	default:
		buf, err := grid.Stretch(src.Image(), c.Width, c.Height, n, draw.BiLinear)
		if err != nil {
			return nil, fmt.Errorf("could not resize image: %w", err)
		}
		logger.Info("quantizing", "method", c.request.Method, "parameter", c.request.Parameter,
			"colors", len(pal))
		if buf, err = quantize.Process(buf, c.request, c.base); err != nil {
			return nil, err
		}
		if cells, err = grid.Sample(buf, c.Width, c.Height, n); err != nil {
			return nil, err
		}
	}

	return Generate(cells, pal)
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return img, nil
}
