package main

import (
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"cubemosaic/batch"
	"cubemosaic/mosaic"
	"cubemosaic/parallel"
	"cubemosaic/swatch"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type cli struct {
	Workers int  `help:"Parallel workers for folder commands, 0 for one per CPU" default:"0"`
	Quiet   bool `help:"Only log warnings and errors" short:"q"`

	Quantize batch.CLICmd    `cmd:"" help:"Quantize every image in a folder onto a sticker palette"`
	Mosaic   mosaic.CLICmd   `cmd:"" help:"Turn an image into a cube mosaic project"`
	Count    mosaic.CountCmd `cmd:"" help:"List the stickers a mosaic project needs"`
	Palette  swatch.CLICmd   `cmd:"" help:"Show, export and extract sticker palettes"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("cubemosaic"),
		kong.Description("Turn pictures into Rubik's cube mosaics."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if c.Quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	pool := parallel.Start(c.Workers)
	defer pool.Cancel()

	err := kctx.Run(logger, pool.Do, pool.Wait)
	if err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		pool.Cancel()
		os.Exit(1)
	}
}
