package mosaic

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"cubemosaic/palette"

	"github.com/alecthomas/kong"
)

type CountCmd struct {
	Project string `arg:"" help:"Mosaic project (.rm)" type:"existingfile"`
}

func (c *CountCmd) Run(kctx *kong.Context, logger *slog.Logger) error {
	p, err := OpenProject(c.Project)
	if err != nil {
		return err
	}
	logger.Info("counting stickers", "file", c.Project, "width", p.Width, "height", p.Height,
		"cube", p.CubeType, "cubes", len(p.MosaicData.Cubes))
	return tally(kctx.Stdout, p.MosaicData)
}

// tally prints one line per sticker colour, most used first, then the
// total.
func tally(w io.Writer, m *Mosaic) error {
	counts := m.Count()
	cols := slices.SortedFunc(maps.Keys(counts), func(a, b palette.RGB) int {
		if n := cmp.Compare(counts[b], counts[a]); n != 0 {
			return n
		}
		return cmp.Compare(palette.RGBToHex(a), palette.RGBToHex(b))
	})

	total := 0
	for _, c := range cols {
		notation, name := "-", ""
		if s, ok := palette.Lookup(c); ok {
			notation, name = s.Notation, s.Name
		}
		if _, err := fmt.Fprintf(w, "%6d  %s  %s  %s\n", counts[c], palette.RGBToHex(c), notation, name); err != nil {
			return err
		}
		total += counts[c]
	}
	_, err := fmt.Fprintf(w, "%6d  total\n", total)
	return err
}
