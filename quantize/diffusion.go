package quantize

import (
	"cubemosaic/palette"
	"cubemosaic/raster"
)

// tap receives weight*ratio of the quantization error at offset (dx, dy).
type tap struct {
	dx, dy int
	weight float64
}

var (
	floydSteinberg = []tap{
		{1, 0, 7},
		{-1, 1, 3},
		{0, 1, 5},
		{1, 1, 1},
	}
	atkinson = []tap{
		{1, 0, 1},
		{-1, 1, 1},
		{0, 1, 1},
		{1, 1, 1},
		{2, 0, 1},
		{0, 2, 1},
	}
)

// ErrorDiffusionRatio grows softer as strength increases.
func ErrorDiffusionRatio(strength float64) float64 {
	return 1 / (1.5 + strength/5*13.5) / 4
}

func AtkinsonRatio(strength float64) float64 {
	return 1 / (1.5 + strength/5*7.5) / 8 * 3
}

// ErrorDiffusion is Floyd-Steinberg-pattern dithering with a tunable
// normalisation.
func ErrorDiffusion(buf *raster.Buffer, pal palette.Palette, strength float64) *raster.Buffer {
	return diffuse(buf, pal, floydSteinberg, ErrorDiffusionRatio(strength))
}

// Atkinson spreads equal shares to six neighbours. The shares sum to less
// than the full error and the rest is dropped.
func Atkinson(buf *raster.Buffer, pal palette.Palette, strength float64) *raster.Buffer {
	return diffuse(buf, pal, atkinson, AtkinsonRatio(strength))
}

// diffuse scans row-major, matching against a private working copy that
// accumulates error. Matches go to a separate output so perturbed values
// never leak into the result. Neighbours outside the image are skipped.
func diffuse(buf *raster.Buffer, pal palette.Palette, taps []tap, ratio float64) *raster.Buffer {
	work := buf.Clone()
	out := raster.New(buf.Width, buf.Height)
	w, h := buf.Width, buf.Height

	for y := range h {
		for x := range w {
			cur := work.RGBAt(x, y)
			m := pal.Nearest(cur)
			out.SetOpaque(x, y, m)

			er := float64(int(cur.R) - int(m.R))
			eg := float64(int(cur.G) - int(m.G))
			eb := float64(int(cur.B) - int(m.B))

			for _, t := range taps {
				nx, ny := x+t.dx, y+t.dy
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				f := t.weight * ratio
				i := work.Offset(nx, ny)
				work.Pix[i] = raster.ClampChannel(float64(work.Pix[i]) + f*er)
				work.Pix[i+1] = raster.ClampChannel(float64(work.Pix[i+1]) + f*eg)
				work.Pix[i+2] = raster.ClampChannel(float64(work.Pix[i+2]) + f*eb)
			}
		}
	}
	return out
}
