package quantize

import (
	"slices"

	"cubemosaic/palette"
	"cubemosaic/raster"
)

// Direct replaces every pixel with its nearest palette colour.
func Direct(buf *raster.Buffer, pal palette.Palette) *raster.Buffer {
	out := raster.New(buf.Width, buf.Height)
	for y := range buf.Height {
		for x := range buf.Width {
			out.SetOpaque(x, y, pal.Nearest(buf.RGBAt(x, y)))
		}
	}
	return out
}

// GradientThresholds derives the len(pal)-1 band limits used by Gradient.
// Band i (1-based) ends at 255*i/N*scale + offset*255/N*i, clamped to
// [0, 255].
func GradientThresholds(n int, scale, offset float64) []float64 {
	if n < 2 {
		return nil
	}

	res := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		uniform := 255 * float64(i) / float64(n)
		adjusted := uniform*scale + offset*255/float64(n)*float64(i)
		res = append(res, min(255, max(0, adjusted)))
	}
	return res
}

// Gradient treats the image as tonal: the palette is ordered by channel
// sum and each pixel's average tone picks a band. Hue is ignored.
func Gradient(buf *raster.Buffer, pal palette.Palette, scale, offset float64) *raster.Buffer {
	sorted := slices.Clone(pal)
	slices.SortStableFunc(sorted, func(a, b palette.RGB) int {
		return a.Brightness() - b.Brightness()
	})
	thresholds := GradientThresholds(len(sorted), scale, offset)

	out := raster.New(buf.Width, buf.Height)
	for y := range buf.Height {
		for x := range buf.Width {
			out.SetOpaque(x, y, band(sorted, thresholds, buf.RGBAt(x, y)))
		}
	}
	return out
}

// band returns the colour of the first threshold above the pixel's tone.
// The scan is linear on purpose: thresholds need not be monotonic.
func band(sorted palette.Palette, thresholds []float64, c palette.RGB) palette.RGB {
	tone := float64(c.Brightness()) / 3
	for j, t := range thresholds {
		if tone < t {
			return sorted[j]
		}
	}
	return sorted[len(sorted)-1]
}

// bayer4 is indexed [x%4][y%4].
var bayer4 = [4][4]float64{
	{1, 9, 3, 11},
	{13, 5, 15, 7},
	{4, 12, 2, 10},
	{16, 8, 14, 6},
}

// OrderedDither offsets each channel by the tiled matrix value times
// amplitude before matching. Negative amplitudes darken instead.
func OrderedDither(buf *raster.Buffer, pal palette.Palette, amplitude float64) *raster.Buffer {
	out := raster.New(buf.Width, buf.Height)
	for y := range buf.Height {
		for x := range buf.Width {
			d := bayer4[x%4][y%4] * amplitude
			c := buf.RGBAt(x, y)
			shifted := palette.RGB{
				R: raster.ClampChannel(float64(c.R) + d),
				G: raster.ClampChannel(float64(c.G) + d),
				B: raster.ClampChannel(float64(c.B) + d),
			}
			out.SetOpaque(x, y, pal.Nearest(shifted))
		}
	}
	return out
}
