package quantize

import (
	"math"

	"cubemosaic/palette"
	"cubemosaic/raster"
)

// DefaultTwoColorThreshold is the midpoint on the normalised [0,1] scale.
const DefaultTwoColorThreshold = 0.5

// PreprocessThreshold is the byte-scale cut used by TwoColorPreprocess.
// 128/255 is slightly above DefaultTwoColorThreshold; the two are kept apart.
const PreprocessThreshold = 128

func luminance(c palette.RGB) float64 {
	return float64(c.R)*0.299 + float64(c.G)*0.587 + float64(c.B)*0.114
}

// TwoColor maps each pixel to light when its normalised luminance is above
// threshold and to dark otherwise. Alpha is forced to 255.
func TwoColor(buf *raster.Buffer, dark, light palette.RGB, threshold float64) *raster.Buffer {
	out := raster.New(buf.Width, buf.Height)
	for y := range buf.Height {
		for x := range buf.Width {
			c := dark
			if luminance(buf.RGBAt(x, y))/255 > threshold {
				c = light
			}
			out.SetOpaque(x, y, c)
		}
	}
	return out
}

// TwoColorPreprocess is the upload-time variant: luminance is compared on
// the byte scale against PreprocessThreshold and alpha is left alone.
func TwoColorPreprocess(buf *raster.Buffer, light, dark palette.RGB) *raster.Buffer {
	out := buf.Clone()
	for y := range buf.Height {
		for x := range buf.Width {
			c := dark
			if luminance(buf.RGBAt(x, y)) > PreprocessThreshold {
				c = light
			}
			out.SetRGB(x, y, c)
		}
	}
	return out
}

// Grayscale replaces each pixel with its rounded BT.601 luminance, keeping
// alpha.
func Grayscale(buf *raster.Buffer) *raster.Buffer {
	out := buf.Clone()
	for y := range buf.Height {
		for x := range buf.Width {
			v := uint8(math.Round(luminance(buf.RGBAt(x, y))))
			out.SetRGB(x, y, palette.RGB{R: v, G: v, B: v})
		}
	}
	return out
}
