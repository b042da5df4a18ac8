package grid

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"cubemosaic/raster"

	"golang.org/x/image/draw"
)

// Resize scales img to width x height. A zero dimension keeps the source
// size on that axis. With crop the source is centre-cropped to the target
// aspect ratio, keeping at least one source pixel on each axis. Without
// crop the aspect ratio is kept: the result shrinks to fit, or, when fill
// is set, is letterboxed on a fill background.
func Resize(logger *slog.Logger, img image.Image, width, height int, crop bool, fill color.Color,
	kernel draw.Interpolator,
) (image.Image, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid resize dimensions: %dx%d", width, height)
	}

	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())
	if srcWidth == 0 || srcHeight == 0 {
		return nil, fmt.Errorf("cannot resize empty image")
	}

	destWidth := float64(width)
	if destWidth == 0 {
		destWidth = srcWidth
	}

	destHeight := float64(height)
	if destHeight == 0 {
		destHeight = srcHeight
	}

	if (srcWidth == destWidth) && (srcHeight == destHeight) {
		return img, nil
	}

	destSize := image.Rect(0, 0, int(destWidth), int(destHeight))
	destBounds := destSize

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	var letterbox bool
	if crop {
		if srcAR < destAR {
			dh := min(int(math.Round((srcHeight-srcWidth/destAR)/2)), (srcBounds.Dy()-1)/2)
			srcBounds.Min.Y += dh
			srcBounds.Max.Y -= dh
		} else if srcAR > destAR {
			dw := min(int(math.Round((srcWidth-srcHeight*destAR)/2)), (srcBounds.Dx()-1)/2)
			srcBounds.Min.X += dw
			srcBounds.Max.X -= dw
		}
	} else {
		if srcAR < destAR {
			dw := destHeight * srcAR
			if fill == nil {
				destSize.Max.X = max(1, int(math.Round(dw)))
				destBounds.Max.X = destSize.Max.X
			} else if letterbox = destWidth > dw; letterbox {
				idw := int(math.Round((destWidth - dw) / 2))
				destBounds.Min.X += idw
				destBounds.Max.X -= idw
			}
		} else if srcAR > destAR {
			dh := destWidth / srcAR
			if fill == nil {
				destSize.Max.Y = max(1, int(math.Round(dh)))
				destBounds.Max.Y = destSize.Max.Y
			} else if letterbox = destHeight > dh; letterbox {
				idh := int(math.Round((destHeight - dh) / 2))
				destBounds.Min.Y += idh
				destBounds.Max.Y -= idh
			}
		}
	}

	logger.Info("resizing", "width", destBounds.Dx(), "height", destBounds.Dy())
	dest := image.NewNRGBA(destSize)
	op := draw.Src
	if letterbox {
		draw.Draw(dest, destSize, image.NewUniform(fill), image.Point{}, draw.Src)
		op = draw.Over
	}
	kernel.Scale(dest, destBounds, img, srcBounds, op, nil)

	return dest, nil
}

// ResizeToGrid covers the sticker plane exactly: the source is centre
// cropped to the grid's aspect ratio and scaled with nearest-neighbour
// interpolation to cols*n x rows*n pixels.
func ResizeToGrid(logger *slog.Logger, img image.Image, cols, rows, n int) (*raster.Buffer, error) {
	if err := Validate(cols, rows, n); err != nil {
		return nil, err
	}

	scaled, err := Resize(logger, img, cols*n, rows*n, true, nil, draw.NearestNeighbor)
	if err != nil {
		return nil, err
	}
	return raster.FromImage(scaled), nil
}

// Stretch scales img to exactly cols*n x rows*n pixels, ignoring the
// source aspect ratio.
func Stretch(img image.Image, cols, rows, n int, kernel draw.Interpolator) (*raster.Buffer, error) {
	if err := Validate(cols, rows, n); err != nil {
		return nil, err
	}

	buf := raster.New(cols*n, rows*n)
	kernel.Scale(buf.Image(), buf.Image().Bounds(), img, img.Bounds(), draw.Src, nil)
	return buf, nil
}

// CropSquare keeps the centred square of side min(W, H).
func CropSquare(buf *raster.Buffer) *raster.Buffer {
	size := min(buf.Width, buf.Height)
	x0 := (buf.Width - size) / 2
	y0 := (buf.Height - size) / 2

	out := raster.New(size, size)
	for y := range size {
		src := buf.Offset(x0, y0+y)
		copy(out.Pix[out.Offset(0, y):out.Offset(0, y+1)], buf.Pix[src:src+size*4])
	}
	return out
}
