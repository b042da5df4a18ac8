package raster

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"cubemosaic/palette"
)

func TestClampChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-300, 0},
		{-0.4, 0},
		{0, 0},
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{127.49, 127},
		{254.5, 254},
		{255, 255},
		{260.7, 255},
		{math.NaN(), 0},
		{math.Inf(1), 255},
	}

	for _, tc := range tests {
		if got := ClampChannel(tc.in); got != tc.want {
			t.Errorf("ClampChannel(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestWrapChecksLength(t *testing.T) {
	if _, err := Wrap(2, 2, make([]uint8, 15)); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("Expected ErrInvalidBuffer, got %v", err)
	}
	if _, err := Wrap(-1, 2, nil); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("Expected ErrInvalidBuffer for negative width, got %v", err)
	}

	buf, err := Wrap(2, 1, []uint8{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := buf.RGBAt(1, 0); got != (palette.RGB{R: 5, G: 6, B: 7}) {
		t.Errorf("Expected (5,6,7), got %v", got)
	}
	if got := buf.AlphaAt(1, 0); got != 8 {
		t.Errorf("Expected alpha 8, got %d", got)
	}
}

func TestFromImageRebasesBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	src.SetNRGBA(12, 21, color.NRGBA{R: 9, G: 8, B: 7, A: 100})

	buf := FromImage(src)
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", buf.Width, buf.Height)
	}
	if got := buf.RGBAt(2, 1); got != (palette.RGB{R: 9, G: 8, B: 7}) {
		t.Errorf("Expected (9,8,7), got %v", got)
	}
	if got := buf.AlphaAt(2, 1); got != 100 {
		t.Errorf("Expected alpha 100, got %d", got)
	}
}

func TestSetKeepsOrForcesAlpha(t *testing.T) {
	buf := New(1, 1)
	buf.Pix[3] = 42

	buf.SetRGB(0, 0, palette.RGB{R: 1, G: 2, B: 3})
	if buf.AlphaAt(0, 0) != 42 {
		t.Errorf("SetRGB should keep alpha, got %d", buf.AlphaAt(0, 0))
	}

	buf.SetOpaque(0, 0, palette.RGB{R: 1, G: 2, B: 3})
	if buf.AlphaAt(0, 0) != 255 {
		t.Errorf("SetOpaque should force alpha, got %d", buf.AlphaAt(0, 0))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	buf := New(1, 1)
	clone := buf.Clone()
	clone.Pix[0] = 200
	if buf.Pix[0] != 0 {
		t.Error("Modifying clone should not affect original")
	}

	img := buf.Image()
	img.Pix[1] = 7
	if buf.Pix[1] != 7 {
		t.Error("Image should share pixels with the buffer")
	}
}
