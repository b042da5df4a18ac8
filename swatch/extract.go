// Package swatch derives palettes from images and renders palettes as
// colour strips.
package swatch

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"cubemosaic/palette"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type Method string

const (
	MethodDominant Method = "dominant"
	MethodKMeans   Method = "kmeans"
)

// maxSamples bounds the k-means dataset; larger images are subsampled.
const maxSamples = 12000

type candidate struct {
	col    colorful.Color
	weight float64
}

// Extract picks k representative colours from img, ordered from dark to
// light. k-means falls back to dominant colours when clustering fails.
func Extract(img image.Image, k int, method Method) (palette.Palette, error) {
	if k <= 0 {
		return nil, fmt.Errorf("invalid colour count: %d", k)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("cannot extract colours from an empty image")
	}

	var cands []candidate
	if method == MethodKMeans {
		cands = kmeansCandidates(img, k)
	}
	if len(cands) == 0 {
		cands = dominantCandidates(img, k)
	}

	picked := selectDiverse(cands, k)
	sortByLuminance(picked)

	pal := make(palette.Palette, 0, len(picked))
	for _, c := range picked {
		r, g, b := c.RGB255()
		pal = append(pal, palette.RGB{R: r, G: g, B: b})
	}
	return pal, nil
}

func dominantCandidates(img image.Image, k int) []candidate {
	found := dominantcolor.FindWeight(img, max(24, k*8))
	if len(found) == 0 {
		found = append(found, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1,
		})
	}

	cands := make([]candidate, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, candidate{col: col.Clamped(), weight: c.Weight})
	}
	return cands
}

func kmeansCandidates(img image.Image, k int) []candidate {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/maxSamples)) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 0xFFFF,
				float64(g) / 0xFFFF,
				float64(bl) / 0xFFFF,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(dataset, min(max(k*4, k+2), len(dataset)))
	if err != nil {
		return nil
	}

	cands := make([]candidate, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		cands = append(cands, candidate{col: col, weight: float64(len(c.Observations))})
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		switch {
		case a.weight > b.weight:
			return -1
		case a.weight < b.weight:
			return 1
		}
		return 0
	})
	return cands
}

// selectDiverse seeds with the heaviest candidate, then repeatedly adds
// the one farthest in Lab from everything picked so far, scaled by weight.
func selectDiverse(cands []candidate, k int) []colorful.Color {
	if len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	maxW := 0.0
	seed := 0
	for i, c := range cands {
		if c.weight > maxW {
			maxW = c.weight
			seed = i
		}
	}
	if maxW <= 0 {
		maxW = 1
	}

	picked := []int{seed}
	used := make([]bool, len(cands))
	used[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, p := range picked {
				nearest = min(nearest, c.col.DistanceLab(cands[p].col))
			}
			w := max(c.weight, 1e-6) / maxW
			if score := nearest * (0.55 + 0.45*math.Sqrt(w)); score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, len(picked))
	for i, p := range picked {
		out[i] = cands[p].col
	}
	return out
}

// sortByLuminance orders colours by relative luminance, darkest first.
func sortByLuminance(cols []colorful.Color) {
	luma := func(c colorful.Color) float64 {
		r, g, b := c.LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortStableFunc(cols, func(a, b colorful.Color) int {
		la, lb := luma(a), luma(b)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
}

// Snap replaces each colour with its nearest entry in target and drops
// duplicates, keeping first appearance order.
func Snap(pal, target palette.Palette) palette.Palette {
	var out palette.Palette
	for _, c := range pal {
		if n := target.Nearest(c); !out.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}
