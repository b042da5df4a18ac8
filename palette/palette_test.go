package palette

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#FFFFFF", RGB{255, 255, 255}},
		{"ffffff", RGB{255, 255, 255}},
		{"#b90000", RGB{185, 0, 0}},
		{"#0045Ad", RGB{0, 69, 173}},
		{"", Black},
		{"#FFF", Black},
		{"##FFFFFF", Black},
		{"#GG0000", Black},
		{"#FFFFFF00", Black},
		{" #FFFFFF", Black},
	}

	for _, tc := range tests {
		if got := HexToRGB(tc.in); got != tc.want {
			t.Errorf("HexToRGB(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 3 {
			for b := 0; b < 256; b += 7 {
				c := RGB{uint8(r), uint8(g), uint8(b)}
				if got := HexToRGB(RGBToHex(c)); got != c {
					t.Fatalf("Round trip of %v gave %v", c, got)
				}
			}
		}
	}

	for _, in := range []string{"#abcdef", "ABCDEF", "#00ff7F"} {
		out := RGBToHex(HexToRGB(in))
		if len(out) != 7 || out[0] != '#' {
			t.Errorf("Expected canonical #RRGGBB for %q, got %q", in, out)
		}
		if !strings.EqualFold(strings.TrimPrefix(in, "#"), out[1:]) {
			t.Errorf("Expected %q to normalise to the same digits, got %q", in, out)
		}
	}
}

func TestParseHexRejectsGarbage(t *testing.T) {
	if _, err := ParseHex("#12345"); err == nil {
		t.Error("Expected error for short colour")
	}
	if _, err := ParseHex("#12345Z"); err == nil {
		t.Error("Expected error for non-hex digit")
	}
	if c, err := ParseHex("#123456"); err != nil || c != (RGB{0x12, 0x34, 0x56}) {
		t.Errorf("Expected (18,52,86), got %v (%v)", c, err)
	}
}

func TestDistance(t *testing.T) {
	a := RGB{10, 20, 30}
	b := RGB{13, 24, 30}
	if got := Distance(a, b); got != 5 {
		t.Errorf("Expected 5, got %v", got)
	}
	if Distance(a, b) != Distance(b, a) {
		t.Error("Distance should be symmetric")
	}
	if Distance(a, a) != 0 {
		t.Error("Distance to self should be zero")
	}
}

func TestNearestTieBreak(t *testing.T) {
	// (100,100,100) is exactly 100 away from both entries.
	pal := Palette{{0, 100, 100}, {200, 100, 100}}
	if got := pal.Nearest(RGB{100, 100, 100}); got != pal[0] {
		t.Errorf("Expected first entry %v, got %v", pal[0], got)
	}

	mirrored := Palette{{200, 100, 100}, {0, 100, 100}}
	if got := mirrored.Nearest(RGB{100, 100, 100}); got != mirrored[0] {
		t.Errorf("Expected first entry %v, got %v", mirrored[0], got)
	}

	dup := Palette{{1, 1, 1}, {5, 5, 5}, {5, 5, 5}}
	if got := dup.Index(RGB{5, 5, 5}); got != 1 {
		t.Errorf("Expected index 1 for duplicate colour, got %d", got)
	}
}

func TestNearestEmptyPalette(t *testing.T) {
	var pal Palette
	if got := pal.Index(RGB{1, 2, 3}); got != -1 {
		t.Errorf("Expected -1, got %d", got)
	}
	if got := pal.Nearest(RGB{1, 2, 3}); got != Black {
		t.Errorf("Expected black, got %v", got)
	}
}

func TestNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		pal := make(Palette, 1+rng.IntN(8))
		for i := range pal {
			pal[i] = RGB{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256))}
		}
		c := RGB{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256))}

		want, best := 0, Distance(c, pal[0])
		for i, p := range pal[1:] {
			if d := Distance(c, p); d < best {
				want, best = i+1, d
			}
		}
		if got := pal.Index(c); got != want {
			t.Fatalf("Index(%v) in %v: expected %d, got %d", c, pal, want, got)
		}
	}
}

func TestActive(t *testing.T) {
	base := Official()

	tests := []struct {
		name      string
		exclude   []RGB
		extraDark bool
		want      Palette
	}{
		{"unchanged", nil, false, Official()},
		{"black appended", nil, true, Complete()},
		{"black excluded after append", []RGB{Black}, true, Official()},
		{"exclude two", []RGB{Red.Color, Blue.Color}, false,
			Palette{White.Color, Orange.Color, Green.Color, Yellow.Color}},
		{"exclude absent colour", []RGB{{1, 2, 3}}, false, Official()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Active(base, tc.exclude, tc.extraDark)
			if !slices.Equal(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}

	if !slices.Equal(base, Official()) {
		t.Error("Active must not modify the base palette")
	}
}

func TestActiveBlackAlreadyPresent(t *testing.T) {
	got := Active(Complete(), nil, true)
	if len(got) != 7 {
		t.Errorf("Expected black not to be duplicated, got %v", got)
	}
}

func TestActiveFiltersDuplicates(t *testing.T) {
	got := Active(Palette{Red.Color, White.Color, Red.Color}, []RGB{Red.Color}, false)
	if !slices.Equal(got, Palette{White.Color}) {
		t.Errorf("Expected every copy of an excluded colour removed, got %v", got)
	}
}

func TestLoadBuiltin(t *testing.T) {
	for _, name := range Names() {
		pal, err := Load(name)
		if err != nil {
			t.Errorf("Load(%q): %v", name, err)
			continue
		}
		if len(pal) == 0 {
			t.Errorf("Load(%q) returned an empty palette", name)
		}
	}

	pal, err := Load("RUBIKS")
	if err != nil || !slices.Equal(pal, Official()) {
		t.Errorf("Expected case-insensitive built-in lookup, got %v (%v)", pal, err)
	}
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("Expected ErrUnknownPalette, got %v", err)
	}
}

func TestTextPaletteFile(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, Complete()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "#B90000 UE Red") {
		t.Errorf("Expected sticker names in output, got:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "cube.txt")
	content := "; my palette\n\n" + buf.String() + "// trailing comment\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	pal, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(pal, Complete()) {
		t.Errorf("Expected %v, got %v", Complete(), pal)
	}
}

func TestTextPaletteBadLine(t *testing.T) {
	_, err := ReadText(strings.NewReader("#FFFFFF\nnope\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected line 2 error, got %v", err)
	}
}
