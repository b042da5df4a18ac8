package palette

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestRIFFRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteRIFF(&buf, WCA())
	if err != nil {
		t.Fatalf("WriteRIFF: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("Expected %d bytes reported, got %d", buf.Len(), n)
	}
	if want := 8 + 4 + 8 + 4 + 7*4; buf.Len() != want {
		t.Errorf("Expected %d bytes, got %d", want, buf.Len())
	}
	if size := binary.LittleEndian.Uint32(buf.Bytes()[4:8]); int(size) != buf.Len()-8 {
		t.Errorf("RIFF size field %d does not match payload %d", size, buf.Len()-8)
	}

	pal, err := ReadRIFF(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadRIFF: %v", err)
	}
	if !slices.Equal(pal, WCA()) {
		t.Errorf("Expected %v, got %v", WCA(), pal)
	}
}

func TestRIFFLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.PAL")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := WriteRIFF(f, Official()); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	pal, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(pal, Official()) {
		t.Errorf("Expected %v, got %v", Official(), pal)
	}
}

func TestRIFFRejectsOtherForms(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	buf.Write(binary.LittleEndian.AppendUint32(nil, 4))
	buf.WriteString("WEBP")

	if _, err := ReadRIFF(&buf); err == nil {
		t.Error("Expected error for non-PAL RIFF form")
	}
}

func TestRIFFRejectsBadVersion(t *testing.T) {
	var buf bytes.Buffer
	if _, err := WriteRIFF(&buf, Palette{{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	raw[20], raw[21] = 0x00, 0x01

	if _, err := ReadRIFF(bytes.NewReader(raw)); err == nil {
		t.Error("Expected error for unsupported palette version")
	}
}
