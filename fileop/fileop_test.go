package fileop

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")

	err := WriteAtomic(dest, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("Expected %q, got %q", "hello", data)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != FileMode {
		t.Errorf("Expected mode %v, got %v", FileMode, info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the destination file, found %d entries", len(entries))
	}
}

func TestWriteAtomicFailure(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteAtomic(dest, func(w io.Writer) error {
		if _, err := io.WriteString(w, "partial"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected write error, got %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old" {
		t.Errorf("Destination should be untouched, got %q", data)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Temporary file should be removed, found %d entries", len(entries))
	}
}

func TestCheckDest(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "a.png")

	if err := CheckDest(dest, false); err != nil {
		t.Errorf("Missing file should pass, got %v", err)
	}
	if err := os.WriteFile(dest, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckDest(dest, false); !errors.Is(err, ErrExists) {
		t.Errorf("Expected ErrExists, got %v", err)
	}
	if err := CheckDest(dest, true); err != nil {
		t.Errorf("Overwrite should pass, got %v", err)
	}
	if err := CheckDest(dir, true); err == nil {
		t.Error("Directory destination should fail")
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct{ in, ext, want string }{
		{"photo.jpeg", "png", "photo.png"},
		{"archive.tar.gz", "rm", "archive.tar.rm"},
		{"noext", "rm", "noext.rm"},
	}
	for _, tc := range tests {
		if got := ReplaceExt(tc.in, tc.ext); got != tc.want {
			t.Errorf("ReplaceExt(%q, %q): expected %q, got %q", tc.in, tc.ext, got, tc.want)
		}
	}
}
