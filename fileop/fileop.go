// Package fileop writes command outputs without leaving half-written files
// behind.
package fileop

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

var ErrExists = errors.New("destination file already exists")

// FileMode is the permission of every file WriteAtomic produces.
const FileMode fs.FileMode = 0o644

// CheckDest fails when dest exists and overwriting was not requested, or
// when it exists and is not a regular file.
func CheckDest(dest string, overwrite bool) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot replace non-regular file %q: %s", info.Name(), info.Mode().String())
	}
	if !overwrite {
		return fmt.Errorf("%w: %q", ErrExists, info.Name())
	}
	return nil
}

// WriteAtomic streams write into a temporary file next to dest and renames
// it into place once it has been flushed. On any error the temporary file
// is removed and dest is left untouched.
func WriteAtomic(dest string, write func(io.Writer) error) (err error) {
	dir, name := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}

	outFile, err := os.CreateTemp(dir, name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", name, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", name, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", name, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", name, defErr)
			}
		}
		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Error("could not remove temporary file", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	if err = write(outFile); err != nil {
		return err
	}
	// CreateTemp opens files owner-only.
	if err = outFile.Chmod(FileMode); err != nil {
		return fmt.Errorf("could not set mode on temporary destination %q: %w", name, err)
	}

	canRename = true
	return nil
}

// ReplaceExt swaps the extension of a file name.
func ReplaceExt(name, ext string) string {
	return name[:len(name)-len(filepath.Ext(name))] + "." + ext
}
