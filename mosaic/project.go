package mosaic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cubemosaic/fileop"
)

var ErrInvalidProject = errors.New("invalid .rm project")

const (
	ProjectExt = "rm"

	defaultProjectName = "Imported Mosaic"
	defaultPalette     = "standard"
)

// Project is the content of a .rm file. Width, Height and CubeType
// duplicate the mosaic's own fields.
type Project struct {
	Name         string    `json:"name"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CubeType     CubeType  `json:"cubeType"`
	MosaicData   *Mosaic   `json:"mosaicData"`
	ColorPalette string    `json:"colorPalette"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewProject(name string, m *Mosaic, paletteName string, now time.Time) *Project {
	now = now.UTC()
	return &Project{
		Name:         name,
		Width:        m.Width,
		Height:       m.Height,
		CubeType:     m.CubeType,
		MosaicData:   m,
		ColorPalette: paletteName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReadProject decodes and validates a .rm document. A missing name or
// palette gets the same defaults as an import. The header dimensions and
// cube type must match the mosaic data.
func ReadProject(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	if p.MosaicData == nil {
		return nil, fmt.Errorf("%w: no mosaic data", ErrInvalidProject)
	}
	m := p.MosaicData
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}

	// A header left out is taken from the mosaic, one that is present must agree.
	if p.Width == 0 && p.Height == 0 && p.CubeType == "" {
		p.Width, p.Height, p.CubeType = m.Width, m.Height, m.CubeType
	}
	if p.Width != m.Width || p.Height != m.Height || p.CubeType != m.CubeType {
		return nil, fmt.Errorf("%w: header %dx%d %s does not match mosaic %dx%d %s", ErrInvalidProject,
			p.Width, p.Height, p.CubeType, m.Width, m.Height, m.CubeType)
	}

	if p.Name == "" {
		p.Name = defaultProjectName
	}
	if p.ColorPalette == "" {
		p.ColorPalette = defaultPalette
	}
	return &p, nil
}

func WriteProject(w io.Writer, p *Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("could not encode project %q: %w", p.Name, err)
	}
	return nil
}

func OpenProject(path string) (*Project, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open project %q: %w", path, err)
	}
	defer file.Close()

	p, err := ReadProject(file)
	if err != nil {
		return nil, fmt.Errorf("could not read project %q: %w", path, err)
	}
	return p, nil
}

func SaveProject(path string, p *Project) error {
	return fileop.WriteAtomic(path, func(w io.Writer) error {
		return WriteProject(w, p)
	})
}
