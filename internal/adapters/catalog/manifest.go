// Package catalog implements the manifest-backed structure catalog source.
package catalog

import (
	"os"
	"path/filepath"

	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/mayer2014/appserver/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.CatalogSource = (*Manifest)(nil)

// Manifest enumerates structures from a YAML manifest file. Source paths in
// the manifest are resolved relative to the manifest's directory; source
// modification times are taken from the file system at enumeration time.
type Manifest struct {
	path string
}

// NewManifest creates a Manifest source reading the file at path.
func NewManifest(path string) *Manifest {
	return &Manifest{path: filepath.Clean(path)}
}

// manifestDoc is the on-disk manifest layout.
type manifestDoc struct {
	Structures []structureDTO `yaml:"structures"`
}

// structureDTO is one structure declaration in the manifest.
type structureDTO struct {
	Identifier string `yaml:"identifier"`
	Source     string `yaml:"source"`
	Enforced   bool   `yaml:"enforced"`
}

// Enumerate reads the manifest and returns every declared structure. Any
// unreadable manifest or missing source file fails the whole enumeration;
// the catalog is built completely or not at all.
func (m *Manifest) Enumerate() ([]domain.Structure, error) {
	data, err := os.ReadFile(m.path) //nolint:gosec // Path comes from the settings file
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read structure manifest"), "path", m.path)
	}

	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse structure manifest"), "path", m.path)
	}

	root := filepath.Dir(m.path)
	structures := make([]domain.Structure, 0, len(doc.Structures))
	for _, dto := range doc.Structures {
		if dto.Identifier == "" {
			return nil, zerr.With(zerr.New("structure declaration without identifier"), "path", m.path)
		}
		if dto.Source == "" {
			return nil, zerr.With(zerr.New("structure declaration without source"), "identifier", dto.Identifier)
		}

		source := dto.Source
		if !filepath.IsAbs(source) {
			source = filepath.Join(root, source)
		}

		info, err := os.Stat(source)
		if err != nil {
			return nil, zerr.With(
				zerr.Wrap(err, "failed to stat structure source"),
				"identifier", dto.Identifier,
			)
		}

		structures = append(structures, domain.Structure{
			Identifier: dto.Identifier,
			Source:     source,
			Enforced:   dto.Enforced,
			ModifiedAt: info.ModTime(),
		})
	}

	return structures, nil
}
