// Package cache implements the artifact store backed by a flat directory.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mayer2014/appserver/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*Directory)(nil)

// artifactExtension is the extension of generated artifact files.
const artifactExtension = ".php"

// Directory implements ports.ArtifactStore over one cache directory with one
// artifact file per structure.
type Directory struct {
	dir string
}

// New creates a Directory store rooted at dir, creating the directory when
// it does not exist yet.
func New(dir string) (*Directory, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create artifact cache directory"), "dir", dir)
	}
	return &Directory{dir: dir}, nil
}

// Dir returns the cache directory path.
func (d *Directory) Dir() string {
	return d.dir
}

// Count returns the number of cache entries.
func (d *Directory) Count() (int, error) {
	entries, err := d.Entries()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Entries returns the names of all artifact files in the cache directory.
// Subdirectories (directory markers) are not cache entries and are skipped.
func (d *Directory) Entries() ([]string, error) {
	dirEntries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to enumerate artifact cache directory"), "dir", d.dir)
	}

	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Remove deletes one cache entry by name.
func (d *Directory) Remove(entry string) error {
	path := filepath.Join(d.dir, filepath.Base(entry))
	if err := os.Remove(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove cache entry"), "entry", entry)
	}
	return nil
}

// Path returns the artifact path for the identifier. The file name is the
// sanitized identifier plus a hash of the untouched identifier, so distinct
// identifiers can never collide after sanitizing.
func (d *Directory) Path(identifier string) string {
	sanitized := strings.NewReplacer(`\`, "_", "/", "_").Replace(identifier)
	sum := xxhash.Sum64String(identifier)
	return filepath.Join(d.dir, fmt.Sprintf("%s-%016x%s", sanitized, sum, artifactExtension))
}

// ModifiedAt returns the modification time of the identifier's artifact and
// whether the artifact exists.
func (d *Directory) ModifiedAt(identifier string) (time.Time, bool, error) {
	info, err := os.Stat(d.Path(identifier))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "identifier", identifier)
	}
	return info.ModTime(), true, nil
}

// Write stores the artifact content for the identifier, overwriting any
// previous artifact.
func (d *Directory) Write(identifier string, content []byte) error {
	path := d.Path(identifier)
	//nolint:gosec // Artifacts are readable code generated for the loader
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write artifact"), "identifier", identifier)
	}
	return nil
}
