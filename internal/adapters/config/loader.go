// Package config provides the settings loader for the cache manager.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/mayer2014/appserver/internal/core/ports"
	"github.com/spf13/viper"
	"go.trai.ch/zerr"
)

// DefaultFilename is the settings file consulted absent a --config override.
const DefaultFilename = "autogen.json"

var _ ports.ConfigLoader = (*FileLoader)(nil)

// FileLoader implements ports.ConfigLoader over a JSON settings file.
// Parameter names are slash delimited (cache/dir, autoloader/omit), matching
// the appserver configuration surface.
type FileLoader struct {
	logger ports.Logger
}

// NewLoader creates a FileLoader.
func NewLoader(logger ports.Logger) *FileLoader {
	return &FileLoader{logger: logger}
}

// Load reads the settings file at path. A missing file yields the documented
// defaults; a malformed file or invalid parameter value is a fatal
// configuration error.
func (l *FileLoader) Load(path string) (*domain.Settings, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("/"))

	v.SetDefault("cache/dir", domain.DefaultCacheDir)
	v.SetDefault("environment", "production")
	v.SetDefault("autoloader/omit", []string{})
	v.SetDefault("generator/stack-count", domain.DefaultStackCount)
	v.SetDefault("catalog/manifest", domain.DefaultManifest)
	v.SetDefault("log/level", "info")
	v.SetDefault("log/format", "console")

	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
		}
		l.logger.Debug("no settings file at " + path + ", using defaults")
	}

	settings := &domain.Settings{
		CacheDir:    v.GetString("cache/dir"),
		Environment: v.GetString("environment"),
		Omit:        domain.OmissionRules(v.GetStringSlice("autoloader/omit")),
		StackCount:  v.GetInt("generator/stack-count"),
		Manifest:    v.GetString("catalog/manifest"),
		LogLevel:    v.GetString("log/level"),
		LogFormat:   v.GetString("log/format"),
	}

	if settings.StackCount < 1 {
		return nil, zerr.With(zerr.New("generator/stack-count must be positive"), "value", settings.StackCount)
	}

	// Relative paths resolve against the settings file's directory, so the
	// manager behaves the same regardless of the process working directory.
	root := filepath.Dir(path)
	if !filepath.IsAbs(settings.CacheDir) {
		settings.CacheDir = filepath.Join(root, settings.CacheDir)
	}
	if !filepath.IsAbs(settings.Manifest) {
		settings.Manifest = filepath.Join(root, settings.Manifest)
	}

	return settings, nil
}
