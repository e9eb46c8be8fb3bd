package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mayer2014/appserver/internal/adapters/config"
	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/mayer2014/appserver/internal/core/ports"
	"github.com/mayer2014/appserver/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return logger
}

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoader(quietLogger(t))

	settings, err := loader.Load(filepath.Join(dir, config.DefaultFilename))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, domain.DefaultCacheDir), settings.CacheDir)
	assert.Equal(t, "production", settings.Environment)
	assert.Empty(t, settings.Omit)
	assert.Equal(t, domain.DefaultStackCount, settings.StackCount)
	assert.Equal(t, filepath.Join(dir, domain.DefaultManifest), settings.Manifest)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Equal(t, "console", settings.LogFormat)
}

func TestLoad_ReadsSlashDelimitedParameters(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, `{
		"cache/dir": "custom/cache",
		"environment": "development",
		"autoloader/omit": ["App\\Generated\\", "Vendor\\Legacy"],
		"generator/stack-count": 3,
		"catalog/manifest": "conf/structures.yaml",
		"log/level": "debug",
		"log/format": "json"
	}`)

	settings, err := config.NewLoader(quietLogger(t)).Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "custom", "cache"), settings.CacheDir)
	assert.Equal(t, "development", settings.Environment)
	assert.True(t, settings.Development())
	assert.Equal(t, domain.OmissionRules{`App\Generated\`, `Vendor\Legacy`}, settings.Omit)
	assert.Equal(t, 3, settings.StackCount)
	assert.Equal(t, filepath.Join(dir, "conf", "structures.yaml"), settings.Manifest)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, "json", settings.LogFormat)
}

func TestLoad_AbsolutePathsKeptAsIs(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "elsewhere", "cache")
	path := writeSettings(t, dir, `{"cache/dir": "`+cacheDir+`"}`)

	settings, err := config.NewLoader(quietLogger(t)).Load(path)
	require.NoError(t, err)
	assert.Equal(t, cacheDir, settings.CacheDir)
}

func TestLoad_MalformedFileIsFatal(t *testing.T) {
	path := writeSettings(t, t.TempDir(), `{"cache/dir": `)
	_, err := config.NewLoader(quietLogger(t)).Load(path)
	assert.Error(t, err)
}

func TestLoad_NonPositiveStackCountIsFatal(t *testing.T) {
	path := writeSettings(t, t.TempDir(), `{"generator/stack-count": 0}`)
	_, err := config.NewLoader(quietLogger(t)).Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack-count")
}
