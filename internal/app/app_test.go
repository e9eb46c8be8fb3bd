package app_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mayer2014/appserver/internal/adapters/cache"
	"github.com/mayer2014/appserver/internal/adapters/config"
	"github.com/mayer2014/appserver/internal/adapters/generator"
	"github.com/mayer2014/appserver/internal/adapters/telemetry"
	"github.com/mayer2014/appserver/internal/app"
	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/mayer2014/appserver/internal/core/ports"
	"github.com/mayer2014/appserver/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// fixture is a project directory with a manifest, structure sources and a
// default cache location, as the loader resolves them.
type fixture struct {
	dir      string
	cacheDir string
}

func newFixture(t *testing.T, identifiers ...string) *fixture {
	t.Helper()
	dir := t.TempDir()

	manifest := "structures:\n"
	for i, id := range identifiers {
		source := fmt.Sprintf("Structure%d.php", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, source), []byte("<?php // "+id), 0o644))
		manifest += fmt.Sprintf("  - identifier: %s\n    source: %s\n    enforced: true\n", id, source)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.DefaultManifest), []byte(manifest), 0o644))

	return &fixture{
		dir:      dir,
		cacheDir: filepath.Join(dir, domain.DefaultCacheDir),
	}
}

func (f *fixture) settingsPath() string {
	return filepath.Join(f.dir, config.DefaultFilename)
}

func (f *fixture) writeSettings(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.settingsPath(), []byte(content), 0o644))
}

func (f *fixture) store(t *testing.T) *cache.Directory {
	t.Helper()
	store, err := cache.New(f.cacheDir)
	require.NoError(t, err)
	return store
}

func (f *fixture) cacheCount(t *testing.T) int {
	t.Helper()
	count, err := f.store(t).Count()
	require.NoError(t, err)
	return count
}

func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	return logger
}

func newManager(t *testing.T, f *fixture, gen ports.Generator) *app.Manager {
	t.Helper()
	logger := quietLogger(t)
	if gen == nil {
		gen = generator.New(logger)
	}
	manager := app.New(config.NewLoader(logger), gen, telemetry.NewNoOp(), logger)
	manager.SetConfigPath(f.settingsPath())
	return manager
}

func TestEnsureFresh_EmptyCacheBootstrapsEverything(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`, `App\Entity\Invoice`)
	manager := newManager(t, f, nil)

	require.Equal(t, domain.StateUninitialized, manager.State())
	require.NoError(t, manager.EnsureFresh(context.Background()))

	assert.Equal(t, domain.StateReady, manager.State())
	assert.Equal(t, 3, f.cacheCount(t))
}

func TestEnsureFresh_FreshCacheGeneratesNothing(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`, `App\Entity\Invoice`)
	logger := quietLogger(t)

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	delegate := generator.New(logger)
	// The second pass finds every artifact current and must not invoke the
	// generator again.
	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(delegate.Generate).Times(3)

	manager := newManager(t, f, gen)
	require.NoError(t, manager.EnsureFresh(context.Background()))
	require.NoError(t, manager.EnsureFresh(context.Background()))

	assert.Equal(t, domain.StateReady, manager.State())
}

func TestEnsureFresh_MissingArtifactWipesAndRebuilds(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`, `App\Entity\Invoice`)
	manager := newManager(t, f, nil)
	require.NoError(t, manager.EnsureFresh(context.Background()))

	// Losing one artifact while others stay current makes the cache stale.
	store := f.store(t)
	require.NoError(t, os.Remove(store.Path(`App\Entity\Customer`)))
	require.Equal(t, 2, f.cacheCount(t))

	require.NoError(t, manager.EnsureFresh(context.Background()))

	assert.Equal(t, domain.StateReady, manager.State())
	assert.Equal(t, 3, f.cacheCount(t))
	_, ok, err := store.ModifiedAt(`App\Entity\Customer`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnsureFresh_DevelopmentAlwaysRegenerates(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`)
	f.writeSettings(t, `{"environment": "development"}`)
	logger := quietLogger(t)

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	delegate := generator.New(logger)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(delegate.Generate).Times(4)

	manager := newManager(t, f, gen)
	require.NoError(t, manager.EnsureFresh(context.Background()))
	require.NoError(t, manager.EnsureFresh(context.Background()))

	assert.Equal(t, domain.StateReady, manager.State())
	assert.Equal(t, 2, f.cacheCount(t))
}

func TestEnsureFresh_WarmCacheWithOmittedStructureStaysFresh(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`, `App\Generated\Skipme`)
	f.writeSettings(t, `{"autoloader/omit": ["App\\Generated\\"]}`)
	logger := quietLogger(t)

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	delegate := generator.New(logger)
	// The omitted structure never gets an artifact. The second pass must
	// still find the cache fresh rather than wiping it over the entry that
	// by construction can never exist.
	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(delegate.Generate).Times(2)

	manager := newManager(t, f, gen)
	require.NoError(t, manager.EnsureFresh(context.Background()))
	require.Equal(t, 2, f.cacheCount(t))

	require.NoError(t, manager.EnsureFresh(context.Background()))

	assert.Equal(t, domain.StateReady, manager.State())
	assert.Equal(t, 2, f.cacheCount(t))
}

func TestEnsureFresh_FreshPassRecordsCacheHits(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`)
	logger := quietLogger(t)
	ctrl := gomock.NewController(t)

	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Complete(nil).Times(2)
	vertex.EXPECT().Cached().Times(2)

	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).Times(4)

	manager := app.New(config.NewLoader(logger), generator.New(logger), tel, logger)
	manager.SetConfigPath(f.settingsPath())

	require.NoError(t, manager.EnsureFresh(context.Background()))
	require.NoError(t, manager.EnsureFresh(context.Background()))
}

func TestEnsureFresh_OmittedStructuresAreSkipped(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Generated\Proxy`)
	f.writeSettings(t, `{"autoloader/omit": ["App\\Generated\\"]}`)
	manager := newManager(t, f, nil)

	require.NoError(t, manager.EnsureFresh(context.Background()))

	assert.Equal(t, 1, f.cacheCount(t))
	_, ok, err := f.store(t).ModifiedAt(`App\Generated\Proxy`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnsureFresh_GenerationFailureIsReportedAfterTheJoin(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`, `App\Entity\Invoice`)
	logger := quietLogger(t)
	delegate := generator.New(logger)

	gen := mocks.NewMockGenerator(gomock.NewController(t))
	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, s domain.Structure, store ports.ArtifactStore) error {
			if s.Identifier == `App\Entity\Customer` {
				return zerr.New("weaving failed")
			}
			return delegate.Generate(ctx, s, store)
		}).Times(3)

	manager := newManager(t, f, gen)
	err := manager.EnsureFresh(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGenerationFailed))
	assert.Contains(t, err.Error(), `App\Entity\Customer`)
	assert.NotEqual(t, domain.StateReady, manager.State())
	// The failure did not retract the artifacts that succeeded.
	assert.Equal(t, 2, f.cacheCount(t))
}

func TestEnsureStructure(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`)
	manager := newManager(t, f, nil)

	err := manager.EnsureStructure(`App\Entity\Order`)
	require.Error(t, err, "resolution before readiness is refused")
	assert.True(t, errors.Is(err, domain.ErrNotReady))

	require.NoError(t, manager.EnsureFresh(context.Background()))

	assert.NoError(t, manager.EnsureStructure(`App\Entity\Order`))
	assert.NoError(t, manager.EnsureStructure(`App\Unknown\Thing`), "unknown identifiers fall through")
	assert.NoError(t, manager.EnsureStructure(`AppserverIo\PBC\Interfaces\Validation`))

	require.NoError(t, os.Remove(f.store(t).Path(`App\Entity\Order`)))
	err = manager.EnsureStructure(`App\Entity\Order`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrArtifactMissing))
}

func TestRefresh_RebuildsFromReady(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`)
	manager := newManager(t, f, nil)
	require.NoError(t, manager.EnsureFresh(context.Background()))

	require.NoError(t, manager.Refresh(context.Background()))

	assert.Equal(t, domain.StateReady, manager.State())
	assert.Equal(t, 1, f.cacheCount(t))
}

func TestClean_WipesTheCache(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`)
	manager := newManager(t, f, nil)
	require.NoError(t, manager.EnsureFresh(context.Background()))
	require.Equal(t, 2, f.cacheCount(t))

	require.NoError(t, manager.Clean(context.Background()))

	assert.Equal(t, domain.StateUninitialized, manager.State())
	assert.Zero(t, f.cacheCount(t))
}

func TestInspect_IsReadOnly(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`, `App\Entity\Customer`)
	manager := newManager(t, f, nil)

	status, err := manager.Inspect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictBootstrap, status.Verdict)
	assert.Equal(t, 2, status.Structures)
	assert.Equal(t, 2, status.Enforced)
	assert.Equal(t, 2, status.Pending)
	assert.Zero(t, status.CacheEntries)
	assert.Zero(t, f.cacheCount(t), "inspection generated nothing")
	assert.Equal(t, domain.StateUninitialized, manager.State())
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("timed out waiting for " + what)
}

func TestWatch_PicksUpNewSourceDirectories(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`)
	manager := newManager(t, f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- manager.Watch(ctx)
	}()

	store := f.store(t)
	waitFor(t, "initial fill", func() bool {
		_, ok, err := store.ModifiedAt(`App\Entity\Order`)
		return err == nil && ok
	})

	// Declare a structure living in a directory that did not exist when
	// watching started. The manifest directory is watched, so the refresh
	// picks it up; afterwards its source directory must be watched too.
	extraDir := filepath.Join(f.dir, "extra")
	require.NoError(t, os.Mkdir(extraDir, 0o750))
	extraSource := filepath.Join(extraDir, "Extra.php")
	require.NoError(t, os.WriteFile(extraSource, []byte("<?php // v1"), 0o644))

	manifest := "structures:\n" +
		"  - identifier: App\\Entity\\Order\n    source: Structure0.php\n    enforced: true\n" +
		"  - identifier: App\\Entity\\Extra\n    source: extra/Extra.php\n    enforced: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, domain.DefaultManifest), []byte(manifest), 0o644))

	waitFor(t, "artifact of the added structure", func() bool {
		_, ok, err := store.ModifiedAt(`App\Entity\Extra`)
		return err == nil && ok
	})

	// A change under the new directory must now trigger regeneration.
	require.NoError(t, os.WriteFile(extraSource, []byte("<?php // v2"), 0o644))
	waitFor(t, "regenerated artifact", func() bool {
		content, err := os.ReadFile(store.Path(`App\Entity\Extra`))
		return err == nil && bytes.Contains(content, []byte("v2"))
	})

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on context cancellation")
	}
}

func TestEnsureFresh_BrokenManifestIsFatal(t *testing.T) {
	f := newFixture(t, `App\Entity\Order`)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, domain.DefaultManifest), []byte("structures: [oops"), 0o644))
	manager := newManager(t, f, nil)

	err := manager.EnsureFresh(context.Background())
	require.Error(t, err)
	assert.NotEqual(t, domain.StateReady, manager.State())
}
