// Package app implements the cache manager orchestration.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/mayer2014/appserver/internal/adapters/cache"
	"github.com/mayer2014/appserver/internal/adapters/catalog"
	"github.com/mayer2014/appserver/internal/adapters/config"
	"github.com/mayer2014/appserver/internal/adapters/watcher"
	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/mayer2014/appserver/internal/core/ports"
	"github.com/mayer2014/appserver/internal/engine/freshness"
	"github.com/mayer2014/appserver/internal/engine/generation"
	"go.trai.ch/zerr"
)

// debounceWindow coalesces file system events in watch mode.
const debounceWindow = 500 * time.Millisecond

// Manager is the bootstrap-time cache manager. It guarantees that after a
// successful EnsureFresh every enforced, non-omitted structure has a fresh
// artifact on disk; only then may structure resolution requests be serviced.
type Manager struct {
	configLoader ports.ConfigLoader
	generator    ports.Generator
	telemetry    ports.Telemetry
	logger       ports.Logger

	configPath     string
	storeOverride  ports.ArtifactStore
	sourceOverride ports.CatalogSource

	mu       sync.Mutex
	inFlight bool
	state    domain.State
	settings *domain.Settings
	catalog  *domain.Catalog
	store    ports.ArtifactStore
}

// New creates a Manager.
func New(loader ports.ConfigLoader, generator ports.Generator, telemetry ports.Telemetry, logger ports.Logger) *Manager {
	return &Manager{
		configLoader: loader,
		generator:    generator,
		telemetry:    telemetry,
		logger:       logger,
		configPath:   config.DefaultFilename,
	}
}

// SetConfigPath overrides the settings file path before a pass runs.
func (m *Manager) SetConfigPath(path string) {
	m.configPath = path
}

// WithStore overrides the artifact store. Used by tests.
func (m *Manager) WithStore(store ports.ArtifactStore) *Manager {
	m.storeOverride = store
	return m
}

// WithCatalogSource overrides the catalog source. Used by tests.
func (m *Manager) WithCatalogSource(source ports.CatalogSource) *Manager {
	m.sourceOverride = source
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// EnsureFresh classifies the cache and, depending on the verdict, does
// nothing, runs an additive fill, or wipes and rebuilds. It blocks until all
// generation workers have joined and is not reentrant while a pass is in
// flight. On return without error the manager is ready.
func (m *Manager) EnsureFresh(ctx context.Context) error {
	if err := m.beginPass(); err != nil {
		return err
	}
	defer m.endPass()

	settings, cat, store, err := m.prepare()
	if err != nil {
		return err
	}

	// The verdict and the generation pass must agree on the structure set:
	// classifying over structures no pass generates makes FRESH unreachable.
	pending := generation.Pending(cat, settings.Omit)

	verdict, err := freshness.New(store).Classify(pending, settings.Environment)
	if err != nil {
		return err
	}
	m.logger.Info("artifact cache verdict: " + verdict.String())

	switch verdict {
	case domain.VerdictFresh:
		for _, s := range pending {
			_, vertex := m.telemetry.Record(ctx, "generate "+s.Identifier)
			vertex.Cached()
		}
		m.setState(domain.StateReady)
		return nil
	case domain.VerdictStale:
		m.setState(domain.StateWiping)
		if err := m.wipe(store); err != nil {
			return err
		}
	case domain.VerdictBootstrap:
		// Additive fill, existing entries stay.
	}

	return m.fill(ctx, settings, pending, store)
}

// Refresh re-runs the full classification and fill cycle, dropping any
// previously reached ready state first.
func (m *Manager) Refresh(ctx context.Context) error {
	m.setState(domain.StateUninitialized)
	return m.EnsureFresh(ctx)
}

// EnsureStructure is the entry point for the surrounding module-resolution
// mechanism. It returns nil when the identifier either has a fresh artifact
// or is not subject to generation (unknown, non-enforced, omitted or part of
// the engine namespace), in which case the fallback resolution path applies.
func (m *Manager) EnsureStructure(identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.StateReady {
		return zerr.With(domain.ErrNotReady, "identifier", identifier)
	}

	s, ok := m.catalog.Get(identifier)
	if !ok || !s.Enforced || s.InEngineNamespace() || m.settings.Omit.Omits(identifier) {
		return nil
	}

	_, present, err := m.store.ModifiedAt(identifier)
	if err != nil {
		return err
	}
	if !present {
		return zerr.With(domain.ErrArtifactMissing, "identifier", identifier)
	}
	return nil
}

// Clean wipes the artifact cache explicitly. The manager drops back to the
// uninitialized state; the next EnsureFresh rebuilds from scratch.
func (m *Manager) Clean(_ context.Context) error {
	if err := m.beginPass(); err != nil {
		return err
	}
	defer m.endPass()

	_, _, store, err := m.prepare()
	if err != nil {
		return err
	}

	m.setState(domain.StateWiping)
	if err := m.wipe(store); err != nil {
		return err
	}
	m.setState(domain.StateUninitialized)
	m.logger.Info("artifact cache cleaned")
	return nil
}

// Status describes the cache state without mutating anything.
type Status struct {
	Verdict      domain.Verdict
	Structures   int
	Enforced     int
	Pending      int
	CacheEntries int
}

// Inspect enumerates the catalog and classifies the cache read-only.
func (m *Manager) Inspect(_ context.Context) (*Status, error) {
	if err := m.beginPass(); err != nil {
		return nil, err
	}
	defer m.endPass()

	settings, cat, store, err := m.prepare()
	if err != nil {
		return nil, err
	}

	pending := generation.Pending(cat, settings.Omit)

	verdict, err := freshness.New(store).Classify(pending, settings.Environment)
	if err != nil {
		return nil, err
	}

	entries, err := store.Count()
	if err != nil {
		return nil, err
	}

	return &Status{
		Verdict:      verdict,
		Structures:   cat.Len(),
		Enforced:     len(cat.Enforced()),
		Pending:      len(pending),
		CacheEntries: entries,
	}, nil
}

// Watch ensures the cache is fresh, then keeps regenerating whenever a
// structure source changes. It blocks until the context is done.
func (m *Manager) Watch(ctx context.Context) error {
	if err := m.EnsureFresh(ctx); err != nil {
		return err
	}

	w, err := watcher.New(m.logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	if err := w.Start(ctx, m.watchDirs()); err != nil {
		return err
	}

	changed := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(debounceWindow, func(paths []string) {
		m.logger.Info(fmt.Sprintf("%d source change(s) detected", len(paths)))
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	go func() {
		for path := range w.Events() {
			debouncer.Add(path)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// Interrupting watch mode is a normal shutdown.
			return nil
		case <-changed:
			if err := m.Refresh(ctx); err != nil {
				// Watch mode keeps running through failed passes; the next
				// source change retries.
				m.logger.Error(err)
				continue
			}
			// Structures added to the manifest while watching can live in
			// directories that were not in the initial watch set.
			if err := w.Add(m.watchDirs()); err != nil {
				m.logger.Error(err)
			}
		}
	}
}

// prepare loads the settings, builds the collaborators and enumerates the
// catalog. Enumeration failure is fatal for the pass.
func (m *Manager) prepare() (*domain.Settings, *domain.Catalog, ports.ArtifactStore, error) {
	settings, err := m.configLoader.Load(m.configPath)
	if err != nil {
		return nil, nil, nil, zerr.Wrap(err, "failed to load settings")
	}

	if configurable, ok := m.logger.(interface{ Configure(level, format string) }); ok {
		configurable.Configure(settings.LogLevel, settings.LogFormat)
	}

	store := m.storeOverride
	if store == nil {
		store, err = cache.New(settings.CacheDir)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	source := m.sourceOverride
	if source == nil {
		source = catalog.NewManifest(settings.Manifest)
	}

	structures, err := source.Enumerate()
	if err != nil {
		return nil, nil, nil, zerr.Wrap(err, "failed to enumerate structure catalog")
	}

	cat := domain.NewCatalog()
	for _, s := range structures {
		cat.Add(s)
	}

	m.mu.Lock()
	m.settings = settings
	m.catalog = cat
	m.store = store
	m.mu.Unlock()

	return settings, cat, store, nil
}

// fill runs one generation pass over the pending structures and blocks until
// every worker has joined.
func (m *Manager) fill(ctx context.Context, settings *domain.Settings, pending []domain.Structure, store ports.ArtifactStore) error {
	m.setState(domain.StateFilling)

	if len(pending) == 0 {
		m.setState(domain.StateReady)
		m.logger.Info("no structures pending generation")
		return nil
	}

	chunks := domain.Partition(pending, settings.StackCount)
	m.logger.Info(fmt.Sprintf("generating %d structure(s) in %d chunk(s)", len(pending), len(chunks)))

	report := generation.NewPool(m.generator, store, m.telemetry, m.logger).Run(ctx, chunks)
	if err := report.Err(); err != nil {
		return errors.Join(domain.ErrGenerationFailed, err)
	}

	m.setState(domain.StateReady)
	m.logger.Info(fmt.Sprintf("generated %d artifact(s)", len(report.Generated)))
	return nil
}

// wipe deletes every cache entry best-effort. Individual deletion failures
// are logged and skipped; they must not abort the remaining deletions. The
// wipe finishes strictly before any generation starts.
func (m *Manager) wipe(store ports.ArtifactStore) error {
	entries, err := store.Entries()
	if err != nil {
		return err
	}

	removed := 0
	for _, entry := range entries {
		if err := store.Remove(entry); err != nil {
			m.logger.Warn("failed to remove stale cache entry " + entry + ": " + err.Error())
			continue
		}
		removed++
	}

	m.logger.Info(fmt.Sprintf("wiped %d of %d cache entries", removed, len(entries)))
	return nil
}

func (m *Manager) watchDirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	if m.settings != nil {
		add(filepath.Dir(m.settings.Manifest))
	}
	if m.catalog != nil {
		for _, s := range m.catalog.All() {
			add(filepath.Dir(s.Source))
		}
	}
	return dirs
}

func (m *Manager) beginPass() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return domain.ErrPassInFlight
	}
	m.inFlight = true
	return nil
}

func (m *Manager) endPass() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

func (m *Manager) setState(state domain.State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}
