package domain

// DefaultCacheDir is the artifact cache location used absent a cache/dir
// override.
const DefaultCacheDir = "var/cache/autogen"

// DefaultManifest is the structure manifest consulted absent a
// catalog/manifest override.
const DefaultManifest = "structures.yaml"

// Settings is the configuration surface consumed by the cache manager.
// Parameter names in the settings file are slash delimited, e.g. cache/dir.
type Settings struct {
	// CacheDir is the directory holding the generated artifacts.
	CacheDir string

	// Environment is the runtime environment name; EnvironmentDevelopment
	// forces a rebuild on every start.
	Environment string

	// Omit lists the namespace prefixes excluded from generation
	// (autoloader/omit).
	Omit OmissionRules

	// StackCount is the maximum chunk size handed to one generator worker
	// (generator/stack-count).
	StackCount int

	// Manifest is the path of the structure manifest the catalog is
	// enumerated from (catalog/manifest).
	Manifest string

	// LogLevel and LogFormat configure the logger (log/level, log/format).
	LogLevel  string
	LogFormat string
}

// Development reports whether regeneration is forced on start.
func (s *Settings) Development() bool {
	return s.Environment == EnvironmentDevelopment
}
