package ports

import "github.com/mayer2014/appserver/internal/core/domain"

// ConfigLoader reads the settings file into a domain.Settings value.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the settings file at the given path. A missing file yields
	// the documented defaults; a malformed file is a fatal configuration
	// error.
	Load(path string) (*domain.Settings, error)
}
