package types

import (
	"errors"
	"time"
)

// Config selects and parameterizes the record store backing the services.
type Config struct {
	Backend string       `json:"backend" yaml:"backend"`
	DataDir string       `json:"data_dir" yaml:"data_dir"`
	Remote  RemoteConfig `json:"remote" yaml:"remote"`
}

// RemoteConfig holds the hosted record store endpoint and credentials.
type RemoteConfig struct {
	BaseURL   string        `json:"base_url" yaml:"base_url"`
	ProjectID string        `json:"project_id" yaml:"project_id"`
	PublicKey string        `json:"public_key" yaml:"public_key"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrRemoteURLEmpty = errors.New("remote backend requires a base URL")
	ErrDataDirEmpty   = errors.New("sqlite backend requires a data directory")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
	BackendRemote: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Backend {
	case BackendRemote:
		if c.Remote.BaseURL == "" {
			return ErrRemoteURLEmpty
		}
	case BackendSQLite:
		if c.DataDir == "" {
			return ErrDataDirEmpty
		}
	}
	return nil
}
