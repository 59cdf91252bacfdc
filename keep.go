package keep

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/keep/internal/platform"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/session"
)

// --- Types ---

// App is a wired client.
type App = platform.App

// Config is the on-disk configuration.
type Config = platform.Config

// Note is a public alias for the domain entity.
type Note = core.Note

// Draft is a public alias for the editable part of a note.
type Draft = core.Draft

// View selects the active board or the archive.
type View = core.View

const (
	ViewActive   = core.ViewActive
	ViewArchived = core.ViewArchived
)

// Backend names accepted in Config.Backend.
const (
	BackendREST   = platform.BackendREST
	BackendSQLite = platform.BackendSQLite
	BackendMemory = platform.BackendMemory
)

// --- Configuration ---

// Option defines a functional option for configuring Open.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAuthenticator allows injecting a custom auth backend.
func WithAuthenticator(auth session.Authenticator) Option {
	return platform.WithAuthenticator(auth)
}

// WithHTTPClient sets the HTTP client of the hosted backend.
func WithHTTPClient(hc *http.Client) Option {
	return platform.WithHTTPClient(hc)
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithDevSafety controls the temp-dir sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// ConfigPath returns the configuration file location.
func ConfigPath() string {
	return platform.ConfigPath()
}

// LoadConfig reads the configuration file and environment overrides.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// --- Factory ---

// Open wires the backend selected by cfg.
func Open(cfg Config, opts ...Option) (*App, error) {
	return platform.Open(cfg, opts...)
}

// --- Safety & Utils ---

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
