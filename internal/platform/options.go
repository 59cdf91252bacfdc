package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/session"
)

// options holds the wiring overrides for Open.
type options struct {
	repository    core.Repository
	authenticator session.Authenticator
	httpClient    *http.Client
	logger        *slog.Logger
	now           func() time.Time
	devSafety     bool
}

// Option defines a functional option for configuring Open.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		now:       time.Now,
		devSafety: true,
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a storage adapter, skipping the configured backend.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAuthenticator injects the auth backend.
func WithAuthenticator(auth session.Authenticator) Option {
	return func(o *options) {
		o.authenticator = auth
	}
}

// WithHTTPClient sets the client used by the hosted backend adapter.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithClock replaces time.Now in the service, adapters and session manager.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithDevSafety controls the sandbox applied under `go run` and `go test`:
// local data files are re-rooted into a temporary directory. Enabled by default.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
