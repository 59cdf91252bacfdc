package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aretw0/introspection"

	"github.com/aretw0/keep/pkg/adapters/memory"
	"github.com/aretw0/keep/pkg/adapters/rest"
	"github.com/aretw0/keep/pkg/adapters/sqlite"
	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/session"
)

// App is a fully wired client: storage, auth session and note service.
type App struct {
	Config   Config
	Repo     core.Repository
	Notes    *core.Service
	Sessions *session.Manager

	opts    *options
	closers []io.Closer
}

// Open wires the backend selected by cfg. The repository is initialized but
// no session is restored; call Sessions.Init for that.
//
//	app, err := platform.Open(cfg, platform.WithLogger(logger))
func Open(cfg Config, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	sandbox := o.devSafety && IsDevRun()
	if sandbox {
		cfg.SQLite.Path = ResolveDataPath(cfg.SQLite.Path, true)
		cfg.SessionFile = ResolveDataPath(cfg.SessionFile, true)
		if o.logger != nil {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "sqlite", cfg.SQLite.Path, "session", cfg.SessionFile)
		}
	}

	app := &App{Config: cfg, opts: o}

	var client *rest.Client
	if cfg.Backend == BackendREST && (o.repository == nil || o.authenticator == nil) {
		hc := o.httpClient
		if hc == nil {
			hc = &http.Client{Timeout: cfg.REST.Timeout}
		}
		var err error
		client, err = rest.NewClient(cfg.REST.URL, cfg.REST.AnonKey,
			rest.WithHTTPClient(hc), rest.WithLogger(o.logger), rest.WithClock(o.now))
		if err != nil {
			return nil, err
		}
	}

	auth := o.authenticator
	if auth == nil {
		if client != nil {
			auth = client
		} else {
			auth = LocalAuthenticator{}
		}
	}

	var store *session.Store
	if cfg.SessionFile != "" && cfg.Backend != BackendMemory {
		store = session.NewStore(cfg.SessionFile)
	}
	app.Sessions = session.NewManager(auth, store, session.WithLogger(o.logger), session.WithNow(o.now))

	repo, err := app.openRepository(client)
	if err != nil {
		return nil, err
	}
	if err := repo.Initialize(context.Background()); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to initialize %s backend: %w", cfg.Backend, err)
	}
	app.Repo = repo
	app.Notes = core.NewService(repo, core.WithServiceLogger(o.logger), core.WithClock(o.now))
	return app, nil
}

func (a *App) openRepository(client *rest.Client) (core.Repository, error) {
	if a.opts.repository != nil {
		return a.opts.repository, nil
	}

	switch a.Config.Backend {
	case BackendREST:
		return rest.NewRepository(client, a.Sessions), nil
	case BackendSQLite:
		repo, err := sqlite.Open(a.Config.SQLite.Path, sqlite.WithLogger(a.opts.logger), sqlite.WithClock(a.opts.now))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo)
		return repo, nil
	case BackendMemory:
		return memory.NewRepository(memory.WithClock(a.opts.now)), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", a.Config.Backend)
	}
}

// Board returns a page controller for the signed-in user.
func (a *App) Board(view core.View, opts ...board.Option) (*board.Controller, error) {
	owner := a.Sessions.Owner()
	if owner == "" {
		return nil, session.ErrNoSession
	}
	opts = append([]board.Option{board.WithLogger(a.opts.logger)}, opts...)
	return board.NewController(a.Notes, owner, view, opts...), nil
}

// Close releases backend resources.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// State implements introspection.Introspectable.
func (a *App) State() any {
	state := map[string]any{
		"backend": a.Config.Backend,
		"service": a.Notes.State(),
	}
	if comp, ok := a.Repo.(introspection.Introspectable); ok {
		state["repository"] = comp.State()
	}
	if sess, ok := a.Sessions.Current(); ok {
		state["session"] = map[string]any{
			"user":       sess.User.Email,
			"expires_at": sess.ExpiresAt,
		}
	} else {
		state["session"] = nil
	}
	return state
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string {
	return "app"
}

var _ introspection.Introspectable = (*App)(nil)
