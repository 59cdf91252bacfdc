package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrExpired is returned by Init when the stored session expired and cannot
// be refreshed. It matches ErrNoSession under errors.Is.
var ErrExpired = fmt.Errorf("%w: session expired", ErrNoSession)

// Manager owns the current session.
type Manager struct {
	auth   Authenticator
	store  *Store
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	current   *Session
	onSignOut []func()

	refreshMu sync.Mutex
}

// refreshSkew renews tokens slightly before they expire.
const refreshSkew = 30 * time.Second

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNow replaces time.Now for expiry checks.
func WithNow(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager. store may be nil for sessions that live only
// as long as the process.
func NewManager(auth Authenticator, store *Store, opts ...ManagerOption) *Manager {
	m := &Manager{auth: auth, store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init restores the stored session, refreshing it when it expired and the
// authenticator supports refresh.
func (m *Manager) Init(ctx context.Context) (Session, error) {
	if m.store == nil {
		return Session{}, ErrNoSession
	}
	sess, err := m.store.Load()
	if err != nil {
		return Session{}, err
	}

	if sess.Expired(m.now()) {
		if sess, err = m.refresh(ctx, sess); err != nil {
			return Session{}, err
		}
		if err := m.store.Save(sess); err != nil {
			return Session{}, err
		}
	}

	m.set(&sess)
	return sess, nil
}

// Token returns a bearer token for the current session. A token expiring
// within refreshSkew is renewed first, saved, and swapped in.
func (m *Manager) Token(ctx context.Context) (string, error) {
	sess, ok := m.Current()
	if !ok {
		return "", ErrNoSession
	}
	if !sess.Expired(m.now().Add(refreshSkew)) {
		return sess.AccessToken, nil
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	// Another caller may have refreshed while we waited.
	sess, ok = m.Current()
	if !ok {
		return "", ErrNoSession
	}
	if !sess.Expired(m.now().Add(refreshSkew)) {
		return sess.AccessToken, nil
	}

	refreshed, err := m.refresh(ctx, sess)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("token refresh failed", "user", sess.User.ID, "error", err)
		}
		return "", err
	}

	// A sign-out during the refresh wins; the new tokens are dropped.
	m.mu.Lock()
	if m.current == nil || m.current.User.ID != sess.User.ID {
		m.mu.Unlock()
		return "", ErrNoSession
	}
	m.current = &refreshed
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Save(refreshed); err != nil {
			return "", err
		}
	}
	return refreshed.AccessToken, nil
}

// refresh renews sess through the authenticator.
func (m *Manager) refresh(ctx context.Context, sess Session) (Session, error) {
	r, ok := m.auth.(Refresher)
	if !ok || sess.RefreshToken == "" {
		return Session{}, ErrExpired
	}
	m.debug("refreshing expired session", "user", sess.User.ID)
	refreshed, err := r.Refresh(ctx, sess)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrExpired, err)
	}
	return refreshed, nil
}

// SignIn authenticates and persists the new session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (Session, error) {
	sess, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	if m.store != nil {
		if err := m.store.Save(sess); err != nil {
			return Session{}, err
		}
	}
	m.set(&sess)
	m.debug("signed in", "user", sess.User.ID)
	return sess, nil
}

// SignOut revokes the session at the backend, removes the stored copy and
// runs the sign-out hooks. A backend failure is logged, not returned: the
// local session is torn down either way.
func (m *Manager) SignOut(ctx context.Context) error {
	sess, ok := m.Current()
	if !ok && m.store != nil {
		if stored, err := m.store.Load(); err == nil {
			sess, ok = stored, true
		}
	}
	if !ok {
		return ErrNoSession
	}

	if err := m.auth.SignOut(ctx, sess); err != nil && m.logger != nil {
		m.logger.Warn("backend sign-out failed", "user", sess.User.ID, "error", err)
	}

	var clearErr error
	if m.store != nil {
		clearErr = m.store.Clear()
	}
	m.Teardown()
	return clearErr
}

// Teardown drops the in-memory session and runs the sign-out hooks without
// talking to the backend. It is what happens when another process signs out.
func (m *Manager) Teardown() {
	m.mu.Lock()
	m.current = nil
	hooks := append([]func(){}, m.onSignOut...)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// OnSignOut registers fn to run after every teardown.
func (m *Manager) OnSignOut(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSignOut = append(m.onSignOut, fn)
}

// Current returns the active session.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Owner returns the signed-in user ID, or "" when signed out.
func (m *Manager) Owner() string {
	s, _ := m.Current()
	return s.User.ID
}

// AccessToken returns the bearer token for backend calls.
func (m *Manager) AccessToken() string {
	s, _ := m.Current()
	return s.AccessToken
}

// Require returns the current session or ErrNoSession.
func (m *Manager) Require() (Session, error) {
	s, ok := m.Current()
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// StorePath returns the session file path, or "" without a store.
func (m *Manager) StorePath() string {
	if m.store == nil {
		return ""
	}
	return m.store.Path
}

func (m *Manager) set(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}

func (m *Manager) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

// IsNoSession reports whether err means the user must sign in.
func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoSession)
}
