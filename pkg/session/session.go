// Package session holds the authenticated user for the lifetime of the
// process. It is initialised explicitly on load and torn down on sign-out;
// pages and adapters receive the Manager instead of reaching for a global.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("not signed in")

// User identifies the account that owns notes.
type User struct {
	ID    string `yaml:"id" json:"id"`
	Email string `yaml:"email" json:"email"`
}

// Session is an authenticated user plus the tokens the backend issued.
type Session struct {
	AccessToken  string    `yaml:"access_token" json:"access_token"`
	RefreshToken string    `yaml:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `yaml:"expires_at,omitempty" json:"expires_at,omitempty"`
	User         User      `yaml:"user" json:"user"`
}

// Expired reports whether the access token is past its expiry.
// A zero expiry never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Authenticator is the auth half of the backend.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, s Session) error
}

// Refresher is implemented by authenticators that can renew tokens.
type Refresher interface {
	Refresh(ctx context.Context, s Session) (Session, error)
}
