package platform

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/keep/pkg/session"
)

// localNamespace seeds the deterministic user ids of the local backends.
var localNamespace = uuid.MustParse("0b6c3f62-8a55-4d1e-9b7e-2f3c1d0a9e41")

// LocalAuthenticator signs users in without a server. The user id is derived
// from the email so the same address always owns the same notes. Passwords
// are required but not checked.
type LocalAuthenticator struct{}

// SignIn implements session.Authenticator.
func (LocalAuthenticator) SignIn(ctx context.Context, email, password string) (session.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return session.Session{}, fmt.Errorf("invalid email %q: %w", email, err)
	}
	if password == "" {
		return session.Session{}, fmt.Errorf("password cannot be empty")
	}
	return session.Session{
		AccessToken: uuid.NewString(),
		User: session.User{
			ID:    LocalUserID(email),
			Email: email,
		},
	}, nil
}

// SignOut implements session.Authenticator.
func (LocalAuthenticator) SignOut(ctx context.Context, s session.Session) error {
	return nil
}

// LocalUserID returns the id the local backends assign to an email.
func LocalUserID(email string) string {
	return uuid.NewSHA1(localNamespace, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}

var _ session.Authenticator = LocalAuthenticator{}
