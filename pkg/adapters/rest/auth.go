package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/keep/pkg/session"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *Client) toSession(tr tokenResponse) (session.Session, error) {
	if tr.AccessToken == "" || tr.User.ID == "" {
		return session.Session{}, fmt.Errorf("token response is missing the access token or user")
	}
	s := session.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		User:         session.User{ID: tr.User.ID, Email: tr.User.Email},
	}
	switch {
	case tr.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(tr.ExpiresAt, 0).UTC()
	case tr.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second).UTC()
	}
	return s, nil
}

func (c *Client) token(ctx context.Context, grant string, body any) (session.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {grant}},
		body:   body,
	}, &tr)
	if err != nil {
		return session.Session{}, err
	}
	return c.toSession(tr)
}

// SignIn exchanges an email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (session.Session, error) {
	s, err := c.token(ctx, "password", map[string]string{"email": email, "password": password})
	if err != nil {
		return session.Session{}, fmt.Errorf("sign in: %w", err)
	}
	return s, nil
}

// Refresh trades the refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, s session.Session) (session.Session, error) {
	if s.RefreshToken == "" {
		return session.Session{}, fmt.Errorf("refresh: %w", session.ErrNoSession)
	}
	next, err := c.token(ctx, "refresh_token", map[string]string{"refresh_token": s.RefreshToken})
	if err != nil {
		return session.Session{}, fmt.Errorf("refresh: %w", err)
	}
	return next, nil
}

// SignOut revokes the session at the backend.
func (c *Client) SignOut(ctx context.Context, s session.Session) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  s.AccessToken,
	}, nil)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

var _ session.Authenticator = (*Client)(nil)
var _ session.Refresher = (*Client)(nil)
