package platform_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/internal/platform"
	"github.com/aretw0/keep/pkg/adapters/memory"
	"github.com/aretw0/keep/pkg/adapters/rest"
	"github.com/aretw0/keep/pkg/adapters/sqlite"
	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/session"
)

func TestOpen_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := platform.Config{
		Backend:     platform.BackendSQLite,
		SQLite:      platform.SQLiteConfig{Path: filepath.Join(dir, "notes.db")},
		SessionFile: filepath.Join(dir, "session.yaml"),
	}

	app, err := platform.Open(cfg)
	require.NoError(t, err)
	_, ok := app.Repo.(*sqlite.Repository)
	require.True(t, ok)

	_, err = app.Board(core.ViewActive)
	assert.ErrorIs(t, err, session.ErrNoSession)

	sess, err := app.Sessions.SignIn(ctx, "Me@Example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, platform.LocalUserID("me@example.com"), sess.User.ID)

	active, err := app.Board(core.ViewActive)
	require.NoError(t, err)
	require.NoError(t, active.Load(ctx))
	require.NoError(t, active.Create(ctx, core.Draft{Title: "persisted"}))
	require.NoError(t, app.Close())

	// A second process sees the stored session and the note.
	again, err := platform.Open(cfg)
	require.NoError(t, err)
	defer again.Close()
	_, err = again.Sessions.Init(ctx)
	require.NoError(t, err)

	notes, err := again.Notes.List(ctx, again.Sessions.Owner(), core.ViewActive)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "persisted", notes[0].Title)

	state, ok := again.State().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sqlite", state["backend"])
	assert.NotNil(t, state["session"])
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	app, err := platform.Open(platform.Config{Backend: platform.BackendMemory, SessionFile: filepath.Join(t.TempDir(), "s.yaml")})
	require.NoError(t, err)
	_, ok := app.Repo.(*memory.Repository)
	require.True(t, ok)
	assert.Empty(t, app.Sessions.StorePath(), "memory sessions are not persisted")

	_, err = app.Sessions.SignIn(ctx, "me@example.com", "pw")
	require.NoError(t, err)

	var toasts []board.Toast
	c, err := app.Board(core.ViewActive, board.WithNotifier(board.NotifierFunc(func(t board.Toast) { toasts = append(toasts, t) })))
	require.NoError(t, err)
	require.NoError(t, c.Create(ctx, core.Draft{Body: "hello"}))
	require.Len(t, toasts, 1)
	assert.Equal(t, board.MsgCreated, toasts[0].Description)
}

func TestOpen_InjectedRepository(t *testing.T) {
	repo := memory.NewRepository()
	app, err := platform.Open(platform.Config{Backend: platform.BackendSQLite}, platform.WithRepository(repo))
	require.NoError(t, err)
	assert.Same(t, repo, app.Repo)
}

func TestOpen_REST(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/v1/token":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok", "refresh_token": "ref", "expires_in": 3600,
				"user": map[string]any{"id": "remote-user", "email": "me@example.com"},
			})
		case "/rest/v1/notes":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "eq.remote-user", r.URL.Query().Get("user_id"))
			_ = json.NewEncoder(w).Encode([]map[string]any{{"id": "n1", "title": "remote", "user_id": "remote-user"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := platform.Config{
		Backend:     platform.BackendREST,
		REST:        platform.RESTConfig{URL: srv.URL, AnonKey: "anon"},
		SessionFile: filepath.Join(t.TempDir(), "session.yaml"),
	}
	app, err := platform.Open(cfg, platform.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	_, ok := app.Repo.(*rest.Repository)
	require.True(t, ok)

	_, err = app.Sessions.SignIn(ctx, "me@example.com", "pw")
	require.NoError(t, err)

	notes, err := app.Notes.List(ctx, app.Sessions.Owner(), core.ViewActive)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "remote", notes[0].Title)
}

func TestOpen_InvalidREST(t *testing.T) {
	_, err := platform.Open(platform.Config{Backend: platform.BackendREST})
	assert.Error(t, err)
}

func TestLocalAuthenticator(t *testing.T) {
	ctx := context.Background()
	var auth platform.LocalAuthenticator

	a, err := auth.SignIn(ctx, " me@example.com ", "pw")
	require.NoError(t, err)
	b, err := auth.SignIn(ctx, "ME@example.com", "other")
	require.NoError(t, err)
	assert.Equal(t, a.User.ID, b.User.ID)
	assert.NotEqual(t, a.AccessToken, b.AccessToken)
	assert.True(t, a.ExpiresAt.IsZero())

	_, err = auth.SignIn(ctx, "not-an-email", "pw")
	assert.Error(t, err)
	_, err = auth.SignIn(ctx, "me@example.com", "")
	assert.Error(t, err)
	assert.NoError(t, auth.SignOut(ctx, a))
}
