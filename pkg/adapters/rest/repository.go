package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aretw0/introspection"

	"github.com/aretw0/keep/pkg/core"
)

const notesPath = "/rest/v1/notes"

// TokenSource supplies the access token of the signed-in user, renewing it
// when needed. session.Manager implements it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Repository implements core.Repository over the data API.
type Repository struct {
	client *Client
	tokens TokenSource
}

// NewRepository creates a repository that authenticates with tokens.
func NewRepository(client *Client, tokens TokenSource) *Repository {
	return &Repository{client: client, tokens: tokens}
}

// Client returns the underlying client.
func (r *Repository) Client() *Client { return r.client }

// Initialize is a no-op; the hosted schema is managed server-side.
func (r *Repository) Initialize(ctx context.Context) error {
	return nil
}

func (r *Repository) token(ctx context.Context) (string, error) {
	if r.tokens == nil {
		return "", core.ErrUnauthenticated
	}
	t, err := r.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrUnauthenticated, err)
	}
	if t == "" {
		return "", core.ErrUnauthenticated
	}
	return t, nil
}

// List fetches the owner's notes for the view, ordered server-side.
func (r *Repository) List(ctx context.Context, q core.Query) ([]core.Note, error) {
	token, err := r.token(ctx)
	if err != nil {
		return nil, err
	}

	order := "pinned.desc,updated_at.desc"
	if q.View.Archived() {
		order = "updated_at.desc"
	}
	query := url.Values{
		"select":   {"*"},
		"user_id":  {"eq." + q.Owner},
		"archived": {fmt.Sprintf("eq.%t", q.View.Archived())},
		"order":    {order},
	}

	var notes []core.Note
	if err := r.client.do(ctx, request{method: http.MethodGet, path: notesPath, query: query, token: token}, &notes); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []core.Note{}
	}
	for i := range notes {
		if notes[i].Labels == nil {
			notes[i].Labels = []string{}
		}
	}
	return notes, nil
}

type insertBody struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Color    string   `json:"color"`
	Labels   []string `json:"labels"`
	UserID   string   `json:"user_id"`
	Pinned   bool     `json:"pinned"`
	Archived bool     `json:"archived"`
}

// Insert creates a note and returns the stored row.
func (r *Repository) Insert(ctx context.Context, n core.NewNote) (core.Note, error) {
	token, err := r.token(ctx)
	if err != nil {
		return core.Note{}, err
	}
	labels := n.Labels
	if labels == nil {
		labels = []string{}
	}

	var rows []core.Note
	err = r.client.do(ctx, request{
		method: http.MethodPost,
		path:   notesPath,
		token:  token,
		prefer: "return=representation",
		body: insertBody{
			Title:    n.Title,
			Body:     n.Body,
			Color:    n.Color,
			Labels:   labels,
			UserID:   n.UserID,
			Pinned:   n.Pinned,
			Archived: n.Archived,
		},
	}, &rows)
	if err != nil {
		return core.Note{}, fmt.Errorf("insert note: %w", err)
	}
	if len(rows) == 0 {
		return core.Note{}, fmt.Errorf("insert note: backend returned no row")
	}
	return rows[0], nil
}

func scoped(owner, id string) url.Values {
	return url.Values{
		"id":      {"eq." + id},
		"user_id": {"eq." + owner},
	}
}

// Update patches one of the owner's notes.
func (r *Repository) Update(ctx context.Context, owner, id string, p core.Patch) error {
	token, err := r.token(ctx)
	if err != nil {
		return err
	}
	p.UpdatedAt = p.UpdatedAt.UTC()

	var rows []core.Note
	err = r.client.do(ctx, request{
		method: http.MethodPatch,
		path:   notesPath,
		query:  scoped(owner, id),
		token:  token,
		prefer: "return=representation",
		body:   p,
	}, &rows)
	if err != nil {
		return fmt.Errorf("update note %s: %w", id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("update note: %w: %s", core.ErrNotFound, id)
	}
	return nil
}

// Delete removes one of the owner's notes.
func (r *Repository) Delete(ctx context.Context, owner, id string) error {
	token, err := r.token(ctx)
	if err != nil {
		return err
	}

	var rows []core.Note
	err = r.client.do(ctx, request{
		method: http.MethodDelete,
		path:   notesPath,
		query:  scoped(owner, id),
		token:  token,
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("delete note: %w: %s", core.ErrNotFound, id)
	}
	return nil
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	return r.client.State()
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "rest"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Introspectable = (*Client)(nil)
