// Package memory is an in-process notes backend.
//
// It keeps notes in a map for the lifetime of the process and honors the
// same owner scoping and ordering contract as the hosted backend.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/keep/pkg/core"
)

// Repository implements core.Repository in memory.
type Repository struct {
	mu    sync.RWMutex
	notes map[string]core.Note
	now   func() time.Time
	newID func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the clock used for created_at and the insert updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// NewRepository creates an empty repository.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		notes: make(map[string]core.Note),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize is a no-op.
func (r *Repository) Initialize(ctx context.Context) error {
	return nil
}

// List returns the owner's notes for the view, ordered for that view.
func (r *Repository) List(ctx context.Context, q core.Query) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Note, 0)
	for _, n := range r.notes {
		if n.UserID == q.Owner && n.Archived == q.View.Archived() {
			out = append(out, clone(n))
		}
	}
	Sort(out, q.View)
	return out, nil
}

// Insert stores a new note.
func (r *Repository) Insert(ctx context.Context, nn core.NewNote) (core.Note, error) {
	if err := ctx.Err(); err != nil {
		return core.Note{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now().UTC()
	n := core.Note{
		ID:        r.newID(),
		Title:     nn.Title,
		Body:      nn.Body,
		Color:     nn.Color,
		Labels:    append([]string{}, nn.Labels...),
		Pinned:    nn.Pinned,
		Archived:  nn.Archived,
		CreatedAt: ts,
		UpdatedAt: ts,
		UserID:    nn.UserID,
	}
	r.notes[n.ID] = n
	return clone(n), nil
}

// Update applies a patch to one of the owner's notes.
func (r *Repository) Update(ctx context.Context, owner, id string, p core.Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != owner {
		return core.ErrNotFound
	}
	p.Apply(&n)
	r.notes[id] = n
	return nil
}

// Delete removes one of the owner's notes.
func (r *Repository) Delete(ctx context.Context, owner, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != owner {
		return core.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

// Len returns the number of stored notes across all owners.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes)
}

// Sort orders notes for a view: pinned first then newest on the active
// board, newest first on the archive. Ties break on id.
func Sort(notes []core.Note, view core.View) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if !view.Archived() && a.Pinned != b.Pinned {
			return a.Pinned
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
}

func clone(n core.Note) core.Note {
	n.Labels = append([]string{}, n.Labels...)
	return n
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]any{"notes": len(r.notes)}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
