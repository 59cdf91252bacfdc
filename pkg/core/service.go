package core

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Service scopes note operations to an owner and stamps updated_at.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	lastStamp time.Time
	writes    int
	reads     int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for debug traces.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository exposes the underlying port.
func (s *Service) Repository() Repository {
	return s.repo
}

// stamp returns the updated_at value for the next write.
// It never goes backwards even if the wall clock does.
func (s *Service) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now().UTC()
	if t.Before(s.lastStamp) {
		t = s.lastStamp
	}
	s.lastStamp = t
	s.writes++
	return t
}

// List fetches one view of the owner's notes in backend order.
func (s *Service) List(ctx context.Context, owner string, view View) ([]Note, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return s.repo.List(ctx, Query{Owner: owner, View: view})
}

// Create inserts a new, unpinned, unarchived note from a draft.
func (s *Service) Create(ctx context.Context, owner string, d Draft) (Note, error) {
	if owner == "" {
		return Note{}, ErrUnauthenticated
	}
	if !d.HasContent() {
		return Note{}, ErrEmptyNote
	}
	d = d.Normalize()
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	s.debug("insert note", "owner", owner)
	return s.repo.Insert(ctx, NewNote{
		Title:    d.Title,
		Body:     d.Body,
		Color:    d.Color,
		Labels:   d.Labels,
		UserID:   owner,
		Pinned:   false,
		Archived: false,
	})
}

// Edit writes the draft's fields onto an existing note.
func (s *Service) Edit(ctx context.Context, owner, id string, d Draft) error {
	d = d.Normalize()
	return s.update(ctx, owner, id, Patch{
		Title:  &d.Title,
		Body:   &d.Body,
		Color:  &d.Color,
		Labels: &d.Labels,
	})
}

// SetPinned writes the pinned flag.
func (s *Service) SetPinned(ctx context.Context, owner, id string, pinned bool) error {
	return s.update(ctx, owner, id, Patch{Pinned: &pinned})
}

// SetArchived writes the archived flag.
func (s *Service) SetArchived(ctx context.Context, owner, id string, archived bool) error {
	return s.update(ctx, owner, id, Patch{Archived: &archived})
}

// SetColor writes a color. The value is stored as given; see ResolveColor.
func (s *Service) SetColor(ctx context.Context, owner, id, color string) error {
	return s.update(ctx, owner, id, Patch{Color: &color})
}

// Delete removes a note permanently.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if owner == "" {
		return ErrUnauthenticated
	}
	if id == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	s.debug("delete note", "owner", owner, "id", id)
	return s.repo.Delete(ctx, owner, id)
}

func (s *Service) update(ctx context.Context, owner, id string, p Patch) error {
	if owner == "" {
		return ErrUnauthenticated
	}
	if id == "" {
		return ErrEmptyID
	}
	p.UpdatedAt = s.stamp()
	s.debug("update note", "owner", owner, "id", id)
	return s.repo.Update(ctx, owner, id, p)
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
