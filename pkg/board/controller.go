// Package board drives the two note pages: the active board and the archive.
//
// A Controller owns the loaded note set for one owner and one view. Every
// mutation performs a single write, then refetches the view whether or not
// the write succeeded, then reports the outcome through a Notifier.
package board

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/keep/pkg/core"
)

// NoteService is the subset of core.Service a Controller needs.
type NoteService interface {
	List(ctx context.Context, owner string, view core.View) ([]core.Note, error)
	Create(ctx context.Context, owner string, d core.Draft) (core.Note, error)
	Edit(ctx context.Context, owner, id string, d core.Draft) error
	SetPinned(ctx context.Context, owner, id string, pinned bool) error
	SetArchived(ctx context.Context, owner, id string, archived bool) error
	SetColor(ctx context.Context, owner, id, color string) error
	Delete(ctx context.Context, owner, id string) error
}

// Status is the load state of a page.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
)

// Controller holds page state for one view.
type Controller struct {
	svc    NoteService
	owner  string
	view   core.View
	notify Notifier
	logger *slog.Logger

	mu      sync.RWMutex
	status  Status
	notes   []core.Note
	query   string
	fetches int
	lastErr error
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where toasts go. Without one they are dropped.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notify = n
	}
}

// WithLogger sets the logger for failure reports.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller in the loading state.
func NewController(svc NoteService, owner string, view core.View, opts ...Option) *Controller {
	if view != core.ViewArchived {
		view = core.ViewActive
	}
	c := &Controller{
		svc:    svc,
		owner:  owner,
		view:   view,
		status: StatusLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns the view this controller serves.
func (c *Controller) View() core.View { return c.view }

// Owner returns the signed-in user the controller is scoped to.
func (c *Controller) Owner() string { return c.owner }

// Status returns the load state.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Load fetches the view. On failure the previous notes are kept and the page
// still leaves the loading state.
func (c *Controller) Load(ctx context.Context) error {
	return c.refresh(ctx)
}

func (c *Controller) refresh(ctx context.Context) error {
	notes, err := c.svc.List(ctx, c.owner, c.view)

	c.mu.Lock()
	c.fetches++
	c.status = StatusReady
	c.lastErr = err
	if err == nil {
		c.notes = notes
	}
	c.mu.Unlock()

	if err != nil {
		c.warn("fetch failed", err)
		if c.view.Archived() {
			c.emit(failure(MsgFetchArchivedFailed))
		} else {
			c.emit(failure(MsgFetchFailed))
		}
		return err
	}
	return nil
}

// SetQuery replaces the search text.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// Query returns the search text.
func (c *Controller) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// Notes returns the last fetched notes, unfiltered and in fetch order.
func (c *Controller) Notes() []core.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.Note, len(c.notes))
	copy(out, c.notes)
	return out
}

// Find looks up a loaded note by id.
func (c *Controller) Find(id string) (core.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.notes {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

// Render builds the page for the current notes and query.
func (c *Controller) Render() Page {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.status == StatusLoading {
		return Page{View: c.view, Loading: true, Query: c.query}
	}
	if c.view.Archived() {
		return renderArchived(c.notes, c.query)
	}
	return renderActive(c.notes, c.query)
}

// Save writes an editor draft. A nil selected note creates a new note on the
// active board; the archive never creates, so there it does nothing.
func (c *Controller) Save(ctx context.Context, selected *core.Note, d core.Draft) error {
	if selected != nil {
		return c.Update(ctx, selected.ID, d)
	}
	if c.view.Archived() {
		return nil
	}
	return c.Create(ctx, d)
}

// Create inserts a new note.
func (c *Controller) Create(ctx context.Context, d core.Draft) error {
	return c.mutate(ctx, "create", func() error {
		_, err := c.svc.Create(ctx, c.owner, d)
		return err
	}, MsgCreated, MsgSaveFailed)
}

// Update rewrites the content fields of an existing note.
func (c *Controller) Update(ctx context.Context, id string, d core.Draft) error {
	return c.mutate(ctx, "update", func() error {
		return c.svc.Edit(ctx, c.owner, id, d)
	}, MsgUpdated, MsgSaveFailed)
}

// TogglePin flips the pinned flag. Success is silent.
func (c *Controller) TogglePin(ctx context.Context, n core.Note) error {
	return c.mutate(ctx, "pin", func() error {
		return c.svc.SetPinned(ctx, c.owner, n.ID, !n.Pinned)
	}, "", MsgPinFailed)
}

// ToggleArchive flips the archived flag on the active board. On the archive
// it always restores the note.
func (c *Controller) ToggleArchive(ctx context.Context, n core.Note) error {
	if c.view.Archived() {
		return c.mutate(ctx, "unarchive", func() error {
			return c.svc.SetArchived(ctx, c.owner, n.ID, false)
		}, MsgUnarchived, MsgUnarchiveFailed)
	}

	ok := MsgArchived
	if n.Archived {
		ok = MsgUnarchived
	}
	return c.mutate(ctx, "archive", func() error {
		return c.svc.SetArchived(ctx, c.owner, n.ID, !n.Archived)
	}, ok, MsgArchiveFailed)
}

// SetColor changes the color of a note. Success is silent.
func (c *Controller) SetColor(ctx context.Context, n core.Note, color string) error {
	return c.mutate(ctx, "color", func() error {
		return c.svc.SetColor(ctx, c.owner, n.ID, color)
	}, "", MsgColorFailed)
}

// Delete removes a note.
func (c *Controller) Delete(ctx context.Context, n core.Note) error {
	ok := MsgDeleted
	if c.view.Archived() {
		ok = MsgDeletedPermanently
	}
	return c.mutate(ctx, "delete", func() error {
		return c.svc.Delete(ctx, c.owner, n.ID)
	}, ok, MsgDeleteFailed)
}

// mutate runs one write, refetches, then notifies. Fetch failures are
// reported by refresh and do not fail the mutation.
func (c *Controller) mutate(ctx context.Context, op string, write func() error, okMsg, failMsg string) error {
	err := write()
	if err != nil {
		c.warn(op+" failed", err)
	}

	_ = c.refresh(ctx)

	if err != nil {
		c.emit(failure(failMsg))
		return err
	}
	if okMsg != "" {
		c.emit(success(okMsg))
	}
	return nil
}

func (c *Controller) emit(t Toast) {
	if c.notify != nil {
		c.notify.Notify(t)
	}
}

func (c *Controller) warn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, "view", string(c.view), "error", err)
	}
}
