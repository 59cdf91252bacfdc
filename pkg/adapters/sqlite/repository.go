// Package sqlite is an embedded single-file notes backend built on
// modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/aretw0/keep/pkg/core"
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT 'default',
    labels TEXT NOT NULL DEFAULT '[]',
    pinned INTEGER NOT NULL DEFAULT 0,
    archived INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_owner ON notes(user_id, archived, pinned DESC, updated_at DESC);
`

const selectColumns = `id, user_id, title, body, color, labels, pinned, archived, created_at, updated_at`

// Repository implements core.Repository on a SQLite file.
type Repository struct {
	path   string
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu          sync.RWMutex
	initialized bool
	queries     int
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger for query traces.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithClock sets the clock used for created_at on insert.
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

// Open opens (creating if needed) the database file at path.
// The schema is created by Initialize.
func Open(path string, opts ...Option) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &Repository{
		path:  path,
		db:    db,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Path returns the database file path.
func (r *Repository) Path() string { return r.path }

// Close closes the database.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Initialize creates the notes table and index if they don't exist.
func (r *Repository) Initialize(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	r.mu.Lock()
	r.initialized = true
	r.mu.Unlock()
	return nil
}

// List returns the owner's notes for the view in the view's order.
func (r *Repository) List(ctx context.Context, q core.Query) ([]core.Note, error) {
	order := "pinned DESC, updated_at DESC, id"
	if q.View.Archived() {
		order = "updated_at DESC, id"
	}
	query := `SELECT ` + selectColumns + ` FROM notes WHERE user_id = ? AND archived = ? ORDER BY ` + order
	r.trace("list notes", "owner", q.Owner, "view", string(q.View))

	rows, err := r.db.QueryContext(ctx, query, q.Owner, boolToInt(q.View.Archived()))
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]core.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// Insert stores a new note.
func (r *Repository) Insert(ctx context.Context, nn core.NewNote) (core.Note, error) {
	labels := nn.Labels
	if labels == nil {
		labels = []string{}
	}
	encoded, err := json.Marshal(labels)
	if err != nil {
		return core.Note{}, fmt.Errorf("encode labels: %w", err)
	}

	ts := r.now().UTC()
	n := core.Note{
		ID:        r.newID(),
		Title:     nn.Title,
		Body:      nn.Body,
		Color:     nn.Color,
		Labels:    append([]string{}, labels...),
		Pinned:    nn.Pinned,
		Archived:  nn.Archived,
		CreatedAt: ts,
		UpdatedAt: ts,
		UserID:    nn.UserID,
	}
	r.trace("insert note", "owner", n.UserID, "id", n.ID)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notes (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Title, n.Body, n.Color, string(encoded),
		boolToInt(n.Pinned), boolToInt(n.Archived),
		formatTime(n.CreatedAt), formatTime(n.UpdatedAt))
	if err != nil {
		return core.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

// Update applies the set fields of a patch to one of the owner's notes.
func (r *Repository) Update(ctx context.Context, owner, id string, p core.Patch) error {
	var sets []string
	var args []any

	if p.Title != nil {
		sets, args = append(sets, "title = ?"), append(args, *p.Title)
	}
	if p.Body != nil {
		sets, args = append(sets, "body = ?"), append(args, *p.Body)
	}
	if p.Color != nil {
		sets, args = append(sets, "color = ?"), append(args, *p.Color)
	}
	if p.Labels != nil {
		labels := *p.Labels
		if labels == nil {
			labels = []string{}
		}
		encoded, err := json.Marshal(labels)
		if err != nil {
			return fmt.Errorf("encode labels: %w", err)
		}
		sets, args = append(sets, "labels = ?"), append(args, string(encoded))
	}
	if p.Pinned != nil {
		sets, args = append(sets, "pinned = ?"), append(args, boolToInt(*p.Pinned))
	}
	if p.Archived != nil {
		sets, args = append(sets, "archived = ?"), append(args, boolToInt(*p.Archived))
	}
	sets, args = append(sets, "updated_at = ?"), append(args, formatTime(p.UpdatedAt))
	args = append(args, id, owner)

	r.trace("update note", "owner", owner, "id", id, "fields", len(sets))
	res, err := r.db.ExecContext(ctx,
		`UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return expectOne(res, id)
}

// Delete removes one of the owner's notes.
func (r *Repository) Delete(ctx context.Context, owner, id string) error {
	r.trace("delete note", "owner", owner, "id", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (core.Note, error) {
	var n core.Note
	var labels, createdAt, updatedAt string
	var pinned, archived int

	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Color, &labels,
		&pinned, &archived, &createdAt, &updatedAt); err != nil {
		return core.Note{}, fmt.Errorf("scan note: %w", err)
	}
	if err := json.Unmarshal([]byte(labels), &n.Labels); err != nil {
		return core.Note{}, fmt.Errorf("decode labels of %s: %w", n.ID, err)
	}
	if n.Labels == nil {
		n.Labels = []string{}
	}
	n.Pinned = pinned == 1
	n.Archived = archived == 1
	var err error
	if n.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.Note{}, fmt.Errorf("decode created_at of %s: %w", n.ID, err)
	}
	if n.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return core.Note{}, fmt.Errorf("decode updated_at of %s: %w", n.ID, err)
	}
	return n, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *Repository) trace(msg string, args ...any) {
	r.mu.Lock()
	r.queries++
	r.mu.Unlock()
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path        string `json:"path"`
	Initialized bool   `json:"initialized"`
	Queries     int    `json:"queries"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RepositoryState{Path: r.path, Initialized: r.initialized, Queries: r.queries}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
