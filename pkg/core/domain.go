// Package core holds the note domain: the Note entity, the list/search model
// and the Service that scopes every call to an owner.
package core

import "time"

// Note is the central entity of the domain.
// It is owned by the backend; the client only ever holds a transient copy.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Color     string    `json:"color"`
	Labels    []string  `json:"labels"`
	Pinned    bool      `json:"pinned"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id"`
}

// View selects which slice of an owner's notes a page shows.
type View string

const (
	ViewActive   View = "active"
	ViewArchived View = "archived"
)

// Archived reports the archived flag the view selects on.
func (v View) Archived() bool {
	return v == ViewArchived
}

// Query is what a Repository needs to produce a view.
// Ordering is implied by the view:
//   - ViewActive:   pinned desc, updated_at desc
//   - ViewArchived: updated_at desc
type Query struct {
	Owner string
	View  View
}

// NewNote is the insert payload. Timestamps are left to the backend.
type NewNote struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Color    string   `json:"color"`
	Labels   []string `json:"labels"`
	UserID   string   `json:"user_id"`
	Pinned   bool     `json:"pinned"`
	Archived bool     `json:"archived"`
}

// Patch is a partial update. Nil fields are left untouched.
// UpdatedAt is always written.
type Patch struct {
	Title     *string   `json:"title,omitempty"`
	Body      *string   `json:"body,omitempty"`
	Color     *string   `json:"color,omitempty"`
	Labels    *[]string `json:"labels,omitempty"`
	Pinned    *bool     `json:"pinned,omitempty"`
	Archived  *bool     `json:"archived,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Apply copies the set fields of p onto n.
func (p Patch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.Labels != nil {
		n.Labels = append([]string(nil), (*p.Labels)...)
	}
	if p.Pinned != nil {
		n.Pinned = *p.Pinned
	}
	if p.Archived != nil {
		n.Archived = *p.Archived
	}
	n.UpdatedAt = p.UpdatedAt
}
