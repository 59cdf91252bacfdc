package core

import "context"

// Repository is the port to the remote data service.
// Every call is scoped to an owner; implementations must never return or
// touch rows belonging to another owner, and List must honor the ordering
// documented on Query. Callers never re-sort the result.
type Repository interface {
	// Initialize ensures the backend is reachable or its schema exists.
	Initialize(ctx context.Context) error

	// List returns the owner's notes for one view, already ordered.
	List(ctx context.Context, q Query) ([]Note, error)

	// Insert creates a note and returns the stored row.
	Insert(ctx context.Context, n NewNote) (Note, error)

	// Update applies a patch to the note (owner, id).
	Update(ctx context.Context, owner, id string, p Patch) error

	// Delete removes the note (owner, id) permanently.
	Delete(ctx context.Context, owner, id string) error
}
