package core

import "errors"

// Common errors.
var (
	ErrNotFound        = errors.New("note not found")
	ErrEmptyID         = errors.New("note ID cannot be empty")
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrEmptyNote       = errors.New("note has no title, body or labels")
)
