package tui

import (
	"sync"

	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
)

// loadedMsg reports that a page fetch or mutation finished. Toasts raised
// while the command ran travel with it.
type loadedMsg struct {
	view   core.View
	err    error
	toasts []board.Toast
}

// editorClosedMsg reports that the editor's save-on-close finished.
type editorClosedMsg struct {
	saved  bool
	err    error
	toasts []board.Toast
}

type signedInMsg struct {
	err error
}

// signedOutMsg is sent after a local sign-out or when another process
// removed the session.
type signedOutMsg struct {
	external bool
	err      error
}

type dismissToastMsg struct {
	seq int
}

// toastQueue collects toasts from controllers running inside commands.
type toastQueue struct {
	mu     sync.Mutex
	toasts []board.Toast
}

// Notify implements board.Notifier.
func (q *toastQueue) Notify(t board.Toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, t)
}

func (q *toastQueue) drain() []board.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.toasts
	q.toasts = nil
	return out
}
