package board

import "github.com/aretw0/introspection"

// ControllerState exposes internal state for observability.
type ControllerState struct {
	View      string `json:"view"`
	Owner     string `json:"owner"`
	Status    string `json:"status"`
	Notes     int    `json:"notes"`
	Query     string `json:"query,omitempty"`
	Fetches   int    `json:"fetches"`
	LastError string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Controller) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := ControllerState{
		View:    string(c.view),
		Owner:   c.owner,
		Status:  string(c.status),
		Notes:   len(c.notes),
		Query:   c.query,
		Fetches: c.fetches,
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

// ComponentType implements introspection.Component.
func (c *Controller) ComponentType() string {
	return "board"
}

var _ introspection.Introspectable = (*Controller)(nil)
var _ introspection.Component = (*Controller)(nil)
var _ Saver = (*Controller)(nil)
