package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string     `json:"repository_type"`
	Reads          int        `json:"reads"`
	Writes         int        `json:"writes"`
	LastStamp      *time.Time `json:"last_stamp,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	state := ServiceState{
		RepositoryType: repoType,
		Reads:          s.reads,
		Writes:         s.writes,
	}
	if !s.lastStamp.IsZero() {
		last := s.lastStamp
		state.LastStamp = &last
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
