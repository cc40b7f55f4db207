// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package session

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks every session currently ACTIVE or OPENING, keyed by a
// random id rather than by raw identity (§5: "a registry keyed by raw
// identity" becomes, in Go, a map keyed by a generated uuid.UUID since a
// *Session isn't itself comparable-by-value-across-goroutines the way a
// pointer identity trick in the original relies on).
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	stopped  bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// NextID returns a fresh random session id.
func (r *Registry) NextID() uuid.UUID {
	return uuid.New()
}

// Add registers s. It is a no-op, returning false, if the registry has
// already been stopped.
func (r *Registry) Add(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return false
	}
	r.sessions[s.id] = s
	return true
}

// Remove implements the Remover interface Session calls on close.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports how many sessions are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Stop marks the registry stopped (Add will refuse any further session) and
// closes every currently registered session, per Plugin's shutdown path
// (§4.5): "close every session (which takes it out of the registry)".
func (r *Registry) Stop() {
	r.mu.Lock()
	r.stopped = true
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
