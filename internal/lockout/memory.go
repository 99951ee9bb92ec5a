package lockout

import (
	"context"
	"sync"
	"time"

	id "securevote/pkg/domain"
)

type entry struct {
	failures    []time.Time
	lockedUntil time.Time
}

// InMemoryStore tracks lockout state in process memory.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[id.VoterHandle]*entry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.VoterHandle]*entry)}
}

func (s *InMemoryStore) AddFailure(_ context.Context, handle id.VoterHandle, at time.Time, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[handle]
	if !ok {
		e = &entry{}
		s.entries[handle] = e
	}

	cutoff := at.Add(-window)
	kept := e.failures[:0]
	for _, t := range e.failures {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	e.failures = append(kept, at)
	return len(e.failures), nil
}

func (s *InMemoryStore) LockedUntil(_ context.Context, handle id.VoterHandle) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[handle]; ok {
		return e.lockedUntil, nil
	}
	return time.Time{}, nil
}

func (s *InMemoryStore) Lock(_ context.Context, handle id.VoterHandle, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[handle]
	if !ok {
		e = &entry{}
		s.entries[handle] = e
	}
	e.lockedUntil = until
	e.failures = nil
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, handle id.VoterHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, handle)
	return nil
}
