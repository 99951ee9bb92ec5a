package store

import (
	"context"
	"sync"

	"securevote/internal/authflow/models"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
)

// InMemoryStore keeps challenges in a map. Single-instance deployments and
// tests; the redis store is the shared implementation.
type InMemoryStore struct {
	mu         sync.RWMutex
	challenges map[id.VoterHandle]*models.Challenge
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{challenges: make(map[id.VoterHandle]*models.Challenge)}
}

func (s *InMemoryStore) Put(_ context.Context, challenge *models.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *challenge
	s.challenges[challenge.Handle] = &cloned
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, handle id.VoterHandle) (*models.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenge, ok := s.challenges[handle]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cloned := *challenge
	return &cloned, nil
}

func (s *InMemoryStore) Delete(_ context.Context, handle id.VoterHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, handle)
	return nil
}
