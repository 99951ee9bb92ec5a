package store

import (
	"context"
	"sync"

	"securevote/internal/biometric"
	"securevote/internal/identity/models"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
)

// InMemoryStore keeps identities in a map. Used in development and unit
// tests; the postgres store is the durable implementation.
type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[id.VoterHandle]*models.Identity
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{identities: make(map[id.VoterHandle]*models.Identity)}
}

func (s *InMemoryStore) Create(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.identities[identity.Handle]; exists {
		return sentinel.ErrConflict
	}
	s.identities[identity.Handle] = cloneIdentity(identity)
	return nil
}

func (s *InMemoryStore) Replace(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity.Handle] = cloneIdentity(identity)
	return nil
}

func (s *InMemoryStore) FindByHandle(_ context.Context, handle id.VoterHandle) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[handle]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneIdentity(identity), nil
}

func (s *InMemoryStore) Delete(_ context.Context, handle id.VoterHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[handle]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.identities, handle)
	return nil
}

// cloneIdentity guards against callers mutating shared template slices.
func cloneIdentity(in *models.Identity) *models.Identity {
	out := *in
	out.Templates = make([]biometric.Template, 0, len(in.Templates))
	for _, t := range in.Templates {
		copied := make(biometric.Template, len(t))
		copy(copied, t)
		out.Templates = append(out.Templates, copied)
	}
	return &out
}
