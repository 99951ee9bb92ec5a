package store

import (
	"context"
	"sort"
	"sync"

	"securevote/internal/election/models"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
)

// InMemoryStore keeps the registry in maps.
type InMemoryStore struct {
	mu         sync.RWMutex
	elections  map[id.ElectionID]*models.Election
	candidates map[id.CandidateID]*models.Candidate
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		elections:  make(map[id.ElectionID]*models.Election),
		candidates: make(map[id.CandidateID]*models.Candidate),
	}
}

func (s *InMemoryStore) Create(_ context.Context, election *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.elections[election.ID]; exists {
		return sentinel.ErrConflict
	}
	cloned := *election
	s.elections[election.ID] = &cloned
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, electionID id.ElectionID) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[electionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cloned := *election
	return &cloned, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Election, 0, len(s.elections))
	for _, election := range s.elections {
		cloned := *election
		out = append(out, &cloned)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, electionID id.ElectionID, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[electionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	election.Status = status
	return nil
}

func (s *InMemoryStore) AddCandidate(_ context.Context, candidate *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elections[candidate.ElectionID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, exists := s.candidates[candidate.ID]; exists {
		return sentinel.ErrConflict
	}
	cloned := *candidate
	s.candidates[candidate.ID] = &cloned
	return nil
}

func (s *InMemoryStore) CandidatesByElection(_ context.Context, electionID id.ElectionID) ([]*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Candidate
	for _, candidate := range s.candidates {
		if candidate.ElectionID == electionID {
			cloned := *candidate
			out = append(out, &cloned)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) FindCandidate(_ context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cloned := *candidate
	return &cloned, nil
}
