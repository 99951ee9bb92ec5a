package store

import (
	"context"
	"sync"

	"securevote/internal/ledger/models"
	id "securevote/pkg/domain"
)

// InMemoryStore keeps the ledger in an append-only slice. It implements both
// Store and TxView; the in-memory vote transaction serializes appends.
type InMemoryStore struct {
	mu      sync.Mutex
	ballots []*models.Ballot
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Ballot, len(s.ballots))
	for i, b := range s.ballots {
		cloned := *b
		out[i] = &cloned
	}
	return out, nil
}

func (s *InMemoryStore) CountByCandidate(_ context.Context, electionID id.ElectionID) (map[id.CandidateID]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[id.CandidateID]int)
	for _, b := range s.ballots {
		if b.ElectionID == electionID {
			counts[b.CandidateID]++
		}
	}
	return counts, nil
}

func (s *InMemoryStore) Tail(_ context.Context) (string, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tailLocked()
}

func (s *InMemoryStore) tailLocked() (string, int64, error) {
	if len(s.ballots) == 0 {
		return models.GenesisHash, 0, nil
	}
	last := s.ballots[len(s.ballots)-1]
	return last.BlockHash, last.Seq, nil
}

func (s *InMemoryStore) Insert(_ context.Context, ballot *models.Ballot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *ballot
	cloned.Seq = int64(len(s.ballots)) + 1
	s.ballots = append(s.ballots, &cloned)
	return cloned.Seq, nil
}

// Tamper overwrites a stored ballot in place, bypassing every invariant.
// Exists so integrity tests can simulate storage-level manipulation.
func (s *InMemoryStore) Tamper(index int, mutate func(*models.Ballot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index >= 0 && index < len(s.ballots) {
		mutate(s.ballots[index])
	}
}
