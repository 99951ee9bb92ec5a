package store

import (
	"context"
	"sync"

	"securevote/internal/roll/models"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
)

type rollKey struct {
	electionID id.ElectionID
	handle     id.VoterHandle
}

// InMemoryStore keeps rolls in a map. It implements both Store and TxView;
// the in-memory vote transaction serializes access around it.
type InMemoryStore struct {
	mu     sync.Mutex
	voters map[rollKey]*models.ElectionVoter
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{voters: make(map[rollKey]*models.ElectionVoter)}
}

func (s *InMemoryStore) Authorize(_ context.Context, electionID id.ElectionID, handles []id.VoterHandle) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, handle := range handles {
		key := rollKey{electionID: electionID, handle: handle}
		if _, exists := s.voters[key]; exists {
			continue
		}
		s.voters[key] = &models.ElectionVoter{ElectionID: electionID, Handle: handle}
		added++
	}
	return added, nil
}

func (s *InMemoryStore) Find(_ context.Context, electionID id.ElectionID, handle id.VoterHandle) (*models.ElectionVoter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter, ok := s.voters[rollKey{electionID: electionID, handle: handle}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cloned := *voter
	return &cloned, nil
}

func (s *InMemoryStore) CheckAndMarkVoted(_ context.Context, electionID id.ElectionID, handle id.VoterHandle) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter, ok := s.voters[rollKey{electionID: electionID, handle: handle}]
	if !ok {
		return models.Ticket{}, sentinel.ErrNotFound
	}
	if voter.HasVoted {
		return models.Ticket{}, sentinel.ErrAlreadyUsed
	}
	voter.HasVoted = true
	return models.GrantTicket(electionID), nil
}

// Unmark reverts a CheckAndMarkVoted flip. Only the in-memory vote
// transaction calls this, when the ledger append after the flip fails.
func (s *InMemoryStore) Unmark(_ context.Context, electionID id.ElectionID, handle id.VoterHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if voter, ok := s.voters[rollKey{electionID: electionID, handle: handle}]; ok {
		voter.HasVoted = false
	}
}
