// Package store persists election authorization rolls.
package store

import (
	"context"

	"securevote/internal/roll/models"
	id "securevote/pkg/domain"
)

// Store is the roll's persistence surface outside the vote transaction.
type Store interface {
	// Authorize adds handles to an election's roll. Idempotent: handles
	// already on the roll are left untouched, so re-authorization can never
	// reset a has_voted flag. Returns how many handles were newly added.
	Authorize(ctx context.Context, electionID id.ElectionID, handles []id.VoterHandle) (int, error)

	// Find returns sentinel.ErrNotFound when the handle is not on the roll.
	Find(ctx context.Context, electionID id.ElectionID, handle id.VoterHandle) (*models.ElectionVoter, error)
}

// TxView is the slice of the roll available inside a vote transaction.
type TxView interface {
	// CheckAndMarkVoted atomically flips has_voted from false to true.
	// Fails with sentinel.ErrNotFound when the handle is not authorized and
	// sentinel.ErrAlreadyUsed when it already voted; neither failure mutates
	// the roll.
	CheckAndMarkVoted(ctx context.Context, electionID id.ElectionID, handle id.VoterHandle) (models.Ticket, error)
}
