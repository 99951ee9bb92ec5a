// Package store persists the append-only ballot ledger.
package store

import (
	"context"

	"securevote/internal/ledger/models"
	id "securevote/pkg/domain"
)

// Store is the ledger's read surface. Writes happen only through a TxView
// inside a vote transaction.
type Store interface {
	// ListAll returns every ballot in append order.
	ListAll(ctx context.Context) ([]*models.Ballot, error)

	// CountByCandidate aggregates ballots for one election.
	CountByCandidate(ctx context.Context, electionID id.ElectionID) (map[id.CandidateID]int, error)

	// Tail returns the current chain head without locking it.
	Tail(ctx context.Context) (lastHash string, lastSeq int64, err error)
}

// TxView is the append surface inside a vote transaction. Tail locks the
// chain head for the duration of the transaction, serializing appends.
type TxView interface {
	Tail(ctx context.Context) (lastHash string, lastSeq int64, err error)

	// Insert appends the ballot and advances the chain tail in the same
	// atomic unit. Returns the assigned sequence number.
	Insert(ctx context.Context, ballot *models.Ballot) (int64, error)
}
