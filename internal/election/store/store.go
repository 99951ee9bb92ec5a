// Package store persists elections and their candidates.
package store

import (
	"context"

	"securevote/internal/election/models"
	id "securevote/pkg/domain"
)

// Store is the registry's persistence surface. FindByID returns
// sentinel.ErrNotFound for unknown elections; UpdateStatus writes the status
// unconditionally, transition legality is the service's job.
type Store interface {
	Create(ctx context.Context, election *models.Election) error
	FindByID(ctx context.Context, electionID id.ElectionID) (*models.Election, error)
	List(ctx context.Context) ([]*models.Election, error)
	UpdateStatus(ctx context.Context, electionID id.ElectionID, status models.Status) error

	AddCandidate(ctx context.Context, candidate *models.Candidate) error
	CandidatesByElection(ctx context.Context, electionID id.ElectionID) ([]*models.Candidate, error)
	FindCandidate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error)
}
