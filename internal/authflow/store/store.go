// Package store holds in-flight authentication challenges. Both
// implementations are ephemeral: challenges expire and are never persisted to
// durable storage.
package store

import (
	"context"

	"securevote/internal/authflow/models"
	id "securevote/pkg/domain"
)

// Store keeps at most one challenge per voter handle.
type Store interface {
	// Put creates or replaces the challenge for its handle.
	Put(ctx context.Context, challenge *models.Challenge) error

	// Get returns sentinel.ErrNotFound when no challenge exists.
	Get(ctx context.Context, handle id.VoterHandle) (*models.Challenge, error)

	Delete(ctx context.Context, handle id.VoterHandle) error
}
