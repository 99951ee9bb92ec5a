package store

import (
	"context"

	"securevote/internal/identity/models"
	id "securevote/pkg/domain"
)

// Store persists enrolled identities. Create fails with sentinel.ErrConflict
// when the handle is already enrolled; Replace overwrites templates and
// contact hash wholesale (re-enrollment under the replace policy).
type Store interface {
	Create(ctx context.Context, identity *models.Identity) error
	Replace(ctx context.Context, identity *models.Identity) error
	FindByHandle(ctx context.Context, handle id.VoterHandle) (*models.Identity, error)
	Delete(ctx context.Context, handle id.VoterHandle) error
}
