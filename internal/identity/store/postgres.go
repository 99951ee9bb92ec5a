package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"securevote/internal/biometric"
	"securevote/internal/identity/models"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
)

// PostgresStore persists identities in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, identity *models.Identity) error {
	query := `
		INSERT INTO identities (voter_handle, contact_hash, templates, enrolled_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		identity.Handle.String(),
		identity.ContactHash,
		templatesToArray(identity.Templates),
		identity.EnrolledAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) Replace(ctx context.Context, identity *models.Identity) error {
	query := `
		INSERT INTO identities (voter_handle, contact_hash, templates, enrolled_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (voter_handle) DO UPDATE SET
			contact_hash = EXCLUDED.contact_hash,
			templates = EXCLUDED.templates,
			enrolled_at = EXCLUDED.enrolled_at
	`
	_, err := s.db.ExecContext(ctx, query,
		identity.Handle.String(),
		identity.ContactHash,
		templatesToArray(identity.Templates),
		identity.EnrolledAt,
	)
	if err != nil {
		return fmt.Errorf("replace identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByHandle(ctx context.Context, handle id.VoterHandle) (*models.Identity, error) {
	query := `
		SELECT voter_handle, contact_hash, templates, enrolled_at
		FROM identities
		WHERE voter_handle = $1
	`
	var (
		identity  models.Identity
		rawHandle string
		templates pq.ByteaArray
	)
	err := s.db.QueryRowContext(ctx, query, handle.String()).Scan(
		&rawHandle,
		&identity.ContactHash,
		&templates,
		&identity.EnrolledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	identity.Handle = id.VoterHandle(rawHandle)
	identity.Templates = arrayToTemplates(templates)
	return &identity, nil
}

func (s *PostgresStore) Delete(ctx context.Context, handle id.VoterHandle) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM identities WHERE voter_handle = $1`, handle.String())
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func templatesToArray(templates []biometric.Template) pq.ByteaArray {
	out := make(pq.ByteaArray, len(templates))
	for i, t := range templates {
		out[i] = t
	}
	return out
}

func arrayToTemplates(arr pq.ByteaArray) []biometric.Template {
	out := make([]biometric.Template, len(arr))
	for i, b := range arr {
		out[i] = biometric.Template(b)
	}
	return out
}
