package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"securevote/internal/roll/models"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
)

// PostgresStore persists rolls in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Authorize(ctx context.Context, electionID id.ElectionID, handles []id.VoterHandle) (int, error) {
	query := `
		INSERT INTO election_voters (election_id, voter_handle)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (election_id, voter_handle) DO NOTHING
	`
	raw := make([]string, len(handles))
	for i, h := range handles {
		raw[i] = h.String()
	}
	res, err := s.db.ExecContext(ctx, query, electionID.String(), pq.Array(raw))
	if err != nil {
		return 0, fmt.Errorf("authorize voters: %w", err)
	}
	added, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("authorize voters: %w", err)
	}
	return int(added), nil
}

func (s *PostgresStore) Find(ctx context.Context, electionID id.ElectionID, handle id.VoterHandle) (*models.ElectionVoter, error) {
	query := `
		SELECT has_voted FROM election_voters
		WHERE election_id = $1 AND voter_handle = $2
	`
	voter := models.ElectionVoter{ElectionID: electionID, Handle: handle}
	err := s.db.QueryRowContext(ctx, query, electionID.String(), handle.String()).Scan(&voter.HasVoted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find roll entry: %w", err)
	}
	return &voter, nil
}

// PostgresTxView runs the guard inside an open transaction. FOR UPDATE holds
// the row lock until commit, so a concurrent duplicate cast blocks here and
// then sees has_voted already set.
type PostgresTxView struct {
	tx *sql.Tx
}

func NewPostgresTxView(tx *sql.Tx) *PostgresTxView {
	return &PostgresTxView{tx: tx}
}

func (v *PostgresTxView) CheckAndMarkVoted(ctx context.Context, electionID id.ElectionID, handle id.VoterHandle) (models.Ticket, error) {
	var hasVoted bool
	err := v.tx.QueryRowContext(ctx, `
		SELECT has_voted FROM election_voters
		WHERE election_id = $1 AND voter_handle = $2
		FOR UPDATE
	`, electionID.String(), handle.String()).Scan(&hasVoted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ticket{}, sentinel.ErrNotFound
		}
		return models.Ticket{}, fmt.Errorf("lock roll entry: %w", err)
	}
	if hasVoted {
		return models.Ticket{}, sentinel.ErrAlreadyUsed
	}

	_, err = v.tx.ExecContext(ctx, `
		UPDATE election_voters SET has_voted = TRUE
		WHERE election_id = $1 AND voter_handle = $2
	`, electionID.String(), handle.String())
	if err != nil {
		return models.Ticket{}, fmt.Errorf("mark voted: %w", err)
	}
	return models.GrantTicket(electionID), nil
}
