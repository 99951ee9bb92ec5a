package store

import (
	"context"
	"database/sql"
	"fmt"

	"securevote/internal/ledger/models"
	id "securevote/pkg/domain"
)

// PostgresStore reads the ledger from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Ballot, error) {
	query := `
		SELECT seq, ballot_id, election_id, candidate_id, cast_at, salt, previous_hash, block_hash
		FROM ballots
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ballots: %w", err)
	}
	defer rows.Close()

	var out []*models.Ballot
	for rows.Next() {
		ballot, err := scanBallot(rows)
		if err != nil {
			return nil, fmt.Errorf("list ballots: %w", err)
		}
		out = append(out, ballot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ballots: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByCandidate(ctx context.Context, electionID id.ElectionID) (map[id.CandidateID]int, error) {
	query := `
		SELECT candidate_id, COUNT(*) FROM ballots
		WHERE election_id = $1
		GROUP BY candidate_id
	`
	rows, err := s.db.QueryContext(ctx, query, electionID.String())
	if err != nil {
		return nil, fmt.Errorf("tally ballots: %w", err)
	}
	defer rows.Close()

	counts := make(map[id.CandidateID]int)
	for rows.Next() {
		var (
			rawCandidate string
			count        int
		)
		if err := rows.Scan(&rawCandidate, &count); err != nil {
			return nil, fmt.Errorf("tally ballots: %w", err)
		}
		candidateID, err := id.ParseCandidateID(rawCandidate)
		if err != nil {
			return nil, fmt.Errorf("tally ballots: %w", err)
		}
		counts[candidateID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tally ballots: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) Tail(ctx context.Context) (string, int64, error) {
	var (
		lastHash string
		lastSeq  int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT last_hash, last_seq FROM ledger_tail WHERE id = 1`).
		Scan(&lastHash, &lastSeq)
	if err != nil {
		return "", 0, fmt.Errorf("read ledger tail: %w", err)
	}
	return lastHash, lastSeq, nil
}

// PostgresTxView appends inside an open transaction. Tail takes a row lock on
// the single ledger_tail row, which serializes concurrent appends across the
// whole chain.
type PostgresTxView struct {
	tx *sql.Tx
}

func NewPostgresTxView(tx *sql.Tx) *PostgresTxView {
	return &PostgresTxView{tx: tx}
}

func (v *PostgresTxView) Tail(ctx context.Context) (string, int64, error) {
	var (
		lastHash string
		lastSeq  int64
	)
	err := v.tx.QueryRowContext(ctx, `SELECT last_hash, last_seq FROM ledger_tail WHERE id = 1 FOR UPDATE`).
		Scan(&lastHash, &lastSeq)
	if err != nil {
		return "", 0, fmt.Errorf("lock ledger tail: %w", err)
	}
	return lastHash, lastSeq, nil
}

func (v *PostgresTxView) Insert(ctx context.Context, ballot *models.Ballot) (int64, error) {
	var seq int64
	err := v.tx.QueryRowContext(ctx, `
		INSERT INTO ballots (ballot_id, election_id, candidate_id, cast_at, salt, previous_hash, block_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`,
		ballot.ID.String(),
		ballot.ElectionID.String(),
		ballot.CandidateID.String(),
		ballot.CastAt,
		ballot.Salt,
		ballot.PreviousHash,
		ballot.BlockHash,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("insert ballot: %w", err)
	}

	_, err = v.tx.ExecContext(ctx, `
		UPDATE ledger_tail SET last_hash = $1, last_seq = $2 WHERE id = 1
	`, ballot.BlockHash, seq)
	if err != nil {
		return 0, fmt.Errorf("advance ledger tail: %w", err)
	}
	return seq, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBallot(row rowScanner) (*models.Ballot, error) {
	var (
		ballot                               models.Ballot
		rawBallot, rawElection, rawCandidate string
	)
	err := row.Scan(
		&ballot.Seq,
		&rawBallot,
		&rawElection,
		&rawCandidate,
		&ballot.CastAt,
		&ballot.Salt,
		&ballot.PreviousHash,
		&ballot.BlockHash,
	)
	if err != nil {
		return nil, err
	}
	ballotID, err := id.ParseBallotID(rawBallot)
	if err != nil {
		return nil, err
	}
	electionID, err := id.ParseElectionID(rawElection)
	if err != nil {
		return nil, err
	}
	candidateID, err := id.ParseCandidateID(rawCandidate)
	if err != nil {
		return nil, err
	}
	ballot.ID = ballotID
	ballot.ElectionID = electionID
	ballot.CandidateID = candidateID
	return &ballot, nil
}
