package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"securevote/internal/election/models"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
)

// PostgresStore persists the registry in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, election *models.Election) error {
	query := `
		INSERT INTO elections (election_id, title, description, window_start, window_end, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		election.ID.String(),
		election.Title,
		election.Description,
		election.WindowStart,
		election.WindowEnd,
		string(election.Status),
		election.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create election: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	query := `
		SELECT election_id, title, description, window_start, window_end, status, created_at
		FROM elections
		WHERE election_id = $1
	`
	election, err := scanElection(s.db.QueryRowContext(ctx, query, electionID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find election: %w", err)
	}
	return election, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Election, error) {
	query := `
		SELECT election_id, title, description, window_start, window_end, status, created_at
		FROM elections
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	defer rows.Close()

	var out []*models.Election
	for rows.Next() {
		election, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("list elections: %w", err)
		}
		out = append(out, election)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, electionID id.ElectionID, status models.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE elections SET status = $2 WHERE election_id = $1`,
		electionID.String(), string(status),
	)
	if err != nil {
		return fmt.Errorf("update election status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update election status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AddCandidate(ctx context.Context, candidate *models.Candidate) error {
	query := `
		INSERT INTO candidates (candidate_id, election_id, name, party)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		candidate.ID.String(),
		candidate.ElectionID.String(),
		candidate.Name,
		candidate.Party,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return sentinel.ErrConflict
			case "foreign_key_violation":
				return sentinel.ErrNotFound
			}
		}
		return fmt.Errorf("add candidate: %w", err)
	}
	return nil
}

func (s *PostgresStore) CandidatesByElection(ctx context.Context, electionID id.ElectionID) ([]*models.Candidate, error) {
	query := `
		SELECT candidate_id, election_id, name, party
		FROM candidates
		WHERE election_id = $1
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query, electionID.String())
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []*models.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("list candidates: %w", err)
		}
		out = append(out, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindCandidate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	query := `
		SELECT candidate_id, election_id, name, party
		FROM candidates
		WHERE candidate_id = $1
	`
	candidate, err := scanCandidate(s.db.QueryRowContext(ctx, query, candidateID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	return candidate, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElection(row rowScanner) (*models.Election, error) {
	var (
		election           models.Election
		electionID, status string
	)
	err := row.Scan(
		&electionID,
		&election.Title,
		&election.Description,
		&election.WindowStart,
		&election.WindowEnd,
		&status,
		&election.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	parsed, err := id.ParseElectionID(electionID)
	if err != nil {
		return nil, err
	}
	election.ID = parsed
	election.Status = models.Status(status)
	return &election, nil
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		candidate                models.Candidate
		candidateID, electionID string
	)
	if err := row.Scan(&candidateID, &electionID, &candidate.Name, &candidate.Party); err != nil {
		return nil, err
	}
	parsedCandidate, err := id.ParseCandidateID(candidateID)
	if err != nil {
		return nil, err
	}
	parsedElection, err := id.ParseElectionID(electionID)
	if err != nil {
		return nil, err
	}
	candidate.ID = parsedCandidate
	candidate.ElectionID = parsedElection
	return &candidate, nil
}
