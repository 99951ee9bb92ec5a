// Package storage opens the shared PostgreSQL pool and owns the schema.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection. Returns nil when
// the DSN is empty (callers fall back to in-memory stores).
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, nil
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Schema is the full DDL for the voting core. Statements are idempotent so
// startup can apply them unconditionally.
const Schema = `
CREATE TABLE IF NOT EXISTS identities (
	voter_handle  TEXT PRIMARY KEY,
	contact_hash  TEXT NOT NULL,
	templates     BYTEA[] NOT NULL,
	enrolled_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS elections (
	election_id   UUID PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	window_start  TIMESTAMPTZ NOT NULL,
	window_end    TIMESTAMPTZ NOT NULL,
	status        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS candidates (
	candidate_id  UUID PRIMARY KEY,
	election_id   UUID NOT NULL REFERENCES elections(election_id),
	name          TEXT NOT NULL,
	party         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS candidates_election_idx ON candidates(election_id);

CREATE TABLE IF NOT EXISTS election_voters (
	election_id   UUID NOT NULL REFERENCES elections(election_id),
	voter_handle  TEXT NOT NULL,
	has_voted     BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (election_id, voter_handle)
);

CREATE TABLE IF NOT EXISTS ballots (
	seq           BIGSERIAL PRIMARY KEY,
	ballot_id     UUID NOT NULL UNIQUE,
	election_id   UUID NOT NULL REFERENCES elections(election_id),
	candidate_id  UUID NOT NULL REFERENCES candidates(candidate_id),
	cast_at       TIMESTAMPTZ NOT NULL,
	salt          TEXT NOT NULL,
	previous_hash TEXT NOT NULL,
	block_hash    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS ballots_election_idx ON ballots(election_id);

-- Single-row chain tail, updated inside the same transaction as each ballot
-- insert. Never cached in process memory.
CREATE TABLE IF NOT EXISTS ledger_tail (
	id        SMALLINT PRIMARY KEY CHECK (id = 1),
	last_hash TEXT NOT NULL,
	last_seq  BIGINT NOT NULL
);

INSERT INTO ledger_tail (id, last_hash, last_seq)
VALUES (1, '0', 0)
ON CONFLICT (id) DO NOTHING;
`

// EnsureSchema applies the schema. Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
