// Package domain holds typed identifiers shared across features. Distinct
// types keep an ElectionID from ever being passed where a CandidateID is
// expected; the compiler enforces what code review would otherwise have to.
package domain

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	derrors "securevote/pkg/domain-errors"
)

// ElectionID identifies an election.
type ElectionID uuid.UUID

// CandidateID identifies a candidate within an election.
type CandidateID uuid.UUID

// BallotID identifies an appended ballot.
type BallotID uuid.UUID

func (id ElectionID) String() string  { return uuid.UUID(id).String() }
func (id CandidateID) String() string { return uuid.UUID(id).String() }
func (id BallotID) String() string    { return uuid.UUID(id).String() }

func (id ElectionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CandidateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BallotID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// NewElectionID mints a random election ID.
func NewElectionID() ElectionID { return ElectionID(uuid.New()) }

// NewCandidateID mints a random candidate ID.
func NewCandidateID() CandidateID { return CandidateID(uuid.New()) }

// NewBallotID mints a random ballot ID.
func NewBallotID() BallotID { return BallotID(uuid.New()) }

func parseUUID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, derrors.Newf(derrors.CodeInvalidInput, "%s is required", what)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, derrors.Newf(derrors.CodeInvalidInput, "invalid %s", what)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, derrors.Newf(derrors.CodeInvalidInput, "%s must not be nil", what)
	}
	return parsed, nil
}

// ParseElectionID validates and parses an election ID from its string form.
func ParseElectionID(raw string) (ElectionID, error) {
	parsed, err := parseUUID(raw, "election_id")
	return ElectionID(parsed), err
}

// ParseCandidateID validates and parses a candidate ID from its string form.
func ParseCandidateID(raw string) (CandidateID, error) {
	parsed, err := parseUUID(raw, "candidate_id")
	return CandidateID(parsed), err
}

// ParseBallotID validates and parses a ballot ID from its string form.
func ParseBallotID(raw string) (BallotID, error) {
	parsed, err := parseUUID(raw, "ballot_id")
	return BallotID(parsed), err
}

// VoterHandle is the irreversible derived identifier standing in for a
// voter's real identity. It is the hex form of a one-way digest; the plaintext
// identifier it was derived from is never stored.
type VoterHandle string

// handleHexLen is the length of a hex-encoded SHA-256 digest.
const handleHexLen = 64

func (h VoterHandle) String() string { return string(h) }

// IsZero reports whether the handle is unset.
func (h VoterHandle) IsZero() bool { return h == "" }

// ParseVoterHandle validates the wire form of a voter handle.
func ParseVoterHandle(raw string) (VoterHandle, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", derrors.New(derrors.CodeInvalidInput, "voter handle is required")
	}
	if len(raw) != handleHexLen {
		return "", derrors.New(derrors.CodeInvalidInput, "invalid voter handle")
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", derrors.New(derrors.CodeInvalidInput, "invalid voter handle")
	}
	return VoterHandle(raw), nil
}
