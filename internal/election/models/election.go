package models

import (
	"time"

	id "securevote/pkg/domain"
)

// Status is the election lifecycle state.
type Status string

const (
	// StatusDraft accepts candidate changes; nothing is voter-visible yet.
	StatusDraft Status = "DRAFT"
	// StatusActive accepts ballots.
	StatusActive Status = "ACTIVE"
	// StatusPaused suspends ballot intake without ending the election.
	StatusPaused Status = "PAUSED"
	// StatusClosed is terminal. No ballots, no reopening.
	StatusClosed Status = "CLOSED"
)

// CanTransitionTo encodes the lifecycle guard: CLOSED is a one-way door and
// any other admin transition is allowed, so a draft can be paused or closed
// without ever activating.
func (s Status) CanTransitionTo(next Status) bool {
	return s != StatusClosed
}

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusClosed:
		return true
	}
	return false
}

// Election is one contest with its voting window.
type Election struct {
	ID          id.ElectionID
	Title       string
	Description string
	WindowStart time.Time
	WindowEnd   time.Time
	Status      Status
	CreatedAt   time.Time
}

// Candidate is one choice on an election's ballot.
type Candidate struct {
	ID         id.CandidateID
	ElectionID id.ElectionID
	Name       string
	Party      string
}
