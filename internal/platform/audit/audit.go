// Package audit emits security-relevant events from domain logic. Events are
// transport-agnostic; publishers fan them out to the log or to Kafka.
//
// Ballot events deliberately carry no voter handle: the audit stream must not
// become a side channel linking voters to ballots.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Category classifies events for retention and routing.
type Category string

const (
	// CategorySecurity covers auth failures, lockouts and enrollment events.
	CategorySecurity Category = "security"
	// CategoryElection covers lifecycle transitions and roll changes.
	CategoryElection Category = "election"
	// CategoryLedger covers ballot appends and chain verification outcomes.
	CategoryLedger Category = "ledger"
)

// Actions emitted by the voting core.
const (
	EventVoterEnrolled      = "voter_enrolled"
	EventVoterErased        = "voter_erased"
	EventBiometricFailed    = "biometric_failed"
	EventCodeIssued         = "code_issued"
	EventCodeRejected       = "code_rejected"
	EventCredentialIssued   = "credential_issued"
	EventLockoutTriggered   = "lockout_triggered"
	EventElectionCreated    = "election_created"
	EventElectionTransition = "election_transition"
	EventVotersAuthorized   = "voters_authorized"
	EventBallotAppended     = "ballot_appended"
	EventChainVerified      = "chain_verified"
	EventChainBroken        = "chain_broken"
)

// Event is one audit record.
type Event struct {
	Category  Category       `json:"category"`
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	RequestID string         `json:"request_id,omitempty"`
	// Subject is the pseudonymous actor or object (voter handle for auth
	// events, election ID for lifecycle events). Never set for ballot events.
	Subject string         `json:"subject,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// Publisher fans out audit events. Emit must be safe under concurrency and
// must never block domain logic for long; failures are logged, not returned
// to voters.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close()
}

// LogPublisher writes events to the structured log. Default when Kafka is
// not configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "audit event",
		"category", string(event.Category),
		"action", event.Action,
		"subject", event.Subject,
		"request_id", event.RequestID,
		"detail", event.Detail,
	)
	return nil
}

func (p *LogPublisher) Close() {}
