// Package service owns the hash-chained ballot ledger: appends inside the
// vote transaction, full-chain verification, and tallying.
package service

import (
	"context"
	"log/slog"
	"time"

	"securevote/internal/ledger/models"
	"securevote/internal/ledger/store"
	"securevote/internal/platform/audit"
	"securevote/internal/platform/metrics"
	rollmodels "securevote/internal/roll/models"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/requestcontext"
)

// VerifyResult is the outcome of a full-chain verification.
type VerifyResult struct {
	Valid bool
	// FirstBrokenIndex is the zero-based append position of the first ballot
	// that fails verification, -1 when the chain is intact.
	FirstBrokenIndex int
	Length           int
}

type Service struct {
	store   store.Store
	logger  *slog.Logger
	auditor audit.Publisher
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(st store.Store, opts ...Option) *Service {
	svc := &Service{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Append writes one ballot to the chain. It runs only inside a vote
// transaction: the view locks the chain tail, and the ticket proves the
// roll's 0 to 1 flip happened in the same transaction. Returns the ballot
// and the voter's receipt.
func (s *Service) Append(ctx context.Context, view store.TxView, ticket rollmodels.Ticket, candidateID id.CandidateID, salt string) (*models.Ballot, string, error) {
	if !ticket.Granted() {
		return nil, "", derrors.New(derrors.CodeInternal, "ballot append without a granted ticket")
	}

	lastHash, _, err := view.Tail(ctx)
	if err != nil {
		return nil, "", derrors.Wrap(err, derrors.CodeInternal, "failed to read chain tail")
	}

	ballot := &models.Ballot{
		ID:           id.NewBallotID(),
		ElectionID:   ticket.ElectionID(),
		CandidateID:  candidateID,
		CastAt:       requestcontext.Now(ctx),
		Salt:         salt,
		PreviousHash: lastHash,
	}
	ballot.BlockHash = models.ComputeBlockHash(ballot)

	seq, err := view.Insert(ctx, ballot)
	if err != nil {
		return nil, "", derrors.Wrap(err, derrors.CodeInternal, "failed to append ballot")
	}
	ballot.Seq = seq

	s.emit(ctx, audit.Event{
		Category: audit.CategoryLedger,
		Action:   audit.EventBallotAppended,
		Detail:   map[string]any{"election_id": ballot.ElectionID.String(), "seq": seq},
	})
	return ballot, models.Receipt(ballot.ID, salt), nil
}

// VerifyChainIntegrity recomputes every block hash in append order and checks
// each link to its predecessor. Read-only; a broken chain is reported, never
// repaired.
func (s *Service) VerifyChainIntegrity(ctx context.Context) (VerifyResult, error) {
	started := time.Now()
	ballots, err := s.store.ListAll(ctx)
	if err != nil {
		return VerifyResult{}, derrors.Wrap(err, derrors.CodeInternal, "failed to load ledger")
	}

	result := VerifyResult{Valid: true, FirstBrokenIndex: -1, Length: len(ballots)}
	previousHash := models.GenesisHash
	for i, ballot := range ballots {
		if ballot.PreviousHash != previousHash || models.ComputeBlockHash(ballot) != ballot.BlockHash {
			result.Valid = false
			result.FirstBrokenIndex = i
			break
		}
		previousHash = ballot.BlockHash
	}

	if s.metrics != nil {
		s.metrics.ChainVerifyDuration.Observe(time.Since(started).Seconds())
	}

	if result.Valid {
		s.emit(ctx, audit.Event{
			Category: audit.CategoryLedger,
			Action:   audit.EventChainVerified,
			Detail:   map[string]any{"length": result.Length},
		})
	} else {
		s.logger.ErrorContext(ctx, "ballot chain integrity fault",
			"first_broken_index", result.FirstBrokenIndex, "length", result.Length)
		s.emit(ctx, audit.Event{
			Category: audit.CategoryLedger,
			Action:   audit.EventChainBroken,
			Detail:   map[string]any{"first_broken_index": result.FirstBrokenIndex, "length": result.Length},
		})
	}
	return result, nil
}

// Tally aggregates ballots per candidate for one election.
func (s *Service) Tally(ctx context.Context, electionID id.ElectionID) (map[id.CandidateID]int, error) {
	counts, err := s.store.CountByCandidate(ctx, electionID)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to tally ballots")
	}
	return counts, nil
}

// VerifiedTally verifies the full chain before counting and withholds the
// tally entirely when the chain is broken. Results from a tampered ledger
// are worse than no results.
func (s *Service) VerifiedTally(ctx context.Context, electionID id.ElectionID) (map[id.CandidateID]int, error) {
	result, err := s.VerifyChainIntegrity(ctx)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, derrors.Newf(derrors.CodeIntegrity,
			"ballot chain integrity fault at index %d, tally withheld", result.FirstBrokenIndex)
	}
	return s.Tally(ctx, electionID)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err, "action", event.Action)
	}
}
