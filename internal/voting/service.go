package voting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	electionmodels "securevote/internal/election/models"
	ledgermodels "securevote/internal/ledger/models"
	ledgerstore "securevote/internal/ledger/store"
	"securevote/internal/platform/metrics"
	rollmodels "securevote/internal/roll/models"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/sentinel"
)

// ElectionRegistry is the slice of the election service a cast needs.
type ElectionRegistry interface {
	Get(ctx context.Context, electionID id.ElectionID) (*electionmodels.Election, []*electionmodels.Candidate, error)
	Candidate(ctx context.Context, candidateID id.CandidateID) (*electionmodels.Candidate, error)
}

// Ledger appends ballots inside the vote transaction.
type Ledger interface {
	Append(ctx context.Context, view ledgerstore.TxView, ticket rollmodels.Ticket, candidateID id.CandidateID, salt string) (*ledgermodels.Ballot, string, error)
}

// CastResult is what the voter gets back: enough to verify inclusion later,
// nothing that links them to the ballot for anyone else.
type CastResult struct {
	BallotID id.BallotID
	Receipt  string
	CastAt   time.Time
}

// Service runs the cast-vote orchestration.
type Service struct {
	elections ElectionRegistry
	ledger    Ledger
	runner    Runner
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(elections ElectionRegistry, ledger Ledger, runner Runner, opts ...Option) *Service {
	svc := &Service{
		elections: elections,
		ledger:    ledger,
		runner:    runner,
		logger:    slog.Default(),
		tracer:    otel.Tracer("securevote/voting"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CastVote validates eligibility, then flips the voter's has_voted flag and
// appends the ballot in one transaction. Everything that can talk to the
// outside world happens before the transaction opens; the critical section
// touches only the database.
func (s *Service) CastVote(ctx context.Context, handle id.VoterHandle, electionID id.ElectionID, candidateID id.CandidateID, salt string) (*CastResult, error) {
	ctx, span := s.tracer.Start(ctx, "CastVote",
		trace.WithAttributes(attribute.String("election.id", electionID.String())))
	defer span.End()

	if handle.IsZero() {
		return nil, derrors.New(derrors.CodeUnauthorized, "voter credential required")
	}
	if salt == "" {
		return nil, s.reject("missing_salt", derrors.New(derrors.CodeInvalidInput, "ballot salt is required"))
	}

	election, _, err := s.elections.Get(ctx, electionID)
	if err != nil {
		return nil, s.reject("election_not_found", err)
	}
	if election.Status != electionmodels.StatusActive {
		return nil, s.reject("election_not_active",
			derrors.Newf(derrors.CodeConflict, "election is not accepting ballots (status %s)", election.Status))
	}

	candidate, err := s.elections.Candidate(ctx, candidateID)
	if err != nil {
		return nil, s.reject("candidate_not_found", err)
	}
	if candidate.ElectionID != electionID {
		return nil, s.reject("candidate_mismatch",
			derrors.New(derrors.CodeInvalidInput, "candidate is not on this election's ballot"))
	}

	var (
		ballot  *ledgermodels.Ballot
		receipt string
	)
	err = s.runner.RunInTx(ctx, func(tx Tx) error {
		ticket, err := tx.Roll().CheckAndMarkVoted(ctx, electionID, handle)
		if err != nil {
			switch {
			case errors.Is(err, sentinel.ErrNotFound):
				return derrors.New(derrors.CodeForbidden, "not authorized for this election")
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				return derrors.New(derrors.CodeConflict, "a ballot has already been cast for this election")
			}
			return derrors.Wrap(err, derrors.CodeInternal, "eligibility check failed")
		}

		ballot, receipt, err = s.ledger.Append(ctx, tx.Ledger(), ticket, candidateID, salt)
		return err
	})
	if err != nil {
		return nil, s.reject(rejectReason(err), err)
	}

	if s.metrics != nil {
		s.metrics.VotesCastTotal.Inc()
	}
	span.SetAttributes(attribute.Int64("ballot.seq", ballot.Seq))
	return &CastResult{BallotID: ballot.ID, Receipt: receipt, CastAt: ballot.CastAt}, nil
}

func (s *Service) reject(reason string, err error) error {
	if s.metrics != nil {
		s.metrics.VotesRejectedTotal.WithLabelValues(reason).Inc()
	}
	return err
}

func rejectReason(err error) string {
	switch derrors.CodeOf(err) {
	case derrors.CodeForbidden:
		return "not_authorized"
	case derrors.CodeConflict:
		return "already_voted"
	default:
		return "transaction_failed"
	}
}
