// Package service owns the election lifecycle: creation, candidate
// management while in draft, and admin status transitions with CLOSED as the
// terminal state.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"securevote/internal/election/models"
	"securevote/internal/election/store"
	"securevote/internal/platform/audit"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/sentinel"
	"securevote/pkg/requestcontext"
)

// minCandidates is the floor for activating an election. A contest with
// fewer choices is not a contest.
const minCandidates = 2

type Service struct {
	store   store.Store
	logger  *slog.Logger
	auditor audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func New(st store.Store, opts ...Option) *Service {
	svc := &Service{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create registers a new election in DRAFT.
func (s *Service) Create(ctx context.Context, title, description string, windowStart, windowEnd time.Time) (*models.Election, error) {
	if title == "" {
		return nil, derrors.New(derrors.CodeInvalidInput, "title is required")
	}
	if !windowEnd.After(windowStart) {
		return nil, derrors.New(derrors.CodeInvalidInput, "voting window end must be after its start")
	}

	election := &models.Election{
		ID:          id.NewElectionID(),
		Title:       title,
		Description: description,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Status:      models.StatusDraft,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, election); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to create election")
	}

	s.emit(ctx, audit.Event{
		Category: audit.CategoryElection,
		Action:   audit.EventElectionCreated,
		Subject:  election.ID.String(),
		Detail:   map[string]any{"title": title},
	})
	return election, nil
}

// AddCandidate registers a choice on a draft election. Once the election
// leaves DRAFT the ballot is frozen.
func (s *Service) AddCandidate(ctx context.Context, electionID id.ElectionID, name, party string) (*models.Candidate, error) {
	if name == "" {
		return nil, derrors.New(derrors.CodeInvalidInput, "candidate name is required")
	}

	election, err := s.get(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != models.StatusDraft {
		return nil, derrors.Newf(derrors.CodeConflict, "candidates cannot be added in status %s", election.Status)
	}

	candidate := &models.Candidate{
		ID:         id.NewCandidateID(),
		ElectionID: electionID,
		Name:       name,
		Party:      party,
	}
	if err := s.store.AddCandidate(ctx, candidate); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to add candidate")
	}
	return candidate, nil
}

// Transition moves an election to the requested status. Activation requires
// a real contest of at least two candidates; nothing leaves CLOSED.
func (s *Service) Transition(ctx context.Context, electionID id.ElectionID, next models.Status) (*models.Election, error) {
	if !next.Valid() {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "unknown election status %q", next)
	}

	election, err := s.get(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !election.Status.CanTransitionTo(next) {
		return nil, derrors.Newf(derrors.CodeConflict, "cannot transition from %s to %s", election.Status, next)
	}

	if next == models.StatusActive {
		candidates, err := s.store.CandidatesByElection(ctx, electionID)
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to load candidates")
		}
		if len(candidates) < minCandidates {
			return nil, derrors.Newf(derrors.CodeConflict, "election needs at least %d candidates to activate", minCandidates)
		}
	}

	if err := s.store.UpdateStatus(ctx, electionID, next); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to update election status")
	}

	s.emit(ctx, audit.Event{
		Category: audit.CategoryElection,
		Action:   audit.EventElectionTransition,
		Subject:  electionID.String(),
		Detail:   map[string]any{"from": string(election.Status), "to": string(next)},
	})

	election.Status = next
	return election, nil
}

// Get returns an election with its candidates.
func (s *Service) Get(ctx context.Context, electionID id.ElectionID) (*models.Election, []*models.Candidate, error) {
	election, err := s.get(ctx, electionID)
	if err != nil {
		return nil, nil, err
	}
	candidates, err := s.store.CandidatesByElection(ctx, electionID)
	if err != nil {
		return nil, nil, derrors.Wrap(err, derrors.CodeInternal, "failed to load candidates")
	}
	return election, candidates, nil
}

// List returns every election, oldest first.
func (s *Service) List(ctx context.Context) ([]*models.Election, error) {
	elections, err := s.store.List(ctx)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to list elections")
	}
	return elections, nil
}

// Candidate resolves a candidate by ID.
func (s *Service) Candidate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	candidate, err := s.store.FindCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, derrors.New(derrors.CodeNotFound, "candidate not found")
		}
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to load candidate")
	}
	return candidate, nil
}

func (s *Service) get(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	election, err := s.store.FindByID(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, derrors.New(derrors.CodeNotFound, "election not found")
		}
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to load election")
	}
	return election, nil
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
