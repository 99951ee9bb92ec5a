// Package service manages election authorization rolls.
package service

import (
	"context"
	"errors"
	"log/slog"

	"securevote/internal/platform/audit"
	"securevote/internal/roll/models"
	"securevote/internal/roll/store"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/sentinel"
	"securevote/pkg/requestcontext"
)

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

// Authorize adds voter handles to an election's roll. Re-authorizing an
// existing entry is a no-op, so a voter who already cast stays marked.
func (s *Service) Authorize(ctx context.Context, electionID id.ElectionID, handles []id.VoterHandle) (int, error) {
	if len(handles) == 0 {
		return 0, derrors.New(derrors.CodeInvalidInput, "at least one voter handle is required")
	}

	added, err := s.store.Authorize(ctx, electionID, handles)
	if err != nil {
		return 0, derrors.Wrap(err, derrors.CodeInternal, "failed to authorize voters")
	}

	s.emit(ctx, audit.Event{
		Category: audit.CategoryElection,
		Action:   audit.EventVotersAuthorized,
		Subject:  electionID.String(),
		Detail:   map[string]any{"requested": len(handles), "added": added},
	})
	return added, nil
}

// Status returns a voter's roll entry for an election.
func (s *Service) Status(ctx context.Context, electionID id.ElectionID, handle id.VoterHandle) (*models.ElectionVoter, error) {
	voter, err := s.store.Find(ctx, electionID, handle)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, derrors.New(derrors.CodeForbidden, "not authorized for this election")
		}
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to load roll entry")
	}
	return voter, nil
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
