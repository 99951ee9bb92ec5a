// Package service implements the identity vault: enrollment of biometric
// templates against irreversible voter handles, and biometric authentication
// against stored templates.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"securevote/internal/biometric"
	"securevote/internal/identity/models"
	"securevote/internal/platform/audit"
	"securevote/internal/platform/config"
	"securevote/internal/platform/metrics"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/sentinel"
	"securevote/pkg/requestcontext"
)

// Store is the persistence surface the vault needs.
type Store interface {
	Create(ctx context.Context, identity *models.Identity) error
	Replace(ctx context.Context, identity *models.Identity) error
	FindByHandle(ctx context.Context, handle id.VoterHandle) (*models.Identity, error)
	Delete(ctx context.Context, handle id.VoterHandle) error
}

// Service owns identity enrollment and biometric verification.
type Service struct {
	store   Store
	matcher biometric.Matcher
	logger  *slog.Logger
	auditor audit.Publisher
	metrics *metrics.Metrics

	pepper           string
	minSamples       int
	enrollmentPolicy config.EnrollmentPolicy
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

func New(store Store, matcher biometric.Matcher, cfg config.Config, opts ...Option) *Service {
	svc := &Service{
		store:            store,
		matcher:          matcher,
		logger:           slog.Default(),
		pepper:           cfg.HandlePepper,
		minSamples:       cfg.MinEnrollSamples,
		enrollmentPolicy: cfg.EnrollmentPolicy,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Enroll derives the voter handle, extracts templates from the submitted
// samples and persists the identity. The plaintext identifier and contact are
// discarded on return.
func (s *Service) Enroll(ctx context.Context, realIdentifier, contact string, samples [][]byte) (id.VoterHandle, error) {
	if realIdentifier == "" {
		return "", derrors.New(derrors.CodeInvalidInput, "identifier is required")
	}
	if contact == "" {
		return "", derrors.New(derrors.CodeInvalidInput, "contact is required")
	}
	if len(samples) < s.minSamples {
		return "", derrors.Newf(derrors.CodeInvalidInput, "at least %d biometric samples are required", s.minSamples)
	}

	templates, err := s.extractTemplates(ctx, samples)
	if err != nil {
		return "", err
	}
	if len(templates) < s.minSamples {
		return "", derrors.Newf(derrors.CodeInvalidInput,
			"insufficient valid biometric samples: need %d, got %d", s.minSamples, len(templates))
	}

	handle := models.DeriveHandle(realIdentifier, s.pepper)
	identity := &models.Identity{
		Handle:      handle,
		ContactHash: models.DeriveContactRef(contact, s.pepper),
		Templates:   templates,
		EnrolledAt:  requestcontext.Now(ctx),
	}

	switch s.enrollmentPolicy {
	case config.EnrollmentReplace:
		if err := s.store.Replace(ctx, identity); err != nil {
			return "", derrors.Wrap(err, derrors.CodeInternal, "failed to store identity")
		}
	default:
		if err := s.store.Create(ctx, identity); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return "", derrors.New(derrors.CodeConflict, "already enrolled")
			}
			return "", derrors.Wrap(err, derrors.CodeInternal, "failed to store identity")
		}
	}

	if s.metrics != nil {
		s.metrics.EnrollmentsTotal.Inc()
	}
	s.emit(ctx, audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.EventVoterEnrolled,
		Subject:  handle.String(),
		Detail:   map[string]any{"templates": len(templates)},
	})
	return handle, nil
}

// extractTemplates runs collaborator extraction for all samples in parallel.
// Samples with no detectable features are skipped, not fatal; the caller
// enforces the minimum count.
func (s *Service) extractTemplates(ctx context.Context, samples [][]byte) ([]biometric.Template, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	templates := make([]biometric.Template, 0, len(samples))

	for _, sample := range samples {
		g.Go(func() error {
			template, err := s.matcher.ExtractTemplate(ctx, sample)
			if err != nil {
				if errors.Is(err, biometric.ErrNoFeatures) {
					return nil
				}
				return err
			}
			mu.Lock()
			templates = append(templates, template)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeUnavailable, "biometric extraction failed")
	}
	return templates, nil
}

// Authenticate compares a sample against the stored templates for a handle.
// The result is pass/fail plus distance for internal policy; callers that
// face voters must only surface pass/fail.
func (s *Service) Authenticate(ctx context.Context, handle id.VoterHandle, sample []byte) (biometric.MatchResult, error) {
	identity, err := s.store.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return biometric.MatchResult{}, derrors.New(derrors.CodeNotFound, "voter not enrolled")
		}
		return biometric.MatchResult{}, derrors.Wrap(err, derrors.CodeInternal, "failed to load identity")
	}

	result, err := s.matcher.Match(ctx, sample, identity.Templates)
	if err != nil {
		return biometric.MatchResult{}, derrors.Wrap(err, derrors.CodeUnavailable, "biometric match failed")
	}
	return result, nil
}

// ContactRef returns the delivery reference for a handle, for passcode
// delivery.
func (s *Service) ContactRef(ctx context.Context, handle id.VoterHandle) (string, error) {
	identity, err := s.store.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", derrors.New(derrors.CodeNotFound, "voter not enrolled")
		}
		return "", derrors.Wrap(err, derrors.CodeInternal, "failed to load identity")
	}
	return identity.ContactHash, nil
}

// Erase removes an identity entirely. Administrative erasure only; past
// ballots are untouched since nothing in the ledger references the handle.
func (s *Service) Erase(ctx context.Context, handle id.VoterHandle) error {
	if err := s.store.Delete(ctx, handle); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return derrors.New(derrors.CodeNotFound, "voter not enrolled")
		}
		return derrors.Wrap(err, derrors.CodeInternal, "failed to erase identity")
	}
	s.emit(ctx, audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.EventVoterErased,
		Subject:  handle.String(),
	})
	return nil
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
