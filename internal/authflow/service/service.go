// Package service runs the two-factor authentication flow: biometric
// verification, one-time passcode issuance and verification, and credential
// minting. One challenge per handle, one live passcode per challenge.
package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"securevote/internal/authflow/models"
	"securevote/internal/authflow/store"
	"securevote/internal/biometric"
	"securevote/internal/credential"
	"securevote/internal/platform/audit"
	"securevote/internal/platform/config"
	"securevote/internal/platform/metrics"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/sentinel"
	"securevote/pkg/requestcontext"
)

// IdentityVerifier is the slice of the identity vault this flow needs.
type IdentityVerifier interface {
	Authenticate(ctx context.Context, handle id.VoterHandle, sample []byte) (biometric.MatchResult, error)
	ContactRef(ctx context.Context, handle id.VoterHandle) (string, error)
}

// CodeDeliverer sends a passcode to a voter's contact reference.
type CodeDeliverer interface {
	DeliverCode(ctx context.Context, contactRef, code string) error
}

// CredentialIssuer mints session credentials.
type CredentialIssuer interface {
	Issue(handle id.VoterHandle, role string, ttl time.Duration, now time.Time) (string, error)
}

// Lockout throttles repeated failures per handle.
type Lockout interface {
	Check(ctx context.Context, handle id.VoterHandle, now time.Time) error
	RecordFailure(ctx context.Context, handle id.VoterHandle, now time.Time) (bool, error)
	Clear(ctx context.Context, handle id.VoterHandle) error
}

// Service drives challenges through the stage machine.
type Service struct {
	identity    IdentityVerifier
	challenges  store.Store
	deliverer   CodeDeliverer
	credentials CredentialIssuer
	lockout     Lockout
	logger      *slog.Logger
	auditor     audit.Publisher
	metrics     *metrics.Metrics

	codeTTL       time.Duration
	codeLength    int
	credentialTTL time.Duration
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

func New(
	identity IdentityVerifier,
	challenges store.Store,
	deliverer CodeDeliverer,
	credentials CredentialIssuer,
	lockout Lockout,
	cfg config.Config,
	opts ...Option,
) *Service {
	svc := &Service{
		identity:      identity,
		challenges:    challenges,
		deliverer:     deliverer,
		credentials:   credentials,
		lockout:       lockout,
		logger:        slog.Default(),
		codeTTL:       cfg.CodeTTL,
		codeLength:    cfg.CodeLength,
		credentialTTL: cfg.CredentialTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// VerifyBiometric is the first factor. Success opens a challenge at
// StageBiometricVerified; failure counts toward lockout. Voters only learn
// pass or fail, never the match distance.
func (s *Service) VerifyBiometric(ctx context.Context, handle id.VoterHandle, sample []byte) error {
	now := requestcontext.Now(ctx)
	if err := s.lockout.Check(ctx, handle, now); err != nil {
		return err
	}

	result, err := s.identity.Authenticate(ctx, handle, sample)
	if err != nil {
		return err
	}
	if !result.Matched {
		s.recordFailure(ctx, handle, now, "biometric")
		s.emit(ctx, audit.Event{
			Category: audit.CategorySecurity,
			Action:   audit.EventBiometricFailed,
			Subject:  handle.String(),
		})
		return derrors.New(derrors.CodeUnauthorized, "biometric verification failed")
	}

	challenge := &models.Challenge{
		Handle:    handle,
		Stage:     models.StageBiometricVerified,
		StartedAt: now,
	}
	if err := s.challenges.Put(ctx, challenge); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "failed to open challenge")
	}
	return nil
}

// IssueCode is the hand-off to the second factor. Requires a challenge past
// the biometric stage; issuing again replaces any live passcode, so at most
// one passcode is valid per handle at any time.
func (s *Service) IssueCode(ctx context.Context, handle id.VoterHandle) error {
	now := requestcontext.Now(ctx)
	if err := s.lockout.Check(ctx, handle, now); err != nil {
		return err
	}

	challenge, err := s.challenges.Get(ctx, handle)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return derrors.New(derrors.CodeBadRequest, "biometric verification required first")
		}
		return derrors.Wrap(err, derrors.CodeInternal, "failed to load challenge")
	}
	if challenge.Stage != models.StageBiometricVerified && challenge.Stage != models.StageCodeIssued {
		return derrors.New(derrors.CodeBadRequest, "biometric verification required first")
	}

	code, err := generateCode(s.codeLength)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "failed to generate passcode")
	}

	contactRef, err := s.identity.ContactRef(ctx, handle)
	if err != nil {
		return err
	}
	if err := s.deliverer.DeliverCode(ctx, contactRef, code); err != nil {
		return derrors.Wrap(err, derrors.CodeUnavailable, "passcode delivery failed")
	}

	challenge.Stage = models.StageCodeIssued
	challenge.Code = code
	challenge.CodeIssuedAt = now
	if err := s.challenges.Put(ctx, challenge); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "failed to store challenge")
	}

	if s.metrics != nil {
		s.metrics.CodesIssuedTotal.Inc()
	}
	s.emit(ctx, audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.EventCodeIssued,
		Subject:  handle.String(),
	})
	return nil
}

// VerifyCode is the second factor. A correct live passcode completes the
// challenge and mints a voter credential. A wrong passcode leaves the live
// one intact; an expired passcode drops the challenge back to
// StageBiometricVerified so the voter can request a fresh one.
func (s *Service) VerifyCode(ctx context.Context, handle id.VoterHandle, code string) (string, error) {
	now := requestcontext.Now(ctx)
	if err := s.lockout.Check(ctx, handle, now); err != nil {
		return "", err
	}

	challenge, err := s.challenges.Get(ctx, handle)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", derrors.New(derrors.CodeUnauthorized, "invalid passcode")
		}
		return "", derrors.Wrap(err, derrors.CodeInternal, "failed to load challenge")
	}
	if challenge.Stage != models.StageCodeIssued {
		return "", derrors.New(derrors.CodeUnauthorized, "invalid passcode")
	}

	if challenge.CodeExpired(now, s.codeTTL) {
		challenge.Stage = models.StageBiometricVerified
		challenge.Code = ""
		challenge.CodeIssuedAt = time.Time{}
		if err := s.challenges.Put(ctx, challenge); err != nil {
			return "", derrors.Wrap(err, derrors.CodeInternal, "failed to store challenge")
		}
		s.emit(ctx, audit.Event{
			Category: audit.CategorySecurity,
			Action:   audit.EventCodeRejected,
			Subject:  handle.String(),
			Detail:   map[string]any{"reason": "expired"},
		})
		return "", derrors.New(derrors.CodeUnauthorized, "passcode has expired")
	}

	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		s.recordFailure(ctx, handle, now, "code")
		s.emit(ctx, audit.Event{
			Category: audit.CategorySecurity,
			Action:   audit.EventCodeRejected,
			Subject:  handle.String(),
			Detail:   map[string]any{"reason": "mismatch"},
		})
		return "", derrors.New(derrors.CodeUnauthorized, "invalid passcode")
	}

	token, err := s.credentials.Issue(handle, credential.RoleVoter, s.credentialTTL, now)
	if err != nil {
		return "", err
	}

	// The credential is the session from here on; the challenge has served
	// its purpose.
	if err := s.challenges.Delete(ctx, handle); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete completed challenge", "error", err)
	}
	if err := s.lockout.Clear(ctx, handle); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear lockout state", "error", err)
	}

	if s.metrics != nil {
		s.metrics.CredentialsIssued.Inc()
	}
	s.emit(ctx, audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.EventCredentialIssued,
		Subject:  handle.String(),
	})
	return token, nil
}

func (s *Service) recordFailure(ctx context.Context, handle id.VoterHandle, now time.Time, stage string) {
	if s.metrics != nil {
		s.metrics.AuthFailuresTotal.WithLabelValues(stage).Inc()
	}
	locked, err := s.lockout.RecordFailure(ctx, handle, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record auth failure", "error", err)
		return
	}
	if locked {
		s.emit(ctx, audit.Event{
			Category: audit.CategorySecurity,
			Action:   audit.EventLockoutTriggered,
			Subject:  handle.String(),
			Detail:   map[string]any{"stage": stage},
		})
	}
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

// generateCode draws a fixed-length numeric passcode from crypto/rand.
func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
