// Package lockout throttles repeated authentication failures per voter
// handle. Too many failures inside the window locks the handle out of the
// authentication flow for the configured duration.
package lockout

import (
	"context"
	"time"

	"securevote/internal/platform/config"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
)

// Store tracks failure counts and active locks.
type Store interface {
	// AddFailure records a failure at the given time and returns the number
	// of failures inside the window ending at that time.
	AddFailure(ctx context.Context, handle id.VoterHandle, at time.Time, window time.Duration) (int, error)

	// LockedUntil returns the lock expiry for a handle, or the zero time when
	// no lock is active.
	LockedUntil(ctx context.Context, handle id.VoterHandle) (time.Time, error)

	Lock(ctx context.Context, handle id.VoterHandle, until time.Time) error
	Clear(ctx context.Context, handle id.VoterHandle) error
}

// Service applies the lockout policy.
type Service struct {
	store     Store
	threshold int
	window    time.Duration
	duration  time.Duration
}

func New(store Store, cfg config.Config) *Service {
	return &Service{
		store:     store,
		threshold: cfg.LockoutThreshold,
		window:    cfg.LockoutWindow,
		duration:  cfg.LockoutDuration,
	}
}

// Check fails with CodeTooManyRequests while a lock is active.
func (s *Service) Check(ctx context.Context, handle id.VoterHandle, now time.Time) error {
	until, err := s.store.LockedUntil(ctx, handle)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "lockout check failed")
	}
	if now.Before(until) {
		return derrors.New(derrors.CodeTooManyRequests, "too many failed attempts, try again later")
	}
	return nil
}

// RecordFailure counts one failure and reports whether it tripped a lock.
func (s *Service) RecordFailure(ctx context.Context, handle id.VoterHandle, now time.Time) (bool, error) {
	failures, err := s.store.AddFailure(ctx, handle, now, s.window)
	if err != nil {
		return false, derrors.Wrap(err, derrors.CodeInternal, "lockout record failed")
	}
	if failures < s.threshold {
		return false, nil
	}
	if err := s.store.Lock(ctx, handle, now.Add(s.duration)); err != nil {
		return false, derrors.Wrap(err, derrors.CodeInternal, "lockout record failed")
	}
	return true, nil
}

// Clear drops failures and any active lock after a successful authentication.
func (s *Service) Clear(ctx context.Context, handle id.VoterHandle) error {
	if err := s.store.Clear(ctx, handle); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "lockout clear failed")
	}
	return nil
}
