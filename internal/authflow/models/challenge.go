package models

import (
	"time"

	id "securevote/pkg/domain"
)

// Stage tracks a voter's progress through two-factor authentication. Stages
// only move forward except for the passcode-expiry fallback, which returns an
// issued challenge to StageBiometricVerified.
type Stage string

const (
	StageUnstarted         Stage = "UNSTARTED"
	StageBiometricVerified Stage = "BIOMETRIC_VERIFIED"
	StageCodeIssued        Stage = "CODE_ISSUED"
	StageAuthenticated     Stage = "AUTHENTICATED"
	StageFailed            Stage = "FAILED"
)

// Challenge is the ephemeral per-handle authentication state. Challenges live
// only in memory or Redis with a TTL; they are never written to durable
// storage.
type Challenge struct {
	Handle id.VoterHandle
	Stage  Stage

	// Code is the live one-time passcode, empty outside StageCodeIssued.
	Code         string
	CodeIssuedAt time.Time

	StartedAt time.Time
}

// CodeExpired reports whether the live passcode has aged out.
func (c *Challenge) CodeExpired(now time.Time, ttl time.Duration) bool {
	return c.Stage == StageCodeIssued && now.After(c.CodeIssuedAt.Add(ttl))
}
