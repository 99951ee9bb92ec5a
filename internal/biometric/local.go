package biometric

import (
	"bytes"
	"context"
	"crypto/sha256"
)

// LocalMatcher is a deterministic stand-in used when no biometric service is
// configured (development and most tests). A template is the digest of the
// sample; matching compares digests, so identical samples match at distance 0
// and everything else sits at distance 1.
type LocalMatcher struct {
	Tolerance float64
}

func NewLocalMatcher(tolerance float64) *LocalMatcher {
	return &LocalMatcher{Tolerance: tolerance}
}

func (m *LocalMatcher) ExtractTemplate(_ context.Context, sample []byte) (Template, error) {
	if len(sample) == 0 {
		return nil, ErrNoFeatures
	}
	digest := sha256.Sum256(sample)
	return digest[:], nil
}

func (m *LocalMatcher) Match(ctx context.Context, sample []byte, templates []Template) (MatchResult, error) {
	probe, err := m.ExtractTemplate(ctx, sample)
	if err != nil {
		return MatchResult{}, err
	}
	distance := 1.0
	for _, t := range templates {
		if bytes.Equal(probe, t) {
			distance = 0
			break
		}
	}
	return MatchResult{Matched: distance < m.Tolerance, Distance: distance}, nil
}
