// Package biometric defines the interface to the external biometric-matching
// capability. Feature extraction and image decoding live behind this
// boundary; the voting core only sees templates and match distances.
package biometric

import "context"

// Template is an opaque feature vector produced by the matcher. The core
// stores and forwards templates without interpreting them.
type Template []byte

// MatchResult is the matcher's verdict for one comparison.
type MatchResult struct {
	Matched  bool
	Distance float64
}

// Matcher is the external biometric collaborator.
type Matcher interface {
	// ExtractTemplate derives a template from a raw sample. Returns
	// ErrNoFeatures when the sample contains no usable biometric signal.
	ExtractTemplate(ctx context.Context, sample []byte) (Template, error)

	// Match compares a sample against stored templates and returns the
	// minimum distance found. Matched is true when that distance is strictly
	// below the tolerance configured on the matcher.
	Match(ctx context.Context, sample []byte, templates []Template) (MatchResult, error)
}
