// Package document validates scanned voter-ID documents using the external
// text-extraction capability. This is presentation-layer validation: nothing
// here is persisted, and enrollment does not depend on it structurally.
package document

import (
	"context"
	"strings"

	derrors "securevote/pkg/domain-errors"
)

// TextExtractor is the external OCR collaborator.
type TextExtractor interface {
	ExtractText(ctx context.Context, documentImage []byte) (string, error)
}

// keywords that mark a document as a voter ID. OCR output is noisy, so the
// list includes a common misread of "ELECTION".
var keywords = []string{
	"ELECTION", "VOTER", "COMMISSION", "ELECTOR", "ELECTLON", "IDENTITY",
}

// Service runs the voter-ID heuristics over extracted text.
type Service struct {
	extractor TextExtractor
}

func NewService(extractor TextExtractor) *Service {
	return &Service{extractor: extractor}
}

// Verify checks that the document reads as a voter ID and that the expected
// name appears on it (allowing for OCR distortion).
func (s *Service) Verify(ctx context.Context, documentImage []byte, expectedName string) error {
	expectedName = strings.ToUpper(strings.TrimSpace(expectedName))
	if len(documentImage) == 0 || expectedName == "" {
		return derrors.New(derrors.CodeInvalidInput, "document image and full name are required")
	}

	text, err := s.extractor.ExtractText(ctx, documentImage)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeUnavailable, "document text extraction failed")
	}
	text = strings.ToUpper(text)

	if !containsKeyword(text) {
		return derrors.New(derrors.CodeInvalidInput, "document not recognized as a voter ID")
	}
	if !nameAppears(expectedName, text) {
		return derrors.New(derrors.CodeInvalidInput, "name mismatch on document")
	}
	return nil
}

func containsKeyword(text string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// nameAppears accepts the document when any significant part of the expected
// name occurs in the text, exactly or within fuzzy-match distance.
func nameAppears(expectedName, text string) bool {
	words := strings.Fields(text)
	for _, part := range strings.Fields(expectedName) {
		if len(part) <= 2 {
			continue
		}
		if strings.Contains(text, part) {
			return true
		}
		for _, word := range words {
			if similarity(part, word) >= 0.6 {
				return true
			}
		}
	}
	return false
}

// similarity returns a ratio in [0,1] based on edit distance, comparable to
// difflib-style close matching.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
