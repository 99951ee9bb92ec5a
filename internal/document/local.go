package document

import "context"

// LocalExtractor is a deterministic stand-in used when no OCR service is
// configured: the submitted bytes are treated as the extracted text. Lets
// development and tests drive the verification heuristics directly.
type LocalExtractor struct{}

func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

func (e *LocalExtractor) ExtractText(_ context.Context, documentImage []byte) (string, error) {
	return string(documentImage), nil
}
