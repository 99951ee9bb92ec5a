package biometric

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPMatcher calls a remote biometric service. The wire shapes mirror the
// service's extract/match endpoints; tolerance is enforced service-side so
// it can be tuned without redeploying the core.
type HTTPMatcher struct {
	baseURL   string
	client    *http.Client
	tolerance float64
}

func NewHTTPMatcher(baseURL string, tolerance float64) *HTTPMatcher {
	return &HTTPMatcher{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		tolerance: tolerance,
	}
}

type extractRequest struct {
	Sample string `json:"sample"`
}

type extractResponse struct {
	Template string `json:"template"`
	Found    bool   `json:"found"`
}

type matchRequest struct {
	Sample    string   `json:"sample"`
	Templates []string `json:"templates"`
	Tolerance float64  `json:"tolerance"`
}

type matchResponse struct {
	Matched  bool    `json:"matched"`
	Distance float64 `json:"distance"`
}

func (m *HTTPMatcher) ExtractTemplate(ctx context.Context, sample []byte) (Template, error) {
	var resp extractResponse
	err := m.post(ctx, "/extract", extractRequest{
		Sample: base64.StdEncoding.EncodeToString(sample),
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Found {
		return nil, ErrNoFeatures
	}
	template, err := base64.StdEncoding.DecodeString(resp.Template)
	if err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return template, nil
}

func (m *HTTPMatcher) Match(ctx context.Context, sample []byte, templates []Template) (MatchResult, error) {
	encoded := make([]string, len(templates))
	for i, t := range templates {
		encoded[i] = base64.StdEncoding.EncodeToString(t)
	}

	var resp matchResponse
	err := m.post(ctx, "/match", matchRequest{
		Sample:    base64.StdEncoding.EncodeToString(sample),
		Templates: encoded,
		Tolerance: m.tolerance,
	}, &resp)
	if err != nil {
		return MatchResult{}, err
	}
	return MatchResult{Matched: resp.Matched, Distance: resp.Distance}, nil
}

func (m *HTTPMatcher) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("biometric service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("biometric service returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
