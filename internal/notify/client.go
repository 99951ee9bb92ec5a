package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPDeliverer posts codes to a delivery gateway (SMS/WhatsApp bridge).
type HTTPDeliverer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPDeliverer(baseURL string) *HTTPDeliverer {
	return &HTTPDeliverer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type deliverRequest struct {
	ContactRef string `json:"contact_ref"`
	Code       string `json:"code"`
}

type deliverResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (d *HTTPDeliverer) DeliverCode(ctx context.Context, contactRef, code string) error {
	payload, err := json.Marshal(deliverRequest{ContactRef: contactRef, Code: code})
	if err != nil {
		return fmt.Errorf("marshal delivery request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/deliver", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivery gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delivery gateway returned %d", resp.StatusCode)
	}

	var body deliverResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode delivery response: %w", err)
	}
	if !body.Success {
		return fmt.Errorf("delivery failed: %s", body.Message)
	}
	return nil
}
