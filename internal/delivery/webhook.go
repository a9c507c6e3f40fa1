package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/observability"
)

const DefaultWebhookTimeout = 10 * time.Second

// WebhookConfig configures a webhook sink.
type WebhookConfig struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// WebhookSink POSTs the alert payload as JSON to a configured URL.
type WebhookSink struct {
	url        string
	headers    map[string]string
	httpClient *http.Client
}

// NewWebhookSink creates a webhook sink.
func NewWebhookSink(config WebhookConfig) *WebhookSink {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &WebhookSink{
		url:        config.URL,
		headers:    config.Headers,
		httpClient: httpClient,
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

// Deliver posts the payload. Any non-2xx response is an error.
func (s *WebhookSink) Deliver(ctx context.Context, payload domain.AlertPayload) error {
	err := s.post(ctx, payload)
	observability.RecordDelivery(s.Name(), err)
	return err
}

func (s *WebhookSink) post(ctx context.Context, payload domain.AlertPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode alert %s: %w", payload.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post alert %s: %w", payload.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d for alert %s", resp.StatusCode, payload.ID)
	}
	return nil
}
