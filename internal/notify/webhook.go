package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookSink POSTs terminal events as JSON to a configured URL.
// Retries with exponential backoff on failure.
type WebhookSink struct {
	url         string
	maxAttempts int
	baseDelay   time.Duration
	httpClient  *http.Client
}

// NewWebhookSink creates a webhook sink. A non-positive timeout defaults to
// 10 seconds, a non-positive maxAttempts to 3.
func NewWebhookSink(url string, timeout time.Duration, maxAttempts int) *WebhookSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &WebhookSink{
		url:         url,
		maxAttempts: maxAttempts,
		baseDelay:   time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify POSTs the event, retrying up to maxAttempts times with exponential
// backoff. The backoff sleep aborts early when ctx is cancelled.
func (s *WebhookSink) Notify(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	var lastErr error
	for attempt := range s.maxAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.baseDelay << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("building notification request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("webhook delivery failed (status %d): %s", resp.StatusCode, body)
	}

	return fmt.Errorf("after %d attempts: %w", s.maxAttempts, lastErr)
}
