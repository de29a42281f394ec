// Package sink records job status transitions and final crawl envelopes with
// an external collaborator. The core never depends on the sink's schema; it
// only hands over envelopes.
package sink

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/crawlio/crawlio/models"
)

// Event types delivered to the sink.
const (
	EventJobStarted   = "job.started"
	EventJobCompleted = "job.completed"
	EventJobFailed    = "job.failed"
)

// Event is the payload describing one job status transition.
type Event struct {
	Type      string                `json:"type"`
	JobID     string                `json:"job_id"`
	URL       string                `json:"url,omitempty"`
	Timestamp int64                 `json:"timestamp"`
	Result    *models.CrawlResult   `json:"result,omitempty"`
	Results   []*models.CrawlResult `json:"results,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// Sink receives job status transitions and final envelopes.
type Sink interface {
	Record(ctx context.Context, event *Event)
}

// Noop discards every event. Used when no webhook is configured.
type Noop struct{}

func (Noop) Record(context.Context, *Event) {}

// Webhook delivers events to an HTTP endpoint, signing the body with
// HMAC-SHA256 when a secret is configured.
// Header: X-Crawlio-Signature: sha256=<hex>
type Webhook struct {
	URL    string
	Secret string
	client *http.Client
}

// NewWebhook creates a webhook sink.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		URL:    url,
		Secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Record delivers the event asynchronously with up to 3 retries
// (intervals: 1s, 5s, 30s). Sink faults are logged, never propagated:
// a dead endpoint must not fail crawl requests.
func (w *Webhook) Record(_ context.Context, event *Event) {
	go func() {
		delays := []time.Duration{0, time.Second, 5 * time.Second, 30 * time.Second}
		for attempt, delay := range delays {
			if delay > 0 {
				time.Sleep(delay)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := w.deliver(ctx, event)
			cancel()
			if err == nil {
				slog.Info("sink event delivered",
					"event", event.Type,
					"job_id", event.JobID,
					"attempt", attempt+1,
				)
				return
			}
			slog.Warn("sink delivery failed",
				"event", event.Type,
				"job_id", event.JobID,
				"attempt", attempt+1,
				"error", err,
			)
		}
		slog.Error("sink delivery exhausted all retries",
			"event", event.Type,
			"job_id", event.JobID,
		)
	}()
}

func (w *Webhook) deliver(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("sink: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sink: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Crawlio-Webhook/1.0")

	if w.Secret != "" {
		mac := hmac.New(sha256.New, []byte(w.Secret))
		mac.Write(body)
		sig := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("X-Crawlio-Signature", "sha256="+sig)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sink: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sink: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
