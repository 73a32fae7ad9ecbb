package events

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookPublisher POSTs audit events to a configured endpoint, signed with
// HMAC-SHA256. A non-2xx response is an error so the outbox retries it.
type WebhookPublisher struct {
	url    string
	secret []byte
	client *http.Client
}

func NewWebhookPublisher(url, secret string, timeout time.Duration) *WebhookPublisher {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookPublisher{
		url:    url,
		secret: []byte(secret),
		client: &http.Client{Timeout: timeout},
	}
}

// Publish sends the event with these headers:
//
//	X-Crewdesk-Topic:       <topic>
//	X-Crewdesk-Event-Type:  <event.EventType>
//	X-Crewdesk-Event-Id:    <event.EventID>
//	X-Crewdesk-Actor:       <event.Actor>
//	X-Hub-Signature-256:    sha256=<hex HMAC of the body>
func (p *WebhookPublisher) Publish(ctx context.Context, topic string, event domain.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Crewdesk-Topic", topic)
	req.Header.Set("X-Crewdesk-Event-Type", event.EventType)
	req.Header.Set("X-Crewdesk-Event-Id", event.EventID)
	req.Header.Set("X-Crewdesk-Actor", event.Actor)
	req.Header.Set("User-Agent", "crewdesk-webhook/1")
	req.Header.Set("X-Hub-Signature-256", "sha256="+Sign(p.secret, payload))

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook %s: %w", event.EventID, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned status %d", event.EventID, resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of payload. Receivers recompute it to
// verify the X-Hub-Signature-256 header.
func Sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
