package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// attemptTimeout bounds one delivery round trip so a slow receiver cannot stall a drain tick
const attemptTimeout = 10 * time.Second

// Delivery describes one successful delivery round trip
type Delivery struct {
	StatusCode   int
	ResponseTime time.Duration
}

// ProbeResult is the outcome of a one-off connectivity or structure-sync round trip
type ProbeResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ResponseTime int64  `json:"responseTime,omitempty"` // milliseconds
}

/* Sender delivers payloads to the configured downstream endpoint
 * Interfaces abstract behavior, not things: the engine cares about
 * delivering, probing and syncing, not about HTTP
 */
type Sender interface {
	// Deliver posts one queued event; any non-2xx response or transport error is a failure
	Deliver(ctx context.Context, event Event) (Delivery, error)
	// Probe performs the handshake round trip, outside the queue and the log
	Probe(ctx context.Context) ProbeResult
	// SyncStructure posts the fixed field-mapping payload the receiver uses to discover variables
	SyncStructure(ctx context.Context) ProbeResult
}

// HTTPSender posts JSON bodies to a single configured endpoint URL
type HTTPSender struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSender creates a sender for the given endpoint URL
func NewHTTPSender(endpoint string) *HTTPSender {
	return &HTTPSender{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: attemptTimeout,
		},
	}
}

/* Deliver flattens the event payload at the top level of the body,
 * tagged with event_type and a _meta block carrying the event id and
 * send timestamp. The reserved keys win over payload fields
 */
func (s *HTTPSender) Deliver(ctx context.Context, event Event) (Delivery, error) {
	body := make(map[string]any, len(event.Payload)+2)
	for k, v := range event.Payload {
		body[k] = v
	}
	body["event_type"] = event.EventType
	body["_meta"] = map[string]any{
		"id":      event.ID,
		"sent_at": time.Now().UTC().Format(time.RFC3339),
	}

	start := time.Now()
	statusCode, err := s.post(ctx, body)
	elapsed := time.Since(start)
	if err != nil {
		return Delivery{}, err
	}
	if statusCode < 200 || statusCode > 299 {
		return Delivery{}, fmt.Errorf("server: %d", statusCode)
	}
	return Delivery{StatusCode: statusCode, ResponseTime: elapsed}, nil
}

// Probe performs the handshake test round trip
func (s *HTTPSender) Probe(ctx context.Context) ProbeResult {
	body := map[string]any{
		"test":      "active",
		"message":   "Handshake Test",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	start := time.Now()
	statusCode, err := s.post(ctx, body)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return ProbeResult{Success: false, Message: "connection error"}
	}
	if statusCode < 200 || statusCode > 299 {
		return ProbeResult{Success: false, Message: fmt.Sprintf("status: %d", statusCode)}
	}
	return ProbeResult{Success: true, Message: "200 OK: ready", ResponseTime: elapsed}
}

/* SyncStructure sends one illustrative payload covering every field type
 * the receiver might need to map. The automation platform samples this
 * body to define its variable bindings, so the field set is fixed
 */
func (s *HTTPSender) SyncStructure(ctx context.Context) ProbeResult {
	body := map[string]any{
		"event_type":  "structure_sync",
		"id":          fmt.Sprintf("sync_%d", time.Now().UnixMilli()),
		"platform":    "Facebook/Instagram/YouTube",
		"url":         "https://original-link.com",
		"short_url":   "https://short-link.io/abc",
		"revenue":     15.50,
		"amount":      100.00,
		"currency":    "USD",
		"network":     "Amazon/AdFly",
		"product":     "Sample Product Name",
		"profileName": "Admin User",
		"email":       "user@example.com",
		"status":      "active",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"_meta": map[string]any{
			"version": "1.0",
			"node":    "webhook-relay",
		},
	}

	statusCode, err := s.post(ctx, body)
	if err != nil {
		return ProbeResult{Success: false, Message: "connection error"}
	}
	if statusCode < 200 || statusCode > 299 {
		return ProbeResult{Success: false, Message: fmt.Sprintf("receiver error: %d", statusCode)}
	}
	return ProbeResult{Success: true, Message: "structure synced"}
}

// post issues one JSON POST and returns the response status code
func (s *HTTPSender) post(ctx context.Context, body map[string]any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("posting to endpoint: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
