// Package notify delivers push notifications through the FCM legacy HTTP API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/sia-rendimiento-api/pkg/config"
)

// MaxBatchSize is the largest registration_ids list FCM accepts per request
// minus headroom.
const MaxBatchSize = 900

// ErrNotConfigured is returned when no server key is set.
var ErrNotConfigured = errors.New("fcm server key not configured")

// Message is a notification payload.
type Message struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"-"`
}

// SendResult summarises the FCM responses for every batch. FailedTokens holds
// the tokens of batches whose request failed; they were not delivered.
type SendResult struct {
	Batches      int      `json:"batches"`
	Success      int      `json:"success"`
	Failure      int      `json:"failure"`
	FailedTokens []string `json:"-"`
}

type fcmRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    Message           `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
	Priority        string            `json:"priority"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// FCMClient sends messages to device tokens.
type FCMClient struct {
	endpoint  string
	serverKey string
	batchSize int
	http      *http.Client
}

// NewFCMClient builds a client from configuration.
func NewFCMClient(cfg config.NotificationsConfig) *FCMClient {
	batch := cfg.BatchSize
	if batch <= 0 || batch > MaxBatchSize {
		batch = MaxBatchSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FCMClient{
		endpoint:  cfg.Endpoint,
		serverKey: cfg.ServerKey,
		batchSize: batch,
		http:      &http.Client{Timeout: timeout},
	}
}

// Send posts every batch exactly once. A failed batch does not stop the
// remaining ones; its tokens are reported in FailedTokens and the request
// errors are joined.
func (c *FCMClient) Send(ctx context.Context, tokens []string, msg Message) (SendResult, error) {
	var result SendResult
	if c.serverKey == "" {
		return result, ErrNotConfigured
	}
	var errs []error
	for _, batch := range Batches(tokens, c.batchSize) {
		result.Batches++
		resp, err := c.post(ctx, fcmRequest{
			RegistrationIDs: batch,
			Notification:    msg,
			Data:            msg.Data,
			Priority:        "high",
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("batch %d: %w", result.Batches, err))
			result.Failure += len(batch)
			result.FailedTokens = append(result.FailedTokens, batch...)
			continue
		}
		result.Success += resp.Success
		result.Failure += resp.Failure
	}
	return result, errors.Join(errs...)
}

func (c *FCMClient) post(ctx context.Context, payload fcmRequest) (*fcmResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode fcm payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build fcm request: %w", err)
	}
	req.Header.Set("Authorization", "key="+c.serverKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send fcm request: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read fcm response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("fcm responded %d: %s", res.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out fcmResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode fcm response: %w", err)
	}
	return &out, nil
}

// Batches splits tokens into chunks of at most size, dropping blanks and
// duplicates.
func Batches(tokens []string, size int) [][]string {
	if size <= 0 {
		size = MaxBatchSize
	}
	seen := make(map[string]struct{}, len(tokens))
	clean := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		clean = append(clean, t)
	}
	var out [][]string
	for start := 0; start < len(clean); start += size {
		end := start + size
		if end > len(clean) {
			end = len(clean)
		}
		out = append(out, clean[start:end])
	}
	return out
}
