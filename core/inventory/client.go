// Package inventory implements the core.Persister collaborators that
// receive committed batches.
package inventory

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

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "catalogpipe/1.0 (https://github.com/gaurav-prasanna/catalogpipe)"
	bulkPath         = "/inventory/products/bulk"
	maxMessageLen    = 300
)

// ErrRejected means the inventory API refused the bulk create.
var ErrRejected = errors.New("inventory rejected bulk create")

// Client posts batches to the inventory REST API.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *logrus.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a Client for the API rooted at endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken sends token as a bearer credential.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// BulkCreate sends all records in one request. On a non-2xx answer the
// returned result carries whatever per-item detail the API reported.
func (c *Client) BulkCreate(ctx context.Context, records []core.ProductRecord) (*core.BulkResult, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}

	url := c.endpoint + bulkPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"records": len(records),
	}).Debug("Bulk create answered")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		itemErrs := parseDetail(body, records, resp.StatusCode)
		return &core.BulkResult{Failed: len(records), Errors: itemErrs},
			fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return decodeResult(body, len(records))
}

// decodeResult accepts a BulkResult object, a list of created items, or an
// empty body (everything created).
func decodeResult(body []byte, sent int) (*core.BulkResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &core.BulkResult{Created: sent}, nil
	}
	if body[0] == '[' {
		var created []json.RawMessage
		if err := json.Unmarshal(body, &created); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return &core.BulkResult{Created: len(created)}, nil
	}

	var result core.BulkResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if result.Created == 0 && result.Failed == 0 && len(result.Errors) == 0 {
		result.Created = sent
	}
	return &result, nil
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseDetail turns a FastAPI-style error body into item errors. Entries
// that cannot be tied to a record get index -1.
func parseDetail(body []byte, records []core.ProductRecord, status int) []core.ItemError {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return []core.ItemError{{Index: -1, Message: fallbackMessage(body, status)}}
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return []core.ItemError{{Index: -1, Message: text}}
	}

	var issues []validationIssue
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil {
		out := make([]core.ItemError, 0, len(issues))
		for _, issue := range issues {
			ie := core.ItemError{Index: -1, Message: joinLoc(issue.Loc) + ": " + issue.Msg}
			if i, ok := recordIndex(issue.Loc); ok && i >= 0 && i < len(records) {
				ie.Index = i
				ie.SKU = records[i].SKU
			}
			out = append(out, ie)
		}
		return out
	}

	return []core.ItemError{{Index: -1, Message: string(envelope.Detail)}}
}

// recordIndex finds the list position in a location like ["body", 2, "sku"].
func recordIndex(loc []any) (int, bool) {
	for _, part := range loc {
		if f, ok := part.(float64); ok {
			return int(f), true
		}
	}
	return 0, false
}

func joinLoc(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, part := range loc {
		parts = append(parts, fmt.Sprint(part))
	}
	return strings.Join(parts, ".")
}

func fallbackMessage(body []byte, status int) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return http.StatusText(status)
	}
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "..."
	}
	return msg
}
