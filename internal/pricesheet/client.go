// Package pricesheet is the HTTP client for the remote price-list web app.
//
// GET returns {"ok": true, "data": {...row...}, "timestamp": "..."}.
// POST takes {"token": "...", "pricing": {...row...}} and returns
// {"ok": true, "version": 3, "updated_at": "..."}. Either may answer
// {"ok": false, "error": "..."}.
package pricesheet

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

	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/metrics"
)

var (
	// ErrNotConfigured is returned when no sheet URL is set.
	ErrNotConfigured = errors.New("price sheet is not configured")
	// ErrUpstream covers transport failures and non-2xx responses.
	ErrUpstream = errors.New("price sheet request failed")
	// ErrBadEnvelope is returned when the body is not the expected JSON envelope.
	ErrBadEnvelope = errors.New("bad JSON from price sheet")
	// ErrRejected is returned when the sheet answers ok:false.
	ErrRejected = errors.New("price sheet rejected the request")
)

const maxBodyBytes = 1 << 20

// FetchResult is a successfully fetched price row.
type FetchResult struct {
	Row       model.RawPriceRow
	Timestamp string
}

// SaveResult is the sheet's answer to a successful save.
type SaveResult struct {
	Version   int    `json:"version"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Client talks to the price sheet.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	schemas        *envelopeSchemas
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithCircuitBreaker guards every request with cb.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) {
		c.circuitBreaker = cb
	}
}

// NewClient creates a client for baseURL. token authorizes saves.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrNotConfigured
	}
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		schemas:    schemas,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// IsFailure reports whether err should count against a circuit breaker.
// Rejections are answers from a healthy sheet and do not count.
func IsFailure(err error) bool {
	return !errors.Is(err, ErrRejected) && !errors.Is(err, context.Canceled)
}

type fetchEnvelope struct {
	OK        bool                   `json:"ok"`
	Error     string                 `json:"error"`
	Data      map[string]interface{} `json:"data"`
	Timestamp interface{}            `json:"timestamp"`
}

// Fetch reads the current price row.
func (c *Client) Fetch(ctx context.Context) (FetchResult, error) {
	var result FetchResult
	err := c.execute(ctx, "fetch", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
		if err != nil {
			return err
		}

		body, err := c.do(req)
		if err != nil {
			return err
		}

		var env fetchEnvelope
		if err := decodeAndValidate(c.schemas.fetch, body, &env); err != nil {
			return err
		}
		if !env.OK {
			return fmt.Errorf("%w: %s", ErrRejected, env.Error)
		}

		result = FetchResult{Row: normalizeRow(env.Data)}
		if env.Timestamp != nil {
			result.Timestamp = fmt.Sprint(env.Timestamp)
		}
		return nil
	})
	return result, err
}

type saveRequest struct {
	Token   string            `json:"token"`
	Pricing model.RawPriceRow `json:"pricing"`
}

type saveEnvelope struct {
	OK        bool        `json:"ok"`
	Error     string      `json:"error"`
	Version   json.Number `json:"version"`
	UpdatedAt *string     `json:"updated_at"`
}

// Save writes row to the sheet and returns the new version.
func (c *Client) Save(ctx context.Context, row model.RawPriceRow) (SaveResult, error) {
	payload, err := json.Marshal(saveRequest{Token: c.token, Pricing: row})
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode price row: %w", err)
	}

	var result SaveResult
	err = c.execute(ctx, "save", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		body, err := c.do(req)
		if err != nil {
			return err
		}

		var env saveEnvelope
		if err := decodeAndValidate(c.schemas.save, body, &env); err != nil {
			return err
		}
		if !env.OK {
			return fmt.Errorf("%w: %s", ErrRejected, env.Error)
		}

		version, err := env.Version.Float64()
		if err != nil {
			return fmt.Errorf("%w: version %q", ErrBadEnvelope, env.Version)
		}
		result.Version = int(version)
		if env.UpdatedAt != nil {
			result.UpdatedAt = *env.UpdatedAt
		}
		return nil
	})
	return result, err
}

func (c *Client) execute(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	var err error
	if c.circuitBreaker != nil {
		err = c.circuitBreaker.Execute(ctx, fn)
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			err = fmt.Errorf("%w: %w", ErrUpstream, err)
		}
	} else {
		err = fn()
	}

	result := "success"
	switch {
	case errors.Is(err, ErrRejected):
		result = "rejected"
	case errors.Is(err, ErrBadEnvelope):
		result = "bad_envelope"
	case err != nil:
		result = "error"
	}
	metrics.RecordPriceSheetRequest(operation, result, time.Since(start))
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return body, nil
}

// normalizeRow turns JSON numbers into float64 so the row stores cleanly.
func normalizeRow(data map[string]interface{}) model.RawPriceRow {
	row := make(model.RawPriceRow, len(data))
	for k, v := range data {
		if n, ok := v.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				row[k] = f
				continue
			}
			row[k] = n.String()
			continue
		}
		row[k] = v
	}
	return row
}
