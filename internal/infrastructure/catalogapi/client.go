// Package catalogapi is the typed HTTP client for the remote catalog API.
// Every call carries the bearer token of the session attached to the
// request context.
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/session"
	"github.com/retailcatalog/admin-console/internal/pkg/metrics"
)

const (
	defaultBaseURL = "http://localhost:5292/api"
	defaultTimeout = 10 * time.Second
)

// Client implements ports.CatalogAPI over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout bounds every call. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid catalog api base url: %w", err)
	}

	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// APIError represents a non-2xx response from the catalog API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("catalog api request failed (%d): %s", e.Status, e.Message)
}

// Unwrap maps auth and lookup statuses onto domain errors.
func (e APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// PublicMessage is the text shown to the user for client errors. Server
// errors are not echoed.
func (e APIError) PublicMessage() string {
	if e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError && e.Message != "" {
		return e.Message
	}
	return ""
}

type call struct {
	resource string
	method   string
	path     string
	query    url.Values
	body     any
	noAuth   bool
}

func (c *Client) do(ctx context.Context, req call, v any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	outcome := "transport_error"
	defer func() {
		metrics.APIRequestsTotal.WithLabelValues(req.resource, req.method, outcome).Inc()
		metrics.APIRequestDuration.WithLabelValues(req.resource).Observe(time.Since(start).Seconds())
		if err != nil {
			c.log.Debug().Err(err).Str("method", req.method).Str("path", req.path).Msg("catalog api call failed")
		}
	}()

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var reader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !req.noAuth {
		if token, ok := session.TokenFromContext(ctx); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		outcome = "client_error"
		if resp.StatusCode >= http.StatusInternalServerError {
			outcome = "server_error"
		}
		return APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}
	outcome = "ok"

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractError pulls a message out of an error body. The catalog API
// answers with plain text, {"error": ...}, {"message": ...} or a
// problem-details {"title": ...}.
func extractError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	for _, msg := range []string{payload.Error, payload.Message, payload.Title} {
		if msg = strings.TrimSpace(msg); msg != "" {
			return msg
		}
	}
	return ""
}

func pageQuery(page, pageSize int) url.Values {
	return url.Values{
		"pageNumber": []string{fmt.Sprint(page)},
		"pageSize":   []string{fmt.Sprint(pageSize)},
	}
}
