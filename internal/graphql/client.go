package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Operation is a named GraphQL document.
type Operation struct {
	Name     string
	Document string
}

// Client is a thin HTTP client for a single GraphQL endpoint. It keeps no
// response cache: every call is one POST round trip.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends the token as a Bearer Authorization header.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for per-request records.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a GraphQL client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mutate runs a mutation and decodes its data payload into out.
func (c *Client) Mutate(ctx context.Context, op Operation, vars map[string]any, out any) error {
	return c.do(ctx, op, vars, out)
}

// Query runs a query and decodes its data payload into out.
func (c *Client) Query(ctx context.Context, op Operation, vars map[string]any, out any) error {
	return c.do(ctx, op, vars, out)
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorDetail   `json:"errors"`
}

func (c *Client) do(ctx context.Context, op Operation, vars map[string]any, out any) error {
	reqID := uuid.New().String()
	start := time.Now()

	err := c.roundTrip(ctx, reqID, op, vars, out)

	event := c.logger.Debug()
	if err != nil {
		event = c.logger.Warn().Err(err)
	}
	event.
		Str("operation", op.Name).
		Str("request_id", reqID).
		Dur("duration", time.Since(start)).
		Msg("graphql request")

	return err
}

func (c *Client) roundTrip(ctx context.Context, reqID string, op Operation, vars map[string]any, out any) error {
	payload, err := json.Marshal(request{
		Query:         op.Document,
		OperationName: op.Name,
		Variables:     vars,
	})
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", op.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s: %w", op.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", op.Name, err)
	}

	var gqlResp response
	decodeErr := json.Unmarshal(body, &gqlResp)

	// GraphQL errors win over the status code: servers commonly pair them
	// with 200 or 400.
	if decodeErr == nil && len(gqlResp.Errors) > 0 {
		return &Error{Operation: op.Name, Errors: gqlResp.Errors}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Operation: op.Name, StatusCode: resp.StatusCode, Body: truncate(body, 512)}
	}

	if decodeErr != nil {
		return fmt.Errorf("decoding %s response: %w", op.Name, decodeErr)
	}

	if out == nil || len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", op.Name, err)
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
