// Package carrier talks to the carrier's customer portal (the "URA" API)
// to look up customers and check whether their access is online.
package carrier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	customersPath   = "/api/ura/clientes/"
	accessCheckPath = "/api/ura/verificaacesso/"

	maxResponseBytes = 1 << 20
)

var (
	ErrNotConfigured    = errors.New("carrier: integration is not configured")
	ErrCustomerNotFound = errors.New("carrier: customer not found")
)

// UpstreamError reports a carrier call that failed after leaving the
// process: the portal was unreachable, answered non-2xx, or returned a
// body that is not JSON. Body carries the raw payload when there was one.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("carrier: upstream unavailable: %v", e.Err)
	}
	return fmt.Sprintf("carrier: upstream HTTP %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type Config struct {
	BaseURL    string
	App        string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	app        string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		app:        cfg.App,
		token:      cfg.Token,
		httpClient: httpClient,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// FindCustomer looks a customer up by CPF. The portal's JSON answer is
// returned untouched; an empty "clientes" list is ErrCustomerNotFound.
func (c *Client) FindCustomer(ctx context.Context, cpf string) (json.RawMessage, error) {
	body, err := c.call(ctx, customersPath, map[string]string{"cpfcnpj": cpf})
	if err != nil {
		return nil, err
	}

	var probe struct {
		Customers []json.RawMessage `json:"clientes"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || len(probe.Customers) == 0 {
		return nil, ErrCustomerNotFound
	}

	return body, nil
}

// CheckAccess asks whether the connection behind contract is online.
func (c *Client) CheckAccess(ctx context.Context, contract string) (json.RawMessage, error) {
	return c.call(ctx, accessCheckPath, map[string]string{"contrato": contract})
}

// call POSTs an empty body; the portal reads every parameter from headers.
func (c *Client) call(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("carrier: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("app", c.app)
	req.Header.Set("token", c.token)
	for key, value := range params {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if !json.Valid(raw) {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return json.RawMessage(raw), nil
}
