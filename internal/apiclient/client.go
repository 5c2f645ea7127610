// Package apiclient is a typed HTTP client for the /api/clients REST contract.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"clients_admin/internal/models"
	"clients_admin/pkg/utils"
)

// ErrTransport wraps failures that happen before an HTTP response is available.
var ErrTransport = errors.New("transport error")

// APIError is a non-2xx response. Message holds the server's "error" field and may be empty.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api responded with status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the clients REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL (scheme://host[:port], no trailing slash).
// A zero timeout leaves requests unbounded.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) clientsURL(query url.Values) string {
	u := c.baseURL + "/api/clients"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) clientURL(id int64) string {
	return c.baseURL + "/api/clients/" + utils.Int64ToStr(id)
}

// do sends the request and decodes a 2xx body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, target string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, target, err)
	}
	return nil
}

// ListClients fetches the collection; query holds only the criteria to apply.
func (c *Client) ListClients(ctx context.Context, query url.Values) ([]models.Client, error) {
	var clients []models.Client
	if err := c.do(ctx, http.MethodGet, c.clientsURL(query), nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *Client) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	if err := c.do(ctx, http.MethodGet, c.clientURL(id), nil, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient POSTs payload as-is; payload is usually a serialized form.
func (c *Client) CreateClient(ctx context.Context, payload interface{}) (*models.Client, error) {
	var client models.Client
	if err := c.do(ctx, http.MethodPost, c.clientsURL(nil), payload, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient PUTs payload as a full replacement of the client's editable fields.
func (c *Client) UpdateClient(ctx context.Context, id int64, payload interface{}) (*models.Client, error) {
	var client models.Client
	if err := c.do(ctx, http.MethodPut, c.clientURL(id), payload, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// DeleteClient ignores the success body.
func (c *Client) DeleteClient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.clientURL(id), nil, nil)
}

// ErrorMessage returns the server-provided text carried by err, or fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
