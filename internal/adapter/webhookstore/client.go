package webhookstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// Client talks to the external webhook gateway that fronts the record
// store: a remote key/value table store addressed by logical table name and
// record id. Upsert-by-id is the only write primitive; the gateway offers no
// compare-and-swap, so the client makes no atomicity promise across calls.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// envelope is the gateway's response wrapper
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// NewClient creates a record store client. The timeout bounds every call;
// timeouts surface as errors and are not retried here — retry policy belongs
// to the caller, not this client.
func NewClient(baseURL, apiToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get retrieves a record by id
func (c *Client) Get(ctx context.Context, table, id string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/tables/%s/records/%s", c.baseURL, url.PathEscape(table), url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ports.ErrRecordNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("record store get failed (status %d): %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return env.Data, nil
}

// List retrieves records matching equality filters on top-level fields
func (c *Client) List(ctx context.Context, table string, filter map[string]string) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/tables/%s/records", c.baseURL, url.PathEscape(table))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	if len(filter) > 0 {
		q := req.URL.Query()
		for key, value := range filter {
			q.Set(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("record store list failed (status %d): %s", resp.StatusCode, string(body))
	}

	var env struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return env.Data, nil
}

// Upsert creates or replaces the record carrying the given id. The gateway
// matches on id, so a retried write with the same id stays one record.
func (c *Client) Upsert(ctx context.Context, table, id string, record json.RawMessage) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/tables/%s/records/%s", c.baseURL, url.PathEscape(table), url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(record))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("record store upsert failed (status %d): %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return env.Data, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}
