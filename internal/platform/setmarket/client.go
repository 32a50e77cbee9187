// Package setmarket reads realtime stock data from the SET marketplace API.
package setmarket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// DefaultURL is the realtime stock endpoint.
const DefaultURL = "https://marketplace.set.or.th/api/public/realtime-data/stock"

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("set api key not configured")

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AuthMethod sets the credential headers on a request.
type AuthMethod struct {
	Name  string
	Apply func(h http.Header, key string)
}

// AuthMethods are tried in order until one is accepted.
var AuthMethods = []AuthMethod{
	{Name: "bearer", Apply: func(h http.Header, key string) { h.Set("Authorization", "Bearer "+key) }},
	{Name: "x-api-key", Apply: func(h http.Header, key string) { h.Set("x-api-key", key) }},
	{Name: "both", Apply: func(h http.Header, key string) {
		h.Set("Authorization", "Bearer "+key)
		h.Set("x-api-key", key)
	}},
}

// Client calls the SET API.
type Client struct {
	url        string
	apiKey     string
	httpClient HTTPClient
}

// New creates a SET client. url may be empty for the default endpoint.
func New(httpClient HTTPClient, url, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url, apiKey: apiKey, httpClient: httpClient}
}

// Quotes returns every quote the endpoint publishes. Each authentication
// method is attempted in turn; the last failure is returned when none works.
func (c *Client) Quotes(ctx context.Context) ([]model.StockQuote, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	var lastErr error
	for _, m := range AuthMethods {
		quotes, err := c.fetch(ctx, m)
		if err == nil {
			return quotes, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = fmt.Errorf("%s: %w", m.Name, err)
	}
	return nil, fmt.Errorf("set api authentication failed: %w", lastErr)
}

func (c *Client) fetch(ctx context.Context, m AuthMethod) ([]model.StockQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	m.Apply(req.Header, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return decodeQuotes(body)
}

func decodeQuotes(body []byte) ([]model.StockQuote, error) {
	var wrapped struct {
		Data []model.StockQuote `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}
	var list []model.StockQuote
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}
	return list, nil
}
