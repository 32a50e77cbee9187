// Package pyapi reads surgery and revenue rows from the clinic's Python
// data API, which fronts the hospital database.
package pyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrCircuitOpen signals the breaker is open after repeated 429/503 responses.
	ErrCircuitOpen = errors.New("data api circuit open due to repeated throttling")
	// ErrNotConfigured is returned when no base URL was provided.
	ErrNotConfigured = errors.New("data api url not configured")
)

// Endpoint paths.
const (
	PathSurgeryActual = "/api/surgery-actual"
	PathNClinic       = "/api/n-clinic"
	PathFutureRevenue = "/api/revenue-future"
	PathHealth        = "/health"
)

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the data API with retry and a simple breaker.
type Client struct {
	baseURL    string
	httpClient HTTPClient

	maxRetries       int
	breakerThreshold int
	consecutiveLimit int
}

// Config defines settings for the data API client.
type Config struct {
	BaseURL    string
	MaxRetries int
	BreakerMax int
}

// New creates a data API client.
func New(httpClient HTTPClient, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	breaker := cfg.BreakerMax
	if breaker <= 0 {
		breaker = 5
	}
	return &Client{
		baseURL:          cfg.BaseURL,
		httpClient:       httpClient,
		maxRetries:       maxRetries,
		breakerThreshold: breaker,
	}
}

// Row is one record returned by any of the surgery/revenue endpoints. Which
// date field is populated depends on the endpoint.
type Row struct {
	ContactStaff   string     `json:"contact_staff"`
	FullName       string     `json:"full_name,omitempty"`
	SurgeryDate    string     `json:"surgery_date,omitempty"`
	SaleDate       string     `json:"sale_date,omitempty"`
	SurgeryTime    string     `json:"surgery_time,omitempty"`
	CustomerName   string     `json:"customer_name,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Doctor         string     `json:"doctor,omitempty"`
	SaleCode       string     `json:"sale_code,omitempty"`
	ItemName       string     `json:"item_name,omitempty"`
	ProposedAmount FlexString `json:"proposed_amount"`
}

// FlexString accepts a JSON string, number or null. The upstream emits
// amounts as integers, formatted strings ("12,000") or null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

type envelope struct {
	Success bool   `json:"success"`
	Data    []Row  `json:"data"`
	Error   string `json:"error,omitempty"`
}

// SurgeryActual returns performed surgeries for the month.
func (c *Client) SurgeryActual(ctx context.Context, month time.Month, year int) ([]Row, error) {
	return c.rows(ctx, PathSurgeryActual, month, year)
}

// NClinic returns sale-incentive revenue rows (sale_date up to today).
func (c *Client) NClinic(ctx context.Context, month time.Month, year int) ([]Row, error) {
	return c.rows(ctx, PathNClinic, month, year)
}

// FutureRevenue returns proposed revenue for upcoming surgeries (surgery_date from today).
func (c *Client) FutureRevenue(ctx context.Context, month time.Month, year int) ([]Row, error) {
	return c.rows(ctx, PathFutureRevenue, month, year)
}

// Ping checks the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, PathHealth, nil)
	return err
}

func (c *Client) rows(ctx context.Context, path string, month time.Month, year int) ([]Row, error) {
	params := url.Values{}
	if month >= time.January && month <= time.December {
		params.Set("month", strconv.Itoa(int(month)))
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(bytes.TrimSpace(body), &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if !env.Success && env.Error != "" {
		return nil, fmt.Errorf("%s: %s", path, env.Error)
	}
	return env.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	if c.consecutiveLimit >= c.breakerThreshold {
		return nil, ErrCircuitOpen
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request %s: %w", path, err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			c.consecutiveLimit = 0
			if readErr != nil {
				return nil, fmt.Errorf("read response: %w", readErr)
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
			c.consecutiveLimit++
			if c.consecutiveLimit >= c.breakerThreshold {
				return nil, ErrCircuitOpen
			}
			lastErr = fmt.Errorf("data api status %d", resp.StatusCode)
		default:
			lastErr = fmt.Errorf("data api status %d: %s", resp.StatusCode, string(body))
		}
	}
	if lastErr == nil {
		lastErr = errors.New("data api request failed after retries")
	}
	return nil, lastErr
}
