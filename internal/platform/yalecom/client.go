// Package yalecom reads agent queue status from the Yalecom call center API.
package yalecom

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

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// ErrNotConfigured is returned when the API URL or key is missing.
var ErrNotConfigured = errors.New("yalecom api not configured")

// DefaultQueueExtension is the sales queue.
const DefaultQueueExtension = "900"

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the queue-status endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
}

// New creates a Yalecom client.
func New(httpClient HTTPClient, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// QueueStatus fetches the status of one queue by extension. The API returns
// either a single queue object or an array; both decode to a slice.
func (c *Client) QueueStatus(ctx context.Context, extension string) ([]model.QueueStatus, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if extension == "" {
		extension = DefaultQueueExtension
	}
	params := url.Values{}
	params.Set("queue_extension", extension)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/queue-status?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("queue status request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yalecom status %d: %s", resp.StatusCode, string(body))
	}
	return decodeQueues(body)
}

func decodeQueues(body []byte) ([]model.QueueStatus, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '[' {
		var list []model.QueueStatus
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode queue list: %w", err)
		}
		return list, nil
	}

	// Some deployments wrap the payload as {"success":..,"data":{...}}.
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Data) > 0 && !bytes.Equal(wrapped.Data, []byte("null")) {
		return decodeQueues(wrapped.Data)
	}

	var one model.QueueStatus
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, fmt.Errorf("decode queue: %w", err)
	}
	return []model.QueueStatus{one}, nil
}
