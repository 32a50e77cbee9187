// Package facebook reads ad insights from the Facebook Graph API.
package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

const (
	// DefaultBaseURL is the versioned Graph API root.
	DefaultBaseURL = "https://graph.facebook.com/v24.0"

	// RateLimitMessage is the substring Graph uses for throttled requests.
	RateLimitMessage = "User request limit reached"

	// maxPages bounds paging.next traversal.
	maxPages = 20
)

// Messaging action types requested from the insights endpoint.
const (
	ActionFirstReply         = "onsite_conversion.messaging_first_reply"
	ActionMessagingConnected = "onsite_conversion.total_messaging_connection"
)

// Levels accepted by the insights endpoint.
const (
	LevelCampaign = "campaign"
	LevelAdset    = "adset"
	LevelAd       = "ad"
)

var (
	// ErrRateLimited wraps Graph errors carrying the rate-limit message.
	ErrRateLimited = errors.New("facebook rate limit reached")
	// ErrNotConfigured is returned without an access token or ad account.
	ErrNotConfigured = errors.New("facebook access token or ad account not configured")
)

var insightFields = []string{
	"campaign_id", "campaign_name", "adset_id", "adset_name", "ad_id", "ad_name",
	"spend", "impressions", "clicks", "actions", "date_start", "date_stop",
}

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries insights for one ad account.
type Client struct {
	baseURL     string
	accessToken string
	adAccountID string
	httpClient  HTTPClient
}

// New creates a Graph API client. baseURL may be empty for the default.
func New(httpClient HTTPClient, baseURL, accessToken, adAccountID string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	adAccountID = strings.TrimSpace(adAccountID)
	if adAccountID != "" && !strings.HasPrefix(adAccountID, "act_") {
		adAccountID = "act_" + adAccountID
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		adAccountID: adAccountID,
		httpClient:  httpClient,
	}
}

// Query selects the insights rows.
type Query struct {
	Level      string
	DatePreset string // e.g. today, last_7d; ignored when Since/Until are set
	Since      string // YYYY-MM-DD
	Until      string // YYYY-MM-DD
}

// GraphError is the error object returned by the Graph API.
type GraphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Status  int    `json:"-"`
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph api %d (code %d): %s", e.Status, e.Code, e.Message)
}

// Unwrap maps rate-limit messages to ErrRateLimited.
func (e *GraphError) Unwrap() error {
	if strings.Contains(e.Message, RateLimitMessage) {
		return ErrRateLimited
	}
	return nil
}

type insightsPage struct {
	Data   []model.AdInsight `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
	Error *GraphError `json:"error"`
}

// Insights fetches every page of insights for q, restricted to the
// messaging action types.
func (c *Client) Insights(ctx context.Context, q Query) ([]model.AdInsight, error) {
	if c.accessToken == "" || c.adAccountID == "" {
		return nil, ErrNotConfigured
	}
	next := c.baseURL + "/" + c.adAccountID + "/insights?" + c.params(q).Encode()

	var out []model.AdInsight
	for page := 0; next != "" && page < maxPages; page++ {
		p, err := c.page(ctx, next)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Data...)
		next = p.Paging.Next
	}
	return out, nil
}

func (c *Client) params(q Query) url.Values {
	level := q.Level
	switch level {
	case LevelCampaign, LevelAdset, LevelAd:
	default:
		level = LevelCampaign
	}
	v := url.Values{}
	v.Set("access_token", c.accessToken)
	v.Set("level", level)
	v.Set("fields", strings.Join(insightFields, ","))
	v.Set("action_breakdowns", "action_type")
	filtering, _ := json.Marshal([]map[string]interface{}{{
		"field":    "action_type",
		"operator": "IN",
		"value":    []string{ActionFirstReply, ActionMessagingConnected},
	}})
	v.Set("filtering", string(filtering))
	v.Set("limit", "500")
	if q.Since != "" && q.Until != "" {
		tr, _ := json.Marshal(map[string]string{"since": q.Since, "until": q.Until})
		v.Set("time_range", string(tr))
	} else {
		preset := q.DatePreset
		if preset == "" {
			preset = "today"
		}
		v.Set("date_preset", preset)
	}
	return v
}

func (c *Client) page(ctx context.Context, target string) (insightsPage, error) {
	var p insightsPage
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return p, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return p, fmt.Errorf("facebook insights: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return p, fmt.Errorf("read insights: %w", err)
	}
	if err := json.Unmarshal(body, &p); err != nil {
		if resp.StatusCode >= 300 {
			return p, fmt.Errorf("facebook insights status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return p, fmt.Errorf("decode insights: %w", err)
	}
	if p.Error != nil {
		p.Error.Status = resp.StatusCode
		return p, p.Error
	}
	if resp.StatusCode >= 300 {
		return p, fmt.Errorf("facebook insights status %d", resp.StatusCode)
	}
	return p, nil
}
