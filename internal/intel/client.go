// Package intel is a client for an AbuseIPDB-style threat-intelligence API.
package intel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotConfigured is returned when no API key is set. The history store
// treats it like any other fetch failure and falls back to synthetic data.
var ErrNotConfigured = errors.New("intel: api key not configured")

// Report is one blacklisted-address record as returned by the provider.
type Report struct {
	IP                   string `json:"ipAddress"`
	CountryCode          string `json:"countryCode"`
	AbuseConfidenceScore int    `json:"abuseConfidenceScore"`
	TotalReports         int    `json:"totalReports"`
	Categories           []int  `json:"categories"`
}

type blacklistResponse struct {
	Data []Report `json:"data"`
}

// Client calls the external threat-intelligence API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client. A zero timeout defaults to 5 s so a hanging
// provider degrades to the synthetic fallback instead of blocking callers.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Blacklist fetches reported addresses with at least the given confidence
// score, up to limit entries.
func (c *Client) Blacklist(ctx context.Context, confidenceMin, limit int) ([]Report, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("confidenceMinimum", strconv.Itoa(confidenceMin))
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/blacklist?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("intel: build request: %w", err)
	}
	req.Header.Set("Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("intel: fetch blacklist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("intel: blacklist returned status %d", resp.StatusCode)
	}

	var body blacklistResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("intel: decode blacklist: %w", err)
	}
	return body.Data, nil
}
