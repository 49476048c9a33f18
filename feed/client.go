// Package feed retrieves the vendor threat-intelligence feed of known
// malicious open-source packages. The feed is cursor-paginated and only a
// complete drain is usable: a sound cross-reference needs every entry.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/vulnmgt/malwatch/api"
	"github.com/vulnmgt/malwatch/model"
	"github.com/vulnmgt/malwatch/pager"
)

// Stage identifies threat feed pages in fetch errors
const Stage = "threat-feed"

// Source is the page-fetch capability the pipeline needs from the feed
type Source interface {
	FetchPage(ctx context.Context, cursor pager.Cursor) (pager.CursorPage[model.ThreatEntry], error)
}

// Client talks to the threat feed HTTP API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a feed client for the given base URL and API key
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: api.NewHTTPClient(),
		logger:     logger,
	}
}

// Ping verifies the feed service answers before the run starts
func (c *Client) Ping(ctx context.Context) error {
	return api.WaitReachable(ctx, c.httpClient, c.baseURL, c.logger)
}

// FetchPage retrieves one feed page. An empty cursor requests the first page.
func (c *Client) FetchPage(ctx context.Context, cursor pager.Cursor) (pager.CursorPage[model.ThreatEntry], error) {
	var page pager.CursorPage[model.ThreatEntry]

	endpoint := c.baseURL + "/v1/threats"
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(string(cursor))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return page, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "malwatch/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return page, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, fmt.Errorf("failed to parse feed page: %w", err)
	}

	c.logger.Sugar().Debugf("threat feed page fetched: %d entries, next cursor %q", len(page.Items), page.Next)

	return page, nil
}

// FetchAll drains the whole feed in order. Any page failure aborts with a
// *pager.PageError; partial threat data is never returned.
func FetchAll(ctx context.Context, src Source) ([]model.ThreatEntry, error) {
	return pager.DrainCursor(ctx, Stage, src.FetchPage)
}
