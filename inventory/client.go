// Package inventory retrieves the organization's software composition
// inventory (workspaces, their projects, and each project's resolved
// libraries) and flattens the hierarchy into joinable rows.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/vulnmgt/malwatch/api"
	"github.com/vulnmgt/malwatch/model"
	"github.com/vulnmgt/malwatch/pager"
)

// Stage names used in inventory fetch errors and degrade logging
const (
	StageWorkspaces = "workspaces"
	StageProjects   = "projects"
	StageLibraries  = "libraries"
)

// Source is the set of page-fetch capabilities the flattener needs. All three
// endpoints are zero-based page-number paginated.
type Source interface {
	ListWorkspaces(ctx context.Context, pageIndex int) (pager.NumberedPage[model.Workspace], error)
	ListProjects(ctx context.Context, workspaceID string, pageIndex int) (pager.NumberedPage[model.Project], error)
	ListLibraries(ctx context.Context, workspaceID, projectID string, pageIndex int) (pager.NumberedPage[model.LibraryRecord], error)
}

// Client talks to the composition-analysis HTTP API
type Client struct {
	baseURL    string
	userKey    string
	orgToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an inventory client authenticated by user key + org token
func NewClient(baseURL, userKey, orgToken string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		userKey:    userKey,
		orgToken:   orgToken,
		httpClient: api.NewHTTPClient(),
		logger:     logger,
	}
}

// Ping verifies the inventory service answers before the run starts
func (c *Client) Ping(ctx context.Context) error {
	return api.WaitReachable(ctx, c.httpClient, c.baseURL, c.logger)
}

// ListWorkspaces retrieves one page of the organization's workspaces
func (c *Client) ListWorkspaces(ctx context.Context, pageIndex int) (pager.NumberedPage[model.Workspace], error) {
	return getPage[model.Workspace](ctx, c, "/api/v2/workspaces", pageIndex)
}

// ListProjects retrieves one page of a workspace's projects
func (c *Client) ListProjects(ctx context.Context, workspaceID string, pageIndex int) (pager.NumberedPage[model.Project], error) {
	path := "/api/v2/workspaces/" + url.PathEscape(workspaceID) + "/projects"
	return getPage[model.Project](ctx, c, path, pageIndex)
}

// ListLibraries retrieves one page of a project's resolved libraries
func (c *Client) ListLibraries(ctx context.Context, workspaceID, projectID string, pageIndex int) (pager.NumberedPage[model.LibraryRecord], error) {
	path := "/api/v2/workspaces/" + url.PathEscape(workspaceID) +
		"/projects/" + url.PathEscape(projectID) + "/libraries"
	return getPage[model.LibraryRecord](ctx, c, path, pageIndex)
}

func getPage[T any](ctx context.Context, c *Client, path string, pageIndex int) (pager.NumberedPage[T], error) {
	var page pager.NumberedPage[T]

	endpoint := c.baseURL + path + "?page=" + strconv.Itoa(pageIndex)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return page, err
	}
	req.Header.Set("X-User-Key", c.userKey)
	req.Header.Set("X-Org-Token", c.orgToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "malwatch/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return page, fmt.Errorf("inventory returned status %d for %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, fmt.Errorf("failed to parse inventory page: %w", err)
	}

	c.logger.Sugar().Debugf("inventory page fetched: %s page %d/%d, %d items",
		path, page.PageIndex, page.TotalPages, len(page.Items))

	return page, nil
}
