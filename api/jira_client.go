package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"jiraboardsync/config"
	"jiraboardsync/models"
)

// RequestTimeout bounds every Jira call.
const RequestTimeout = 60 * time.Second

// UpstreamError is returned when Jira answers with a non-2xx status.
type UpstreamError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("jira: GET %s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// JiraClient talks to the Jira Agile REST API with basic auth.
type JiraClient struct {
	config  *config.Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewJiraClient creates a client for cfg. The limiter allows cfg.RateLimit
// requests per second; zero means unlimited.
func NewJiraClient(cfg *config.Config) *JiraClient {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &JiraClient{
		config:  cfg,
		client:  &http.Client{Timeout: RequestTimeout},
		limiter: rate.NewLimiter(limit, 5),
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (j *JiraClient) WithHTTPClient(c *http.Client) *JiraClient {
	j.client = c
	return j
}

// BaseURL returns the Jira site the client targets.
func (j *JiraClient) BaseURL() string {
	return j.config.JiraURL
}

// ListBoards returns the first page of boards visible to the account. It is
// the cheapest way to prove the credentials work against the Agile API.
func (j *JiraClient) ListBoards(ctx context.Context) (*models.BoardList, error) {
	var boards models.BoardList
	if err := j.getJSON(ctx, "/rest/agile/1.0/board", nil, &boards); err != nil {
		return nil, err
	}
	return &boards, nil
}

// GetBoardConfiguration fetches the column configuration of a board.
func (j *JiraClient) GetBoardConfiguration(ctx context.Context, boardID int) (*models.BoardConfiguration, error) {
	path := fmt.Sprintf("/rest/agile/1.0/board/%d/configuration", boardID)

	var cfg models.BoardConfiguration
	if err := j.getJSON(ctx, path, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetBoardIssues fetches one page of issues on a board.
func (j *JiraClient) GetBoardIssues(ctx context.Context, boardID, startAt, maxResults int) (*models.IssuePage, error) {
	path := fmt.Sprintf("/rest/agile/1.0/board/%d/issue", boardID)
	query := url.Values{}
	query.Set("startAt", strconv.Itoa(startAt))
	query.Set("maxResults", strconv.Itoa(maxResults))

	var page models.IssuePage
	if err := j.getJSON(ctx, path, query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (j *JiraClient) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	resp, err := j.do(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &UpstreamError{
			URL:        resp.Request.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (j *JiraClient) do(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	if err := j.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := j.config.JiraURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(j.config.JiraEmail, j.config.JiraAPIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}
