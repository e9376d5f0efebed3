// Package github is a minimal client for the GitHub REST issue endpoints
// used by the dashboard generators.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github+json"
	apiVersion     = "2022-11-28"
	userAgent      = "issues-dashboard-builder"

	requestTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response body is echoed into
	// error messages.
	maxErrorBody = 2000
)

// Client talks to the GitHub REST API. BaseURL can be pointed at a httptest
// server in tests.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a client using the given bearer token. An empty token
// means unauthenticated requests, which are subject to much lower rate
// limits.
func NewClient(token string) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// Authenticated reports whether the client sends a bearer token.
func (c *Client) Authenticated() bool {
	return c.Token != ""
}

// ValidateRepo checks that repo is in OWNER/REPO form.
func ValidateRepo(repo string) error {
	parts := strings.Split(strings.TrimSpace(repo), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("repo must be in OWNER/REPO format, got %q", repo)
	}
	return nil
}

// IssueHTMLURL returns the canonical web URL for an issue, used when the API
// response did not provide one.
func IssueHTMLURL(repo string, number int) string {
	return fmt.Sprintf("https://github.com/%s/issues/%d", repo, number)
}

// Label is an issue label. The API normally returns label objects but some
// payloads carry bare strings; both forms unmarshal into Name.
type Label struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts either a label object or a plain string.
func (l *Label) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &l.Name)
	}
	type labelObject Label
	var obj labelObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	l.Name = obj.Name
	return nil
}

// Issue is the subset of the GitHub issue resource the generators read.
// The issues list endpoint returns pull requests too; they are detected via
// the pull_request key.
type Issue struct {
	Number      int              `json:"number"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	State       string           `json:"state"`
	Labels      []Label          `json:"labels"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	ClosedAt    string           `json:"closed_at"`
	HTMLURL     string           `json:"html_url"`
	PullRequest *json.RawMessage `json:"pull_request,omitempty"`
}

// IsPullRequest reports whether this record is actually a pull request.
func (i *Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// LabelNames returns the label names in order.
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return names
}

// RateInfo carries the primary rate limit state from a response.
type RateInfo struct {
	Remaining int
	Known     bool
}

// Exhausted reports whether the response indicated no remaining requests.
func (r RateInfo) Exhausted() bool {
	return r.Known && r.Remaining <= 0
}

func rateFromHeader(h http.Header) RateInfo {
	v := h.Get("X-RateLimit-Remaining")
	if v == "" {
		return RateInfo{}
	}
	remaining, err := strconv.Atoi(v)
	if err != nil {
		return RateInfo{}
	}
	return RateInfo{Remaining: remaining, Known: true}
}

// FetchIssue fetches a single issue by number.
func (c *Client) FetchIssue(ctx context.Context, repo string, number int) (*Issue, RateInfo, error) {
	if err := ValidateRepo(repo); err != nil {
		return nil, RateInfo{}, err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/issues/%d", c.baseURL(), repo, number)
	var issue Issue
	rate, err := c.getJSON(ctx, endpoint, &issue)
	if err != nil {
		return nil, rate, err
	}
	return &issue, rate, nil
}

// ListIssuesPage fetches one page of the repository's issues. state is one
// of open, closed or all. The returned slice still contains pull requests;
// callers filter with IsPullRequest.
func (c *Client) ListIssuesPage(ctx context.Context, repo, state string, page, perPage int) ([]Issue, RateInfo, error) {
	if err := ValidateRepo(repo); err != nil {
		return nil, RateInfo{}, err
	}

	params := url.Values{}
	params.Set("state", state)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	endpoint := fmt.Sprintf("%s/repos/%s/issues?%s", c.baseURL(), repo, params.Encode())

	var issues []Issue
	rate, err := c.getJSON(ctx, endpoint, &issues)
	if err != nil {
		return nil, rate, err
	}
	return issues, rate, nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return defaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: requestTimeout}
}

// getJSON performs an authenticated GET and decodes the JSON response into
// out. Non-2xx responses become errors carrying the status and a truncated
// response body.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) (RateInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return RateInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return RateInfo{}, fmt.Errorf("failed to fetch from github: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RateInfo{}, fmt.Errorf("failed to read github response: %w", err)
	}

	rate := rateFromHeader(resp.Header)
	slog.Debug("GitHub request", "url", endpoint, "status", resp.StatusCode, "rateRemaining", rate.Remaining)

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return rate, fmt.Errorf("github API returned status %d for %s: %s", resp.StatusCode, endpoint, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return rate, fmt.Errorf("failed to parse github response: %w", err)
	}
	return rate, nil
}
