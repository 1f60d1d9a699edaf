// Package github is a thin client over the GitHub REST API covering the
// operations the workflow orchestrator needs.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"devflow-backend/internal/shared/serviceerr"
)

const serviceName = "github"

// Client calls the GitHub REST API v3.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a GitHub client authenticated with a personal access
// token. baseURL overrides api.github.com for tests and GitHub Enterprise.
func NewClient(token, baseURL string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.github.com"
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// GetPullRequest fetches a pull request with its files, commits, and reviews.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequestDetail, error) {
	var detail PullRequestDetail

	prPath := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)
	if err := c.getJSON(ctx, prPath, &detail.PullRequest); err != nil {
		return PullRequestDetail{}, err
	}
	if err := c.getJSON(ctx, prPath+"/files", &detail.Files); err != nil {
		return PullRequestDetail{}, err
	}
	if err := c.getJSON(ctx, prPath+"/commits", &detail.Commits); err != nil {
		return PullRequestDetail{}, err
	}
	if err := c.getJSON(ctx, prPath+"/reviews", &detail.Reviews); err != nil {
		return PullRequestDetail{}, err
	}
	return detail, nil
}

// ListContributors returns the repository's contributors, most active first.
func (c *Client) ListContributors(ctx context.Context, owner, repo string) ([]Contributor, error) {
	var out []Contributor
	path := fmt.Sprintf("/repos/%s/%s/contributors?per_page=30", owner, repo)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetIssue fetches a single GitHub issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (Issue, error) {
	var out Issue
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return Issue{}, err
	}
	return out, nil
}

// GetRepoStats fetches repository-level statistics.
func (c *Client) GetRepoStats(ctx context.Context, owner, repo string) (RepoStats, error) {
	var out RepoStats
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &out); err != nil {
		return RepoStats{}, err
	}
	return out, nil
}

// CreateRelease creates a release (or a draft release) for the repository.
func (c *Client) CreateRelease(ctx context.Context, owner, repo string, in CreateReleaseInput) (Release, error) {
	var out Release
	path := fmt.Sprintf("/repos/%s/%s/releases", owner, repo)
	if err := c.postJSON(ctx, path, in, &out); err != nil {
		return Release{}, err
	}
	return out, nil
}

// CreatePRStatusCheck posts a commit status against the pull request's head.
func (c *Client) CreatePRStatusCheck(ctx context.Context, owner, repo string, number int, state, description string) error {
	var pr PullRequest
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number), &pr); err != nil {
		return err
	}
	if pr.Head.SHA == "" {
		return serviceerr.New(serviceName, fmt.Sprintf("pull request %s/%s#%d has no head commit", owner, repo, number), nil)
	}

	body := map[string]string{
		"state":       state,
		"description": description,
		"context":     "devflow/workflow",
	}
	path := fmt.Sprintf("/repos/%s/%s/statuses/%s", owner, repo, pr.Head.SHA)
	return c.postJSON(ctx, path, body, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return serviceerr.New(serviceName, "request timeout", err)
		}
		return serviceerr.New(serviceName, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return serviceerr.New(serviceName, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serviceerr.FromStatus(serviceName, resp.StatusCode, apiMessage(raw, method+" "+path))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return serviceerr.New(serviceName, "response parse", err)
	}
	return nil
}

// apiMessage pulls GitHub's error message out of the response body, falling
// back to the request description.
func apiMessage(raw []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return fallback
}
