// Package jira is a thin client over the Jira Cloud REST API covering the
// operations the workflow orchestrator needs.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devflow-backend/internal/shared/serviceerr"
)

const serviceName = "jira"

// Client calls the Jira REST API v2 with basic auth.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

// NewClient constructs a Jira client for the given site.
func NewClient(baseURL, email, apiToken string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("JIRA_BASE_URL is required")
	}
	if strings.TrimSpace(email) == "" || strings.TrimSpace(apiToken) == "" {
		return nil, fmt.Errorf("JIRA_EMAIL and JIRA_API_TOKEN are required")
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		email:    email,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetIssue fetches a single issue by key.
func (c *Client) GetIssue(ctx context.Context, key string) (Issue, error) {
	var raw rawIssue
	if err := c.getJSON(ctx, "/rest/api/2/issue/"+url.PathEscape(key), &raw); err != nil {
		return Issue{}, err
	}
	return raw.flatten(), nil
}

// SearchIssues runs a JQL query and returns up to max matches.
func (c *Client) SearchIssues(ctx context.Context, jql string, max int) ([]Issue, error) {
	if max <= 0 {
		max = 10
	}
	path := fmt.Sprintf("/rest/api/2/search?jql=%s&maxResults=%d", url.QueryEscape(jql), max)
	var result struct {
		Issues []rawIssue `json:"issues"`
	}
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	out := make([]Issue, 0, len(result.Issues))
	for _, ri := range result.Issues {
		out = append(out, ri.flatten())
	}
	return out, nil
}

// AddComment posts a comment on the issue.
func (c *Client) AddComment(ctx context.Context, key, body string) error {
	payload := map[string]string{"body": body}
	return c.postJSON(ctx, "/rest/api/2/issue/"+url.PathEscape(key)+"/comment", payload, nil)
}

// GetProjectStats counts the project's open and release-blocking issues.
func (c *Client) GetProjectStats(ctx context.Context, projectKey string) (ProjectStats, error) {
	open, err := c.countIssues(ctx, fmt.Sprintf("project = %s AND statusCategory != Done", projectKey))
	if err != nil {
		return ProjectStats{}, err
	}
	blockers, err := c.countIssues(ctx, fmt.Sprintf("project = %s AND statusCategory != Done AND priority in (Highest, Blocker)", projectKey))
	if err != nil {
		return ProjectStats{}, err
	}
	return ProjectStats{Project: projectKey, OpenIssues: open, Blockers: blockers}, nil
}

func (c *Client) countIssues(ctx context.Context, jql string) (int, error) {
	path := fmt.Sprintf("/rest/api/2/search?jql=%s&maxResults=0", url.QueryEscape(jql))
	var result struct {
		Total int `json:"total"`
	}
	if err := c.getJSON(ctx, path, &result); err != nil {
		return 0, err
	}
	return result.Total, nil
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
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")
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

func apiMessage(raw []byte, fallback string) string {
	var envelope struct {
		ErrorMessages []string `json:"errorMessages"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.ErrorMessages) > 0 {
		return envelope.ErrorMessages[0]
	}
	return fallback
}
