// Package slack is a thin client over the Slack Web API covering channel
// lookup and rich notifications.
package slack

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

	"devflow-backend/internal/shared/serviceerr"
)

const serviceName = "slack"

// ErrChannelNotFound is returned when no channel matches the requested name.
var ErrChannelNotFound = errors.New("channel not found")

// Channel identifies a Slack channel.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Attachment is a colored message attachment.
type Attachment struct {
	Color  string  `json:"color,omitempty"`
	Title  string  `json:"title,omitempty"`
	Text   string  `json:"text,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Field is one short key/value pair inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Client calls the Slack Web API with a bot token.
type Client struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewClient constructs a Slack client. apiURL overrides slack.com/api for
// tests.
func NewClient(token, apiURL string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = "https://slack.com/api"
	}
	return &Client{
		token:  token,
		apiURL: strings.TrimSuffix(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// FindChannel resolves a channel by name, paging through conversations.list.
// Returns ErrChannelNotFound (not a service error) when no channel matches.
func (c *Client) FindChannel(ctx context.Context, name string) (Channel, error) {
	name = strings.TrimPrefix(name, "#")
	cursor := ""
	for {
		path := "/conversations.list?limit=200&types=public_channel"
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}
		var result struct {
			apiEnvelope
			Channels         []Channel `json:"channels"`
			ResponseMetadata struct {
				NextCursor string `json:"next_cursor"`
			} `json:"response_metadata"`
		}
		if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
			return Channel{}, err
		}
		for _, ch := range result.Channels {
			if ch.Name == name {
				return ch, nil
			}
		}
		cursor = result.ResponseMetadata.NextCursor
		if cursor == "" {
			return Channel{}, ErrChannelNotFound
		}
	}
}

// PostMessage sends a message with optional attachments and returns the
// message timestamp (Slack's message id).
func (c *Client) PostMessage(ctx context.Context, channelID, text string, attachments []Attachment) (string, error) {
	payload := map[string]any{
		"channel": channelID,
		"text":    text,
	}
	if len(attachments) > 0 {
		payload["attachments"] = attachments
	}
	var result struct {
		apiEnvelope
		TS string `json:"ts"`
	}
	if err := c.call(ctx, http.MethodPost, "/chat.postMessage", payload, &result); err != nil {
		return "", err
	}
	return result.TS, nil
}

// apiEnvelope is Slack's uniform ok/error wrapper.
type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (e apiEnvelope) err() error {
	if e.OK {
		return nil
	}
	return serviceerr.New(serviceName, e.Error, nil)
}

func (c *Client) call(ctx context.Context, method, path string, payload any, out interface{ err() error }) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(raw))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
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
	if resp.StatusCode != http.StatusOK {
		return serviceerr.FromStatus(serviceName, resp.StatusCode, method+" "+path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return serviceerr.New(serviceName, "response parse", err)
	}
	return out.err()
}
