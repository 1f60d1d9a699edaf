package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"devflow-backend/internal/llm"
	"devflow-backend/internal/shared/serviceerr"
)

const (
	defaultAPIURL = "https://api.openai.com/v1/chat/completions"
	serviceName   = "openai"

	// defaultConfidence is assumed when the provider emitted prose without a
	// parseable confidence field.
	defaultConfidence = 70
)

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client. apiURL overrides the production
// endpoint; pass "" for the default.
func NewClient(apiKey, model, apiURL string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = defaultAPIURL
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// analysisPayload is the JSON shape the prompt asks for.
type analysisPayload struct {
	Analysis        string         `json:"analysis"`
	Confidence      float64        `json:"confidence"`
	Recommendations []string       `json:"recommendations"`
	Structured      map[string]any `json:"structured,omitempty"`
}

// Analyze sends the analysis request and decodes the provider response.
// Non-JSON content degrades to a bare-prose result with the default
// confidence rather than failing.
func (c *Client) Analyze(ctx context.Context, input llm.AnalyzeInput) (llm.AnalysisResult, error) {
	messages := BuildPrompt(input.Kind, input.Instructions, input.Context)
	raw, err := c.analyzeOnce(ctx, messages)
	if err != nil {
		return llm.AnalysisResult{}, err
	}

	var payload analysisPayload
	if jsonErr := json.Unmarshal(raw, &payload); jsonErr != nil || strings.TrimSpace(payload.Analysis) == "" {
		// The prompt demands JSON but the model is not trusted to comply.
		return llm.AnalysisResult{
			Analysis:   string(raw),
			Confidence: defaultConfidence,
		}, nil
	}

	return llm.AnalysisResult{
		Analysis:        payload.Analysis,
		Confidence:      llm.ClampConfidence(payload.Confidence),
		Recommendations: payload.Recommendations,
		StructuredData:  payload.Structured,
	}, nil
}

func (c *Client) analyzeOnce(ctx context.Context, messages []Message) (json.RawMessage, error) {
	temp := float32(0)
	reqMessages := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, chatMessage{Role: m.Role, Content: m.Content})
	}
	reqBody := chatRequest{
		Model:    c.model,
		Messages: reqMessages,
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	reqBody.Temperature = &temp
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, serviceerr.New(serviceName, "request timeout", err)
		}
		return nil, serviceerr.New(serviceName, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serviceerr.New(serviceName, "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, serviceerr.FromStatus(serviceName, resp.StatusCode, "chat completion failed")
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, serviceerr.New(serviceName, "response parse", err)
	}
	if parsed.Error != nil {
		return nil, serviceerr.New(serviceName, fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Type), nil)
	}
	if len(parsed.Choices) == 0 {
		return nil, serviceerr.New(serviceName, "response missing choices", nil)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, serviceerr.New(serviceName, "response empty content", nil)
	}
	logUsage(c.model, parsed.Usage)
	return json.RawMessage(content), nil
}

func logUsage(model string, usage *struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}) {
	if usage == nil {
		log.Printf("llm response model=%s", model)
		return
	}
	log.Printf("llm response model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

var _ llm.Client = (*Client)(nil)
