package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"devflow-backend/internal/llm"
	"devflow-backend/internal/shared/serviceerr"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		body := map[string]any{
			"id":    "chatcmpl-1",
			"model": "gpt-test",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient("test-key", "gpt-test", url)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestAnalyzeParsesStructuredContent(t *testing.T) {
	srv := chatServer(t, `{"analysis":"looks risky","confidence":88,"recommendations":["split the change","add tests"]}`)
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).Analyze(context.Background(), llm.AnalyzeInput{Kind: "pr"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Analysis != "looks risky" {
		t.Errorf("analysis = %q", got.Analysis)
	}
	if got.Confidence != 88 {
		t.Errorf("confidence = %v, want 88", got.Confidence)
	}
	if len(got.Recommendations) != 2 || got.Recommendations[0] != "split the change" {
		t.Errorf("recommendations = %v", got.Recommendations)
	}
}

func TestAnalyzeClampsConfidence(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{-5, 0},
		{150, 100},
		{42, 42},
	}
	for _, tc := range cases {
		srv := chatServer(t, `{"analysis":"ok","confidence":`+jsonNumber(tc.raw)+`,"recommendations":[]}`)
		got, err := newTestClient(t, srv.URL).Analyze(context.Background(), llm.AnalyzeInput{Kind: "issue"})
		srv.Close()
		if err != nil {
			t.Fatalf("Analyze(%v): %v", tc.raw, err)
		}
		if got.Confidence != tc.want {
			t.Errorf("confidence %v clamped to %v, want %v", tc.raw, got.Confidence, tc.want)
		}
	}
}

func jsonNumber(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestAnalyzeDegradesOnProse(t *testing.T) {
	srv := chatServer(t, "this is not json at all")
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).Analyze(context.Background(), llm.AnalyzeInput{Kind: "team"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Analysis != "this is not json at all" {
		t.Errorf("analysis = %q", got.Analysis)
	}
	if got.Confidence != defaultConfidence {
		t.Errorf("confidence = %v, want default %d", got.Confidence, defaultConfidence)
	}
}

func TestAnalyzeServerErrorIsTagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Analyze(context.Background(), llm.AnalyzeInput{Kind: "pr"})
	if err == nil {
		t.Fatal("expected error")
	}
	var se *serviceerr.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected serviceerr.Error, got %T", err)
	}
	if se.Service != "openai" {
		t.Errorf("service = %q, want openai", se.Service)
	}
	if !se.Retryable {
		t.Error("503 should be retryable")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-test", ""); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := NewClient("key", "", ""); err == nil {
		t.Error("expected error for missing model")
	}
}
