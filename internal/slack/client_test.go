package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"devflow-backend/internal/shared/serviceerr"
)

func newSlackFake(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations.list", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cursor") == "" {
			fmt.Fprint(w, `{"ok":true,"channels":[{"id":"C001","name":"general"}],
				"response_metadata":{"next_cursor":"page2"}}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"channels":[{"id":"C002","name":"releases"}],
			"response_metadata":{"next_cursor":""}}`)
	})
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode post body: %v", err)
		}
		if payload["channel"] == "" {
			fmt.Fprint(w, `{"ok":false,"error":"channel_not_found"}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"ts":"1726000000.000100"}`)
	})
	return httptest.NewServer(mux)
}

func TestFindChannelPaginates(t *testing.T) {
	srv := newSlackFake(t)
	defer srv.Close()

	c, err := NewClient("xoxb-test", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ch, err := c.FindChannel(context.Background(), "#releases")
	if err != nil {
		t.Fatalf("FindChannel: %v", err)
	}
	if ch.ID != "C002" {
		t.Errorf("channel id = %q, want C002", ch.ID)
	}
}

func TestFindChannelMissing(t *testing.T) {
	srv := newSlackFake(t)
	defer srv.Close()

	c, _ := NewClient("xoxb-test", srv.URL)
	_, err := c.FindChannel(context.Background(), "nope")
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("err = %v, want ErrChannelNotFound", err)
	}
}

func TestPostMessageReturnsTS(t *testing.T) {
	srv := newSlackFake(t)
	defer srv.Close()

	c, _ := NewClient("xoxb-test", srv.URL)
	ts, err := c.PostMessage(context.Background(), "C002", "release ready", []Attachment{
		{Color: "good", Title: "v1.2.0", Text: "readiness 92/100"},
	})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if ts != "1726000000.000100" {
		t.Errorf("ts = %q", ts)
	}
}

func TestAPIErrorEnvelope(t *testing.T) {
	srv := newSlackFake(t)
	defer srv.Close()

	c, _ := NewClient("xoxb-test", srv.URL)
	_, err := c.PostMessage(context.Background(), "", "hello", nil)
	var se *serviceerr.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected serviceerr.Error, got %v", err)
	}
	if se.Service != "slack" {
		t.Errorf("service = %q", se.Service)
	}
}
