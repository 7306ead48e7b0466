package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAIClientRequiresModel(t *testing.T) {
	_, err := NewOpenAIClient(Config{APIKey: "key"}, nil)
	if err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	client, err := NewOpenAIClient(Config{Model: "gpt-4o-mini"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != "gpt-4o-mini" {
		t.Errorf("unexpected model %q", client.Model())
	}
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{
					"message":       map[string]any{"content": `{"id": "ev1", "isAllDay": false}`},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     120,
				"completion_tokens": 15,
				"total_tokens":      135,
			},
		})
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: "pick an event"},
			{Role: "user", Content: "the standup"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/chat/completions" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("unexpected model in request: %v", gotBody["model"])
	}
	if gotBody["stream"] != false {
		t.Errorf("streaming must be disabled, got %v", gotBody["stream"])
	}

	if !strings.Contains(resp.Content, "ev1") {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 135 {
		t.Errorf("unexpected token usage %+v", resp.Usage)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(Config{BaseURL: srv.URL, Model: "gpt-4o-mini"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(Config{BaseURL: srv.URL, Model: "gpt-4o-mini"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("expected no-choices error, got %v", err)
	}
}

func TestNewInstrumentedClientNilMetrics(t *testing.T) {
	client, err := NewOpenAIClient(Config{Model: "gpt-4o-mini"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if wrapped := NewInstrumentedClient(client, nil); wrapped != client {
		t.Error("nil metrics must return the client unchanged")
	}
}
