package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
			Stream   bool      `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "llama3.2" {
			t.Errorf("Expected model llama3.2, got %q", req.Model)
		}
		if req.Stream {
			t.Error("Expected non-streaming request")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != RoleSystem {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":   req.Model,
			"message": Message{Role: RoleAssistant, Content: "hello"},
			"done":    true,
		})
	}))
	defer server.Close()

	client := New(server.URL, "llama3.2")
	reply, err := client.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "hello" {
		t.Errorf("Expected hello, got %q", reply)
	}
}

func TestChatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "llama3.2")
	_, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}

	serverErr, ok := err.(*ServerError)
	if !ok {
		t.Fatalf("Expected *ServerError, got %T: %v", err, err)
	}
	if !serverErr.Retryable() {
		t.Error("500 should be retryable")
	}
}

func TestChatBadRequestNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "missing")
	_, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	serverErr, ok := err.(*ServerError)
	if !ok {
		t.Fatalf("Expected *ServerError, got %T: %v", err, err)
	}
	if serverErr.Retryable() {
		t.Error("404 should not be retryable")
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer server.Close()

	client := New(server.URL, "")
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	server.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Error("Expected ping error after server shutdown")
	}
}

func TestDefaults(t *testing.T) {
	client := New("", "")
	if client.Model() != DefaultModel {
		t.Errorf("Expected default model, got %q", client.Model())
	}
	if client.host != DefaultHost {
		t.Errorf("Expected default host, got %q", client.host)
	}
}
