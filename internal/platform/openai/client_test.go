package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zaryah/zaryah-backend/internal/platform/httpx"
	"github.com/zaryah/zaryah-backend/internal/platform/llm"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(logger.Nop(), Config{Name: "test", APIKey: "k", BaseURL: srv.URL, Model: "m", Temperature: 0.7, MaxTokens: 1000})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestCompleteToolCalls(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path=%q, want /chat/completions", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "x", "object": "chat.completion", "model": "m",
			"choices": [{"index": 0, "finish_reason": "tool_calls", "message": {
				"role": "assistant", "content": "",
				"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "search_users", "arguments": "{\"occupation\":\"designer\"}"}}]
			}}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5}
		}`))
	})

	resp, err := c.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: llm.RoleSystem, Content: "sys"}, {Role: llm.RoleUser, Content: "hi"}},
		Tools:    []llm.ToolSpec{{Name: "search_users", Description: "d", Parameters: map[string]any{"type": "object"}}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !resp.HasToolCalls() || resp.ToolCalls[0].ID != "call_1" || resp.ToolCalls[0].Name != "search_users" {
		t.Fatalf("ToolCalls=%+v", resp.ToolCalls)
	}
	if string(resp.ToolCalls[0].Arguments) != `{"occupation":"designer"}` {
		t.Fatalf("Arguments=%s", resp.ToolCalls[0].Arguments)
	}
	if got["tool_choice"] != "auto" {
		t.Fatalf("tool_choice=%v, want auto", got["tool_choice"])
	}
	if got["max_tokens"] != float64(1000) {
		t.Fatalf("max_tokens=%v, want 1000", got["max_tokens"])
	}
	if tools, _ := got["tools"].([]any); len(tools) != 1 {
		t.Fatalf("tools=%v", got["tools"])
	}
}

func TestCompleteToolTurnEncoding(t *testing.T) {
	var got struct {
		Messages []struct {
			Role       string `json:"role"`
			ToolCallID string `json:"tool_call_id"`
			ToolCalls  []struct {
				ID string `json:"id"`
			} `json:"tool_calls"`
		} `json:"messages"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":" done "}}]}`))
	})
	resp, err := c.Complete(context.Background(), llm.Request{Messages: []llm.Message{
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "search_users", Arguments: json.RawMessage(`{}`)}}},
		{Role: llm.RoleTool, ToolCallID: "call_1", Name: "search_users", Content: `{"total":0}`},
	}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "done" {
		t.Fatalf("Text=%q, want done", resp.Text)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("messages=%d, want 3", len(got.Messages))
	}
	if got.Messages[1].ToolCalls[0].ID != "call_1" || got.Messages[2].ToolCallID != "call_1" {
		t.Fatalf("tool ids not carried: %+v", got.Messages)
	}
}

func TestCompleteWrapsStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	})
	_, err := c.Complete(context.Background(), llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}})
	var sc httpx.HTTPStatusCoder
	if !errors.As(err, &sc) || sc.HTTPStatusCode() != http.StatusTooManyRequests {
		t.Fatalf("err=%v, want status 429", err)
	}
	if !httpx.IsRetryableError(err) {
		t.Fatalf("IsRetryableError(%v)=false, want true", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); err == nil {
		t.Fatalf("NewClient without key: want error")
	}
}

func TestNewClientAppliesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c, err := NewClient(logger.Nop(), Config{Name: "test", APIKey: "k", BaseURL: srv.URL, Model: "m", Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	start := time.Now()
	_, err = c.Complete(context.Background(), llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}})
	if err == nil {
		t.Fatalf("Complete against a stalled server: want timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Complete took %v, want the 50ms client timeout to apply", elapsed)
	}
}
