// Package llm defines the provider-neutral chat completion contract used by the chatbot, plus a
// resilience wrapper shared by every concrete provider.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ErrNoChoices is returned when a provider answers without any candidate.
var ErrNoChoices = errors.New("llm: no choices in response")

// ToolCall is a model request to invoke a named tool with JSON arguments.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one turn of the running conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	// ToolCalls is set on assistant turns that requested tools.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID and Name are set on tool turns.
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// ToolSpec describes one callable tool. Parameters is a JSON schema object.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type Request struct {
	Messages    []Message
	Tools       []ToolSpec
	Temperature *float32
	MaxTokens   int
}

// Response is either plain text or a set of tool calls (providers may return both).
type Response struct {
	Text      string
	ToolCalls []ToolCall
	Model     string
}

// HasToolCalls reports whether the model asked for at least one tool.
func (r *Response) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}

// Provider performs a single chat completion round trip.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}
