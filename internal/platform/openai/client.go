package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/zaryah/zaryah-backend/internal/platform/envutil"
	"github.com/zaryah/zaryah-backend/internal/platform/httpx"
	"github.com/zaryah/zaryah-backend/internal/platform/llm"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

const (
	DefaultModel      = "gpt-4-turbo"
	DefaultEmbedModel = "text-embedding-3-small"

	GroqBaseURL      = "https://api.groq.com/openai/v1"
	GroqDefaultModel = "llama-3.3-70b-versatile"
)

// Config selects an OpenAI-compatible endpoint. Groq is served by the same client with a different
// base URL and model.
type Config struct {
	Name        string
	APIKey      string
	BaseURL     string
	Model       string
	EmbedModel  string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// ConfigFromEnv reads OPENAI_* variables.
func ConfigFromEnv() Config {
	return Config{
		Name:        "openai",
		APIKey:      envutil.String("OPENAI_API_KEY", ""),
		BaseURL:     envutil.String("OPENAI_BASE_URL", ""),
		Model:       envutil.String("OPENAI_MODEL", DefaultModel),
		EmbedModel:  envutil.String("OPENAI_EMBED_MODEL", DefaultEmbedModel),
		Temperature: float32(envutil.Float("CHAT_TEMPERATURE", 0.7)),
		MaxTokens:   envutil.Int("CHAT_MAX_TOKENS", 1000),
		Timeout:     envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 60*time.Second),
	}
}

// GroqConfigFromEnv reads GROQ_* variables.
func GroqConfigFromEnv() Config {
	return Config{
		Name:        "groq",
		APIKey:      envutil.String("GROQ_API_KEY", ""),
		BaseURL:     envutil.String("GROQ_BASE_URL", GroqBaseURL),
		Model:       envutil.String("GROQ_MODEL", GroqDefaultModel),
		Temperature: float32(envutil.Float("CHAT_TEMPERATURE", 0.7)),
		MaxTokens:   envutil.Int("CHAT_MAX_TOKENS", 1000),
		Timeout:     envutil.Seconds("GROQ_TIMEOUT_SECONDS", 60*time.Second),
	}
}

type Client struct {
	log *logger.Logger
	cfg Config
	api *goopenai.Client
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing %s API key", strings.ToUpper(nameOr(cfg.Name, "openai")))
	}
	cfg.Name = nameOr(cfg.Name, "openai")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		apiCfg.BaseURL = base
	}
	if cfg.Timeout > 0 {
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		log: log.With("client", "OpenAIClient", "provider", cfg.Name, "model", cfg.Model),
		cfg: cfg,
		api: goopenai.NewClientWithConfig(apiCfg),
	}, nil
}

func (c *Client) Name() string { return c.cfg.Name }

// Complete implements llm.Provider over the chat completions endpoint with function tools.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	temp := c.cfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTokens := c.cfg.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	apiReq := goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    toChatMessages(req.Messages),
		Temperature: temp,
		MaxTokens:   maxTokens,
	}
	if len(req.Tools) > 0 {
		apiReq.Tools = toTools(req.Tools)
		apiReq.ToolChoice = "auto"
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, llm.ErrNoChoices
	}
	msg := resp.Choices[0].Message
	out := &llm.Response{Text: strings.TrimSpace(msg.Content), Model: resp.Model}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: []byte(tc.Function.Arguments),
		})
	}
	c.log.Debug("chat completion done",
		"tool_calls", len(out.ToolCalls),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return out, nil
}

func toChatMessages(msgs []llm.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		cm := goopenai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		if m.Role == llm.RoleTool {
			cm.Name = m.Name
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, goopenai.ToolCall{
				ID:   tc.ID,
				Type: goopenai.ToolTypeFunction,
				Function: goopenai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func toTools(specs []llm.ToolSpec) []goopenai.Tool {
	out := make([]goopenai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		})
	}
	return out
}

// wrapAPIError exposes the upstream HTTP status so retry policy can classify the failure.
func wrapAPIError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &httpx.StatusError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &httpx.StatusError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}

func nameOr(name, def string) string {
	if strings.TrimSpace(name) == "" {
		return def
	}
	return strings.TrimSpace(name)
}
