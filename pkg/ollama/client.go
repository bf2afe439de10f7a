// Package ollama provides a client for the OpenAI-compatible chat
// completions API exposed by an Ollama inference server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const completionsPath = "/v1/chat/completions"

// Client talks to one Ollama server and one model.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTemperature sets the sampling temperature sent on every request.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the given server base URL
// (e.g. "http://localhost:11434") and model identifier.
func New(baseURL, model string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		model:       model,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model identifier this client completes with.
func (c *Client) Model() string {
	return c.model
}

// Chat requests one assistant turn for the given transcript. When tools
// is non-empty the schema is attached unchanged, allowing the model to
// request tool invocations. The call is synchronous; it either returns
// a turn or an error, and a failed call has no side effects.
func (c *Client) Chat(ctx context.Context, messages []Message, tools []Tool, maxTokens int) (*Turn, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Tools:       tools,
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
		Stream:      false,
	}

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting completion",
		zap.String("model", c.model),
		zap.Int("messages", len(messages)),
		zap.Int("tools", len(tools)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat response contained no choices")
	}

	msg := parsed.Choices[0].Message
	ensureToolCallIDs(msg.ToolCalls)

	turn := &Turn{Message: msg}
	if parsed.Usage != nil {
		turn.Usage = *parsed.Usage
	}

	c.logger.Debug("completion received",
		zap.String("finishReason", parsed.Choices[0].FinishReason),
		zap.Int("toolCalls", len(msg.ToolCalls)),
		zap.Int("promptTokens", turn.Usage.PromptTokens),
		zap.Int("completionTokens", turn.Usage.CompletionTokens),
	)

	return turn, nil
}

// ensureToolCallIDs backfills missing invocation ids. Some servers omit
// the id field; the conversation loop correlates results by id, so every
// call must carry one.
func ensureToolCallIDs(calls []ToolCall) {
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = "call_" + uuid.NewString()[:8]
		}
	}
}
