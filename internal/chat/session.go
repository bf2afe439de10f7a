// Package chat implements the conversational tool-calling loop: the
// session transcript, the per-turn protocol against the completion
// client, the console shell around it, and the bootstrap probe.
package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/skarzhevskyy/taskchat/internal/tools"
	"github.com/skarzhevskyy/taskchat/pkg/ollama"
)

// Completer is the completion capability the session consumes. The
// ollama.Client satisfies it; tests substitute fakes.
type Completer interface {
	Chat(ctx context.Context, messages []ollama.Message, tools []ollama.Tool, maxTokens int) (*ollama.Turn, error)
}

// Invocation records one executed tool call for the console surface.
type Invocation struct {
	ID     string
	Name   string
	Args   map[string]any
	Result string
}

// TurnResult is the outcome of one fully resolved user turn.
type TurnResult struct {
	Reply       string
	Invocations []Invocation
}

// Session owns the transcript for one chat session. The transcript is
// append-only and commits atomically per turn: a failed completion call
// leaves it exactly as it was before the turn started.
type Session struct {
	client     Completer
	registry   *tools.Registry
	maxTokens  int
	logger     *zap.Logger
	transcript []ollama.Message
}

// NewSession creates a Session over the given completion client and
// tool registry.
func NewSession(client Completer, registry *tools.Registry, maxTokens int, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client:    client,
		registry:  registry,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Transcript returns the committed transcript.
func (s *Session) Transcript() []ollama.Message {
	return s.transcript
}

// Send resolves one user turn: it appends the user message, requests a
// completion with the tool schema attached, runs the tool-calling round
// if the model requested invocations, and returns the visible reply.
//
// For a round of N invocations the committed transcript grows by N+3
// messages: user, assistant (with invocation metadata), one tool
// message per invocation, and the final assistant synthesis.
func (s *Session) Send(ctx context.Context, userText string) (*TurnResult, error) {
	pending := make([]ollama.Message, len(s.transcript), len(s.transcript)+4)
	copy(pending, s.transcript)
	pending = append(pending, ollama.Message{Role: ollama.RoleUser, Content: userText})

	turn, err := s.client.Chat(ctx, pending, s.registry.Definitions(), s.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("requesting completion: %w", err)
	}

	// The assistant message is kept verbatim, invocation metadata
	// included, so the server can correlate tool results on the
	// follow-up call.
	pending = append(pending, turn.Message)

	calls := turn.ToolCalls()
	if len(calls) == 0 {
		s.transcript = pending
		return &TurnResult{Reply: turn.Text()}, nil
	}

	s.logger.Debug("entering tool-calling round", zap.Int("invocations", len(calls)))

	result := &TurnResult{}
	for _, call := range calls {
		args := decodeArguments(call.Function.Arguments, s.logger)
		output := s.registry.Execute(call.Function.Name, args)

		result.Invocations = append(result.Invocations, Invocation{
			ID:     call.ID,
			Name:   call.Function.Name,
			Args:   args,
			Result: output,
		})
		pending = append(pending, ollama.Message{
			Role:       ollama.RoleTool,
			Content:    output,
			ToolCallID: call.ID,
			Name:       call.Function.Name,
		})
	}

	// One follow-up completion turns the tool results into the visible
	// natural-language reply.
	followUp, err := s.client.Chat(ctx, pending, s.registry.Definitions(), s.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("requesting tool-round synthesis: %w", err)
	}
	pending = append(pending, followUp.Message)

	s.transcript = pending
	result.Reply = followUp.Text()
	return result, nil
}

// decodeArguments parses a tool call's JSON argument string into an
// argument bag. Malformed JSON yields an empty bag; the registry then
// reports the missing arguments as a normal tool result.
func decodeArguments(raw string, logger *zap.Logger) map[string]any {
	args := map[string]any{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		logger.Warn("malformed tool call arguments",
			zap.String("arguments", raw),
			zap.Error(err),
		)
	}
	return args
}
