package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/internal/util"
)

// Request captures the normalized model input produced by workflow steps.
type Request struct {
	// Instructions is the system prompt, empty when not needed.
	Instructions string `json:"instructions,omitempty"`
	// Contents is the conversational input converted to provider messages.
	Contents []core.Message `json:"contents"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final completion returned by a model.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal synchronous interface required by the workflow's
// collaborator implementations. Calls block until the provider responds;
// cancellation is driven through the context.
type Model interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// GenerateText is a convenience wrapper completing a single user prompt.
func GenerateText(ctx context.Context, m Model, prompt string) (string, error) {
	resp, err := m.Complete(ctx, Request{Contents: []core.Message{core.NewUserMessage(prompt)}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// Structured completes a prompt and decodes the model's reply into T. The
// expected JSON schema (derived from T via reflection) is embedded into the
// instructions so the model knows the exact shape to produce. Markdown code
// fences around the reply are tolerated, and the decoded object is validated
// against the schema before unmarshaling.
func Structured[T any](ctx context.Context, m Model, prompt string) (T, error) {
	var out T

	schema := util.CreateSchema(out)
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return out, fmt.Errorf("marshal schema: %w", err)
	}

	instructions := fmt.Sprintf(
		"Respond ONLY with a single JSON object matching this JSON schema, no prose, no code fences:\n%s",
		schemaJSON,
	)

	resp, err := m.Complete(ctx, Request{
		Instructions: instructions,
		Contents:     []core.Message{core.NewUserMessage(prompt)},
	})
	if err != nil {
		return out, err
	}

	raw := stripFences(resp.Text)

	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return out, fmt.Errorf("structured output is not valid JSON: %w", err)
	}
	if err := util.ValidateParameters(generic, schema); err != nil {
		return out, fmt.Errorf("structured output mismatch: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decode structured output: %w", err)
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, leaving the inner payload.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		if !strings.Contains(s[:idx], "{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses can be registered per exact prompt, queued in order, or left to
// a default. A registered error takes precedence over any response.
type MockModel struct {
	info      Info
	responses map[string]string
	queue     []string
	fallback  string
	err       error
	calls     []Request
}

// NewMockModel constructs an empty MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// QueueResponse appends a completion returned in FIFO order when no exact
// prompt match exists.
func (m *MockModel) QueueResponse(response string) { m.queue = append(m.queue, response) }

// SetFallback sets the completion returned when nothing else matches.
func (m *MockModel) SetFallback(response string) { m.fallback = response }

// FailWith makes every Complete call return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Calls returns the requests seen so far.
func (m *MockModel) Calls() []Request { return m.calls }

// Complete implements Model.
func (m *MockModel) Complete(_ context.Context, req Request) (*Response, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}

	var input string
	if len(req.Contents) > 0 {
		input = req.Contents[len(req.Contents)-1].Text
	}
	if resp, ok := m.responses[input]; ok {
		return &Response{Text: resp, FinishReason: "stop"}, nil
	}
	if len(m.queue) > 0 {
		resp := m.queue[0]
		m.queue = m.queue[1:]
		return &Response{Text: resp, FinishReason: "stop"}, nil
	}
	if m.fallback != "" {
		return &Response{Text: m.fallback, FinishReason: "stop"}, nil
	}
	return nil, fmt.Errorf("mock model: no response registered for %q", input)
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
