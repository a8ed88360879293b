package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/EllieNosrat/chat-with-bing/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Unified across vendors so downstream logic does not need per-provider
// branching.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a strict JSON Schema object: every declared field is
// required and undeclared fields are rejected.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Strict      bool           `json:"strict"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures a single completion call: the full ordered message history
// plus the tool declarations the model may invoke.
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the interface the chat orchestrator drives. Complete sends the
// request and blocks until the backend returns one assistant message, either
// a final answer or a set of requested tool calls. Implementations must honor
// context cancellation.
type Model interface {
	Complete(ctx context.Context, req Request) (core.Message, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests. Responses are
// consumed from a FIFO queue; every request is recorded so tests can assert
// on the exact history the orchestrator sent.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	queue    []core.Message
	requests []Request
	err      error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel() *MockModel {
	return &MockModel{
		info: Info{Name: "mock", Provider: "mock", SupportsTools: true},
	}
}

// Enqueue appends a scripted response returned by a future Complete call.
func (m *MockModel) Enqueue(msgs ...core.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, msgs...)
}

// FailWith makes every subsequent Complete call return err until reset with
// FailWith(nil).
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of all requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]Request, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// Complete implements Model. With an empty queue it echoes the last message,
// which keeps simple tests terse.
func (m *MockModel) Complete(ctx context.Context, req Request) (core.Message, error) {
	if err := ctx.Err(); err != nil {
		return core.Message{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.err != nil {
		return core.Message{}, m.err
	}
	if len(m.queue) == 0 {
		if len(req.Messages) == 0 {
			return core.Message{}, fmt.Errorf("no messages provided")
		}
		last := req.Messages[len(req.Messages)-1]
		return core.AssistantMessage(fmt.Sprintf("Mock response to: %s", last.Content)), nil
	}

	next := m.queue[0]
	m.queue = m.queue[1:]
	return next, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
