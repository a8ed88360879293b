package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EllieNosrat/chat-with-bing/core"
	"github.com/EllieNosrat/chat-with-bing/internal/schema"
	"github.com/EllieNosrat/chat-with-bing/logging"
	"github.com/EllieNosrat/chat-with-bing/model"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// Registry is the static declarative description of the tools available to
// the orchestrator: a name-to-handler dispatch table plus the strict
// declarations presented to the model. Registration happens at setup time;
// after that the registry is read-only and safe for concurrent use.
type Registry struct {
	tools  map[string]Tool
	order  []string // registration order, kept stable for declarations
	logger logging.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{tools: make(map[string]Tool), logger: opts.Logger}
}

// Register adds a tool. Re-registering a name replaces the handler but keeps
// its original declaration position.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Definitions emits the strict tool declarations sent to the model backend,
// one per registered tool, in registration order.
func (r *Registry) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Strict:      true,
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// Dispatch executes one model-requested tool call and always produces the
// matching tool result message. Unknown tool names, malformed arguments,
// schema mismatches and execution failures are reported as error payloads in
// the result content so the model can correct itself; they never fail the
// turn.
func (r *Registry) Dispatch(ctx context.Context, call core.ToolCall) core.Message {
	t, ok := r.tools[call.Name]
	if !ok {
		r.logger.Warn("tool.dispatch.unknown", "tool", call.Name, "tool_call_id", call.ID)
		return errorResult(call, NewToolError(call.Name, "unknown tool", CodeUnknownTool))
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		r.logger.Warn("tool.dispatch.malformed_arguments", "tool", call.Name, "error", err.Error())
		return errorResult(call, NewToolError(call.Name, fmt.Sprintf("arguments are not a JSON object: %v", err), CodeMalformedArgs))
	}

	if err := schema.Validate(args, t.Parameters()); err != nil {
		r.logger.Warn("tool.dispatch.validation_failed", "tool", call.Name, "error", err.Error())
		return errorResult(call, NewToolError(call.Name, fmt.Sprintf("parameter validation failed: %v", err), CodeValidationError))
	}

	r.logger.Debug("tool.call.start", "tool", call.Name, "tool_call_id", call.ID)
	start := time.Now()

	result, err := t.Call(ctx, args)
	if err != nil {
		r.logger.Error("tool.call.error", "tool", call.Name, "error", err.Error())
		if toolErr, ok := err.(*ToolError); ok {
			return errorResult(call, toolErr)
		}
		return errorResult(call, NewToolError(call.Name, err.Error(), CodeExecutionError))
	}

	r.logger.Info("tool.call.success", "tool", call.Name, "duration_ms", time.Since(start).Milliseconds())
	return core.ToolMessage(call.ID, result)
}

// errorResult encodes a ToolError as the tool result payload. Falling back to
// the plain error string keeps the loop alive even if marshaling fails.
func errorResult(call core.ToolCall, toolErr *ToolError) core.Message {
	payload, err := json.Marshal(map[string]string{"error": toolErr.Error()})
	if err != nil {
		return core.ToolMessage(call.ID, "error: "+toolErr.Message)
	}
	return core.ToolMessage(call.ID, string(payload))
}
