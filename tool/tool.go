// Package tool implements the function calling subsystem: the Tool interface
// for structured capabilities and the Registry that declares tools to the
// model and dispatches its tool calls with schema validated arguments and
// consistent error handling.
package tool

import (
	"context"
	"fmt"

	"github.com/EllieNosrat/chat-with-bing/internal/schema"
)

// Tool defines a named capability the model can invoke during a chat turn.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Define a strict JSON schema for parameters
//   - Handle their own partial failures gracefully
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool
	// does. It is provided to the model to help it decide when to call.
	Description() string

	// Parameters returns a strict JSON schema describing the expected
	// arguments (see internal/schema).
	Parameters() map[string]any

	// Call executes the tool with already decoded and validated arguments.
	// The returned string is included verbatim as the tool result payload.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ValidationError represents parameter validation errors with detailed
// information.
type ValidationError = schema.ValidationError

// ToolError represents errors that occur during tool dispatch or execution.
// It is serialized into the tool result payload so the model can self-correct
// instead of the turn failing.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error codes used by the registry when reporting failures to the model.
const (
	CodeUnknownTool     = "UNKNOWN_TOOL"
	CodeMalformedArgs   = "MALFORMED_ARGUMENTS"
	CodeValidationError = "VALIDATION_ERROR"
	CodeExecutionError  = "EXECUTION_ERROR"
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
