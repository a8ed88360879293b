package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EllieNosrat/chat-with-bing/core"
	"github.com/EllieNosrat/chat-with-bing/internal/schema"
)

type echoArgs struct {
	Text string `json:"text" description:"Text to echo back"`
}

// echoTool is a minimal test tool.
type echoTool struct {
	err error
}

func (e *echoTool) Name() string               { return "echo" }
func (e *echoTool) Description() string        { return "Echo the given text" }
func (e *echoTool) Parameters() map[string]any { return schema.FromStruct(echoArgs{}) }

func (e *echoTool) Call(_ context.Context, args map[string]any) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return args["text"].(string), nil
}

func TestRegistryDefinitionsAreStrict(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{})

	defs := r.Definitions()
	assert.Len(t, defs, 1)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "echo", defs[0].Function.Name)
	assert.True(t, defs[0].Function.Strict)
	assert.Equal(t, false, defs[0].Function.Parameters["additionalProperties"])
}

func TestDispatchSuccess(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{})

	msg := r.Dispatch(context.Background(), core.ToolCall{ID: "call_1", Name: "echo", Arguments: `{"text":"hello"}`})
	assert.Equal(t, core.RoleTool, msg.Role)
	assert.Equal(t, "call_1", msg.ToolCallID)
	assert.Equal(t, "hello", msg.Content)
}

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry()

	msg := r.Dispatch(context.Background(), core.ToolCall{ID: "call_1", Name: "nope", Arguments: `{}`})
	assert.Equal(t, "call_1", msg.ToolCallID)
	assert.Contains(t, msg.Content, "UNKNOWN_TOOL")
}

func TestDispatchMalformedArguments(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{})

	msg := r.Dispatch(context.Background(), core.ToolCall{ID: "call_2", Name: "echo", Arguments: `not json`})
	assert.Equal(t, "call_2", msg.ToolCallID)
	assert.Contains(t, msg.Content, "MALFORMED_ARGUMENTS")
}

func TestDispatchValidationFailure(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{})

	// Undeclared field must be rejected by the strict schema.
	msg := r.Dispatch(context.Background(), core.ToolCall{ID: "call_3", Name: "echo", Arguments: `{"text":"x","extra":true}`})
	assert.Contains(t, msg.Content, "VALIDATION_ERROR")

	msg = r.Dispatch(context.Background(), core.ToolCall{ID: "call_4", Name: "echo", Arguments: `{}`})
	assert.Contains(t, msg.Content, "VALIDATION_ERROR")
}

func TestDispatchExecutionError(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{err: errors.New("backend exploded")})

	msg := r.Dispatch(context.Background(), core.ToolCall{ID: "call_5", Name: "echo", Arguments: `{"text":"x"}`})
	assert.Equal(t, "call_5", msg.ToolCallID)
	assert.Contains(t, msg.Content, "EXECUTION_ERROR")
	assert.Contains(t, msg.Content, "backend exploded")
}

func TestRegisterKeepsDeclarationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{})
	r.Register(&echoTool{}) // re-register, position must not change
	assert.Equal(t, []string{"echo"}, r.Names())
}
