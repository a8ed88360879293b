package core

// Conversation roles understood by the model backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a tool invocation requested by the model. The ID is assigned by
// the model backend and must be echoed back verbatim on the matching tool
// result message, Name must match a registered tool and Arguments is a
// JSON-encoded object conforming to that tool's declared parameter schema.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one entry of a conversation transcript. Content carries the text
// payload for system/user/assistant messages and the serialized tool result
// for tool messages. ToolCalls is populated only on assistant messages that
// request tool use; ToolCallID only on tool messages, correlating the result
// back to the originating call.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// HasToolCalls reports whether the message requests at least one tool
// invocation. An assistant message without tool calls is a final answer.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// SystemMessage builds a system instruction message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// UserMessage builds a user message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage builds a plain assistant message without tool calls.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// ToolMessage builds a tool result message correlated to the originating
// call via toolCallID.
func ToolMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, ToolCallID: toolCallID, Content: content}
}
