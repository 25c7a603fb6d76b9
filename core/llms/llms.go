package llms

import "context"

// Role describes who a transcript message is from.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single entry in the conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
	// ToolCall carries the call the assistant requested (assistant role), or
	// the call a tool result responds to (tool role).
	ToolCall *ToolCall `json:"tool_call,omitempty"`
}

// ToolCall is a function invocation requested by the model. Arguments is the
// raw JSON string exactly as the model produced it.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
	Tools       []Tool
}

// Response is a single completion. Either Content or ToolCall is set; a tool
// call takes precedence over any accompanying content.
type Response struct {
	Content  string
	ToolCall *ToolCall
}

// Client is a chat completion backend.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
