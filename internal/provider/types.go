// Package provider defines the conversation types shared by the agent loop
// and the model adapters.
package provider

import (
	"context"
	"strings"

	"github.com/Cyclone1070/shellagent/internal/tool"
)

// Role identifies who produced a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
	// ToolCalls is set on assistant messages that request tools.
	ToolCalls []ToolCall
	// ToolCallID and Name are set on tool messages.
	ToolCallID string
	Name       string
}

// IsFinal reports whether an assistant message is a final answer.
func (m *Message) IsFinal() bool {
	return len(m.ToolCalls) == 0
}

// ToolCall is a request from the model to run a named tool.
type ToolCall struct {
	ID       string
	Function FunctionCall
}

// FunctionCall names a tool and carries its decoded arguments.
type FunctionCall struct {
	Name      string
	Arguments map[string]any
	// Raw holds the undecoded argument text when the adapter received one.
	Raw string
}

// Provider produces the next assistant message for a conversation.
type Provider interface {
	Generate(ctx context.Context, messages []Message, tools []tool.Declaration) (*Message, error)
}

// Backend names a model adapter.
type Backend string

const (
	BackendOpenAI Backend = "openai"
	BackendGemini Backend = "gemini"
)

// ParseModel splits a --model value into a backend and the model id sent to it.
//
//	lm_studio/<id>, openai/<id> -> openai
//	gemini/<id>, gemini-*       -> gemini
//	anything else               -> openai, id unchanged
func ParseModel(model string) (Backend, string) {
	if prefix, id, ok := strings.Cut(model, "/"); ok {
		switch prefix {
		case "lm_studio", "openai":
			return BackendOpenAI, id
		case "gemini":
			return BackendGemini, id
		}
	}
	if strings.HasPrefix(model, "gemini-") {
		return BackendGemini, model
	}
	return BackendOpenAI, model
}
