package openai

import (
	"encoding/json"

	"github.com/Cyclone1070/shellagent/internal/provider"
	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/google/uuid"
	goopenai "github.com/sashabaranov/go-openai"
)

func toChatMessages(messages []provider.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		cm := goopenai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
			Name:       msg.Name,
		}
		for _, tc := range msg.ToolCalls {
			args := tc.Function.Raw
			if args == "" {
				b, _ := json.Marshal(tc.Function.Arguments)
				args = string(b)
			}
			cm.ToolCalls = append(cm.ToolCalls, goopenai.ToolCall{
				ID:   tc.ID,
				Type: goopenai.ToolTypeFunction,
				Function: goopenai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: args,
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func toChatTools(decls []tool.Declaration) []goopenai.Tool {
	if len(decls) == 0 {
		return nil
	}
	tools := make([]goopenai.Tool, 0, len(decls))
	for _, d := range decls {
		tools = append(tools, goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return tools
}

// fromChatMessage converts the assistant reply. Arguments that are not a JSON
// object leave Arguments nil and keep the text in Raw so the tool layer can
// report it back to the model.
func fromChatMessage(cm goopenai.ChatCompletionMessage) *provider.Message {
	msg := &provider.Message{
		Role:    provider.RoleAssistant,
		Content: cm.Content,
	}
	for _, tc := range cm.ToolCalls {
		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		call := provider.ToolCall{
			ID: id,
			Function: provider.FunctionCall{
				Name: tc.Function.Name,
				Raw:  tc.Function.Arguments,
			},
		}
		if tc.Function.Arguments == "" {
			call.Function.Arguments = map[string]any{}
		} else {
			var args map[string]any
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err == nil && args != nil {
				call.Function.Arguments = args
			}
		}
		msg.ToolCalls = append(msg.ToolCalls, call)
	}
	return msg
}
