package gemini

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/shellagent/internal/provider"
	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// toGeminiContents splits out system messages and converts the rest.
// Consecutive tool results are merged into one user content, which is how
// Gemini expects parallel function responses.
func toGeminiContents(messages []provider.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case provider.RoleSystem:
			if msg.Content != "" {
				system = append(system, msg.Content)
			}
			continue
		case provider.RoleTool:
			part := &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:   msg.ToolCallID,
					Name: msg.Name,
					Response: map[string]any{
						"output": msg.Content,
					},
				},
			}
			if n := len(contents); n > 0 && isFunctionResponseContent(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{part}})
			continue
		}

		content := messageToGeminiContent(msg)
		if content != nil {
			contents = append(contents, content)
		}
	}

	return strings.Join(system, "\n\n"), contents
}

func isFunctionResponseContent(c *genai.Content) bool {
	return c.Role == "user" && len(c.Parts) > 0 && c.Parts[0].FunctionResponse != nil
}

// messageToGeminiContent converts a user or assistant message.
func messageToGeminiContent(msg provider.Message) *genai.Content {
	role := "user"
	if msg.Role == provider.RoleAssistant {
		role = "model"
	}

	parts := make([]*genai.Part, 0)

	if msg.Content != "" {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}

	for _, tc := range msg.ToolCalls {
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: tc.Function.Arguments,
			},
		})
	}

	// Skip empty messages
	if len(parts) == 0 {
		return nil
	}

	return &genai.Content{
		Role:  role,
		Parts: parts,
	}
}

// toGeminiConfig builds the request config with an optional system instruction.
func toGeminiConfig(system string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SafetySettings: defaultSafetySettings(),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(system)},
		}
	}
	return config
}

// defaultSafetySettings returns safety settings with BLOCK_NONE for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// toGeminiTools converts tool declarations to Gemini tools.
func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}

	functionDeclarations := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		functionDeclarations = append(functionDeclarations, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  toGeminiSchema(d.Parameters),
		})
	}

	return []*genai.Tool{
		{FunctionDeclarations: functionDeclarations},
	}
}

// toGeminiSchema converts a tool schema recursively.
func toGeminiSchema(s *tool.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	schema := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGeminiSchema(s.Items),
	}

	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = toGeminiSchema(prop)
		}
	}

	return schema
}

// toGeminiType converts a schema type to a Gemini Type.
func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeString:
		return genai.TypeString
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse converts a Gemini response to an assistant message.
func fromGeminiResponse(resp *genai.GenerateContentResponse) (*provider.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeInvalidResp,
			Message: "no candidates in response",
		}
	}

	candidate := resp.Candidates[0]

	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeContentBlocked,
			Message: "content blocked by safety filters",
		}
	}

	msg := &provider.Message{Role: provider.RoleAssistant}
	if candidate.Content == nil {
		if candidate.FinishReason == genai.FinishReasonMaxTokens {
			return nil, &provider.ProviderError{
				Code:    provider.ErrorCodeContextLength,
				Message: "response truncated due to max tokens",
			}
		}
		return msg, nil
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			id := part.FunctionCall.ID
			if id == "" {
				// Tool results are matched by ID.
				id = uuid.NewString()
			}
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			msg.ToolCalls = append(msg.ToolCalls, provider.ToolCall{
				ID: id,
				Function: provider.FunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: args,
				},
			})
			continue
		}
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	msg.Content = text.String()

	return msg, nil
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeAuth,
				Message:    "authentication failed",
				Underlying: err,
			}
		case 429:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeRateLimit,
				Message:    "rate limit exceeded",
				Underlying: err,
			}
		case 400:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeInvalidRequest,
				Message:    fmt.Sprintf("invalid request: %s", apiErr.Message),
				Underlying: err,
			}
		case 404:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeInvalidModel,
				Message:    fmt.Sprintf("model not found: %s", apiErr.Message),
				Underlying: err,
			}
		case 500, 502, 503, 504:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeUnavailable,
				Message:    "service unavailable",
				Underlying: err,
			}
		default:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeInvalidRequest,
				Message:    fmt.Sprintf("API error: %s", apiErr.Message),
				Underlying: err,
			}
		}
	}

	// Generic network error
	return &provider.ProviderError{
		Code:       provider.ErrorCodeNetwork,
		Message:    "network error",
		Underlying: err,
	}
}
