package toolmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Cyclone1070/shellagent/internal/provider"
	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/Cyclone1070/shellagent/internal/workflow"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

type ToolManager struct {
	registry map[string]toolImpl
}

func NewToolManager(tools ...toolImpl) *ToolManager {
	tm := &ToolManager{
		registry: make(map[string]toolImpl),
	}
	for _, t := range tools {
		tm.Register(t)
	}
	return tm
}

func (m *ToolManager) Register(t toolImpl) {
	m.registry[t.Name()] = t
}

func (m *ToolManager) Declarations() []tool.Declaration {
	decls := make([]tool.Declaration, 0, len(m.registry))
	for _, t := range m.registry {
		decls = append(decls, t.Declaration())
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Name < decls[j].Name
	})
	return decls
}

// Execute runs one tool call and returns the tool message for the conversation.
// An unknown tool name yields *UnsupportedToolError. Malformed arguments are
// reported back to the model as the tool result.
func (m *ToolManager) Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error) {
	t, ok := m.registry[tc.Function.Name]
	if !ok {
		return provider.Message{}, &UnsupportedToolError{Name: tc.Function.Name}
	}

	req := t.Input()
	if err := decodeArguments(t.Declaration(), tc.Function, req); err != nil {
		declJSON, _ := json.MarshalIndent(t.Declaration(), "", "  ")
		errMsg := fmt.Sprintf("Error: invalid arguments for tool %q: %v\n\nExpected schema:\n%s", tc.Function.Name, err, declJSON)

		logrus.WithError(err).WithField("tool", tc.Function.Name).Debug("Invalid tool arguments")

		if events != nil {
			events <- workflow.ToolStartEvent{
				ToolName:       tc.Function.Name,
				RequestDisplay: "",
			}
			events <- workflow.ToolEndEvent{
				ToolName: tc.Function.Name,
				Display:  tool.StringDisplay("Invalid tool request"),
			}
		}

		return toolMessage(tc, errMsg), nil
	}

	if events != nil {
		display := ""
		if s, ok := req.(fmt.Stringer); ok {
			display = s.String()
		}
		events <- workflow.ToolStartEvent{
			ToolName:       tc.Function.Name,
			RequestDisplay: display,
		}
	}

	res, err := t.Execute(ctx, req)
	if err != nil {
		// Per contract, tools only return errors for infrastructure issues (context cancellation)
		if events != nil {
			events <- workflow.ToolEndEvent{
				ToolName: tc.Function.Name,
				Display:  tool.StringDisplay("Cancelled"),
			}
		}
		return provider.Message{}, err
	}

	if events != nil {
		events <- workflow.ToolEndEvent{
			ToolName: tc.Function.Name,
			Display:  res.Display(),
		}
	}

	if err := ctx.Err(); err != nil {
		return provider.Message{}, err
	}

	return toolMessage(tc, res.LLMContent()), nil
}

func toolMessage(tc provider.ToolCall, content string) provider.Message {
	return provider.Message{
		Role:       provider.RoleTool,
		ToolCallID: tc.ID,
		Name:       tc.Function.Name,
		Content:    content,
	}
}

// decodeArguments checks required keys and decodes the argument map into out
// using the json struct tags.
func decodeArguments(decl tool.Declaration, fn provider.FunctionCall, out any) error {
	if fn.Arguments == nil {
		if fn.Raw != "" {
			return fmt.Errorf("arguments are not a JSON object: %s", fn.Raw)
		}
		return errors.New("arguments are missing")
	}

	if decl.Parameters != nil {
		for _, name := range decl.Parameters.Required {
			if _, ok := fn.Arguments[name]; !ok {
				return fmt.Errorf("missing required argument %q", name)
			}
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fn.Arguments)
}
