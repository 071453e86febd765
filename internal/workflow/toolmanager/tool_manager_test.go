package toolmanager

import (
	"context"
	"testing"

	"github.com/Cyclone1070/shellagent/internal/provider"
	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/Cyclone1070/shellagent/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResult struct {
	llmContent string
	display    tool.ToolDisplay
}

func (m *mockResult) LLMContent() string        { return m.llmContent }
func (m *mockResult) Display() tool.ToolDisplay { return m.display }

type mockInput struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func (m *mockInput) String() string { return m.Value }

type mockTool struct {
	name        string
	declaration tool.Declaration
	executeFunc func(ctx context.Context, input any) (tool.Result, error)
}

func (m *mockTool) Name() string                  { return m.name }
func (m *mockTool) Declaration() tool.Declaration { return m.declaration }
func (m *mockTool) Input() any                    { return &mockInput{} }
func (m *mockTool) Execute(ctx context.Context, input any) (tool.Result, error) {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, input)
	}
	return &mockResult{llmContent: "ok", display: tool.StringDisplay("ok")}, nil
}

func valueTool(executeFunc func(ctx context.Context, input any) (tool.Result, error)) *mockTool {
	return &mockTool{
		name: "echo",
		declaration: tool.Declaration{
			Name: "echo",
			Parameters: &tool.Schema{
				Type:       tool.TypeObject,
				Properties: map[string]*tool.Schema{"value": {Type: tool.TypeString}, "count": {Type: tool.TypeInteger}},
				Required:   []string{"value"},
			},
		},
		executeFunc: executeFunc,
	}
}

func drain(events chan workflow.Event) []workflow.Event {
	var out []workflow.Event
	for {
		select {
		case e := <-events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestRegister_AddsTool(t *testing.T) {
	tm := NewToolManager()
	mt := &mockTool{name: "test-tool", declaration: tool.Declaration{Name: "test-tool"}}
	tm.Register(mt)

	decls := tm.Declarations()
	assert.Len(t, decls, 1)
	assert.Equal(t, "test-tool", decls[0].Name)
}

func TestRegister_DuplicateName(t *testing.T) {
	tm := NewToolManager()
	mt1 := &mockTool{name: "test-tool", declaration: tool.Declaration{Name: "test-tool", Description: "v1"}}
	mt2 := &mockTool{name: "test-tool", declaration: tool.Declaration{Name: "test-tool", Description: "v2"}}

	tm.Register(mt1)
	tm.Register(mt2)

	decls := tm.Declarations()
	assert.Len(t, decls, 1)
	assert.Equal(t, "v2", decls[0].Description)
}

func TestDeclarations_SortedByName(t *testing.T) {
	tm := NewToolManager(
		&mockTool{name: "z", declaration: tool.Declaration{Name: "z"}},
		&mockTool{name: "a", declaration: tool.Declaration{Name: "a"}},
		&mockTool{name: "m", declaration: tool.Declaration{Name: "m"}},
	)

	decls := tm.Declarations()
	require.Len(t, decls, 3)
	assert.Equal(t, "a", decls[0].Name)
	assert.Equal(t, "m", decls[1].Name)
	assert.Equal(t, "z", decls[2].Name)
}

func TestExecute_Success(t *testing.T) {
	var got *mockInput
	tm := NewToolManager(valueTool(func(ctx context.Context, input any) (tool.Result, error) {
		got = input.(*mockInput)
		return &mockResult{llmContent: "echoed", display: tool.StringDisplay("echoed")}, nil
	}))
	events := make(chan workflow.Event, 10)

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		ID:       "call_1",
		Function: provider.FunctionCall{Name: "echo", Arguments: map[string]any{"value": "hi", "count": "3"}},
	}, events)

	require.NoError(t, err)
	assert.Equal(t, "hi", got.Value)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, provider.Message{Role: provider.RoleTool, ToolCallID: "call_1", Name: "echo", Content: "echoed"}, msg)

	evs := drain(events)
	require.Len(t, evs, 2)
	assert.Equal(t, workflow.ToolStartEvent{ToolName: "echo", RequestDisplay: "hi"}, evs[0])
	assert.Equal(t, workflow.ToolEndEvent{ToolName: "echo", Display: tool.StringDisplay("echoed")}, evs[1])
}

func TestExecute_UnknownTool(t *testing.T) {
	tm := NewToolManager(valueTool(nil))
	events := make(chan workflow.Event, 10)

	_, err := tm.Execute(context.Background(), provider.ToolCall{
		Function: provider.FunctionCall{Name: "delete_everything", Arguments: map[string]any{}},
	}, events)

	var unsupported *UnsupportedToolError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "delete_everything", unsupported.Name)
	assert.Empty(t, drain(events))
}

func TestExecute_MissingRequiredArgument(t *testing.T) {
	called := false
	tm := NewToolManager(valueTool(func(ctx context.Context, input any) (tool.Result, error) {
		called = true
		return &mockResult{}, nil
	}))

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		ID:       "c",
		Function: provider.FunctionCall{Name: "echo", Arguments: map[string]any{"count": 1}},
	}, nil)

	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, msg.Content, `missing required argument "value"`)
	assert.Contains(t, msg.Content, "Expected schema:")
	assert.Equal(t, "c", msg.ToolCallID)
}

func TestExecute_UnparseableRawArguments(t *testing.T) {
	tm := NewToolManager(valueTool(nil))
	events := make(chan workflow.Event, 10)

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		Function: provider.FunctionCall{Name: "echo", Raw: "{value: hi"},
	}, events)

	require.NoError(t, err)
	assert.Contains(t, msg.Content, "arguments are not a JSON object: {value: hi")
	evs := drain(events)
	require.Len(t, evs, 2)
	assert.Equal(t, workflow.ToolEndEvent{ToolName: "echo", Display: tool.StringDisplay("Invalid tool request")}, evs[1])
}

func TestExecute_WrongArgumentType(t *testing.T) {
	tm := NewToolManager(valueTool(nil))

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		Function: provider.FunctionCall{Name: "echo", Arguments: map[string]any{"value": []any{"a", "b"}}},
	}, nil)

	require.NoError(t, err)
	assert.Contains(t, msg.Content, `invalid arguments for tool "echo"`)
}

func TestExecute_ToolErrorPropagates(t *testing.T) {
	tm := NewToolManager(valueTool(func(ctx context.Context, input any) (tool.Result, error) {
		return nil, context.Canceled
	}))
	events := make(chan workflow.Event, 10)

	_, err := tm.Execute(context.Background(), provider.ToolCall{
		Function: provider.FunctionCall{Name: "echo", Arguments: map[string]any{"value": "x"}},
	}, events)

	assert.ErrorIs(t, err, context.Canceled)
	evs := drain(events)
	require.Len(t, evs, 2)
	assert.Equal(t, workflow.ToolEndEvent{ToolName: "echo", Display: tool.StringDisplay("Cancelled")}, evs[1])
}

func TestExecute_CancelledAfterTool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tm := NewToolManager(valueTool(func(ctx context.Context, input any) (tool.Result, error) {
		cancel()
		return &mockResult{llmContent: "late", display: tool.StringDisplay("late")}, nil
	}))

	_, err := tm.Execute(ctx, provider.ToolCall{
		Function: provider.FunctionCall{Name: "echo", Arguments: map[string]any{"value": "x"}},
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}
