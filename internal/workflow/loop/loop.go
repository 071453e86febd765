package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cyclone1070/shellagent/internal/provider"
	"github.com/Cyclone1070/shellagent/internal/workflow"
	"github.com/Cyclone1070/shellagent/internal/workflow/toolmanager"
	"github.com/sirupsen/logrus"
)

// Loop drives decide, execute and observe cycles until the model answers or
// the iteration cap is reached. A Loop may be reused; each Run owns its own
// conversation.
type Loop struct {
	provider      llmProvider
	tools         toolManager
	events        chan<- workflow.Event
	maxIterations int
	systemPrompt  string
}

func NewLoop(provider llmProvider, tools toolManager, events chan<- workflow.Event, maxIterations int, systemPrompt string) *Loop {
	if provider == nil {
		panic("provider is required")
	}
	if tools == nil {
		panic("tools is required")
	}
	if maxIterations < 1 {
		panic("maxIterations must be >= 1")
	}
	return &Loop{
		provider:      provider,
		tools:         tools,
		events:        events,
		maxIterations: maxIterations,
		systemPrompt:  systemPrompt,
	}
}

// Run executes one agent run for prompt. It returns a *Result on a final
// answer and a *Failure otherwise.
//
// Every executed tool call counts as one iteration, including calls batched
// in a single reply, so at most maxIterations commands run. A denied command
// still counts.
func (l *Loop) Run(ctx context.Context, prompt string) (*Result, error) {
	var messages []provider.Message
	if l.systemPrompt != "" {
		messages = append(messages, provider.Message{Role: provider.RoleSystem, Content: l.systemPrompt})
	}
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: prompt})

	decls := l.tools.Declarations()
	known := make(map[string]bool, len(decls))
	for _, d := range decls {
		known[d.Name] = true
	}

	fail := func(kind Kind, detail string, err error, iterations int) (*Result, error) {
		f := &Failure{
			Kind:         kind,
			Detail:       detail,
			Err:          err,
			Iterations:   iterations,
			Conversation: messages,
		}
		logrus.WithFields(logrus.Fields{
			"kind":       kind,
			"iterations": iterations,
		}).WithError(err).Debug("Agent run failed")
		l.emit(workflow.FailedEvent{Kind: string(kind), Err: f})
		return nil, f
	}

	counter := 0
	for counter < l.maxIterations {
		if err := ctx.Err(); err != nil {
			return fail(KindCancelled, "run cancelled", err, counter)
		}

		l.emit(workflow.ThinkingEvent{Iteration: counter + 1, Max: l.maxIterations})

		resp, err := l.provider.Generate(ctx, messages, decls)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return fail(KindCancelled, "run cancelled", err, counter)
			case provider.IsUnavailable(err):
				return fail(KindModelUnavailable, "model endpoint unavailable", err, counter)
			default:
				return fail(KindModelError, "model request failed", err, counter)
			}
		}
		if resp == nil {
			return fail(KindModelError, "model returned no message", provider.ErrInvalidResponse, counter)
		}
		resp.Role = provider.RoleAssistant

		messages = append(messages, *resp)

		if resp.Content != "" {
			l.emit(workflow.TextEvent{Text: resp.Content})
		}

		if resp.IsFinal() {
			logrus.WithField("iterations", counter).Debug("Agent run finished")
			l.emit(workflow.DoneEvent{Answer: resp.Content, Iterations: counter})
			return &Result{
				Answer:       resp.Content,
				Iterations:   counter,
				Conversation: messages,
			}, nil
		}

		// Reject the whole batch before running any of it.
		for _, tc := range resp.ToolCalls {
			if !known[tc.Function.Name] {
				err := &toolmanager.UnsupportedToolError{Name: tc.Function.Name}
				return fail(KindUnsupportedTool, fmt.Sprintf("model requested unknown tool %q", tc.Function.Name), err, counter)
			}
		}

		for i, tc := range resp.ToolCalls {
			if counter >= l.maxIterations {
				logrus.WithField("skipped", len(resp.ToolCalls)-i).Debug("Iteration cap reached mid-batch")
				break
			}

			toolResp, err := l.tools.Execute(ctx, tc, l.events)
			if err != nil {
				var unsupported *toolmanager.UnsupportedToolError
				switch {
				case errors.As(err, &unsupported):
					return fail(KindUnsupportedTool, fmt.Sprintf("model requested unknown tool %q", unsupported.Name), err, counter)
				case ctx.Err() != nil:
					return fail(KindCancelled, "run cancelled", err, counter)
				default:
					return fail(KindToolError, fmt.Sprintf("tool %q failed", tc.Function.Name), err, counter)
				}
			}
			messages = append(messages, toolResp)
			counter++
		}

		logrus.WithFields(logrus.Fields{
			"executed":   counter,
			"tool_calls": len(resp.ToolCalls),
		}).Debug("Agent iteration complete")
	}

	return fail(KindIterationLimitExceeded, fmt.Sprintf("max iterations (%d) reached", l.maxIterations), nil, counter)
}

func (l *Loop) emit(ev workflow.Event) {
	if l.events != nil {
		l.events <- ev
	}
}
