// Package openai talks to OpenAI-compatible chat completion servers such as
// LM Studio.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Cyclone1070/shellagent/internal/provider"
	"github.com/Cyclone1070/shellagent/internal/tool"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Options configures a Provider.
type Options struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Provider implements provider.Provider with the go-openai client.
type Provider struct {
	baseURL string
	model   string
	client  *goopenai.Client
}

// New creates a Provider. BaseURL and Model are required.
func New(opts Options) (*Provider, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("openai: base URL is required")
	}
	if opts.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	cfg := goopenai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = baseURL
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	} else {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Provider{
		baseURL: baseURL,
		model:   opts.Model,
		client:  goopenai.NewClientWithConfig(cfg),
	}, nil
}

// Model returns the model id sent with every request.
func (p *Provider) Model() string {
	return p.model
}

// Generate sends the conversation to /chat/completions and returns the reply.
func (p *Provider) Generate(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Message, error) {
	req := goopenai.ChatCompletionRequest{
		Model:    p.model,
		Messages: toChatMessages(messages),
		Tools:    toChatTools(tools),
	}
	if len(req.Tools) > 0 {
		req.ToolChoice = "auto"
	}

	logrus.WithFields(logrus.Fields{
		"base_url": p.baseURL,
		"model":    p.model,
		"messages": len(messages),
	}).Debug("Sending chat completion request")

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, p.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeInvalidResp,
			Message: "no choices in response",
		}
	}

	choice := resp.Choices[0]
	msg := fromChatMessage(choice.Message)

	logrus.WithFields(logrus.Fields{
		"finish_reason": choice.FinishReason,
		"tool_calls":    len(msg.ToolCalls),
	}).Debug("Received chat completion")

	return msg, nil
}

// mapError classifies a go-openai error. Transport failures mean the server
// was never reached; anything else without an HTTP status is an answer that
// could not be decoded.
func (p *Provider) mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return mapStatusError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return mapStatusError(reqErr.HTTPStatusCode, http.StatusText(reqErr.HTTPStatusCode), err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    fmt.Sprintf("cannot reach %s", p.baseURL),
			Underlying: err,
		}
	}

	return &provider.ProviderError{
		Code:       provider.ErrorCodeInvalidResp,
		Message:    "response could not be decoded",
		Underlying: err,
	}
}

// mapStatusError maps a non-2xx response to a provider error.
func mapStatusError(status int, detail string, cause error) error {
	underlying := fmt.Errorf("HTTP %d: %s: %w", status, detail, cause)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &provider.ProviderError{Code: provider.ErrorCodeAuth, Message: "authentication failed", Underlying: underlying}
	case status == http.StatusTooManyRequests:
		return &provider.ProviderError{Code: provider.ErrorCodeRateLimit, Message: "rate limit exceeded", Underlying: underlying}
	case status == http.StatusNotFound:
		return &provider.ProviderError{Code: provider.ErrorCodeInvalidModel, Message: "model or endpoint not found", Underlying: underlying}
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return &provider.ProviderError{Code: provider.ErrorCodeTimeout, Message: "request timed out", Underlying: underlying}
	case status >= 500:
		return &provider.ProviderError{Code: provider.ErrorCodeUnavailable, Message: "service unavailable", Underlying: underlying}
	default:
		return &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "invalid request", Underlying: underlying}
	}
}
