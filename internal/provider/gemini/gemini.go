package gemini

import (
	"context"

	"github.com/Cyclone1070/shellagent/internal/provider"
	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/sirupsen/logrus"
)

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client    GeminiClient
	modelName string
}

// New creates a new GeminiProvider with the specified client and model.
func New(client GeminiClient, modelName string) *GeminiProvider {
	if client == nil {
		panic("client is required")
	}
	return &GeminiProvider{
		client:    client,
		modelName: modelName,
	}
}

// Model returns the active model name.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Generate sends the conversation to Gemini and returns the reply.
func (p *GeminiProvider) Generate(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Message, error) {
	system, contents := toGeminiContents(messages)

	config := toGeminiConfig(system)
	if len(tools) > 0 {
		config.Tools = toGeminiTools(tools)
	}

	logrus.WithFields(logrus.Fields{
		"model":    p.modelName,
		"contents": len(contents),
	}).Debug("Sending Gemini request")

	resp, err := p.client.GenerateContent(ctx, p.modelName, contents, config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, mapGeminiError(err)
	}

	return fromGeminiResponse(resp)
}
