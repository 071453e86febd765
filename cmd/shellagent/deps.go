package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/Cyclone1070/shellagent/internal/config"
	"github.com/Cyclone1070/shellagent/internal/provider"
	"github.com/Cyclone1070/shellagent/internal/provider/gemini"
	"github.com/Cyclone1070/shellagent/internal/provider/openai"
	"github.com/Cyclone1070/shellagent/internal/ui"
	"github.com/mattn/go-isatty"
)

// plainWrapWidth is the markdown wrap width when no terminal size is known.
const plainWrapWidth = 80

// Dependencies holds the components that differ between production and tests.
type Dependencies struct {
	LoadConfig      func(path string) (*config.Config, error)
	ProviderFactory func(ctx context.Context, cfg *config.Config, model string) (provider.Provider, error)
	RendererFactory func(out io.Writer, plain bool) ui.Renderer
}

func defaultDependencies() Dependencies {
	return Dependencies{
		LoadConfig:      loadConfig,
		ProviderFactory: createProvider,
		RendererFactory: createRenderer,
	}
}

// loadConfig reads an explicit config file, or the default locations when
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.NewLoader().LoadFrom(path)
	}
	return config.Load()
}

// createProvider picks the model adapter from the --model prefix.
func createProvider(ctx context.Context, cfg *config.Config, model string) (provider.Provider, error) {
	backend, id := provider.ParseModel(model)
	if id == "" {
		return nil, fmt.Errorf("invalid model %q", model)
	}

	switch backend {
	case provider.BackendGemini:
		if cfg.Provider.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required for gemini models")
		}
		client, err := gemini.NewClientFromAPIKey(ctx, cfg.Provider.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return gemini.New(client, id), nil

	default:
		return openai.New(openai.Options{
			BaseURL: cfg.Provider.OpenAIBaseURL,
			APIKey:  cfg.Provider.OpenAIAPIKey,
			Model:   id,
			Timeout: time.Duration(cfg.Provider.RequestTimeoutSeconds) * time.Second,
		})
	}
}

// createRenderer uses the TUI only when stdout is a terminal.
func createRenderer(out io.Writer, plain bool) ui.Renderer {
	tty := isTerminal(out)
	if plain || !tty {
		var md ui.MarkdownRenderer
		if tty {
			md = ui.NewGlamourRenderer()
		}
		return ui.NewPlainRenderer(out, md, plainWrapWidth)
	}
	return ui.NewTeaRenderer(ui.NewGlamourRenderer(), ui.DefaultSpinner)
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	if isatty.IsTerminal(f.Fd()) {
		return true
	}
	return runtime.GOOS == "windows" && isatty.IsCygwinTerminal(f.Fd())
}
