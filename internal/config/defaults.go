package config

import "github.com/Cyclone1070/shellagent/internal/policy"

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile,
// then environment, then command-line flags.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Agent    AgentConfig    `json:"agent" yaml:"agent"`
	Shell    ShellConfig    `json:"shell" yaml:"shell"`
	Policy   PolicyConfig   `json:"policy" yaml:"policy"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
}

type AgentConfig struct {
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"` // Default: 40
}

type ShellConfig struct {
	TimeoutSeconds     int    `json:"timeout_seconds" yaml:"timeout_seconds"`           // Default: 30
	GracefulShutdownMs int    `json:"graceful_shutdown_ms" yaml:"graceful_shutdown_ms"` // Default: 500
	MaxOutputBytes     int64  `json:"max_output_bytes" yaml:"max_output_bytes"`         // Default: 1024 * 1024 (1MB)
	Interpreter        string `json:"interpreter" yaml:"interpreter"`                   // Default: "sh" ("cmd" on Windows)
	InterpreterFlag    string `json:"interpreter_flag" yaml:"interpreter_flag"`         // Default: "-c" ("/C" on Windows)
}

// PolicyConfig holds the command denylist. Patterns are matched as
// case-insensitive substrings in declaration order.
type PolicyConfig struct {
	Deny []string `json:"deny" yaml:"deny"`
}

type ProviderConfig struct {
	OpenAIBaseURL         string `json:"openai_base_url" yaml:"openai_base_url"`                 // Default: http://localhost:1234/v1 (LM Studio)
	OpenAIAPIKey          string `json:"openai_api_key" yaml:"openai_api_key"`                   // Default: "" (local servers ignore it)
	GeminiAPIKey          string `json:"gemini_api_key" yaml:"gemini_api_key"`                   // Default: "" (read from GEMINI_API_KEY)
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" yaml:"request_timeout_seconds"` // Default: 300
}

// DefaultOpenAIBaseURL is the endpoint of a local LM Studio server.
const DefaultOpenAIBaseURL = "http://localhost:1234/v1"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			MaxIterations: 40,
		},
		Shell: ShellConfig{
			TimeoutSeconds:     30,
			GracefulShutdownMs: 500,
			MaxOutputBytes:     1024 * 1024,
			Interpreter:        defaultInterpreter,
			InterpreterFlag:    defaultInterpreterFlag,
		},
		Policy: PolicyConfig{
			Deny: append([]string(nil), policy.DefaultPatterns...),
		},
		Provider: ProviderConfig{
			OpenAIBaseURL:         DefaultOpenAIBaseURL,
			RequestTimeoutSeconds: 300,
		},
	}
}
