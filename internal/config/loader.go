package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "shellagent"
)

// ConfigFiles are tried in order; the first one that exists wins.
var ConfigFiles = []string{"config.yaml", "config.yml", "config.json"}

// Environment variables read after the config file.
const (
	EnvOpenAIBaseURL  = "LM_STUDIO_API_BASE"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvMaxIterations  = "SHELLAGENT_MAX_ITERATIONS"
	EnvTimeoutSeconds = "SHELLAGENT_TIMEOUT_SECONDS"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// Environment abstracts environment lookups for testability
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// ConfigFileReader implements FileSystem and Environment using the real OS
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (ConfigFileReader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs  FileSystem
	env Environment
}

// NewLoader creates a production Loader using the real filesystem and environment
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}, env: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem and environment (for testing)
func NewLoaderWithFS(fs FileSystem, env Environment) *Loader {
	return &Loader{fs: fs, env: env}
}

// Load reads configuration from ~/.config/shellagent/config.{yaml,yml,json},
// merges it with defaults and applies environment overrides.
// Returns default config if no dotfile exists.
// Returns error only for parse errors, permission issues, or validation failures.
//
// NOTE: Files are decoded directly over the default configuration, so
// explicit zero values in the file override defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	homeDir, err := l.fs.UserHomeDir()
	if err == nil {
		for _, name := range ConfigFiles {
			path := filepath.Join(homeDir, ".config", ConfigDir, name)
			found, err := l.decodeFile(path, cfg)
			if err != nil {
				return nil, err
			}
			if found {
				break
			}
		}
	}

	return l.finish(cfg)
}

// LoadFrom reads configuration from an explicit path. Unlike Load, a missing
// file is an error.
func (l *Loader) LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	found, err := l.decodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &FileNotFoundError{Path: path}
	}

	return l.finish(cfg)
}

func (l *Loader) finish(cfg *Config) (*Config, error) {
	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decodeFile decodes path over cfg. It reports false when the file does not exist.
func (l *Loader) decodeFile(path string, cfg *Config) (bool, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return true, &ParseError{Path: path, Cause: err}
	}
	return true, nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	if l.env == nil {
		return nil
	}

	if v, ok := l.env.LookupEnv(EnvOpenAIBaseURL); ok && v != "" {
		cfg.Provider.OpenAIBaseURL = v
	}
	if v, ok := l.env.LookupEnv(EnvOpenAIAPIKey); ok && v != "" {
		cfg.Provider.OpenAIAPIKey = v
	}
	if v, ok := l.env.LookupEnv(EnvGeminiAPIKey); ok && v != "" {
		cfg.Provider.GeminiAPIKey = v
	}
	if v, ok := l.env.LookupEnv(EnvMaxIterations); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxIterations, err)
		}
		cfg.Agent.MaxIterations = n
	}
	if v, ok := l.env.LookupEnv(EnvTimeoutSeconds); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeoutSeconds, err)
		}
		cfg.Shell.TimeoutSeconds = n
	}
	return nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
