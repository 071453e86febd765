package config

import (
	"errors"
	"os"
	"testing"

	"github.com/Cyclone1070/shellagent/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

// MockEnv implements Environment for testing.
type MockEnv map[string]string

func (m MockEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// --- HAPPY PATH TESTS ---

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{},
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Agent.MaxIterations)
	assert.Equal(t, 30, cfg.Shell.TimeoutSeconds)
	assert.Equal(t, int64(1024*1024), cfg.Shell.MaxOutputBytes)
	assert.Equal(t, policy.DefaultPatterns, cfg.Policy.Deny)
	assert.Equal(t, DefaultOpenAIBaseURL, cfg.Provider.OpenAIBaseURL)
}

func TestLoad_YAMLOverride(t *testing.T) {
	configYAML := `
agent:
  max_iterations: 5
shell:
  timeout_seconds: 10
policy:
  deny: ["rm -rf", "shutdown"]
provider:
  openai_base_url: http://gpu-box:1234/v1
`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/shellagent/config.yaml": []byte(configYAML),
		},
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Agent.MaxIterations)
	assert.Equal(t, 10, cfg.Shell.TimeoutSeconds)
	assert.Equal(t, []string{"rm -rf", "shutdown"}, cfg.Policy.Deny)
	assert.Equal(t, "http://gpu-box:1234/v1", cfg.Provider.OpenAIBaseURL)
	// Untouched keys keep defaults
	assert.Equal(t, 500, cfg.Shell.GracefulShutdownMs)
	assert.Equal(t, 300, cfg.Provider.RequestTimeoutSeconds)
}

func TestLoad_JSONOverride(t *testing.T) {
	configJSON := `{"agent": {"max_iterations": 7}, "shell": {"max_output_bytes": 2048}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/shellagent/config.json": []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Agent.MaxIterations)
	assert.Equal(t, int64(2048), cfg.Shell.MaxOutputBytes)
	assert.Equal(t, 30, cfg.Shell.TimeoutSeconds)
}

func TestLoad_YAMLWinsOverJSON(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/shellagent/config.yaml": []byte("agent:\n  max_iterations: 3\n"),
			"/home/user/.config/shellagent/config.json": []byte(`{"agent": {"max_iterations": 9}}`),
		},
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Agent.MaxIterations)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/shellagent/config.yaml": []byte("agent:\n  max_iterations: 3\n"),
		},
	}
	env := MockEnv{
		EnvOpenAIBaseURL:  "http://127.0.0.1:9999/v1",
		EnvMaxIterations:  "12",
		EnvTimeoutSeconds: "4",
		EnvGeminiAPIKey:   "g-key",
	}
	loader := NewLoaderWithFS(fs, env)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Agent.MaxIterations)
	assert.Equal(t, 4, cfg.Shell.TimeoutSeconds)
	assert.Equal(t, "http://127.0.0.1:9999/v1", cfg.Provider.OpenAIBaseURL)
	assert.Equal(t, "g-key", cfg.Provider.GeminiAPIKey)
}

func TestLoad_EmptyEnvValueIgnored(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/user", Files: map[string][]byte{}}
	loader := NewLoaderWithFS(fs, MockEnv{EnvOpenAIBaseURL: ""})

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIBaseURL, cfg.Provider.OpenAIBaseURL)
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDirErr: errors.New("no home")}
	loader := NewLoaderWithFS(fs, MockEnv{})

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Agent.MaxIterations)
}

func TestLoadFrom_ExplicitPath(t *testing.T) {
	fs := &MockFileSystem{
		Files: map[string][]byte{
			"/etc/shellagent.yml": []byte("shell:\n  timeout_seconds: 90\n"),
		},
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	cfg, err := loader.LoadFrom("/etc/shellagent.yml")

	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Shell.TimeoutSeconds)
}

// --- ERROR TESTS ---

func TestLoadFrom_MissingFile(t *testing.T) {
	fs := &MockFileSystem{Files: map[string][]byte{}}
	loader := NewLoaderWithFS(fs, MockEnv{})

	_, err := loader.LoadFrom("/nope.yaml")

	var notFound *FileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/nope.yaml", notFound.Path)
}

func TestLoad_MalformedYAML(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/shellagent/config.yaml": []byte("agent: [unterminated"),
		},
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	_, err := loader.Load()

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Path, "config.yaml")
}

func TestLoad_MalformedJSON(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/shellagent/config.json": []byte(`{"agent": `),
		},
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	_, err := loader.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_ReadPermissionError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: os.ErrPermission,
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	_, err := loader.Load()

	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestLoad_InvalidEnvInteger(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/user", Files: map[string][]byte{}}
	loader := NewLoaderWithFS(fs, MockEnv{EnvMaxIterations: "lots"})

	_, err := loader.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), EnvMaxIterations)
}

func TestLoad_ValidationFailure(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/shellagent/config.yaml": []byte("agent:\n  max_iterations: 0\n"),
		},
	}
	loader := NewLoaderWithFS(fs, MockEnv{})

	_, err := loader.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_iterations")
}

func TestDefaultConfig_DenyListIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.Deny[0] = "changed"

	assert.Equal(t, "rm -rf", policy.DefaultPatterns[0])
}
