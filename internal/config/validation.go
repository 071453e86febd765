package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	// Agent validation
	if c.Agent.MaxIterations < 1 {
		errs = append(errs, "agent.max_iterations must be >= 1")
	}

	// Shell validation
	if c.Shell.TimeoutSeconds < 1 {
		errs = append(errs, "shell.timeout_seconds must be >= 1")
	}
	if c.Shell.GracefulShutdownMs < 0 {
		errs = append(errs, "shell.graceful_shutdown_ms must be >= 0")
	}
	if c.Shell.MaxOutputBytes < 1 {
		errs = append(errs, "shell.max_output_bytes must be >= 1")
	}
	if strings.TrimSpace(c.Shell.Interpreter) == "" {
		errs = append(errs, "shell.interpreter must not be empty")
	}

	// Policy validation
	for i, p := range c.Policy.Deny {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("policy.deny[%d] must not be empty", i))
		}
	}

	// Provider validation
	if c.Provider.OpenAIBaseURL != "" {
		u, err := url.Parse(c.Provider.OpenAIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, "provider.openai_base_url must be an absolute URL")
		}
	}
	if c.Provider.RequestTimeoutSeconds < 1 {
		errs = append(errs, "provider.request_timeout_seconds must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
