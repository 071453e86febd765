package config

import "fmt"

// ParseError is returned when a config file cannot be decoded.
type ParseError struct {
	Path  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse config file %s: %v", e.Path, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// FileNotFoundError is returned when an explicitly requested config file is missing.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("config file %s does not exist", e.Path)
}
