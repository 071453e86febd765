//go:build !windows

package config

const (
	defaultInterpreter     = "sh"
	defaultInterpreterFlag = "-c"
)
