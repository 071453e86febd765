//go:build windows

package config

const (
	defaultInterpreter     = "cmd"
	defaultInterpreterFlag = "/C"
)
