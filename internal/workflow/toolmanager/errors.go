package toolmanager

import "fmt"

// UnsupportedToolError is returned when the model asks for a tool that is not registered.
type UnsupportedToolError struct {
	Name string
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("unsupported tool %q", e.Name)
}
