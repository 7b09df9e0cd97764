package tool

import "fmt"

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrToolAlreadyRegistered is returned when registering a tool with a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

// Error returns a formatted error message including the duplicate tool name.
func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}

// ErrInvalidTool is returned by Registry.Validate for a malformed registration.
type ErrInvalidTool struct {
	Name   string
	Reason string
}

// Error returns a formatted error message including the tool name and reason.
func (e *ErrInvalidTool) Error() string {
	return fmt.Sprintf("tool: invalid %q: %s", e.Name, e.Reason)
}

// ErrInvalidArguments is returned when tool call arguments cannot be decoded
// or miss a required field.
type ErrInvalidArguments struct {
	Name string
	Err  error
}

// Error returns a formatted error message including the tool name and cause.
func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("tool: %s: invalid arguments: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ErrInvalidArguments) Unwrap() error {
	return e.Err
}
