package driver

import "fmt"

// EmptyMessageError is raised when a null/empty incoming message arrives
// while the driver expects one (Registering or Active).
type EmptyMessageError struct {
	Expected string
}

func (e *EmptyMessageError) Error() string {
	return fmt.Sprintf("driver: expected a %s message but received nothing", e.Expected)
}

// MalformedMessageError is raised when a required sub-payload is missing
// from an otherwise well-typed message.
type MalformedMessageError struct {
	Field   string
	Message string
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("driver: missing %s in %s", e.Field, e.Message)
}

// UnexpectedMessageError is raised when an incoming type is not allowed in
// the driver's current state.
type UnexpectedMessageError struct {
	State   State
	Got     string
	Allowed []string
}

func (e *UnexpectedMessageError) Error() string {
	return fmt.Sprintf("driver: unexpected %s message in state %s (allowed: %v)", e.Got, e.State, e.Allowed)
}
