package state

import "fmt"

// Error is returned when a simulator-produced value cannot be coerced into
// a bound schema's field, or when a required field is missing.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return "state: " + e.Reason
	}
	return fmt.Sprintf("state: field %q %s", e.Field, e.Reason)
}

func missingField(name string) error {
	return &Error{Field: name, Reason: "not provided"}
}

func coercionError(name, expected string) error {
	return &Error{Field: name, Reason: "expected " + expected}
}
