package schema

import "fmt"

// BindError is returned when a descriptor references a type the built-in
// registry does not recognize. It is fatal to the session.
type BindError struct {
	DescriptorName string
	ReferenceName  string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("schema: descriptor %q references unknown type %q", e.DescriptorName, e.ReferenceName)
}
