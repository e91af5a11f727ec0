// Package schema builds typed in-memory record layouts ("schemas") from the
// descriptors the backend sends at registration and set-properties, and
// memoizes them by structural fingerprint so identical descriptors always
// resolve to the same runtime type.
package schema

import "github.com/brainlink/simlink/pkg/wire"

// Field is a single bound field within a Schema, carrying everything
// pkg/state needs to coerce a value in or out of it.
type Field struct {
	Name          string
	Number        uint32
	Type          wire.PrimitiveType
	ReferenceName string // set when Type == wire.TypeMessage
}

// Schema is the runtime layout produced by binding a wire.Descriptor. It is
// immutable after construction and safe to share across sessions.
type Schema struct {
	Name        string
	Fields      []Field
	Fingerprint uint64
}

// FieldByName returns the field with the given name, or false if absent.
func (s *Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
