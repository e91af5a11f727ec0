package schema

// Luminance is the one built-in composite type the binder recognizes for
// fields of wire.TypeMessage: a grayscale image with a flat pixel buffer.
const Luminance = "Luminance"

// builtinReferences is the small library of referenced-type names the
// binder accepts for MESSAGE fields. Seeded with Luminance; new composite
// types would be added here, never invented ad hoc by a caller.
var builtinReferences = map[string]bool{
	Luminance: true,
}

// IsBuiltinReference reports whether name resolves against the built-in
// registry.
func IsBuiltinReference(name string) bool {
	return builtinReferences[name]
}

// LuminanceValue is the expected shape of a value bound to a Luminance
// field when projecting simulator state. A caller's state map supplies a
// *LuminanceValue (or anything satisfying the same field access via
// reflection, see pkg/state) under the field's name.
type LuminanceValue struct {
	Width  uint32
	Height uint32
	Pixels []byte
}
