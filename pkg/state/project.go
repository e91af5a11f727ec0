// Package state coerces the {field-name -> value} map a simulator produces
// (or predictions/properties decoded off the wire) to and from the bytes of
// a bound schema, per field in declaration order.
package state

import (
	"fmt"
	"reflect"

	"github.com/brainlink/simlink/pkg/schema"
	"github.com/brainlink/simlink/pkg/wire"
)

// Project serializes mapping into bytes conforming to schema, walking
// schema.Fields in declaration order. Missing keys produce an *Error;
// extra keys in mapping are ignored.
func Project(s *schema.Schema, mapping map[string]any) ([]byte, error) {
	e := wire.NewEncoder()
	for _, f := range s.Fields {
		v, ok := mapping[f.Name]
		if !ok {
			return nil, missingField(f.Name)
		}
		if err := encodeField(e, f, v); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

func encodeField(e *wire.Encoder, f schema.Field, v any) error {
	switch f.Type {
	case wire.TypeFloat32:
		n, ok := toFloat64(v)
		if !ok {
			return coercionError(f.Name, "float")
		}
		e.WriteFloat32(float32(n))
	case wire.TypeFloat64:
		n, ok := toFloat64(v)
		if !ok {
			return coercionError(f.Name, "float")
		}
		e.WriteFloat64(n)
	case wire.TypeInt32:
		n, ok := toInt64(v)
		if !ok {
			return coercionError(f.Name, "int")
		}
		e.WriteInt32(int32(n))
	case wire.TypeInt64:
		n, ok := toInt64(v)
		if !ok {
			return coercionError(f.Name, "int")
		}
		e.WriteInt64(n)
	case wire.TypeUint32:
		n, ok := toInt64(v)
		if !ok {
			return coercionError(f.Name, "int")
		}
		e.WriteUint32(uint32(n))
	case wire.TypeUint64:
		n, ok := toInt64(v)
		if !ok {
			return coercionError(f.Name, "int")
		}
		e.WriteUint64(uint64(n))
	case wire.TypeBool:
		e.WriteBool(truthy(v))
	case wire.TypeString:
		s, ok := toString(v)
		if !ok {
			return coercionError(f.Name, "string")
		}
		e.WriteString(s)
	case wire.TypeMessage:
		return encodeMessageField(e, f, v)
	default:
		return coercionError(f.Name, "known field type")
	}
	return nil
}

func encodeMessageField(e *wire.Encoder, f schema.Field, v any) error {
	if f.ReferenceName != schema.Luminance {
		return &Error{Field: f.Name, Reason: fmt.Sprintf("no registered handler for message type %q", f.ReferenceName)}
	}
	width, height, pixels, ok := asLuminance(v)
	if !ok {
		return coercionError(f.Name, "Luminance (width, height, pixels)")
	}
	e.WriteLuminance(width, height, pixels)
	return nil
}

// asLuminance extracts width/height/pixels from either a
// *schema.LuminanceValue or any struct exposing those three fields, so
// callers are not forced to import pkg/schema in their simulator code.
func asLuminance(v any) (width, height uint32, pixels []byte, ok bool) {
	if lv, isLV := v.(*schema.LuminanceValue); isLV {
		return lv.Width, lv.Height, lv.Pixels, true
	}
	if lv, isLV := v.(schema.LuminanceValue); isLV {
		return lv.Width, lv.Height, lv.Pixels, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return 0, 0, nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return 0, 0, nil, false
	}
	w := rv.FieldByName("Width")
	h := rv.FieldByName("Height")
	p := rv.FieldByName("Pixels")
	if !w.IsValid() || !h.IsValid() || !p.IsValid() {
		return 0, 0, nil, false
	}
	wu, ok := toInt64(w.Interface())
	if !ok {
		return 0, 0, nil, false
	}
	hu, ok := toInt64(h.Interface())
	if !ok {
		return 0, 0, nil, false
	}
	pb, ok := p.Interface().([]byte)
	if !ok {
		return 0, 0, nil, false
	}
	return uint32(wu), uint32(hu), pb, true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case int32:
		return b != 0
	case int64:
		return b != 0
	case uint32:
		return b != 0
	case uint64:
		return b != 0
	case float32:
		return b != 0
	case float64:
		return b != 0
	case string:
		return b != ""
	case nil:
		return false
	default:
		return true
	}
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
