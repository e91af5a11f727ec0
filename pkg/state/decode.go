package state

import (
	"github.com/brainlink/simlink/pkg/schema"
	"github.com/brainlink/simlink/pkg/wire"
)

// Decode is Project's inverse: it reads bytes conforming to s and returns
// the {field-name -> value} mapping. Used by the adapter to turn
// dynamic_properties/dynamic_prediction payloads back into plain maps
// before handing them to the simulator callback surface.
func Decode(s *schema.Schema, data []byte) (map[string]any, error) {
	d := wire.NewDecoder(data)
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, err := decodeField(d, f)
		if err != nil {
			return nil, coercionError(f.Name, "well-formed "+fieldTypeName(f.Type))
		}
		out[f.Name] = v
	}
	return out, nil
}

func decodeField(d *wire.Decoder, f schema.Field) (any, error) {
	switch f.Type {
	case wire.TypeFloat32:
		return d.ReadFloat32()
	case wire.TypeFloat64:
		return d.ReadFloat64()
	case wire.TypeInt32:
		return d.ReadInt32()
	case wire.TypeInt64:
		return d.ReadInt64()
	case wire.TypeUint32:
		return d.ReadUint32()
	case wire.TypeUint64:
		return d.ReadUint64()
	case wire.TypeBool:
		return d.ReadBool()
	case wire.TypeString:
		return d.ReadString()
	case wire.TypeMessage:
		return decodeMessageField(d, f)
	default:
		return nil, coercionError(f.Name, "known field type")
	}
}

func decodeMessageField(d *wire.Decoder, f schema.Field) (any, error) {
	if f.ReferenceName != schema.Luminance {
		return nil, coercionError(f.Name, "registered message type")
	}
	width, height, pixels, err := d.ReadLuminance()
	if err != nil {
		return nil, err
	}
	return &schema.LuminanceValue{Width: width, Height: height, Pixels: pixels}, nil
}

func fieldTypeName(t wire.PrimitiveType) string {
	switch t {
	case wire.TypeInt32:
		return "int32"
	case wire.TypeInt64:
		return "int64"
	case wire.TypeUint32:
		return "uint32"
	case wire.TypeUint64:
		return "uint64"
	case wire.TypeFloat32:
		return "float32"
	case wire.TypeFloat64:
		return "float64"
	case wire.TypeBool:
		return "bool"
	case wire.TypeString:
		return "string"
	case wire.TypeMessage:
		return "message"
	default:
		return "value"
	}
}
