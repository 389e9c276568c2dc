package document

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/layergraph/pkg/domain"
)

// DecodeValue converts a raw YAML/JSON value into a Value of type t.
// Numbers accept any numeric kind; points and sizes are maps ({x, y} and
// {width, height}); colors are hex strings.
func DecodeValue(t domain.ValueType, raw any) (domain.Value, error) {
	if raw == nil {
		return domain.Value{}, fmt.Errorf("missing %s value: %w", t, domain.ErrTypeMismatch)
	}

	switch t {
	case domain.TypeNumber:
		var f float64
		if err := decode(raw, &f); err != nil {
			return domain.Value{}, err
		}
		return domain.NumberValue(f), nil
	case domain.TypeString:
		var s string
		if err := decode(raw, &s); err != nil {
			return domain.Value{}, err
		}
		return domain.StringValue(s), nil
	case domain.TypeBool:
		var b bool
		if err := decode(raw, &b); err != nil {
			return domain.Value{}, err
		}
		return domain.BoolValue(b), nil
	case domain.TypeColor:
		var s string
		if err := decode(raw, &s); err != nil {
			return domain.Value{}, err
		}
		return domain.ParseColor(s)
	case domain.TypePoint:
		var p domain.Point
		if err := decode(raw, &p); err != nil {
			return domain.Value{}, err
		}
		return domain.PointValue(p.X, p.Y), nil
	case domain.TypeSize:
		var s domain.Size
		if err := decode(raw, &s); err != nil {
			return domain.Value{}, err
		}
		return domain.SizeValue(s.Width, s.Height), nil
	}
	return domain.Value{}, fmt.Errorf("unknown value type %q: %w", t, domain.ErrTypeMismatch)
}

func decode(raw, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		ErrorUnset:  true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTypeMismatch, err)
	}
	return nil
}

// EncodeValue is the inverse of DecodeValue: a plain value that YAML and
// JSON encoders render the way DecodeValue reads it back.
func EncodeValue(v domain.Value) any {
	switch v.Type {
	case domain.TypePoint:
		return map[string]any{"x": v.Point.X, "y": v.Point.Y}
	case domain.TypeSize:
		return map[string]any{"width": v.Size.Width, "height": v.Size.Height}
	}
	return v.Interface()
}
