package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the variant tag of a Value.
type ValueType string

const (
	TypeNumber ValueType = "number"
	TypeString ValueType = "string"
	TypeBool   ValueType = "bool"
	TypeColor  ValueType = "color" // "#RRGGBB" or "#RRGGBBAA"
	TypePoint  ValueType = "point"
	TypeSize   ValueType = "size"
)

// Point is a 2D position.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Size is a 2D extent.
type Size struct {
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// Value is the variant held by a port. Only the field matching Type is meaningful.
// Values are comparable with ==.
type Value struct {
	Type   ValueType
	Number float64
	Text   string
	Bool   bool
	Color  string
	Point  Point
	Size   Size
}

func NumberValue(n float64) Value { return Value{Type: TypeNumber, Number: n} }
func StringValue(s string) Value  { return Value{Type: TypeString, Text: s} }
func BoolValue(b bool) Value      { return Value{Type: TypeBool, Bool: b} }
func PointValue(x, y float64) Value {
	return Value{Type: TypePoint, Point: Point{X: x, Y: y}}
}
func SizeValue(w, h float64) Value {
	return Value{Type: TypeSize, Size: Size{Width: w, Height: h}}
}

// ColorValue builds a color value without validation. Use ParseColor for untrusted input.
func ColorValue(hex string) Value { return Value{Type: TypeColor, Color: strings.ToUpper(hex)} }

// ParseColor validates a "#RRGGBB" or "#RRGGBBAA" string.
func ParseColor(s string) (Value, error) {
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return Value{}, fmt.Errorf("invalid color %q: %w", s, ErrTypeMismatch)
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return Value{}, fmt.Errorf("invalid color %q: %w", s, ErrTypeMismatch)
	}
	return ColorValue(s), nil
}

// IsZero reports whether v carries no variant at all.
func (v Value) IsZero() bool { return v.Type == "" }

// Interface returns the payload as a plain Go value, suitable for JSON/YAML encoding.
func (v Value) Interface() any {
	switch v.Type {
	case TypeNumber:
		return v.Number
	case TypeString:
		return v.Text
	case TypeBool:
		return v.Bool
	case TypeColor:
		return v.Color
	case TypePoint:
		return v.Point
	case TypeSize:
		return v.Size
	}
	return nil
}

func (v Value) String() string {
	switch v.Type {
	case TypeNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case TypeString:
		return strconv.Quote(v.Text)
	case TypeBool:
		return strconv.FormatBool(v.Bool)
	case TypeColor:
		return v.Color
	case TypePoint:
		return fmt.Sprintf("(%g, %g)", v.Point.X, v.Point.Y)
	case TypeSize:
		return fmt.Sprintf("%gx%g", v.Size.Width, v.Size.Height)
	}
	return "<none>"
}
