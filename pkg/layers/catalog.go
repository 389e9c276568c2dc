package layers

import (
	"slices"

	"github.com/aretw0/layergraph/pkg/domain"
)

// Layer types known to the catalog.
const (
	Text           domain.LayerType = "text"
	Oval           domain.LayerType = "oval"
	Rectangle      domain.LayerType = "rectangle"
	Image          domain.LayerType = "image"
	Group          domain.LayerType = "group"
	TextField      domain.LayerType = "textField"
	Toggle         domain.LayerType = "toggle"
	LinearGradient domain.LayerType = "linearGradient"
)

// PortSpec describes a port key: the single value type it accepts and its initial value.
type PortSpec struct {
	Key     domain.PortKey
	Type    domain.ValueType
	Default domain.Value
}

// Definition is the catalog entry of a layer type.
type Definition struct {
	Type    domain.LayerType
	Inputs  []domain.PortKey
	Outputs []domain.PortKey
}

var specs = map[domain.PortKey]PortSpec{}

func spec(key domain.PortKey, def domain.Value) {
	specs[key] = PortSpec{Key: key, Type: def.Type, Default: def}
}

func init() {
	spec("position", domain.PointValue(0, 0))
	spec("size", domain.SizeValue(100, 100))
	spec("zIndex", domain.NumberValue(0))
	spec("opacity", domain.NumberValue(1))
	spec("scale", domain.NumberValue(1))
	spec("rotation", domain.NumberValue(0))
	spec("visible", domain.BoolValue(true))
	spec("color", domain.ColorValue("#A1A1A1FF"))
	spec("cornerRadius", domain.NumberValue(0))
	spec("strokeWidth", domain.NumberValue(0))
	spec("strokeColor", domain.ColorValue("#000000FF"))
	spec("text", domain.StringValue(""))
	spec("placeholder", domain.StringValue(""))
	spec("fontSize", domain.NumberValue(36))
	spec("textAlignment", domain.StringValue("left"))
	spec("textColor", domain.ColorValue("#000000FF"))
	spec("image", domain.StringValue(""))
	spec("fitStyle", domain.StringValue("fill"))
	spec("orientation", domain.StringValue("none"))
	spec("padding", domain.NumberValue(0))
	spec("spacing", domain.NumberValue(0))
	spec("isClipped", domain.BoolValue(false))
	spec("isOn", domain.BoolValue(false))
	spec("startColor", domain.ColorValue("#FFFFFFFF"))
	spec("endColor", domain.ColorValue("#000000FF"))
	spec("startAnchor", domain.PointValue(0.5, 0))
	spec("endAnchor", domain.PointValue(0.5, 1))
}

var common = []domain.PortKey{"position", "size", "zIndex", "opacity", "scale", "rotation", "visible"}

func with(extra ...domain.PortKey) []domain.PortKey {
	return append(slices.Clone(common), extra...)
}

var definitions = map[domain.LayerType]Definition{
	Text: {
		Type:   Text,
		Inputs: with("text", "fontSize", "textAlignment", "textColor"),
	},
	Oval: {
		Type:   Oval,
		Inputs: with("color", "strokeWidth", "strokeColor"),
	},
	Rectangle: {
		Type:   Rectangle,
		Inputs: with("color", "cornerRadius", "strokeWidth", "strokeColor"),
	},
	Image: {
		Type:   Image,
		Inputs: with("image", "fitStyle", "cornerRadius"),
	},
	Group: {
		Type:   Group,
		Inputs: with("orientation", "padding", "spacing", "isClipped", "cornerRadius"),
	},
	TextField: {
		Type:    TextField,
		Inputs:  with("placeholder", "fontSize", "textColor", "color"),
		Outputs: []domain.PortKey{"text"},
	},
	Toggle: {
		Type:    Toggle,
		Inputs:  with("isOn", "color"),
		Outputs: []domain.PortKey{"isOn"},
	},
	LinearGradient: {
		Type:   LinearGradient,
		Inputs: []domain.PortKey{"startColor", "endColor", "startAnchor", "endAnchor"},
	},
}

// Lookup returns the catalog definition of a layer type.
func Lookup(lt domain.LayerType) (Definition, bool) {
	def, ok := definitions[lt]
	if !ok {
		return Definition{}, false
	}
	def.Inputs = slices.Clone(def.Inputs)
	def.Outputs = slices.Clone(def.Outputs)
	return def, true
}

// PortsFor returns the ordered, deduplicated input keys supported by a layer type.
// The returned slice is owned by the caller.
func PortsFor(lt domain.LayerType) ([]domain.PortKey, bool) {
	def, ok := definitions[lt]
	if !ok {
		return nil, false
	}
	return dedupe(def.Inputs), true
}

// OutputsFor returns the ordered output keys of a layer type.
func OutputsFor(lt domain.LayerType) ([]domain.PortKey, bool) {
	def, ok := definitions[lt]
	if !ok {
		return nil, false
	}
	return dedupe(def.Outputs), true
}

// Spec returns the value type and default value of a port key.
func Spec(key domain.PortKey) (PortSpec, bool) {
	s, ok := specs[key]
	return s, ok
}

// Types returns every known layer type, sorted.
func Types() []domain.LayerType {
	types := make([]domain.LayerType, 0, len(definitions))
	for lt := range definitions {
		types = append(types, lt)
	}
	slices.Sort(types)
	return types
}

func dedupe(keys []domain.PortKey) []domain.PortKey {
	seen := make(map[domain.PortKey]bool, len(keys))
	out := make([]domain.PortKey, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
