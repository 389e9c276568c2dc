package layers

import "github.com/aretw0/layergraph/pkg/domain"

// DefaultSections returns the canonical inspector section enumeration.
// Port keys that no section lists (e.g. "isOn") are still shown, after every section.
func DefaultSections() []domain.Section {
	return []domain.Section{
		{Name: "Sizing", Ports: []domain.PortKey{"size"}},
		{Name: "Positioning", Ports: []domain.PortKey{"position", "zIndex"}},
		{Name: "Common", Ports: []domain.PortKey{"opacity", "scale", "rotation", "visible"}},
		{Name: "Group", Ports: []domain.PortKey{"orientation", "padding", "spacing", "isClipped"}},
		{Name: "Typography", Ports: []domain.PortKey{"text", "placeholder", "fontSize", "textAlignment", "textColor"}},
		{Name: "Style", Ports: []domain.PortKey{"color", "cornerRadius", "strokeWidth", "strokeColor", "image", "fitStyle"}},
		{Name: "Gradient", Ports: []domain.PortKey{"startColor", "endColor", "startAnchor", "endAnchor"}},
	}
}
