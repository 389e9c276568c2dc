package domain

// LayerType tags a node and drives which ports it supports.
type LayerType string

// Section is one entry of the canonical inspector section enumeration.
// Ports lists the input keys it displays, in display order.
type Section struct {
	Name  string
	Ports []PortKey
}

// MultiselectHeader is the inspector header shown when more than one layer is focused.
const MultiselectHeader = "Multiple Layers"
