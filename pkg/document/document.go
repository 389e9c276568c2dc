package document

import (
	"github.com/google/uuid"

	"github.com/aretw0/layergraph/pkg/domain"
)

// Document is the persisted form of a layer graph plus editor state.
type Document struct {
	ID                string       `json:"id" yaml:"id"`
	Title             string       `json:"title,omitempty" yaml:"title,omitempty"`
	Layers            []Layer      `json:"layers" yaml:"layers"`
	Connections       []Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
	Selection         []string     `json:"selection,omitempty" yaml:"selection,omitempty"`
	CollapsedGroups   []string     `json:"collapsed_groups,omitempty" yaml:"collapsed_groups,omitempty"`
	CollapsedSections []string     `json:"collapsed_sections,omitempty" yaml:"collapsed_sections,omitempty"`
}

// Layer is one node of the hierarchy. Inputs and Outputs only list values
// that differ from the layer-type defaults.
type Layer struct {
	ID       string           `json:"id" yaml:"id"`
	Title    string           `json:"title,omitempty" yaml:"title,omitempty"`
	Type     domain.LayerType `json:"type" yaml:"type"`
	Inputs   map[string]any   `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs  map[string]any   `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Blocked  []domain.PortKey `json:"blocked,omitempty" yaml:"blocked,omitempty"`
	Children []Layer          `json:"children,omitempty" yaml:"children,omitempty"`
}

// Endpoint names a port on a node. The direction is implied by its side of a Connection.
type Endpoint struct {
	Node string         `json:"node" yaml:"node"`
	Port domain.PortKey `json:"port" yaml:"port"`
}

// Connection is an edge from an output port to an input port.
type Connection struct {
	From Endpoint `json:"from" yaml:"from"`
	To   Endpoint `json:"to" yaml:"to"`
}

// FromAddress is the output side of the edge as a port address.
func (c Connection) FromAddress() domain.PortAddress {
	return domain.Output(c.From.Node, c.From.Port)
}

// ToAddress is the input side of the edge as a port address.
func (c Connection) ToAddress() domain.PortAddress {
	return domain.Input(c.To.Node, c.To.Port)
}

// EnsureIDs assigns a random id to the document and to every layer that has none.
func (d *Document) EnsureIDs() {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	ensureLayerIDs(d.Layers)
}

func ensureLayerIDs(layers []Layer) {
	for i := range layers {
		if layers[i].ID == "" {
			layers[i].ID = uuid.NewString()
		}
		ensureLayerIDs(layers[i].Children)
	}
}

// Count returns the number of layers in the document, nested ones included.
func (d *Document) Count() int {
	return countLayers(d.Layers)
}

func countLayers(layers []Layer) int {
	n := len(layers)
	for _, l := range layers {
		n += countLayers(l.Children)
	}
	return n
}
