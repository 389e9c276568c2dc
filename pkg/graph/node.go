package graph

import (
	"slices"

	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/layers"
)

// Node is a single layer: typed input/output ports plus its place in the hierarchy.
type Node struct {
	id        string
	title     string
	layerType domain.LayerType

	inputs  []*PortObserver
	outputs []*PortObserver

	parent   string
	children []string

	dirty bool
}

// NodeOption configures a Node at construction time.
type NodeOption func(*Node)

// WithTitle sets the display title.
func WithTitle(title string) NodeOption {
	return func(n *Node) {
		n.title = title
	}
}

// WithPort adds a port outside the catalog, or replaces the catalog port with the same key.
// accepts defaults to the type of initial.
func WithPort(kind domain.PortKind, key domain.PortKey, initial domain.Value, accepts ...domain.ValueType) NodeOption {
	return func(n *Node) {
		p := newPort(n, kind, key, initial, accepts...)
		list := &n.inputs
		if kind == domain.PortOutput {
			list = &n.outputs
		}
		if i := slices.IndexFunc(*list, func(q *PortObserver) bool { return q.key == key }); i >= 0 {
			(*list)[i] = p
			return
		}
		*list = append(*list, p)
	}
}

// NewNode creates a node whose ports are seeded from the layer catalog with
// their default values. An unknown layer type yields a node without catalog ports.
func NewNode(id string, lt domain.LayerType, opts ...NodeOption) *Node {
	n := &Node{id: id, layerType: lt}
	if def, ok := layers.Lookup(lt); ok {
		for _, key := range def.Inputs {
			n.inputs = append(n.inputs, catalogPort(n, domain.PortInput, key))
		}
		for _, key := range def.Outputs {
			n.outputs = append(n.outputs, catalogPort(n, domain.PortOutput, key))
		}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func catalogPort(n *Node, kind domain.PortKind, key domain.PortKey) *PortObserver {
	spec, _ := layers.Spec(key)
	return newPort(n, kind, key, spec.Default, spec.Type)
}

// PortsFor returns the input keys a layer type supports. It is a static
// lookup on the layer type, never on a node instance.
func PortsFor(lt domain.LayerType) ([]domain.PortKey, bool) {
	return layers.PortsFor(lt)
}

func (n *Node) ID() string                  { return n.id }
func (n *Node) LayerType() domain.LayerType { return n.layerType }

// Title returns the display title, falling back to the layer type name.
func (n *Node) Title() string {
	if n.title == "" {
		return string(n.layerType)
	}
	return n.title
}

// SetTitle renames the node.
func (n *Node) SetTitle(title string) {
	n.title = title
}

// Parent returns the parent id, or false for a root.
func (n *Node) Parent() (string, bool) {
	return n.parent, n.parent != ""
}

// Children returns a copy of the ordered child ids.
func (n *Node) Children() []string {
	return slices.Clone(n.children)
}

// Inputs returns the input observers in insertion order.
func (n *Node) Inputs() []*PortObserver {
	return slices.Clone(n.inputs)
}

// Outputs returns the output observers in insertion order.
func (n *Node) Outputs() []*PortObserver {
	return slices.Clone(n.outputs)
}

// Input looks up an input port by key.
func (n *Node) Input(key domain.PortKey) (*PortObserver, bool) {
	return find(n.inputs, key)
}

// Output looks up an output port by key.
func (n *Node) Output(key domain.PortKey) (*PortObserver, bool) {
	return find(n.outputs, key)
}

// Port looks up a port by kind and key.
func (n *Node) Port(kind domain.PortKind, key domain.PortKey) (*PortObserver, bool) {
	if kind == domain.PortOutput {
		return n.Output(key)
	}
	return n.Input(key)
}

func find(ports []*PortObserver, key domain.PortKey) (*PortObserver, bool) {
	for _, p := range ports {
		if p.key == key {
			return p, true
		}
	}
	return nil, false
}

// SupportedInputs is PortsFor applied to the node's layer type.
func (n *Node) SupportedInputs() ([]domain.PortKey, bool) {
	return PortsFor(n.layerType)
}

// FilteredInputObservers returns the inputs whose key appears in supported,
// in canonical section order. Supported inputs that no section lists follow,
// in the node's own input order.
func (n *Node) FilteredInputObservers(supported []domain.PortKey, sections []domain.Section) []*PortObserver {
	allowed := make(map[domain.PortKey]bool, len(supported))
	for _, k := range supported {
		allowed[k] = true
	}

	out := make([]*PortObserver, 0, len(supported))
	placed := make(map[domain.PortKey]bool, len(supported))
	for _, s := range sections {
		for _, key := range s.Ports {
			if !allowed[key] || placed[key] {
				continue
			}
			if p, ok := n.Input(key); ok {
				out = append(out, p)
				placed[key] = true
			}
		}
	}
	for _, p := range n.inputs {
		if allowed[p.key] && !placed[p.key] {
			out = append(out, p)
			placed[p.key] = true
		}
	}
	return out
}

// MarkDirty flags the node for recomputation by its consumers.
func (n *Node) MarkDirty() { n.dirty = true }

// IsDirty reports whether a port changed since the last ClearDirty.
func (n *Node) IsDirty() bool { return n.dirty }

// ClearDirty resets the dirty flag.
func (n *Node) ClearDirty() { n.dirty = false }

// disconnectAll drops every edge of every port of the node.
func (n *Node) disconnectAll() {
	for _, p := range n.inputs {
		p.Disconnect()
	}
	for _, p := range n.outputs {
		p.Disconnect()
	}
}
