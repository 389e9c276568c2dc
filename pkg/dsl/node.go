package dsl

import (
	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a layer.
type NodeBuilder struct {
	layer  document.Layer
	parent string
}

// Title sets the display title of the layer.
func (n *NodeBuilder) Title(title string) *NodeBuilder {
	n.layer.Title = title
	return n
}

// Under nests the layer inside parent, after the siblings added before it.
func (n *NodeBuilder) Under(parent string) *NodeBuilder {
	n.parent = parent
	return n
}

// Set overrides the default value of an input port.
func (n *NodeBuilder) Set(key domain.PortKey, v domain.Value) *NodeBuilder {
	if n.layer.Inputs == nil {
		n.layer.Inputs = make(map[string]any)
	}
	n.layer.Inputs[string(key)] = document.EncodeValue(v)
	return n
}

// Block disables ports structurally.
func (n *NodeBuilder) Block(keys ...domain.PortKey) *NodeBuilder {
	n.layer.Blocked = append(n.layer.Blocked, keys...)
	return n
}

// ID returns the layer id, useful when it was generated.
func (n *NodeBuilder) ID() string {
	return n.layer.ID
}

// Layer returns the document form of this layer without its children.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Layer() document.Layer {
	return n.layer
}
