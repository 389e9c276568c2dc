package dsl

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
)

// Builder manages the tree construction.
type Builder struct {
	id          string
	title       string
	nodes       []*NodeBuilder
	byID        map[string]*NodeBuilder
	connections []document.Connection
	selection   []string
}

// New creates a new tree builder for the document id.
func New(id string) *Builder {
	return &Builder{
		id:   id,
		byID: make(map[string]*NodeBuilder),
	}
}

// Title sets the document title.
func (b *Builder) Title(title string) *Builder {
	b.title = title
	return b
}

// Add creates a new layer. An empty id is replaced by a random one.
// If the layer already exists, it returns the existing builder.
func (b *Builder) Add(id string, lt domain.LayerType) *NodeBuilder {
	if id == "" {
		id = uuid.NewString()
	}
	if nb, ok := b.byID[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		layer: document.Layer{ID: id, Type: lt},
	}
	b.nodes = append(b.nodes, nb)
	b.byID[id] = nb
	return nb
}

// Connect wires the output port of one layer to the input port of another.
func (b *Builder) Connect(fromNode string, fromPort domain.PortKey, toNode string, toPort domain.PortKey) *Builder {
	b.connections = append(b.connections, document.Connection{
		From: document.Endpoint{Node: fromNode, Port: fromPort},
		To:   document.Endpoint{Node: toNode, Port: toPort},
	})
	return b
}

// Select records the layers focused when the document is opened.
func (b *Builder) Select(ids ...string) *Builder {
	b.selection = append(b.selection, ids...)
	return b
}

// Document assembles the layers into a document. Layers keep the order in
// which they were added among their siblings. A layer whose parent was never
// added is kept as a root so Build can report it.
func (b *Builder) Document() *document.Document {
	children := make(map[string][]*NodeBuilder)
	var roots []*NodeBuilder
	for _, nb := range b.nodes {
		if nb.parent == "" {
			roots = append(roots, nb)
			continue
		}
		if _, ok := b.byID[nb.parent]; !ok {
			roots = append(roots, nb)
			continue
		}
		children[nb.parent] = append(children[nb.parent], nb)
	}

	var nest func(nb *NodeBuilder) document.Layer
	nest = func(nb *NodeBuilder) document.Layer {
		l := nb.layer
		l.Children = nil
		for _, child := range children[nb.layer.ID] {
			l.Children = append(l.Children, nest(child))
		}
		return l
	}

	doc := &document.Document{
		ID:          b.id,
		Title:       b.title,
		Layers:      make([]document.Layer, 0, len(roots)),
		Connections: b.connections,
		Selection:   b.selection,
	}
	for _, nb := range roots {
		doc.Layers = append(doc.Layers, nest(nb))
	}
	return doc
}

// Build compiles the layers into a live tree.
func (b *Builder) Build() (*graph.Tree, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	tree, err := document.Build(b.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return tree, nil
}

func (b *Builder) check() error {
	for _, nb := range b.nodes {
		if nb.parent == "" {
			continue
		}
		if _, ok := b.byID[nb.parent]; !ok {
			return fmt.Errorf("layer %q: parent %q: %w", nb.layer.ID, nb.parent, domain.ErrNodeNotFound)
		}
		if b.cycles(nb) {
			return fmt.Errorf("layer %q: %w", nb.layer.ID, domain.ErrCycleDetected)
		}
	}
	return nil
}

func (b *Builder) cycles(nb *NodeBuilder) bool {
	seen := map[string]bool{nb.layer.ID: true}
	for p := nb.parent; p != ""; {
		if seen[p] {
			return true
		}
		seen[p] = true
		parent, ok := b.byID[p]
		if !ok {
			return false
		}
		p = parent.parent
	}
	return false
}
