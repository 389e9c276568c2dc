package document

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/layers"
)

// Build turns a document into a live tree. The document is validated as a
// whole: on failure the returned error is an *AggregateError listing every
// problem, and no tree is returned.
func Build(doc *Document) (*graph.Tree, error) {
	b := &builder{tree: graph.NewTree()}
	for i, l := range doc.Layers {
		b.layer(fmt.Sprintf("layers[%d]", i), l, "")
	}
	for i, c := range doc.Connections {
		b.connection(fmt.Sprintf("connections[%d]", i), c)
	}
	b.ids("selection", doc.Selection)
	b.ids("collapsed_groups", doc.CollapsedGroups)

	if len(b.errs) > 0 {
		return nil, &AggregateError{Errors: b.errs}
	}
	return b.tree, nil
}

// Validate reports every problem Build would reject the document for.
func Validate(doc *Document) error {
	_, err := Build(doc)
	return err
}

type builder struct {
	tree *graph.Tree
	errs []error
}

func (b *builder) fail(path, reason string, value any, err error) {
	b.errs = append(b.errs, &ValidationError{Path: path, Reason: reason, Value: value, Err: err})
}

func (b *builder) layer(path string, l Layer, parent string) {
	if l.ID == "" {
		b.fail(path+".id", "missing id", nil, nil)
		return
	}
	if _, ok := layers.Lookup(l.Type); !ok {
		b.fail(path+".type", "unknown layer type", string(l.Type), nil)
		return
	}

	n := graph.NewNode(l.ID, l.Type, graph.WithTitle(l.Title))
	var opts []graph.InsertOption
	if parent != "" {
		opts = append(opts, graph.Under(parent))
	}
	if err := b.tree.Insert(n, opts...); err != nil {
		reason := "cannot insert"
		if errors.Is(err, domain.ErrDuplicateID) {
			reason = "duplicate id"
		}
		b.fail(path+".id", reason, l.ID, err)
		return
	}

	for _, key := range slices.Sorted(maps.Keys(l.Inputs)) {
		b.value(path+".inputs."+key, n, domain.PortInput, domain.PortKey(key), l.Inputs[key])
	}
	for _, key := range slices.Sorted(maps.Keys(l.Outputs)) {
		b.value(path+".outputs."+key, n, domain.PortOutput, domain.PortKey(key), l.Outputs[key])
	}
	for i, key := range l.Blocked {
		p, ok := n.Input(key)
		if !ok {
			p, ok = n.Output(key)
		}
		if !ok {
			b.fail(fmt.Sprintf("%s.blocked[%d]", path, i), "unknown port", string(key), domain.ErrPortNotFound)
			continue
		}
		p.SetBlocked(true)
	}

	for i, child := range l.Children {
		b.layer(fmt.Sprintf("%s.children[%d]", path, i), child, l.ID)
	}
}

func (b *builder) value(path string, n *graph.Node, kind domain.PortKind, key domain.PortKey, raw any) {
	p, ok := n.Port(kind, key)
	if !ok {
		b.fail(path, "unknown port for layer type "+string(n.LayerType()), nil, domain.ErrPortNotFound)
		return
	}
	v, err := DecodeValue(p.Value().Type, raw)
	if err != nil {
		b.fail(path, err.Error(), nil, domain.ErrTypeMismatch)
		return
	}
	if err := p.SetValue(v); err != nil {
		b.fail(path, err.Error(), nil, err)
	}
}

func (b *builder) connection(path string, c Connection) {
	from, err := b.port(c.FromAddress())
	if err != nil {
		b.fail(path+".from", err.Error(), nil, err)
		return
	}
	to, err := b.port(c.ToAddress())
	if err != nil {
		b.fail(path+".to", err.Error(), nil, err)
		return
	}
	if err := graph.Connect(from, to); err != nil {
		b.fail(path, err.Error(), nil, err)
	}
}

func (b *builder) port(addr domain.PortAddress) (*graph.PortObserver, error) {
	n, ok := b.tree.Node(addr.NodeID)
	if !ok {
		return nil, fmt.Errorf("node %q: %w", addr.NodeID, domain.ErrNodeNotFound)
	}
	p, ok := n.Port(addr.Kind, addr.Key)
	if !ok {
		return nil, fmt.Errorf("port %s: %w", addr, domain.ErrPortNotFound)
	}
	return p, nil
}

func (b *builder) ids(field string, ids []string) {
	for i, id := range ids {
		if _, ok := b.tree.Node(id); !ok {
			b.fail(fmt.Sprintf("%s[%d]", field, i), "unknown node", id, domain.ErrNodeNotFound)
		}
	}
}

// FromTree captures a tree as a document. Only catalog inputs whose value
// differs from the default are written; ports added outside the catalog are
// not representable and are skipped.
func FromTree(id, title string, tree *graph.Tree) *Document {
	doc := &Document{ID: id, Title: title, Layers: []Layer{}}
	for _, root := range tree.Roots() {
		doc.Layers = append(doc.Layers, layerOf(tree, root))
	}
	tree.Walk(func(n *graph.Node, _ int) bool {
		for _, out := range n.Outputs() {
			for _, in := range out.Downstream() {
				doc.Connections = append(doc.Connections, Connection{
					From: Endpoint{Node: n.ID(), Port: out.Key()},
					To:   Endpoint{Node: in.Node().ID(), Port: in.Key()},
				})
			}
		}
		return true
	})
	return doc
}

func layerOf(tree *graph.Tree, id string) Layer {
	n, _ := tree.Node(id)
	l := Layer{ID: id, Type: n.LayerType()}
	if n.Title() != string(n.LayerType()) {
		l.Title = n.Title()
	}

	supported, _ := layers.PortsFor(n.LayerType())
	for _, p := range n.Inputs() {
		if p.Blocked() {
			l.Blocked = append(l.Blocked, p.Key())
		}
		if !slices.Contains(supported, p.Key()) {
			continue
		}
		// connected inputs are restored from their upstream
		if _, ok := p.Upstream(); ok {
			continue
		}
		spec, _ := layers.Spec(p.Key())
		if p.Value() == spec.Default {
			continue
		}
		if l.Inputs == nil {
			l.Inputs = make(map[string]any)
		}
		l.Inputs[string(p.Key())] = EncodeValue(p.Value())
	}
	for _, p := range n.Outputs() {
		if p.Blocked() {
			l.Blocked = append(l.Blocked, p.Key())
		}
		if spec, ok := layers.Spec(p.Key()); ok && p.Value() == spec.Default {
			continue
		}
		if l.Outputs == nil {
			l.Outputs = make(map[string]any)
		}
		l.Outputs[string(p.Key())] = EncodeValue(p.Value())
	}

	for _, child := range tree.Children(id) {
		l.Children = append(l.Children, layerOf(tree, child))
	}
	return l
}
