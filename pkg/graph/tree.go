package graph

import (
	"fmt"
	"iter"
	"slices"

	"github.com/aretw0/layergraph/pkg/domain"
)

// Tree is the layer hierarchy: a forest of nodes reachable from ordered roots.
type Tree struct {
	nodes map[string]*Node
	roots []string
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*Node)}
}

type insertConfig struct {
	parent string
	index  int
}

// InsertOption configures where Insert places a node.
type InsertOption func(*insertConfig)

// Under inserts the node as a child of parent instead of as a root.
func Under(parent string) InsertOption {
	return func(c *insertConfig) {
		c.parent = parent
	}
}

// At inserts the node at index among its siblings. Out-of-range indices are
// clamped; a negative index appends.
func At(index int) InsertOption {
	return func(c *insertConfig) {
		c.index = index
	}
}

// Insert adds a node to the tree. Any parent/child links the node carried are reset.
func (t *Tree) Insert(n *Node, opts ...InsertOption) error {
	cfg := insertConfig{index: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	// "" names the root level in Under and Move, so it cannot be a node id.
	if n.id == "" {
		return fmt.Errorf("insert %s node: %w", n.layerType, domain.ErrEmptyID)
	}
	if _, exists := t.nodes[n.id]; exists {
		return fmt.Errorf("insert %q: %w", n.id, domain.ErrDuplicateID)
	}
	if cfg.parent != "" {
		if _, ok := t.nodes[cfg.parent]; !ok {
			return fmt.Errorf("insert %q under %q: %w", n.id, cfg.parent, domain.ErrNodeNotFound)
		}
	}

	n.parent = cfg.parent
	n.children = nil
	t.nodes[n.id] = n
	t.attach(n.id, cfg.parent, cfg.index)
	return nil
}

// Remove deletes a node and all of its descendants, disconnecting their
// ports. It returns the removed ids in pre-order.
func (t *Tree) Remove(id string) ([]string, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("remove %q: %w", id, domain.ErrNodeNotFound)
	}

	removed := append([]string{id}, t.Descendants(id)...)
	t.detach(id, n.parent)
	for _, rid := range removed {
		t.nodes[rid].disconnectAll()
		delete(t.nodes, rid)
	}
	return removed, nil
}

// Move reparents id under newParent ("" for the root list) at index.
// It fails with domain.ErrCycleDetected if newParent is id or one of its descendants.
func (t *Tree) Move(id, newParent string, index int) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("move %q: %w", id, domain.ErrNodeNotFound)
	}
	if newParent != "" {
		if _, ok := t.nodes[newParent]; !ok {
			return fmt.Errorf("move %q under %q: %w", id, newParent, domain.ErrNodeNotFound)
		}
		if newParent == id || t.IsAncestor(id, newParent) {
			return fmt.Errorf("move %q under %q: %w", id, newParent, domain.ErrCycleDetected)
		}
	}

	t.detach(id, n.parent)
	n.parent = newParent
	t.attach(id, newParent, index)
	return nil
}

// SetParent reparents id at the end of newParent's children.
func (t *Tree) SetParent(id, newParent string) error {
	return t.Move(id, newParent, -1)
}

// AncestorsOf yields the ancestors of id from its immediate parent up to its root.
func (t *Tree) AncestorsOf(id string) iter.Seq[string] {
	return func(yield func(string) bool) {
		n, ok := t.nodes[id]
		// The hop bound keeps a corrupted tree from looping forever.
		for hops := 0; ok && n.parent != "" && hops < len(t.nodes); hops++ {
			if !yield(n.parent) {
				return
			}
			n, ok = t.nodes[n.parent]
		}
	}
}

// IsAncestor reports whether ancestor appears in AncestorsOf(id).
func (t *Tree) IsAncestor(ancestor, id string) bool {
	for a := range t.AncestorsOf(id) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// Depth is the number of ancestors of id.
func (t *Tree) Depth(id string) int {
	depth := 0
	for range t.AncestorsOf(id) {
		depth++
	}
	return depth
}

// Node returns the node with the given id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Roots returns a copy of the ordered root ids.
func (t *Tree) Roots() []string {
	return slices.Clone(t.roots)
}

// Children returns a copy of the ordered children of id.
func (t *Tree) Children(id string) []string {
	if n, ok := t.nodes[id]; ok {
		return n.Children()
	}
	return nil
}

// Len is the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Descendants returns every descendant of id in pre-order, excluding id.
func (t *Tree) Descendants(id string) []string {
	var out []string
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	for _, c := range n.children {
		out = append(out, c)
		out = append(out, t.Descendants(c)...)
	}
	return out
}

// Walk visits every node depth-first in pre-order, roots in stored order.
// Returning false from fn skips the node's descendants.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		n := t.nodes[id]
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	for _, r := range t.roots {
		visit(r, 0)
	}
}

// attach inserts id into parent's child list (or the root list) at a clamped index.
func (t *Tree) attach(id, parent string, index int) {
	list := &t.roots
	if parent != "" {
		list = &t.nodes[parent].children
	}
	if index < 0 || index > len(*list) {
		index = len(*list)
	}
	*list = slices.Insert(*list, index, id)
}

func (t *Tree) detach(id, parent string) {
	list := &t.roots
	if parent != "" {
		list = &t.nodes[parent].children
	}
	*list = slices.DeleteFunc(*list, func(c string) bool { return c == id })
}
