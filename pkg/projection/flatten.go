package projection

import "github.com/aretw0/layergraph/pkg/graph"

// FlattenedListItem is one row of the sidebar list.
type FlattenedListItem struct {
	NodeID string `json:"node_id"`
	Depth  int    `json:"depth"`
	Index  int    `json:"index"`
}

// Flatten walks the tree depth-first in pre-order, roots and children in
// their stored order, and emits one item per visible node. Descendants of a
// node in collapsed are not emitted; indices are dense over emitted items.
func Flatten(tree *graph.Tree, collapsed map[string]bool) []FlattenedListItem {
	items := make([]FlattenedListItem, 0, tree.Len())
	tree.Walk(func(n *graph.Node, depth int) bool {
		items = append(items, FlattenedListItem{
			NodeID: n.ID(),
			Depth:  depth,
			Index:  len(items),
		})
		return !collapsed[n.ID()]
	})
	return items
}

// HiddenCount returns how many descendants of id are hidden by collapse state,
// either because id itself or one of its ancestors is collapsed.
func HiddenCount(tree *graph.Tree, collapsed map[string]bool, id string) int {
	if collapsed[id] {
		return len(tree.Descendants(id))
	}
	for a := range tree.AncestorsOf(id) {
		if collapsed[a] {
			return len(tree.Descendants(id))
		}
	}
	return 0
}
