package graph_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/layers"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const propertyNodes = 8

// randomTree inserts propertyNodes groups and then applies moves decoded from ops.
// Each consecutive pair (node, parent) is one move; parent == propertyNodes means "root".
func randomTree(ops []int) *graph.Tree {
	tree := graph.NewTree()
	for i := 0; i < propertyNodes; i++ {
		_ = tree.Insert(graph.NewNode(nodeName(i), layers.Group))
	}
	for i := 0; i+1 < len(ops); i += 2 {
		parent := ""
		if ops[i+1] < propertyNodes {
			parent = nodeName(ops[i+1])
		}
		// Cycles are rejected; the property checks the tree stays consistent either way.
		_ = tree.Move(nodeName(ops[i]), parent, ops[i]%3)
	}
	return tree
}

func nodeName(i int) string { return fmt.Sprintf("n%d", i) }

// consistent checks the parent/child invariants over the whole tree.
func consistent(tree *graph.Tree) bool {
	seen := 0
	ok := true
	tree.Walk(func(n *graph.Node, depth int) bool {
		seen++
		if slices.Contains(slices.Collect(tree.AncestorsOf(n.ID())), n.ID()) {
			ok = false
		}
		for _, c := range n.Children() {
			child, exists := tree.Node(c)
			if !exists {
				ok = false
				continue
			}
			if p, _ := child.Parent(); p != n.ID() {
				ok = false
			}
		}
		if p, hasParent := n.Parent(); hasParent {
			parent, exists := tree.Node(p)
			if !exists || !slices.Contains(parent.Children(), n.ID()) {
				ok = false
			}
		}
		return true
	})
	return ok && seen == tree.Len()
}

func TestTreeInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	opsGen := gen.SliceOf(gen.IntRange(0, propertyNodes))

	properties.Property("moves never create a cycle", prop.ForAll(
		func(ops []int) bool {
			return consistent(randomTree(ops))
		},
		opsGen,
	))

	properties.Property("remove cascades without dangling parents", prop.ForAll(
		func(ops []int, victim int) bool {
			tree := randomTree(ops)
			id := nodeName(victim % propertyNodes)
			expected := append([]string{id}, tree.Descendants(id)...)

			removed, err := tree.Remove(id)
			if err != nil || !slices.Equal(removed, expected) {
				return false
			}
			for _, r := range removed {
				if _, exists := tree.Node(r); exists {
					return false
				}
			}
			return consistent(tree) && tree.Len() == propertyNodes-len(removed)
		},
		opsGen,
		gen.IntRange(0, propertyNodes-1),
	))

	properties.TestingRun(t)
}
