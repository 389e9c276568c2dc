package store

import (
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/projection"
)

// ReadView is a consistent view of the store, valid only inside Read.
// Nothing reachable from it may be retained or mutated.
type ReadView struct {
	Tree              *graph.Tree
	Selection         []string
	CollapsedGroups   map[string]bool
	CollapsedSections map[string]bool
	Sections          []domain.Section
}

// Flatten computes the sidebar rows of the view.
func (v ReadView) Flatten() []projection.FlattenedListItem {
	return projection.Flatten(v.Tree, v.CollapsedGroups)
}

// Inspect computes the inspector projection of the view.
func (v ReadView) Inspect() (*projection.Inspection, bool) {
	return projection.Inspect(v.Tree, v.Selection, v.CollapsedSections, v.Sections)
}

// Read runs fn under the store lock. Use it when a caller needs several
// projections, or the live port observers of one, from the same state.
func (s *Store) Read(fn func(v ReadView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(ReadView{
		Tree:              s.tree,
		Selection:         s.selection,
		CollapsedGroups:   s.collapsedGroups,
		CollapsedSections: s.collapsedSections,
		Sections:          s.sections,
	})
}
