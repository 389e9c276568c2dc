package store

import (
	"fmt"
	"slices"

	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/domain"
)

// Snapshot captures the tree and the editor state as a document.
func (s *Store) Snapshot(id, title string) *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := document.FromTree(id, title, s.tree)
	doc.Selection = slices.Clone(s.selection)
	doc.CollapsedGroups = sortedKeys(s.collapsedGroups)
	doc.CollapsedSections = sortedKeys(s.collapsedSections)
	return doc
}

// Restore replaces the whole store state with the content of doc.
// An invalid document leaves the store untouched.
func (s *Store) Restore(doc *document.Document) error {
	tree, err := document.Build(doc)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.reject(domain.MutationRestoreSnapshot, fmt.Errorf("restore %s: %w", doc.ID, err))
	}

	selection := make([]string, 0, len(doc.Selection))
	for _, id := range doc.Selection {
		if !slices.Contains(selection, id) {
			selection = append(selection, id)
		}
	}
	groups := make(map[string]bool, len(doc.CollapsedGroups))
	for _, id := range doc.CollapsedGroups {
		groups[id] = true
	}
	sections := make(map[string]bool, len(doc.CollapsedSections))
	for _, name := range doc.CollapsedSections {
		sections[name] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = tree
	s.selection = selection
	s.collapsedGroups = groups
	s.collapsedSections = sections
	s.emit(domain.MutationEvent{Type: domain.MutationRestoreSnapshot})
	return nil
}
