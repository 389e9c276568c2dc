package middleware

import (
	"context"
	"slices"

	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/ports"
)

type canonicalMiddleware struct {
	next ports.DocumentStore
}

// NewCanonicalMiddleware creates a middleware that rewrites documents into
// their canonical form before saving: inputs equal to the catalog default
// are dropped, inputs driven by a connection are dropped and titles equal to
// the layer type are omitted. Documents that do not build are passed through
// untouched.
func NewCanonicalMiddleware() Middleware {
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &canonicalMiddleware{next: next}
	}
}

func (m *canonicalMiddleware) Save(ctx context.Context, doc *document.Document) error {
	tree, err := document.Build(doc)
	if err != nil {
		return m.next.Save(ctx, doc)
	}

	// The caller's document is left as it was.
	canonical := document.FromTree(doc.ID, doc.Title, tree)
	canonical.Selection = slices.Clone(doc.Selection)
	canonical.CollapsedGroups = slices.Clone(doc.CollapsedGroups)
	canonical.CollapsedSections = slices.Clone(doc.CollapsedSections)
	return m.next.Save(ctx, canonical)
}

func (m *canonicalMiddleware) Load(ctx context.Context, id string) (*document.Document, error) {
	return m.next.Load(ctx, id)
}

func (m *canonicalMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *canonicalMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
