package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/ports"
)

type validationMiddleware struct {
	next ports.DocumentStore
}

// NewValidationMiddleware creates a middleware that refuses to save a
// document that does not build, and reports stored documents that no longer
// build (for example after a catalog change) on Load.
func NewValidationMiddleware() Middleware {
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &validationMiddleware{next: next}
	}
}

func (m *validationMiddleware) Save(ctx context.Context, doc *document.Document) error {
	if err := document.Validate(doc); err != nil {
		return fmt.Errorf("refusing to save document %s: %w", doc.ID, err)
	}
	return m.next.Save(ctx, doc)
}

func (m *validationMiddleware) Load(ctx context.Context, id string) (*document.Document, error) {
	doc, err := m.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := document.Validate(doc); err != nil {
		return nil, fmt.Errorf("stored document %s is invalid: %w", id, err)
	}
	return doc, nil
}

func (m *validationMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *validationMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
