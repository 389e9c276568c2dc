package ports

import (
	"context"

	"github.com/aretw0/layergraph/pkg/document"
)

// DocumentStore defines how documents are persisted.
type DocumentStore interface {
	// Save persists the document under its ID, replacing any previous version.
	Save(ctx context.Context, doc *document.Document) error

	// Load retrieves a document by ID.
	// Returns domain.ErrDocumentNotFound if the document does not exist.
	Load(ctx context.Context, id string) (*document.Document, error)

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of every stored document.
	List(ctx context.Context) ([]string, error)
}
