package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/domain"
)

func contractDocument(id string) *document.Document {
	return &document.Document{
		ID:    id,
		Title: "Contract",
		Layers: []document.Layer{
			{ID: "frame", Type: "group", Children: []document.Layer{
				{ID: "label", Type: "text", Inputs: map[string]any{"text": "hi", "opacity": 0.5}},
			}},
			{ID: "switch", Type: "toggle", Blocked: []domain.PortKey{"color"}},
		},
		Connections: []document.Connection{
			{From: document.Endpoint{Node: "switch", Port: "isOn"}, To: document.Endpoint{Node: "label", Port: "visible"}},
		},
		Selection:       []string{"label"},
		CollapsedGroups: []string{"frame"},
	}
}

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	docID := "contract-test-doc-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractDocument(docID)
		require.NoError(t, store.Save(ctx, doc), "Save should not return error")

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, docID, loaded.ID)
		assert.Equal(t, "Contract", loaded.Title)
		assert.Equal(t, 3, loaded.Count())
		assert.Equal(t, doc.Connections, loaded.Connections)
		assert.Equal(t, doc.Selection, loaded.Selection)
		assert.Equal(t, doc.CollapsedGroups, loaded.CollapsedGroups)

		label := loaded.Layers[0].Children[0]
		assert.Equal(t, "hi", label.Inputs["text"])
		// numbers may come back as another numeric kind; the document must still build
		assert.NotNil(t, label.Inputs["opacity"])
		assert.NoError(t, document.Validate(loaded))
	})

	t.Run("Load is isolated from the saved value", func(t *testing.T) {
		doc := contractDocument(docID)
		require.NoError(t, store.Save(ctx, doc))
		doc.Layers[0].ID = "mutated"

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "frame", loaded.Layers[0].ID)
	})

	t.Run("Overwrite", func(t *testing.T) {
		doc := contractDocument(docID)
		doc.Title = "Second"
		require.NoError(t, store.Save(ctx, doc))

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "Second", loaded.Title)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractDocument(docID)))

		require.NoError(t, store.Delete(ctx, docID), "Delete should not return error")

		_, err := store.Load(ctx, docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")

		assert.NoError(t, store.Delete(ctx, docID), "Delete of a missing document is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := docID + "-1"
		id2 := docID + "-2"
		require.NoError(t, store.Save(ctx, contractDocument(id1)))
		require.NoError(t, store.Save(ctx, contractDocument(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
