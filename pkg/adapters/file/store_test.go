package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/layergraph/pkg/adapters/file"
	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunDocumentStoreContract(t, store)
}

func TestFileStore_ReadsHandWrittenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "landing.json"),
		[]byte(`{"layers":[{"id":"hero","type":"image"}]}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	store := file.New(dir)
	ctx := context.Background()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"landing"}, ids)

	doc, err := store.Load(ctx, "landing")
	require.NoError(t, err)
	assert.Equal(t, "landing", doc.ID)
	assert.Equal(t, "hero", doc.Layers[0].ID)

	require.NoError(t, store.Delete(ctx, "landing"))
	_, err = os.Stat(filepath.Join(dir, "landing.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, &document.Document{ID: "../escape"}))
	_, err := store.Load(ctx, "a/b")
	assert.Error(t, err)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".layergraph", "documents"), file.New("").BasePath)
}

func TestFileStore_ListsTmpPrefixedIDs(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &document.Document{ID: "tmp-card"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.123.tmp"), []byte("partial"), 0644))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tmp-card"}, ids)
}
