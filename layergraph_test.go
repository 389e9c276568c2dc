package layergraph_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/layergraph"
	"github.com/aretw0/layergraph/pkg/adapters/file"
	"github.com/aretw0/layergraph/pkg/adapters/memory"
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/dsl"
	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/layers"
)

func sample() *dsl.Builder {
	b := dsl.New("sample").Title("Sample")
	b.Add("g", layers.Group)
	b.Add("t", layers.Text).Under("g")
	b.Add("o", layers.Oval)
	return b
}

func TestEditor_OpenSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	docs := file.New(t.TempDir())
	require.NoError(t, docs.Save(ctx, sample().Document()))

	ed := layergraph.New(layergraph.WithDocumentStore(docs))
	doc, err := ed.Open(ctx, "sample")
	require.NoError(t, err)
	assert.Equal(t, "Sample", doc.Title)

	again, err := ed.Open(ctx, "sample")
	require.NoError(t, err)
	assert.Same(t, doc, again, "open documents are cached")

	require.NoError(t, doc.Store.SetPortValue(domain.Input("t", "text"), domain.StringValue("saved")))
	require.NoError(t, doc.Store.MoveNode("o", "g", 0))
	require.NoError(t, ed.Save(ctx, "sample"))

	fresh := layergraph.New(layergraph.WithDocumentStore(docs))
	reopened, err := fresh.Open(ctx, "sample")
	require.NoError(t, err)
	assert.Equal(t, doc.Store.Flatten(), reopened.Store.Flatten())

	require.NoError(t, reopened.Store.SetSelection("t"))
	insp, ok := reopened.Store.Inspect()
	require.True(t, ok)
	text, ok := insp.Input("text")
	require.True(t, ok)
	assert.Equal(t, domain.StringValue("saved"), text.Value())
}

func TestEditor_OpenMissing(t *testing.T) {
	ed := layergraph.New()
	_, err := ed.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.True(t, layergraph.IsNotFound(err))

	assert.ErrorIs(t, ed.Save(context.Background(), "nope"), domain.ErrDocumentNotFound)
}

func TestEditor_ImportInvalid(t *testing.T) {
	b := dsl.New("bad")
	b.Add("x", "hologram")
	_, err := layergraph.New().Import(b.Document())
	assert.Error(t, err)
}

func TestEditor_ImportInvalidKeepsOpenDocument(t *testing.T) {
	ctx := context.Background()
	ed := layergraph.New()
	doc, err := ed.Create(ctx, sample().Document())
	require.NoError(t, err)
	require.NoError(t, doc.Store.SetPortValue(domain.Input("t", "opacity"), domain.NumberValue(0.25)))

	bad := dsl.New("sample")
	bad.Add("x", "bogus")
	_, err = ed.Import(bad.Document())
	require.Error(t, err)

	again, err := ed.Open(ctx, "sample")
	require.NoError(t, err)
	assert.Same(t, doc, again, "the open document survives a rejected import")
	assert.Equal(t, 0.25, again.Store.Snapshot("sample", "").Layers[0].Children[0].Inputs["opacity"])
}

func TestEditor_ImportReplacesOpenDocument(t *testing.T) {
	ed := layergraph.New()
	first, err := ed.Import(sample().Document())
	require.NoError(t, err)

	second, err := ed.Import(sample().Title("Second").Document())
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	again, err := ed.Open(context.Background(), "sample")
	require.NoError(t, err)
	assert.Same(t, second, again)
}

func TestEditor_ConnectedPortsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	ed := layergraph.New()
	b := dsl.New("wired")
	b.Add("sw", layers.Toggle)
	b.Add("dot", layers.Oval)
	b.Connect("sw", "isOn", "dot", "visible")
	doc, err := ed.Create(ctx, b.Document())
	require.NoError(t, err)

	visible := domain.Input("dot", "visible")
	assert.ErrorIs(t, doc.Store.SetPortValue(visible, domain.BoolValue(false)), domain.ErrPortDriven)
	require.NoError(t, doc.Store.SetPortValue(domain.Output("sw", "isOn"), domain.BoolValue(true)))
	require.NoError(t, ed.Save(ctx, "wired"))
	ed.Close("wired")

	reopened, err := ed.Open(ctx, "wired")
	require.NoError(t, err)
	assert.NotSame(t, doc, reopened)
	reopened.Store.View(func(tree *graph.Tree) {
		n, _ := tree.Node("dot")
		p, _ := n.Input("visible")
		assert.Equal(t, domain.BoolValue(true), p.Value())
	})
}

func TestEditor_DocumentsAndDelete(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	ed := layergraph.New(layergraph.WithDocumentStore(docs))

	_, err := ed.Create(ctx, sample().Document())
	require.NoError(t, err)
	_, err = ed.Import(dsl.New("scratch").Document())
	require.NoError(t, err)

	ids, err := ed.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sample", "scratch"}, ids)

	require.NoError(t, ed.Delete(ctx, "sample"))
	_, err = docs.Load(ctx, "sample")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestEditor_SubscribeAndHooks(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	var hooked int

	ed := layergraph.New(layergraph.WithHooks(domain.MutationHooks{
		OnMutation: func(*domain.MutationEvent) { hooked++ },
	}))
	cancel := ed.Subscribe(func(docID string, ev domain.MutationEvent) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, docID+":"+string(ev.Type))
	})

	doc, err := ed.Import(sample().Document())
	require.NoError(t, err)
	require.NoError(t, doc.Store.SetSelection("t"))

	cancel()
	doc.Store.ToggleSectionCollapsed("Common")

	assert.Equal(t, []string{"sample:restore_snapshot", "sample:set_selection"}, seen)
	assert.Equal(t, 3, hooked)
}

func TestEditor_WithSections(t *testing.T) {
	ed := layergraph.New(layergraph.WithSections([]domain.Section{{Name: "Only", Ports: []domain.PortKey{"text"}}}))
	doc, err := ed.Import(sample().Document())
	require.NoError(t, err)
	require.NoError(t, doc.Store.SetSelection("t"))

	insp, ok := doc.Store.Inspect()
	require.True(t, ok)
	assert.Equal(t, "Only", insp.Sections[0].Name)
	assert.Equal(t, domain.PortKey("text"), insp.Inputs[0].Key())
}
