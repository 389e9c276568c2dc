package store_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/layers"
	"github.com/aretw0/layergraph/pkg/projection"
	"github.com/aretw0/layergraph/pkg/store"
)

type recorder struct {
	events   []domain.MutationEvent
	rejected []domain.MutationRejection
}

func (r *recorder) hooks() domain.MutationHooks {
	return domain.MutationHooks{
		OnMutation: func(e *domain.MutationEvent) { r.events = append(r.events, *e) },
		OnReject:   func(e *domain.MutationRejection) { r.rejected = append(r.rejected, *e) },
	}
}

func (r *recorder) types() []domain.MutationType {
	var out []domain.MutationType
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// newStore builds: A (text), B (oval), G (group) > [C (rectangle), D (toggle)].
func newStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	s := store.New(opts...)
	require.NoError(t, s.InsertNode(graph.NewNode("A", layers.Text, graph.WithTitle("Headline"))))
	require.NoError(t, s.InsertNode(graph.NewNode("B", layers.Oval)))
	require.NoError(t, s.InsertNode(graph.NewNode("G", layers.Group)))
	require.NoError(t, s.InsertNode(graph.NewNode("C", layers.Rectangle), graph.Under("G")))
	require.NoError(t, s.InsertNode(graph.NewNode("D", layers.Toggle), graph.Under("G")))
	return s
}

func ids(items []projection.FlattenedListItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.NodeID)
	}
	return out
}

func portValue(t *testing.T, s *store.Store, addr domain.PortAddress) domain.Value {
	t.Helper()
	var v domain.Value
	s.View(func(tree *graph.Tree) {
		n, ok := tree.Node(addr.NodeID)
		require.True(t, ok)
		p, ok := n.Port(addr.Kind, addr.Key)
		require.True(t, ok)
		v = p.Value()
	})
	return v
}

func TestInsertAndFlatten(t *testing.T) {
	s := newStore(t)
	items := s.Flatten()
	assert.Equal(t, []string{"A", "B", "G", "C", "D"}, ids(items))
	assert.Equal(t, 1, items[3].Depth)
	assert.Equal(t, 4, items[4].Index)

	err := s.InsertNode(graph.NewNode("A", layers.Oval))
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	err = s.InsertNode(graph.NewNode("X", layers.Oval), graph.Under("nope"))
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	err = s.InsertNode(graph.NewNode("", layers.Oval), graph.Under("G"))
	assert.ErrorIs(t, err, domain.ErrEmptyID)
	assert.Len(t, s.Flatten(), 5)
}

func TestConcurrentMutationsAndProjections(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetSelection("A", "B"))

	const rounds = 200
	var wg sync.WaitGroup
	run := func(fn func(i int)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rounds {
				fn(i)
			}
		}()
	}

	run(func(i int) {
		assert.NoError(t, s.SetInspectorValue("opacity", domain.NumberValue(float64(i)/rounds)))
	})
	run(func(i int) {
		assert.NoError(t, s.MoveNode("B", "G", 0))
		assert.NoError(t, s.MoveNode("B", "", 1))
	})
	run(func(int) {
		items := s.Flatten()
		assert.ElementsMatch(t, []string{"A", "B", "G", "C", "D"}, ids(items))
	})
	run(func(int) {
		insp, ok := s.Inspect()
		if assert.True(t, ok) {
			assert.True(t, insp.Multiselect)
		}
	})
	run(func(int) {
		s.Read(func(v store.ReadView) {
			items := v.Flatten()
			assert.Len(t, items, 5)
			for i, it := range items {
				assert.Equal(t, i, it.Index)
			}
			insp, ok := v.Inspect()
			if !assert.True(t, ok) {
				return
			}
			row, ok := insp.Input("opacity")
			if assert.True(t, ok) {
				assert.False(t, row.(*projection.MergedObserver).Mixed(), "fan-out is never seen half applied")
			}
		})
	})

	wg.Wait()
	assert.Equal(t, domain.NumberValue(float64(rounds-1)/rounds), portValue(t, s, domain.Input("B", "opacity")))
	assert.Equal(t, []string{"A", "B", "G", "C", "D"}, ids(s.Flatten()))
}

func TestToggleGroupCollapsed(t *testing.T) {
	s := newStore(t)

	collapsed, err := s.ToggleGroupCollapsed("G")
	require.NoError(t, err)
	assert.True(t, collapsed)
	assert.Equal(t, []string{"A", "B", "G"}, ids(s.Flatten()))
	assert.Equal(t, []string{"G"}, s.CollapsedGroups())

	collapsed, err = s.ToggleGroupCollapsed("G")
	require.NoError(t, err)
	assert.False(t, collapsed)
	assert.Equal(t, []string{"A", "B", "G", "C", "D"}, ids(s.Flatten()))

	_, err = s.ToggleGroupCollapsed("missing")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestRemoveNodePrunesState(t *testing.T) {
	rec := &recorder{}
	s := newStore(t, store.WithHooks(rec.hooks()))
	require.NoError(t, s.SetSelection("A", "C", "D"))
	_, err := s.ToggleGroupCollapsed("G")
	require.NoError(t, err)

	removed, err := s.RemoveNode("G")
	require.NoError(t, err)
	assert.Equal(t, []string{"G", "C", "D"}, removed)
	assert.Equal(t, []string{"A"}, s.Selection())
	assert.Empty(t, s.CollapsedGroups())
	assert.Equal(t, []string{"A", "B"}, ids(s.Flatten()))

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, domain.MutationRemoveNode, last.Type)
	assert.Equal(t, removed, last.NodeIDs)

	_, err = s.RemoveNode("G")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestMoveNodeRejectsCycle(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.MoveNode("A", "G", 0))
	assert.Equal(t, []string{"B", "G", "A", "C", "D"}, ids(s.Flatten()))

	err := s.MoveNode("G", "A", 0)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.Equal(t, []string{"B", "G", "A", "C", "D"}, ids(s.Flatten()))
}

func TestSetPortValue(t *testing.T) {
	s := newStore(t)
	addr := domain.Input("A", "opacity")

	require.NoError(t, s.SetPortValue(addr, domain.NumberValue(0.3)))
	assert.Equal(t, domain.NumberValue(0.3), portValue(t, s, addr))

	err := s.SetPortValue(addr, domain.StringValue("half"))
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
	assert.Equal(t, domain.NumberValue(0.3), portValue(t, s, addr))

	require.NoError(t, s.SetPortBlocked(addr, true))
	err = s.SetPortValue(addr, domain.NumberValue(1))
	assert.ErrorIs(t, err, domain.ErrPortBlocked)

	err = s.SetPortValue(domain.Input("A", "isOn"), domain.BoolValue(true))
	assert.ErrorIs(t, err, domain.ErrPortNotFound)
	err = s.SetPortValue(domain.Input("Z", "opacity"), domain.NumberValue(1))
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestConnectPorts(t *testing.T) {
	rec := &recorder{}
	s := newStore(t, store.WithHooks(rec.hooks()))

	t.Run("input to input is rejected without change", func(t *testing.T) {
		before := len(rec.events)
		err := s.ConnectPorts(domain.Input("A", "visible"), domain.Input("B", "visible"))
		assert.ErrorIs(t, err, domain.ErrIncompatibleDirection)
		assert.Len(t, rec.events, before)
		require.NotEmpty(t, rec.rejected)
		assert.Equal(t, domain.MutationConnectPorts, rec.rejected[len(rec.rejected)-1].Type)
		assert.Equal(t, domain.BoolValue(true), portValue(t, s, domain.Input("B", "visible")))
		assert.Equal(t, []string{"A", "B", "G", "C", "D"}, ids(s.Flatten()))
	})

	t.Run("output drives input", func(t *testing.T) {
		require.NoError(t, s.ConnectPorts(domain.Output("D", "isOn"), domain.Input("A", "visible")))
		assert.Equal(t, domain.BoolValue(false), portValue(t, s, domain.Input("A", "visible")))

		require.NoError(t, s.SetPortValue(domain.Output("D", "isOn"), domain.BoolValue(true)))
		assert.Equal(t, domain.BoolValue(true), portValue(t, s, domain.Input("A", "visible")))
	})

	t.Run("disconnect stops propagation", func(t *testing.T) {
		require.NoError(t, s.DisconnectPort(domain.Input("A", "visible")))
		require.NoError(t, s.SetPortValue(domain.Output("D", "isOn"), domain.BoolValue(false)))
		assert.Equal(t, domain.BoolValue(true), portValue(t, s, domain.Input("A", "visible")))
		assert.NoError(t, s.DisconnectPort(domain.Input("A", "visible")), "disconnect is idempotent")
	})

	t.Run("blocked target", func(t *testing.T) {
		require.NoError(t, s.SetPortBlocked(domain.Input("B", "visible"), true))
		err := s.ConnectPorts(domain.Output("D", "isOn"), domain.Input("B", "visible"))
		assert.ErrorIs(t, err, domain.ErrPortBlocked)
	})
}

func TestInspectSelection(t *testing.T) {
	s := newStore(t)

	_, ok := s.Inspect()
	assert.False(t, ok, "empty selection yields no projection")

	require.NoError(t, s.SetSelection("A"))
	insp, ok := s.Inspect()
	require.True(t, ok)
	assert.Equal(t, "Headline", insp.Header)
	assert.False(t, insp.Multiselect)

	err := s.SetSelection("A", "ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.Equal(t, []string{"A"}, s.Selection(), "rejected selection keeps the previous one")

	require.NoError(t, s.SetSelection("B", "A", "B"))
	assert.Equal(t, []string{"B", "A"}, s.Selection())
	assert.True(t, s.IsMultiselect())
}

func TestInspectorMultiselectFanOut(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetSelection("A", "B"))

	insp, ok := s.Inspect()
	require.True(t, ok)
	assert.Equal(t, domain.MultiselectHeader, insp.Header)
	_, ok = insp.Input("opacity")
	require.True(t, ok)

	require.NoError(t, s.SetInspectorValue("opacity", domain.NumberValue(0.4)))
	assert.Equal(t, domain.NumberValue(0.4), portValue(t, s, domain.Input("A", "opacity")))
	assert.Equal(t, domain.NumberValue(0.4), portValue(t, s, domain.Input("B", "opacity")))

	err := s.SetInspectorValue("text", domain.StringValue("x"))
	assert.ErrorIs(t, err, domain.ErrPortNotFound, "text is not shared by an oval")

	require.NoError(t, s.SetPortBlocked(domain.Input("B", "opacity"), true))
	err = s.SetInspectorValue("opacity", domain.NumberValue(0.9))
	assert.ErrorIs(t, err, domain.ErrPortBlocked)
	assert.Equal(t, domain.NumberValue(0.4), portValue(t, s, domain.Input("A", "opacity")), "fan-out is all or nothing")
}

func TestInspectorValueWithoutSelection(t *testing.T) {
	s := newStore(t)
	err := s.SetInspectorValue("opacity", domain.NumberValue(0.5))
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestDisjointMultiselect(t *testing.T) {
	s := store.New()
	require.NoError(t, s.InsertNode(graph.NewNode("T", layers.Text)))
	require.NoError(t, s.InsertNode(graph.NewNode("L", layers.LinearGradient)))
	require.NoError(t, s.SetSelection("T", "L"))

	insp, ok := s.Inspect()
	require.True(t, ok)
	assert.Empty(t, insp.Inputs)
}

func TestToggleSectionCollapsed(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetSelection("A"))

	assert.True(t, s.ToggleSectionCollapsed("Common"))
	insp, ok := s.Inspect()
	require.True(t, ok)
	for _, sec := range insp.Sections {
		assert.Equal(t, sec.Name == "Common", sec.Collapsed, sec.Name)
	}

	require.NoError(t, s.SetSelection("B"))
	insp, _ = s.Inspect()
	for _, sec := range insp.Sections {
		if sec.Name == "Common" {
			assert.True(t, sec.Collapsed, "collapse state is shared across layers")
		}
	}

	assert.False(t, s.ToggleSectionCollapsed("Common"))
	assert.Empty(t, s.CollapsedSections())
}

func TestWithSections(t *testing.T) {
	sections := []domain.Section{{Name: "Look", Ports: []domain.PortKey{"opacity", "visible"}}}
	s := newStore(t, store.WithSections(sections))
	require.NoError(t, s.SetSelection("A"))

	insp, ok := s.Inspect()
	require.True(t, ok)
	require.NotEmpty(t, insp.Inputs)
	assert.Equal(t, domain.PortKey("opacity"), insp.Inputs[0].Key())
	assert.Equal(t, domain.PortKey("visible"), insp.Inputs[1].Key())
	assert.Equal(t, "Look", insp.Sections[0].Name)
}

func TestHooksReceiveEvents(t *testing.T) {
	rec := &recorder{}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := store.New(
		store.WithHooks(rec.hooks()),
		store.WithClock(func() time.Time { return at }),
	)

	require.NoError(t, s.InsertNode(graph.NewNode("A", layers.Text)))
	require.NoError(t, s.SetPortValue(domain.Input("A", "text"), domain.StringValue("hi")))
	require.NoError(t, s.SetSelection("A"))
	s.ToggleSectionCollapsed("Typography")

	assert.Equal(t, []domain.MutationType{
		domain.MutationInsertNode,
		domain.MutationSetPortValue,
		domain.MutationSetSelection,
		domain.MutationToggleSection,
	}, rec.types())
	assert.Equal(t, at, rec.events[0].Timestamp)
	require.NotNil(t, rec.events[1].Port)
	assert.Equal(t, domain.Input("A", "text"), *rec.events[1].Port)
	assert.Equal(t, "Typography", rec.events[3].Section)
	assert.Empty(t, rec.rejected)
}

func TestSnapshotRestore(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetPortValue(domain.Input("A", "text"), domain.StringValue("Hello")))
	require.NoError(t, s.ConnectPorts(domain.Output("D", "isOn"), domain.Input("C", "visible")))
	require.NoError(t, s.SetSelection("C", "A"))
	_, err := s.ToggleGroupCollapsed("G")
	require.NoError(t, err)
	s.ToggleSectionCollapsed("Style")

	require.NoError(t, s.SetPortValue(domain.Output("D", "isOn"), domain.BoolValue(true)))
	err = s.SetPortValue(domain.Input("C", "visible"), domain.BoolValue(false))
	assert.ErrorIs(t, err, domain.ErrPortDriven, "a connected input only follows its upstream")

	snap := s.Snapshot("doc", "Doc")
	assert.Equal(t, []string{"C", "A"}, snap.Selection)
	assert.Equal(t, []string{"G"}, snap.CollapsedGroups)
	assert.Equal(t, []string{"Style"}, snap.CollapsedSections)

	restored := store.New()
	require.NoError(t, restored.Restore(snap))
	assert.Equal(t, s.Flatten(), restored.Flatten())
	assert.Equal(t, s.Selection(), restored.Selection())
	assert.Equal(t, domain.StringValue("Hello"), portValue(t, restored, domain.Input("A", "text")))
	assert.Equal(t, portValue(t, s, domain.Input("C", "visible")), portValue(t, restored, domain.Input("C", "visible")),
		"connected inputs come back with the value their upstream pushes")
	assert.Equal(t, snap, restored.Snapshot("doc", "Doc"))

	snap.Layers[0].Type = "hologram"
	err = restored.Restore(snap)
	assert.Error(t, err)
	assert.Equal(t, s.Flatten(), restored.Flatten(), "failed restore leaves the store untouched")
}

func TestReadGivesConsistentView(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetSelection("C"))
	_, err := s.ToggleGroupCollapsed("G")
	require.NoError(t, err)

	s.Read(func(v store.ReadView) {
		assert.Equal(t, []string{"A", "B", "G"}, ids(v.Flatten()))
		insp, ok := v.Inspect()
		require.True(t, ok)
		assert.Equal(t, "C", insp.Node.ID())
		assert.True(t, v.CollapsedGroups["G"])
	})
}
