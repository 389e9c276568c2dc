package http

import (
	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/projection"
	"github.com/aretw0/layergraph/pkg/store"
)

type sidebarItem struct {
	NodeID      string           `json:"node_id"`
	Depth       int              `json:"depth"`
	Index       int              `json:"index"`
	Title       string           `json:"title"`
	Type        domain.LayerType `json:"type"`
	HasChildren bool             `json:"has_children"`
	Collapsed   bool             `json:"collapsed"`
	Hidden      int              `json:"hidden,omitempty"`
	Selected    bool             `json:"selected"`
}

type sidebarView struct {
	Items []sidebarItem `json:"items"`
}

type portView struct {
	Key       domain.PortKey   `json:"key"`
	Type      domain.ValueType `json:"type"`
	Value     any              `json:"value"`
	Blocked   bool             `json:"blocked"`
	Mixed     bool             `json:"mixed,omitempty"`
	Connected bool             `json:"connected,omitempty"`
}

type sectionView struct {
	Name      string     `json:"name"`
	Collapsed bool       `json:"collapsed"`
	Inputs    []portView `json:"inputs"`
}

type inspectorView struct {
	Header      string        `json:"header"`
	NodeID      string        `json:"node_id"`
	Multiselect bool          `json:"multiselect"`
	Sections    []sectionView `json:"sections"`
	Outputs     []portView    `json:"outputs"`
}

func newSidebarView(v store.ReadView) sidebarView {
	sel := make(map[string]bool, len(v.Selection))
	for _, id := range v.Selection {
		sel[id] = true
	}
	tree, col, items := v.Tree, v.CollapsedGroups, v.Flatten()

	view := sidebarView{Items: make([]sidebarItem, 0, len(items))}
	for _, it := range items {
		n, ok := tree.Node(it.NodeID)
		if !ok {
			continue
		}
		item := sidebarItem{
			NodeID:      it.NodeID,
			Depth:       it.Depth,
			Index:       it.Index,
			Title:       n.Title(),
			Type:        n.LayerType(),
			HasChildren: len(n.Children()) > 0,
			Collapsed:   col[it.NodeID],
			Selected:    sel[it.NodeID],
		}
		if item.Collapsed {
			item.Hidden = projection.HiddenCount(tree, col, it.NodeID)
		}
		view.Items = append(view.Items, item)
	}
	return view
}

func newPortView(in projection.InputObserver) portView {
	v := in.Value()
	pv := portView{
		Key:     in.Key(),
		Type:    v.Type,
		Value:   document.EncodeValue(v),
		Blocked: in.Blocked(),
	}
	switch p := in.(type) {
	case *projection.MergedObserver:
		pv.Mixed = p.Mixed()
	case *graph.PortObserver:
		pv.Connected = p.Connected()
	}
	return pv
}

func newInspectorView(insp *projection.Inspection) inspectorView {
	view := inspectorView{
		Header:      insp.Header,
		Multiselect: insp.Multiselect,
		Sections:    make([]sectionView, 0, len(insp.Sections)),
		Outputs:     make([]portView, 0, len(insp.Outputs)),
	}
	if insp.Node != nil {
		view.NodeID = insp.Node.ID()
	}
	for _, sec := range insp.Sections {
		sv := sectionView{Name: sec.Name, Collapsed: sec.Collapsed, Inputs: make([]portView, 0, len(sec.Inputs))}
		for _, in := range sec.Inputs {
			sv.Inputs = append(sv.Inputs, newPortView(in))
		}
		view.Sections = append(view.Sections, sv)
	}
	for _, out := range insp.Outputs {
		view.Outputs = append(view.Outputs, newPortView(out))
	}
	return view
}
