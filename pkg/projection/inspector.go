package projection

import (
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
)

// SectionView is one inspector section with the inputs it shows.
type SectionView struct {
	Name      string
	Collapsed bool
	Inputs    []InputObserver
}

// Inspection is what the inspector panel displays for the focused layers.
type Inspection struct {
	Header string
	// Node is the inspected layer, or the first selected layer in multiselect
	// where it only serves as a fallback for display.
	Node        *graph.Node
	Multiselect bool
	Inputs      []InputObserver
	Sections    []SectionView
	Outputs     []*graph.PortObserver
}

// Input returns the row for key, if shown.
func (i *Inspection) Input(key domain.PortKey) (InputObserver, bool) {
	for _, in := range i.Inputs {
		if in.Key() == key {
			return in, true
		}
	}
	return nil, false
}

// Inspect reduces the selection to the inspector view. It returns false
// ("no projection") for an empty tree or selection, and whenever the data
// needed cannot be resolved: a selected id missing from the tree or a layer
// type unknown to the catalog.
func Inspect(tree *graph.Tree, selection []string, collapsed map[string]bool, sections []domain.Section) (*Inspection, bool) {
	if tree.Len() == 0 || len(selection) == 0 {
		return nil, false
	}
	if len(selection) == 1 {
		return inspectOne(tree, selection[0], collapsed, sections)
	}
	return inspectMany(tree, selection, collapsed, sections)
}

func inspectOne(tree *graph.Tree, id string, collapsed map[string]bool, sections []domain.Section) (*Inspection, bool) {
	n, ok := tree.Node(id)
	if !ok {
		return nil, false
	}
	supported, ok := n.SupportedInputs()
	if !ok {
		return nil, false
	}

	ports := n.FilteredInputObservers(supported, sections)
	inputs := make([]InputObserver, len(ports))
	for i, p := range ports {
		inputs[i] = p
	}
	return &Inspection{
		Header:   n.Title(),
		Node:     n,
		Inputs:   inputs,
		Sections: group(inputs, collapsed, sections),
		Outputs:  n.Outputs(),
	}, true
}

func inspectMany(tree *graph.Tree, selection []string, collapsed map[string]bool, sections []domain.Section) (*Inspection, bool) {
	nodes := make([]*graph.Node, 0, len(selection))
	var common []domain.PortKey
	for i, id := range selection {
		n, ok := tree.Node(id)
		if !ok {
			return nil, false
		}
		supported, ok := n.SupportedInputs()
		if !ok {
			return nil, false
		}
		present := keysOf(n.FilteredInputObservers(supported, sections))
		if i == 0 {
			common = present
		} else {
			common = intersect(common, present)
		}
		nodes = append(nodes, n)
	}

	inputs := make([]InputObserver, 0, len(common))
	for _, key := range common {
		members := make([]*graph.PortObserver, 0, len(nodes))
		for _, n := range nodes {
			p, _ := n.Input(key)
			members = append(members, p)
		}
		inputs = append(inputs, NewMergedObserver(key, members))
	}

	return &Inspection{
		Header:      domain.MultiselectHeader,
		Node:        nodes[0],
		Multiselect: true,
		Inputs:      inputs,
		Sections:    group(inputs, collapsed, sections),
	}, true
}

// group splits inputs by section, keeping section order. Inputs outside every
// section land in a trailing unnamed section. Empty sections are omitted.
func group(inputs []InputObserver, collapsed map[string]bool, sections []domain.Section) []SectionView {
	owner := make(map[domain.PortKey]string)
	for _, s := range sections {
		for _, k := range s.Ports {
			if _, taken := owner[k]; !taken {
				owner[k] = s.Name
			}
		}
	}

	byName := make(map[string][]InputObserver)
	var other []InputObserver
	for _, in := range inputs {
		name, ok := owner[in.Key()]
		if !ok {
			other = append(other, in)
			continue
		}
		byName[name] = append(byName[name], in)
	}

	var views []SectionView
	for _, s := range sections {
		rows := byName[s.Name]
		if len(rows) == 0 {
			continue
		}
		views = append(views, SectionView{Name: s.Name, Collapsed: collapsed[s.Name], Inputs: rows})
		delete(byName, s.Name)
	}
	if len(other) > 0 {
		views = append(views, SectionView{Name: "", Collapsed: collapsed[""], Inputs: other})
	}
	return views
}

func keysOf(ports []*graph.PortObserver) []domain.PortKey {
	out := make([]domain.PortKey, len(ports))
	for i, p := range ports {
		out[i] = p.Key()
	}
	return out
}

// intersect keeps the order of a.
func intersect(a, b []domain.PortKey) []domain.PortKey {
	in := make(map[domain.PortKey]bool, len(b))
	for _, k := range b {
		in[k] = true
	}
	out := a[:0:0]
	for _, k := range a {
		if in[k] {
			out = append(out, k)
		}
	}
	return out
}
