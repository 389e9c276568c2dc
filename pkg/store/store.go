package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/layergraph/internal/logging"
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/layers"
	"github.com/aretw0/layergraph/pkg/projection"
)

// Store owns a layer tree and the editor state referring to it.
// Safe for concurrent use; all access is serialised.
type Store struct {
	mu sync.Mutex

	tree              *graph.Tree
	selection         []string
	collapsedSections map[string]bool
	collapsedGroups   map[string]bool

	sections []domain.Section
	hooks    []domain.MutationHooks
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Store holding an empty tree.
func New(opts ...Option) *Store {
	s := &Store{
		tree:              graph.NewTree(),
		collapsedSections: make(map[string]bool),
		collapsedGroups:   make(map[string]bool),
		sections:          layers.DefaultSections(),
		logger:            logging.NewNop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InsertNode adds n to the tree.
func (s *Store) InsertNode(n *graph.Node, opts ...graph.InsertOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tree.Insert(n, opts...); err != nil {
		return s.reject(domain.MutationInsertNode, err)
	}
	s.emit(domain.MutationEvent{Type: domain.MutationInsertNode, NodeIDs: []string{n.ID()}})
	return nil
}

// RemoveNode deletes a node with all of its descendants and forgets them in
// the selection and the collapsed groups. It returns the removed ids.
func (s *Store) RemoveNode(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.tree.Remove(id)
	if err != nil {
		return nil, s.reject(domain.MutationRemoveNode, err)
	}
	gone := make(map[string]bool, len(removed))
	for _, r := range removed {
		gone[r] = true
		delete(s.collapsedGroups, r)
	}
	s.selection = slices.DeleteFunc(s.selection, func(sel string) bool { return gone[sel] })

	s.emit(domain.MutationEvent{Type: domain.MutationRemoveNode, NodeIDs: removed})
	return removed, nil
}

// MoveNode reparents id under parent ("" for root) at index.
func (s *Store) MoveNode(id, parent string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tree.Move(id, parent, index); err != nil {
		return s.reject(domain.MutationMoveNode, err)
	}
	s.emit(domain.MutationEvent{Type: domain.MutationMoveNode, NodeIDs: []string{id}})
	return nil
}

// SetPortValue edits a single port.
func (s *Store) SetPortValue(addr domain.PortAddress, v domain.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.port(addr)
	if err == nil {
		err = p.SetValue(v)
	}
	if err != nil {
		return s.reject(domain.MutationSetPortValue, err)
	}
	s.emit(domain.MutationEvent{Type: domain.MutationSetPortValue, NodeIDs: []string{addr.NodeID}, Port: &addr})
	return nil
}

// SetPortBlocked structurally enables or disables a port.
func (s *Store) SetPortBlocked(addr domain.PortAddress, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.port(addr)
	if err != nil {
		return s.reject(domain.MutationSetPortBlocked, err)
	}
	p.SetBlocked(blocked)
	s.emit(domain.MutationEvent{Type: domain.MutationSetPortBlocked, NodeIDs: []string{addr.NodeID}, Port: &addr})
	return nil
}

// ConnectPorts wires an output to an input (in either order).
func (s *Store) ConnectPorts(a, b domain.PortAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pa, err := s.port(a)
	if err != nil {
		return s.reject(domain.MutationConnectPorts, err)
	}
	pb, err := s.port(b)
	if err != nil {
		return s.reject(domain.MutationConnectPorts, err)
	}
	if err := graph.Connect(pa, pb); err != nil {
		return s.reject(domain.MutationConnectPorts, err)
	}
	s.emit(domain.MutationEvent{Type: domain.MutationConnectPorts, NodeIDs: []string{a.NodeID, b.NodeID}, Port: &b})
	return nil
}

// DisconnectPort removes every edge of a port. Unconnected ports are a no-op.
func (s *Store) DisconnectPort(addr domain.PortAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.port(addr)
	if err != nil {
		return s.reject(domain.MutationDisconnectPort, err)
	}
	p.Disconnect()
	s.emit(domain.MutationEvent{Type: domain.MutationDisconnectPort, NodeIDs: []string{addr.NodeID}, Port: &addr})
	return nil
}

// ToggleSectionCollapsed flips an inspector section and returns whether it is now collapsed.
// The state applies to every inspected layer.
func (s *Store) ToggleSectionCollapsed(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	collapsed := !s.collapsedSections[section]
	if collapsed {
		s.collapsedSections[section] = true
	} else {
		delete(s.collapsedSections, section)
	}
	s.emit(domain.MutationEvent{Type: domain.MutationToggleSection, Section: section})
	return collapsed
}

// ToggleGroupCollapsed flips the sidebar expansion of a node and returns whether it is now collapsed.
func (s *Store) ToggleGroupCollapsed(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tree.Node(id); !ok {
		return false, s.reject(domain.MutationToggleGroup, fmt.Errorf("toggle %q: %w", id, domain.ErrNodeNotFound))
	}
	collapsed := !s.collapsedGroups[id]
	if collapsed {
		s.collapsedGroups[id] = true
	} else {
		delete(s.collapsedGroups, id)
	}
	s.emit(domain.MutationEvent{Type: domain.MutationToggleGroup, NodeIDs: []string{id}})
	return collapsed, nil
}

// SetSelection replaces the focused layers. Order is kept and duplicates are dropped.
// Unknown ids reject the whole call.
func (s *Store) SetSelection(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.tree.Node(id); !ok {
			return s.reject(domain.MutationSetSelection, fmt.Errorf("select %q: %w", id, domain.ErrNodeNotFound))
		}
		if !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	s.selection = sel
	s.emit(domain.MutationEvent{Type: domain.MutationSetSelection, NodeIDs: slices.Clone(sel)})
	return nil
}

// SetInspectorValue edits the inspector row key of the current inspection.
// In multiselect the edit fans out to every focused layer, all or nothing.
func (s *Store) SetInspectorValue(key domain.PortKey, v domain.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insp, ok := projection.Inspect(s.tree, s.selection, s.collapsedSections, s.sections)
	if !ok {
		return s.reject(domain.MutationInspectorEdit, fmt.Errorf("inspector edit %s: nothing inspected: %w", key, domain.ErrNodeNotFound))
	}
	row, ok := insp.Input(key)
	if !ok {
		return s.reject(domain.MutationInspectorEdit, fmt.Errorf("inspector edit %s: %w", key, domain.ErrPortNotFound))
	}
	if err := row.SetValue(v); err != nil {
		return s.reject(domain.MutationInspectorEdit, err)
	}
	s.emit(domain.MutationEvent{Type: domain.MutationInspectorEdit, NodeIDs: slices.Clone(s.selection)})
	return nil
}

// Flatten returns the sidebar rows under the current collapse state.
func (s *Store) Flatten() []projection.FlattenedListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projection.Flatten(s.tree, s.collapsedGroups)
}

// Inspect returns the inspector view of the current selection.
// Port observers in the result are live: edit them through the store.
func (s *Store) Inspect() (*projection.Inspection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projection.Inspect(s.tree, s.selection, s.collapsedSections, s.sections)
}

// View runs fn with read access to the tree under the store lock.
// fn must not retain the tree or mutate it.
func (s *Store) View(fn func(tree *graph.Tree)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tree)
}

// Selection returns the focused layer ids in selection order.
func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selection)
}

// IsMultiselect reports whether more than one layer is focused.
func (s *Store) IsMultiselect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selection) > 1
}

// CollapsedSections returns the collapsed inspector sections, sorted.
func (s *Store) CollapsedSections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.collapsedSections)
}

// CollapsedGroups returns the collapsed sidebar nodes, sorted.
func (s *Store) CollapsedGroups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.collapsedGroups)
}

// Sections returns the injected section enumeration.
func (s *Store) Sections() []domain.Section {
	return s.sections
}

func (s *Store) port(addr domain.PortAddress) (*graph.PortObserver, error) {
	n, ok := s.tree.Node(addr.NodeID)
	if !ok {
		return nil, fmt.Errorf("port %s: %w", addr, domain.ErrNodeNotFound)
	}
	p, ok := n.Port(addr.Kind, addr.Key)
	if !ok {
		return nil, fmt.Errorf("port %s: %w", addr, domain.ErrPortNotFound)
	}
	return p, nil
}

func (s *Store) emit(e domain.MutationEvent) {
	e.Timestamp = s.now()
	for _, h := range s.hooks {
		if h.OnMutation != nil {
			h.OnMutation(&e)
		}
	}
}

func (s *Store) reject(t domain.MutationType, err error) error {
	s.logger.Debug("mutation rejected", "mutation", t, "err", err)
	r := domain.MutationRejection{Type: t, Err: err}
	for _, h := range s.hooks {
		if h.OnReject != nil {
			h.OnReject(&r)
		}
	}
	return err
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
