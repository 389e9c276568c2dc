package projection

import (
	"fmt"

	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/graph"
)

// InputObserver is an inspector row: a single port, or a merged view over
// the same port of every selected layer.
type InputObserver interface {
	Key() domain.PortKey
	Value() domain.Value
	Blocked() bool
	SetValue(domain.Value) error
}

var (
	_ InputObserver = (*graph.PortObserver)(nil)
	_ InputObserver = (*MergedObserver)(nil)
)

// MergedObserver fans one inspector edit out to the same input on several nodes.
type MergedObserver struct {
	key     domain.PortKey
	members []*graph.PortObserver
}

// NewMergedObserver groups ports sharing key. members must be non-empty.
func NewMergedObserver(key domain.PortKey, members []*graph.PortObserver) *MergedObserver {
	return &MergedObserver{key: key, members: members}
}

func (m *MergedObserver) Key() domain.PortKey { return m.key }

// Members returns the underlying ports in selection order.
func (m *MergedObserver) Members() []*graph.PortObserver {
	return append([]*graph.PortObserver(nil), m.members...)
}

// Value returns the first member's value, the representative shown when values differ.
func (m *MergedObserver) Value() domain.Value {
	return m.members[0].Value()
}

// Mixed reports whether the members currently hold different values.
func (m *MergedObserver) Mixed() bool {
	first := m.members[0].Value()
	for _, p := range m.members[1:] {
		if p.Value() != first {
			return true
		}
	}
	return false
}

// Blocked reports whether any member is blocked; such a row cannot be edited.
func (m *MergedObserver) Blocked() bool {
	for _, p := range m.members {
		if p.Blocked() {
			return true
		}
	}
	return false
}

// SetValue applies v to every member, or to none: all members are validated
// before the first one is written.
func (m *MergedObserver) SetValue(v domain.Value) error {
	for _, p := range m.members {
		if err := p.CanSet(v); err != nil {
			return fmt.Errorf("multiselect %s: %w", m.key, err)
		}
	}
	for _, p := range m.members {
		if err := p.SetValue(v); err != nil {
			return err
		}
	}
	return nil
}
