package graph

import (
	"fmt"
	"slices"

	"github.com/aretw0/layergraph/pkg/domain"
)

// PortObserver holds the value and connection state of one port on a node
// and notifies subscribers when either changes.
type PortObserver struct {
	node    *Node
	kind    domain.PortKind
	key     domain.PortKey
	accepts []domain.ValueType
	value   domain.Value
	blocked bool

	upstream   *PortObserver   // inputs only
	downstream []*PortObserver // outputs only

	subs    map[int]func(*PortObserver)
	nextSub int
}

func newPort(owner *Node, kind domain.PortKind, key domain.PortKey, initial domain.Value, accepts ...domain.ValueType) *PortObserver {
	if len(accepts) == 0 && !initial.IsZero() {
		accepts = []domain.ValueType{initial.Type}
	}
	return &PortObserver{
		node:    owner,
		kind:    kind,
		key:     key,
		accepts: accepts,
		value:   initial,
	}
}

func (p *PortObserver) Key() domain.PortKey   { return p.key }
func (p *PortObserver) Kind() domain.PortKind { return p.kind }
func (p *PortObserver) Value() domain.Value   { return p.value }
func (p *PortObserver) Blocked() bool         { return p.blocked }
func (p *PortObserver) Node() *Node           { return p.node }

// Address returns the (node, kind, key) identity of the port.
func (p *PortObserver) Address() domain.PortAddress {
	return domain.PortAddress{NodeID: p.node.id, Kind: p.kind, Key: p.key}
}

// Accepts reports whether values of type t may be stored in the port.
func (p *PortObserver) Accepts(t domain.ValueType) bool {
	return slices.Contains(p.accepts, t)
}

// Upstream returns the output feeding this input, if any.
func (p *PortObserver) Upstream() (*PortObserver, bool) {
	return p.upstream, p.upstream != nil
}

// Downstream returns the inputs fed by this output, in connection order.
func (p *PortObserver) Downstream() []*PortObserver {
	return slices.Clone(p.downstream)
}

// Connected reports whether the port has at least one edge.
func (p *PortObserver) Connected() bool {
	return p.upstream != nil || len(p.downstream) > 0
}

// SetValue stores v, marks the owning node dirty and propagates the value to
// connected downstream inputs. The port is left untouched on error.
func (p *PortObserver) SetValue(v domain.Value) error {
	if err := p.CanSet(v); err != nil {
		return err
	}
	p.assign(v)
	return nil
}

// CanSet reports the error SetValue would return for v, without side effects.
// An input with an upstream only takes values pushed by that upstream.
func (p *PortObserver) CanSet(v domain.Value) error {
	if p.upstream != nil {
		return fmt.Errorf("%s: %w", p.Address(), domain.ErrPortDriven)
	}
	return p.canHold(v)
}

func (p *PortObserver) canHold(v domain.Value) error {
	if !p.Accepts(v.Type) {
		return fmt.Errorf("%s does not accept %s: %w", p.Address(), v.Type, domain.ErrTypeMismatch)
	}
	if p.blocked {
		return fmt.Errorf("%s: %w", p.Address(), domain.ErrPortBlocked)
	}
	return nil
}

func (p *PortObserver) assign(v domain.Value) {
	if p.value == v {
		return
	}
	p.value = v
	p.node.MarkDirty()
	p.notify()
	for _, in := range p.downstream {
		in.receive(v)
	}
}

// receive applies a value pushed from upstream. Values the input cannot hold are dropped.
func (p *PortObserver) receive(v domain.Value) {
	if p.canHold(v) != nil {
		return
	}
	p.assign(v)
}

// SetBlocked enables or disables the port structurally.
// Blocking drops every existing edge so a blocked port is never connected.
func (p *PortObserver) SetBlocked(blocked bool) {
	if p.blocked == blocked {
		return
	}
	if blocked {
		p.Disconnect()
	}
	p.blocked = blocked
	p.notify()
}

// Subscribe registers fn to be called after every change of value, blocked
// flag or connection. The returned function cancels the subscription.
func (p *PortObserver) Subscribe(fn func(*PortObserver)) (cancel func()) {
	if p.subs == nil {
		p.subs = make(map[int]func(*PortObserver))
	}
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() { delete(p.subs, id) }
}

func (p *PortObserver) notify() {
	ids := make([]int, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := p.subs[id]; ok {
			fn(p)
		}
	}
}

// Connect wires an output to an input, in either argument order.
// An input that already has an upstream is rewired to the new output.
// On success the input immediately takes the output's current value.
func Connect(a, b *PortObserver) error {
	if a.kind == b.kind {
		return fmt.Errorf("connect %s to %s: %w", a.Address(), b.Address(), domain.ErrIncompatibleDirection)
	}
	out, in := a, b
	if out.kind == domain.PortInput {
		out, in = b, a
	}
	if out.blocked || in.blocked {
		return fmt.Errorf("connect %s to %s: %w", out.Address(), in.Address(), domain.ErrPortBlocked)
	}
	if !out.value.IsZero() && !in.Accepts(out.value.Type) {
		return fmt.Errorf("connect %s to %s: %w", out.Address(), in.Address(), domain.ErrTypeMismatch)
	}
	if in.upstream == out {
		return nil
	}

	if in.upstream != nil {
		in.upstream.removeDownstream(in)
		in.upstream.notify()
	}
	in.upstream = out
	out.downstream = append(out.downstream, in)

	out.notify()
	in.notify()
	if !out.value.IsZero() {
		in.receive(out.value)
	}
	return nil
}

// Disconnect removes every edge of the port. It is a no-op on an unconnected port.
func (p *PortObserver) Disconnect() {
	if !p.Connected() {
		return
	}
	if up := p.upstream; up != nil {
		up.removeDownstream(p)
		p.upstream = nil
		up.notify()
	}
	for _, in := range p.downstream {
		in.upstream = nil
		in.notify()
	}
	p.downstream = nil
	p.notify()
}

func (p *PortObserver) removeDownstream(in *PortObserver) {
	p.downstream = slices.DeleteFunc(p.downstream, func(d *PortObserver) bool { return d == in })
}
