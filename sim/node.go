package sim

import (
	"log"

	"github.com/gridlab/relay/logic"
)

// NodeKind distinguishes input nodes from output nodes.
type NodeKind int

// The two node kinds.
const (
	InputNode NodeKind = iota
	OutputNode
)

func (k NodeKind) String() string {
	if k == InputNode {
		return "input"
	}
	return "output"
}

// A Node is a typed connection point owned by a component. An input node is
// driven by at most one incoming wire and mirrors the visible value of that
// wire's source. An output node is assigned by its owner's commit step and
// fans out to any number of wires.
//
// The component exclusively owns its nodes; a node holds only a non-owning
// back-reference to the component.
type Node struct {
	id    NodeID
	kind  NodeKind
	owner Component
	index int
	label string

	reg   *Registry
	tl    *Timeline
	alive bool

	// For input nodes, value is the mirrored upstream value. For output
	// nodes, value is the computed value assigned by commit; the visible
	// value is the forced value when one is set.
	value    logic.Value
	forced   *logic.Value
	incoming *Wire
	outgoing []*Wire
}

func newNode(
	reg *Registry,
	tl *Timeline,
	owner Component,
	kind NodeKind,
	index int,
	label string,
) *Node {
	n := &Node{
		id:    reg.Allocate(),
		kind:  kind,
		owner: owner,
		index: index,
		label: label,
		reg:   reg,
		tl:    tl,
		alive: true,
		value: logic.Low,
	}
	reg.add(n)

	return n
}

// ID returns the node's document-stable id.
func (n *Node) ID() NodeID {
	return n.id
}

// Kind returns whether the node is an input or an output.
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Owner returns the component the node belongs to.
func (n *Node) Owner() Component {
	return n.owner
}

// Index returns the node's position in its owner's input or output tuple.
func (n *Node) Index() int {
	return n.index
}

// Label returns the display-only, non-authoritative name of the node.
func (n *Node) Label() string {
	return n.label
}

// Alive reports whether the node has not been destroyed.
func (n *Node) Alive() bool {
	return n.alive
}

// Incoming returns the wire driving an input node, or nil.
func (n *Node) Incoming() *Wire {
	return n.incoming
}

// Outgoing returns the wires fanning out of an output node.
func (n *Node) Outgoing() []*Wire {
	return n.outgoing
}

// Visible returns the value the node presents to the rest of the graph. For
// an output node a forced value overrides the computed one.
func (n *Node) Visible() logic.Value {
	if n.kind == OutputNode && n.forced != nil {
		return *n.forced
	}
	return n.value
}

// Force returns the forced value of an output node, if one is set.
func (n *Node) Force() (logic.Value, bool) {
	if n.forced == nil {
		return logic.Low, false
	}
	return *n.forced, true
}

// SetForce overrides the computed value of an output node with a user-chosen
// one. If the visible value changes, the change propagates like any other.
func (n *Node) SetForce(v logic.Value) {
	n.mustBeOutput("SetForce")

	before := n.Visible()
	n.forced = &v
	n.visibleChanged(before)
}

// ClearForce removes the forced value; the node shows its computed value
// again.
func (n *Node) ClearForce() {
	n.mustBeOutput("ClearForce")

	before := n.Visible()
	n.forced = nil
	n.visibleChanged(before)
}

// ForceMismatch reports whether a forced value currently disagrees with the
// computed one. The flag is advisory; it is surfaced to the rendering
// collaborator, never raised as an error.
func (n *Node) ForceMismatch() bool {
	return n.forced != nil && *n.forced != n.value
}

// Destroy removes the node from the registry and detaches every attached
// wire, so that no wire ever references a dead node. Events already scheduled
// against the node become silent no-ops.
func (n *Node) Destroy() {
	if !n.alive {
		return
	}

	if n.incoming != nil {
		n.incoming.Detach()
	}
	for len(n.outgoing) > 0 {
		n.outgoing[0].Detach()
	}

	n.reg.remove(n)
	n.alive = false
}

// setComputed assigns the computed value from the owner's commit step. A
// change of the visible value schedules an update on every outgoing wire.
func (n *Node) setComputed(v logic.Value) {
	n.mustBeOutput("setComputed")

	before := n.Visible()
	n.value = v
	n.visibleChanged(before)
}

func (n *Node) visibleChanged(before logic.Value) {
	after := n.Visible()
	if after == before {
		return
	}

	n.tl.InvokeHook(HookCtx{
		Domain: n.tl,
		Pos:    HookPosNodeUpdate,
		Item:   n,
		Detail: after,
	})

	for _, w := range n.outgoing {
		w.send(after)
	}
}

// setFromWire updates an input node with the value arriving over its wire.
// The owner is notified once per individual transition.
func (n *Node) setFromWire(v logic.Value) {
	if !n.alive {
		return
	}

	if v == n.value {
		return
	}

	n.value = v

	n.tl.InvokeHook(HookCtx{
		Domain: n.tl,
		Pos:    HookPosNodeUpdate,
		Item:   n,
		Detail: v,
	})

	if n.owner != nil {
		n.owner.NotifyInput(n.index)
	}
}

func (n *Node) mustBeOutput(op string) {
	if n.kind != OutputNode {
		log.Panicf("%s called on %s node %d", op, n.kind, n.id)
	}
}
