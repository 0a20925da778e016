package circuit

import (
	"github.com/pkg/errors"

	"github.com/gridlab/relay/sim"
)

// A Circuit owns the registry, the timeline, and the components of one
// document. It is the operation boundary: wiring and mapping errors raised
// here are fatal only to the offending operation and leave the rest of the
// graph valid.
type Circuit struct {
	reg   *sim.Registry
	tl    *sim.Timeline
	comps []sim.Component
}

// New creates an empty circuit with a fresh registry and timeline.
func New() *Circuit {
	return &Circuit{
		reg: sim.NewRegistry(),
		tl:  sim.NewTimeline(),
	}
}

// Registry returns the circuit's node-id registry.
func (c *Circuit) Registry() *sim.Registry {
	return c.reg
}

// Timeline returns the circuit's timeline.
func (c *Circuit) Timeline() *sim.Timeline {
	return c.tl
}

// Components returns the live components.
func (c *Circuit) Components() []sim.Component {
	return c.comps
}

// AddComponent registers a component with the circuit.
func (c *Circuit) AddComponent(comp sim.Component) {
	c.comps = append(c.comps, comp)
}

// RemoveComponent destroys a component and forgets it. All its nodes die and
// their wires detach.
func (c *Circuit) RemoveComponent(comp sim.Component) {
	comp.Destroy()

	for i, have := range c.comps {
		if have == comp {
			c.comps = append(c.comps[:i], c.comps[i+1:]...)
			return
		}
	}
}

// Connect wires the output node outID to the input node inID with the given
// delay. Unresolvable ids are MappingErrors; illegal topology is a
// WiringError.
func (c *Circuit) Connect(outID, inID sim.NodeID, delay sim.VTime) (*sim.Wire, error) {
	start, end, err := c.endpoints(outID, inID)
	if err != nil {
		return nil, err
	}

	w, err := sim.Connect(c.tl, start, end, delay)
	return w, errors.Wrap(err, "connect")
}

// Reconnect is Connect with an explicit replace of whatever wire currently
// drives the input.
func (c *Circuit) Reconnect(outID, inID sim.NodeID, delay sim.VTime) (*sim.Wire, error) {
	start, end, err := c.endpoints(outID, inID)
	if err != nil {
		return nil, err
	}

	w, err := sim.Reconnect(c.tl, start, end, delay)
	return w, errors.Wrap(err, "reconnect")
}

// Disconnect detaches the wire driving the input node inID, if any.
func (c *Circuit) Disconnect(inID sim.NodeID) error {
	n := c.reg.Lookup(inID)
	if n == nil {
		return sim.NewMappingError("no live node with id %d", inID)
	}

	if w := n.Incoming(); w != nil {
		w.Detach()
	}

	return nil
}

func (c *Circuit) endpoints(outID, inID sim.NodeID) (*sim.Node, *sim.Node, error) {
	start := c.reg.Lookup(outID)
	if start == nil {
		return nil, nil, sim.NewMappingError("no live node with id %d", outID)
	}

	end := c.reg.Lookup(inID)
	if end == nil {
		return nil, nil, sim.NewMappingError("no live node with id %d", inID)
	}

	return start, end, nil
}

// Clear destroys every component and resets the registry, as when the
// document is replaced.
func (c *Circuit) Clear() {
	for _, comp := range c.comps {
		comp.Destroy()
	}
	c.comps = nil
	c.reg.Clear()
}

// A NodeView is the read-only projection of one node handed to the rendering
// collaborator.
type NodeView struct {
	ID            sim.NodeID `json:"id"`
	Component     string     `json:"component"`
	Label         string     `json:"label"`
	Kind          string     `json:"kind"`
	Value         string     `json:"value"`
	ForceMismatch bool       `json:"forceMismatch,omitempty"`
}

// Snapshot projects every live node: its visible value, its display label,
// and the advisory forced-vs-computed mismatch flag.
func (c *Circuit) Snapshot() []NodeView {
	var views []NodeView

	for _, comp := range c.comps {
		for _, n := range comp.Inputs() {
			views = append(views, nodeView(comp, n))
		}
		for _, n := range comp.Outputs() {
			views = append(views, nodeView(comp, n))
		}
	}

	return views
}

func nodeView(comp sim.Component, n *sim.Node) NodeView {
	return NodeView{
		ID:            n.ID(),
		Component:     comp.Name(),
		Label:         n.Label(),
		Kind:          n.Kind().String(),
		Value:         n.Visible().String(),
		ForceMismatch: n.ForceMismatch(),
	}
}
