// Package flipflop provides the edge-triggered D flip-flop component.
package flipflop

import (
	"github.com/gridlab/relay/logic"
	"github.com/gridlab/relay/sim"
)

// Input indices.
const (
	InData = iota
	InClock
	InClear
)

// Output indices.
const (
	OutQ = iota
	OutQn
)

// A Comp is a D flip-flop. It retains one bit of memory across
// recalculations and updates it only when the configured clock edge fires.
// Clear has the highest priority: while it is High the stored bit is zeroed
// regardless of the clock.
type Comp struct {
	*sim.ComponentBase

	trigger   sim.EdgeTrigger
	memory    logic.Value
	prevClock logic.Value
}

// Trigger returns the configured clock edge.
func (c *Comp) Trigger() sim.EdgeTrigger {
	return c.trigger
}

// Stored returns the retained bit.
func (c *Comp) Stored() logic.Value {
	return c.memory
}

// Recalc evaluates clear and the clock edge against the retained bit. An
// indeterminate clock never latches: the output keeps showing the unchanged
// stored bit.
func (c *Comp) Recalc() sim.State {
	clk := c.In(InClock)
	fired := c.trigger.Fires(c.prevClock, clk)
	c.prevClock = clk

	switch {
	case c.In(InClear) == logic.High:
		c.memory = logic.Low
	case fired == logic.High:
		d := c.In(InData)
		if !d.Determined() {
			d = logic.Unknown
		}
		c.memory = d
	}

	return sim.State{c.memory, c.memory.Not()}
}

// Builder builds flip-flop components.
type Builder struct {
	registry *sim.Registry
	timeline *sim.Timeline
	trigger  sim.EdgeTrigger
}

// MakeBuilder returns a new Builder configured for rising-edge triggering.
func MakeBuilder() Builder {
	return Builder{trigger: sim.RisingEdge}
}

// WithRegistry sets the node registry the flip-flop's nodes live in.
func (b Builder) WithRegistry(reg *sim.Registry) Builder {
	b.registry = reg
	return b
}

// WithTimeline sets the timeline propagation is scheduled on.
func (b Builder) WithTimeline(tl *sim.Timeline) Builder {
	b.timeline = tl
	return b
}

// WithTrigger sets the clock edge the flip-flop latches on.
func (b Builder) WithTrigger(t sim.EdgeTrigger) Builder {
	b.trigger = t
	return b
}

// Build builds a flip-flop component.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		trigger:   b.trigger,
		memory:    logic.Low,
		prevClock: logic.Low,
	}
	c.ComponentBase = sim.NewComponentBase(b.registry, b.timeline, name, c)

	c.AddInput("d")
	c.AddInput("clk")
	c.AddInput("clr")
	c.MarkEdgeSensitive(InClock)
	c.MarkEdgeSensitive(InClear)

	c.AddOutput("q")
	c.AddOutput("~q")

	c.Update()

	return c
}
