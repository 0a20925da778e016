package sim

import (
	"log"

	"github.com/gridlab/relay/logic"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Component is an element of the graph that recomputes its outputs when an
// input changes.
type Component interface {
	Named

	Inputs() []*Node
	Outputs() []*Node

	// NotifyInput tells the component that the input node at the given
	// index transitioned to a new visible value.
	NotifyInput(index int)

	// Destroy detaches and invalidates all the component's nodes.
	Destroy()
}

// A Calculator produces the component's next internal state from its current
// input values and, for sequential kinds, its retained memory. Recalc must be
// pure with respect to the graph: it never assigns nodes and never
// propagates. Propagation is strictly the caller's responsibility one level
// up.
type Calculator interface {
	Recalc() State
}

// State is the internal value a recalculation produces: one entry per output
// node.
type State []logic.Value

// Equal compares two states entry by entry.
func (s State) Equal(o State) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// ComponentBase provides the recalculate-and-commit plumbing shared by all
// component kinds. Concrete components embed it and implement Recalc.
type ComponentBase struct {
	name string
	reg  *Registry
	tl   *Timeline
	calc Calculator

	inputs  []*Node
	outputs []*Node

	edgeSensitive map[int]bool

	last      State
	committed bool
	alive     bool
}

// NewComponentBase creates a ComponentBase. The calc argument is the concrete
// component embedding the base.
func NewComponentBase(
	reg *Registry,
	tl *Timeline,
	name string,
	calc Calculator,
) *ComponentBase {
	c := new(ComponentBase)
	c.name = name
	c.reg = reg
	c.tl = tl
	c.calc = calc
	c.edgeSensitive = make(map[int]bool)
	c.alive = true
	return c
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}

// Inputs returns the component's ordered input tuple.
func (c *ComponentBase) Inputs() []*Node {
	return c.inputs
}

// Outputs returns the component's ordered output tuple.
func (c *ComponentBase) Outputs() []*Node {
	return c.outputs
}

// AddInput appends an input node to the tuple and returns it.
func (c *ComponentBase) AddInput(label string) *Node {
	n := newNode(c.reg, c.tl, c.self(), InputNode, len(c.inputs), label)
	c.inputs = append(c.inputs, n)
	return n
}

// AddOutput appends an output node to the tuple and returns it.
func (c *ComponentBase) AddOutput(label string) *Node {
	n := newNode(c.reg, c.tl, c.self(), OutputNode, len(c.outputs), label)
	c.outputs = append(c.outputs, n)
	return n
}

// MarkEdgeSensitive marks an input (a clock or a clear) whose transitions
// must be processed even when the recomputed state momentarily equals the
// committed one. Edge-triggered latching is wrong without this.
func (c *ComponentBase) MarkEdgeSensitive(inputIndex int) {
	if inputIndex < 0 || inputIndex >= len(c.inputs) {
		log.Panicf("no input at index %d on %s", inputIndex, c.name)
	}
	c.edgeSensitive[inputIndex] = true
}

// In returns the visible value of the input node at the given index. It is
// the accessor Recalc implementations read their operands through.
func (c *ComponentBase) In(index int) logic.Value {
	return c.inputs[index].Visible()
}

// InWord assembles four consecutive inputs, starting at lsb, into a word.
func (c *ComponentBase) InWord(lsb int) logic.Word {
	var w logic.Word
	for i := range w {
		w[i] = c.In(lsb + i)
	}
	return w
}

// NotifyInput recalculates in response to one individual input transition and
// commits if the state changed. A transition on an edge-sensitive input
// always commits; skipping it would lose the edge.
func (c *ComponentBase) NotifyInput(index int) {
	if !c.alive {
		return
	}

	next := c.calc.Recalc()
	if c.committed && next.Equal(c.last) && !c.edgeSensitive[index] {
		return
	}

	c.commit(next)
}

// Update performs the initial recalculation after construction or load, so
// that the outputs reflect the inputs before any transition arrives.
func (c *ComponentBase) Update() {
	if !c.alive {
		return
	}

	c.commit(c.calc.Recalc())
}

// commit assigns each output node's computed value from the state. It is
// invoked only when the state differs from the last committed one, which
// prevents redundant propagation and runaway self-triggering.
func (c *ComponentBase) commit(s State) {
	if len(s) != len(c.outputs) {
		log.Panicf("%s produced %d values for %d outputs",
			c.name, len(s), len(c.outputs))
	}

	c.last = append(State(nil), s...)
	c.committed = true

	for i, out := range c.outputs {
		out.setComputed(s[i])
	}
}

// LastCommitted returns the most recently committed state.
func (c *ComponentBase) LastCommitted() (State, bool) {
	return c.last, c.committed
}

// Alive reports whether the component has not been destroyed.
func (c *ComponentBase) Alive() bool {
	return c.alive
}

// Destroy detaches and invalidates every node of the component. Scheduled
// events that reference them become silent no-ops.
func (c *ComponentBase) Destroy() {
	if !c.alive {
		return
	}
	c.alive = false

	for _, n := range c.inputs {
		n.Destroy()
	}
	for _, n := range c.outputs {
		n.Destroy()
	}
}

// self returns the embedding component when the calculator is one, so that
// nodes can point back at the concrete type rather than the base.
func (c *ComponentBase) self() Component {
	if comp, ok := c.calc.(Component); ok {
		return comp
	}
	return c
}
