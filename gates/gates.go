// Package gates provides the combinational gate components.
package gates

import (
	"log"

	"github.com/gridlab/relay/logic"
	"github.com/gridlab/relay/sim"
)

// A Kind names a gate function.
type Kind int

// The supported gate kinds. Buffer and Not take one input; the rest take two.
const (
	Buffer Kind = iota
	Not
	And
	Or
	Nand
	Nor
	Xor
	Xnor
)

var kindNames = map[Kind]string{
	Buffer: "buffer",
	Not:    "not",
	And:    "and",
	Or:     "or",
	Nand:   "nand",
	Nor:    "nor",
	Xor:    "xor",
	Xnor:   "xnor",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return "unknown"
	}
	return name
}

// ParseKind parses the persisted rendering of a gate kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return Buffer, sim.NewConfigurationError("unknown gate kind %q", s)
}

// Arity returns the number of inputs the kind takes.
func (k Kind) Arity() int {
	if k == Buffer || k == Not {
		return 1
	}
	return 2
}

// A Comp is a gate. Its output is a total, memoryless function of its present
// inputs, with indeterminate operands handled by the dominance rules of the
// logic package.
type Comp struct {
	*sim.ComponentBase

	kind Kind
	eval func(*Comp) logic.Value
}

// Kind returns the gate's function.
func (c *Comp) Kind() Kind {
	return c.kind
}

// Recalc computes the output from the present inputs.
func (c *Comp) Recalc() sim.State {
	return sim.State{c.eval(c)}
}

// The evaluation function is picked once at construction; the kind tag is not
// re-checked per transition.
var evalFuncs = map[Kind]func(*Comp) logic.Value{
	Buffer: func(c *Comp) logic.Value {
		v := c.In(0)
		if !v.Determined() {
			return logic.Unknown
		}
		return v
	},
	Not:  func(c *Comp) logic.Value { return c.In(0).Not() },
	And:  func(c *Comp) logic.Value { return logic.And(c.In(0), c.In(1)) },
	Or:   func(c *Comp) logic.Value { return logic.Or(c.In(0), c.In(1)) },
	Nand: func(c *Comp) logic.Value { return logic.And(c.In(0), c.In(1)).Not() },
	Nor:  func(c *Comp) logic.Value { return logic.Or(c.In(0), c.In(1)).Not() },
	Xor:  func(c *Comp) logic.Value { return logic.Xor(c.In(0), c.In(1)) },
	Xnor: func(c *Comp) logic.Value { return logic.Xor(c.In(0), c.In(1)).Not() },
}

// Builder builds gate components.
type Builder struct {
	registry *sim.Registry
	timeline *sim.Timeline
	kind     Kind
}

// MakeBuilder returns a new Builder.
func MakeBuilder() Builder {
	return Builder{kind: Buffer}
}

// WithRegistry sets the node registry the gate's nodes live in.
func (b Builder) WithRegistry(reg *sim.Registry) Builder {
	b.registry = reg
	return b
}

// WithTimeline sets the timeline propagation is scheduled on.
func (b Builder) WithTimeline(tl *sim.Timeline) Builder {
	b.timeline = tl
	return b
}

// WithKind sets the gate function.
func (b Builder) WithKind(kind Kind) Builder {
	b.kind = kind
	return b
}

// Build builds a gate component.
func (b Builder) Build(name string) *Comp {
	eval, ok := evalFuncs[b.kind]
	if !ok {
		log.Panicf("unknown gate kind %d", b.kind)
	}

	c := &Comp{
		kind: b.kind,
		eval: eval,
	}
	c.ComponentBase = sim.NewComponentBase(b.registry, b.timeline, name, c)

	if b.kind.Arity() == 1 {
		c.AddInput("in")
	} else {
		c.AddInput("a")
		c.AddInput("b")
	}
	c.AddOutput("out")

	c.Update()

	return c
}
