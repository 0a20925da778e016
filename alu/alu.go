// Package alu provides the 4-bit arithmetic logic unit component.
package alu

import (
	"github.com/gridlab/relay/logic"
	"github.com/gridlab/relay/sim"
)

// Input indices. A and B are 4-bit operands, least significant bit first.
const (
	InA0 = iota
	InA1
	InA2
	InA3
	InB0
	InB1
	InB2
	InB3
	InOp0
	InOp1
	InCarryIn

	numInputs
)

// Output indices. S is the 4-bit result; V carries the final carry-out for
// addition and the borrow for subtraction; Z is the zero flag.
const (
	OutS0 = iota
	OutS1
	OutS2
	OutS3
	OutV
	OutZ

	numOutputs
)

// The four operations, selected by the two opcode bits (Op1 Op0).
const (
	opAdd = 0b00
	opSub = 0b01
	opOr  = 0b10
	opAnd = 0b11
)

// A Comp is a 4-bit ALU. The two opcode bits select add, subtract, or, and.
// An indeterminate opcode bit leaves the operation itself undetermined, so
// every output goes Unknown.
type Comp struct {
	*sim.ComponentBase
}

// Recalc computes the selected operation over the present operands.
func (c *Comp) Recalc() sim.State {
	op0, op1 := c.In(InOp0), c.In(InOp1)
	if !op0.Determined() || !op1.Determined() {
		return allUnknown()
	}

	a := c.InWord(InA0)
	b := c.InWord(InB0)

	var (
		result logic.Word
		v      logic.Value
	)

	opcode := 0
	if op0 == logic.High {
		opcode |= 0b01
	}
	if op1 == logic.High {
		opcode |= 0b10
	}

	switch opcode {
	case opAdd:
		result, v = logic.AddWords(a, b, c.In(InCarryIn))
	case opSub:
		result, v = logic.SubWords(a, b)
	case opOr:
		result, v = logic.OrWords(a, b), logic.Low
	case opAnd:
		result, v = logic.AndWords(a, b), logic.Low
	}

	return sim.State{
		result[0], result[1], result[2], result[3],
		v,
		logic.ZeroFlag(result),
	}
}

func allUnknown() sim.State {
	s := make(sim.State, numOutputs)
	for i := range s {
		s[i] = logic.Unknown
	}
	return s
}

// Builder builds ALU components.
type Builder struct {
	registry *sim.Registry
	timeline *sim.Timeline
}

// MakeBuilder returns a new Builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithRegistry sets the node registry the ALU's nodes live in.
func (b Builder) WithRegistry(reg *sim.Registry) Builder {
	b.registry = reg
	return b
}

// WithTimeline sets the timeline propagation is scheduled on.
func (b Builder) WithTimeline(tl *sim.Timeline) Builder {
	b.timeline = tl
	return b
}

// Build builds an ALU component.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}
	c.ComponentBase = sim.NewComponentBase(b.registry, b.timeline, name, c)

	for _, label := range []string{"a0", "a1", "a2", "a3"} {
		c.AddInput(label)
	}
	for _, label := range []string{"b0", "b1", "b2", "b3"} {
		c.AddInput(label)
	}
	c.AddInput("op0")
	c.AddInput("op1")
	c.AddInput("cin")

	for _, label := range []string{"s0", "s1", "s2", "s3"} {
		c.AddOutput(label)
	}
	c.AddOutput("v")
	c.AddOutput("z")

	c.Update()

	return c
}
