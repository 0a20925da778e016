// Package ram provides the 16-word by 4-bit random-access memory component.
package ram

import (
	"strings"

	"github.com/gridlab/relay/logic"
	"github.com/gridlab/relay/sim"
)

// Words is the number of addressable words.
const Words = 16

// Input indices. Address and data are 4-bit, least significant bit first.
const (
	InA0 = iota
	InA1
	InA2
	InA3
	InD0
	InD1
	InD2
	InD3
	InWriteEnable
	InClock
	InClear
)

// Output indices: the 4 bits of the addressed word.
const (
	OutO0 = iota
	OutO1
	OutO2
	OutO3
)

// A Comp is a 16x4 RAM. Reads are asynchronous; writes happen on the
// configured clock edge while write-enable is High. Clear has the highest
// priority and zeroes the entire memory. An indeterminate address makes the
// output Unknown and leaves memory untouched.
type Comp struct {
	*sim.ComponentBase

	trigger   sim.EdgeTrigger
	memory    [Words]logic.Word
	prevClock logic.Value
}

// Trigger returns the configured clock edge.
func (c *Comp) Trigger() sim.EdgeTrigger {
	return c.trigger
}

// Word returns the stored word at the given address.
func (c *Comp) Word(addr uint8) logic.Word {
	return c.memory[addr%Words]
}

// Recalc applies the priority chain: clear, indeterminate address, triggered
// write, plain read.
func (c *Comp) Recalc() sim.State {
	clk := c.In(InClock)
	fired := c.trigger.Fires(c.prevClock, clk)
	c.prevClock = clk

	if c.In(InClear) == logic.High {
		c.memory = [Words]logic.Word{}
		return wordState(logic.Word{})
	}

	addr, addrOK := c.InWord(InA0).Uint()
	if !addrOK {
		return wordState(logic.UnknownWord())
	}

	if c.In(InWriteEnable) == logic.High && fired == logic.High {
		word := c.InWord(InD0).Normalized()
		c.memory[addr] = word
		return wordState(word)
	}

	return wordState(c.memory[addr])
}

func wordState(w logic.Word) sim.State {
	return sim.State{w[0], w[1], w[2], w[3]}
}

// MemoryImage serializes the memory for persistence: one 4-character bit
// string per word, with trailing all-zero words trimmed.
func (c *Comp) MemoryImage() []string {
	last := -1
	for i, w := range c.memory {
		if w != (logic.Word{}) {
			last = i
		}
	}

	image := make([]string, last+1)
	for i := 0; i <= last; i++ {
		image[i] = c.memory[i].BitString()
	}
	return image
}

// LoadMemoryImage restores memory from a persisted image. Words missing from
// the tail are reconstructed as zero. A malformed word or an oversized image
// is a MappingError.
func (c *Comp) LoadMemoryImage(image []string) error {
	if len(image) > Words {
		return sim.NewMappingError(
			"memory image has %d words, at most %d fit", len(image), Words)
	}

	var memory [Words]logic.Word
	for i, s := range image {
		w, ok := logic.ParseWord(s)
		if !ok {
			return sim.NewMappingError("malformed memory word %q at %d", s, i)
		}
		memory[i] = w
	}

	c.memory = memory
	c.Update()

	return nil
}

// DumpMemory renders the whole memory, one word per line, for inspection.
func (c *Comp) DumpMemory() string {
	var sb strings.Builder
	for _, w := range c.memory {
		sb.WriteString(w.BitString())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Builder builds RAM components.
type Builder struct {
	registry *sim.Registry
	timeline *sim.Timeline
	trigger  sim.EdgeTrigger
}

// MakeBuilder returns a new Builder configured for rising-edge writes.
func MakeBuilder() Builder {
	return Builder{trigger: sim.RisingEdge}
}

// WithRegistry sets the node registry the RAM's nodes live in.
func (b Builder) WithRegistry(reg *sim.Registry) Builder {
	b.registry = reg
	return b
}

// WithTimeline sets the timeline propagation is scheduled on.
func (b Builder) WithTimeline(tl *sim.Timeline) Builder {
	b.timeline = tl
	return b
}

// WithTrigger sets the clock edge writes happen on.
func (b Builder) WithTrigger(t sim.EdgeTrigger) Builder {
	b.trigger = t
	return b
}

// Build builds a RAM component.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		trigger:   b.trigger,
		prevClock: logic.Low,
	}
	c.ComponentBase = sim.NewComponentBase(b.registry, b.timeline, name, c)

	for _, label := range []string{"a0", "a1", "a2", "a3"} {
		c.AddInput(label)
	}
	for _, label := range []string{"d0", "d1", "d2", "d3"} {
		c.AddInput(label)
	}
	c.AddInput("we")
	c.AddInput("clk")
	c.AddInput("clr")
	c.MarkEdgeSensitive(InClock)
	c.MarkEdgeSensitive(InClear)

	for _, label := range []string{"o0", "o1", "o2", "o3"} {
		c.AddOutput(label)
	}

	c.Update()

	return c
}
