package sim

import (
	"github.com/gridlab/relay/logic"
)

// A Wire is a delayed, unidirectional channel from one output node to one
// input node. Transit is always deferred through the Timeline, even for a
// zero delay, so that a feedback cycle never recurses synchronously.
type Wire struct {
	start *Node
	end   *Node
	delay VTime
	tl    *Timeline
	alive bool
}

// Connect creates a wire from an output node to an input node. The input must
// not already be driven; use Reconnect to replace an existing wire
// explicitly. Attaching immediately re-derives the input's value from the
// source, without waiting for the wire delay.
func Connect(tl *Timeline, start, end *Node, delay VTime) (*Wire, error) {
	if err := checkEndpoints(start, end); err != nil {
		return nil, err
	}

	if end.incoming != nil {
		return nil, NewWiringError(
			"input node %d is already driven by a wire from node %d",
			end.id, end.incoming.start.id)
	}

	if delay < 0 {
		return nil, NewConfigurationError("wire delay %f is negative", delay)
	}

	w := &Wire{
		start: start,
		end:   end,
		delay: delay,
		tl:    tl,
		alive: true,
	}

	start.outgoing = append(start.outgoing, w)
	end.incoming = w
	end.setFromWire(start.Visible())

	return w, nil
}

// Reconnect replaces whatever wire currently drives the input node, then
// connects as Connect does.
func Reconnect(tl *Timeline, start, end *Node, delay VTime) (*Wire, error) {
	if err := checkEndpoints(start, end); err != nil {
		return nil, err
	}

	if end.incoming != nil {
		end.incoming.Detach()
	}

	return Connect(tl, start, end, delay)
}

func checkEndpoints(start, end *Node) error {
	if start == nil || end == nil {
		return NewWiringError("wire endpoint is missing")
	}

	if !start.alive || !end.alive {
		return NewWiringError("wire endpoint is destroyed")
	}

	if start.kind != OutputNode {
		return NewWiringError("wire source node %d is not an output", start.id)
	}

	if end.kind != InputNode {
		return NewWiringError("wire target node %d is not an input", end.id)
	}

	return nil
}

// Start returns the wire's source node.
func (w *Wire) Start() *Node {
	return w.start
}

// End returns the wire's target node.
func (w *Wire) End() *Node {
	return w.end
}

// Delay returns the wire's propagation delay.
func (w *Wire) Delay() VTime {
	return w.delay
}

// Alive reports whether the wire is still attached at both ends.
func (w *Wire) Alive() bool {
	return w.alive
}

// Detach disconnects the wire from both endpoints. The freed input reverts to
// its undriven default. Transit events still in flight become silent no-ops.
func (w *Wire) Detach() {
	if !w.alive {
		return
	}
	w.alive = false

	for i, o := range w.start.outgoing {
		if o == w {
			w.start.outgoing = append(
				w.start.outgoing[:i], w.start.outgoing[i+1:]...)
			break
		}
	}

	w.end.incoming = nil
	w.end.setFromWire(logic.Low)
}

// send schedules the delivery of a new source value to the wire's target. The
// value is captured at schedule time; the wire models transport, not a
// re-read at arrival.
func (w *Wire) send(v logic.Value) {
	fireAt, err := w.tl.After(w.delay)
	if err != nil {
		// The delay was validated at connect time.
		panic(err)
	}

	evt := &transitEvent{
		EventBase: NewEventBase(fireAt, w),
		value:     v,
	}

	if err := w.tl.ScheduleEvent(evt); err != nil {
		panic(err)
	}
}

// Handle delivers a transit event. A wire or endpoint destroyed after
// scheduling makes the delivery a no-op, never an error.
func (w *Wire) Handle(e Event) error {
	te := e.(*transitEvent)

	if !w.alive || !w.end.alive {
		return nil
	}

	w.end.setFromWire(te.value)
	return nil
}

type transitEvent struct {
	*EventBase
	value logic.Value
}
