package sim

import (
	"github.com/gridlab/relay/logic"
)

// An EdgeTrigger selects which clock transition a sequential component
// latches on.
type EdgeTrigger int

// The two trigger edges.
const (
	RisingEdge EdgeTrigger = iota
	FallingEdge
)

func (t EdgeTrigger) String() string {
	if t == FallingEdge {
		return "falling"
	}
	return "rising"
}

// ParseEdgeTrigger parses the persisted rendering of a trigger. Anything but
// "rising" or "falling" is a ConfigurationError.
func ParseEdgeTrigger(s string) (EdgeTrigger, error) {
	switch s {
	case "rising":
		return RisingEdge, nil
	case "falling":
		return FallingEdge, nil
	}
	return RisingEdge, NewConfigurationError("unknown edge trigger %q", s)
}

// Fires evaluates the trigger for one clock transition. Rising fires on a
// Low-to-High transition, falling on High-to-Low. Any Unknown or HiZ clock
// operand makes the result Unknown: the component must not commit memory on
// an edge it cannot be sure happened.
func (t EdgeTrigger) Fires(prev, curr logic.Value) logic.Value {
	if !prev.Determined() || !curr.Determined() {
		return logic.Unknown
	}

	if t == RisingEdge {
		return logic.FromBool(prev == logic.Low && curr == logic.High)
	}

	return logic.FromBool(prev == logic.High && curr == logic.Low)
}
