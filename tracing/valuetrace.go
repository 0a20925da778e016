package tracing

import (
	"github.com/gridlab/relay/logic"
	"github.com/gridlab/relay/sim"
)

// ValueTraceTable is the table value transitions are recorded into.
const ValueTraceTable = "node_values"

// A ValueTraceEntry records one visible-value transition of one node.
type ValueTraceEntry struct {
	Time  float64
	Node  int64
	Label string
	Value string
}

// A ValueTraceHook listens on a timeline and records every node update it
// announces.
type ValueTraceHook struct {
	recorder Recorder
}

// NewValueTraceHook creates a hook that records into the given recorder and
// prepares the trace table.
func NewValueTraceHook(recorder Recorder) *ValueTraceHook {
	recorder.CreateTable(ValueTraceTable, ValueTraceEntry{})
	return &ValueTraceHook{recorder: recorder}
}

// Func records a node update; other hook positions are ignored.
func (h *ValueTraceHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosNodeUpdate {
		return
	}

	node := ctx.Item.(*sim.Node)
	value := ctx.Detail.(logic.Value)
	tl := ctx.Domain.(*sim.Timeline)

	h.recorder.InsertData(ValueTraceTable, ValueTraceEntry{
		Time:  float64(tl.Now()),
		Node:  int64(node.ID()),
		Label: node.Label(),
		Value: value.String(),
	})
}
