package datarecording

import (
	"fmt"

	"github.com/sarchlab/stdp/hooking"
	"github.com/sarchlab/stdp/replay"
	"github.com/sarchlab/stdp/timing"
)

// Table names written by UpdateRecorder.
const (
	SpikeTable  = "spikes"
	TraceTable  = "traces"
	UpdateTable = "updates"
)

// SpikeEntry is a row of the spikes table.
type SpikeEntry struct {
	Time   uint32
	Side   string
	Neuron int
}

// TraceEntry is a row of the traces table. Synapse is -1 for postsynaptic
// traces, which belong to a neuron.
type TraceEntry struct {
	Time    uint32
	Synapse int
	Side    string
	Delta   uint32
	Flush   bool
	Trace   string
}

// UpdateEntry is a row of the updates table.
type UpdateEntry struct {
	Time      uint32
	Synapse   int
	Kind      string
	Delta     uint32
	Magnitude int32
}

// UpdateRecorder is a hook that writes what a replay dispatcher does into a
// DataRecorder.
type UpdateRecorder struct {
	recorder DataRecorder
}

// NewUpdateRecorder creates the recorder's tables on recorder.
func NewUpdateRecorder(recorder DataRecorder) *UpdateRecorder {
	recorder.CreateTable(SpikeTable, SpikeEntry{})
	recorder.CreateTable(TraceTable, TraceEntry{})
	recorder.CreateTable(UpdateTable, UpdateEntry{})

	return &UpdateRecorder{recorder: recorder}
}

// Func records one hook invocation.
func (r *UpdateRecorder) Func(ctx hooking.HookCtx) {
	synapse := -1
	if id, ok := ctx.Detail.(int); ok {
		synapse = id
	}

	switch ctx.Pos {
	case replay.HookPosSpike:
		s := ctx.Item.(replay.Spike)
		r.recorder.InsertData(SpikeTable, SpikeEntry{
			Time:   uint32(s.Time),
			Side:   s.Side.String(),
			Neuron: s.Neuron,
		})
	case timing.HookPosPreTrace, timing.HookPosPostTrace:
		refresh := ctx.Item.(timing.Refresh)
		side := replay.Pre
		if ctx.Pos == timing.HookPosPostTrace {
			side = replay.Post
			synapse = -1
		}

		r.recorder.InsertData(TraceTable, TraceEntry{
			Time:    uint32(refresh.Time),
			Synapse: synapse,
			Side:    side.String(),
			Delta:   refresh.Delta,
			Flush:   refresh.Flush,
			Trace:   fmt.Sprint(refresh.Trace),
		})
	case timing.HookPosPotentiation, timing.HookPosDepression:
		u := ctx.Item.(timing.Update)
		r.recorder.InsertData(UpdateTable, UpdateEntry{
			Time:      uint32(u.Time),
			Synapse:   synapse,
			Kind:      ctx.Pos.Name,
			Delta:     u.Delta,
			Magnitude: u.Magnitude,
		})
	}
}
