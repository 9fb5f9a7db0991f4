package timing

import (
	"fmt"

	"github.com/sarchlab/stdp/fixed"
	"github.com/sarchlab/stdp/lut"
)

// PreTrace is the presynaptic trace x of one synapse.
type PreTrace int16

func (x PreTrace) String() string {
	return fmt.Sprintf("x=%d", int16(x))
}

// PreTracker refreshes and samples presynaptic traces. The pair and triplet
// rules share it.
type PreTracker struct {
	tauX   *lut.DecayLUT
	policy OrderPolicy
}

// NewPreTracker creates a tracker decaying with tauX.
func NewPreTracker(tauX *lut.DecayLUT, policy OrderPolicy) PreTracker {
	return PreTracker{tauX: tauX, policy: policy}
}

// Table returns the tau_x decay table.
func (p PreTracker) Table() *lut.DecayLUT {
	return p.tauX
}

// AddPreSpike decays lastTrace from lastTime to time and, unless flush is
// set, adds one unit for the spike at time.
//
// A flush reads the decayed trace at the end of an interval without
// recording a spike.
func (p PreTracker) AddPreSpike(
	time, lastTime Time,
	lastTrace PreTrace,
	flush bool,
) PreTrace {
	delta := p.policy.Elapsed(time, lastTime)

	newX := fixed.Mul(int32(lastTrace), p.tauX.Lookup(delta))
	if !flush {
		newX += fixed.One
	}

	return PreTrace(newX)
}

// Sample returns the value lastTrace has decayed to after dt timesteps.
func (p PreTracker) Sample(dt uint32, lastTrace PreTrace) int32 {
	return fixed.Mul(int32(lastTrace), p.tauX.Lookup(dt))
}
