package timing

import (
	"fmt"

	"github.com/sarchlab/stdp/fixed"
	"github.com/sarchlab/stdp/lut"
)

// A PostTracker is the postsynaptic half of a rule. T is the trace kept per
// neuron.
type PostTracker[T any] interface {
	// InitialTrace is the trace of a neuron that has never spiked.
	InitialTrace() T

	// AddPostSpike decays lastTrace to time and adds the spike at time.
	AddPostSpike(time, lastTime Time, lastTrace T) T

	// SampleDepression decays lastTrace by dt timesteps and returns the
	// magnitude handed to depression.
	SampleDepression(dt uint32, lastTrace T) int32

	// PotentiationTerm combines the decayed presynaptic trace x with the
	// neuron's trace right after the current postsynaptic spike.
	PotentiationTerm(x int32, trace T) int32

	// Tables returns the decay tables of the postsynaptic traces.
	Tables() []*lut.DecayLUT
}

// PairTrace is the postsynaptic trace y of the pair rule.
type PairTrace int16

func (y PairTrace) String() string {
	return fmt.Sprintf("y=%d", int16(y))
}

// PairPost tracks a single postsynaptic trace decaying with tau_y.
type PairPost struct {
	tauY   *lut.DecayLUT
	policy OrderPolicy
}

// NewPairPost creates the postsynaptic tracker of the pair rule.
func NewPairPost(tauY *lut.DecayLUT, policy OrderPolicy) PairPost {
	return PairPost{tauY: tauY, policy: policy}
}

// InitialTrace returns zero.
func (p PairPost) InitialTrace() PairTrace {
	return 0
}

// AddPostSpike returns lastTrace * decay(time - lastTime) + one. There is no
// flush variant on the postsynaptic side.
func (p PairPost) AddPostSpike(time, lastTime Time, lastTrace PairTrace) PairTrace {
	delta := p.policy.Elapsed(time, lastTime)

	newY := fixed.Mul(int32(lastTrace), p.tauY.Lookup(delta)) + fixed.One

	return PairTrace(newY)
}

// SampleDepression returns y decayed by dt.
func (p PairPost) SampleDepression(dt uint32, lastTrace PairTrace) int32 {
	return fixed.Mul(int32(lastTrace), p.tauY.Lookup(dt))
}

// PotentiationTerm returns x unchanged.
func (p PairPost) PotentiationTerm(x int32, _ PairTrace) int32 {
	return x
}

func (p PairPost) Tables() []*lut.DecayLUT {
	return []*lut.DecayLUT{p.tauY}
}

// TripletTrace holds the two postsynaptic traces of the triplet rule.
type TripletTrace struct {
	// Y1 decays with tau_y1 and drives depression.
	Y1 int16

	// Y2 decays with tau_y2 and scales potentiation. It holds the value
	// sampled just before the latest spike, carried forward.
	Y2 int16
}

func (t TripletTrace) String() string {
	return fmt.Sprintf("y1=%d, y2=%d", t.Y1, t.Y2)
}

// TripletPost tracks the (y1, y2) traces of the triplet rule.
type TripletPost struct {
	tauY1  *lut.DecayLUT
	tauY2  *lut.DecayLUT
	policy OrderPolicy
}

// NewTripletPost creates the postsynaptic tracker of the triplet rule.
func NewTripletPost(tauY1, tauY2 *lut.DecayLUT, policy OrderPolicy) TripletPost {
	return TripletPost{tauY1: tauY1, tauY2: tauY2, policy: policy}
}

// InitialTrace returns {0, 0}.
func (p TripletPost) InitialTrace() TripletTrace {
	return TripletTrace{}
}

// AddPostSpike refreshes both traces.
//
// y1 decays and then adds one, like the pair trace. y2 adds one and then
// decays, and is zero when lastTime is zero because the neuron has no prior
// spike to pair with.
func (p TripletPost) AddPostSpike(
	time, lastTime Time,
	lastTrace TripletTrace,
) TripletTrace {
	delta := p.policy.Elapsed(time, lastTime)

	y1 := fixed.Mul(int32(lastTrace.Y1), p.tauY1.Lookup(delta)) + fixed.One

	y2 := int32(0)
	if lastTime != 0 {
		y2 = fixed.Mul(int32(lastTrace.Y2)+fixed.One, p.tauY2.Lookup(delta))
	}

	return TripletTrace{Y1: int16(y1), Y2: int16(y2)}
}

// SampleDepression returns y1 decayed by dt. y2 plays no part in depression.
func (p TripletPost) SampleDepression(dt uint32, lastTrace TripletTrace) int32 {
	return fixed.Mul(int32(lastTrace.Y1), p.tauY1.Lookup(dt))
}

// PotentiationTerm returns x * y2 of the freshly refreshed trace.
func (p TripletPost) PotentiationTerm(x int32, trace TripletTrace) int32 {
	return fixed.Mul(x, int32(trace.Y2))
}

var (
	_ PostTracker[PairTrace]    = PairPost{}
	_ PostTracker[TripletTrace] = TripletPost{}
)

func (p TripletPost) Tables() []*lut.DecayLUT {
	return []*lut.DecayLUT{p.tauY1, p.tauY2}
}
