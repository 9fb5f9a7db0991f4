package timing

import (
	"github.com/sarchlab/stdp/hooking"
	"github.com/sarchlab/stdp/lut"
	"github.com/sarchlab/stdp/weight"
)

var (
	// HookPosPreTrace fires after a presynaptic trace is refreshed. The item
	// is a Refresh.
	HookPosPreTrace = &hooking.HookPos{Name: "PreTrace"}

	// HookPosPostTrace fires after a postsynaptic trace is refreshed. The
	// item is a Refresh.
	HookPosPostTrace = &hooking.HookPos{Name: "PostTrace"}

	// HookPosPotentiation fires before potentiation is applied. The item is
	// an Update.
	HookPosPotentiation = &hooking.HookPos{Name: "Potentiation"}

	// HookPosDepression fires before depression is applied. The item is an
	// Update.
	HookPosDepression = &hooking.HookPos{Name: "Depression"}
)

// Refresh describes a trace refresh.
type Refresh struct {
	Time  Time
	Delta uint32
	Flush bool

	// Trace is the new trace, a PreTrace or the rule's postsynaptic type.
	Trace any
}

// Update describes a magnitude handed to the weight dependence.
type Update struct {
	Time      Time
	Delta     uint32
	Magnitude int32
}

// A Rule is the spike-event applier. It refreshes traces and folds each
// spike against the opposite side's trace into an update state S owned by
// the weight dependence. T is the postsynaptic trace type.
type Rule[T any, S any] struct {
	*hooking.HookableBase

	pre     PreTracker
	post    PostTracker[T]
	weights weight.Dependence[S]
	policy  OrderPolicy
}

// NewRule assembles a rule. The trackers and the rule should share policy.
func NewRule[T any, S any](
	pre PreTracker,
	post PostTracker[T],
	weights weight.Dependence[S],
	policy OrderPolicy,
) *Rule[T, S] {
	return &Rule[T, S]{
		HookableBase: hooking.NewHookableBase(),
		pre:          pre,
		post:         post,
		weights:      weights,
		policy:       policy,
	}
}

// OrderPolicy returns the policy applied to out-of-order spikes.
func (r *Rule[T, S]) OrderPolicy() OrderPolicy {
	return r.policy
}

// Tables returns the decay tables in layout order, tau_x first.
func (r *Rule[T, S]) Tables() []*lut.DecayLUT {
	return append([]*lut.DecayLUT{r.pre.Table()}, r.post.Tables()...)
}

// InitialPostTrace returns the trace of a neuron that has never spiked.
func (r *Rule[T, S]) InitialPostTrace() T {
	return r.post.InitialTrace()
}

// AddPreSpike refreshes a presynaptic trace. See PreTracker.AddPreSpike.
func (r *Rule[T, S]) AddPreSpike(
	time, lastTime Time,
	lastTrace PreTrace,
	flush bool,
) PreTrace {
	x := r.pre.AddPreSpike(time, lastTime, lastTrace, flush)

	if r.NumHooks() > 0 {
		r.InvokeHook(hooking.HookCtx{
			Domain: r,
			Pos:    HookPosPreTrace,
			Item: Refresh{
				Time:  time,
				Delta: r.policy.Elapsed(time, lastTime),
				Flush: flush,
				Trace: x,
			},
		})
	}

	return x
}

// AddPostSpike refreshes a postsynaptic trace.
func (r *Rule[T, S]) AddPostSpike(time, lastTime Time, lastTrace T) T {
	y := r.post.AddPostSpike(time, lastTime, lastTrace)

	if r.NumHooks() > 0 {
		r.InvokeHook(hooking.HookCtx{
			Domain: r,
			Pos:    HookPosPostTrace,
			Item: Refresh{
				Time:  time,
				Delta: r.policy.Elapsed(time, lastTime),
				Trace: y,
			},
		})
	}

	return y
}

// ApplyPreSpike folds a presynaptic spike at time against the postsynaptic
// trace recorded at lastPostTime and returns the new update state.
//
// Coincident spikes (time == lastPostTime) leave state untouched.
func (r *Rule[T, S]) ApplyPreSpike(
	time Time,
	_ PreTrace,
	_ Time,
	_ PreTrace,
	lastPostTime Time,
	lastPostTrace T,
	state S,
) S {
	dt := r.policy.Elapsed(time, lastPostTime)
	if dt == 0 {
		return state
	}

	y := r.post.SampleDepression(dt, lastPostTrace)
	r.notify(HookPosDepression, Update{Time: time, Delta: dt, Magnitude: y})

	return r.weights.Depress(state, y)
}

// ApplyPostSpike folds a postsynaptic spike at time against the presynaptic
// trace recorded at lastPreTime. postTrace is the neuron's trace after the
// spike at time has been added.
//
// Coincident spikes (time == lastPreTime) leave state untouched.
func (r *Rule[T, S]) ApplyPostSpike(
	time Time,
	postTrace T,
	lastPreTime Time,
	lastPreTrace PreTrace,
	_ Time,
	_ T,
	state S,
) S {
	dt := r.policy.Elapsed(time, lastPreTime)
	if dt == 0 {
		return state
	}

	x := r.pre.Sample(dt, lastPreTrace)
	term := r.post.PotentiationTerm(x, postTrace)
	r.notify(HookPosPotentiation, Update{Time: time, Delta: dt, Magnitude: term})

	return r.weights.Potentiate(state, term)
}

func (r *Rule[T, S]) notify(pos *hooking.HookPos, u Update) {
	if r.NumHooks() == 0 {
		return
	}

	r.InvokeHook(hooking.HookCtx{Domain: r, Pos: pos, Item: u})
}
