package replay

import (
	"fmt"
	"sync"

	"github.com/sarchlab/stdp/fixed"
	"github.com/sarchlab/stdp/hooking"
	"github.com/sarchlab/stdp/lut"
	"github.com/sarchlab/stdp/timing"
	"github.com/sarchlab/stdp/weight"
)

// HookPosSpike fires when the dispatcher delivers a spike. The item is a
// Spike.
var HookPosSpike = &hooking.HookPos{Name: "Spike"}

// Side tells presynaptic spikes from postsynaptic ones.
type Side int

// Spike sides.
const (
	Pre Side = iota
	Post
)

func (s Side) String() string {
	if s == Pre {
		return "pre"
	}

	return "post"
}

// Spike is the event payload scheduled on the engine.
type Spike struct {
	Side   Side
	Neuron int
	Time   timing.Time
}

// SynapseView is a snapshot of one synapse.
type SynapseView struct {
	ID           int
	Pre          int
	Post         int
	LastPreTime  timing.Time
	LastPreTrace timing.PreTrace
	State        weight.State
	Weight       float64
}

// Result is the outcome of a run for one synapse.
type Result struct {
	Synapse       int
	Pre           int
	Post          int
	InitialWeight float64
	FinalWeight   float64
	PreTrace      timing.PreTrace
}

// A Learner delivers spikes to a timing rule. It hides the postsynaptic
// trace type of the rule behind it.
type Learner interface {
	hooking.Hookable

	// Handle accepts Spike events from the engine.
	Handle(event any) error

	// Deliver applies one spike immediately.
	Deliver(spike Spike) error

	// Synapses returns a snapshot of every synapse.
	Synapses() []SynapseView

	// Tables returns the decay tables the rule samples.
	Tables() []*lut.DecayLUT

	// Synapse returns a snapshot of one synapse.
	Synapse(id int) (SynapseView, bool)

	// Finish flushes presynaptic traces at t and resolves the weights.
	Finish(t timing.Time) []Result
}

type synapse struct {
	id            int
	pre           int
	post          int
	initialWeight int32

	lastPreTime  timing.Time
	lastPreTrace timing.PreTrace
	state        weight.State
}

type neuron[T any] struct {
	lastTime  timing.Time
	lastTrace T
}

// Dispatcher owns the spike history of a network and applies every spike
// in order: refresh the spiking side's trace, apply it against the other
// side, persist the result.
//
// Snapshots may be taken from other goroutines while spikes are delivered,
// but not from hooks, which run while the dispatcher is locked.
type Dispatcher[T any] struct {
	*hooking.HookableBase

	mu sync.RWMutex

	rule  *timing.Rule[T, weight.State]
	model weight.Model

	synapses []*synapse
	outgoing map[int][]*synapse
	incoming map[int][]*synapse
	posts    map[int]*neuron[T]

	current        *synapse
	forwardingRule bool
}

// NewDispatcher creates a dispatcher for the given synapses.
func NewDispatcher[T any](
	rule *timing.Rule[T, weight.State],
	model weight.Model,
	synapses []SynapseConfig,
) *Dispatcher[T] {
	d := &Dispatcher[T]{
		HookableBase: hooking.NewHookableBase(),
		rule:         rule,
		model:        model,
		outgoing:     make(map[int][]*synapse),
		incoming:     make(map[int][]*synapse),
		posts:        make(map[int]*neuron[T]),
	}

	for i, cfg := range synapses {
		w := fixed.FromFloat(cfg.Weight)
		s := &synapse{
			id:            i,
			pre:           cfg.Pre,
			post:          cfg.Post,
			initialWeight: w,
			state:         model.Initial(w),
		}

		d.synapses = append(d.synapses, s)
		d.outgoing[cfg.Pre] = append(d.outgoing[cfg.Pre], s)
		d.incoming[cfg.Post] = append(d.incoming[cfg.Post], s)

		if _, ok := d.posts[cfg.Post]; !ok {
			d.posts[cfg.Post] = &neuron[T]{lastTrace: rule.InitialPostTrace()}
		}
	}

	return d
}

// AcceptHook registers a hook. The first hook also subscribes the
// dispatcher to the rule so that weight updates are re-raised with the
// synapse they belong to.
func (d *Dispatcher[T]) AcceptHook(hook hooking.Hook) {
	d.HookableBase.AcceptHook(hook)

	if !d.forwardingRule {
		d.rule.AcceptHook(d)
		d.forwardingRule = true
	}
}

// Func re-raises hooks of the rule. The detail is the synapse ID, or nil
// outside a synapse update.
func (d *Dispatcher[T]) Func(ctx hooking.HookCtx) {
	if d.current != nil {
		ctx.Detail = d.current.id
	}

	ctx.Domain = d
	d.InvokeHook(ctx)
}

// Handle accepts Spike events.
func (d *Dispatcher[T]) Handle(event any) error {
	switch e := event.(type) {
	case Spike:
		return d.Deliver(e)
	case *Spike:
		return d.Deliver(*e)
	default:
		return fmt.Errorf("replay: cannot handle event of type %T", event)
	}
}

// Deliver applies one spike.
func (d *Dispatcher[T]) Deliver(spike Spike) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.NumHooks() > 0 {
		d.InvokeHook(hooking.HookCtx{Domain: d, Pos: HookPosSpike, Item: spike})
	}

	switch spike.Side {
	case Pre:
		d.preSpike(spike.Neuron, spike.Time)
	case Post:
		d.postSpike(spike.Neuron, spike.Time)
	default:
		return fmt.Errorf("replay: unknown spike side %d", spike.Side)
	}

	return nil
}

func (d *Dispatcher[T]) preSpike(n int, t timing.Time) {
	for _, s := range d.outgoing[n] {
		d.current = s

		x := d.rule.AddPreSpike(t, s.lastPreTime, s.lastPreTrace, false)

		post := d.posts[s.post]
		s.state = d.rule.ApplyPreSpike(
			t, x, s.lastPreTime, s.lastPreTrace,
			post.lastTime, post.lastTrace, s.state)

		s.lastPreTime = t
		s.lastPreTrace = x
	}

	d.current = nil
}

func (d *Dispatcher[T]) postSpike(n int, t timing.Time) {
	post, ok := d.posts[n]
	if !ok {
		return
	}

	y := d.rule.AddPostSpike(t, post.lastTime, post.lastTrace)

	for _, s := range d.incoming[n] {
		d.current = s
		s.state = d.rule.ApplyPostSpike(
			t, y, s.lastPreTime, s.lastPreTrace,
			post.lastTime, post.lastTrace, s.state)
	}

	d.current = nil

	post.lastTime = t
	post.lastTrace = y
}

// Tables returns the rule's decay tables.
func (d *Dispatcher[T]) Tables() []*lut.DecayLUT {
	return d.rule.Tables()
}

// Synapses returns a snapshot of every synapse.
func (d *Dispatcher[T]) Synapses() []SynapseView {
	d.mu.RLock()
	defer d.mu.RUnlock()

	views := make([]SynapseView, len(d.synapses))
	for i, s := range d.synapses {
		views[i] = d.view(s)
	}

	return views
}

// Synapse returns a snapshot of synapse id.
func (d *Dispatcher[T]) Synapse(id int) (SynapseView, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if id < 0 || id >= len(d.synapses) {
		return SynapseView{}, false
	}

	return d.view(d.synapses[id]), true
}

func (d *Dispatcher[T]) view(s *synapse) SynapseView {
	return SynapseView{
		ID:           s.id,
		Pre:          s.pre,
		Post:         s.post,
		LastPreTime:  s.lastPreTime,
		LastPreTrace: s.lastPreTrace,
		State:        s.state,
		Weight:       fixed.ToFloat(d.model.Final(s.state)),
	}
}

// Finish flushes every presynaptic trace at t and returns the resolved
// weights.
func (d *Dispatcher[T]) Finish(t timing.Time) []Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := make([]Result, 0, len(d.synapses))

	for _, s := range d.synapses {
		d.current = s
		s.lastPreTrace = d.rule.AddPreSpike(t, s.lastPreTime, s.lastPreTrace, true)
		s.lastPreTime = t

		results = append(results, Result{
			Synapse:       s.id,
			Pre:           s.pre,
			Post:          s.post,
			InitialWeight: fixed.ToFloat(s.initialWeight),
			FinalWeight:   fixed.ToFloat(d.model.Final(s.state)),
			PreTrace:      s.lastPreTrace,
		})
	}

	d.current = nil

	return results
}

var _ Learner = (*Dispatcher[timing.PairTrace])(nil)
