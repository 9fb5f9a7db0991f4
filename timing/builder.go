package timing

import (
	"github.com/sarchlab/stdp/lut"
	"github.com/sarchlab/stdp/weight"
)

// Builder configures and loads timing rules.
type Builder struct {
	tauX   lut.Spec
	tauY   lut.Spec
	tauY1  lut.Spec
	tauY2  lut.Spec
	policy OrderPolicy
}

// MakeBuilder returns a builder with 256-entry, unshifted tables and
// wraparound for out-of-order spikes.
func MakeBuilder() Builder {
	return Builder{
		tauX:   lut.DefaultSpec("tau_x"),
		tauY:   lut.DefaultSpec("tau_y"),
		tauY1:  lut.DefaultSpec("tau_y1"),
		tauY2:  lut.DefaultSpec("tau_y2"),
		policy: WrapElapsed,
	}
}

// WithTauX sets the shape of the presynaptic table.
func (b Builder) WithTauX(spec lut.Spec) Builder {
	b.tauX = spec
	return b
}

// WithTauY sets the shape of the pair rule's postsynaptic table.
func (b Builder) WithTauY(spec lut.Spec) Builder {
	b.tauY = spec
	return b
}

// WithTauY1 sets the shape of the triplet rule's y1 table.
func (b Builder) WithTauY1(spec lut.Spec) Builder {
	b.tauY1 = spec
	return b
}

// WithTauY2 sets the shape of the triplet rule's y2 table.
func (b Builder) WithTauY2(spec lut.Spec) Builder {
	b.tauY2 = spec
	return b
}

// WithOrderPolicy sets how out-of-order spikes are handled.
func (b Builder) WithOrderPolicy(policy OrderPolicy) Builder {
	b.policy = policy
	return b
}

// PairLayout returns the tables of the pair rule in blob order.
func (b Builder) PairLayout() []lut.Spec {
	return []lut.Spec{b.tauX, b.tauY}
}

// TripletLayout returns the tables of the triplet rule in blob order.
func (b Builder) TripletLayout() []lut.Spec {
	return []lut.Spec{b.tauX, b.tauY1, b.tauY2}
}

// BuildPair loads the pair rule's tables from src at addr. It returns the
// rule and the address right after the tables.
func BuildPair[S any](
	b Builder,
	src lut.Source,
	addr uint64,
	weights weight.Dependence[S],
) (*Rule[PairTrace, S], uint64, error) {
	tables, next, err := lut.Initialise(src, addr, b.PairLayout()...)
	if err != nil {
		return nil, addr, err
	}

	return NewPairRule(tables[0], tables[1], weights, b.policy), next, nil
}

// BuildTriplet loads the triplet rule's tables from src at addr. It returns
// the rule and the address right after the tables.
func BuildTriplet[S any](
	b Builder,
	src lut.Source,
	addr uint64,
	weights weight.Dependence[S],
) (*Rule[TripletTrace, S], uint64, error) {
	tables, next, err := lut.Initialise(src, addr, b.TripletLayout()...)
	if err != nil {
		return nil, addr, err
	}

	rule := NewTripletRule(tables[0], tables[1], tables[2], weights, b.policy)

	return rule, next, nil
}

// NewPairRule assembles a pair rule from loaded tables.
func NewPairRule[S any](
	tauX, tauY *lut.DecayLUT,
	weights weight.Dependence[S],
	policy OrderPolicy,
) *Rule[PairTrace, S] {
	return NewRule[PairTrace, S](
		NewPreTracker(tauX, policy),
		NewPairPost(tauY, policy),
		weights,
		policy,
	)
}

// NewTripletRule assembles a triplet rule from loaded tables.
func NewTripletRule[S any](
	tauX, tauY1, tauY2 *lut.DecayLUT,
	weights weight.Dependence[S],
	policy OrderPolicy,
) *Rule[TripletTrace, S] {
	return NewRule[TripletTrace, S](
		NewPreTracker(tauX, policy),
		NewTripletPost(tauY1, tauY2, policy),
		weights,
		policy,
	)
}
