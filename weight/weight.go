// Package weight turns sampled STDP trace values into synaptic weight
// changes.
//
// The timing rule never looks inside the update state; it only hands it to a
// Dependence together with a trace magnitude and keeps whatever comes back.
package weight

import "github.com/sarchlab/stdp/fixed"

//go:generate mockgen -destination ../timing/mock_weight_test.go -package timing_test -write_package_comment=false github.com/sarchlab/stdp/weight Dependence

// Dependence applies potentiation and depression to an opaque update state.
type Dependence[S any] interface {
	// Potentiate folds a potentiating trace magnitude into state.
	Potentiate(state S, magnitude int32) S

	// Depress folds a depressing trace magnitude into state.
	Depress(state S, magnitude int32) S
}

// State accumulates trace magnitudes for one synapse between the points at
// which its weight is materialized. All values are fixed point.
type State struct {
	Weight       int32
	Potentiation int32
	Depression   int32
}

// A Model is a Dependence over State that can create and resolve states.
type Model interface {
	Dependence[State]

	// Initial starts an accumulation from the current weight.
	Initial(weight int32) State

	// Final resolves the accumulated updates into a new weight.
	Final(state State) int32
}

// Bounds limits a weight to [Min, Max].
type Bounds struct {
	Min int32
	Max int32
}

func (b Bounds) clamp(w int32) int32 {
	return max(b.Min, min(b.Max, w))
}

func accumulate(state State, potentiation, depression int32) State {
	state.Potentiation += potentiation
	state.Depression += depression

	return state
}

func initial(w int32) State {
	return State{Weight: w}
}

// Additive changes the weight by amounts that do not depend on the weight
// itself. APlus and AMinus carry fixed.RatePoint fractional bits.
type Additive struct {
	Bounds

	APlus  int32
	AMinus int32
}

// NewAdditive creates an additive model from floating point parameters.
func NewAdditive(wMin, wMax, aPlus, aMinus float64) Additive {
	return Additive{
		Bounds: Bounds{Min: fixed.FromFloat(wMin), Max: fixed.FromFloat(wMax)},
		APlus:  fixed.RateFromFloat(aPlus),
		AMinus: fixed.RateFromFloat(aMinus),
	}
}

// Potentiate accumulates magnitude as potentiation.
func (m Additive) Potentiate(state State, magnitude int32) State {
	return accumulate(state, magnitude, 0)
}

// Depress accumulates magnitude as depression.
func (m Additive) Depress(state State, magnitude int32) State {
	return accumulate(state, 0, magnitude)
}

// Initial starts an accumulation from w.
func (m Additive) Initial(w int32) State {
	return initial(w)
}

// Final returns w + A+ * potentiation - A- * depression, clamped to bounds.
func (m Additive) Final(state State) int32 {
	delta := fixed.MulRate(state.Potentiation, m.APlus) -
		fixed.MulRate(state.Depression, m.AMinus)

	return m.clamp(state.Weight + delta)
}

// Multiplicative scales potentiation by the distance to the upper bound and
// depression by the distance to the lower bound. APlus and AMinus carry
// fixed.RatePoint fractional bits.
type Multiplicative struct {
	Bounds

	APlus  int32
	AMinus int32
}

// NewMultiplicative creates a multiplicative model from floating point
// parameters.
func NewMultiplicative(wMin, wMax, aPlus, aMinus float64) Multiplicative {
	return Multiplicative{
		Bounds: Bounds{Min: fixed.FromFloat(wMin), Max: fixed.FromFloat(wMax)},
		APlus:  fixed.RateFromFloat(aPlus),
		AMinus: fixed.RateFromFloat(aMinus),
	}
}

// Potentiate accumulates magnitude as potentiation.
func (m Multiplicative) Potentiate(state State, magnitude int32) State {
	return accumulate(state, magnitude, 0)
}

// Depress accumulates magnitude as depression.
func (m Multiplicative) Depress(state State, magnitude int32) State {
	return accumulate(state, 0, magnitude)
}

// Initial starts an accumulation from w.
func (m Multiplicative) Initial(w int32) State {
	return initial(w)
}

// Final returns the weight after applying the accumulated updates.
func (m Multiplicative) Final(state State) int32 {
	w := state.Weight
	up := scaled(m.Max-w, m.APlus, state.Potentiation)
	down := scaled(w-m.Min, m.AMinus, state.Depression)

	return m.clamp(w + up - down)
}

// scaled returns distance * rate * magnitude. The rate product keeps
// RatePoint fractional bits until the last shift.
func scaled(distance, rate, magnitude int32) int32 {
	r := (int64(distance) * int64(rate)) >> fixed.Point

	return int32((r * int64(magnitude)) >> fixed.RatePoint)
}

var (
	_ Model = Additive{}
	_ Model = Multiplicative{}
)
