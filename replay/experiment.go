// Package replay drives a timing rule with recorded spike trains.
//
// It plays the part of the spike dispatcher of a full simulator: it owns the
// spike history of every synapse and neuron, delivers spikes in time order
// through a sim.SerialEngine, and resolves the accumulated updates into
// weights at the end of the run.
package replay

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/stdp/lut"
	"github.com/sarchlab/stdp/timing"
	"github.com/sarchlab/stdp/weight"
)

// Rule kinds.
const (
	RulePair    = "pair"
	RuleTriplet = "triplet"
)

// Weight dependence kinds.
const (
	WeightAdditive       = "additive"
	WeightMultiplicative = "multiplicative"
)

// An Experiment describes a network, its spike trains and the plasticity
// rule applied to it.
type Experiment struct {
	Rule        string  `yaml:"rule"`
	TauX        float64 `yaml:"tau_x"`
	TauY        float64 `yaml:"tau_y"`
	TauY1       float64 `yaml:"tau_y1"`
	TauY2       float64 `yaml:"tau_y2"`
	LUTSize     int     `yaml:"lut_size"`
	LUTShift    uint    `yaml:"lut_shift"`
	TimestepUS  int     `yaml:"timestep_us"`
	OrderPolicy string  `yaml:"order_policy"`

	Weight   WeightConfig    `yaml:"weight"`
	Synapses []SynapseConfig `yaml:"synapses"`

	// PreSpikes and PostSpikes map neuron indices to spike times.
	PreSpikes  map[int][]uint32 `yaml:"pre_spikes"`
	PostSpikes map[int][]uint32 `yaml:"post_spikes"`

	// Pairing, when set, generates the spike trains of a single synapse.
	Pairing *Pairing `yaml:"pairing,omitempty"`

	// Duration is the time at which traces are flushed when it falls after
	// the last spike. Otherwise traces are flushed one timestep after the
	// last spike.
	Duration uint32 `yaml:"duration"`
}

// WeightConfig selects and parameterizes the weight dependence.
type WeightConfig struct {
	Kind   string  `yaml:"kind"`
	WMin   float64 `yaml:"w_min"`
	WMax   float64 `yaml:"w_max"`
	APlus  float64 `yaml:"a_plus"`
	AMinus float64 `yaml:"a_minus"`
}

// SynapseConfig connects presynaptic neuron Pre to postsynaptic neuron Post.
type SynapseConfig struct {
	Pre    int     `yaml:"pre"`
	Post   int     `yaml:"post"`
	Weight float64 `yaml:"weight"`
}

// Defaults returns an experiment with the default rule parameters and no
// network.
func Defaults() Experiment {
	return Experiment{
		Rule:        RulePair,
		TauX:        20,
		TauY:        20,
		TauY1:       20,
		TauY2:       20,
		LUTSize:     lut.DefaultSize,
		LUTShift:    lut.DefaultShift,
		TimestepUS:  lut.SupportedTimestepUS,
		OrderPolicy: timing.WrapElapsed.String(),
		Weight: WeightConfig{
			Kind:   WeightAdditive,
			WMin:   0,
			WMax:   1,
			APlus:  0.01,
			AMinus: 0.012,
		},
	}
}

// WithSynapses returns a copy of e connected by synapses.
func (e Experiment) WithSynapses(synapses ...SynapseConfig) *Experiment {
	e.Synapses = synapses
	return &e
}

// Parse decodes a YAML experiment on top of the defaults.
func Parse(data []byte) (*Experiment, error) {
	exp := Defaults()

	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("replay: parse experiment: %w", err)
	}

	if exp.Pairing != nil {
		if err := exp.applyPairing(); err != nil {
			return nil, err
		}
	}

	if err := exp.Validate(); err != nil {
		return nil, err
	}

	return &exp, nil
}

// Load reads and parses a YAML experiment file.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	return Parse(data)
}

// Validate checks that the experiment can be run.
func (e *Experiment) Validate() error {
	var errs []error

	if e.Rule != RulePair && e.Rule != RuleTriplet {
		errs = append(errs, fmt.Errorf("unknown rule %q", e.Rule))
	}

	if e.Weight.Kind != WeightAdditive && e.Weight.Kind != WeightMultiplicative {
		errs = append(errs, fmt.Errorf("unknown weight dependence %q", e.Weight.Kind))
	}

	if e.Weight.WMin > e.Weight.WMax {
		errs = append(errs, fmt.Errorf("w_min %g above w_max %g",
			e.Weight.WMin, e.Weight.WMax))
	}

	if _, err := timing.ParseOrderPolicy(e.OrderPolicy); err != nil {
		errs = append(errs, err)
	}

	if len(e.Synapses) == 0 {
		errs = append(errs, errors.New("no synapses"))
	}

	for i, s := range e.Synapses {
		if s.Pre < 0 || s.Post < 0 {
			errs = append(errs, fmt.Errorf("synapse %d: negative neuron index", i))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("replay: invalid experiment: %w", err)
	}

	return nil
}

// Builder returns the rule builder configured by the experiment.
func (e *Experiment) Builder() timing.Builder {
	policy, _ := timing.ParseOrderPolicy(e.OrderPolicy)
	spec := func(name string) lut.Spec {
		return lut.Spec{Name: name, Size: e.LUTSize, Shift: e.LUTShift}
	}

	return timing.MakeBuilder().
		WithTauX(spec("tau_x")).
		WithTauY(spec("tau_y")).
		WithTauY1(spec("tau_y1")).
		WithTauY2(spec("tau_y2")).
		WithOrderPolicy(policy)
}

// Layout returns the table specs of the selected rule in blob order.
func (e *Experiment) Layout() []lut.Spec {
	if e.Rule == RuleTriplet {
		return e.Builder().TripletLayout()
	}

	return e.Builder().PairLayout()
}

// TimeConstants returns the time constants of the selected rule in blob
// order.
func (e *Experiment) TimeConstants() []float64 {
	if e.Rule == RuleTriplet {
		return []float64{e.TauX, e.TauY1, e.TauY2}
	}

	return []float64{e.TauX, e.TauY}
}

// Tables generates the decay tables of the selected rule.
func (e *Experiment) Tables() ([]*lut.DecayLUT, error) {
	specs := e.Layout()
	taus := e.TimeConstants()
	tables := make([]*lut.DecayLUT, len(specs))

	for i, spec := range specs {
		t, err := lut.Generate(spec, taus[i], e.TimestepUS)
		if err != nil {
			return nil, err
		}

		tables[i] = t
	}

	return tables, nil
}

// WeightModel returns the configured weight dependence.
func (e *Experiment) WeightModel() weight.Model {
	w := e.Weight
	if w.Kind == WeightMultiplicative {
		return weight.NewMultiplicative(w.WMin, w.WMax, w.APlus, w.AMinus)
	}

	return weight.NewAdditive(w.WMin, w.WMax, w.APlus, w.AMinus)
}
