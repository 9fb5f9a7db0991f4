package replay

import (
	"sort"

	"github.com/sarchlab/stdp/lut"
	"github.com/sarchlab/stdp/region"
	"github.com/sarchlab/stdp/sim"
	"github.com/sarchlab/stdp/timing"
	"github.com/sarchlab/stdp/weight"
)

// Simulation is an experiment loaded and scheduled on an engine.
type Simulation struct {
	Experiment *Experiment
	Engine     *sim.SerialEngine
	Learner    Learner
	Tables     []*lut.DecayLUT

	end timing.Time
}

// New generates the decay tables of exp, writes them to a parameter region,
// loads the rule back from the region, and schedules every spike.
func New(exp *Experiment) (*Simulation, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}

	tables, err := exp.Tables()
	if err != nil {
		return nil, err
	}

	storage := region.NewStorage(lut.ParamsSizeBytes(exp.Layout()...))
	if _, err := lut.WriteTo(storage, 0, tables...); err != nil {
		return nil, err
	}

	learner, err := buildLearner(exp, storage)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		Experiment: exp,
		Engine:     sim.NewSerialEngine(),
		Learner:    learner,
		Tables:     learner.Tables(),
	}
	s.schedule()

	return s, nil
}

func buildLearner(exp *Experiment, src lut.Source) (Learner, error) {
	model := exp.WeightModel()
	b := exp.Builder()

	if exp.Rule == RuleTriplet {
		rule, _, err := timing.BuildTriplet[weight.State](b, src, 0, model)
		if err != nil {
			return nil, err
		}

		return NewDispatcher(rule, model, exp.Synapses), nil
	}

	rule, _, err := timing.BuildPair[weight.State](b, src, 0, model)
	if err != nil {
		return nil, err
	}

	return NewDispatcher(rule, model, exp.Synapses), nil
}

// schedule puts every spike on the engine. Presynaptic spikes of a
// timestep are delivered before postsynaptic ones; within a side, spikes
// follow neuron index.
func (s *Simulation) schedule() {
	var last uint32

	add := func(side Side, trains map[int][]uint32) {
		for _, n := range sortedKeys(trains) {
			for _, t := range trains[n] {
				s.Engine.Schedule(sim.ScheduledEvent{
					Event:       Spike{Side: side, Neuron: n, Time: timing.Time(t)},
					Time:        sim.VTimeInStep(t),
					Handler:     s.Learner,
					IsSecondary: side == Post,
				})

				last = max(last, t)
			}
		}
	}

	add(Pre, s.Experiment.PreSpikes)
	add(Post, s.Experiment.PostSpikes)

	s.end = timing.Time(last + 1)
	if s.Experiment.Duration > last {
		s.end = timing.Time(s.Experiment.Duration)
	}
}

// End returns the time at which traces are flushed.
func (s *Simulation) End() timing.Time {
	return s.end
}

// Run delivers every spike and returns the final weights.
func (s *Simulation) Run() ([]Result, error) {
	if err := s.Engine.Run(); err != nil {
		return nil, err
	}

	return s.Learner.Finish(s.end), nil
}

// Run loads and runs exp.
func Run(exp *Experiment) ([]Result, error) {
	s, err := New(exp)
	if err != nil {
		return nil, err
	}

	return s.Run()
}

func sortedKeys(m map[int][]uint32) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Ints(keys)

	return keys
}
