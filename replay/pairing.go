package replay

import "fmt"

// Pairing describes a pairing protocol: a presynaptic train and a
// postsynaptic train at the same frequency, offset by DeltaT milliseconds.
type Pairing struct {
	Frequency float64 `yaml:"frequency"`
	Pairs     int     `yaml:"pairs"`
	DeltaT    int     `yaml:"delta_t"`
	Start     uint32  `yaml:"start"`
	Weight    float64 `yaml:"weight"`
}

// FixedFrequency returns n spike times at freq Hz starting at first.
func FixedFrequency(freq float64, first uint32, n int) []uint32 {
	interval := uint32(1000.0 / freq)

	times := make([]uint32, n)
	for i := range times {
		times[i] = first + uint32(i)*interval
	}

	return times
}

// Trains returns the presynaptic and postsynaptic spike times. The
// presynaptic train starts one timestep before Start and carries one extra
// spike so the last postsynaptic spike is followed by a presynaptic one.
func (p Pairing) Trains() (pre, post []uint32) {
	pre = FixedFrequency(p.Frequency, p.Start-1, p.Pairs+1)
	post = FixedFrequency(p.Frequency, uint32(int64(p.Start)+int64(p.DeltaT)), p.Pairs)

	return pre, post
}

func (e *Experiment) applyPairing() error {
	if err := e.Pairing.validate(); err != nil {
		return fmt.Errorf("replay: invalid experiment: %w", err)
	}

	pre, post := e.Pairing.Trains()

	e.Synapses = []SynapseConfig{{Pre: 0, Post: 0, Weight: e.Pairing.Weight}}
	e.PreSpikes = map[int][]uint32{0: pre}
	e.PostSpikes = map[int][]uint32{0: post}

	return nil
}

func (p Pairing) validate() error {
	switch {
	case p.Frequency <= 0 || p.Frequency > 1000:
		return fmt.Errorf("pairing frequency %g outside (0, 1000] Hz", p.Frequency)
	case p.Pairs <= 0:
		return fmt.Errorf("pairing needs at least one pair, got %d", p.Pairs)
	case p.Start < 1 || int64(p.Start)+int64(p.DeltaT) < 0:
		return fmt.Errorf("pairing start %d with delta_t %d precedes time 0",
			p.Start, p.DeltaT)
	}

	return nil
}
