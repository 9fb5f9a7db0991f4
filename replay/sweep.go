package replay

// SweepPoint is the relative weight change of one pairing protocol.
type SweepPoint struct {
	Frequency float64
	DeltaT    int
	Change    float64
}

// Sweep runs the pairing protocol of base at every combination of
// frequency and spike-time offset. Change is (w_final - w_initial) /
// w_initial.
func Sweep(base Experiment, pairing Pairing, freqs []float64, deltas []int) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(freqs)*len(deltas))

	for _, f := range freqs {
		for _, dt := range deltas {
			p := pairing
			p.Frequency = f
			p.DeltaT = dt

			exp := base
			exp.Pairing = &p
			if err := exp.applyPairing(); err != nil {
				return nil, err
			}

			if err := exp.Validate(); err != nil {
				return nil, err
			}

			results, err := Run(&exp)
			if err != nil {
				return nil, err
			}

			r := results[0]
			points = append(points, SweepPoint{
				Frequency: f,
				DeltaT:    dt,
				Change:    (r.FinalWeight - r.InitialWeight) / r.InitialWeight,
			})
		}
	}

	return points, nil
}
