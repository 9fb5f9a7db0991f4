package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stdp/replay"
)

type sweepFlags struct {
	freqs  []float64
	deltas []int
	pairs  int
	start  uint32
	weight float64
}

// Rule parameters of the pairing experiment of Pfister and Gerstner (2006)
// fitted to Sjostrom et al. (2001).
func pairSweepBase() replay.Experiment {
	exp := replay.Defaults()
	exp.Rule = replay.RulePair
	exp.TauX = 16.8
	exp.TauY = 33.7
	exp.Weight = replay.WeightConfig{
		Kind:   replay.WeightAdditive,
		WMax:   1,
		APlus:  4.3e-3,
		AMinus: 2.9e-4,
	}

	return exp
}

func tripletSweepBase(startW float64) replay.Experiment {
	exp := replay.Defaults()
	exp.Rule = replay.RuleTriplet
	exp.TauX = 16.8
	exp.TauY1 = 33.7
	exp.TauY2 = 114
	exp.Weight = replay.WeightConfig{
		Kind:   replay.WeightAdditive,
		WMax:   1,
		APlus:  6.5e-3 * startW,
		AMinus: 7.1e-3 * startW,
	}

	return exp
}

func newSweepCmd() *cobra.Command {
	flags := &sweepFlags{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare the pair and triplet rules on a pairing protocol.",
		Long: `Sweep replays presynaptic and postsynaptic trains at each ` +
			`frequency with each spike-time offset and prints the relative ` +
			`weight change of both rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pairing := replay.Pairing{
				Pairs:  flags.pairs,
				Start:  flags.start,
				Weight: flags.weight,
			}

			pair, err := replay.Sweep(pairSweepBase(),
				pairing, flags.freqs, flags.deltas)
			if err != nil {
				return err
			}

			triplet, err := replay.Sweep(tripletSweepBase(flags.weight),
				pairing, flags.freqs, flags.deltas)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "freq\tdelta_t\tpair\ttriplet")

			for i := range pair {
				fmt.Fprintf(w, "%g\t%d\t%+.4f\t%+.4f\n",
					pair[i].Frequency, pair[i].DeltaT,
					pair[i].Change, triplet[i].Change)
			}

			return w.Flush()
		},
	}

	cmd.Flags().Float64SliceVar(&flags.freqs, "freq",
		[]float64{10, 20, 40, 50}, "pairing frequencies (Hz)")
	cmd.Flags().IntSliceVar(&flags.deltas, "delta-t",
		[]int{-10, 10}, "postsynaptic minus presynaptic spike time (ms)")
	cmd.Flags().IntVar(&flags.pairs, "pairs", 60, "spike pairs per protocol")
	cmd.Flags().Uint32Var(&flags.start, "start", 100, "time of the first pair (ms)")
	cmd.Flags().Float64Var(&flags.weight, "weight", 0.5, "initial weight")

	return cmd
}
