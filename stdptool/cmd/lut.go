package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stdp/lut"
	"github.com/sarchlab/stdp/replay"
)

type tableFlags struct {
	rule  string
	tauX  float64
	tauY  float64
	tauY1 float64
	tauY2 float64
	size  int
	shift uint
}

func (f *tableFlags) register(cmd *cobra.Command, withTaus bool) {
	d := replay.Defaults()

	cmd.Flags().StringVar(&f.rule, "rule", d.Rule, "pair or triplet")
	cmd.Flags().IntVar(&f.size, "size", d.LUTSize, "entries per table")
	cmd.Flags().UintVar(&f.shift, "shift", d.LUTShift,
		"timesteps per entry as a power of two")

	if !withTaus {
		return
	}

	cmd.Flags().Float64Var(&f.tauX, "tau-x", d.TauX, "presynaptic time constant (ms)")
	cmd.Flags().Float64Var(&f.tauY, "tau-y", d.TauY, "pair postsynaptic time constant (ms)")
	cmd.Flags().Float64Var(&f.tauY1, "tau-y1", d.TauY1, "triplet y1 time constant (ms)")
	cmd.Flags().Float64Var(&f.tauY2, "tau-y2", d.TauY2, "triplet y2 time constant (ms)")
}

func (f *tableFlags) experiment() (*replay.Experiment, error) {
	if f.rule != replay.RulePair && f.rule != replay.RuleTriplet {
		return nil, fmt.Errorf("unknown rule %q", f.rule)
	}

	exp := replay.Defaults()
	exp.Rule = f.rule
	exp.TauX = f.tauX
	exp.TauY = f.tauY
	exp.TauY1 = f.tauY1
	exp.TauY2 = f.tauY2
	exp.LUTSize = f.size
	exp.LUTShift = f.shift

	return &exp, nil
}

func newLUTCmd() *cobra.Command {
	flags := &tableFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "lut",
		Short: "Generate the decay tables of a rule as a parameter blob.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exp, err := flags.experiment()
			if err != nil {
				return err
			}

			tables, err := exp.Tables()
			if err != nil {
				return err
			}

			blob := lut.Encode(tables...)

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(blob)
				return err
			}

			if err := os.WriteFile(output, blob, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d tables (%d bytes) to %s\n",
				len(tables), len(blob), output)

			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")

	return cmd
}
