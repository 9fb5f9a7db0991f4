package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stdp/fixed"
	"github.com/sarchlab/stdp/lut"
)

func newInspectCmd() *cobra.Command {
	flags := &tableFlags{}
	var head int

	cmd := &cobra.Command{
		Use:   "inspect BLOB",
		Short: "Decode and validate a parameter blob.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := flags.experiment()
			if err != nil {
				return err
			}

			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			tables, next, err := lut.FromBytes(blob, exp.Layout()...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			invalid := 0

			for _, t := range tables {
				spec := t.Spec()
				fmt.Fprintf(out, "%s: size=%d shift=%d\n",
					spec.Name, spec.Size, spec.Shift)

				values := t.Values()
				for i := 0; i < head && i < len(values); i++ {
					fmt.Fprintf(out, "  [%d] %d (%.4f)\n",
						i, values[i], fixed.ToFloat(int32(values[i])))
				}

				if err := t.Validate(); err != nil {
					fmt.Fprintf(out, "  invalid: %v\n", err)
					invalid++
				}
			}

			if rest := len(blob) - next; rest > 0 {
				fmt.Fprintf(out, "%d trailing bytes\n", rest)
			}

			if invalid > 0 {
				return fmt.Errorf("%d invalid tables", invalid)
			}

			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().IntVar(&head, "head", 4, "entries to print per table")

	return cmd
}
