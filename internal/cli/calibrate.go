package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/calebcase/cubench/internal/bench"
	"github.com/calebcase/cubench/processor"
)

type calibrateView struct {
	Samples    int    `json:"samples"`
	Correction uint64 `json:"correction"`
	Configured uint64 `json:"configured"`
}

// NewCalibrateCommand creates the calibrate command.
func NewCalibrateCommand(rootOpts *RootOptions) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Measure the correction from empty invocations",
		Long: `Measure the raw cost of a noop request and print the median, which is
the correction that makes a noop report zero units on this machine.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := bench.NewRunner(processor.New(),
				bench.WithBudget(rootOpts.Config.BudgetUnits),
				bench.WithLogger(rootOpts.Logger),
			)

			correction, err := runner.Calibrate(cmd.Context(), samples)
			if err != nil {
				return WrapExitError(ExitCommandError, "calibrate", err)
			}

			view := calibrateView{
				Samples:    samples,
				Correction: correction,
				Configured: rootOpts.Config.Correction,
			}

			return rootOpts.output(cmd).Print(view, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "correction %d (configured %d, %d samples)\n",
					view.Correction, view.Configured, view.Samples)
				return err
			})
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 101, "noop invocations to measure")

	return cmd
}
