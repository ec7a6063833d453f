package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/calebcase/cubench/internal/bench"
	"github.com/calebcase/cubench/internal/store"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List stored runs, or the cases of one run",
		Long: `List the most recent stored runs. With a run id, print that run's cases.
Requires a configured database.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if rootOpts.Config.Database == "" {
				return NewExitError(ExitCommandError, "no database configured")
			}

			s, err := store.Open(rootOpts.Config.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "open database", err)
			}

			defer func() {
				closeErr := s.Close()
				if err == nil && closeErr != nil {
					err = WrapExitError(ExitCommandError, "close database", closeErr)
				}
			}()

			out := rootOpts.output(cmd)

			if len(args) == 1 {
				cases, err := s.RunCases(cmd.Context(), args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "load run", err)
				}

				return out.Print(cases, func(w io.Writer) error {
					return writeCases(w, cases)
				})
			}

			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return WrapExitError(ExitCommandError, "list runs", err)
			}

			return out.Print(runs, func(w io.Writer) error {
				return writeRuns(w, runs)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "most recent runs to list (0 for all)")

	return cmd
}

func writeRuns(w io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "id\tsuite\tstarted\tduration\tcases\tfailed\n")

	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.Suite, r.Started.Format(time.RFC3339), r.Duration.Round(time.Millisecond), r.Cases, r.Failed)
	}

	return tw.Flush()
}

func writeCases(w io.Writer, cases []bench.CaseResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "case\tmin\tmedian\tmax\tvalue\n")

	for _, c := range cases {
		if c.Failed() {
			fmt.Fprintf(tw, "%s\t-\t-\t-\tFAIL: %s\n", c.Name, c.Error)
			continue
		}

		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", c.Name, c.Stats.Min, c.Stats.Median, c.Stats.Max, c.Value)
	}

	return tw.Flush()
}
