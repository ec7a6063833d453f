package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/calebcase/cubench/internal/bench"
	"github.com/calebcase/cubench/internal/metrics"
	"github.com/calebcase/cubench/internal/store"
	"github.com/calebcase/cubench/processor"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Suite       string
	Repeat      int
	Concurrency int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark suite",
		Long: `Run every case of a suite, repeating each request and summarizing its
corrected cost. The built in suite is used unless --suite names a YAML file.

The report is saved when a database is configured, and metrics are written
when a metrics file is configured.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Suite, "suite", "", "suite file (YAML)")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", 0, "invocations per case, overrides the configuration")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "cases run at once, overrides the configuration")

	return cmd
}

func runSuite(opts *RunOptions, cmd *cobra.Command) error {
	cfg := opts.Config

	suite := bench.DefaultSuite()
	if opts.Suite != "" {
		var err error

		suite, err = bench.LoadSuite(opts.Suite)
		if err != nil {
			return WrapExitError(ExitCommandError, "load suite", err)
		}
	}

	repeat := cfg.Repeat
	if opts.Repeat > 0 {
		repeat = opts.Repeat
	}

	concurrency := cfg.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	collector := metrics.New()

	runner := bench.NewRunner(
		processor.New(
			processor.WithCorrection(cfg.Correction),
			processor.WithLogger(opts.Logger),
		),
		bench.WithBudget(cfg.BudgetUnits),
		bench.WithRepeat(repeat),
		bench.WithConcurrency(concurrency),
		bench.WithLogger(opts.Logger),
		bench.WithRecorder(collector),
	)

	report, err := runner.Run(cmd.Context(), suite)
	if err != nil {
		return WrapExitError(ExitFailure, "run suite", err)
	}

	if cfg.Database != "" {
		err = saveReport(cmd, cfg.Database, report)
		if err != nil {
			return err
		}
	}

	if cfg.MetricsFile != "" {
		err = collector.WriteTextfile(cfg.MetricsFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "write metrics", err)
		}
	}

	err = opts.output(cmd).Print(report, func(w io.Writer) error {
		return bench.WriteText(w, report)
	})
	if err != nil {
		return err
	}

	if failed := report.Failed(); failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d cases failed", failed, len(report.Cases)))
	}

	return nil
}

func saveReport(cmd *cobra.Command, path string, report *bench.Report) (err error) {
	s, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}

	defer func() {
		closeErr := s.Close()
		if err == nil && closeErr != nil {
			err = WrapExitError(ExitCommandError, "close database", closeErr)
		}
	}()

	err = s.SaveRun(cmd.Context(), report)
	if err != nil {
		return WrapExitError(ExitCommandError, "save run", err)
	}

	return nil
}
