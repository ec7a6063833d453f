// Package cli implements the cubench command tree.
package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/calebcase/cubench/internal/config"
	"github.com/calebcase/cubench/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0-dev"

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags and the state loaded from them.
type RootOptions struct {
	ConfigFile string
	Format     string
	Verbose    bool

	Config *config.Config
	Logger *logging.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cubench",
		Short: "cubench - compute unit cost of arithmetic primitives",
		Long: `cubench measures what individual arithmetic primitives cost against a
draining compute budget: integer and fixed-point square roots, checked
integer math, and float approximations.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "configuration file (toml, yaml or json)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text), overrides the configuration")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewInvokeCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCalibrateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

func (opts *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load configuration", err)
	}

	if opts.Format != "" {
		if !slices.Contains(ValidFormats, opts.Format) {
			return NewExitError(ExitCommandError, "invalid format "+opts.Format+": must be text or json")
		}

		cfg.Format = opts.Format
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}

	logger, err := logging.Open(cmd.ErrOrStderr(), cfg.LogFormat, level)
	if err != nil {
		return WrapExitError(ExitCommandError, "open logger", err)
	}

	opts.Config = cfg
	opts.Logger = logger

	return nil
}

func (opts *RootOptions) output(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format: opts.Config.Format,
		Writer: cmd.OutOrStdout(),
	}
}
