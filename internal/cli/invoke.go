package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calebcase/cubench/instruction"
	"github.com/calebcase/cubench/meter"
	"github.com/calebcase/cubench/processor"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	Hex string
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke [instruction] [key=value...]",
		Short: "Process one request and print its log and payload",
		Long: `Process one request against a fresh budget and print the program log
followed by the return payload.

Example:
  cubench invoke u64_multiply multiplicand=42 multiplier=84
  cubench invoke --hex 83aad4`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Hex, "hex", "", "raw request bytes as hex instead of an instruction")

	return cmd
}

// request returns the raw request named by either a hex flag or an
// instruction with its arguments.
func request(hexInput string, args []string) ([]byte, error) {
	switch {
	case hexInput != "" && len(args) > 0:
		return nil, NewExitError(ExitCommandError, "use either --hex or an instruction, not both")
	case hexInput != "":
		input, err := hex.DecodeString(strings.TrimPrefix(hexInput, "0x"))
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --hex", err)
		}

		return input, nil
	case len(args) == 0:
		return nil, NewExitError(ExitCommandError, "an instruction is required")
	}

	ins, err := instruction.ParseArgs(args[0], args[1:])
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid instruction", err)
	}

	input, err := instruction.Encode(ins)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "encode", err)
	}

	return input, nil
}

type measurementView struct {
	Name  string `json:"name"`
	Units uint64 `json:"units"`
	Raw   uint64 `json:"raw"`
	Value string `json:"value"`
}

type invokeView struct {
	Instruction  string            `json:"instruction"`
	Log          []string          `json:"log"`
	Measurements []measurementView `json:"measurements"`
	Payload      string            `json:"payload"`
}

func invoke(opts *InvokeOptions, args []string, cmd *cobra.Command) error {
	input, err := request(opts.Hex, args)
	if err != nil {
		return err
	}

	proc := processor.New(
		processor.WithCorrection(opts.Config.Correction),
		processor.WithLogger(opts.Logger),
	)
	host := meter.NewHost(opts.Config.BudgetUnits, meter.WithForward(opts.Logger))

	res, err := proc.Process(host, input)
	if err != nil {
		if opts.Config.Format == "text" {
			for _, line := range host.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		}

		if instruction.DecodeError.Has(err) {
			return WrapExitError(ExitCommandError, "invalid request", err)
		}

		if code, ok := processor.ErrorCode(err); ok {
			return WrapExitError(ExitFailure, fmt.Sprintf("invocation failed with code %d", code), err)
		}

		return WrapExitError(ExitFailure, "invocation failed", err)
	}

	payload, err := res.MarshalBinary()
	if err != nil {
		return WrapExitError(ExitFailure, "payload", err)
	}

	view := invokeView{
		Instruction: instruction.Format(res.Instruction),
		Log:         host.Lines(),
		Payload:     hex.EncodeToString(payload),
	}

	for _, m := range res.Measurements {
		view.Measurements = append(view.Measurements, measurementView(m))
	}

	return opts.output(cmd).Print(view, func(w io.Writer) error {
		for _, line := range view.Log {
			_, err := fmt.Fprintln(w, line)
			if err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, "payload %s\n", view.Payload)

		return err
	})
}
