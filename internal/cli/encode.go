package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calebcase/cubench/instruction"
)

type encodeView struct {
	Instruction string `json:"instruction"`
	Hex         string `json:"hex"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <instruction> [key=value...]",
		Short: "Print the wire encoding of a request",
		Long: `Print the wire encoding of a request as hex.

Example:
  cubench encode precise_mul_div val=1 num=2 denom=3`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := request("", args)
			if err != nil {
				return err
			}

			ins, err := instruction.Decode(input)
			if err != nil {
				return WrapExitError(ExitCommandError, "decode", err)
			}

			view := encodeView{
				Instruction: instruction.Format(ins),
				Hex:         hex.EncodeToString(input),
			}

			return rootOpts.output(cmd).Print(view, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, view.Hex)
				return err
			})
		},
	}
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "decode <hex>",
		Short:         "Print the instruction a raw request decodes to",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid hex", err)
			}

			ins, err := instruction.Decode(input)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid request", err)
			}

			view := encodeView{
				Instruction: instruction.Format(ins),
				Hex:         hex.EncodeToString(input),
			}

			return rootOpts.output(cmd).Print(view, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, view.Instruction)
				return err
			})
		},
	}
}
