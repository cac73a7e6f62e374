package cmd

import (
	"fmt"
	"strings"

	"github.com/roffe/godtc"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(codeCmd)
}

var codeCmd = &cobra.Command{
	Use:   "code <DTC|HEX>",
	Short: "convert between a DTC and its two byte form",
	Example: `  dtctool code P0301
  dtctool code 4301`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := strings.ToUpper(strings.ReplaceAll(args[0], " ", ""))

		var (
			code godtc.Code
			err  error
		)
		if godtc.ValidCode(in) {
			code, err = godtc.ParseCode(in)
		} else {
			code, err = godtc.DecodeQuad(strings.TrimPrefix(in, "0X"))
		}
		if err != nil {
			return err
		}

		a, b := code.Bytes()
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %02X %02X  %08b %08b  %s\n", code, a, b, a, b, code.System())
		return nil
	},
}
