package cmd

import (
	"fmt"

	"github.com/roffe/godtc"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(modesCmd)
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "list DTC service modes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, m := range godtc.Modes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  0x%02X  %-10s %s\n", m.Request, m.Response, m.Name, m.Description)
		}
	},
}
