package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roffe/godtc"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <hex byte>",
	Short: "decode a monitor status byte",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := strings.TrimPrefix(strings.ToLower(args[0]), "0x")
		v, err := strconv.ParseUint(in, 16, 8)
		if err != nil {
			return fmt.Errorf("invalid status byte %q: %w", args[0], err)
		}
		s := godtc.ParseStatus(byte(v))

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "MIL:             %s\n", onOff(s.MILActive))
		fmt.Fprintf(w, "DTC count:       %d\n", s.DTCCount)
		fmt.Fprintf(w, "Current error:   %s\n", onOff(s.CurrentError))
		fmt.Fprintf(w, "Pending error:   %s\n", onOff(s.PendingError))
		fmt.Fprintf(w, "Confirmed error: %s\n", onOff(s.ConfirmedError))
		fmt.Fprintf(w, "EGR system:      %s\n", onOff(s.EGRSystem))
		fmt.Fprintf(w, "Oxygen sensor:   %s\n", onOff(s.OxygenSensor))
		fmt.Fprintf(w, "Catalyst:        %s\n", onOff(s.Catalyst))
		return nil
	},
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
