package main

import (
	"fmt"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/spf13/cobra"
)

var nilAddress bluetooth.MacAddress

// disconnectCmd disconnects the HID Device profile from a host.
var disconnectCmd = &cobra.Command{
	Use:   "disconnect ADDRESS",
	Short: "Disconnect the HID Device profile from a host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := bluetooth.ParseMAC(args[0])
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", args[0], err)
		}

		s, err := openSession(waitReady())
		if err != nil {
			return err
		}
		defer s.close()

		if !s.profile.Disconnect(address) {
			return fmt.Errorf("cannot disconnect %s", address)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", address, s.localize.String(s.profile.SummaryResource(address)))

		return nil
	},
}
