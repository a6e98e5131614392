package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd prints the profile state and its connected devices.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the HID Device profile state and connected hosts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(waitReady())
		if err != nil {
			return err
		}
		defer s.close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Platform:  %s, %s\n", s.info.OS, s.info.Stack)
		fmt.Fprintf(out, "Profile:   %s (%s)\n", s.localize.String(s.profile.NameResource(nilAddress)), s.profile)
		fmt.Fprintf(out, "Ready:     %t\n", s.profile.IsProfileReady())

		devices := s.devices.Devices()
		if len(devices) == 0 {
			fmt.Fprintln(out, "Devices:   none")
			return nil
		}

		fmt.Fprintln(out, "Devices:")
		for _, d := range devices {
			data := d.Data()
			fmt.Fprintf(out, "  %s  %-24s %s\n", data.Address, data.DisplayName(), s.summary(data.Address))
		}

		return nil
	},
}
