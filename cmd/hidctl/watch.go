package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/eventbus"
	"github.com/bluetuith-org/hidprofile/api/helpers/devicecache"
	"github.com/bluetuith-org/hidprofile/api/profiles/hiddevice"
	"github.com/bluetuith-org/hidprofile/platform"
	"github.com/spf13/cobra"
)

// watchCmd prints profile and device events until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print HID Device profile events until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		service := eventbus.Subscribe(eventbus.ProfileServiceEvent)
		defer service.Unsubscribe()
		refresh := eventbus.Subscribe(eventbus.DeviceRefreshEvent)
		defer refresh.Unsubscribe()

		binder, _ := platform.Binder(cfg)
		profile, err := hiddevice.New(binder, devicecache.New())
		if err != nil {
			binder.Close()
			return err
		}
		defer func() {
			profile.Close()
			binder.Close()
		}()

		return printEvents(ctx, cmd.OutOrStdout(), service.C, refresh.C)
	},
}

// printEvents prints profile service and device refresh events until ctx is done.
// A closed event channel is no longer selected.
func printEvents(ctx context.Context, out io.Writer, service, refresh chan any) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case data, ok := <-service:
			if !ok {
				service = nil
				continue
			}
			if ev, ok := data.(bluetooth.ProfileServiceEventData); ok {
				fmt.Fprintf(out, "%s ready=%t\n", ev.Profile, ev.Ready)
			}

		case data, ok := <-refresh:
			if !ok {
				refresh = nil
				continue
			}
			if ev, ok := data.(bluetooth.DeviceRefreshEventData); ok {
				fmt.Fprintf(out, "%s %s profiles=%v\n", ev.Device.Address, ev.Device.DisplayName(), ev.Profiles)
			}
		}
	}
}
