package main

import (
	"fmt"
	"time"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/eventbus"
	"github.com/bluetuith-org/hidprofile/api/helpers/devicecache"
	"github.com/bluetuith-org/hidprofile/api/logger"
	"github.com/bluetuith-org/hidprofile/api/profiles/hiddevice"
	"github.com/bluetuith-org/hidprofile/api/resources"
	"github.com/bluetuith-org/hidprofile/platform"
)

// session holds a bound HID Device profile and its device cache.
type session struct {
	binder   platform.ProxyBinder
	info     platform.PlatformInfo
	devices  *devicecache.Cache
	profile  *hiddevice.Profile
	localize *resources.Localizer
}

// openSession binds the HID Device profile, and waits up to timeout for it to be ready.
func openSession(timeout time.Duration) (*session, error) {
	binder, info := platform.Binder(cfg)

	s := &session{
		binder:   binder,
		info:     info,
		devices:  devicecache.New(),
		localize: resources.NewLocalizer(cfg.Locale),
	}

	sub := eventbus.Subscribe(eventbus.ProfileServiceEvent)
	defer sub.Unsubscribe()

	profile, err := hiddevice.New(binder, s.devices, hiddevice.WithLogger(logger.WithComponent("hid-device-profile")))
	if err != nil {
		binder.Close()
		return nil, err
	}
	s.profile = profile

	events := sub.C
	deadline := time.After(timeout)
	for !profile.IsProfileReady() {
		select {
		case data, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev, ok := data.(bluetooth.ProfileServiceEventData); ok && ev.Ready {
				return s, nil
			}

		case <-deadline:
			s.close()
			return nil, fmt.Errorf("HID Device profile was not ready after %s (is the Bluetooth service running?)", timeout)
		}
	}

	return s, nil
}

func (s *session) close() {
	s.profile.Close()
	if err := s.binder.Close(); err != nil {
		l := logger.GetLogger()
		l.Debug().Err(err).Msg("Cannot close binder")
	}
}

// summary returns the localized profile summary of a device.
func (s *session) summary(address bluetooth.MacAddress) string {
	return s.localize.String(s.profile.SummaryResource(address))
}
