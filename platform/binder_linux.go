//go:build linux

package platform

import (
	"github.com/bluetuith-org/hidprofile/api/config"
	"github.com/bluetuith-org/hidprofile/linux"
)

// Binder returns a platform-specific profile proxy binder.
func Binder(cfg config.Configuration) (ProxyBinder, PlatformInfo) {
	return linux.NewBluezBinder(cfg), NewPlatformInfo(BluezStack)
}
