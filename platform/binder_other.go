//go:build !linux

package platform

import (
	"github.com/bluetuith-org/hidprofile/api/config"
	"github.com/bluetuith-org/hidprofile/shim"
)

// Binder returns a platform-specific profile proxy binder.
func Binder(cfg config.Configuration) (ProxyBinder, PlatformInfo) {
	return shim.NewShimBinder(cfg), NewPlatformInfo(ShimStack)
}
