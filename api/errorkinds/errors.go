// Package errorkinds holds the error values returned by binders and profile adapters.
package errorkinds

import "errors"

var (
	ErrNotSupported    = errors.New("this operation is not supported")
	ErrMethodCall      = errors.New("method call error")
	ErrMethodTimeout   = errors.New("method call timed out")
	ErrSessionNotExist = errors.New("session does not exist")
	ErrSessionStop     = errors.New("session was stopped")
	ErrProxyClosed     = errors.New("profile proxy was closed")
	ErrAlreadyBound    = errors.New("profile proxy is already bound to a listener")
	ErrDeviceNotFound  = errors.New("device not found")
)
