package config

import "time"

const (
	// DefaultAdapter is the adapter used when none is configured.
	DefaultAdapter = "hci0"

	// DefaultLocale is the locale used to render user-visible strings.
	DefaultLocale = "en"

	// DefaultCallTimeout is the timeout for calls to the Bluetooth service.
	DefaultCallTimeout = 5 * time.Second
)

// Configuration describes a general configuration.
type Configuration struct {
	// Adapter holds the unique name of the local adapter, for example "hci0".
	Adapter string

	// Locale holds the locale used to render user-visible strings.
	Locale string

	// ExecutablePath holds the path to the shim executable.
	// Specific to Windows, MacOS and FreeBSD shims.
	ExecutablePath string

	// SocketPath holds the path of the socket the shim listens on.
	// A temporary path is created when empty.
	SocketPath string

	// CallTimeout holds the timeout for calls to the Bluetooth service.
	CallTimeout time.Duration
}

// New returns a new configuration with default values.
func New() Configuration {
	return Configuration{
		Adapter:     DefaultAdapter,
		Locale:      DefaultLocale,
		CallTimeout: DefaultCallTimeout,
	}
}

// WithDefaults fills unset values with their defaults.
func (c Configuration) WithDefaults() Configuration {
	if c.Adapter == "" {
		c.Adapter = DefaultAdapter
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}

	return c
}
