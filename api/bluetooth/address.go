package bluetooth

import (
	"fmt"
	"net"
	"strings"
)

// MacAddress holds a Bluetooth device address.
type MacAddress [6]byte

// ParseMAC parses a colon-separated Bluetooth address, for example "AA:BB:CC:DD:EE:FF".
func ParseMAC(address string) (MacAddress, error) {
	var mac MacAddress

	hw, err := net.ParseMAC(address)
	if err != nil {
		return mac, err
	}
	if len(hw) != len(mac) {
		return mac, fmt.Errorf("invalid bluetooth address length: %s", address)
	}

	copy(mac[:], hw)

	return mac, nil
}

// String converts the address to its upper-case, colon-separated form.
func (m MacAddress) String() string {
	return strings.ToUpper(net.HardwareAddr(m[:]).String())
}

// IsNil reports whether the address is all zeroes.
func (m MacAddress) IsNil() bool {
	return m == MacAddress{}
}

// MarshalText encodes the address as text.
func (m MacAddress) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes the address from text.
func (m *MacAddress) UnmarshalText(text []byte) error {
	mac, err := ParseMAC(string(text))
	if err != nil {
		return err
	}

	*m = mac

	return nil
}
