package commands

import (
	"time"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/errorkinds"
	"github.com/bluetuith-org/hidprofile/shim/internal/serde"
	"github.com/google/uuid"
)

// Session commands.
func StartRpcServer(socketPath string) *Command[NoResult] {
	return (&Command[NoResult]{cmd: "rpc start-session"}).WithArgument(SocketArgument, socketPath)
}
func StopRpcServer() *Command[NoResult] {
	return &Command[NoResult]{cmd: "rpc stop-session"}
}
func GetAdapters() *Command[[]bluetooth.AdapterData] {
	return &Command[[]bluetooth.AdapterData]{cmd: "adapter list"}
}

// Adapter commands.
func GetPairedDevices(Address bluetooth.MacAddress) *Command[[]bluetooth.DeviceData] {
	return (&Command[[]bluetooth.DeviceData]{cmd: "adapter get-paired-devices"}).WithArgument(AddressArgument, Address.String())
}

// Device commands.
func DeviceProperties(Address bluetooth.MacAddress) *Command[bluetooth.DeviceData] {
	return (&Command[bluetooth.DeviceData]{cmd: "device properties"}).WithArgument(AddressArgument, Address.String())
}
func DisconnectProfile(Address bluetooth.MacAddress, Profile uuid.UUID) *Command[NoResult] {
	return (&Command[NoResult]{cmd: "device disconnect profile"}).WithArguments(func(am ArgumentMap) {
		am[AddressArgument] = Address.String()
		am[ProfileArgument] = Profile.String()
	})
}

// ExecuteWith sends the command using fn, and waits for its reply.
// The reply data is decoded into T.
func (c *Command[T]) ExecuteWith(fn ExecuteFunc, timeout ...time.Duration) (T, error) {
	var result T

	wait := CommandReplyTimeout
	if len(timeout) > 0 && timeout[0] > 0 {
		wait = timeout[0]
	}

	replyChan, err := fn(c.Slice())
	if err != nil {
		return result, err
	}

	select {
	case reply, ok := <-replyChan:
		if !ok {
			return result, errorkinds.ErrSessionStop
		}

		return decodeReply[T](reply.RawData)

	case <-time.After(wait):
		return result, errorkinds.ErrMethodTimeout
	}
}

func decodeReply[T any](raw []byte) (T, error) {
	var result T

	var response CommandResponse
	if err := serde.UnmarshalJson(raw, &response); err != nil {
		return result, err
	}

	switch response.Status {
	case "error":
		return result, response.Error

	case "ok":
		if len(response.Data) == 0 {
			return result, nil
		}

		reply := make(map[string]T, 1)
		if err := serde.UnmarshalJson(response.Data, &reply); err != nil {
			return result, err
		}

		for _, mv := range reply {
			result = mv
		}

		return result, nil
	}

	return result, errorkinds.ErrMethodCall
}
