package commands

// Argument is a named command-line argument of a shim command.
type Argument string

const (
	SocketArgument  Argument = "--socket-path"
	AddressArgument Argument = "--address"
	ProfileArgument Argument = "--uuid"
)

func (a Argument) String() string {
	return string(a)
}
