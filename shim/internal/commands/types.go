package commands

import (
	"slices"
	"strings"
	"time"

	"github.com/ugorji/go/codec"
)

// CommandReplyTimeout is the default time to wait for a command reply.
const CommandReplyTimeout = 10 * time.Second

// ExecuteFunc sends a command to the shim, and returns the channel its reply is delivered on.
type ExecuteFunc func(params []string) (chan CommandRawData, error)
type ArgumentMap = map[Argument]string
type NoResult = struct{}

type OperationID uint32
type RequestID int64

// T is the return value type of the command.
// If T is of type NoResult, it means the command only returns errors, and no other values.
type Command[T any] struct {
	cmd    string
	argmap ArgumentMap
}

// CommandMetadata identifies the request a reply belongs to.
type CommandMetadata struct {
	OperationId OperationID
	RequestId   RequestID
}

// CommandRawData holds an undecoded command reply.
type CommandRawData struct {
	CommandMetadata

	RawData []byte
}

type CommandResponse struct {
	Status string `json:"status"`

	OperationId OperationID  `json:"operation_id,omitempty"`
	RequestId   RequestID    `json:"request_id,omitempty"`
	Error       CommandError `json:"error,omitempty"`
	Data        codec.Raw    `json:"data,omitempty"`
}

type CommandError struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

func (c CommandError) Error() string {
	sb := strings.Builder{}

	sb.WriteString(c.Name)
	sb.WriteString(": ")
	if c.Description == "" {
		sb.WriteString("No information is provided for this error")
	} else {
		sb.WriteString(c.Description)
	}
	sb.WriteString(".")

	if len(c.Metadata) == 0 {
		return sb.String()
	}

	keys := make([]string, 0, len(c.Metadata))
	for k := range c.Metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	sb.WriteString(" (")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Metadata[k])
	}
	sb.WriteString(")")

	return sb.String()
}

func (c *Command[T]) String() string {
	return strings.Join(c.Slice(), " ")
}

// Slice returns the command and its arguments, with arguments in a stable order.
func (c *Command[T]) Slice() []string {
	params := strings.Fields(c.cmd)

	args := make([]Argument, 0, len(c.argmap))
	for arg := range c.argmap {
		args = append(args, arg)
	}
	slices.Sort(args)

	for _, arg := range args {
		params = append(params, arg.String(), c.argmap[arg])
	}

	return params
}

func (c *Command[T]) WithArgument(arg Argument, value string) *Command[T] {
	if c.argmap == nil {
		c.argmap = make(ArgumentMap)
	}

	c.argmap[arg] = value

	return c
}

func (c *Command[T]) WithArguments(fn func(ArgumentMap)) *Command[T] {
	if c.argmap == nil {
		c.argmap = make(ArgumentMap)
	}

	fn(c.argmap)

	return c
}
