package commands

import "encoding/binary"

// RawCommandHeaderSize is the size of the header preceding every message from the shim.
const RawCommandHeaderSize = 18

type RawCommandHeaderBuffer = [RawCommandHeaderSize]byte

// RawCommandHeader is the big-endian wire layout of a message header.
type RawCommandHeader struct {
	ApiVersion  byte
	InfoHeader  byte
	RequestId   int64
	OperationId uint32
	ContentSize uint32
}

type UnpackedRawCommandHeader struct {
	RawCommandHeader

	// Parsed from InfoHeader: the high nibble holds flags, the low nibble the event ID.
	IsOperationComplete bool
	EventID             byte
}

// UnpackReplyHeader decodes a message header. A non-zero EventID marks an
// unsolicited event rather than a command reply.
func UnpackReplyHeader(rawheader RawCommandHeaderBuffer) (UnpackedRawCommandHeader, error) {
	var header RawCommandHeader
	if _, err := binary.Decode(rawheader[:], binary.BigEndian, &header); err != nil {
		return UnpackedRawCommandHeader{}, err
	}

	flags := header.InfoHeader >> 4

	return UnpackedRawCommandHeader{
		RawCommandHeader:    header,
		IsOperationComplete: flags&0x01 != 0,
		EventID:             header.InfoHeader & 0x0f,
	}, nil
}
