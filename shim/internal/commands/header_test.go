package commands

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackReplyHeader(t *testing.T) {
	var raw RawCommandHeaderBuffer

	raw[0] = 1
	raw[1] = 0x13
	binary.BigEndian.PutUint64(raw[2:], 42)
	binary.BigEndian.PutUint32(raw[10:], 7)
	binary.BigEndian.PutUint32(raw[14:], 128)

	header, err := UnpackReplyHeader(raw)
	require.NoError(t, err)

	assert.Equal(t, byte(1), header.ApiVersion)
	assert.Equal(t, int64(42), header.RequestId)
	assert.Equal(t, uint32(7), header.OperationId)
	assert.Equal(t, uint32(128), header.ContentSize)
	assert.True(t, header.IsOperationComplete)
	assert.Equal(t, byte(3), header.EventID)

	raw[1] = 0x00
	header, err = UnpackReplyHeader(raw)
	require.NoError(t, err)
	assert.False(t, header.IsOperationComplete)
	assert.Zero(t, header.EventID)
}
