package serde

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCommand(t *testing.T) {
	first, err := MarshalJson(map[string]any{"command": []string{"rpc", "stop-session"}, "request_id": 1})
	require.NoError(t, err)

	second, err := MarshalJson(map[string]any{"request_id": 2})
	require.NoError(t, err)

	assert.JSONEq(t, `{"command":["rpc","stop-session"],"request_id":1}`, string(first))
	assert.JSONEq(t, `{"request_id":2}`, string(second))
}

func TestUnmarshalIntoPointer(t *testing.T) {
	var reply struct {
		Status string `json:"status"`
	}

	require.NoError(t, UnmarshalJson([]byte(`{"status":"ok"}`), &reply))
	assert.Equal(t, "ok", reply.Status)

	assert.Error(t, UnmarshalJson([]byte(`{"status":`), &reply))
}
