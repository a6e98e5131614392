package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn"}))
	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())

	require.NoError(t, Init(Config{Level: "warn", Debug: true}))
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())

	assert.Error(t, Init(Config{Level: "loud"}))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Init(Config{Level: "debug"}))
	SetOutput(&buf)

	l := WithComponent("hid-device")
	l.Debug().Msg("bound")

	assert.Contains(t, buf.String(), `"component":"hid-device"`)
	assert.Contains(t, buf.String(), `"message":"bound"`)

	SetLevel(zerolog.InfoLevel)
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}
