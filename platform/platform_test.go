package platform

import (
	"runtime"
	"strings"
	"testing"

	"github.com/bluetuith-org/hidprofile/api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinder(t *testing.T) {
	binder, info := Binder(config.New())
	require.NotNil(t, binder)

	assert.True(t, strings.HasPrefix(info.OS, runtime.GOOS))
	if runtime.GOOS == "linux" {
		assert.Equal(t, BluezStack, info.Stack)
	} else {
		assert.Equal(t, ShimStack, info.Stack)
	}

	assert.NoError(t, binder.Close())
}
