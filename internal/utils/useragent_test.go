package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserAgent(t *testing.T) {
	t.Run("Desktop Browser", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Equal(t, "desktop", info.DeviceType)
		assert.Equal(t, "Chrome", info.Browser)
		assert.False(t, info.IsBot)
	})

	t.Run("Mobile Browser", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
		assert.Equal(t, "mobile", info.DeviceType)
	})

	t.Run("Tablet", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148")
		assert.Equal(t, "tablet", info.DeviceType)
	})

	t.Run("Empty Agent", func(t *testing.T) {
		info := ParseUserAgent("")
		assert.Equal(t, "unknown", info.DeviceType)
		assert.Equal(t, "Unknown", info.Browser)
	})
}

func TestDeviceInfoJSON(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0")

	var decoded DeviceInfo
	require.NoError(t, json.Unmarshal([]byte(info.JSON()), &decoded))
	assert.Equal(t, info.Browser, decoded.Browser)
	assert.Equal(t, info.DeviceType, decoded.DeviceType)
}
