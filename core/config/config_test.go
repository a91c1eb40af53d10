package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "public", cfg.Server.StaticDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sim", cfg.GPIO.Driver)
	assert.Equal(t, 50, cfg.GPIO.PollMillis)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "home/gpio", cfg.MQTT.Prefix)
	assert.Equal(t, 1, cfg.MQTT.QoS)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "config.json", cfg.Store.ConfigName)
	assert.Equal(t, "state.json", cfg.Store.StateName)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_PREFIX", "garden/gpio")
	t.Setenv("GPIO_DRIVER", "periph")
	t.Setenv("STORE_DIR", "/var/lib/greenspring")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "garden/gpio", cfg.MQTT.Prefix)
	assert.Equal(t, "periph", cfg.GPIO.Driver)
	assert.Equal(t, "/var/lib/greenspring", cfg.Store.Dir)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORE_DRIVER=memory\nLOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}
