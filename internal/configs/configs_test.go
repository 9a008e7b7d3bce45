package configs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load(nil)
	require.NoError(t, err)

	require.Equal(t, DefaultIP, cfg.IP)
	require.Equal(t, DefaultPort, cfg.Port)
	require.Equal(t, "127.0.0.1:42069", cfg.Addr())
	require.Equal(t, "development", cfg.Environment)
	require.True(t, cfg.IsDevelopment())
	require.Empty(t, cfg.StatsAddr)
}

func TestLoadShortAndLongFlags(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load([]string{"-i", "0.0.0.0", "-p", "9000"})
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", cfg.Addr())

	cfg, err = Load([]string{"--ip", "::1", "--port", "9001"})
	require.NoError(t, err)
	require.Equal(t, "[::1]:9001", cfg.Addr())
}

func TestLoadStatsAddr(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load([]string{"--stats-addr", "127.0.0.1:9090"})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.StatsAddr)
}

func TestLoadRejectsBadIP(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")

	_, err := Load([]string{"--ip", "not-an-ip"})
	require.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")

	_, err := Load([]string{"--port", "0"})
	require.Error(t, err)

	_, err = Load([]string{"--port", "65536"})
	require.Error(t, err)
}

func TestLoadEnvironmentFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.False(t, cfg.IsDevelopment())
}
