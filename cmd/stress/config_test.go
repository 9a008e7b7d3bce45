package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:42069", cfg.Addr)
	require.Equal(t, 10, cfg.Bots)
	require.Equal(t, 100, cfg.Msgs)
	require.Empty(t, cfg.Rooms)
}

func TestParseConfigRooms(t *testing.T) {
	cfg, err := parseConfig([]string{"-rooms", "rust, gophers ,den"})
	require.NoError(t, err)
	require.Equal(t, []string{"rust", "gophers", "den"}, cfg.Rooms)
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	_, err := parseConfig([]string{"-bots", "0"})
	require.Error(t, err)

	_, err = parseConfig([]string{"-msgs", "0"})
	require.Error(t, err)

	_, err = parseConfig([]string{"-rate", "-1"})
	require.Error(t, err)

	_, err = parseConfig([]string{"-burst", "0"})
	require.Error(t, err)
}
