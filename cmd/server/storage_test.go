package main

import (
	"testing"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/fadilmartias/candidate-screener/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKVStore(t *testing.T) {
	appConfig := &config.AppConfig{Env: "test"}

	store, err := NewKVStore(&config.DBConfig{Driver: config.StorageDriverMemory}, appConfig)
	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryKVStore{}, store)

	_, err = NewKVStore(&config.DBConfig{Driver: "sqlite"}, appConfig)
	assert.ErrorContains(t, err, "unknown STORAGE_DRIVER")
}

func TestCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
}

func TestPortFlag(t *testing.T) {
	t.Cleanup(func() { servePort = "" })

	require.NoError(t, rootCmd.ParseFlags([]string{"--port", ":9000"}))
	assert.Equal(t, ":9000", servePort)

	assert.NotNil(t, serveCmd.InheritedFlags().Lookup("port"))
}
