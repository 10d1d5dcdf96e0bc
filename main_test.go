package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"scavngr.io/todolist/config"
	"scavngr.io/todolist/events"
	"scavngr.io/todolist/stores"
)

func TestServeFlagsOverrideConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "--backend", "redis"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, `unknown backend "redis"`)
}

func TestOpenStoreMemory(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendMemory

	store, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &stores.Memory{}, store)
}

func TestOpenPublisherWithoutTopic(t *testing.T) {
	publisher, closeFn, err := openPublisher(context.Background(), config.Default())
	require.NoError(t, err)
	assert.Equal(t, events.Nop{}, publisher)
	closeFn()
}

func TestSetupLogging(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"
	assert.Error(t, setupLogging(cfg))

	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"
	assert.NoError(t, setupLogging(cfg))
}
