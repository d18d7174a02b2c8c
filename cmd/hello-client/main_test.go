package main

import (
	"context"
	"testing"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/cluster"
	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_EmbeddedPlatform(t *testing.T) {
	appConfig := config.Default()
	appConfig.Platform.WorkerCount = 1

	client, closeClient, err := cluster.Connect(&appConfig)
	require.NoError(t, err)
	defer closeClient()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := run(ctx, &appConfig, client, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(result))
}
