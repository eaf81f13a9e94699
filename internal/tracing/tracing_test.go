package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/go-file-relay/internal/tracing"
)

func TestInit_Disabled(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	shutdown, err := tracing.Init(context.Background(), "", "test", zap.New(core))
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	require.Equal(t, 1, logs.FilterMessage("tracing disabled").Len())
}

func TestInit_Enabled(t *testing.T) {
	// The exporter connects lazily, so an unreachable endpoint is fine here.
	shutdown, err := tracing.Init(context.Background(), "127.0.0.1:1", "test", zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
