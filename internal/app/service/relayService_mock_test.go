package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/go-file-relay/internal/mocks"
	"github.com/atinyakov/go-file-relay/internal/storage"
)

func TestRelayService_StorageFailureLoggedAsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockRegistry(ctrl)
	core, logs := observer.New(zap.InfoLevel)
	svc := NewRelay(registry, zap.New(core))

	cause := fmt.Errorf("%w: %w", storage.ErrStorageWrite, errors.New("disk full"))
	registry.EXPECT().Publish(gomock.Any(), gomock.Any(), "a.pdf").Return(nil, cause)

	_, err := svc.Publish(context.Background(), strings.NewReader("x"), "a.pdf")
	require.ErrorIs(t, err, storage.ErrStorageWrite)

	entries := logs.FilterMessage("relay operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
}

func TestRelayService_Delegates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockRegistry(ctrl)
	svc := NewRelay(registry, zap.NewNop())
	ctx := context.Background()

	registry.EXPECT().Stats().Return(storage.Stats{Files: 3, Bytes: 42})
	registry.EXPECT().Sweep(gomock.Any()).Return(storage.SweepResult{Remaining: 3})
	registry.EXPECT().PingContext(gomock.Any()).Return(errors.New("bucket gone"))
	registry.EXPECT().Redeem(gomock.Any(), "1234").Return(nil, storage.ErrNotFound)

	assert.Equal(t, storage.Stats{Files: 3, Bytes: 42}, svc.GetStats(ctx))
	assert.Equal(t, 3, svc.Sweep(ctx).Remaining)
	assert.EqualError(t, svc.PingContext(ctx), "bucket gone")

	_, err := svc.Redeem(ctx, "1234")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
