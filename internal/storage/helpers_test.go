package storage_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/atinyakov/go-file-relay/internal/storage"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: epoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = epoch.Add(d)
}

// brokenStorage fails Put or Delete on demand.
type brokenStorage struct {
	*storage.MemoryStorage
	mu        sync.Mutex
	putErr    error
	deleteErr error
}

func (b *brokenStorage) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	b.mu.Lock()
	err := b.putErr
	b.mu.Unlock()

	if err != nil {
		return 0, err
	}
	return b.MemoryStorage.Put(ctx, name, r)
}

func (b *brokenStorage) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	err := b.deleteErr
	b.mu.Unlock()

	if err != nil {
		return err
	}
	return b.MemoryStorage.Delete(ctx, name)
}

func (b *brokenStorage) failDeletes(err error) {
	b.mu.Lock()
	b.deleteErr = err
	b.mu.Unlock()
}
