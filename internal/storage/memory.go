package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryStorage is a BlobStore backed by a map. It is used when no upload
// folder is configured and in tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func CreateMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		blobs: make(map[string][]byte),
	}
}

func (m *MemoryStorage) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := validName(name); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.blobs[name] = buf.Bytes()
	m.mu.Unlock()

	return n, nil
}

func (m *MemoryStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	b, exists := m.blobs[name]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrBlobNotFound
	}

	return readSeekNopCloser{bytes.NewReader(b)}, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()

	return nil
}

func (m *MemoryStorage) PingContext(ctx context.Context) error {
	return nil
}

// Has reports whether name is stored.
func (m *MemoryStorage) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.blobs[name]
	return exists
}

// Len returns the number of stored blobs.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.blobs)
}

// readSeekNopCloser keeps the Seek method visible so downloads can be served
// with range support.
type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }
