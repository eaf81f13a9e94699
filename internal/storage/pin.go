package storage

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"
)

// pinnedBlob releases its storage name in the registry on the first Close.
type pinnedBlob struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (p *pinnedBlob) Close() error {
	err := p.ReadCloser.Close()
	p.once.Do(p.release)
	return err
}

// pinnedSeekBlob keeps Seek visible for range requests.
type pinnedSeekBlob struct {
	*pinnedBlob
	io.Seeker
}

func (r *Registry) pin(rc io.ReadCloser, storageName string) io.ReadCloser {
	p := &pinnedBlob{
		ReadCloser: rc,
		release:    func() { r.release(storageName) },
	}

	if s, ok := rc.(io.Seeker); ok {
		return pinnedSeekBlob{pinnedBlob: p, Seeker: s}
	}
	return p
}

// release drops one reader of storageName and deletes the blob when a sweep
// is waiting for it.
func (r *Registry) release(storageName string) {
	r.mu.Lock()
	r.readers[storageName]--
	if r.readers[storageName] > 0 {
		r.mu.Unlock()
		return
	}
	delete(r.readers, storageName)

	code, doomed := r.doomed[storageName]
	delete(r.doomed, storageName)
	r.mu.Unlock()

	if !doomed {
		return
	}

	// The record is gone, so nothing else refers to storageName any more.
	if err := r.blobs.Delete(context.Background(), storageName); err != nil {
		sweepDeleteErrorsTotal.Inc()
		r.logger.Error("cannot delete expired blob",
			zap.String("code", code),
			zap.String("storage_name", storageName),
			zap.Error(err),
		)
		return
	}

	r.logger.Debug("expired blob deleted after last reader",
		zap.String("code", code),
		zap.String("storage_name", storageName),
	)
}
