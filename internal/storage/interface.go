package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned by BlobStore.Open for an unknown name.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore keeps the uploaded bytes under flat storage names.
type BlobStore interface {
	// Put writes r under name and returns the number of bytes written. On
	// error nothing is left behind under name.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes name. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	PingContext(ctx context.Context) error
}
