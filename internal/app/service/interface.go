//go:generate mockgen -source=interface.go -destination=../../mocks/mock_relay_service.go -package=mocks

package service

import (
	"context"
	"io"

	"github.com/atinyakov/go-file-relay/internal/storage"
)

// Registry is the code-to-file registry the service drives.
type Registry interface {
	Publish(ctx context.Context, src io.Reader, originalName string) (*storage.Ticket, error)
	Redeem(ctx context.Context, code string) (*storage.Blob, error)
	Sweep(ctx context.Context) storage.SweepResult
	Stats() storage.Stats
	PingContext(ctx context.Context) error
}

// RelayServiceIface is what the HTTP and gRPC layers depend on.
type RelayServiceIface interface {
	Publish(ctx context.Context, src io.Reader, originalName string) (*storage.Ticket, error)
	Redeem(ctx context.Context, code string) (*storage.Blob, error)
	Sweep(ctx context.Context) storage.SweepResult
	GetStats(ctx context.Context) storage.Stats
	PingContext(ctx context.Context) error
}
