// Package storage holds the code-to-file registry and the blob stores it
// writes uploaded bytes to.
//
// The Registry is the only component that creates or deletes blobs. Every
// live record points to a blob that exists; expired records are removed
// lazily by Sweep, which deletes the blob first and the record second.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/atinyakov/go-file-relay/internal/filename"
)

var (
	ErrNoFile              = errors.New("no file supplied")
	ErrNotFound            = errors.New("file not found or code expired")
	ErrStorageWrite        = errors.New("cannot store file")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrCodeSpaceExhausted  = errors.New("no free codes left")
)

// DefaultTTL is how long a published file stays redeemable.
const DefaultTTL = 600 * time.Second

// fallbackName is shown when nothing of the original name survives
// sanitization.
const fallbackName = "file"

// sniffLen is how many leading bytes are inspected for the content type.
const sniffLen = 3072

// Options tunes a Registry. Zero values fall back to defaults.
type Options struct {
	TTL time.Duration
	// AllowedExtensions are compared case-insensitively, without the dot.
	AllowedExtensions []string
	// EnforceExtensions rejects uploads outside AllowedExtensions.
	EnforceExtensions bool
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// NewCode proposes candidate codes. Defaults to RandomCode.
	NewCode func() string
}

type Registry struct {
	mu      sync.Mutex
	records map[string]FileRecord
	// readers counts open Blobs per storage name. doomed holds storage names
	// whose record was swept while readers were open, mapped to their code.
	readers map[string]int
	doomed  map[string]string

	blobs      BlobStore
	logger     *zap.Logger
	ttl        time.Duration
	allowedExt []string
	enforceExt bool
	now        func() time.Time
	newCode    func() string
}

func NewRegistry(blobs BlobStore, logger *zap.Logger, opts Options) *Registry {
	r := &Registry{
		records:    make(map[string]FileRecord),
		readers:    make(map[string]int),
		doomed:     make(map[string]string),
		blobs:      blobs,
		logger:     logger,
		ttl:        opts.TTL,
		allowedExt: opts.AllowedExtensions,
		enforceExt: opts.EnforceExtensions,
		now:        opts.Now,
		newCode:    opts.NewCode,
	}

	if r.ttl <= 0 {
		r.ttl = DefaultTTL
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newCode == nil {
		r.newCode = RandomCode
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	return r
}

// Publish stores src under a fresh storage name and registers it under a new
// code. No record is created unless the blob was written completely.
func (r *Registry) Publish(ctx context.Context, src io.Reader, originalName string) (*Ticket, error) {
	r.Sweep(ctx)

	if src == nil || originalName == "" {
		return nil, ErrNoFile
	}

	// The client name is checked, not the display name: folding to ASCII
	// can eat the stem and with it the dot.
	if r.enforceExt && !filename.Allowed(originalName, r.allowedExt) {
		return nil, fmt.Errorf("%w: %q", ErrExtensionNotAllowed, filename.Extension(originalName))
	}

	displayName := filename.DisplayName(originalName, fallbackName)

	body, contentType, err := sniff(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	storageName := NewStorageName(displayName)
	size, err := r.blobs.Put(ctx, storageName, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	rec := FileRecord{
		StorageName: storageName,
		DisplayName: displayName,
		ContentType: contentType,
		Size:        size,
		CreatedAt:   r.now(),
	}

	r.mu.Lock()
	code, ok := r.reserveCodeLocked()
	if ok {
		r.records[code] = rec
		liveFiles.Set(float64(len(r.records)))
	}
	r.mu.Unlock()

	if !ok {
		if err := r.blobs.Delete(context.WithoutCancel(ctx), storageName); err != nil {
			r.logger.Error("cannot remove blob after code exhaustion",
				zap.String("storage_name", storageName), zap.Error(err))
		}
		return nil, ErrCodeSpaceExhausted
	}

	r.logger.Info("file published",
		zap.String("code", code),
		zap.String("display_name", displayName),
		zap.String("storage_name", storageName),
		zap.Int64("size", size),
	)

	return &Ticket{
		Code:       code,
		ExpiresAt:  rec.CreatedAt.Add(r.ttl),
		FileRecord: rec,
	}, nil
}

// Redeem opens the blob registered under code. The record stays in place, so
// a code can be redeemed any number of times until it expires. The blob is
// pinned until the returned Blob is closed: a sweep in between drops the
// record but leaves the bytes for the reader.
func (r *Registry) Redeem(ctx context.Context, code string) (*Blob, error) {
	r.Sweep(ctx)

	if !ValidCode(code) {
		return nil, ErrNotFound
	}

	// The lock is held while opening so a concurrent sweep cannot delete the
	// blob between lookup and open.
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[code]
	if !exists {
		return nil, ErrNotFound
	}

	rc, err := r.blobs.Open(ctx, rec.StorageName)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			r.logger.Warn("record points to a missing blob",
				zap.String("code", code), zap.String("storage_name", rec.StorageName))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open blob for code %s: %w", code, err)
	}

	r.readers[rec.StorageName]++

	return &Blob{ReadCloser: r.pin(rc, rec.StorageName), FileRecord: rec}, nil
}

func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{Files: len(r.records)}
	for _, rec := range r.records {
		s.Bytes += rec.Size
	}

	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}

func (r *Registry) PingContext(ctx context.Context) error {
	return r.blobs.PingContext(ctx)
}

func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// sniff reads the head of src for content detection and returns a reader
// that still yields the whole stream.
func sniff(src io.Reader) (io.Reader, string, error) {
	head := make([]byte, sniffLen)

	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, "", err
	}
	head = head[:n]

	return io.MultiReader(bytes.NewReader(head), src), mimetype.Detect(head).String(), nil
}
