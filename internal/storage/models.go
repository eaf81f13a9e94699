package storage

import (
	"io"
	"time"
)

// FileRecord describes one published file. It is created by Registry.Publish
// and never changes afterwards.
type FileRecord struct {
	// StorageName is the blob key: a random token plus the original extension.
	// It is never shown to the redeeming party.
	StorageName string `json:"-"`
	// DisplayName is the sanitized original name used for the download.
	DisplayName string `json:"display_name"`
	// ContentType is sniffed from the first bytes of the upload.
	ContentType string `json:"content_type"`
	// Size is the number of bytes written to the blob store.
	Size int64 `json:"size"`
	// CreatedAt is the publish time.
	CreatedAt time.Time `json:"created_at"`
}

// Ticket is returned to the publishing party.
type Ticket struct {
	Code      string
	ExpiresAt time.Time
	FileRecord
}

// Blob is a redeemed file. The caller must close it.
type Blob struct {
	io.ReadCloser
	FileRecord
}

// Stats is an aggregate over the live records.
type Stats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// DeleteOutcome is the result of deleting the blob of one expired record.
// Err is nil when the blob is gone or Deferred is set.
type DeleteOutcome struct {
	Code        string
	StorageName string
	// Deferred means the blob was still being read and is deleted when the
	// last reader closes it.
	Deferred bool
	Err      error
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	Expired   []DeleteOutcome
	Remaining int
}

// Failed returns the number of blobs that could not be deleted.
func (r SweepResult) Failed() int {
	n := 0
	for _, o := range r.Expired {
		if o.Err != nil {
			n++
		}
	}
	return n
}
