package storage

import (
	"context"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	sweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_sweep_runs_total",
		Help: "Number of expiry sweeps",
	})

	sweepExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_sweep_expired_total",
		Help: "Number of records removed because their TTL elapsed",
	})

	sweepDeleteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_sweep_delete_errors_total",
		Help: "Number of blobs the sweeper failed to delete",
	})

	liveFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_live_files",
		Help: "Number of redeemable files",
	})
)

// Expired reports whether rec is past its TTL at now.
func Expired(rec FileRecord, now time.Time, ttl time.Duration) bool {
	return now.Sub(rec.CreatedAt) > ttl
}

// SweepExpired splits records into the ones still alive at now and the ones
// past ttl. records is not modified; when nothing expired it is returned as
// kept unchanged.
func SweepExpired(records map[string]FileRecord, now time.Time, ttl time.Duration) (kept, expired map[string]FileRecord) {
	for code, rec := range records {
		if Expired(rec, now, ttl) {
			if expired == nil {
				expired = make(map[string]FileRecord)
			}
			expired[code] = rec
		}
	}

	if len(expired) == 0 {
		return records, nil
	}

	kept = make(map[string]FileRecord, len(records)-len(expired))
	for code, rec := range records {
		if _, gone := expired[code]; !gone {
			kept[code] = rec
		}
	}

	return kept, expired
}

// Sweep removes expired records using the registry clock.
func (r *Registry) Sweep(ctx context.Context) SweepResult {
	return r.SweepAt(ctx, r.now())
}

// SweepAt removes every record older than the TTL at now. Each blob is
// deleted before its record is dropped; a failed delete is logged and the
// record is dropped anyway. Blobs still being read are deleted when their last
// reader closes. Running it twice with the same now is a no-op the
// second time.
func (r *Registry) SweepAt(ctx context.Context, now time.Time) SweepResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	sweepRunsTotal.Inc()

	kept, expired := SweepExpired(r.records, now, r.ttl)
	if len(expired) == 0 {
		return SweepResult{Remaining: len(kept)}
	}

	codes := make([]string, 0, len(expired))
	for code := range expired {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	// Cleanup must finish even when the triggering request goes away.
	ctx = context.WithoutCancel(ctx)

	result := SweepResult{Expired: make([]DeleteOutcome, 0, len(codes))}
	for _, code := range codes {
		outcome := r.deleteBlob(ctx, code, expired[code])
		if outcome.Err != nil {
			sweepDeleteErrorsTotal.Inc()
			r.logger.Error("cannot delete expired blob",
				zap.String("code", outcome.Code),
				zap.String("storage_name", outcome.StorageName),
				zap.Error(outcome.Err),
			)
		}
		result.Expired = append(result.Expired, outcome)
	}

	r.records = kept
	result.Remaining = len(kept)

	sweepExpiredTotal.Add(float64(len(codes)))
	liveFiles.Set(float64(len(kept)))

	r.logger.Info("expired files swept",
		zap.Int("expired", len(result.Expired)),
		zap.Int("failed", result.Failed()),
		zap.Int("remaining", result.Remaining),
	)

	return result
}

// deleteBlob removes the blob of an expired record, or leaves it to the last
// open reader. r.mu must be held.
func (r *Registry) deleteBlob(ctx context.Context, code string, rec FileRecord) DeleteOutcome {
	if r.readers[rec.StorageName] > 0 {
		r.doomed[rec.StorageName] = code
		return DeleteOutcome{
			Code:        code,
			StorageName: rec.StorageName,
			Deferred:    true,
		}
	}

	return DeleteOutcome{
		Code:        code,
		StorageName: rec.StorageName,
		Err:         r.blobs.Delete(ctx, rec.StorageName),
	}
}
