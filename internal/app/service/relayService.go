package service

import (
	"context"
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/atinyakov/go-file-relay/internal/storage"
)

const tracerName = "github.com/atinyakov/go-file-relay/internal/app/service"

var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "relay_operations_total",
	Help: "Publish and redeem calls by outcome",
}, []string{"operation", "result"})

type RelayService struct {
	registry Registry
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewRelay(registry Registry, logger *zap.Logger) *RelayService {
	return &RelayService{
		registry: registry,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

func (s *RelayService) PingContext(ctx context.Context) error {
	return s.registry.PingContext(ctx)
}

// Publish stores src and returns the ticket holding the new code.
func (s *RelayService) Publish(ctx context.Context, src io.Reader, originalName string) (*storage.Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "relay.Publish",
		trace.WithAttributes(attribute.String("relay.original_name", originalName)))
	defer span.End()

	ticket, err := s.registry.Publish(ctx, src, originalName)
	if err != nil {
		s.fail(span, "publish", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("relay.code", ticket.Code),
		attribute.Int64("relay.size", ticket.Size),
	)
	operationsTotal.WithLabelValues("publish", "ok").Inc()

	return ticket, nil
}

// Redeem opens the file behind code. The caller closes the returned blob.
func (s *RelayService) Redeem(ctx context.Context, code string) (*storage.Blob, error) {
	ctx, span := s.tracer.Start(ctx, "relay.Redeem",
		trace.WithAttributes(attribute.String("relay.code", code)))
	defer span.End()

	blob, err := s.registry.Redeem(ctx, code)
	if err != nil {
		s.fail(span, "redeem", err)
		return nil, err
	}

	s.logger.Debug("file redeemed", zap.String("code", code), zap.String("display_name", blob.DisplayName))
	operationsTotal.WithLabelValues("redeem", "ok").Inc()

	return blob, nil
}

func (s *RelayService) Sweep(ctx context.Context) storage.SweepResult {
	ctx, span := s.tracer.Start(ctx, "relay.Sweep")
	defer span.End()

	res := s.registry.Sweep(ctx)
	span.SetAttributes(
		attribute.Int("relay.expired", len(res.Expired)),
		attribute.Int("relay.failed", res.Failed()),
	)

	return res
}

func (s *RelayService) GetStats(ctx context.Context) storage.Stats {
	return s.registry.Stats()
}

func (s *RelayService) fail(span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	operationsTotal.WithLabelValues(op, resultLabel(err)).Inc()

	if errors.Is(err, storage.ErrStorageWrite) {
		s.logger.Error("relay operation failed", zap.String("operation", op), zap.Error(err))
		return
	}
	s.logger.Info("relay operation rejected", zap.String("operation", op), zap.Error(err))
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, storage.ErrNoFile):
		return "no_file"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		return "extension"
	case errors.Is(err, storage.ErrCodeSpaceExhausted):
		return "exhausted"
	case errors.Is(err, storage.ErrStorageWrite):
		return "storage"
	default:
		return "error"
	}
}
