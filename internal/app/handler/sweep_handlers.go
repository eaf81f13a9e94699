package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/go-file-relay/internal/app/service"
	"github.com/atinyakov/go-file-relay/internal/models"
)

type SweepHandler struct {
	service service.RelayServiceIface
	logger  *zap.Logger
}

func NewSweep(s service.RelayServiceIface, l *zap.Logger) *SweepHandler {
	return &SweepHandler{
		service: s,
		logger:  l,
	}
}

// Sweep removes expired files right away instead of waiting for the next
// request or tick.
func (h *SweepHandler) Sweep(res http.ResponseWriter, req *http.Request) {
	result := h.service.Sweep(req.Context())

	h.logger.Info("manual sweep",
		zap.Int("expired", len(result.Expired)),
		zap.Int("failed", result.Failed()),
	)

	err := writeJSON(res, http.StatusOK, models.SweepResponse{
		Expired:   len(result.Expired),
		Failed:    result.Failed(),
		Remaining: result.Remaining,
	})
	if err != nil {
		h.logger.Error("cannot write sweep result", zap.Error(err))
	}
}
