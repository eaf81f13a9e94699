package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/go-file-relay/internal/app/service"
	"github.com/atinyakov/go-file-relay/internal/models"
)

type GetHandler struct {
	service service.RelayServiceIface
	logger  *zap.Logger
	page    PageOptions
}

func NewGet(s service.RelayServiceIface, l *zap.Logger, page PageOptions) *GetHandler {
	return &GetHandler{
		service: s,
		logger:  l,
		page:    page,
	}
}

// Index sweeps expired files and renders the upload and redeem page.
func (h *GetHandler) Index(res http.ResponseWriter, req *http.Request) {
	h.service.Sweep(req.Context())

	if err := renderPage(res, http.StatusOK, h.page.data(nil)); err != nil {
		h.logger.Error("cannot render index page", zap.Error(err))
	}
}

// ByCode streams the file behind the {code} URL parameter.
func (h *GetHandler) ByCode(res http.ResponseWriter, req *http.Request) {
	code := chi.URLParam(req, "code")

	blob, err := h.service.Redeem(req.Context(), code)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("cannot open file", zap.String("code", code), zap.Error(err))
			msg = http.StatusText(status)
		}
		writeJSONError(res, status, msg)
		return
	}

	if err := writeAttachment(res, req, blob); err != nil {
		h.logger.Info("download interrupted", zap.String("code", code), zap.Error(err))
	}
}

func (h *GetHandler) PingStore(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()
	if err := h.service.PingContext(ctx); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

// Stats reports how many files are live and their total size.
func (h *GetHandler) Stats(res http.ResponseWriter, req *http.Request) {
	stats := h.service.GetStats(req.Context())

	err := writeJSON(res, http.StatusOK, models.StatsResponse{
		Files: stats.Files,
		Bytes: stats.Bytes,
	})
	if err != nil {
		h.logger.Error("cannot write stats", zap.Error(err))
	}
}
