package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/go-file-relay/internal/app/service"
	"github.com/atinyakov/go-file-relay/internal/models"
	"github.com/atinyakov/go-file-relay/internal/storage"
)

type PostHandler struct {
	service service.RelayServiceIface
	logger  *zap.Logger
	page    PageOptions
}

func NewPost(s service.RelayServiceIface, l *zap.Logger, page PageOptions) *PostHandler {
	return &PostHandler{
		service: s,
		logger:  l,
		page:    page,
	}
}

// Upload handles the form on the index page and renders the page again with
// the issued code.
func (h *PostHandler) Upload(res http.ResponseWriter, req *http.Request) {
	ticket, err := h.publish(res, req)
	if err != nil {
		status, msg := statusFor(err)
		http.Error(res, msg, status)
		return
	}

	if err := renderPage(res, http.StatusOK, h.page.data(ticket)); err != nil {
		h.logger.Error("cannot render index page", zap.Error(err))
	}
}

// Publish is the API variant of Upload and answers with JSON.
func (h *PostHandler) Publish(res http.ResponseWriter, req *http.Request) {
	ticket, err := h.publish(res, req)
	if err != nil {
		status, msg := statusFor(err)
		writeJSONError(res, status, msg)
		return
	}

	err = writeJSON(res, http.StatusCreated, models.PublishResponse{
		Code:        ticket.Code,
		DisplayName: ticket.DisplayName,
		Size:        ticket.Size,
		ContentType: ticket.ContentType,
		ExpiresAt:   ticket.ExpiresAt,
	})
	if err != nil {
		h.logger.Error("cannot write response", zap.Error(err))
	}
}

// Download redeems the code from the index page form.
func (h *PostHandler) Download(res http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(res, "invalid form", http.StatusBadRequest)
		return
	}

	h.redeem(res, req, req.PostForm.Get("code"), func(status int, msg string) {
		http.Error(res, msg, status)
	})
}

// RedeemJSON redeems {"code": "..."} and streams the file.
func (h *PostHandler) RedeemJSON(res http.ResponseWriter, req *http.Request) {
	var request models.RedeemRequest

	err := decodeJSONBody(res, req, &request)
	if err != nil {
		var mr *malformedRequest
		if errors.As(err, &mr) {
			writeJSONError(res, mr.status, mr.msg)
			return
		}
		h.logger.Error(err.Error())
		writeJSONError(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.redeem(res, req, request.Code, func(status int, msg string) {
		writeJSONError(res, status, msg)
	})
}

func (h *PostHandler) publish(res http.ResponseWriter, req *http.Request) (*storage.Ticket, error) {
	mr, err := multipartReader(res, req, h.page.MaxUploadSize)
	if err != nil {
		return nil, err
	}

	part, err := nextFilePart(mr)
	if err != nil {
		return nil, err
	}
	defer part.Close()

	return h.service.Publish(req.Context(), part, part.FileName())
}

func (h *PostHandler) redeem(res http.ResponseWriter, req *http.Request, code string, fail func(int, string)) {
	// The request context also bounds the download: object store readers
	// fetch lazily.
	blob, err := h.service.Redeem(req.Context(), code)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("cannot open file", zap.String("code", code), zap.Error(err))
			msg = http.StatusText(status)
		}
		fail(status, msg)
		return
	}

	if err := writeAttachment(res, req, blob); err != nil {
		h.logger.Info("download interrupted", zap.String("code", code), zap.Error(err))
	}
}
