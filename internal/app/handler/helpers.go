// Package handler contains the HTTP handlers of the file relay: the HTML
// upload and redeem page, the JSON API and the internal maintenance routes.
// Handlers only translate between HTTP and the relay service; every rule
// about codes, names and expiry lives in the storage package.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/atinyakov/go-file-relay/internal/models"
	"github.com/atinyakov/go-file-relay/internal/storage"
)

// fileField is the multipart field carrying the upload.
const fileField = "file"

// malformedRequest represents an error with a malformed HTTP request.
type malformedRequest struct {
	status int    // HTTP status code for the error
	msg    string // Error message
}

// Error returns the error message for a malformed request.
func (mr *malformedRequest) Error() string {
	return mr.msg
}

// decodeJSONBody decodes a JSON request body into the given destination struct.
// It reads the content from the request body, checks for proper JSON formatting,
// and handles common errors related to JSON parsing.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
		if mediaType != "application/json" {
			msg := "Content-Type header is not application/json"
			return &malformedRequest{status: http.StatusUnsupportedMediaType, msg: msg}
		}
	}

	// A redeem request is tiny.
	r.Body = http.MaxBytesReader(w, r.Body, 4096)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(&dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.ErrUnexpectedEOF):
			msg := "Request body contains badly-formed JSON"
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.EOF):
			msg := "Request body must not be empty"
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.As(err, &maxBytesError):
			msg := "Request body is too large"
			return &malformedRequest{status: http.StatusRequestEntityTooLarge, msg: msg}

		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		msg := "Request body must only contain a single JSON object"
		return &malformedRequest{status: http.StatusBadRequest, msg: msg}
	}

	return nil
}

// statusFor maps a relay error to the status code and the message shown to
// the client.
func statusFor(err error) (int, string) {
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesError):
		return http.StatusRequestEntityTooLarge, "file too large"
	case errors.Is(err, storage.ErrNoFile):
		return http.StatusBadRequest, "no file selected"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, storage.ErrNotFound.Error()
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		return http.StatusUnsupportedMediaType, "file type not allowed"
	case errors.Is(err, storage.ErrCodeSpaceExhausted):
		return http.StatusServiceUnavailable, "no free codes left, try again later"
	default:
		return http.StatusInternalServerError, "cannot store file"
	}
}

// nextFilePart advances mr to the part named fileField. Parts before it are
// skipped. A missing part or an empty file name is storage.ErrNoFile.
func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, storage.ErrNoFile
		}
		if err != nil {
			return nil, err
		}

		if part.FormName() != fileField {
			part.Close()
			continue
		}

		if part.FileName() == "" {
			part.Close()
			return nil, storage.ErrNoFile
		}

		return part, nil
	}
}

// multipartReader limits the body to maxSize and opens it as multipart.
// A body that is not multipart counts as a request without a file.
func multipartReader(w http.ResponseWriter, req *http.Request, maxSize int64) (*multipart.Reader, error) {
	if maxSize > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, maxSize)
	}

	mr, err := req.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrNoFile, err)
	}

	return mr, nil
}

// writeAttachment streams blob as a download named after its display name.
// Seekable blobs go through http.ServeContent for range support.
func writeAttachment(res http.ResponseWriter, req *http.Request, blob *storage.Blob) error {
	defer blob.Close()

	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	res.Header().Set("Content-Type", contentType)
	res.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": blob.DisplayName,
	}))
	res.Header().Set("X-Content-Type-Options", "nosniff")
	res.Header().Set("Cache-Control", "no-store")

	if rs, ok := blob.ReadCloser.(io.ReadSeeker); ok {
		http.ServeContent(res, req, "", blob.CreatedAt, rs)
		return nil
	}

	res.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	res.WriteHeader(http.StatusOK)
	_, err := io.Copy(res, blob)

	return err
}

func writeJSON(res http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		res.WriteHeader(http.StatusInternalServerError)
		return err
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_, err = res.Write(body)

	return err
}

func writeJSONError(res http.ResponseWriter, status int, msg string) {
	_ = writeJSON(res, status, models.ErrorResponse{Error: msg})
}
