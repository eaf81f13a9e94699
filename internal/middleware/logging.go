// Package middleware provides the HTTP middleware of the relay server:
// request logging, Prometheus metrics, gzip handling and the trusted subnet
// check for internal routes.
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type (
	// responseData holds the status and size of an HTTP response.
	responseData struct {
		status int
		size   int64
	}

	// recordingResponseWriter captures the status code and body size written
	// by the wrapped handler.
	recordingResponseWriter struct {
		http.ResponseWriter
		responseData *responseData
	}
)

func newRecordingResponseWriter(w http.ResponseWriter) *recordingResponseWriter {
	return &recordingResponseWriter{
		ResponseWriter: w,
		responseData:   &responseData{},
	}
}

func (r *recordingResponseWriter) Write(b []byte) (int, error) {
	if r.responseData.status == 0 {
		r.responseData.status = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += int64(size)
	return size, err
}

func (r *recordingResponseWriter) WriteHeader(statusCode int) {
	if r.responseData.status == 0 {
		r.responseData.status = statusCode
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

// Unwrap lets http.ResponseController reach the original writer.
func (r *recordingResponseWriter) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Status returns the written status, 200 when the handler wrote nothing.
func (r *recordingResponseWriter) Status() int {
	if r.responseData.status == 0 {
		return http.StatusOK
	}
	return r.responseData.status
}

// WithRequestLogging logs method, URL, status, response size, upload size
// and duration of every request.
func WithRequestLogging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lw := newRecordingResponseWriter(w)
			next.ServeHTTP(lw, r)

			log.Info("HTTP Request",
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Duration("duration", time.Since(start)),
				zap.Int("status", lw.Status()),
				zap.Int64("size", lw.responseData.size),
			)
		})
	}
}
