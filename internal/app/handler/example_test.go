package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/go-file-relay/internal/app/handler"
	"github.com/atinyakov/go-file-relay/internal/app/service"
	"github.com/atinyakov/go-file-relay/internal/logger"
	"github.com/atinyakov/go-file-relay/internal/models"
	"github.com/atinyakov/go-file-relay/internal/storage"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func setupRealService(c *clock) service.RelayServiceIface {
	registry := storage.NewRegistry(storage.CreateMemoryStorage(), zap.NewNop(), storage.Options{
		TTL: 600 * time.Second,
		Now: c.Now,
	})

	return service.NewRelay(registry, logger.New().Log)
}

func uploadRequest(target, name, content string) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("file", name)
	_, _ = io.WriteString(fw, content)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func downloadRequest(code string) *http.Request {
	form := url.Values{"code": {code}}
	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPublishThenDownload(t *testing.T) {
	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := setupRealService(c)
	page := handler.PageOptions{MaxUploadSize: 1 << 20, TTL: 600 * time.Second}
	post := handler.NewPost(svc, zap.NewNop(), page)

	rec := httptest.NewRecorder()
	post.Publish(rec, uploadRequest("/api/files", "notes.pdf", "%PDF-1.7\n%"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var ticket models.PublishResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	require.Equal(t, "application/pdf", ticket.ContentType)

	c.now = c.now.Add(5 * time.Second)
	rec = httptest.NewRecorder()
	post.Download(rec, downloadRequest(ticket.Code))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "%PDF-1.7\n%", rec.Body.String())
	require.Equal(t, "attachment; filename=notes.pdf", rec.Header().Get("Content-Disposition"))

	c.now = c.now.Add(596 * time.Second)
	rec = httptest.NewRecorder()
	post.Download(rec, downloadRequest(ticket.Code))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadRendersCode(t *testing.T) {
	c := &clock{now: time.Now()}
	svc := setupRealService(c)
	post := handler.NewPost(svc, zap.NewNop(), handler.PageOptions{TTL: time.Minute})

	rec := httptest.NewRecorder()
	post.Upload(rec, uploadRequest("/", "../secret/My Report.pdf", "hello"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "My_Report.pdf")
	require.Equal(t, 1, svc.GetStats(context.Background()).Files)
}

func ExamplePostHandler_Publish() {
	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := setupRealService(c)
	post := handler.NewPost(svc, zap.NewNop(), handler.PageOptions{MaxUploadSize: 1 << 20})

	rec := httptest.NewRecorder()
	post.Publish(rec, uploadRequest("/api/files", "hello.txt", "hello, relay"))

	var resp models.PublishResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	fmt.Println(rec.Code, resp.DisplayName, resp.Size, resp.ExpiresAt.Format(time.RFC3339))
	// Output: 201 hello.txt 12 2024-05-01T12:10:00Z
}
