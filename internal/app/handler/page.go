package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/atinyakov/go-file-relay/internal/storage"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templatesFS, "templates/index.html"),
)

// PageOptions are the settings shown on the index page.
type PageOptions struct {
	MaxUploadSize int64
	TTL           time.Duration
	// Extensions is shown as a hint when the allow-list is enforced.
	Extensions []string
}

type pageData struct {
	Ticket     *storage.Ticket
	Extensions []string
	MaxSize    string
	TTL        string
}

func (o PageOptions) data(ticket *storage.Ticket) pageData {
	return pageData{
		Ticket:     ticket,
		Extensions: o.Extensions,
		MaxSize:    humanize.IBytes(uint64(o.MaxUploadSize)),
		TTL:        o.TTL.String(),
	}
}

// renderPage writes the index page. It renders into a buffer first so a
// template failure still produces a clean 500.
func renderPage(res http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(status)
	_, err := buf.WriteTo(res)

	return err
}
