package filename_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/go-file-relay/internal/filename"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "notes.pdf", "notes.pdf"},
		{"spaces", "My cool movie.mov", "My_cool_movie.mov"},
		{"unix traversal", "../../../etc/passwd", "passwd"},
		{"windows path", `C:\Users\bob\report.pdf`, "report.pdf"},
		{"umlauts", "i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"control chars", "a\x00b\x1fc.png", "abc.png"},
		{"only dots", "...", ""},
		{"leading dots", "..hidden.zip", "hidden.zip"},
		{"device name", "con.txt", "_con.txt"},
		{"empty", "", ""},
		{"trailing slash", "dir/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filename.Sanitize(tt.raw))
		})
	}
}

func TestSanitize_NeverEscapes(t *testing.T) {
	inputs := []string{"..", "../..", `..\..\x`, "a/../../b.zip", "/", "\\"}

	for _, in := range inputs {
		got := filename.Sanitize(in)
		assert.NotContains(t, got, "/")
		assert.NotContains(t, got, `\`)
		assert.NotEqual(t, "..", got)
	}
}

func TestSanitize_KeepsExtensionWhenTruncating(t *testing.T) {
	raw := strings.Repeat("a", 500) + ".pdf"

	got := filename.Sanitize(raw)

	assert.Len(t, got, 200)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestSplitExtension(t *testing.T) {
	assert.Equal(t, ".pdf", filename.SplitExtension("notes.pdf"))
	assert.Equal(t, ".gz", filename.SplitExtension("archive.tar.gz"))
	assert.Equal(t, ".JPG", filename.SplitExtension("photo.JPG"))
	assert.Equal(t, "", filename.SplitExtension("README"))
}

func TestAllowed(t *testing.T) {
	allow := []string{"pdf", "png", "jpg", "zip"}

	assert.True(t, filename.Allowed("notes.pdf", allow))
	assert.True(t, filename.Allowed("photo.JPG", allow))
	assert.False(t, filename.Allowed("script.sh", allow))
	assert.False(t, filename.Allowed("README", allow))
	assert.True(t, filename.Allowed("anything.exe", nil))

	// Raw client names: the stem may not survive sanitization.
	assert.True(t, filename.Allowed("報告.pdf", allow))
	assert.True(t, filename.Allowed(`C:\Users\bob\照片.JPG`, allow))
	assert.False(t, filename.Allowed("dir.pdf/script.sh", allow))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".pdf", filename.Extension("報告.pdf"))
	assert.Equal(t, ".sh", filename.Extension(`a.pdf\run.sh`))
	assert.Equal(t, "", filename.Extension("dir.zip/README"))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "notes.pdf", "notes.pdf"},
		{"stem folded away", "報告.pdf", "file.pdf"},
		{"cyrillic stem", "отчёт.zip", "file.zip"},
		{"accents kept as ASCII", "résumé.pdf", "resume.pdf"},
		{"no extension", "README", "README"},
		{"nothing survives", "../..", "file"},
		{"non-ASCII everything", "報告.тест", "file"},
		{"empty", "", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filename.DisplayName(tt.raw, "file"))
		})
	}
}
