// Package filename turns user supplied file names into names that are safe to
// show back to users and to use as a single file-system path element.
package filename

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLength caps the sanitized name in bytes. The extension is kept when the
// name has to be shortened.
const maxLength = 200

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// deviceNames are reserved on Windows and are prefixed with "_".
var deviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

func asciiFold() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
}

// Sanitize strips directory components from raw, folds it to ASCII and drops
// every character outside [A-Za-z0-9_.-]. Whitespace runs become a single "_".
// The result never contains a path separator or a ".." element, but it may be
// empty.
func Sanitize(raw string) string {
	folded, _, err := transform.String(asciiFold(), baseName(raw))
	if err != nil {
		return ""
	}

	name := strings.Join(strings.Fields(folded), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name == "" {
		return ""
	}

	base := strings.ToUpper(strings.SplitN(name, ".", 2)[0])
	if _, reserved := deviceNames[base]; reserved {
		name = "_" + name
	}

	return truncate(name)
}

func truncate(name string) string {
	if len(name) <= maxLength {
		return name
	}

	ext := SplitExtension(name)
	if len(ext) >= maxLength {
		return name[:maxLength]
	}

	return name[:maxLength-len(ext)] + ext
}

// DisplayName is Sanitize for names shown to the redeeming party. When the
// stem does not survive folding the extension is kept behind fallback, so
// "報告.pdf" becomes "file.pdf" rather than "pdf". A name with nothing left
// becomes fallback.
func DisplayName(raw, fallback string) string {
	name := Sanitize(raw)
	if Extension(raw) == "" || SplitExtension(name) != "" {
		if name == "" {
			return fallback
		}
		return name
	}

	if withExt := Sanitize(fallback + Extension(raw)); SplitExtension(withExt) != "" {
		return withExt
	}
	if name == "" {
		return fallback
	}
	return name
}

// Extension returns the extension of the last path element of a client
// supplied name, before any sanitization, including the dot.
func Extension(raw string) string {
	return filepath.Ext(baseName(raw))
}

// baseName drops directory components. Both separators count regardless of
// the host OS: browsers on Windows send full paths.
func baseName(raw string) string {
	if i := strings.LastIndexAny(raw, `/\`); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// SplitExtension returns the extension of an already sanitized name including
// the leading dot, or "" when there is none. Case is preserved.
func SplitExtension(name string) string {
	return filepath.Ext(name)
}

// Allowed reports whether the extension of name is in allowList. name may be
// the raw client name; only its last path element is looked at. Extensions in
// allowList are written without the dot and compared case-insensitively. An
// empty allowList allows every name.
func Allowed(name string, allowList []string) bool {
	if len(allowList) == 0 {
		return true
	}

	ext := strings.TrimPrefix(Extension(name), ".")
	if ext == "" {
		return false
	}

	for _, a := range allowList {
		if strings.EqualFold(ext, strings.TrimPrefix(a, ".")) {
			return true
		}
	}

	return false
}
