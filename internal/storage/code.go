package storage

import (
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/atinyakov/go-file-relay/internal/filename"
)

// Codes are four ASCII digits in [CodeMin, CodeMax].
const (
	CodeMin = 1000
	CodeMax = 9999

	codeSpace    = CodeMax - CodeMin + 1
	codeAttempts = 32
)

// RandomCode returns a uniformly drawn code. It does not look at live codes.
func RandomCode() string {
	return strconv.Itoa(CodeMin + rand.Intn(codeSpace))
}

// ValidCode reports whether code has the shape of an issued code.
func ValidCode(code string) bool {
	if len(code) != 4 {
		return false
	}

	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}

	return n >= CodeMin && n <= CodeMax
}

// NewStorageName combines a random token with the extension of displayName.
func NewStorageName(displayName string) string {
	return uuid.NewString() + filename.SplitExtension(displayName)
}

// reserveCodeLocked finds a code that is not live. Random candidates are
// tried first; when they keep colliding the code space is scanned from a
// random offset. It fails only when every code is taken.
// r.mu must be held.
func (r *Registry) reserveCodeLocked() (string, bool) {
	for i := 0; i < codeAttempts; i++ {
		c := r.newCode()
		if _, taken := r.records[c]; !taken {
			return c, true
		}
	}

	if len(r.records) >= codeSpace {
		return "", false
	}

	start := rand.Intn(codeSpace)
	for i := 0; i < codeSpace; i++ {
		c := strconv.Itoa(CodeMin + (start+i)%codeSpace)
		if _, taken := r.records[c]; !taken {
			return c, true
		}
	}

	return "", false
}
