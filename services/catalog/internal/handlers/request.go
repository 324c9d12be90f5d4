package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/stream-catalog/internal/platform/api"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads up to maxRequestBodyBytes from r.Body and decodes JSON into dst.
// On failure it writes a 400 response and returns false.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, rid string, dst *T) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(dst); err != nil {
		api.BadRequest(w, api.CodeInvalidJSON, "Invalid JSON", rid, nil)
		return false
	}
	return true
}

// queryLimit parses ?limit=, falling back to def for missing or invalid
// values and clamping to upper.
func queryLimit(r *http.Request, def, upper int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > upper {
		return upper
	}
	return n
}

// pathParam returns the named URL parameter unescaped, so ids containing an
// encoded '/' match. Invalid escapes are returned as sent.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		v = u
	}
	return strings.TrimSpace(v)
}

// leadingInt parses the leading decimal digits of s, ignoring whatever
// follows ("603abc" is 603). Anything without leading digits, or too large,
// is 0.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
