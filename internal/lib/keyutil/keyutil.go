package keyutil

import (
	"strings"
)

var imageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif"}

// Sanitize maps an arbitrary path-like string to a safe object-store key
// segment: backslashes become slashes, ".." sequences are removed, outer
// slashes are trimmed and anything outside [A-Za-z0-9_.-/] becomes "_".
// Idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	s = strings.ReplaceAll(s, "..", "")
	s = strings.Trim(s, "/")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-' || r == '/':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Join sanitizes dir and leaf independently and joins them with "/".
// Either side may already be sanitized; the result is stable.
func Join(dir, leaf string) string {
	d := Sanitize(dir)
	l := Sanitize(leaf)
	if d == "" {
		return l
	}
	if l == "" {
		return d
	}
	return d + "/" + l
}

// Slugify lowercases s, collapses every non-alphanumeric run into a single
// "-", trims dashes and caps the result at 120 characters.
func Slugify(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			b.WriteByte('-')
			prevDash = true
		}
	}

	out := strings.Trim(b.String(), "-")
	if len(out) > 120 {
		out = strings.Trim(out[:120], "-")
	}
	return out
}

// IsImageKey reports whether key has a known image extension.
func IsImageKey(key string) bool {
	k := strings.ToLower(key)
	for _, ext := range imageExts {
		if strings.HasSuffix(k, ext) {
			return true
		}
	}
	return false
}
