package httpclient

import (
	"strings"
	"unicode/utf8"
)

// Snippet trims body and cuts it to at most max bytes without splitting a
// UTF-8 sequence. It reports whether anything was cut.
func Snippet(body []byte, max int) (string, bool) {
	s := strings.TrimSpace(string(body))
	if max <= 0 || len(s) <= max {
		return s, false
	}
	end := max
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end], true
}
