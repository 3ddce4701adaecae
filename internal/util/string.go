package util

import (
	"net/url"
	"strings"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// URLExtension returns the text after the last '.' of the URL's final path
// segment. The query string and fragment are ignored on purpose, so
// "123.png?raw=true" yields "png". Returns "" when the segment has no dot.
func URLExtension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}

	segment := p[strings.LastIndex(p, "/")+1:]
	idx := strings.LastIndex(segment, ".")
	if idx < 0 || idx == len(segment)-1 {
		return ""
	}
	return segment[idx+1:]
}
