package util

import (
	"regexp"
	"strings"
)

var nonPhone = regexp.MustCompile(`[^\d\+]+`)

// NormalizePhone tries to normalize user input into E.164-like format
// (Russian numbering plan). Input with no digits normalizes to "".
func NormalizePhone(raw string) string {
	s := nonPhone.ReplaceAllString(strings.TrimSpace(raw), "")

	switch {
	case strings.HasPrefix(s, "00"):
		s = "+" + s[2:]
	case strings.HasPrefix(s, "8") && len(s) == 11:
		s = "+7" + s[1:]
	case strings.HasPrefix(s, "9") && len(s) == 10:
		s = "+7" + s
	case strings.HasPrefix(s, "7") && len(s) == 11:
		s = "+" + s
	}

	return s
}

// FormatPhone renders a phone for display; blank input becomes "N/A".
func FormatPhone(raw string) string {
	if s := NormalizePhone(raw); s != "" {
		return s
	}

	return "N/A"
}
