package security

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength caps sanitized text input.
const MaxMessageLength = 5000

var (
	tagPattern       = regexp.MustCompile(`<[^>]*>`)
	jsSchemePattern  = regexp.MustCompile(`(?i)javascript:`)
	eventAttrPattern = regexp.MustCompile(`(?i)on\w+\s*=`)
	quotingPattern   = regexp.MustCompile(`[<>'"]`)
	controlPattern   = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
)

// SanitizeInput strips markup, script vectors and control characters from
// user-supplied text, trims surrounding whitespace and caps the length.
// The result may be empty; callers decide whether that is an error.
func SanitizeInput(input string) string {
	s := tagPattern.ReplaceAllString(input, "")
	s = jsSchemePattern.ReplaceAllString(s, "")
	s = eventAttrPattern.ReplaceAllString(s, "")
	s = quotingPattern.ReplaceAllString(s, "")
	s = controlPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if len(s) > MaxMessageLength {
		cut := MaxMessageLength
		// Back off to a rune boundary so the cap never leaves invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
