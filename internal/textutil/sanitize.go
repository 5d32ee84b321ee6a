package textutil

import "strings"

// SanitizeFileName makes a recording title or identifier safe to use as a
// staging directory segment. Path separators, colons, and asterisks become
// dashes; quoting and redirection characters are dropped. The result is
// trimmed of surrounding whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		default:
			return r
		}
	}, name)
	return strings.TrimSpace(cleaned)
}
