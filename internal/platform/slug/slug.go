package slug

import (
	"path/filepath"
	"regexp"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

const maxLen = 60

// Make turns input into a lowercase dash-separated file stem.
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}

// FromFile slugs a file name without its extension.
func FromFile(name string) string {
	base := filepath.Base(name)
	return Make(strings.TrimSuffix(base, filepath.Ext(base)))
}
