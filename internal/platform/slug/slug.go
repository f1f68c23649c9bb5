package slug

import (
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`[^a-z0-9]+`)

// Make turns a conference or session title into a file-name safe slug.
func Make(input string) string {
	s := separators.ReplaceAllString(strings.ToLower(strings.TrimSpace(input)), "-")
	if s = strings.Trim(s, "-"); s == "" {
		return "untitled"
	}
	return s
}
