// Package sanitize turns free text such as watcher titles into safe
// identifiers.
package sanitize

import (
	"regexp"
	"strings"
)

const maxSlugLength = 40

var (
	separatorReplacer = strings.NewReplacer(
		" ", "-",
		"_", "-",
		".", "-",
		"/", "-",
	)

	nonSlugRegex   = regexp.MustCompile(`[^a-z0-9-]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
)

// Slug lowercases s and keeps letters, digits and single dashes. The result
// is at most 40 bytes and never starts or ends with a dash.
func Slug(s string) string {
	s = separatorReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	s = nonSlugRegex.ReplaceAllString(s, "")
	s = multiDashRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

// TempPattern returns an os.CreateTemp pattern for a watcher document,
// e.g. "watcher-disk-full-*.json". An empty title gives "watcher-*.json".
func TempPattern(title string) string {
	if slug := Slug(title); slug != "" {
		return "watcher-" + slug + "-*.json"
	}
	return "watcher-*.json"
}
