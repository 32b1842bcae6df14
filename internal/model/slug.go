package model

import (
	"strings"

	"github.com/gosimple/slug"
)

const slugMaxLen = 75

// Slugify lowercases, transliterates and dash-joins text, capped at 75
// characters with no trailing dash. Slugs are cosmetic URL parts, not
// identifiers, except for tags where the slug is the primary key.
func Slugify(text string) string {
	s := slug.Make(text)
	if len(s) > slugMaxLen {
		s = s[:slugMaxLen]
		s = strings.TrimRight(s, "-")
	}
	return s
}
