package posts

import (
	"regexp"
	"strings"
)

// space is ASCII whitespace plus the Unicode space separators.
const space = `\s\v\p{Zs}\x{2028}\x{2029}\x{feff}`

var (
	slugStrip   = regexp.MustCompile(`[^\w` + space + `-]`)
	slugSpace   = regexp.MustCompile(`[` + space + `]+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// Slugify derives the URL slug for a title. Distinct titles may share a slug.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
