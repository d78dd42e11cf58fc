package extract

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nonKebabChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	spaceRuns     = regexp.MustCompile(`[\s_]+`)
	titleCaser    = cases.Title(language.English)
)

// ToKebabCase converts a string to kebab-case: strip punctuation, collapse
// whitespace and underscores to hyphens, lowercase.
func ToKebabCase(s string) string {
	s = nonKebabChars.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, "-")
	return strings.Trim(strings.ToLower(s), "-")
}

// stableID derives a deterministic fallback identifier from a relative path
// when no slug can be derived from the filename. FNV-1a over the path is
// stable across runs and platforms, unlike a process-seeded hash.
func stableID(relPath string) string {
	h := fnv.New32a()
	h.Write([]byte(relPath))
	return fmt.Sprintf("doc-%04d", h.Sum32()%10000)
}

// titleFromStem produces a display title from a filename stem, e.g.
// "007-od-arch-system-overview" -> "007 Od Arch System Overview".
func titleFromStem(stem string) string {
	return titleCaser.String(strings.ReplaceAll(stem, "-", " "))
}
