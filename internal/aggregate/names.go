package aggregate

import (
	"regexp"
	"strings"
)

var (
	illegalChars          = regexp.MustCompile(`[<>:"/\\|?*]`)
	trailingDotsAndSpaces = regexp.MustCompile(`[.\s]+$`)
)

// SanitizeFilename keeps a barber name readable while removing characters
// that are illegal in Windows file names.
func SanitizeFilename(name string) string {
	if name == "" {
		return "unnamed"
	}
	s := illegalChars.ReplaceAllString(name, "_")
	s = trailingDotsAndSpaces.ReplaceAllString(s, "")
	if s == "" {
		return "unnamed"
	}
	return s
}

// NameFromFilename turns a file stem back into a barber name. Underscores are
// read as spaces, so the mapping is not always the exact inverse of
// SanitizeFilename.
func NameFromFilename(stem string) string {
	return strings.ReplaceAll(stem, "_", " ")
}
