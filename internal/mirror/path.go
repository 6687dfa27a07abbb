// Package mirror implements the incremental sync of the category tree into a
// local file tree of artifacts.
package mirror

import (
	"path/filepath"
	"strings"
)

// illegalChars removes the characters that are invalid in path components on
// common filesystems.
var illegalChars = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "", "/", "", `\`, "", "|", "", "?", "", "*", "",
)

// SanitizeComponent cleans a single path component derived from a category
// title. Components that end up empty or all dots are replaced with "_" so a
// title can never resolve outside the output root.
func SanitizeComponent(title string) string {
	clean := strings.TrimSpace(illegalChars.Replace(title))

	if clean == "" || strings.Trim(clean, ".") == "" {
		return "_"
	}

	return clean
}

// ArtifactPath derives the artifact file path for a document from its
// ancestor titles and its own title.
func ArtifactPath(outputRoot string, ancestors []string, title, extension string) string {
	parts := make([]string, 0, len(ancestors)+2)
	parts = append(parts, outputRoot)

	for _, a := range ancestors {
		parts = append(parts, SanitizeComponent(a))
	}

	parts = append(parts, SanitizeComponent(title)+"."+extension)

	return filepath.Join(parts...)
}
