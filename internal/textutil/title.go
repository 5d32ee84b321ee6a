package textutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TitleFromPath derives a human-readable display title from a media file
// path: the base name without extension, with separators turned into spaces
// and words title-cased. "team_sync-2024.mp4" becomes "Team Sync 2024".
func TitleFromPath(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Untitled Recording"
	}
	return titleCaser.String(base)
}
