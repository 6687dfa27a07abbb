package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"wwmirror/internal/models"
)

// ErrSettingsNotFound indicates the listing page carries no settings block.
var ErrSettingsNotFound = errors.New("window.settings block not found in page")

// settingsRegex locates the start of the embedded settings object.
var settingsRegex = regexp.MustCompile(`window\.settings\s*=\s*`)

// pageSettings mirrors the part of the settings object we consume.
type pageSettings struct {
	Categories []models.CategoryRecord `json:"categories"`
}

// ExtractCategories pulls the flat category list out of the listing page HTML.
// The page embeds a `window.settings = {...};` assignment inside a script tag;
// the JSON object runs to the end of that tag.
func ExtractCategories(html string) ([]models.CategoryRecord, error) {
	loc := settingsRegex.FindStringIndex(html)
	if loc == nil {
		return nil, ErrSettingsNotFound
	}

	raw := html[loc[1]:]
	if end := strings.Index(raw, "</script>"); end >= 0 {
		raw = raw[:end]
	}

	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, ";")

	var settings pageSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("failed to parse window.settings JSON: %w", err)
	}

	return settings.Categories, nil
}
