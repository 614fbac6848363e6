package scraper

import (
	"embed"
	"log/slog"
)

//go:embed selectors.json
var embeddedSelectors embed.FS

// LoadConfig tries to load selectors in the following order:
// 1. Embedded selectors.json
// 2. External file at path (when non-empty)
// 3. Hardcoded defaults
// An external file, when given, overrides the embedded copy so selector
// tables can be patched without rebuilding after a site layout change.
func LoadConfig(path string) SelectorConfig {
	if path != "" {
		if fileSel, err := LoadSelectors(path); err == nil {
			slog.Info("Loaded selectors from external file", "path", path)
			return fileSel
		} else {
			slog.Warn("Failed to load external selectors, trying embedded copy", "path", path, "error", err)
		}
	}

	data, err := embeddedSelectors.ReadFile("selectors.json")
	if err == nil {
		sel, parseErr := LoadSelectorsFromBytes(data)
		if parseErr == nil {
			return sel
		}
		slog.Warn("Embedded selectors failed to parse, using hardcoded defaults", "error", parseErr)
	}

	return DefaultSelectors()
}
