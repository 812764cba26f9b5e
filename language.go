package fencecache

import (
	"maps"
	"strings"
)

// defaultAliases folds common shorthands onto the names the highlighter knows.
var defaultAliases = map[string]string{
	"node":    "javascript",
	"nodejs":  "javascript",
	"js":      "javascript",
	"mjs":     "javascript",
	"cjs":     "javascript",
	"ts":      "typescript",
	"py":      "python",
	"rb":      "ruby",
	"yml":     "yaml",
	"golang":  "go",
	"sh":      "bash",
	"shell":   "bash",
	"zsh":     "bash",
	"console": "shellsession",
}

// DefaultAliases returns a copy of the built-in alias table.
func DefaultAliases() map[string]string {
	return maps.Clone(defaultAliases)
}

// NormalizeLanguage lowercases lang and folds it through the built-in aliases.
func NormalizeLanguage(lang string) string {
	return normalizeLanguage(defaultAliases, lang)
}

func normalizeLanguage(aliases map[string]string, lang string) string {
	lang = strings.ToLower(lang)
	if canonical, ok := aliases[lang]; ok {
		return canonical
	}
	return lang
}
