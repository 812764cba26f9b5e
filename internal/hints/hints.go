// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// InCI detects a CI runner, where parallel jobs often share a cache dir.
var InCI = func() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForStoreLocked returns hints for a bolt cache held by another process.
func ForStoreLocked() string {
	hints := []string{"another fencecache run holds the cache; use --backend file or --no-cache"}
	if InCI() {
		hints = append(hints, "set FENCECACHE_CACHE_DIR per job")
	}
	return formatHints(hints)
}

// ForCacheUnavailable returns hints for a cache store that could not be
// opened by a cache command.
func ForCacheUnavailable() string {
	hints := []string{
		"check the cache directory is writable or pass --cache-dir",
		"a bolt cache may be held by another fencecache run",
	}
	if InCI() {
		hints = append(hints, "set FENCECACHE_CACHE_DIR per job")
	}
	return formatHints(hints)
}

// ForTimeout returns a hint about raising the per-block timeout.
func ForTimeout() string {
	return format("for slow renders, raise --timeout or FENCECACHE_TIMEOUT (0 disables it)")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config directory when it is known.
func ForConfigNotFound(userConfigDir string) string {
	hint := "use --config /path/to/file.yaml"
	if userConfigDir != "" {
		hint += " or create a file in " + userConfigDir
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for unknown highlight styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForExcludePattern returns a hint about exclude glob syntax.
func ForExcludePattern() string {
	return format(`patterns are relative to the input dir, e.g. "drafts/**" or "**/*.draft.md"`)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
