package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/alnah/go-fencecache/internal/config"
	"github.com/alnah/go-fencecache/internal/highlight"
	"github.com/alnah/go-fencecache/internal/hints"
)

// errorHint returns an actionable hint for err, or "".
func errorHint(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		dir, dirErr := os.UserConfigDir()
		if dirErr != nil {
			return hints.ForConfigNotFound("")
		}
		return hints.ForConfigNotFound(filepath.Join(dir, config.AppDirName))
	case errors.Is(err, highlight.ErrUnknownStyle):
		return hints.ForStyleNotFound(highlight.StyleNames())
	case errors.Is(err, ErrInvalidPattern):
		return hints.ForExcludePattern()
	case errors.Is(err, ErrCacheUnavailable):
		return hints.ForCacheUnavailable()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}
