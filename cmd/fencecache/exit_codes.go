package main

import (
	"context"
	"errors"
	"os"

	fencecache "github.com/alnah/go-fencecache"
	"github.com/alnah/go-fencecache/internal/assets"
	"github.com/alnah/go-fencecache/internal/config"
	"github.com/alnah/go-fencecache/internal/highlight"
	"github.com/alnah/go-fencecache/internal/rendercache"
)

// Exit codes for the fencecache CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0   // All documents rewritten
	ExitGeneral     = 1   // Failed documents, render failures with --strict, unexpected errors
	ExitUsage       = 2   // Invalid flags, config, or validation
	ExitIO          = 3   // File not found, permission denied, unwritable output
	ExitInterrupted = 130 // SIGINT/SIGTERM
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoMarkdown) ||
		errors.Is(err, ErrCacheUnavailable) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidPattern) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, highlight.ErrUnknownStyle) ||
		errors.Is(err, highlight.ErrInvalidOptions) ||
		errors.Is(err, rendercache.ErrUnknownBackend) ||
		errors.Is(err, fencecache.ErrInvalidOption) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrInvalidAssetName) {
		return ExitUsage
	}

	return ExitGeneral
}
