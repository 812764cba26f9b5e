package main

import (
	"fmt"
	"io"

	fencecache "github.com/alnah/go-fencecache"
)

// runCSS prints the stylesheet a page needs to display rendered blocks:
// the frame styles followed by the chroma classes when enabled.
func runCSS(args []string, env *Environment) error {
	f, err := parseCSSFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(f.common.config, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}
	mergeHighlightFlags(&f.highlight, f.changed, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	h, err := fencecache.NewHighlighter(cfg.HighlightOptions())
	if err != nil {
		return err
	}
	pages, err := newPageBuilderFor(h, cfg, f.assetPath)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(env.Stdout, pages.bundle.CSS); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
