package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-fencecache/internal/assets"
	"github.com/alnah/go-fencecache/internal/fence"
	"github.com/alnah/go-fencecache/internal/pipeline"
)

// pageBuilder turns rewritten documents into standalone HTML pages.
// The asset bundle is loaded once and shared by every page.
type pageBuilder struct {
	bundle        assets.Bundle
	fallbackStyle string // highlights blocks left raw by the rewriter
}

// newPageBuilder loads the frame stylesheet and copy script, preferring
// assetPath when set, and appends highlighterCSS (classes mode) to the bundle.
func newPageBuilder(assetPath, highlighterCSS, fallbackStyle string) (*pageBuilder, error) {
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return nil, err
	}
	bundle, err := assets.LoadBundle(resolver, highlighterCSS)
	if err != nil {
		return nil, err
	}
	return &pageBuilder{bundle: bundle, fallbackStyle: fallbackStyle}, nil
}

// build renders doc as a page written to outputPath. Relative links are
// rebased from the input's directory to the page's.
func (b *pageBuilder) build(ctx context.Context, doc, inputPath, outputPath string) (string, error) {
	fallback := "Document"
	if inputPath != "" {
		base := filepath.Base(inputPath)
		fallback = strings.TrimSuffix(base, filepath.Ext(base))
	}

	conv := pipeline.NewGoldmarkConverter(
		pipeline.WithFallbackStyle(b.fallbackStyle),
		pipeline.WithTitle(extractTitle(doc, fallback)),
	)

	in := pipeline.PageInput{
		Markdown: doc,
		CSS:      b.bundle.CSS,
		Script:   b.bundle.Script,
	}
	if inputPath != "" && outputPath != "" {
		srcDir, err := filepath.Abs(filepath.Dir(inputPath))
		if err != nil {
			return "", fmt.Errorf("resolving source dir: %w", err)
		}
		outDir, err := filepath.Abs(filepath.Dir(outputPath))
		if err != nil {
			return "", fmt.Errorf("resolving output dir: %w", err)
		}
		in.SourceDir, in.OutputDir = srcDir, outDir
	}

	return pipeline.NewPage(conv).Build(ctx, in)
}

// extractTitle returns the text of the first ATX level-one heading outside
// fenced blocks, or fallback.
func extractTitle(doc, fallback string) string {
	blocks := fence.Locate(doc)

	offset := 0
	for line := range strings.Lines(doc) {
		lineStart := offset
		offset += len(line)

		text := strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(text, "# ") || insideBlock(blocks, lineStart) {
			continue
		}
		title := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text[2:]), "#"))
		if title != "" {
			return title
		}
	}
	return fallback
}

func insideBlock(blocks []fence.Block, pos int) bool {
	for _, b := range blocks {
		if pos >= b.Start && pos < b.End {
			return true
		}
	}
	return false
}
