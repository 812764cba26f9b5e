package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// renderedSuffix marks rewritten documents. Files carrying it are never
// picked up again as input.
const renderedSuffix = ".rendered.md"

// markdownExtensions lists the accepted input extensions.
var markdownExtensions = []string{".md", ".markdown", ".mdx"}

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension = errors.New("file must have .md, .markdown or .mdx extension")
	ErrInvalidPattern   = errors.New("invalid exclude pattern")
	ErrNoMarkdown       = errors.New("no markdown files found")
)

// FileToRender represents a single file to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all markdown files to rewrite under inputPath.
// Hidden directories, previously rendered files and paths matching an
// exclude pattern are skipped.
func discoverFiles(inputPath, outputPath string, exclude []string) ([]FileToRender, error) {
	if err := validatePatterns(exclude); err != nil {
		return nil, err
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputPath, "")
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}

		rel, relErr := filepath.Rel(inputPath, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || isExcluded(rel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdownFile(path) || isExcluded(rel, exclude) {
			return nil
		}

		outPath := resolveOutputPath(path, outputPath, inputPath)
		files = append(files, FileToRender{InputPath: path, OutputPath: outPath})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMarkdown, inputPath)
	}

	return files, nil
}

// resolveOutputPath determines where the rewritten document goes.
// Without an output it sits next to the input; an output ending in .md is
// used as-is for single files; otherwise the input's relative location is
// preserved under the output directory.
func resolveOutputPath(inputPath, output, baseInputDir string) string {
	name := renderedName(inputPath)

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if baseInputDir == "" && strings.HasSuffix(output, ".md") {
		return output
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(output, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(output, name)
}

// renderedName returns "<base>.rendered.md" for an input path.
func renderedName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + renderedSuffix
}

// htmlOutputPath returns the HTML page path for a rewritten document.
func htmlOutputPath(outputPath string) string {
	if strings.HasSuffix(outputPath, renderedSuffix) {
		return strings.TrimSuffix(outputPath, renderedSuffix) + ".html"
	}
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".html"
}

// isMarkdownFile reports whether path is an input document.
func isMarkdownFile(path string) bool {
	if strings.HasSuffix(path, renderedSuffix) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range markdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// validateMarkdownExtension checks that a single input file is a document.
func validateMarkdownExtension(path string) error {
	if !isMarkdownFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Base(path))
	}
	return nil
}

// validatePatterns rejects malformed exclude globs before walking.
func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}
	return nil
}

// isExcluded reports whether a slash-separated relative path matches any
// exclude pattern.
func isExcluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
