package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for argument handling.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrNoInput = errors.New("no input specified")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// cacheFlags holds render cache flags.
type cacheFlags struct {
	dir           string
	backend       string
	flushInterval time.Duration
	disabled      bool
}

// highlightFlags holds highlighter flags.
type highlightFlags struct {
	style         string
	classes       bool
	noLineNumbers bool
}

// outputFlags holds output mode flags.
type outputFlags struct {
	output    string
	html      bool   // Write an HTML page next to each rewritten document
	assetPath string // Override frame stylesheet and copy script directory
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	cache     cacheFlags
	highlight highlightFlags
	out       outputFlags
	workers   int
	timeout   time.Duration
	exclude   []string
	strict    bool

	// changed records flags set on the command line. Zero values are valid
	// settings (workers 0 = auto, timeout 0 = none), so presence decides
	// whether a flag overrides config.
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show cache activity and timing")
}

// addCacheFlags adds cache flags to a FlagSet.
func addCacheFlags(fs *flag.FlagSet, f *cacheFlags) {
	fs.StringVar(&f.dir, "cache-dir", "", "cache directory (default: user cache dir)")
	fs.StringVar(&f.backend, "backend", "", "cache backend: file, bolt, memory")
	fs.DurationVar(&f.flushInterval, "flush-interval", 0, "persist the cache periodically (0 = on exit only)")
	fs.BoolVar(&f.disabled, "no-cache", false, "use a throwaway in-memory cache")
}

// addHighlightFlags adds highlighter flags to a FlagSet.
func addHighlightFlags(fs *flag.FlagSet, f *highlightFlags) {
	fs.StringVar(&f.style, "style", "", "chroma style name")
	fs.BoolVar(&f.classes, "classes", false, "emit CSS classes instead of inline styles")
	fs.BoolVar(&f.noLineNumbers, "no-line-numbers", false, "disable line numbers")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.html, "html", false, "also write an HTML page per document")
	fs.StringVar(&f.assetPath, "assets", "", "directory with custom styles/ and scripts/")
}

// parseRenderFlags parses render arguments and returns the flags and
// positional arguments.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{changed: make(map[string]bool)}

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printRenderUsage(stderr) }

	addCommonFlags(fs, &f.common)
	addCacheFlags(fs, &f.cache)
	addHighlightFlags(fs, &f.highlight)
	addOutputFlags(fs, &f.out)
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent renders (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-block render timeout (0 = none)")
	fs.StringArrayVar(&f.exclude, "exclude", nil, "glob of paths to skip, relative to the input dir (repeatable)")
	fs.BoolVar(&f.strict, "strict", false, "exit non-zero when any block fails to render")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}

	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })
	return f, fs.Args(), nil
}

// cacheCmdFlags holds flags for the cache command.
type cacheCmdFlags struct {
	common commonFlags
	cache  cacheFlags
}

// parseCacheFlags parses cache subcommand arguments.
func parseCacheFlags(args []string, stderr io.Writer) (*cacheCmdFlags, []string, error) {
	f := &cacheCmdFlags{}

	fs := flag.NewFlagSet("cache", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printCacheUsage(stderr) }

	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.cache.dir, "cache-dir", "", "cache directory (default: user cache dir)")
	fs.StringVar(&f.cache.backend, "backend", "", "cache backend: file, bolt")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return f, fs.Args(), nil
}

// cssFlags holds flags for the css command.
type cssFlags struct {
	common    commonFlags
	highlight highlightFlags
	assetPath string
	changed   map[string]bool
}

// parseCSSFlags parses css command arguments.
func parseCSSFlags(args []string, stderr io.Writer) (*cssFlags, error) {
	f := &cssFlags{changed: make(map[string]bool)}

	fs := flag.NewFlagSet("css", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printCSSUsage(stderr) }

	addCommonFlags(fs, &f.common)
	addHighlightFlags(fs, &f.highlight)
	fs.StringVar(&f.assetPath, "assets", "", "directory with custom styles/")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })
	return f, nil
}
