package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fencecache <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Replace fenced code blocks with highlighted HTML")
	fmt.Fprintln(w, "  css        Print the stylesheet for rendered blocks")
	fmt.Fprintln(w, "  cache      Inspect or clear the render cache")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'fencecache help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fencecache render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite markdown documents, replacing fenced code blocks with")
	fmt.Fprintln(w, "highlighted HTML. Output goes to <name>.rendered.md.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --exclude <glob>      Skip matching paths (repeatable, ** allowed)")
	fmt.Fprintln(w, "      --html                Also write an HTML page per document")
	fmt.Fprintln(w, "      --assets <dir>        Custom styles/ and scripts/ for --html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent renders (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-block timeout, e.g. 5s (0 = none)")
	fmt.Fprintln(w, "      --style <name>        Chroma style (default: github)")
	fmt.Fprintln(w, "      --classes             Emit CSS classes instead of inline styles")
	fmt.Fprintln(w, "      --no-line-numbers     Disable line numbers")
	fmt.Fprintln(w, "      --strict              Fail when any block is left raw")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cache:")
	fmt.Fprintln(w, "      --cache-dir <dir>     Cache directory (default: user cache dir)")
	fmt.Fprintln(w, "      --backend <name>      file, bolt, memory (default: file)")
	fmt.Fprintln(w, "      --flush-interval <d>  Persist periodically (0 = on exit only)")
	fmt.Fprintln(w, "      --no-cache            Use a throwaway in-memory cache")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show cache activity and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  FENCECACHE_CONFIG, FENCECACHE_CACHE_DIR, FENCECACHE_BACKEND,")
	fmt.Fprintln(w, "  FENCECACHE_STYLE, FENCECACHE_TIMEOUT, FENCECACHE_WORKERS")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  fencecache render README.md")
	fmt.Fprintln(w, "  fencecache render docs/ -o site/ --exclude 'drafts/**' --html")
	fmt.Fprintln(w, "  cat notes.md | fencecache render - --no-cache > notes.rendered.md")
}

// printCSSUsage prints usage for the css command.
func printCSSUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fencecache css [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the frame stylesheet, plus chroma classes with --classes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --style <name>        Chroma style")
	fmt.Fprintln(w, "      --classes             Include the chroma class stylesheet")
	fmt.Fprintln(w, "      --assets <dir>        Custom styles/ directory")
}

// printCacheUsage prints usage for the cache command.
func printCacheUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fencecache cache <stats|clear> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --cache-dir <dir>     Cache directory")
	fmt.Fprintln(w, "      --backend <name>      file or bolt")
}

// runHelp prints help for a command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "css":
		printCSSUsage(env.Stdout)
	case "cache":
		printCacheUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: fencecache version")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
