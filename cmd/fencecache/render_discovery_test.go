package main

// Notes:
// - discoverFiles: we test single files, directory walks, hidden and
//   rendered-file skipping, and doublestar excludes on real temp trees.
// - resolveOutputPath: POSIX paths only; skipped on Windows.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Directory walk
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{
		"README.md",
		"guide.markdown",
		"page.mdx",
		"notes.txt",
		"README.rendered.md",
		"drafts/wip.md",
		"api/v1/ref.md",
		"api/v1/ref.rendered.md",
		".git/HEAD.md",
	} {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	tests := []struct {
		name    string
		exclude []string
		want    []string
	}{
		{
			name: "all markdown",
			want: []string{"README.md", "api/v1/ref.md", "drafts/wip.md", "guide.markdown", "page.mdx"},
		},
		{
			name:    "exclude directory",
			exclude: []string{"drafts"},
			want:    []string{"README.md", "api/v1/ref.md", "guide.markdown", "page.mdx"},
		},
		{
			name:    "exclude double star",
			exclude: []string{"**/*.mdx", "api/**"},
			want:    []string{"README.md", "drafts/wip.md", "guide.markdown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := discoverFiles(dir, "", tt.exclude)
			if err != nil {
				t.Fatalf("discoverFiles() error = %v", err)
			}

			got := make([]string, 0, len(files))
			for _, f := range files {
				rel, _ := filepath.Rel(dir, f.InputPath)
				got = append(got, filepath.ToSlash(rel))
			}
			sort.Strings(got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("discoverFiles() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscoverFiles_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, txt, "x")
	empty := filepath.Join(dir, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		exclude []string
		wantErr error
	}{
		{name: "missing", input: filepath.Join(dir, "nope.md"), wantErr: os.ErrNotExist},
		{name: "wrong extension", input: txt, wantErr: ErrInvalidExtension},
		{name: "no markdown", input: empty, wantErr: ErrNoMarkdown},
		{name: "bad pattern", input: dir, exclude: []string{"[a-"}, wantErr: ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := discoverFiles(tt.input, "", tt.exclude)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("discoverFiles() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output placement
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX paths")
	}

	tests := []struct {
		name    string
		input   string
		output  string
		baseDir string
		want    string
	}{
		{"next to input", "/docs/a.md", "", "", "/docs/a.rendered.md"},
		{"markdown extension replaced", "/docs/a.markdown", "", "", "/docs/a.rendered.md"},
		{"explicit file", "/docs/a.md", "/out/final.md", "", "/out/final.md"},
		{"into directory", "/docs/a.md", "/out", "", "/out/a.rendered.md"},
		{"tree preserved", "/docs/api/v1/ref.md", "/out", "/docs", "/out/api/v1/ref.rendered.md"},
		{"md output in tree is a directory", "/docs/x/a.md", "/out.md", "/docs", "/out.md/x/a.rendered.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveOutputPath(tt.input, tt.output, tt.baseDir); got != tt.want {
				t.Errorf("resolveOutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.output, tt.baseDir, got, tt.want)
			}
		})
	}
}

func TestHTMLOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"docs/a.rendered.md", "docs/a.html"},
		{"out/final.md", "out/final.html"},
	}
	for _, tt := range tests {
		if got := htmlOutputPath(tt.in); got != tt.want {
			t.Errorf("htmlOutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsMarkdownFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"a.md", true},
		{"A.MD", true},
		{"a.markdown", true},
		{"a.mdx", true},
		{"a.rendered.md", false},
		{"a.txt", false},
		{"render", false},
		{"-", false},
	}
	for _, tt := range tests {
		if got := isMarkdownFile(tt.path); got != tt.want {
			t.Errorf("isMarkdownFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
