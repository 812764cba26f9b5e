package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGoldmarkConverter - Markdown to page conversion
// ---------------------------------------------------------------------------

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         []ConverterOption
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "heading with id",
			input:        "# Hello World",
			wantContains: []string{`<h1 id="hello-world">Hello World</h1>`, "<title>Document</title>"},
		},
		{
			name:         "custom title escaped",
			opts:         []ConverterOption{WithTitle("A & B")},
			input:        "text",
			wantContains: []string{"<title>A &amp; B</title>"},
		},
		{
			name: "rendered frame passes through",
			input: "before\n\n" +
				`<figure class="fc-frame fc-frame-code" data-language="go"><pre class="chroma"><code>x</code></pre></figure>` +
				"\n\nafter",
			wantContains: []string{`<figure class="fc-frame fc-frame-code" data-language="go">`, "<p>after</p>"},
		},
		{
			name:         "raw block highlighted with fallback style",
			opts:         []ConverterOption{WithFallbackStyle("github")},
			input:        "```go\npackage main\n```\n",
			wantContains: []string{`<span style="`, "package"},
		},
		{
			name:         "raw block plain without fallback style",
			input:        "```go\npackage main\n```\n",
			wantContains: []string{`<pre><code class="language-go">package main`},
		},
		{
			name:         "gfm table",
			input:        "| a | b |\n|---|---|\n| 1 | 2 |\n",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewGoldmarkConverter(tt.opts...).ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			if !strings.HasPrefix(got, "<!DOCTYPE html>") {
				t.Errorf("ToHTML() missing doctype")
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() missing %q in:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("ToHTML() unexpectedly contains %q", exclude)
				}
			}
		})
	}
}

func TestGoldmarkConverter_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want %v", err, context.Canceled)
	}
}

// ---------------------------------------------------------------------------
// TestPreprocessMarkdown - Byte order mark and line endings
// ---------------------------------------------------------------------------

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "crlf", input: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "lone cr", input: "a\rb", want: "a\nb"},
		{name: "bom", input: "\uFEFF# T\n", want: "# T\n"},
		{name: "blank lines kept", input: "a\n\n\n\nb", want: "a\n\n\n\nb"},
	}

	p := &CommonMarkPreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
