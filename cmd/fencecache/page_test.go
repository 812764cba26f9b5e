package main

import (
	"context"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestExtractTitle - First heading outside code
// ---------------------------------------------------------------------------

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "first h1", doc: "intro\n# Title\n# Second\n", want: "Title"},
		{name: "closing hashes", doc: "# Title ##\n", want: "Title"},
		{name: "crlf", doc: "# Title\r\nbody\r\n", want: "Title"},
		{name: "h2 ignored", doc: "## Sub\n", want: "fallback"},
		{name: "inside fence ignored", doc: "```sh\n# comment\n```\n# Real\n", want: "Real"},
		{name: "empty heading ignored", doc: "# \n", want: "fallback"},
		{name: "none", doc: "plain", want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := extractTitle(tt.doc, "fallback"); got != tt.want {
				t.Errorf("extractTitle(%q) = %q, want %q", tt.doc, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPageBuilder - Bundle and fallback highlighting
// ---------------------------------------------------------------------------

func TestPageBuilder_Build(t *testing.T) {
	t.Parallel()

	b, err := newPageBuilder("", ".chroma{}", "github")
	if err != nil {
		t.Fatalf("newPageBuilder() error = %v", err)
	}

	got, err := b.build(context.Background(), "no heading\n\n```go\nx := 1\n```\n", "", "")
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}

	for _, want := range []string{"<title>Document</title>", ".chroma{}", ".fc-frame", "fc-copy", `<span style="`} {
		if !strings.Contains(got, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestNewPageBuilder_InvalidAssets(t *testing.T) {
	t.Parallel()

	if _, err := newPageBuilder("/definitely/not/here", "", ""); err == nil {
		t.Error("newPageBuilder() error = nil, want invalid asset path")
	}
}
