package pipeline

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// ScriptInjector defines the contract for script injection into HTML.
type ScriptInjector interface {
	InjectScript(ctx context.Context, htmlContent, script string) string
}

// Compile-time interface checks.
var (
	_ CSSInjector    = (*CSSInjection)(nil)
	_ ScriptInjector = (*ScriptInjection)(nil)
)

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"

	if start, _ := findTag(htmlContent, atom.Head, true); start != -1 {
		return htmlContent[:start] + styleBlock + htmlContent[start:]
	}
	if _, end := findTag(htmlContent, atom.Body, false); end != -1 {
		return htmlContent[:end] + styleBlock + htmlContent[end:]
	}
	return styleBlock + htmlContent
}

// ScriptInjection injects an inline <script> at the end of the body.
type ScriptInjection struct{}

// InjectScript inserts a <script> block before </body>, or appends it when
// the document has no closing body tag.
func (s *ScriptInjection) InjectScript(ctx context.Context, htmlContent, script string) string {
	if script == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	block := "<script>" + sanitizeScript(script) + "</script>"

	if start, _ := findTag(htmlContent, atom.Body, true); start != -1 {
		return htmlContent[:start] + block + htmlContent[start:]
	}
	return htmlContent + block
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
// Prevents CSS injection by escaping </style> and similar closing sequences.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// sanitizeScript escapes closing sequences inside inline scripts.
func sanitizeScript(script string) string {
	return strings.ReplaceAll(script, "</", `<\/`)
}

// findTag returns the byte span of the first start tag (or end tag when
// closing is set) named a. Tags inside comments, <script> and <style> are
// not matched. Returns -1, -1 when absent.
func findTag(doc string, a atom.Atom, closing bool) (start, end int) {
	z := html.NewTokenizer(strings.NewReader(doc))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return -1, -1
		}
		n := len(z.Raw())

		var match bool
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			match = !closing
		case html.EndTagToken:
			match = closing
		}
		if match {
			name, _ := z.TagName()
			if atom.Lookup(name) == a {
				return offset, offset + n
			}
		}

		offset += n
	}
}
