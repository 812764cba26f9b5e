package pipeline

import (
	"context"
	"fmt"
)

// Page assembles a standalone HTML page from a rewritten document.
type Page struct {
	Preprocessor MarkdownPreprocessor
	Converter    HTMLConverter
	CSS          CSSInjector
	Script       ScriptInjector
}

// NewPage wires the default stages around converter.
func NewPage(converter HTMLConverter) *Page {
	return &Page{
		Preprocessor: &CommonMarkPreprocessor{},
		Converter:    converter,
		CSS:          &CSSInjection{},
		Script:       &ScriptInjection{},
	}
}

// PageInput is the content of one page.
type PageInput struct {
	Markdown  string
	CSS       string // frame and chroma stylesheet
	Script    string // copy button behaviour
	SourceDir string // directory the document was read from
	OutputDir string // directory the page is written to
}

// Build converts in.Markdown and injects the stylesheet and script.
// Relative links are rebased when the page lands in another directory.
func (p *Page) Build(ctx context.Context, in PageInput) (string, error) {
	content := p.Preprocessor.PreprocessMarkdown(ctx, in.Markdown)

	htmlContent, err := p.Converter.ToHTML(ctx, content)
	if err != nil {
		return "", err
	}

	htmlContent = p.CSS.InjectCSS(ctx, htmlContent, in.CSS)
	htmlContent = p.Script.InjectScript(ctx, htmlContent, in.Script)

	htmlContent, err = RebaseRelativePaths(htmlContent, in.SourceDir, in.OutputDir)
	if err != nil {
		return "", fmt.Errorf("%w: rebasing paths: %v", ErrHTMLConversion, err)
	}

	return htmlContent, ctx.Err()
}
