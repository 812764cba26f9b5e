package highlight

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// markupVersion changes whenever the frame markup changes, so cached renders
// from older builds stop matching.
const markupVersion = "fc2"

// lexerNames maps canonical languages to chroma lexer names where they differ.
var lexerNames = map[string]string{
	"shellsession": "console",
}

// Engine renders code blocks with a fixed set of Options.
// It is safe for concurrent use.
type Engine struct {
	opts  Options
	style *chroma.Style
}

// New validates opts and resolves the chroma style.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts, style: styles.Registry[opts.Style]}, nil
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Render highlights code and wraps it in a frame according to meta.
func (e *Engine) Render(code, language, meta string) (string, error) {
	m, err := ParseMeta(meta)
	if err != nil {
		return "", err
	}

	pre, err := e.highlight(code, language, m)
	if err != nil {
		return "", err
	}
	if m.hasLineKinds() {
		if pre, err = decorateLines(pre, m); err != nil {
			return "", err
		}
	}

	frame := e.frameFor(language, m)
	if frame == FrameNone {
		return pre, nil
	}
	return e.wrap(pre, language, frame, m.Title)
}

// WriteCSS writes the chroma stylesheet for class-based output.
// It writes nothing when the engine emits inline styles.
func (e *Engine) WriteCSS(w io.Writer) error {
	if !e.opts.Classes {
		return nil
	}
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, e.style)
}

func (e *Engine) highlight(code, language string, m Meta) (string, error) {
	lexer := lexerFor(language)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: tokenising %s: %v", ErrHighlight, language, err)
	}

	formatter := chromahtml.New(e.formatOptions(language, m)...)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, e.style, iterator); err != nil {
		return "", fmt.Errorf("%w: formatting %s: %v", ErrHighlight, language, err)
	}
	return buf.String(), nil
}

func (e *Engine) formatOptions(language string, m Meta) []chromahtml.Option {
	lineNumbers := e.opts.LineNumbers
	if ov, ok := e.opts.Overrides[language]; ok && ov.LineNumbers != nil {
		lineNumbers = *ov.LineNumbers
	}
	if m.LineNumbers != nil {
		lineNumbers = *m.LineNumbers
	}

	wrap := e.opts.WrapLongLines
	if m.Wrap != nil {
		wrap = *m.Wrap
	}

	opts := []chromahtml.Option{
		chromahtml.WithClasses(e.opts.Classes),
		chromahtml.TabWidth(e.opts.TabWidth),
		chromahtml.WithLineNumbers(lineNumbers),
		chromahtml.WrapLongLines(wrap),
	}
	if len(m.Mark) > 0 {
		opts = append(opts, chromahtml.HighlightLines(m.Mark))
	}
	return opts
}

func (e *Engine) frameFor(language string, m Meta) string {
	if m.Frame != "" {
		return m.Frame
	}
	if ov, ok := e.opts.Overrides[language]; ok && ov.Frame != "" {
		return ov.Frame
	}
	return FrameCode
}

// wrap builds the figure around chroma's <pre> and serializes it.
func (e *Engine) wrap(pre, language, frame, title string) (string, error) {
	figure := element(atom.Figure,
		html.Attribute{Key: "class", Val: "fc-frame fc-frame-" + frame},
	)
	if language != "" {
		figure.Attr = append(figure.Attr, html.Attribute{Key: "data-language", Val: language})
	}

	if header := e.header(language, title); header != nil {
		figure.AppendChild(header)
	}

	body, err := html.ParseFragment(strings.NewReader(pre), element(atom.Div))
	if err != nil {
		return "", fmt.Errorf("%w: parsing chroma output: %v", ErrHighlight, err)
	}
	for _, n := range body {
		figure.AppendChild(n)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, figure); err != nil {
		return "", fmt.Errorf("%w: rendering frame: %v", ErrHighlight, err)
	}
	return buf.String(), nil
}

// header returns the figcaption, or nil when it would be empty.
func (e *Engine) header(language, title string) *html.Node {
	caption := element(atom.Figcaption, html.Attribute{Key: "class", Val: "fc-header"})

	if title != "" {
		span := element(atom.Span, html.Attribute{Key: "class", Val: "fc-title"})
		span.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		caption.AppendChild(span)
	}
	if e.opts.LanguageBadge && language != "" {
		badge := element(atom.Span, html.Attribute{Key: "class", Val: "fc-badge"})
		badge.AppendChild(&html.Node{Type: html.TextNode, Data: language})
		caption.AppendChild(badge)
	}
	if e.opts.CopyButton {
		button := element(atom.Button,
			html.Attribute{Key: "type", Val: "button"},
			html.Attribute{Key: "class", Val: "fc-copy"},
			html.Attribute{Key: "aria-label", Val: "Copy code"},
		)
		button.AppendChild(&html.Node{Type: html.TextNode, Data: "Copy"})
		caption.AppendChild(button)
	}

	if caption.FirstChild == nil {
		return nil
	}
	return caption
}

// decorateLines tags inserted and deleted lines with classes and folds
// collapsed runs of lines into <details> sections. Each direct child of
// chroma's <code> element is one line.
func decorateLines(pre string, m Meta) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(pre), element(atom.Div))
	if err != nil {
		return "", fmt.Errorf("%w: parsing chroma output: %v", ErrHighlight, err)
	}

	var code *html.Node
	for _, n := range nodes {
		if code = findElement(n, atom.Code); code != nil {
			break
		}
	}
	if code == nil {
		return pre, nil
	}

	var lines []*html.Node
	for c := code.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			lines = append(lines, c)
		}
	}

	var section *html.Node
	for i, line := range lines {
		n := i + 1
		if inRanges(m.Ins, n) {
			addClass(line, "fc-ins")
		}
		if inRanges(m.Del, n) {
			addClass(line, "fc-del")
		}

		if !inRanges(m.Collapse, n) {
			if section != nil {
				closeSection(section)
				section = nil
			}
			continue
		}
		if section == nil {
			section = element(atom.Details, html.Attribute{Key: "class", Val: "fc-collapse"})
			section.AppendChild(element(atom.Summary))
			code.InsertBefore(section, line)
		}
		code.RemoveChild(line)
		section.AppendChild(line)
	}
	if section != nil {
		closeSection(section)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("%w: rendering lines: %v", ErrHighlight, err)
		}
	}
	return buf.String(), nil
}

// closeSection writes the summary once the section's line count is known.
func closeSection(section *html.Node) {
	count := 0
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom != atom.Summary {
			count++
		}
	}
	label := fmt.Sprintf("%d collapsed lines", count)
	if count == 1 {
		label = "1 collapsed line"
	}
	section.FirstChild.AppendChild(&html.Node{Type: html.TextNode, Data: label})
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func addClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key == "class" {
			n.Attr[i].Val = strings.TrimSpace(attr.Val + " " + class)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func lexerFor(language string) chroma.Lexer {
	name := language
	if alt, ok := lexerNames[language]; ok {
		name = alt
	}

	var lexer chroma.Lexer
	if name != "" {
		lexer = lexers.Get(name)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
