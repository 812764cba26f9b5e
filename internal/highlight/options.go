package highlight

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
)

// Frame kinds.
const (
	FrameCode     = "code"
	FrameTerminal = "terminal"
	FrameNone     = "none"
)

// Defaults and bounds.
const (
	DefaultStyle    = "github"
	DefaultTabWidth = 4
	MinTabWidth     = 1
	MaxTabWidth     = 16
)

// Override adjusts rendering for one language. Nil fields inherit Options.
type Override struct {
	LineNumbers *bool
	Frame       string
}

// Options controls rendering for every block.
type Options struct {
	Style         string // chroma style name
	Classes       bool   // emit CSS classes instead of inline styles
	LineNumbers   bool
	TabWidth      int
	WrapLongLines bool
	CopyButton    bool
	LanguageBadge bool
	Overrides     map[string]Override // keyed by canonical language
}

// DefaultOptions returns the stock rendering setup: github style, line
// numbers except for shell sessions, copy button and language badge.
func DefaultOptions() Options {
	off := false
	return Options{
		Style:         DefaultStyle,
		LineNumbers:   true,
		TabWidth:      DefaultTabWidth,
		WrapLongLines: true,
		CopyButton:    true,
		LanguageBadge: true,
		Overrides: map[string]Override{
			"shellsession": {LineNumbers: &off, Frame: FrameTerminal},
			"bash":         {Frame: FrameCode},
		},
	}
}

// Validate checks the style name, tab width and override frames.
func (o Options) Validate() error {
	if _, ok := styles.Registry[o.Style]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, o.Style)
	}
	if o.TabWidth < MinTabWidth || o.TabWidth > MaxTabWidth {
		return fmt.Errorf("%w: tab width %d out of range [%d, %d]", ErrInvalidOptions, o.TabWidth, MinTabWidth, MaxTabWidth)
	}
	for lang, ov := range o.Overrides {
		if ov.Frame != "" && !validFrame(ov.Frame) {
			return fmt.Errorf("%w: override %q: unknown frame %q", ErrInvalidOptions, lang, ov.Frame)
		}
	}
	return nil
}

// Signature describes every option that changes rendered markup.
// Two Options with equal signatures produce identical output.
func (o Options) Signature() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s;style=%s;classes=%t;lines=%t;tab=%d;wrap=%t;copy=%t;badge=%t",
		markupVersion, o.Style, o.Classes, o.LineNumbers, o.TabWidth, o.WrapLongLines, o.CopyButton, o.LanguageBadge)

	langs := make([]string, 0, len(o.Overrides))
	for lang := range o.Overrides {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	for _, lang := range langs {
		ov := o.Overrides[lang]
		lines := "-"
		if ov.LineNumbers != nil {
			lines = fmt.Sprint(*ov.LineNumbers)
		}
		fmt.Fprintf(&b, ";%s:lines=%s,frame=%s", lang, lines, ov.Frame)
	}
	return b.String()
}

// StyleNames lists the available chroma styles.
func StyleNames() []string {
	return styles.Names()
}

func validFrame(frame string) bool {
	switch frame {
	case FrameCode, FrameTerminal, FrameNone:
		return true
	}
	return false
}
