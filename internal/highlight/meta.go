package highlight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Meta holds the rendering hints parsed from a fence's meta string.
// Line ranges are 1-based and inclusive.
type Meta struct {
	Title       string
	Frame       string // empty inherits the language default
	Mark        [][2]int
	Ins         [][2]int
	Del         [][2]int
	Collapse    [][2]int
	LineNumbers *bool
	Wrap        *bool
}

// hasLineKinds reports whether any line needs a class or a collapsed section
// beyond what chroma emits.
func (m Meta) hasLineKinds() bool {
	return len(m.Ins) > 0 || len(m.Del) > 0 || len(m.Collapse) > 0
}

// ranges returns the field a {…} group fills for key, or nil when key does
// not take line ranges. The empty key is a bare group.
func (m *Meta) ranges(key string) *[][2]int {
	switch key {
	case "", "mark":
		return &m.Mark
	case "ins":
		return &m.Ins
	case "del":
		return &m.Del
	case "collapse":
		return &m.Collapse
	}
	return nil
}

// ParseMeta reads key=value pairs, bare flags and line ranges: {n,m-k} marks
// lines, ins={…} and del={…} mark inserted and deleted lines, collapse={…}
// folds lines into a section. Braces inside quoted values are text.
// Unknown keys and quoted text markers are ignored.
func ParseMeta(meta string) (Meta, error) {
	var m Meta
	if strings.TrimSpace(meta) == "" {
		return m, nil
	}

	rest, err := extractRanges(meta, &m)
	if err != nil {
		return Meta{}, err
	}

	words, err := shlex.Split(rest)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: %v", ErrInvalidMeta, err)
	}

	for _, word := range words {
		key, value, hasValue := strings.Cut(word, "=")
		switch key {
		case "title":
			m.Title = value
		case "frame":
			if !validFrame(value) {
				return Meta{}, fmt.Errorf("%w: unknown frame %q", ErrInvalidMeta, value)
			}
			m.Frame = value
		case "showLineNumbers":
			b, err := parseFlag(key, value, hasValue)
			if err != nil {
				return Meta{}, err
			}
			m.LineNumbers = &b
		case "wrap":
			b, err := parseFlag(key, value, hasValue)
			if err != nil {
				return Meta{}, err
			}
			m.Wrap = &b
		}
	}
	return m, nil
}

// extractRanges moves every unquoted range group into m and returns the meta
// with those groups blanked out. A group counts when it starts a word or
// directly follows one of the range keys and '='.
func extractRanges(meta string, m *Meta) (string, error) {
	out := make([]byte, 0, len(meta))
	var quote byte

	for i := 0; i < len(meta); i++ {
		c := meta[i]

		switch {
		case quote != 0:
			if c == '\\' && quote == '"' && i+1 < len(meta) {
				out = append(out, c, meta[i+1])
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '\\' && i+1 < len(meta):
			out = append(out, c, meta[i+1])
			i++
			continue
		case c == '{':
			end := strings.IndexByte(meta[i:], '}')
			if end < 0 {
				break
			}
			start, dest := rangeTarget(out, m)
			if dest == nil {
				break
			}
			ranges, err := parseRanges(meta[i+1 : i+end])
			if err != nil {
				return "", err
			}
			*dest = append(*dest, ranges...)
			out = append(out[:start], ' ')
			i += end
			continue
		}
		out = append(out, c)
	}
	return string(out), nil
}

// rangeTarget inspects the text before a '{' and returns where the group's
// word starts in out and which field it fills.
func rangeTarget(out []byte, m *Meta) (int, *[][2]int) {
	if len(out) == 0 || isSpace(out[len(out)-1]) {
		return len(out), m.ranges("")
	}
	if out[len(out)-1] != '=' {
		return 0, nil
	}

	start := len(out) - 1
	for start > 0 && !isSpace(out[start-1]) {
		start--
	}
	key := string(out[start : len(out)-1])
	if key == "" {
		return 0, nil
	}
	return start, m.ranges(key)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func parseFlag(key, value string, hasValue bool) (bool, error) {
	if !hasValue {
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidMeta, key, value)
	}
	return b, nil
}

func parseRanges(s string) ([][2]int, error) {
	var out [][2]int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || start < 1 {
			return nil, fmt.Errorf("%w: bad line range %q", ErrInvalidMeta, part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || end < start {
				return nil, fmt.Errorf("%w: bad line range %q", ErrInvalidMeta, part)
			}
		}
		out = append(out, [2]int{start, end})
	}
	return out, nil
}

// inRanges reports whether line falls inside any range.
func inRanges(ranges [][2]int, line int) bool {
	for _, r := range ranges {
		if line >= r[0] && line <= r[1] {
			return true
		}
	}
	return false
}
