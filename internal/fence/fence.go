// Package fence locates fenced code blocks in free-form text.
//
// The locator is line oriented and never rewrites its input: every Block
// carries the half-open byte span [Start, End) it occupies in the source, so
// callers can splice replacement text back in place. A fence opens on a line
// that starts with three or more backticks or tildes, optionally followed by
// a language token and free-form meta text. It closes on the first later line
// consisting of exactly the same run of fence characters.
//
// Malformed input is never an error: an opening fence without a matching
// closing line is left alone and scanning resumes on the following line.
package fence

import "strings"

// minFenceLen is the shortest run of fence characters that opens a block.
const minFenceLen = 3

// Block is one fenced code block occurrence.
type Block struct {
	Fence    string // delimiter run, e.g. "```" or "~~~~"
	Language string // word token right after the fence, may be empty
	Meta     string // rest of the opening line, trimmed
	Code     string // text between the fence lines, delimiting line breaks excluded
	Start    int    // byte offset of the opening fence
	End      int    // byte offset just past the closing fence
	Line     int    // 1-based line of the opening fence
}

// Raw returns the exact source text covered by the block.
func (b Block) Raw(doc string) string {
	return doc[b.Start:b.End]
}

// Len returns the size of the block span in bytes.
func (b Block) Len() int {
	return b.End - b.Start
}

// Locate returns all fenced blocks of doc in ascending Start order.
// Returned blocks never overlap. Locate is a pure function and never panics.
func Locate(doc string) []Block {
	var blocks []Block

	pos, line := 0, 1
	for pos < len(doc) {
		eol := strings.IndexByte(doc[pos:], '\n')
		if eol < 0 {
			// An opening fence needs a line break after it.
			break
		}
		eol += pos
		bodyStart := eol + 1

		if fenceRun, lang, meta, ok := parseOpening(doc[pos:eol]); ok {
			if code, end, next, found := findClosing(doc, bodyStart, fenceRun); found {
				blocks = append(blocks, Block{
					Fence:    fenceRun,
					Language: lang,
					Meta:     meta,
					Code:     code,
					Start:    pos,
					End:      end,
					Line:     line,
				})
				line += strings.Count(doc[pos:next], "\n")
				pos = next
				continue
			}
		}

		pos = bodyStart
		line++
	}

	return blocks
}

// parseOpening splits an opening fence line into its run, language and meta.
func parseOpening(text string) (fenceRun, lang, meta string, ok bool) {
	if text == "" {
		return "", "", "", false
	}

	c := text[0]
	if c != '`' && c != '~' {
		return "", "", "", false
	}

	n := runLength(text, c)
	if n < minFenceLen {
		return "", "", "", false
	}

	rest := text[n:]
	w := 0
	for w < len(rest) && isWordByte(rest[w]) {
		w++
	}

	return text[:n], rest[:w], strings.TrimSpace(rest[w:]), true
}

// findClosing searches for the line that closes a block whose body starts at
// bodyStart. The body is delimited by a line break on each side, so the first
// candidate closing line is the one after the first body line.
// It returns the code, the end of the span and the offset where scanning
// should resume.
func findClosing(doc string, bodyStart int, fenceRun string) (code string, end, next int, found bool) {
	search := bodyStart
	for search < len(doc) {
		nl := strings.IndexByte(doc[search:], '\n')
		if nl < 0 {
			return "", 0, 0, false
		}
		nl += search

		lineStart := nl + 1
		lineEnd := strings.IndexByte(doc[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(doc)
		} else {
			lineEnd += lineStart
		}

		if isClosingLine(doc[lineStart:lineEnd], fenceRun) {
			code = strings.TrimSuffix(doc[bodyStart:nl], "\r")
			end = lineStart + len(fenceRun)
			next = lineEnd
			if next < len(doc) {
				next++ // consume the line break after the closing fence
			}
			return code, end, next, true
		}

		search = lineStart
	}

	return "", 0, 0, false
}

// isClosingLine reports whether text is exactly fenceRun, allowing a single
// trailing carriage return.
func isClosingLine(text, fenceRun string) bool {
	return strings.TrimSuffix(text, "\r") == fenceRun
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
