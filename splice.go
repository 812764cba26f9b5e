package fencecache

import (
	"slices"
	"strings"

	"github.com/alnah/go-fencecache/internal/fence"
)

// splice replaces each successfully resolved block with its markup.
//
// Blocks are applied from the last to the first. Every span is read against
// text that no earlier step has touched, so replacements of any length never
// shift an offset still to be used. Failed blocks keep their raw text.
func splice(doc string, blocks []fence.Block, resolved []resolution) string {
	pieces := make([]string, 0, 2*len(blocks)+1)
	cursor := len(doc)

	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		if resolved[i].err != nil {
			continue
		}
		pieces = append(pieces, doc[b.End:cursor], resolved[i].markup)
		cursor = b.Start
	}
	pieces = append(pieces, doc[:cursor])

	slices.Reverse(pieces)
	return strings.Join(pieces, "")
}
