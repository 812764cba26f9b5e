// Package pipeline turns a rewritten document into a standalone HTML page.
//
// Stages:
//   - Markdown preprocessing (byte order mark, line endings)
//   - Markdown to HTML conversion via Goldmark, with raw HTML passed through
//     so pre-rendered code frames survive, and chroma highlighting for any
//     block that was left unrendered
//   - Stylesheet and copy script injection
//   - Rebasing of relative links when the page is written elsewhere
//
// The pipeline is optional. The rewriter's Markdown output is the primary
// artifact and is handed to whatever site generator the host uses.
package pipeline
