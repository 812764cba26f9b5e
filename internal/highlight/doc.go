// Package highlight renders fenced code blocks to HTML with chroma.
//
// An Engine turns (code, language, meta) into a framed snippet:
//
//	<figure class="fc-frame fc-frame-code" data-language="go">
//	  <figcaption class="fc-header">title, language badge, copy button</figcaption>
//	  <pre class="chroma">...</pre>
//	</figure>
//
// The meta string of the opening fence selects per-block features:
//
//	```go title="main.go" {3-5} showLineNumbers=false
//	```console frame="terminal"
//	```text frame="none" wrap
//
// Engine construction resolves the chroma style and formatter settings once.
// Handle defers that work until the first render and shares the result
// between concurrent callers.
package highlight
