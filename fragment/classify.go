// Package fragment turns Doxygen code fragments into language tagged code
// blocks.
//
// Doxygen renders verbatim code as
//
//	<div class="fragment"><div class="line">@idl</div><div class="line">...</div></div>
//
// When the first line is a known language tag the fragment is replaced with
//
//	<pre><code class="language-idl" style="white-space: pre">...</code></pre>
//
// otherwise it is left alone.
package fragment

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"doxyhl/page"
)

const (
	FragmentClass = "fragment"
	LineClass     = "line"
)

var tags = map[string]string{
	"@cmake":      "cmake-ext",
	"@idl":        "idl",
	"@json":       "json",
	"@c":          "c",
	"@cpp":        "cpp",
	"@javascript": "javascript",
	"@bash":       "bash",
}

// Lookup maps first line tag to language identifier. Match is exact.
func Lookup(tag string) (string, bool) {
	lang, ok := tags[tag]
	return lang, ok
}

// CodeBlock is classified fragment.
type CodeBlock struct {
	Language string
	Body     string
}

// Result summarizes single classification pass.
type Result struct {
	Blocks  []CodeBlock
	Skipped int
}

// Classify replaces every tagged fragment in the document with code block.
func Classify(doc *page.Document, log *zap.Logger) Result {
	var res Result
	for _, frag := range doc.FindAll(page.ByClass(FragmentClass)) {
		block, ok := classify(frag)
		if !ok {
			res.Skipped++
			continue
		}
		page.Replace(frag, render(block))
		res.Blocks = append(res.Blocks, block)
	}
	if len(res.Blocks) > 0 || res.Skipped > 0 {
		log.Debug("Fragments classified", zap.Int("blocks", len(res.Blocks)), zap.Int("skipped", res.Skipped))
	}
	return res
}

// classify splits fragment lines into the tag line and the body.
func classify(frag *html.Node) (CodeBlock, bool) {
	lines := lineTexts(frag)
	if len(lines) == 0 {
		return CodeBlock{}, false
	}
	lang, ok := Lookup(lines[0])
	if !ok {
		return CodeBlock{}, false
	}

	var b strings.Builder
	for _, l := range lines[1:] {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return CodeBlock{
		Language: lang,
		Body:     strings.TrimRightFunc(b.String(), unicode.IsSpace),
	}, true
}

func lineTexts(frag *html.Node) []string {
	var lines []string
	for n := range frag.Descendants() {
		if page.HasClass(n, LineClass) {
			lines = append(lines, page.TextContent(n))
		}
	}
	return lines
}

func render(block CodeBlock) *html.Node {
	code := page.NewElement("code",
		html.Attribute{Key: "class", Val: "language-" + block.Language},
		html.Attribute{Key: "style", Val: "white-space: pre"},
	)
	code.AppendChild(page.NewText(block.Body))
	pre := page.NewElement("pre")
	pre.AppendChild(code)
	return pre
}
