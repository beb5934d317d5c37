package highlight

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"doxyhl/page"
)

const (
	// LanguageClassPrefix marks code element with language of its content.
	LanguageClassPrefix = "language-"
	// HighlightedClass marks code element already rewritten by engine.
	HighlightedClass = "hljs"
)

// IsPending matches code blocks waiting to be highlighted.
func IsPending(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "code" || page.HasClass(n, HighlightedClass) {
		return false
	}
	_, ok := page.ClassWithPrefix(n, LanguageClassPrefix)
	return ok
}

// HighlightAll rewrites every pending code block of the document into
// classified spans and marks it highlighted. Blocks in unknown languages are
// left untouched. Returns number of highlighted blocks.
func (e *Engine) HighlightAll(doc *page.Document) int {
	count := 0
	for _, code := range doc.FindAll(IsPending) {
		lang, _ := page.ClassWithPrefix(code, LanguageClassPrefix)
		if err := e.highlight(code, lang); err != nil {
			e.log.Debug("Code block left as is", zap.String("language", lang), zap.Error(err))
			continue
		}
		count++
	}
	return count
}

func (e *Engine) highlight(code *html.Node, lang string) error {
	tokens, err := e.Tokenise(lang, page.TextContent(code))
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := e.formatter.Format(buf, e.style, chroma.Literator(tokens...)); err != nil {
		return fmt.Errorf("unable to format code: %w", err)
	}
	nodes, err := page.ParseFragment(buf.String(), "code")
	if err != nil {
		return fmt.Errorf("unable to parse formatted code: %w", err)
	}

	page.ReplaceChildren(code, nodes)
	page.AddClass(code, HighlightedClass, e.prefix+"chroma")
	return nil
}
