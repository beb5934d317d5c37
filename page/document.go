// Package page provides minimal DOM over parsed HTML pages: element lookup by
// class, text content and in place tree surgery.
package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads HTML page from r. When enc is nil page encoding is detected
// from BOM and meta tags, otherwise enc is forced. Document is always
// rendered as UTF-8, so charset declarations of pages decoded from anything
// else are rewritten.
func Parse(r io.Reader, enc encoding.Encoding) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read page: %w", err)
	}
	if enc == nil {
		enc, _, _ = charset.DetermineEncoding(data, "")
	}

	root, err := html.Parse(enc.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to parse page: %w", err)
	}
	d := &Document{root: root}
	if enc != unicode.UTF8 {
		d.declareUTF8()
	}
	return d, nil
}

// Render writes document as UTF-8 HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// declareUTF8 points all charset declarations to UTF-8, adding one to head
// when page has none.
func (d *Document) declareUTF8() {
	var head *html.Node
	declared := false
	for n := range d.root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.DataAtom {
		case atom.Head:
			if head == nil {
				head = n
			}
		case atom.Meta:
			if _, ok := Attr(n, "charset"); ok {
				SetAttr(n, "charset", "utf-8")
				declared = true
			}
			if v, ok := Attr(n, "http-equiv"); ok && strings.EqualFold(v, "content-type") {
				content, _ := Attr(n, "content")
				SetAttr(n, "content", withUTF8(content))
				declared = true
			}
		}
	}
	if declared || head == nil {
		return
	}
	meta := NewElement("meta", html.Attribute{Key: "charset", Val: "utf-8"})
	head.InsertBefore(meta, head.FirstChild)
}

// withUTF8 replaces charset parameter of content type value.
func withUTF8(content string) string {
	i := strings.Index(strings.ToLower(content), "charset=")
	if i < 0 {
		if content = strings.TrimSpace(content); content == "" {
			content = "text/html"
		}
		return content + "; charset=utf-8"
	}
	rest := content[i+len("charset="):]
	if j := strings.IndexByte(rest, ';'); j >= 0 {
		return content[:i] + "charset=utf-8" + rest[j:]
	}
	return content[:i] + "charset=utf-8"
}

// FindAll returns all nodes satisfying match in document order. Result is a
// snapshot, callers may modify tree while going over it.
func (d *Document) FindAll(match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for n := range d.root.Descendants() {
		if match(n) {
			out = append(out, n)
		}
	}
	return out
}
