package page

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ByClass matches elements having class name cls.
func ByClass(cls string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return HasClass(n, cls)
	}
}

// ByTag matches elements with tag name.
func ByTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// Attr returns value of attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces attribute value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func Classes(n *html.Node) []string {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

func HasClass(n *html.Node, cls string) bool {
	for _, c := range Classes(n) {
		if c == cls {
			return true
		}
	}
	return false
}

// AddClass appends class names which element does not have yet.
func AddClass(n *html.Node, classes ...string) {
	have := Classes(n)
	for _, c := range classes {
		if !HasClass(n, c) {
			have = append(have, c)
		}
	}
	SetAttr(n, "class", strings.Join(have, " "))
}

// ClassWithPrefix returns remainder of the first class name starting with
// prefix.
func ClassWithPrefix(n *html.Node, prefix string) (string, bool) {
	for _, c := range Classes(n) {
		if rest, ok := strings.CutPrefix(c, prefix); ok {
			return rest, true
		}
	}
	return "", false
}

// TextContent concatenates all text below n, same as DOM textContent.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
	}
	return b.String()
}

// NewElement creates detached element. Unknown (custom) tags are allowed.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
}

func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Replace puts detached node repl in place of n, n becomes detached.
func Replace(n, repl *html.Node) {
	if n.Parent == nil {
		return
	}
	n.Parent.InsertBefore(repl, n)
	n.Parent.RemoveChild(n)
}

// Wrap puts wrapper in place of n and makes n wrapper's first child.
func Wrap(n, wrapper *html.Node) {
	Replace(n, wrapper)
	if wrapper.FirstChild != nil {
		wrapper.InsertBefore(n, wrapper.FirstChild)
		return
	}
	wrapper.AppendChild(n)
}

// ReplaceChildren drops all children of n and appends detached nodes instead.
func ReplaceChildren(n *html.Node, children []*html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	for _, c := range children {
		n.AppendChild(c)
	}
}

// Clone makes deep detached copy of n.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(Clone(ch))
	}
	return c
}

// ParseFragment parses markup as content of element with tag name context.
func ParseFragment(markup, context string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(markup), NewElement(context))
}
