package page

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(markup), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func renderString(t *testing.T, doc *Document) string {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := doc.Render(buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestParse_Encoding(t *testing.T) {
	// "Привет" in windows-1251
	cp1251 := []byte{0xcf, 0xf0, 0xe8, 0xe2, 0xe5, 0xf2}
	page := func(head string) []byte {
		src := append([]byte(`<html><head>`+head+`</head><body><p>`), cp1251...)
		return append(src, []byte(`</p></body></html>`)...)
	}

	tests := []struct {
		name    string
		src     []byte
		enc     encoding.Encoding
		want    string
		notWant string
	}{
		{
			name:    "meta charset",
			src:     page(`<meta charset="windows-1251">`),
			want:    `<head><meta charset="utf-8"/></head>`,
			notWant: "windows-1251",
		},
		{
			name:    "http-equiv",
			src:     page(`<meta http-equiv="Content-Type" content="text/xhtml;charset=windows-1251"/>`),
			want:    `content="text/xhtml;charset=utf-8"`,
			notWant: "windows-1251",
		},
		{
			name: "forced without declaration",
			src:  page(`<title>t</title>`),
			enc:  charmap.Windows1251,
			want: `<head><meta charset="utf-8"/><title>t</title></head>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(bytes.NewReader(tt.src), tt.enc)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := TextContent(doc.FindAll(ByTag("p"))[0]); got != "Привет" {
				t.Errorf("text = %q", got)
			}
			out := renderString(t, doc)
			if !utf8.ValidString(out) || !strings.Contains(out, "<p>Привет</p>") {
				t.Errorf("output is not UTF-8: %q", out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("output %q still contains %q", out, tt.notWant)
			}
		})
	}
}

func TestParse_UTF8Untouched(t *testing.T) {
	doc := mustParse(t, `<html><head><meta http-equiv="Content-Type" content="text/xhtml;charset=UTF-8"/></head><body><p>Привет</p></body></html>`)
	out := renderString(t, doc)
	if !strings.Contains(out, `content="text/xhtml;charset=UTF-8"`) {
		t.Errorf("declaration changed: %q", out)
	}
	if strings.Count(out, "<meta") != 1 {
		t.Errorf("unexpected meta elements: %q", out)
	}
}

func TestWithUTF8(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"text/html; charset=koi8-r", "text/html; charset=utf-8"},
		{"text/html; CHARSET=koi8-r; foo=bar", "text/html; charset=utf-8; foo=bar"},
		{"text/html", "text/html; charset=utf-8"},
		{"", "text/html; charset=utf-8"},
	}
	for _, tt := range tests {
		if got := withUTF8(tt.in); got != tt.want {
			t.Errorf("withUTF8(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClasses(t *testing.T) {
	doc := mustParse(t, `<html><body><div class=" a  language-idl b "></div></body></html>`)
	div := doc.FindAll(ByTag("div"))[0]

	if got := Classes(div); !slices.Equal(got, []string{"a", "language-idl", "b"}) {
		t.Errorf("Classes() = %v", got)
	}
	if !HasClass(div, "b") || HasClass(div, "language") {
		t.Error("HasClass() mismatch")
	}
	if lang, ok := ClassWithPrefix(div, "language-"); !ok || lang != "idl" {
		t.Errorf("ClassWithPrefix() = %q, %v", lang, ok)
	}
	if _, ok := ClassWithPrefix(div, "lang-"); ok {
		t.Error("ClassWithPrefix() must not match")
	}

	AddClass(div, "b", "c")
	if v, _ := Attr(div, "class"); v != "a language-idl b c" {
		t.Errorf("AddClass() = %q", v)
	}

	text := NewText("x")
	if Classes(text) != nil || HasClass(text, "a") {
		t.Error("text node has no classes")
	}
}

func TestFindAll_Snapshot(t *testing.T) {
	doc := mustParse(t, `<html><body><p class="x">1</p><p class="x">2</p></body></html>`)

	found := doc.FindAll(ByClass("x"))
	if len(found) != 2 {
		t.Fatalf("FindAll() = %d nodes", len(found))
	}
	for _, n := range found {
		Replace(n, NewElement("hr"))
	}
	if out := renderString(t, doc); !strings.Contains(out, "<body><hr/><hr/></body>") {
		t.Errorf("unexpected document: %s", out)
	}
}

func TestWrap(t *testing.T) {
	doc := mustParse(t, `<html><body><p>a</p><pre>b</pre><p>c</p></body></html>`)
	pre := doc.FindAll(ByTag("pre"))[0]

	wrapper := NewElement("div", html.Attribute{Key: "class", Val: "w"})
	Wrap(pre, wrapper)
	wrapper.AppendChild(NewElement("my-button"))

	want := `<body><p>a</p><div class="w"><pre>b</pre><my-button></my-button></div><p>c</p></body>`
	if out := renderString(t, doc); !strings.Contains(out, want) {
		t.Errorf("Wrap() result:\n%s\nwant\n%s", out, want)
	}
}

func TestReplaceChildren(t *testing.T) {
	doc := mustParse(t, `<html><body><code>old <b>text</b></code></body></html>`)
	code := doc.FindAll(ByTag("code"))[0]

	nodes, err := ParseFragment(`<span class="k">new</span> text`, "code")
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	ReplaceChildren(code, nodes)

	if got := TextContent(code); got != "new text" {
		t.Errorf("TextContent() = %q", got)
	}
	if out := renderString(t, doc); !strings.Contains(out, `<code><span class="k">new</span> text</code>`) {
		t.Errorf("unexpected document: %s", out)
	}
}

func TestClone(t *testing.T) {
	nodes, err := ParseFragment(`<svg viewBox="0 0 1 1"><path d="M0"/></svg>`, "div")
	if err != nil || len(nodes) != 1 {
		t.Fatalf("ParseFragment() = %d nodes, %v", len(nodes), err)
	}
	c := Clone(nodes[0])
	if c.Parent != nil || c == nodes[0] {
		t.Error("Clone() must be detached copy")
	}
	SetAttr(c, "viewBox", "changed")
	if v, _ := Attr(nodes[0], "viewBox"); v != "0 0 1 1" {
		t.Errorf("Clone() shares attributes: %q", v)
	}
	if c.FirstChild == nil || c.FirstChild == nodes[0].FirstChild || c.FirstChild.Data != "path" {
		t.Error("Clone() must copy children")
	}
}

func TestNewElement_CustomTag(t *testing.T) {
	n := NewElement("doxygen-awesome-fragment-copy-button", html.Attribute{Key: "title", Val: "Copy"})
	if n.DataAtom != 0 || n.Data != "doxygen-awesome-fragment-copy-button" {
		t.Errorf("NewElement() = %+v", n)
	}
	if NewElement("pre").DataAtom == 0 {
		t.Error("known tags must have atom")
	}
}
