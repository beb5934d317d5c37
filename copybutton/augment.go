// Package copybutton adds copy to clipboard button to every highlighted code
// block, markup follows doxygen-awesome fragment copy button extension.
package copybutton

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"doxyhl/config"
	"doxyhl/highlight"
	"doxyhl/page"
)

const (
	WrapperClass = "doxygen-awesome-fragment-wrapper"
	ButtonTag    = "doxygen-awesome-fragment-copy-button"
)

// Values is a struct that holds variables we make available for title
// template expansion
type Values struct {
	Language string
	Index    int
}

// Augmenter wraps highlighted blocks. Zero value is disabled augmenter.
type Augmenter struct {
	enabled bool
	title   *template.Template
	icon    []*html.Node
	log     *zap.Logger
}

// New prepares augmenter. When clipboard support is not enabled returned
// augmenter does nothing.
func New(cfg *config.CopyButtonConfig, log *zap.Logger) (*Augmenter, error) {
	a := &Augmenter{enabled: cfg.Enable, log: log.Named("copy")}
	if !a.enabled {
		return a, nil
	}

	var err error
	if a.title, err = template.New(string(config.CopyTitleTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(cfg.TitleTemplate); err != nil {
		return nil, fmt.Errorf("unable to parse copy button title template: %w", err)
	}
	if a.icon, err = page.ParseFragment(cfg.Icon, "div"); err != nil {
		return nil, fmt.Errorf("unable to parse copy button icon: %w", err)
	}
	return a, nil
}

// Augment wraps every highlighted block which has not been wrapped yet and
// returns number of added buttons.
func (a *Augmenter) Augment(doc *page.Document) int {
	if a == nil || !a.enabled {
		return 0
	}

	count := 0
	for i, code := range doc.FindAll(page.ByClass(highlight.HighlightedClass)) {
		block := blockOf(code)
		if wrapped(block) {
			continue
		}
		lang, _ := page.ClassWithPrefix(code, highlight.LanguageClassPrefix)
		title, err := a.expandTitle(Values{Language: lang, Index: i})
		if err != nil {
			a.log.Warn("Unable to expand copy button title", zap.String("language", lang), zap.Error(err))
			continue
		}

		wrapper := page.NewElement("div", html.Attribute{Key: "class", Val: WrapperClass})
		page.Wrap(block, wrapper)
		wrapper.AppendChild(a.button(title))
		count++
	}
	return count
}

// blockOf returns element to be wrapped: enclosing pre when highlighted code
// is its only element, code itself otherwise. doxygen-awesome wraps the code
// element; wrapping pre instead keeps the div out of phrasing content.
func blockOf(code *html.Node) *html.Node {
	pre := code.Parent
	if pre == nil || pre.Type != html.ElementNode || pre.Data != "pre" {
		return code
	}
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c != code && c.Type == html.ElementNode {
			return code
		}
	}
	return pre
}

func wrapped(n *html.Node) bool {
	return n.Parent != nil && page.HasClass(n.Parent, WrapperClass)
}

func (a *Augmenter) expandTitle(v Values) (string, error) {
	buf := new(bytes.Buffer)
	if err := a.title.Execute(buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (a *Augmenter) button(title string) *html.Node {
	btn := page.NewElement(ButtonTag, html.Attribute{Key: "title", Val: title})
	for _, n := range a.icon {
		btn.AppendChild(page.Clone(n))
	}
	return btn
}
