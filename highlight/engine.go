// Package highlight is highlighting engine built on top of chroma. Besides
// chroma's own lexers it hosts grammars described by package grammar and
// rewrites code blocks of parsed pages into classified spans.
package highlight

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"go.uber.org/zap"

	"doxyhl/config"
	"doxyhl/grammar"
)

// Engine keeps language table and renders code blocks. It implements
// grammar.Registrar.
type Engine struct {
	mu       sync.RWMutex
	grammars map[string]*grammar.Grammar
	lexers   map[string]chroma.Lexer
	aliases  map[string]string

	style     *chroma.Style
	formatter *chromahtml.Formatter
	prefix    string
	log       *zap.Logger
}

// New creates engine with stock languages only.
func New(cfg *config.HighlightConfig, log *zap.Logger) (*Engine, error) {
	e := &Engine{
		grammars: make(map[string]*grammar.Grammar),
		lexers:   make(map[string]chroma.Lexer),
		aliases:  make(map[string]string),
		style:    styles.Get(cfg.Style),
		prefix:   cfg.ClassPrefix,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
			chromahtml.ClassPrefix(cfg.ClassPrefix),
			chromahtml.TabWidth(cfg.TabWidth),
		),
		log: log.Named("highlight"),
	}
	if e.style.Name != cfg.Style {
		e.log.Warn("Unknown style requested, using fallback", zap.String("requested", cfg.Style), zap.String("style", e.style.Name))
	}

	if err := e.install(grammar.CMake()); err != nil {
		return nil, err
	}
	return e, nil
}

// Language returns grammar installed under name or alias.
func (e *Engine) Language(name string) (*grammar.Grammar, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	g, ok := e.grammars[e.resolve(name)]
	return g, ok
}

// RegisterLanguage builds grammar with factory and installs it under name,
// replacing whatever was there before.
func (e *Engine) RegisterLanguage(name string, factory grammar.Factory) error {
	g, err := factory(e)
	if err != nil {
		return err
	}
	if g.Name != name {
		// name it was registered under wins
		named := *g
		named.Name = name
		g = &named
	}
	return e.install(g)
}

func (e *Engine) install(g *grammar.Grammar) error {
	if err := grammar.Validate(g); err != nil {
		return err
	}
	lexer, err := compile(g)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.grammars[g.Name] = g
	e.lexers[g.Name] = lexer
	for _, a := range g.Aliases {
		e.aliases[strings.ToLower(a)] = g.Name
	}
	return nil
}

// must be called under lock
func (e *Engine) resolve(name string) string {
	if _, ok := e.grammars[name]; ok {
		return name
	}
	if n, ok := e.aliases[strings.ToLower(name)]; ok {
		return n
	}
	return name
}

// Languages lists names of hosted grammars.
func (e *Engine) Languages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.grammars))
	for n := range e.grammars {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lexer returns lexer for language: hosted grammars first, chroma's own
// lexers next. nil when language is unknown.
func (e *Engine) Lexer(name string) chroma.Lexer {
	e.mu.RLock()
	l, ok := e.lexers[e.resolve(name)]
	e.mu.RUnlock()
	if ok {
		return l
	}
	if l = lexers.Get(name); l != nil {
		return chroma.Coalesce(l)
	}
	return nil
}

// Tokenise classifies text as language.
func (e *Engine) Tokenise(name, text string) ([]chroma.Token, error) {
	lexer := e.Lexer(name)
	if lexer == nil {
		return nil, fmt.Errorf("unknown language %q", name)
	}
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenise %s: %w", name, err)
	}
	tokens := it.Tokens()

	// some stock lexers terminate input with new line, do not let it leak into the page
	if !strings.HasSuffix(text, "\n") && len(tokens) > 0 {
		last := &tokens[len(tokens)-1]
		last.Value = strings.TrimSuffix(last.Value, "\n")
		if len(last.Value) == 0 {
			tokens = tokens[:len(tokens)-1]
		}
	}
	return tokens, nil
}

// WriteCSS writes stylesheet for configured style.
func (e *Engine) WriteCSS(w io.Writer) error {
	return e.formatter.WriteCSS(w, e.style)
}
