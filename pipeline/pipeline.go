// Package pipeline runs page processing stages in their fixed order:
// grammars registration, fragments classification, highlighting and copy
// buttons.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"doxyhl/config"
	"doxyhl/copybutton"
	"doxyhl/fragment"
	"doxyhl/grammar"
	"doxyhl/page"
)

// Highlighter is implemented by engines able to highlight code blocks in
// place.
type Highlighter interface {
	HighlightAll(doc *page.Document) int
}

// Stats describes what has been done to a single page.
type Stats struct {
	Fragments   int
	Skipped     int
	Highlighted int
	Buttons     int
}

// Changed reports whether page was modified.
func (s Stats) Changed() bool {
	return s.Fragments > 0 || s.Highlighted > 0 || s.Buttons > 0
}

// Pipeline is prepared once and then used for any number of pages.
type Pipeline struct {
	engine    any
	registry  *grammar.Registry
	buttons   *copybutton.Augmenter
	fragments bool
	prepared  bool
	log       *zap.Logger
}

// New creates pipeline over engine. Engine capabilities (grammar.Registrar,
// Highlighter) are discovered at run time, missing ones disable dependent
// stages.
func New(engine any, cfg *config.DocumentConfig, log *zap.Logger) (*Pipeline, error) {
	buttons, err := copybutton.New(&cfg.CopyButton, log)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		engine:    engine,
		registry:  grammar.NewRegistry(engine, log),
		buttons:   buttons,
		fragments: cfg.Fragments.Enable,
		log:       log.Named("pipeline"),
	}, nil
}

// Prepare registers custom grammars, it is safe to call more than once.
func (p *Pipeline) Prepare() error {
	if p.prepared {
		return nil
	}
	if err := p.registry.RegisterAll(); err != nil {
		return fmt.Errorf("unable to register grammars: %w", err)
	}
	p.prepared = true
	return nil
}

// Run processes single page in place. Running it again over the same
// document does nothing.
func (p *Pipeline) Run(ctx context.Context, doc *page.Document) (Stats, error) {
	var st Stats
	if err := ctx.Err(); err != nil {
		return st, err
	}
	if err := p.Prepare(); err != nil {
		return st, err
	}

	if p.fragments {
		res := fragment.Classify(doc, p.log)
		st.Fragments, st.Skipped = len(res.Blocks), res.Skipped
	}

	if h, ok := p.engine.(Highlighter); ok {
		st.Highlighted = h.HighlightAll(doc)
	} else {
		p.log.Debug("Engine cannot highlight, skipping")
	}

	st.Buttons = p.buttons.Augment(doc)
	return st, nil
}
