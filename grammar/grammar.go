// Package grammar describes highlighting grammars as ordered trees of lexical
// rules and installs them into a highlighting engine.
//
// Grammars only classify text for presentation, they never validate the
// source they are applied to.
package grammar

import (
	"slices"
	"strings"
)

// Class is a classification tag attached to the text matched by a rule.
type Class string

const (
	ClassComment   Class = "comment"
	ClassDoc       Class = "doc"
	ClassType      Class = "type"
	ClassAttribute Class = "attribute"
	ClassLiteral   Class = "literal"
	ClassReference Class = "reference"
	ClassKeyword   Class = "keyword"
	ClassString    Class = "string"
	ClassVariable  Class = "variable"
	ClassNumber    Class = "number"
)

// Rule is a single lexical rule. When End is empty the rule classifies
// exactly the text matched by Begin, otherwise it opens a span which lasts
// until End matches. Rules in Contains are only active inside the span.
type Rule struct {
	Name     string
	Class    Class
	Begin    string
	End      string
	Contains []Rule
}

// Spans reports whether rule opens a span rather than classifying single match.
func (r Rule) Spans() bool {
	return len(r.End) > 0
}

// KeywordSet is a flat set of reserved words. Zero value is an empty set.
type KeywordSet struct {
	words []string // sorted, unique
}

func NewKeywordSet(words ...string) KeywordSet {
	return KeywordSet{}.Union(words...)
}

// ParseKeywords builds set from space separated list.
func ParseKeywords(list string) KeywordSet {
	return NewKeywordSet(strings.Fields(list)...)
}

// Union returns new set containing words from both k and words, k is never
// modified.
func (k KeywordSet) Union(words ...string) KeywordSet {
	out := make([]string, 0, len(k.words)+len(words))
	out = append(out, k.words...)
	for _, w := range words {
		if len(w) > 0 {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return KeywordSet{words: slices.Compact(out)}
}

func (k KeywordSet) Contains(word string) bool {
	_, found := slices.BinarySearch(k.words, word)
	return found
}

func (k KeywordSet) Len() int {
	return len(k.words)
}

// Words returns copy of the set content in sorted order.
func (k KeywordSet) Words() []string {
	return slices.Clone(k.words)
}

func (k KeywordSet) String() string {
	return strings.Join(k.words, " ")
}

// Grammar is a named, ordered set of lexical rules for a single language.
// Once handed to an engine it must not be modified.
type Grammar struct {
	// Name is unique language identifier, used in "language-<name>" classes.
	Name            string
	Title           string
	Aliases         []string
	CaseInsensitive bool
	Keywords        KeywordSet
	Rules           []Rule
	// Base names grammar this one was derived from, empty for standalone
	// grammars.
	Base string
}

// Derive produces new grammar which shares rule table, case sensitivity and
// aliases with base and extends its keywords. base is not modified.
func Derive(base *Grammar, name, title string, keywords ...string) *Grammar {
	return &Grammar{
		Name:            name,
		Title:           title,
		Aliases:         slices.Clone(base.Aliases),
		CaseInsensitive: base.CaseInsensitive,
		Keywords:        base.Keywords.Union(keywords...),
		Rules:           slices.Clone(base.Rules),
		Base:            base.Name,
	}
}

// Toolkit gives grammar factories access to languages already known to the
// engine.
type Toolkit interface {
	Language(name string) (*Grammar, bool)
}

// Factory builds grammar definition, it is called by the engine when language
// is being registered.
type Factory func(tk Toolkit) (*Grammar, error)

// Registrar is implemented by engines which could install custom grammars.
type Registrar interface {
	Toolkit
	RegisterLanguage(name string, factory Factory) error
}
