package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"

	"doxyhl/grammar"
)

var classTokens = map[grammar.Class]chroma.TokenType{
	grammar.ClassComment:   chroma.CommentSingle,
	grammar.ClassDoc:       chroma.CommentSpecial,
	grammar.ClassType:      chroma.KeywordType,
	grammar.ClassAttribute: chroma.NameAttribute,
	grammar.ClassLiteral:   chroma.LiteralNumber,
	grammar.ClassReference: chroma.NameConstant,
	grammar.ClassKeyword:   chroma.Keyword,
	grammar.ClassString:    chroma.LiteralString,
	grammar.ClassVariable:  chroma.NameVariable,
	grammar.ClassNumber:    chroma.LiteralNumber,
}

// TokenType returns chroma token type used to render class.
func TokenType(c grammar.Class) chroma.TokenType {
	if t, ok := classTokens[c]; ok {
		return t
	}
	return chroma.Name
}

// compile turns grammar into chroma lexer. Every spanning rule gets its own
// state: span end is tried first, then nested rules, anything else inside the
// span is classified as the span itself. Root state tries grammar rules in
// order, then keywords.
func compile(g *grammar.Grammar) (chroma.Lexer, error) {
	rules := chroma.Rules{}

	root := make([]chroma.Rule, 0, len(g.Rules)+4)
	for i, r := range g.Rules {
		root = append(root, enter(rules, fmt.Sprintf("span-%d", i), r))
	}
	if g.Keywords.Len() > 0 {
		root = append(root, chroma.Rule{Pattern: chroma.Words(`\b`, `\b`, g.Keywords.Words()...), Type: chroma.Keyword})
	}
	root = append(root,
		chroma.Rule{Pattern: `\w+`, Type: chroma.Name},
		chroma.Rule{Pattern: `\s+`, Type: chroma.TextWhitespace},
		chroma.Rule{Pattern: `.`, Type: chroma.Text},
	)
	rules["root"] = root

	aliases := append([]string{g.Name}, g.Aliases...)
	lexer, err := chroma.NewLexer(&chroma.Config{
		Name:            g.Title,
		Aliases:         aliases,
		CaseInsensitive: g.CaseInsensitive,
	}, func() chroma.Rules { return rules })
	if err != nil {
		return nil, fmt.Errorf("unable to compile grammar %q: %w", g.Name, err)
	}
	return chroma.Coalesce(lexer), nil
}

// enter returns rule matching r in enclosing state, adding states for r spans
// to rules.
func enter(rules chroma.Rules, state string, r grammar.Rule) chroma.Rule {
	tt := TokenType(r.Class)
	if !r.Spans() {
		return chroma.Rule{Pattern: r.Begin, Type: tt}
	}

	inner := make([]chroma.Rule, 0, len(r.Contains)+2)
	inner = append(inner, chroma.Rule{Pattern: r.End, Type: tt, Mutator: chroma.Pop(1)})
	for i, c := range r.Contains {
		inner = append(inner, enter(rules, fmt.Sprintf("%s.%d", state, i), c))
	}
	inner = append(inner, chroma.Rule{Pattern: `[\s\S]`, Type: tt})
	rules[state] = inner

	return chroma.Rule{Pattern: r.Begin, Type: tt, Mutator: chroma.Push(state)}
}
