package grammar

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"go.uber.org/multierr"
)

var (
	ErrInvalidGrammar = errors.New("invalid grammar")
	ErrNoBaseGrammar  = errors.New("base grammar is not available")
)

// probes are used to detect begin patterns which could match without
// consuming input and stall the scanner.
var probes = []string{"", "\n", " ", "x", "0", "@", "[", "{", "(", ":", "//"}

// Validate checks grammar for authoring defects: patterns which do not
// compile in the engine regex dialect, begin patterns matching empty text,
// nested rules without enclosing span end.
func Validate(g *Grammar) error {
	if g == nil {
		return fmt.Errorf("%w: nil grammar", ErrInvalidGrammar)
	}
	if len(g.Name) == 0 {
		return fmt.Errorf("%w: grammar has no name", ErrInvalidGrammar)
	}

	flags := "m"
	if g.CaseInsensitive {
		flags += "i"
	}

	var err error
	for i, r := range g.Rules {
		err = multierr.Append(err, validateRule(g.Name, fmt.Sprintf("%d", i), r, flags))
	}
	return err
}

func validateRule(lang, path string, r Rule, flags string) (err error) {
	where := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s rule %s (%s): %s", ErrInvalidGrammar, lang, path, r.Name, fmt.Sprintf(format, args...))
	}

	if len(r.Class) == 0 {
		err = multierr.Append(err, where("no class"))
	}
	if len(r.Begin) == 0 {
		return multierr.Append(err, where("no begin pattern"))
	}

	begin, er := compile(r.Begin, flags)
	if er != nil {
		return multierr.Append(err, where("begin pattern: %v", er))
	}
	for _, p := range probes {
		if zeroWidth(begin, p) {
			err = multierr.Append(err, where("begin pattern %q matches empty text", r.Begin))
			break
		}
	}

	if r.Spans() {
		if _, er := compile(r.End, flags); er != nil {
			err = multierr.Append(err, where("end pattern: %v", er))
		}
	} else if len(r.Contains) > 0 {
		err = multierr.Append(err, where("nested rules require end pattern"))
	}

	for i, c := range r.Contains {
		err = multierr.Append(err, validateRule(lang, fmt.Sprintf("%s.%d", path, i), c, flags))
	}
	return err
}

func compile(pattern, flags string) (*regexp2.Regexp, error) {
	return regexp2.Compile("(?"+flags+")(?:"+pattern+")", regexp2.RE2)
}

func zeroWidth(re *regexp2.Regexp, text string) bool {
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		if m.Length == 0 {
			return true
		}
		m, err = re.FindNextMatch(m)
	}
	return false
}
