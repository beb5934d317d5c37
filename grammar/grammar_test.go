package grammar

import (
	"errors"
	"slices"
	"testing"
)

func TestKeywordSet(t *testing.T) {
	k := ParseKeywords("  struct enum\tstruct  api\n")
	if got, want := k.Words(), []string{"api", "enum", "struct"}; !slices.Equal(got, want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
	if !k.Contains("enum") || k.Contains("Enum") || k.Contains("") {
		t.Errorf("Contains() mismatch for %v", k)
	}
	if k.String() != "api enum struct" {
		t.Errorf("String() = %q", k.String())
	}

	u := k.Union("zeta", "api", "")
	if u.Len() != 4 || !u.Contains("zeta") {
		t.Errorf("Union() = %v", u)
	}
	if k.Len() != 3 || k.Contains("zeta") {
		t.Errorf("Union() modified receiver: %v", k)
	}

	var zero KeywordSet
	if zero.Len() != 0 || zero.Contains("x") || len(zero.Words()) != 0 {
		t.Errorf("zero value is not empty set")
	}
}

func TestKeywordSet_WordsIsCopy(t *testing.T) {
	k := NewKeywordSet("a", "b")
	w := k.Words()
	w[0] = "z"
	if !k.Contains("a") {
		t.Error("Words() exposes internal storage")
	}
}

func TestDerive(t *testing.T) {
	base := CMake()
	baseWords := base.Keywords.Len()

	ext := Derive(base, CMakeExtName, "CMakeExt", CMakeExtKeyword)

	if ext.Name != CMakeExtName || ext.Base != CMakeName {
		t.Errorf("Derive() name/base = %q/%q", ext.Name, ext.Base)
	}
	if ext.Keywords.Len() != baseWords+1 || !ext.Keywords.Contains(CMakeExtKeyword) {
		t.Errorf("Derive() keywords len = %d, want %d", ext.Keywords.Len(), baseWords+1)
	}
	for _, w := range base.Keywords.Words() {
		if !ext.Keywords.Contains(w) {
			t.Errorf("derived grammar lost keyword %q", w)
		}
	}
	if base.Keywords.Len() != baseWords || base.Keywords.Contains(CMakeExtKeyword) {
		t.Error("Derive() modified base grammar")
	}
	if ext.CaseInsensitive != base.CaseInsensitive || !slices.Equal(ext.Aliases, base.Aliases) {
		t.Error("Derive() must keep case sensitivity and aliases")
	}
	if len(ext.Rules) != len(base.Rules) {
		t.Fatalf("Derive() rules = %d, want %d", len(ext.Rules), len(base.Rules))
	}
	for i := range ext.Rules {
		if ext.Rules[i].Name != base.Rules[i].Name || ext.Rules[i].Begin != base.Rules[i].Begin {
			t.Errorf("rule %d differs: %+v vs %+v", i, ext.Rules[i], base.Rules[i])
		}
	}

	// deriving again from the same base gives the same result
	again := Derive(base, CMakeExtName, "CMakeExt", CMakeExtKeyword)
	if again.Keywords.Len() != baseWords+1 {
		t.Errorf("second Derive() keywords len = %d, want %d", again.Keywords.Len(), baseWords+1)
	}
}

func TestIDL(t *testing.T) {
	g, err := IDL(nil)
	if err != nil {
		t.Fatalf("IDL() error = %v", err)
	}
	if g.CaseInsensitive {
		t.Error("IDL must be case sensitive")
	}
	if g.Keywords.Len() != 14 {
		t.Errorf("IDL keywords = %d (%v), want 14", g.Keywords.Len(), g.Keywords)
	}

	want := []struct {
		name  string
		class Class
		begin string
		end   string
	}{
		{"comment", ClassComment, `//`, `(?=\n|$)`},
		{"fenced-doc", ClassDoc, "@\\s*```", "```"},
		{"doc", ClassDoc, `@\s*(\w+)?`, `(?=\n|$)`},
		{"type", ClassType, `\{`, `\}`},
		{"attribute", ClassAttribute, `\[`, `\]`},
		{"literal", ClassLiteral, `:\s*\d+`, `(?=\n|$|@|\[)`},
		{"reference", ClassReference, `:\s*\w+`, `(?=\n|$|@|\[)`},
	}
	if len(g.Rules) != len(want) {
		t.Fatalf("IDL rules = %d, want %d", len(g.Rules), len(want))
	}
	for i, w := range want {
		r := g.Rules[i]
		if r.Name != w.name || r.Class != w.class || r.Begin != w.begin || r.End != w.end {
			t.Errorf("rule %d = {%s %s %q %q}, want {%s %s %q %q}", i, r.Name, r.Class, r.Begin, r.End, w.name, w.class, w.begin, w.end)
		}
	}
	if n := len(g.Rules[4].Contains); n != 2 {
		t.Errorf("attribute nested rules = %d, want 2", n)
	}
}

type toolkit map[string]*Grammar

func (tk toolkit) Language(name string) (*Grammar, bool) {
	g, ok := tk[name]
	return g, ok
}

func TestCMakeExt(t *testing.T) {
	g, err := CMakeExt(toolkit{CMakeName: CMake()})
	if err != nil {
		t.Fatalf("CMakeExt() error = %v", err)
	}
	if !g.Keywords.Contains("idlc_compile") || !g.Keywords.Contains("add_library") {
		t.Errorf("CMakeExt() keywords = %v", g.Keywords)
	}
	if !g.CaseInsensitive {
		t.Error("CMakeExt() must inherit case insensitivity")
	}

	if _, err := CMakeExt(toolkit{}); !errors.Is(err, ErrNoBaseGrammar) {
		t.Errorf("CMakeExt() without base error = %v, want ErrNoBaseGrammar", err)
	}
}
