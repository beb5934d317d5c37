package grammar

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Stock(t *testing.T) {
	idl, _ := IDL(nil)
	ext, _ := CMakeExt(toolkit{CMakeName: CMake()})

	for _, g := range []*Grammar{idl, CMake(), ext} {
		t.Run(g.Name, func(t *testing.T) {
			if err := Validate(g); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidate_Defects(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		want  string
	}{
		{
			name:  "bad begin",
			rules: []Rule{{Name: "r", Class: ClassType, Begin: `(`}},
			want:  "begin pattern",
		},
		{
			name:  "bad end",
			rules: []Rule{{Name: "r", Class: ClassType, Begin: `\{`, End: `[`}},
			want:  "end pattern",
		},
		{
			name:  "empty begin",
			rules: []Rule{{Name: "r", Class: ClassType}},
			want:  "no begin pattern",
		},
		{
			name:  "zero width begin",
			rules: []Rule{{Name: "r", Class: ClassType, Begin: `\d*`}},
			want:  "matches empty text",
		},
		{
			name:  "lookahead begin",
			rules: []Rule{{Name: "r", Class: ClassType, Begin: `(?=\n|$)`}},
			want:  "matches empty text",
		},
		{
			name:  "no class",
			rules: []Rule{{Name: "r", Begin: `x`}},
			want:  "no class",
		},
		{
			name: "nested without end",
			rules: []Rule{{Name: "r", Class: ClassType, Begin: `x`, Contains: []Rule{
				{Name: "n", Class: ClassType, Begin: `y`},
			}}},
			want: "nested rules require end pattern",
		},
		{
			name: "defect in nested rule",
			rules: []Rule{{Name: "r", Class: ClassType, Begin: `x`, End: `y`, Contains: []Rule{
				{Name: "n", Class: ClassType, Begin: `a*`},
			}}},
			want: "rule 0.0 (n)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&Grammar{Name: "test", Rules: tt.rules})
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if !errors.Is(err, ErrInvalidGrammar) {
				t.Errorf("Validate() error = %v, want ErrInvalidGrammar", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsAllDefects(t *testing.T) {
	err := Validate(&Grammar{Name: "test", Rules: []Rule{
		{Name: "a", Class: ClassType, Begin: `(`},
		{Name: "b", Class: ClassType, Begin: `x*`},
	}})
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	for _, want := range []string{"(a)", "(b)"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %v, missing %s", err, want)
		}
	}
}

func TestValidate_Nameless(t *testing.T) {
	if err := Validate(&Grammar{}); !errors.Is(err, ErrInvalidGrammar) {
		t.Errorf("Validate() error = %v", err)
	}
	if err := Validate(nil); !errors.Is(err, ErrInvalidGrammar) {
		t.Errorf("Validate(nil) error = %v", err)
	}
}
