package grammar

import (
	"strings"
	"testing"
)

func TestTreeWriter(t *testing.T) {
	tests := []struct {
		name  string
		write func(tw *treeWriter)
		want  string
	}{
		{
			name:  "no depth",
			write: func(tw *treeWriter) { tw.line(0, "test") },
			want:  "test\n",
		},
		{
			name:  "with formatting",
			write: func(tw *treeWriter) { tw.line(2, "value: %d", 42) },
			want:  "    value: 42\n",
		},
		{
			name:  "empty field",
			write: func(tw *treeWriter) { tw.field(0, "end", "") },
			want:  "end: \n",
		},
		{
			name:  "quoted field",
			write: func(tw *treeWriter) { tw.field(1, "end", `(?=\n|$)`) },
			want:  "  end: \"(?=\\\\n|$)\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := &treeWriter{}
			tt.write(tw)
			if got := tw.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	g, _ := IDL(nil)
	got := Describe(g)

	for _, want := range []string{
		"idl \"IDL\" (case sensitive)\n",
		"  keywords (14): api arg callback",
		"  rule attribute [attribute]\n    begin: \"\\\\[\"\n    end: \"\\\\]\"\n    rule attribute-literal [literal]\n",
		"  rule fenced-doc [doc]\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Describe() does not contain %q:\n%s", want, got)
		}
	}

	ext := Describe(Derive(CMake(), CMakeExtName, "CMakeExt", CMakeExtKeyword))
	for _, want := range []string{"(case insensitive)", "  base: cmake\n", "  aliases: cmake.txt\n"} {
		if !strings.Contains(ext, want) {
			t.Errorf("Describe() does not contain %q:\n%s", want, ext)
		}
	}
}
