package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// treeWriter produces indented human readable dumps.
type treeWriter struct {
	b strings.Builder
}

func (tw *treeWriter) String() string {
	return tw.b.String()
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.b.WriteString("  ")
	}
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// field writes pattern or text value quoted, empty value is left empty.
func (tw *treeWriter) field(depth int, label, value string) {
	if len(value) > 0 {
		value = strconv.Quote(value)
	}
	tw.line(depth, "%s: %s", label, value)
}

// Describe dumps grammar rule tree, used when grammars are debugged and in
// debug reports.
func Describe(g *Grammar) string {
	tw := &treeWriter{}

	sensitivity := "case sensitive"
	if g.CaseInsensitive {
		sensitivity = "case insensitive"
	}
	tw.line(0, "%s %q (%s)", g.Name, g.Title, sensitivity)
	if len(g.Base) > 0 {
		tw.line(1, "base: %s", g.Base)
	}
	if len(g.Aliases) > 0 {
		tw.line(1, "aliases: %s", strings.Join(g.Aliases, " "))
	}
	tw.line(1, "keywords (%d): %s", g.Keywords.Len(), g.Keywords)
	for _, r := range g.Rules {
		describeRule(tw, 1, r)
	}
	return tw.String()
}

func describeRule(tw *treeWriter, depth int, r Rule) {
	tw.line(depth, "rule %s [%s]", r.Name, r.Class)
	tw.field(depth+1, "begin", r.Begin)
	if r.Spans() {
		tw.field(depth+1, "end", r.End)
	}
	for _, c := range r.Contains {
		describeRule(tw, depth+1, c)
	}
}
