package grammar

const IDLName = "idl"

const idlKeywords = "api enum const struct field interface method arg prop event handle func callback import"

// Documentation text may reference types in braces and attributes in brackets.
var docSpans = []Rule{
	{Name: "doc-type", Class: ClassType, Begin: `\{`, End: `\}`},
	{Name: "doc-attribute", Class: ClassAttribute, Begin: `\[`, End: `\]`},
}

// Literals stop at the end of line or where documentation or attribute starts.
const literalEnd = `(?=\n|$|@|\[)`

// IDL builds grammar for idlc interface definition language. Order of rules is
// significant: fenced documentation must be tried before inline one and
// bracket and brace spans before colon literals.
func IDL(Toolkit) (*Grammar, error) {
	return &Grammar{
		Name:     IDLName,
		Title:    "IDL",
		Keywords: ParseKeywords(idlKeywords),
		Rules: []Rule{
			{Name: "comment", Class: ClassComment, Begin: `//`, End: `(?=\n|$)`},
			{Name: "fenced-doc", Class: ClassDoc, Begin: "@\\s*```", End: "```", Contains: docSpans},
			{Name: "doc", Class: ClassDoc, Begin: `@\s*(\w+)?`, End: `(?=\n|$)`, Contains: docSpans},
			{Name: "type", Class: ClassType, Begin: `\{`, End: `\}`},
			{Name: "attribute", Class: ClassAttribute, Begin: `\[`, End: `\]`, Contains: []Rule{
				{Name: "attribute-literal", Class: ClassLiteral, Begin: `\(\s*\d+`, End: `\)`},
				{Name: "attribute-reference", Class: ClassReference, Begin: `\(\s*\w+`, End: `\)`},
			}},
			{Name: "literal", Class: ClassLiteral, Begin: `:\s*\d+`, End: literalEnd},
			{Name: "reference", Class: ClassReference, Begin: `:\s*\w+`, End: literalEnd},
		},
	}, nil
}
