package rdf

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Term is a sealed interface for values that can appear in a triple pattern
// or a projection. Only Variable, IRI, BlankNode and Literal implement it.
type Term interface {
	termNode() // Sealed - only these types implement it

	// Canonical returns the canonical SPARQL text of the term.
	Canonical() string
}

// Variable is a query variable. The name excludes the leading '?'.
type Variable string

func (Variable) termNode() {}

// Wildcard is the projection marker for SELECT *.
const Wildcard Variable = "*"

// Canonical returns "?name", or "*" for the wildcard marker.
func (v Variable) Canonical() string {
	if v == Wildcard {
		return "*"
	}
	return "?" + string(v)
}

// Name returns the variable name without the '?' sigil.
func (v Variable) Name() string {
	return string(v)
}

// IRI is an absolute IRI reference.
type IRI string

func (IRI) termNode() {}

// Canonical returns the IRI in angle brackets.
func (i IRI) Canonical() string {
	return "<" + string(i) + ">"
}

// BlankNode is a blank node label. The label excludes the "_:" prefix.
type BlankNode string

func (BlankNode) termNode() {}

// Canonical returns "_:label".
func (b BlankNode) Canonical() string {
	return "_:" + string(b)
}

// Literal is an RDF literal with an optional language tag or datatype.
// Lang and Datatype are mutually exclusive; Lang wins when both are set.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

func (Literal) termNode() {}

// NewString creates a plain string literal.
func NewString(s string) Literal {
	return Literal{Lexical: s}
}

// NewLangString creates a language-tagged string literal.
func NewLangString(s, lang string) Literal {
	return Literal{Lexical: s, Lang: strings.ToLower(lang)}
}

// NewInt creates an xsd:integer literal.
func NewInt(n int64) Literal {
	return Literal{Lexical: strconv.FormatInt(n, 10), Datatype: XSDInteger}
}

// NewBool creates an xsd:boolean literal.
func NewBool(b bool) Literal {
	return Literal{Lexical: strconv.FormatBool(b), Datatype: XSDBoolean}
}

// NewTyped creates a literal with an explicit lexical form and datatype.
// Use this for decimals and doubles so the lexical form stays caller-controlled.
func NewTyped(lexical string, datatype IRI) Literal {
	return Literal{Lexical: lexical, Datatype: datatype}
}

// Canonical returns the canonical literal text. Integers and booleans use
// the SPARQL short forms; xsd:string literals drop the redundant datatype.
func (l Literal) Canonical() string {
	return l.render(func(dt IRI) string { return dt.Canonical() })
}

// RenderWith renders the literal using datatypeText for the datatype IRI.
// The compiler uses it to prefix-compact datatypes.
func (l Literal) RenderWith(datatypeText func(IRI) string) string {
	return l.render(datatypeText)
}

func (l Literal) render(datatypeText func(IRI) string) string {
	quoted := Quote(l.Lexical)
	switch {
	case l.Lang != "":
		return quoted + "@" + l.Lang
	case l.Datatype == "" || l.Datatype == XSDString:
		return quoted
	case l.Datatype == XSDInteger && isIntegerLexical(l.Lexical):
		return l.Lexical
	case l.Datatype == XSDBoolean && (l.Lexical == "true" || l.Lexical == "false"):
		return l.Lexical
	default:
		return quoted + "^^" + datatypeText(l.Datatype)
	}
}

// Quote produces a double-quoted SPARQL string with NFC normalization.
// Only backslash, quote and the \t \n \r control characters are escaped.
func Quote(s string) string {
	normalized := norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(normalized) + 2)
	b.WriteByte('"')
	for _, r := range normalized {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// isIntegerLexical reports whether s is a valid xsd:integer lexical form
// that may be written unquoted.
func isIntegerLexical(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Canonical renders any term, returning "" for a nil term.
func Canonical(t Term) string {
	if t == nil {
		return ""
	}
	return t.Canonical()
}

// IsVariable reports whether t is a variable (including the wildcard marker).
func IsVariable(t Term) bool {
	_, ok := t.(Variable)
	return ok
}
