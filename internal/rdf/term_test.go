package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermSealed(t *testing.T) {
	// Verify all types implement Term (compile-time check via assignment)
	var _ Term = Variable("x")
	var _ Term = IRI("http://example.org/")
	var _ Term = BlankNode("b0")
	var _ Term = Literal{Lexical: "x"}
}

func TestCanonical(t *testing.T) {
	testCases := []struct {
		name string
		term Term
		want string
	}{
		{"variable", Variable("s"), "?s"},
		{"wildcard", Wildcard, "*"},
		{"iri", IRI("http://example.org/Thing"), "<http://example.org/Thing>"},
		{"blank node", BlankNode("b1"), "_:b1"},
		{"plain string", NewString("hello"), `"hello"`},
		{"xsd string drops datatype", NewTyped("hello", XSDString), `"hello"`},
		{"lang string", NewLangString("chat", "FR"), `"chat"@fr`},
		{"integer", NewInt(42), "42"},
		{"negative integer", NewInt(-7), "-7"},
		{"boolean", NewBool(true), "true"},
		{"decimal", NewTyped("1.50", XSDDecimal), `"1.50"^^<http://www.w3.org/2001/XMLSchema#decimal>`},
		{"malformed integer stays quoted", NewTyped("12a", XSDInteger), `"12a"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"nil", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Canonical(tc.term))
		})
	}
}

func TestQuoteEscapes(t *testing.T) {
	assert.Equal(t, `"a\"b\\c\nd\te\r"`, Quote("a\"b\\c\nd\te\r"))
}

func TestQuoteNFCNormalizes(t *testing.T) {
	// "e" + combining acute accent (NFD) must render as precomposed U+00E9
	decomposed := "cafe\u0301"
	assert.Equal(t, "\"caf\u00e9\"", Quote(decomposed))
}

func TestLiteralRenderWith(t *testing.T) {
	lit := NewTyped("1.5", XSDDecimal)
	got := lit.RenderWith(func(dt IRI) string { return "xsd:decimal" })
	assert.Equal(t, `"1.5"^^xsd:decimal`, got)
}

func TestIsVariable(t *testing.T) {
	assert.True(t, IsVariable(Variable("x")))
	assert.True(t, IsVariable(Wildcard))
	assert.False(t, IsVariable(IRI("http://example.org/")))
	assert.False(t, IsVariable(NewString("x")))
	assert.False(t, IsVariable(nil))
}
