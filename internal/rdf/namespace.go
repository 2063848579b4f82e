package rdf

import (
	"strings"
	"unicode"
)

// Standard namespace IRIs.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
)

// Frequently used IRIs.
const (
	RDFType    IRI = NamespaceRDF + "type"
	RDFSLabel  IRI = NamespaceRDFS + "label"
	XSDString  IRI = NamespaceXSD + "string"
	XSDInteger IRI = NamespaceXSD + "integer"
	XSDDecimal IRI = NamespaceXSD + "decimal"
	XSDDouble  IRI = NamespaceXSD + "double"
	XSDBoolean IRI = NamespaceXSD + "boolean"
)

// SplitIRI splits an IRI into its namespace and local fragment.
//
// The split point is after the last '#', else after the last '/', else
// after the last ':'. An IRI with none of these returns ("", iri).
//
// Examples:
//
//	SplitIRI("http://ex.org/ns#Foo")   // "http://ex.org/ns#", "Foo"
//	SplitIRI("http://example.org/Bar") // "http://example.org/", "Bar"
//	SplitIRI("urn:isbn")               // "urn:", "isbn"
func SplitIRI(iri IRI) (namespace, fragment string) {
	s := string(iri)
	if i := strings.LastIndexByte(s, '#'); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	return "", s
}

// IsLocalName reports whether s can be written after "prefix:" without
// escaping. The empty string is allowed ("ex:" names the namespace itself).
func IsLocalName(s string) bool {
	if s == "" {
		return true
	}
	if s[0] == '-' || s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		case r > 0x7f:
			// PN_CHARS_U covers most of the non-ASCII range
		default:
			return false
		}
	}
	return true
}

// IsVarName reports whether s is a valid variable name: letters, digits,
// underscores and the few combining marks SPARQL allows after the first
// character.
func IsVarName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
		case i > 0 && (r == 0xB7 || (r >= 0x300 && r <= 0x36F) || r == 0x203F || r == 0x2040):
		default:
			return false
		}
	}
	return true
}

// IsIRIRef reports whether s can be written between angle brackets without
// escaping. Spaces, control characters and <>"{}|^`\ are excluded.
func IsIRIRef(s string) bool {
	for _, r := range s {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			return false
		}
	}
	return true
}
