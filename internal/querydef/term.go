package querydef

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/sparqlq/internal/rdf"
)

// ParseTerm converts a decoded scalar into an RDF term.
//
// Strings follow the term syntax described in the package documentation.
// Integers become xsd:integer and booleans xsd:boolean literals. Floats and
// every other type are rejected.
func ParseTerm(v any, prefixes *rdf.PrefixMap) (rdf.Term, error) {
	switch value := v.(type) {
	case string:
		return parseStringTerm(value, prefixes)
	case bool:
		return rdf.NewBool(value), nil
	case int:
		return rdf.NewInt(int64(value)), nil
	case int64:
		return rdf.NewInt(value), nil
	case uint64:
		return rdf.NewTyped(strconv.FormatUint(value, 10), rdf.XSDInteger), nil
	case float64:
		return nil, newLoadError(ErrCodeInvalidTerm, "float %v is not supported; quote it with a datatype instead", value)
	case nil:
		return nil, newLoadError(ErrCodeInvalidTerm, "missing term")
	default:
		return nil, newLoadError(ErrCodeInvalidTerm, "unsupported term type %T", v)
	}
}

func parseStringTerm(s string, prefixes *rdf.PrefixMap) (rdf.Term, error) {
	switch {
	case s == "":
		return nil, newLoadError(ErrCodeInvalidTerm, "empty term")
	case s == "*":
		return rdf.Wildcard, nil
	case s == "a":
		return rdf.RDFType, nil
	case s[0] == '?' || s[0] == '$':
		name := s[1:]
		if !rdf.IsVarName(name) {
			return nil, newLoadError(ErrCodeInvalidTerm, "invalid variable %q", s)
		}
		return rdf.Variable(name), nil
	case strings.HasPrefix(s, "<"):
		if !strings.HasSuffix(s, ">") || len(s) < 3 {
			return nil, newLoadError(ErrCodeInvalidTerm, "unterminated IRI %q", s)
		}
		iri := s[1 : len(s)-1]
		if !rdf.IsIRIRef(iri) {
			return nil, newLoadError(ErrCodeInvalidTerm, "invalid character in IRI %q", s)
		}
		return rdf.IRI(iri), nil
	case strings.HasPrefix(s, "_:"):
		if len(s) == 2 {
			return nil, newLoadError(ErrCodeInvalidTerm, "blank node %q has no label", s)
		}
		return rdf.BlankNode(s[2:]), nil
	case s[0] == '"':
		return parseQuotedLiteral(s, prefixes)
	}

	if !strings.ContainsAny(s, " \t\n") {
		if iri, ok := expand(s, prefixes); ok {
			if !rdf.IsIRIRef(string(iri)) {
				return nil, newLoadError(ErrCodeInvalidTerm, "%q expands to invalid IRI <%s>", s, iri)
			}
			return iri, nil
		}
	}
	return rdf.NewString(s), nil
}

// parseQuotedLiteral handles "text", "text"@lang and "text"^^datatype.
func parseQuotedLiteral(s string, prefixes *rdf.PrefixMap) (rdf.Term, error) {
	end := strings.LastIndexByte(s, '"')
	if end == 0 {
		return nil, newLoadError(ErrCodeInvalidTerm, "unterminated literal %s", s)
	}
	lexical, err := strconv.Unquote(s[:end+1])
	if err != nil {
		return nil, newLoadError(ErrCodeInvalidTerm, "invalid literal %s: %v", s, err)
	}

	suffix := s[end+1:]
	switch {
	case suffix == "":
		return rdf.NewString(lexical), nil
	case strings.HasPrefix(suffix, "@") && len(suffix) > 1:
		return rdf.NewLangString(lexical, suffix[1:]), nil
	case strings.HasPrefix(suffix, "^^"):
		datatype, err := parseStringTerm(suffix[2:], prefixes)
		if err != nil {
			return nil, err
		}
		iri, ok := datatype.(rdf.IRI)
		if !ok {
			return nil, newLoadError(ErrCodeInvalidTerm, "datatype of %s is not an IRI", s)
		}
		return rdf.NewTyped(lexical, iri), nil
	default:
		return nil, newLoadError(ErrCodeInvalidTerm, "unexpected %q after literal", suffix)
	}
}

// expand resolves prefix:local against the declared prefixes, then the
// standard ones.
func expand(pname string, prefixes *rdf.PrefixMap) (rdf.IRI, bool) {
	if !strings.Contains(pname, ":") {
		return "", false
	}
	if iri, ok := prefixes.Expand(pname); ok {
		return iri, true
	}
	return standard.Expand(pname)
}

var standard = rdf.StandardPrefixes()

func describe(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%v", v)
}
