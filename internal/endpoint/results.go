package endpoint

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/sparqlq/internal/rdf"
)

// ResultSet is a decoded SELECT result.
type ResultSet struct {
	// Vars lists the result variables in header order, without "?".
	Vars []string

	// Rows holds one solution per entry.
	Rows []Row
}

// Row maps variable names to bound terms. Unbound variables are absent.
type Row map[string]rdf.Term

// Table renders the rows as canonical term text in Vars order. Unbound
// cells are empty.
func (rs *ResultSet) Table() [][]string {
	table := make([][]string, len(rs.Rows))
	for i, row := range rs.Rows {
		cells := make([]string, len(rs.Vars))
		for j, v := range rs.Vars {
			cells[j] = rdf.Canonical(row[v])
		}
		table[i] = cells
	}
	return table
}

// sparqlJSON is the application/sparql-results+json document shape.
type sparqlJSON struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []map[string]sparqlTerm `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean"`
}

type sparqlTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang"`
	Datatype string `json:"datatype"`
}

// ParseResults decodes a SPARQL 1.1 JSON results document.
//
// Term types uri, literal (with xml:lang or datatype), typed-literal and
// bnode are supported. ASK documents are rejected.
func ParseResults(data []byte) (*ResultSet, error) {
	var doc sparqlJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	if doc.Boolean != nil {
		return nil, fmt.Errorf("decode results: boolean (ASK) results are not supported")
	}
	if doc.Results == nil {
		return nil, fmt.Errorf("decode results: missing results")
	}

	rs := &ResultSet{
		Vars: append([]string{}, doc.Head.Vars...),
		Rows: make([]Row, 0, len(doc.Results.Bindings)),
	}
	for i, binding := range doc.Results.Bindings {
		row := make(Row, len(binding))
		for name, t := range binding {
			term, err := decodeTerm(t)
			if err != nil {
				return nil, fmt.Errorf("decode results: row %d ?%s: %w", i, name, err)
			}
			row[name] = term
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, nil
}

func decodeTerm(t sparqlTerm) (rdf.Term, error) {
	switch t.Type {
	case "uri":
		return rdf.IRI(t.Value), nil
	case "bnode":
		return rdf.BlankNode(t.Value), nil
	case "literal", "typed-literal":
		switch {
		case t.Lang != "":
			return rdf.NewLangString(t.Value, t.Lang), nil
		case t.Datatype != "":
			return rdf.NewTyped(t.Value, rdf.IRI(t.Datatype)), nil
		case t.Type == "typed-literal":
			return nil, fmt.Errorf("typed-literal without datatype")
		default:
			return rdf.NewString(t.Value), nil
		}
	default:
		return nil, fmt.Errorf("unknown term type %q", t.Type)
	}
}
