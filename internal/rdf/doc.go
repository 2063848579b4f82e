// Package rdf provides the RDF term types used by sparqlq queries.
//
// This package contains leaf types only. Every other internal package
// imports rdf; rdf imports nothing internal.
//
// Key design constraints:
//   - Term is sealed: Variable, IRI, BlankNode and Literal are the only kinds
//   - Canonical() is deterministic: literal lexical forms are NFC normalized
//     and there are no float constructors (use NewTyped with an explicit
//     lexical form instead)
//   - PrefixMap iteration order is insertion order, never map order
package rdf
