// Package querysparql compiles query.Query values to SPARQL 1.1 SELECT text.
//
// The compiler is the backend for the pattern model in package query:
//
//	[rdf terms + expr] → [query.Query] → [SPARQLCompiler] → text
//	                                                      → endpoint / store
//
// OUTPUT SHAPE:
//
//	PREFIX ex: <http://example.org/>
//	SELECT DISTINCT ?s
//	WHERE { ?s a ex:Thing . } ORDER BY ?s LIMIT 10
//
// Prefix lines come first in PrefixMap insertion order. The SELECT line
// carries the DISTINCT/REDUCED modifier and the projection (* for the
// wildcard or an empty projection). Solution modifiers follow the WHERE
// block. Compact mode (the default) writes the WHERE block on one line;
// setting Indent pretty-prints nested blocks.
//
// TERM RENDERING:
//
// IRIs are split into namespace and fragment. A mapped namespace with a
// fragment that is a valid local name renders as prefix:fragment; anything
// else falls back to <iri>. rdf:type in predicate position renders as "a".
// Literal datatypes are compacted by the same rule.
//
// DETERMINISM:
//
// For a fixed Query and PrefixMap the output is byte-identical across calls.
// All mutable state (the namespaces used) lives in a per-call compilation,
// so one SPARQLCompiler may be shared across goroutines.
package querysparql
