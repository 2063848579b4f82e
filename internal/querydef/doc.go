// Package querydef loads named SELECT query definitions from YAML or CUE
// files and builds them into query.Query values.
//
// Both formats share one schema:
//
//	prefixes:                       # optional, shared by every query
//	  - {prefix: ex, namespace: "http://example.org/"}
//	queries:
//	  things:
//	    prefixes: [...]              # optional, query-local
//	    select: ["?s", "?name"]      # or ["*"]
//	    where:
//	      - triple: ["?s", "a", "ex:Thing"]
//	      - optional:
//	          - triple: ["?s", "ex:name", "?name"]
//	      - union:
//	          - [{triple: ["?s", "ex:p", "?o"]}]
//	          - [{triple: ["?s", "ex:q", "?o"]}]
//	    filters:
//	      - {op: ">", left: "?age", right: 18}
//	      - {fn: "BOUND", args: ["?name"]}
//	    equals: {status: "active"}
//	    order_by: ["?name", "-?s"]
//	    options: {distinct: true, limit: 10}
//
// TERM SYNTAX:
//
//	?v / $v          variable
//	<iri>            IRI
//	prefix:local     IRI expanded through the declared prefixes plus
//	                 rdf, rdfs, xsd and owl
//	a                rdf:type
//	_:b              blank node
//	"text"           string literal ("text"@en and "1"^^xsd:int also work)
//	bare text        string literal
//	integers, bools  xsd:integer, xsd:boolean
//
// Floats are rejected: their lexical form is not stable across decoders.
//
// CUE files are evaluated first, so definitions may use CUE references,
// defaults and #schemas; only regular fields are read. Unknown fields are
// errors in both formats.
package querydef
