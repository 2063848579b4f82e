// Package query provides the immutable SPARQL SELECT query model.
//
// A Query is built from terms (package rdf), triple patterns, nested graph
// patterns and constraint expressions (package expr), then handed to the
// compiler in package querysparql for serialization.
//
// ARCHITECTURE:
//
//	[builder calls] → [Query + Group/Union tree] → [querysparql.Compile] → text
//
// SEALED INTERFACES:
//
// Pattern and GraphPattern are sealed interfaces using the marker method
// pattern. The closed set of pattern kinds is:
//
//	Triple   - one "s p o ." line
//	*Group   - ordered children + filters, optionally rendered as OPTIONAL
//	*Union   - alternatives rendered as "{ A } UNION { B }"
//
// This enables exhaustive type switches in the compiler and makes a pattern
// tree containing anything else a compile-time error rather than a
// serialization-time surprise.
//
// COPY-ON-WRITE:
//
// Every Query builder method returns a new *Query. Untouched sub-trees are
// shared between the old and new values; only the root Group spine is
// cloned. Groups and Unions are published (frozen, recursively) when they
// are attached to a Query. Group.Add and Group.Filter mutate in place and
// panic on a published Group: call Clone first.
//
// Example:
//
//	base, err := query.New(
//	    query.WithProjection(rdf.Variable("s")),
//	    query.WithPatterns(query.NewTriple(rdf.Variable("s"), rdf.RDFType, ex("Thing"))),
//	)
//	page := base.Distinct(true).Limit(10) // base is unchanged
//
// CONSTRUCTION ERRORS:
//
// New, NewFromOptions and Slice return *ConstructionError for invalid
// requests (DISTINCT and REDUCED together, unknown options, non-unit slice
// steps, unsupported slice bounds). All other builder methods are total:
// non-variable projection arguments are dropped and nil patterns are
// skipped rather than rejected.
package query
