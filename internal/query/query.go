package query

import (
	"sort"

	"github.com/roach88/sparqlq/internal/expr"
	"github.com/roach88/sparqlq/internal/rdf"
)

// Direction is the sort direction of an ORDER BY key.
type Direction int

const (
	// Unspecified renders the key bare (ascending by SPARQL default).
	Unspecified Direction = iota
	// Ascending renders ASC(key).
	Ascending
	// Descending renders DESC(key).
	Descending
)

// OrderKey is one ORDER BY condition.
type OrderKey struct {
	Expr      expr.Expr
	Direction Direction
}

// By orders by e without an explicit direction.
func By(e expr.Expr) OrderKey { return OrderKey{Expr: e} }

// Asc orders by e ascending.
func Asc(e expr.Expr) OrderKey { return OrderKey{Expr: e, Direction: Ascending} }

// Desc orders by e descending.
func Desc(e expr.Expr) OrderKey { return OrderKey{Expr: e, Direction: Descending} }

// Query is an immutable SPARQL SELECT query.
//
// Semantics:
//
//	SELECT [DISTINCT|REDUCED] <projection>
//	WHERE { <root> }
//	[ORDER BY <orderBy>] [LIMIT <limit>] [OFFSET <offset>]
//
// The zero value is not usable; construct with New or NewFromOptions.
type Query struct {
	projection []rdf.Variable
	root       *Group
	distinct   bool
	reduced    bool
	limit      int
	hasLimit   bool
	offset     int // 0 = absent
	orderBy    []OrderKey
	graph      rdf.IRI // retained for callers; not rendered
}

// clone returns a shallow copy. Slices are shared and must never be
// appended to in place; builders replace them.
func (q *Query) clone() *Query {
	c := *q
	return &c
}

// Project returns a new Query whose projection is vars. Non-variable terms
// are dropped. If rdf.Wildcard appears the projection becomes the wildcard.
func (q *Query) Project(vars ...rdf.Term) *Query {
	c := q.clone()
	c.projection = collectVariables(nil, vars)
	return c
}

// ProjectAdd returns a new Query with vars appended after the existing
// projection.
func (q *Query) ProjectAdd(vars ...rdf.Term) *Query {
	c := q.clone()
	existing := append([]rdf.Variable(nil), q.projection...)
	c.projection = collectVariables(existing, vars)
	return c
}

// Where returns a new Query whose root gains one more child: a Group holding
// patterns. With no non-nil patterns the root is left unchanged.
func (q *Query) Where(patterns ...Pattern) *Query {
	return q.where(NewGroup(patterns...))
}

// WhereOptional is Where with the new child Group marked OPTIONAL.
func (q *Query) WhereOptional(patterns ...Pattern) *Query {
	return q.where(Optional(patterns...))
}

func (q *Query) where(child *Group) *Query {
	c := q.clone()
	if child.IsEmpty() {
		return c
	}
	root := q.root.Clone()
	root.Add(child)
	root.publish()
	c.root = root
	return c
}

// Filter returns a new Query whose root gains one Filter holding the
// conjunction of constraints.
func (q *Query) Filter(constraints ...expr.Expr) *Query {
	return q.FilterEqual(nil, constraints...)
}

// FilterEqual is Filter plus one "?key = value" constraint per entry of
// named, appended after constraints in sorted key order.
func (q *Query) FilterEqual(named map[string]rdf.Term, constraints ...expr.Expr) *Query {
	all := append([]expr.Expr(nil), constraints...)

	keys := make([]string, 0, len(named))
	for k := range named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		all = append(all, expr.Eq(expr.Var(k), expr.Of(named[k])))
	}

	c := q.clone()
	if expr.And(all...) == nil {
		return c
	}
	root := q.root.Clone()
	root.Filter(all...)
	root.publish()
	c.root = root
	return c
}

// Limit returns a new Query with the limit set to n. A negative n clears it.
func (q *Query) Limit(n int) *Query {
	c := q.clone()
	c.limit, c.hasLimit = n, n >= 0
	if !c.hasLimit {
		c.limit = 0
	}
	return c
}

// Offset returns a new Query with the offset set to n. Zero or negative
// clears it.
func (q *Query) Offset(n int) *Query {
	c := q.clone()
	c.offset = max(n, 0)
	return c
}

// OrderBy returns a new Query ordered by keys. Keys with a nil expression
// are dropped; no keys clears the ordering.
func (q *Query) OrderBy(keys ...OrderKey) *Query {
	c := q.clone()
	c.orderBy = nil
	for _, k := range keys {
		if k.Expr != nil {
			c.orderBy = append(c.orderBy, k)
		}
	}
	return c
}

// Distinct returns a new Query with DISTINCT set to flag. Setting it clears
// REDUCED.
func (q *Query) Distinct(flag bool) *Query {
	c := q.clone()
	c.distinct = flag
	if flag {
		c.reduced = false
	}
	return c
}

// Reduced returns a new Query with REDUCED set to flag. Setting it clears
// DISTINCT.
func (q *Query) Reduced(flag bool) *Query {
	c := q.clone()
	c.reduced = flag
	if flag {
		c.distinct = false
	}
	return c
}

// OnGraph returns a new Query targeting graph. An empty IRI clears it.
func (q *Query) OnGraph(graph rdf.IRI) *Query {
	c := q.clone()
	c.graph = graph
	return c
}

// Projection returns a copy of the projected variables.
func (q *Query) Projection() []rdf.Variable {
	return append([]rdf.Variable(nil), q.projection...)
}

// IsWildcard reports whether the projection is exactly the wildcard marker.
func (q *Query) IsWildcard() bool {
	return len(q.projection) == 1 && q.projection[0] == rdf.Wildcard
}

// Root returns an unpublished clone of the root Group. Changing it does not
// affect q.
func (q *Query) Root() *Group {
	return q.root.Clone()
}

// IsDistinct reports whether DISTINCT is set.
func (q *Query) IsDistinct() bool { return q.distinct }

// IsReduced reports whether REDUCED is set.
func (q *Query) IsReduced() bool { return q.reduced }

// LimitValue returns the limit and whether one is set.
func (q *Query) LimitValue() (int, bool) { return q.limit, q.hasLimit }

// OffsetValue returns the offset and whether one is set (nonzero).
func (q *Query) OffsetValue() (int, bool) { return q.offset, q.offset > 0 }

// OrderKeys returns a copy of the ORDER BY keys.
func (q *Query) OrderKeys() []OrderKey {
	return append([]OrderKey(nil), q.orderBy...)
}

// Graph returns the target graph and whether one is set.
func (q *Query) Graph() (rdf.IRI, bool) { return q.graph, q.graph != "" }

// collectVariables appends the variables among terms to dst, collapsing to
// the wildcard if it appears anywhere in the result.
func collectVariables(dst []rdf.Variable, terms []rdf.Term) []rdf.Variable {
	for _, t := range terms {
		if v, ok := t.(rdf.Variable); ok && v != "" {
			dst = append(dst, v)
		}
	}
	for _, v := range dst {
		if v == rdf.Wildcard {
			return []rdf.Variable{rdf.Wildcard}
		}
	}
	return dst
}
