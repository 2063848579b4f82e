package query

import (
	"github.com/roach88/sparqlq/internal/expr"
	"github.com/roach88/sparqlq/internal/rdf"
)

// Pattern is a node of a WHERE-block tree.
//
// This is a sealed interface - only Triple, *Group and *Union implement it.
type Pattern interface {
	patternNode() // Marker method - seals interface to this package
}

// GraphPattern is a Pattern that contains other patterns: *Group or *Union.
type GraphPattern interface {
	Pattern

	// Len returns the number of direct children (alternatives for a Union).
	Len() int

	graphPattern()
	publish()
}

// Triple is a subject/predicate/object pattern. Terms are not type-checked:
// a literal subject is serialized as given.
type Triple struct {
	Subject   rdf.Term
	Predicate rdf.Term
	Object    rdf.Term
}

func (Triple) patternNode() {}

// NewTriple creates a Triple.
func NewTriple(s, p, o rdf.Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// Filter wraps one constraint expression attached to a Group.
type Filter struct {
	Constraint expr.Expr
}

// Group is an ordered sequence of patterns plus filters. An optional Group
// renders as an OPTIONAL block.
type Group struct {
	children  []Pattern
	filters   []Filter
	optional  bool
	published bool
}

func (*Group) patternNode()  {}
func (*Group) graphPattern() {}

// NewGroup creates an unpublished Group holding patterns. Nil entries are
// dropped.
func NewGroup(patterns ...Pattern) *Group {
	g := &Group{}
	g.children = appendPatterns(nil, patterns)
	return g
}

// Optional creates an unpublished optional Group holding patterns.
func Optional(patterns ...Pattern) *Group {
	g := NewGroup(patterns...)
	g.optional = true
	return g
}

// Add appends patterns in place and returns g for chaining.
//
// Add is only valid before g is published (attached to a Query). Panics on a
// published Group: sharing means other queries would observe the change.
func (g *Group) Add(patterns ...Pattern) *Group {
	g.mustBeUnpublished("Add")
	g.children = appendPatterns(g.children, patterns)
	return g
}

// Filter appends one Filter holding the conjunction of constraints. Nil
// constraints are skipped; if nothing remains no Filter is added.
// Same publication rule as Add.
func (g *Group) Filter(constraints ...expr.Expr) *Group {
	g.mustBeUnpublished("Filter")
	if c := expr.And(constraints...); c != nil {
		g.filters = append(g.filters, Filter{Constraint: c})
	}
	return g
}

// Children returns a copy of the child list.
func (g *Group) Children() []Pattern {
	return append([]Pattern(nil), g.children...)
}

// Filters returns a copy of the filter list.
func (g *Group) Filters() []Filter {
	return append([]Filter(nil), g.filters...)
}

// IsOptional reports whether g renders as an OPTIONAL block.
func (g *Group) IsOptional() bool { return g.optional }

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// IsEmpty reports whether g has no children. Empty groups still serialize,
// as "{ }".
func (g *Group) IsEmpty() bool { return len(g.children) == 0 }

// IsPublished reports whether g has been attached to a Query.
func (g *Group) IsPublished() bool { return g.published }

// GroupOverride replaces a field during Clone.
type GroupOverride func(*Group)

// WithOptional overrides the optional flag.
func WithOptional(optional bool) GroupOverride {
	return func(g *Group) { g.optional = optional }
}

// WithChildren replaces the child list.
func WithChildren(patterns ...Pattern) GroupOverride {
	return func(g *Group) { g.children = appendPatterns(nil, patterns) }
}

// WithFilters replaces the filter list.
func WithFilters(filters ...Filter) GroupOverride {
	return func(g *Group) { g.filters = append([]Filter(nil), filters...) }
}

// Clone returns an unpublished shallow copy of g with fresh child and filter
// lists, so appends to the clone never reach the original. Children
// themselves are shared.
func (g *Group) Clone(overrides ...GroupOverride) *Group {
	c := &Group{
		children: append([]Pattern(nil), g.children...),
		filters:  append([]Filter(nil), g.filters...),
		optional: g.optional,
	}
	for _, o := range overrides {
		o(c)
	}
	return c
}

func (g *Group) publish() {
	if g.published {
		return
	}
	g.published = true
	for _, child := range g.children {
		if gp, ok := child.(GraphPattern); ok {
			gp.publish()
		}
	}
}

func (g *Group) mustBeUnpublished(op string) {
	if g.published {
		panic("query: " + op + " on a published Group; Clone it first")
	}
}

// Union is an alternation of graph patterns.
type Union struct {
	alternatives []GraphPattern
	published    bool
}

func (*Union) patternNode()  {}
func (*Union) graphPattern() {}

// NewUnion creates a Union of patterns in order. Each argument is coerced to
// a GraphPattern first (a Triple becomes a single-triple Group); nil entries
// are dropped.
func NewUnion(patterns ...Pattern) *Union {
	u := &Union{}
	for _, p := range patterns {
		if gp := AsGraphPattern(p); gp != nil {
			u.alternatives = append(u.alternatives, gp)
		}
	}
	return u
}

// Alternatives returns a copy of the alternative list.
func (u *Union) Alternatives() []GraphPattern {
	return append([]GraphPattern(nil), u.alternatives...)
}

// Len returns the number of alternatives.
func (u *Union) Len() int { return len(u.alternatives) }

func (u *Union) publish() {
	if u.published {
		return
	}
	u.published = true
	for _, alt := range u.alternatives {
		alt.publish()
	}
}

// AsGraphPattern coerces p to a GraphPattern. A Triple is wrapped in a new
// Group; nil (including typed nil pointers) yields nil.
func AsGraphPattern(p Pattern) GraphPattern {
	switch v := p.(type) {
	case Triple:
		return NewGroup(v)
	case *Group:
		if v == nil {
			return nil
		}
		return v
	case *Union:
		if v == nil {
			return nil
		}
		return v
	default:
		return nil
	}
}

// appendPatterns appends the non-nil entries of patterns to dst.
func appendPatterns(dst, patterns []Pattern) []Pattern {
	for _, p := range patterns {
		if isNilPattern(p) {
			continue
		}
		dst = append(dst, p)
	}
	return dst
}

func isNilPattern(p Pattern) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *Group:
		return v == nil
	case *Union:
		return v == nil
	default:
		return false
	}
}
