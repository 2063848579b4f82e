package querysparql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/sparqlq/internal/expr"
	"github.com/roach88/sparqlq/internal/query"
	"github.com/roach88/sparqlq/internal/rdf"
)

// ErrNilQuery is returned when Compile is given a nil query.
var ErrNilQuery = errors.New("cannot compile nil query")

// SPARQLCompiler compiles Query values to SPARQL SELECT text.
//
// A SPARQLCompiler is read-only during Compile and safe for concurrent use
// provided Prefixes and Operators are not modified.
type SPARQLCompiler struct {
	// Prefixes supplies PREFIX lines and IRI compaction. Nil means none.
	Prefixes *rdf.PrefixMap

	// Operators maps expression operators to output tokens.
	// Nil means expr.DefaultOperators().
	Operators expr.OperatorTable

	// Indent enables pretty-printing with one Indent per nesting level.
	// Empty means compact output.
	Indent string

	// PruneUnusedPrefixes emits PREFIX lines only for namespaces the
	// compiled query actually uses.
	PruneUnusedPrefixes bool
}

// NewSPARQLCompiler creates a compact-mode compiler with the default
// operator table.
func NewSPARQLCompiler(prefixes *rdf.PrefixMap) *SPARQLCompiler {
	return &SPARQLCompiler{
		Prefixes:  prefixes,
		Operators: expr.DefaultOperators(),
	}
}

// Compiled is the result of one compilation.
type Compiled struct {
	// Text is the SPARQL query text, without a trailing newline.
	Text string

	// Namespaces lists the namespace of every IRI the compiler split, mapped
	// or not, in first-use order. Diagnostic only.
	Namespaces []string
}

// Fingerprint returns the content-addressed identity of the compiled text.
func (c *Compiled) Fingerprint() string {
	return Fingerprint(c.Text)
}

// Compile compiles q with prefixes using the default operator table in
// compact mode.
func Compile(q *query.Query, prefixes *rdf.PrefixMap) (string, error) {
	compiled, err := NewSPARQLCompiler(prefixes).Compile(q)
	if err != nil {
		return "", err
	}
	return compiled.Text, nil
}

// Compile converts q to SPARQL text.
//
// Returns ErrNilQuery for a nil query. A triple with a nil term or an
// expression whose operator has no entry in the operator table
// (*expr.UnknownOperatorError, reachable via errors.As) is also an error.
func (c *SPARQLCompiler) Compile(q *query.Query) (*Compiled, error) {
	if q == nil {
		return nil, ErrNilQuery
	}

	comp := &compilation{
		compiler: c,
		seen:     make(map[string]bool),
		used:     make(map[string]bool),
	}
	comp.exprs = expr.Renderer{
		Operators: c.Operators,
		Term:      func(t rdf.Term) string { return comp.term(t, false) },
	}

	// Body first: prefix pruning needs the namespaces it touched.
	selectLine := comp.selectClause(q)

	root := q.Root()
	var where []line
	if err := comp.group(root, 0, "WHERE {", "WHERE { }", "where", &where); err != nil {
		return nil, err
	}

	modifiers, err := comp.modifiers(q)
	if err != nil {
		return nil, err
	}

	var out []string
	out = append(out, comp.prefixLines()...)
	out = append(out, selectLine)
	if c.Indent == "" {
		out = append(out, strings.Join(append(texts(where), modifiers...), " "))
	} else {
		out = append(out, c.indent(where))
		out = append(out, modifiers...)
	}

	return &Compiled{
		Text:       strings.Join(out, "\n"),
		Namespaces: comp.namespaces,
	}, nil
}

// line is one element of a WHERE block: compact mode joins texts with
// spaces, pretty mode puts each on its own indented line.
type line struct {
	depth int
	text  string
}

func texts(lines []line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text
	}
	return out
}

func (c *SPARQLCompiler) indent(lines []line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Repeat(c.Indent, l.depth) + l.text
	}
	return strings.Join(out, "\n")
}

// compilation holds the state of a single Compile call.
type compilation struct {
	compiler   *SPARQLCompiler
	exprs      expr.Renderer
	namespaces []string
	seen       map[string]bool
	// used holds the mapped namespaces that compacted at least one IRI.
	used map[string]bool
}

func (c *compilation) prefixLines() []string {
	var out []string
	for _, b := range c.compiler.Prefixes.Bindings() {
		if c.compiler.PruneUnusedPrefixes && !c.used[b.Namespace] {
			continue
		}
		out = append(out, fmt.Sprintf("PREFIX %s: <%s>", b.Prefix, b.Namespace))
	}
	return out
}

func (c *compilation) selectClause(q *query.Query) string {
	parts := []string{"SELECT"}
	switch {
	case q.IsDistinct():
		parts = append(parts, "DISTINCT")
	case q.IsReduced():
		parts = append(parts, "REDUCED")
	}

	projection := q.Projection()
	if len(projection) == 0 || q.IsWildcard() {
		parts = append(parts, "*")
	} else {
		for _, v := range projection {
			parts = append(parts, v.Canonical())
		}
	}
	return strings.Join(parts, " ")
}

// group appends the lines of g at depth. open and empty are the opening
// token and the single-line form used when g has neither children nor
// filters.
func (c *compilation) group(g *query.Group, depth int, open, empty, path string, out *[]line) error {
	children := g.Children()
	filters := g.Filters()
	if len(children) == 0 && len(filters) == 0 {
		*out = append(*out, line{depth, empty})
		return nil
	}

	*out = append(*out, line{depth, open})
	for i, child := range children {
		if err := c.pattern(child, depth+1, fmt.Sprintf("%s/%d", path, i), out); err != nil {
			return err
		}
	}
	for i, f := range filters {
		text, err := c.exprs.Render(f.Constraint)
		if err != nil {
			return fmt.Errorf("%s filter %d: %w", path, i, err)
		}
		*out = append(*out, line{depth + 1, "FILTER(" + text + ")"})
	}
	*out = append(*out, line{depth, "}"})
	return nil
}

// pattern dispatches over the closed set of pattern kinds.
func (c *compilation) pattern(p query.Pattern, depth int, path string, out *[]line) error {
	switch node := p.(type) {
	case query.Triple:
		text, err := c.triple(node, path)
		if err != nil {
			return err
		}
		*out = append(*out, line{depth, text})
		return nil
	case *query.Group:
		if node.IsOptional() {
			return c.group(node, depth, "OPTIONAL {", "OPTIONAL { }", path, out)
		}
		return c.group(node, depth, "{", "{ }", path, out)
	case *query.Union:
		return c.union(node, depth, path, out)
	default:
		return fmt.Errorf("%s: unsupported pattern type: %T", path, p)
	}
}

// union renders alternatives as group blocks joined by UNION. An empty
// union renders as an empty group.
func (c *compilation) union(u *query.Union, depth int, path string, out *[]line) error {
	alternatives := u.Alternatives()
	if len(alternatives) == 0 {
		*out = append(*out, line{depth, "{ }"})
		return nil
	}

	for i, alt := range alternatives {
		if i > 0 {
			*out = append(*out, line{depth, "UNION"})
		}
		if err := c.alternative(alt, depth, fmt.Sprintf("%s/union/%d", path, i), out); err != nil {
			return err
		}
	}
	return nil
}

// alternative renders one UNION operand. The grammar only allows plain
// group blocks there, so OPTIONAL groups and nested unions get wrapped.
func (c *compilation) alternative(alt query.GraphPattern, depth int, path string, out *[]line) error {
	if g, ok := alt.(*query.Group); ok && !g.IsOptional() {
		return c.group(g, depth, "{", "{ }", path, out)
	}

	*out = append(*out, line{depth, "{"})
	if err := c.pattern(alt, depth+1, path, out); err != nil {
		return err
	}
	*out = append(*out, line{depth, "}"})
	return nil
}

func (c *compilation) triple(t query.Triple, path string) (string, error) {
	if t.Subject == nil || t.Predicate == nil || t.Object == nil {
		return "", fmt.Errorf("%s: triple has a nil term", path)
	}
	return c.term(t.Subject, false) + " " + c.term(t.Predicate, true) + " " + c.term(t.Object, false) + " .", nil
}

// modifiers renders ORDER BY, LIMIT and OFFSET in that order.
func (c *compilation) modifiers(q *query.Query) ([]string, error) {
	var out []string

	if keys := q.OrderKeys(); len(keys) > 0 {
		parts := make([]string, 0, len(keys))
		for i, k := range keys {
			text, err := c.orderKey(k)
			if err != nil {
				return nil, fmt.Errorf("order key %d: %w", i, err)
			}
			parts = append(parts, text)
		}
		out = append(out, "ORDER BY "+strings.Join(parts, " "))
	}
	if n, ok := q.LimitValue(); ok {
		out = append(out, fmt.Sprintf("LIMIT %d", n))
	}
	if n, ok := q.OffsetValue(); ok {
		out = append(out, fmt.Sprintf("OFFSET %d", n))
	}
	return out, nil
}

func (c *compilation) orderKey(k query.OrderKey) (string, error) {
	text, err := c.exprs.Render(k.Expr)
	if err != nil {
		return "", err
	}
	switch k.Direction {
	case query.Ascending:
		return "ASC(" + text + ")", nil
	case query.Descending:
		return "DESC(" + text + ")", nil
	}
	// A bare condition must be a variable, a call or bracketed.
	switch k.Expr.(type) {
	case expr.Term, expr.Call:
		return text, nil
	default:
		return "(" + text + ")", nil
	}
}

// term renders t, compacting IRIs through the prefix map.
func (c *compilation) term(t rdf.Term, predicate bool) string {
	switch v := t.(type) {
	case rdf.IRI:
		if predicate && v == rdf.RDFType {
			return "a"
		}
		return c.iri(v)
	case rdf.Literal:
		return v.RenderWith(c.iri)
	default:
		return rdf.Canonical(t)
	}
}

func (c *compilation) iri(iri rdf.IRI) string {
	ns, fragment := rdf.SplitIRI(iri)
	if ns == "" {
		return iri.Canonical()
	}
	if !c.seen[ns] {
		c.seen[ns] = true
		c.namespaces = append(c.namespaces, ns)
	}
	if !rdf.IsLocalName(fragment) {
		return iri.Canonical()
	}
	prefix, ok := c.compiler.Prefixes.Lookup(ns)
	if !ok {
		return iri.Canonical()
	}
	c.used[ns] = true
	return prefix + ":" + fragment
}
