package querydef

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/sparqlq/internal/expr"
	"github.com/roach88/sparqlq/internal/query"
	"github.com/roach88/sparqlq/internal/rdf"
)

// Definition is one named query built from a definition file.
type Definition struct {
	// Name is the key under "queries".
	Name string

	// Source is the file the definition was loaded from.
	Source string

	// Prefixes holds the shared and query-local bindings, in declaration
	// order. Compile with it to get the PREFIX lines the author wrote.
	Prefixes *rdf.PrefixMap

	// Query is the built, immutable query.
	Query *query.Query
}

// rawFile is the decoded shape shared by YAML and CUE files.
type rawFile struct {
	Prefixes []rawPrefix          `yaml:"prefixes,omitempty"`
	Queries  map[string]*rawQuery `yaml:"queries"`
}

type rawPrefix struct {
	Prefix    string `yaml:"prefix"`
	Namespace string `yaml:"namespace"`
}

type rawQuery struct {
	Prefixes []rawPrefix   `yaml:"prefixes,omitempty"`
	Select   []any          `yaml:"select,omitempty"`
	Where    []rawPattern   `yaml:"where,omitempty"`
	Filters  []rawFilter    `yaml:"filters,omitempty"`
	Equals   map[string]any `yaml:"equals,omitempty"`
	OrderBy  []string       `yaml:"order_by,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"`
}

// rawPattern holds exactly one of its fields.
type rawPattern struct {
	Triple   []any          `yaml:"triple,omitempty"`
	Group    []rawPattern   `yaml:"group,omitempty"`
	Optional []rawPattern   `yaml:"optional,omitempty"`
	Union    [][]rawPattern `yaml:"union,omitempty"`
}

// rawFilter is either a binary comparison (op/left/right) or a function
// call (fn/args).
type rawFilter struct {
	Op    string `yaml:"op,omitempty"`
	Left  any    `yaml:"left,omitempty"`
	Right any    `yaml:"right,omitempty"`
	Fn    string `yaml:"fn,omitempty"`
	Args  []any  `yaml:"args,omitempty"`
}

// binaryOps maps filter op tokens to expression constructors.
var binaryOps = map[string]func(l, r expr.Expr) expr.Expr{
	"=":  expr.Eq,
	"!=": expr.Ne,
	"<":  expr.Lt,
	"<=": expr.Le,
	">":  expr.Gt,
	">=": expr.Ge,
	"+":  expr.Add,
	"-":  expr.Sub,
	"*":  expr.Mul,
	"/":  expr.Div,
}

// build converts every query in f, in sorted name order. positions maps
// query names to CUE source positions and may be nil.
func (f *rawFile) build(source string, positions map[string]token.Pos) ([]Definition, error) {
	if len(f.Queries) == 0 {
		return nil, newLoadError(ErrCodeNoQueries, "%s: no queries defined", source)
	}

	shared, err := bindPrefixes(rdf.MustPrefixMap(), f.Prefixes)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(f.Queries))
	for name := range f.Queries {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		def, err := buildDefinition(name, f.Queries[name], shared)
		if err != nil {
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				loadErr = &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
			}
			located := *loadErr
			located.Message = fmt.Sprintf("queries.%s: %s", name, loadErr.Message)
			if !located.Pos.IsValid() {
				located.Pos = positions[name]
			}
			return nil, &located
		}
		def.Source = source
		defs = append(defs, *def)
	}
	return defs, nil
}

func buildDefinition(name string, raw *rawQuery, shared *rdf.PrefixMap) (*Definition, error) {
	if raw == nil {
		raw = &rawQuery{}
	}

	prefixes, err := bindPrefixes(shared.Clone(), raw.Prefixes)
	if err != nil {
		return nil, err
	}

	projection, err := parseSelect(raw.Select, prefixes)
	if err != nil {
		return nil, err
	}

	patterns, err := parsePatterns(raw.Where, prefixes, "where")
	if err != nil {
		return nil, err
	}

	q, err := query.NewFromOptions(projection, patterns, raw.Options)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidQuery, Message: err.Error()}
	}

	constraints := make([]expr.Expr, 0, len(raw.Filters))
	for i, f := range raw.Filters {
		c, err := parseFilter(f, prefixes)
		if err != nil {
			return nil, prefixMessage(err, fmt.Sprintf("filters[%d]", i))
		}
		constraints = append(constraints, c)
	}

	equalKeys := make([]string, 0, len(raw.Equals))
	for key := range raw.Equals {
		equalKeys = append(equalKeys, key)
	}
	sort.Strings(equalKeys)

	named := make(map[string]rdf.Term, len(raw.Equals))
	for _, key := range equalKeys {
		term, err := ParseTerm(raw.Equals[key], prefixes)
		if err != nil {
			return nil, prefixMessage(err, "equals."+key)
		}
		name := strings.TrimLeft(key, "?$")
		if !rdf.IsVarName(name) {
			return nil, newLoadError(ErrCodeInvalidTerm, "equals: invalid variable %q", key)
		}
		named[name] = term
	}
	q = q.FilterEqual(named, constraints...)

	if len(raw.OrderBy) > 0 {
		keys := make([]query.OrderKey, 0, len(raw.OrderBy))
		for _, spec := range raw.OrderBy {
			key, err := parseOrderKey(spec, prefixes)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		q = q.OrderBy(keys...)
	}

	return &Definition{Name: name, Prefixes: prefixes, Query: q}, nil
}

func bindPrefixes(m *rdf.PrefixMap, bindings []rawPrefix) (*rdf.PrefixMap, error) {
	for i, b := range bindings {
		if err := m.Bind(b.Namespace, b.Prefix); err != nil {
			return nil, newLoadError(ErrCodeInvalidPrefix, "prefixes[%d]: %v", i, err)
		}
	}
	return m, nil
}

func parseSelect(entries []any, prefixes *rdf.PrefixMap) ([]rdf.Term, error) {
	projection := make([]rdf.Term, 0, len(entries))
	for i, entry := range entries {
		term, err := ParseTerm(entry, prefixes)
		if err != nil {
			return nil, prefixMessage(err, fmt.Sprintf("select[%d]", i))
		}
		if !rdf.IsVariable(term) {
			return nil, newLoadError(ErrCodeInvalidSelect, "select[%d]: %s is not a variable", i, describe(entry))
		}
		projection = append(projection, term)
	}
	return projection, nil
}

func parsePatterns(raws []rawPattern, prefixes *rdf.PrefixMap, path string) ([]query.Pattern, error) {
	patterns := make([]query.Pattern, 0, len(raws))
	for i, raw := range raws {
		p, err := parsePattern(raw, prefixes, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func parsePattern(raw rawPattern, prefixes *rdf.PrefixMap, path string) (query.Pattern, error) {
	kinds := 0
	for _, set := range []bool{raw.Triple != nil, raw.Group != nil, raw.Optional != nil, raw.Union != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, newLoadError(ErrCodeInvalidWhere, "%s: expected exactly one of triple, group, optional, union", path)
	}

	switch {
	case raw.Triple != nil:
		if len(raw.Triple) != 3 {
			return nil, newLoadError(ErrCodeInvalidWhere, "%s: triple needs 3 terms, got %d", path, len(raw.Triple))
		}
		var terms [3]rdf.Term
		for i, v := range raw.Triple {
			term, err := ParseTerm(v, prefixes)
			if err != nil {
				return nil, prefixMessage(err, fmt.Sprintf("%s.triple[%d]", path, i))
			}
			terms[i] = term
		}
		return query.NewTriple(terms[0], terms[1], terms[2]), nil

	case raw.Group != nil:
		children, err := parsePatterns(raw.Group, prefixes, path+".group")
		if err != nil {
			return nil, err
		}
		return query.NewGroup(children...), nil

	case raw.Optional != nil:
		children, err := parsePatterns(raw.Optional, prefixes, path+".optional")
		if err != nil {
			return nil, err
		}
		return query.Optional(children...), nil

	default:
		alternatives := make([]query.Pattern, 0, len(raw.Union))
		for i, alt := range raw.Union {
			children, err := parsePatterns(alt, prefixes, fmt.Sprintf("%s.union[%d]", path, i))
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, query.NewGroup(children...))
		}
		return query.NewUnion(alternatives...), nil
	}
}

func parseFilter(f rawFilter, prefixes *rdf.PrefixMap) (expr.Expr, error) {
	switch {
	case f.Op != "" && f.Fn != "":
		return nil, newLoadError(ErrCodeInvalidFilter, "op and fn are mutually exclusive")

	case f.Op != "":
		build, ok := binaryOps[f.Op]
		if !ok {
			return nil, newLoadError(ErrCodeInvalidFilter, "unknown operator %q", f.Op)
		}
		left, err := ParseTerm(f.Left, prefixes)
		if err != nil {
			return nil, prefixMessage(err, "left")
		}
		right, err := ParseTerm(f.Right, prefixes)
		if err != nil {
			return nil, prefixMessage(err, "right")
		}
		return build(expr.Of(left), expr.Of(right)), nil

	case f.Fn != "":
		args := make([]expr.Expr, 0, len(f.Args))
		for i, a := range f.Args {
			term, err := ParseTerm(a, prefixes)
			if err != nil {
				return nil, prefixMessage(err, fmt.Sprintf("args[%d]", i))
			}
			args = append(args, expr.Of(term))
		}
		return expr.Fn(f.Fn, args...), nil

	default:
		return nil, newLoadError(ErrCodeInvalidFilter, "filter needs op or fn")
	}
}

// parseOrderKey reads "?v" (no direction), "+?v" (ASC) or "-?v" (DESC).
func parseOrderKey(spec string, prefixes *rdf.PrefixMap) (query.OrderKey, error) {
	direction := query.Unspecified
	switch {
	case strings.HasPrefix(spec, "-"):
		direction, spec = query.Descending, spec[1:]
	case strings.HasPrefix(spec, "+"):
		direction, spec = query.Ascending, spec[1:]
	}

	term, err := ParseTerm(spec, prefixes)
	if err != nil {
		return query.OrderKey{}, prefixMessage(err, "order_by")
	}
	if !rdf.IsVariable(term) || term == rdf.Wildcard {
		return query.OrderKey{}, newLoadError(ErrCodeInvalidOrder, "order_by: %q is not a variable", spec)
	}
	return query.OrderKey{Expr: expr.Of(term), Direction: direction}, nil
}

// prefixMessage prepends a location to a LoadError message.
func prefixMessage(err error, location string) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return &LoadError{Code: loadErr.Code, Message: location + ": " + loadErr.Message, Pos: loadErr.Pos}
	}
	return fmt.Errorf("%s: %w", location, err)
}
