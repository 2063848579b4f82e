package query

import (
	"math"
	"sort"

	"github.com/roach88/sparqlq/internal/rdf"
)

// Option configures New.
type Option func(*config)

type config struct {
	projection []rdf.Term
	patterns   []Pattern
	distinct   bool
	reduced    bool
	limit      int
	hasLimit   bool
	offset     int
	orderBy    []OrderKey
	graph      rdf.IRI
}

// WithProjection sets the initial projection (appending across calls).
func WithProjection(vars ...rdf.Term) Option {
	return func(c *config) { c.projection = append(c.projection, vars...) }
}

// WithPatterns adds patterns directly to the root Group.
func WithPatterns(patterns ...Pattern) Option {
	return func(c *config) { c.patterns = append(c.patterns, patterns...) }
}

// WithDistinct requests SELECT DISTINCT.
func WithDistinct() Option {
	return func(c *config) { c.distinct = true }
}

// WithReduced requests SELECT REDUCED.
func WithReduced() Option {
	return func(c *config) { c.reduced = true }
}

// WithLimit sets LIMIT n. A negative n leaves the limit unset.
func WithLimit(n int) Option {
	return func(c *config) { c.limit, c.hasLimit = n, n >= 0 }
}

// WithOffset sets OFFSET n. Zero or negative leaves the offset unset.
func WithOffset(n int) Option {
	return func(c *config) { c.offset = max(n, 0) }
}

// WithOrderBy sets the ORDER BY keys.
func WithOrderBy(keys ...OrderKey) Option {
	return func(c *config) { c.orderBy = append(c.orderBy, keys...) }
}

// WithGraph sets the target graph.
func WithGraph(graph rdf.IRI) Option {
	return func(c *config) { c.graph = graph }
}

// New constructs a Query. Returns a ConstructionError if both DISTINCT and
// REDUCED are requested.
func New(opts ...Option) (*Query, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return build(cfg)
}

// MustNew is like New but panics on error.
// Use only in tests or when options are known to be valid.
func MustNew(opts ...Option) *Query {
	q, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// Option keys recognized by NewFromOptions.
const (
	OptionDistinct = "distinct"
	OptionReduced  = "reduced"
	OptionLimit    = "limit"
	OptionOffset   = "offset"
	OptionGraph    = "graph"
)

// NewFromOptions constructs a Query from loosely typed options, as decoded
// from a definition file. Unknown keys and values of the wrong type are
// construction errors. Keys are checked in sorted order so the reported
// error is deterministic.
func NewFromOptions(projection []rdf.Term, patterns []Pattern, options map[string]any) (*Query, error) {
	cfg := config{projection: projection, patterns: patterns}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := options[key]
		switch key {
		case OptionDistinct:
			b, ok := value.(bool)
			if !ok {
				return nil, newConstructionError(ErrCodeInvalidOption, "option %q must be a bool, got %T", key, value)
			}
			cfg.distinct = b
		case OptionReduced:
			b, ok := value.(bool)
			if !ok {
				return nil, newConstructionError(ErrCodeInvalidOption, "option %q must be a bool, got %T", key, value)
			}
			cfg.reduced = b
		case OptionLimit:
			n, err := nonNegativeInt(key, value)
			if err != nil {
				return nil, err
			}
			cfg.limit, cfg.hasLimit = n, true
		case OptionOffset:
			n, err := nonNegativeInt(key, value)
			if err != nil {
				return nil, err
			}
			cfg.offset = n
		case OptionGraph:
			switch g := value.(type) {
			case string:
				cfg.graph = rdf.IRI(g)
			case rdf.IRI:
				cfg.graph = g
			default:
				return nil, newConstructionError(ErrCodeInvalidOption, "option %q must be an IRI string, got %T", key, value)
			}
		default:
			return nil, newConstructionError(ErrCodeUnknownOption, "unrecognized option %q", key)
		}
	}

	return build(cfg)
}

func build(cfg config) (*Query, error) {
	if cfg.distinct && cfg.reduced {
		return nil, newConstructionError(ErrCodeDistinctReduced, "DISTINCT and REDUCED are mutually exclusive")
	}

	root := NewGroup(cfg.patterns...)
	root.publish()

	q := &Query{
		projection: collectVariables(nil, cfg.projection),
		root:       root,
		distinct:   cfg.distinct,
		reduced:    cfg.reduced,
		limit:      cfg.limit,
		hasLimit:   cfg.hasLimit,
		offset:     cfg.offset,
		graph:      cfg.graph,
	}
	if !q.hasLimit {
		q.limit = 0
	}
	for _, k := range cfg.orderBy {
		if k.Expr != nil {
			q.orderBy = append(q.orderBy, k)
		}
	}
	return q, nil
}

// nonNegativeInt converts decoded numeric option values. YAML decodes
// integers as int, CUE and JSON may produce int64 or float64.
func nonNegativeInt(key string, value any) (int, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case int32:
		n = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, newConstructionError(ErrCodeInvalidOption, "option %q out of range: %d", key, v)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, newConstructionError(ErrCodeInvalidOption, "option %q must be an integer, got %v", key, v)
		}
		n = int64(v)
	default:
		return 0, newConstructionError(ErrCodeInvalidOption, "option %q must be an integer, got %T", key, value)
	}
	if n < 0 {
		return 0, newConstructionError(ErrCodeInvalidOption, "option %q must be non-negative, got %d", key, n)
	}
	if n > math.MaxInt {
		return 0, newConstructionError(ErrCodeInvalidOption, "option %q out of range: %d", key, n)
	}
	return int(n), nil
}
