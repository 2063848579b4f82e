package rdf

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// prefixPattern matches a PN_PREFIX token (ASCII subset). The empty prefix
// is also accepted and declares the default namespace (":local").
var prefixPattern = regexp.MustCompile(`^([A-Za-z]([A-Za-z0-9_-]*[A-Za-z0-9_])?)?$`)

// Binding associates a namespace IRI with a short prefix.
type Binding struct {
	Namespace string
	Prefix    string
}

// PrefixMap is an ordered namespace -> prefix mapping.
//
// Iteration follows insertion order so compiled PREFIX lines are
// deterministic. Rebinding a namespace keeps its original position.
//
// A PrefixMap is not safe for concurrent mutation; treat it as read-only once
// it has been handed to a compiler.
type PrefixMap struct {
	order    []string          // namespaces in insertion order
	prefixes map[string]string // namespace -> prefix
}

// NewPrefixMap creates a PrefixMap from bindings in the given order.
func NewPrefixMap(bindings ...Binding) (*PrefixMap, error) {
	m := &PrefixMap{prefixes: make(map[string]string, len(bindings))}
	for _, b := range bindings {
		if err := m.Bind(b.Namespace, b.Prefix); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustPrefixMap is like NewPrefixMap but panics on error.
// Use only in tests or when bindings are known to be valid.
func MustPrefixMap(bindings ...Binding) *PrefixMap {
	m, err := NewPrefixMap(bindings...)
	if err != nil {
		panic(err)
	}
	return m
}

// PrefixMapFromMap builds a PrefixMap from an unordered Go map.
// Entries are ordered by prefix so output stays deterministic.
func PrefixMapFromMap(nsToPrefix map[string]string) (*PrefixMap, error) {
	bindings := make([]Binding, 0, len(nsToPrefix))
	for ns, p := range nsToPrefix {
		bindings = append(bindings, Binding{Namespace: ns, Prefix: p})
	}
	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Prefix != bindings[j].Prefix {
			return bindings[i].Prefix < bindings[j].Prefix
		}
		return bindings[i].Namespace < bindings[j].Namespace
	})
	return NewPrefixMap(bindings...)
}

// StandardPrefixes returns a map with rdf, rdfs, xsd and owl bound.
func StandardPrefixes() *PrefixMap {
	return MustPrefixMap(
		Binding{Namespace: NamespaceRDF, Prefix: "rdf"},
		Binding{Namespace: NamespaceRDFS, Prefix: "rdfs"},
		Binding{Namespace: NamespaceXSD, Prefix: "xsd"},
		Binding{Namespace: NamespaceOWL, Prefix: "owl"},
	)
}

// Bind maps namespace to prefix. The namespace must be non-empty and the
// prefix a valid PN_PREFIX token.
func (m *PrefixMap) Bind(namespace, prefix string) error {
	if namespace == "" {
		return fmt.Errorf("empty namespace for prefix %q", prefix)
	}
	if !prefixPattern.MatchString(prefix) {
		return fmt.Errorf("invalid prefix %q for namespace %s", prefix, namespace)
	}
	if m.prefixes == nil {
		m.prefixes = make(map[string]string)
	}
	if _, exists := m.prefixes[namespace]; !exists {
		m.order = append(m.order, namespace)
	}
	m.prefixes[namespace] = prefix
	return nil
}

// Lookup returns the prefix bound to namespace.
func (m *PrefixMap) Lookup(namespace string) (string, bool) {
	if m == nil {
		return "", false
	}
	p, ok := m.prefixes[namespace]
	return p, ok
}

// Namespace returns the namespace bound to prefix. When several namespaces
// share a prefix the most recently inserted one wins.
func (m *PrefixMap) Namespace(prefix string) (string, bool) {
	if m == nil {
		return "", false
	}
	for i := len(m.order) - 1; i >= 0; i-- {
		ns := m.order[i]
		if m.prefixes[ns] == prefix {
			return ns, true
		}
	}
	return "", false
}

// Expand resolves a prefixed name such as "ex:Thing" to an IRI.
func (m *PrefixMap) Expand(pname string) (IRI, bool) {
	prefix, local, ok := strings.Cut(pname, ":")
	if !ok {
		return "", false
	}
	ns, found := m.Namespace(prefix)
	if !found {
		return "", false
	}
	return IRI(ns + local), true
}

// Bindings returns the bindings in insertion order.
func (m *PrefixMap) Bindings() []Binding {
	if m == nil {
		return nil
	}
	out := make([]Binding, len(m.order))
	for i, ns := range m.order {
		out[i] = Binding{Namespace: ns, Prefix: m.prefixes[ns]}
	}
	return out
}

// Len returns the number of bound namespaces.
func (m *PrefixMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Clone returns an independent copy.
func (m *PrefixMap) Clone() *PrefixMap {
	if m == nil {
		return &PrefixMap{prefixes: map[string]string{}}
	}
	c := &PrefixMap{
		order:    append([]string(nil), m.order...),
		prefixes: make(map[string]string, len(m.prefixes)),
	}
	for ns, p := range m.prefixes {
		c.prefixes[ns] = p
	}
	return c
}

// Merge binds every entry of other that is not already bound in m.
func (m *PrefixMap) Merge(other *PrefixMap) {
	for _, b := range other.Bindings() {
		if _, exists := m.Lookup(b.Namespace); exists {
			continue
		}
		// Bindings from another PrefixMap were validated on insert.
		_ = m.Bind(b.Namespace, b.Prefix)
	}
}
