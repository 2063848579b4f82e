package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIRI(t *testing.T) {
	testCases := []struct {
		iri      IRI
		wantNS   string
		wantFrag string
	}{
		{"http://ex.org/ns#Foo", "http://ex.org/ns#", "Foo"},
		{"http://example.org/Thing", "http://example.org/", "Thing"},
		{"http://example.org/", "http://example.org/", ""},
		{"http://example.org/a/b#", "http://example.org/a/b#", ""},
		{"urn:isbn", "urn:", "isbn"},
		{"plain", "", "plain"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.iri), func(t *testing.T) {
			ns, frag := SplitIRI(tc.iri)
			assert.Equal(t, tc.wantNS, ns)
			assert.Equal(t, tc.wantFrag, frag)
		})
	}
}

func TestIsLocalName(t *testing.T) {
	assert.True(t, IsLocalName(""))
	assert.True(t, IsLocalName("Thing"))
	assert.True(t, IsLocalName("has-part_1"))
	assert.True(t, IsLocalName("a.b"))
	assert.False(t, IsLocalName("-x"))
	assert.False(t, IsLocalName("x."))
	assert.False(t, IsLocalName("a b"))
	assert.False(t, IsLocalName("a?b"))
}

func TestIsVarName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"s", true},
		{"_x1", true},
		{"1st", true},
		{"名前", true},
		{"a\u0301", true},
		{"", false},
		{"a.b", false},
		{"a-b", false},
		{"a b", false},
		{"\u0301a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVarName(tt.name))
		})
	}
}

func TestIsIRIRef(t *testing.T) {
	tests := []struct {
		iri  string
		want bool
	}{
		{"http://example.org/x", true},
		{"", true},
		{"urn:isbn:0451450523", true},
		{"http://example.org/é", true},
		{"http://example.org/a b", false},
		{"http://x> y", false},
		{"http://example.org/\"q\"", false},
		{"http://example.org/{x}", false},
		{"http://example.org/a|b", false},
		{"http://example.org/\\", false},
		{"http://example.org/\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.iri, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIRIRef(tt.iri))
		})
	}
}

func TestPrefixMapInsertionOrder(t *testing.T) {
	m, err := NewPrefixMap(
		Binding{Namespace: "http://z.org/", Prefix: "z"},
		Binding{Namespace: "http://a.org/", Prefix: "a"},
	)
	require.NoError(t, err)

	require.NoError(t, m.Bind("http://m.org/", "m"))
	require.NoError(t, m.Bind("http://z.org/", "zz")) // rebinding keeps position

	assert.Equal(t, []Binding{
		{Namespace: "http://z.org/", Prefix: "zz"},
		{Namespace: "http://a.org/", Prefix: "a"},
		{Namespace: "http://m.org/", Prefix: "m"},
	}, m.Bindings())
	assert.Equal(t, 3, m.Len())
}

func TestPrefixMapRejectsInvalid(t *testing.T) {
	_, err := NewPrefixMap(Binding{Namespace: "", Prefix: "ex"})
	assert.Error(t, err)

	_, err = NewPrefixMap(Binding{Namespace: "http://example.org/", Prefix: "1ex"})
	assert.Error(t, err)

	_, err = NewPrefixMap(Binding{Namespace: "http://example.org/", Prefix: "ex-"})
	assert.Error(t, err)

	m, err := NewPrefixMap(Binding{Namespace: "http://example.org/", Prefix: ""})
	require.NoError(t, err, "empty prefix declares the default namespace")
	p, ok := m.Lookup("http://example.org/")
	assert.True(t, ok)
	assert.Equal(t, "", p)
}

func TestPrefixMapFromMapSortsByPrefix(t *testing.T) {
	m, err := PrefixMapFromMap(map[string]string{
		"http://schema.org/":  "schema",
		"http://example.org/": "ex",
		NamespaceRDF:          "rdf",
	})
	require.NoError(t, err)

	var prefixes []string
	for _, b := range m.Bindings() {
		prefixes = append(prefixes, b.Prefix)
	}
	assert.Equal(t, []string{"ex", "rdf", "schema"}, prefixes)
}

func TestPrefixMapExpand(t *testing.T) {
	m := StandardPrefixes()
	require.NoError(t, m.Bind("http://example.org/", "ex"))

	iri, ok := m.Expand("ex:Thing")
	assert.True(t, ok)
	assert.Equal(t, IRI("http://example.org/Thing"), iri)

	iri, ok = m.Expand("rdf:type")
	assert.True(t, ok)
	assert.Equal(t, RDFType, iri)

	_, ok = m.Expand("nope:Thing")
	assert.False(t, ok)

	_, ok = m.Expand("noColon")
	assert.False(t, ok)
}

func TestPrefixMapNil(t *testing.T) {
	var m *PrefixMap
	_, ok := m.Lookup("http://example.org/")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Bindings())
}

func TestPrefixMapCloneAndMerge(t *testing.T) {
	base := MustPrefixMap(Binding{Namespace: "http://example.org/", Prefix: "ex"})
	clone := base.Clone()
	require.NoError(t, clone.Bind("http://other.org/", "o"))
	assert.Equal(t, 1, base.Len(), "clone must not share state")

	clone.Merge(StandardPrefixes())
	assert.Equal(t, 6, clone.Len())

	p, _ := clone.Lookup("http://example.org/")
	assert.Equal(t, "ex", p, "merge must not override existing bindings")
}
