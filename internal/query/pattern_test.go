package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlq/internal/expr"
	"github.com/roach88/sparqlq/internal/rdf"
)

func TestNewGroup_DropsNil(t *testing.T) {
	var nilGroup *Group
	var nilUnion *Union

	g := NewGroup(nil, thingTriple(), nilGroup, nilUnion)
	assert.Equal(t, 1, g.Len())
	assert.False(t, g.IsEmpty())
	assert.False(t, g.IsOptional())
}

func TestGroup_EmptyIsValid(t *testing.T) {
	g := NewGroup()
	assert.True(t, g.IsEmpty())
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Children())
}

func TestGroup_FilterSkipsNil(t *testing.T) {
	g := NewGroup(thingTriple())
	g.Filter(nil, nil)
	assert.Empty(t, g.Filters())

	g.Filter(nil, expr.Var("ok"))
	require.Len(t, g.Filters(), 1)
	assert.Equal(t, expr.Var("ok"), g.Filters()[0].Constraint)
}

func TestGroup_AccessorsReturnCopies(t *testing.T) {
	g := NewGroup(thingTriple())
	g.Filter(expr.Var("a"))

	children := g.Children()
	children[0] = nil
	filters := g.Filters()
	filters[0] = Filter{}

	assert.Equal(t, thingTriple(), g.Children()[0])
	assert.Equal(t, expr.Var("a"), g.Filters()[0].Constraint)
}

func TestGroup_Clone(t *testing.T) {
	orig := NewGroup(thingTriple())
	orig.Filter(expr.Var("a"))

	t.Run("independent lists", func(t *testing.T) {
		c := orig.Clone()
		c.Add(thingTriple())
		c.Filter(expr.Var("b"))

		assert.Equal(t, 1, orig.Len())
		assert.Len(t, orig.Filters(), 1)
		assert.Equal(t, 2, c.Len())
		assert.Len(t, c.Filters(), 2)
	})

	t.Run("clone of published is unpublished", func(t *testing.T) {
		p := NewGroup(thingTriple())
		p.publish()
		c := p.Clone()
		assert.True(t, p.IsPublished())
		assert.False(t, c.IsPublished())
		assert.NotPanics(t, func() { c.Add(thingTriple()) })
	})

	t.Run("overrides", func(t *testing.T) {
		other := NewTriple(rdf.Variable("x"), rdf.IRI(ex+"p"), rdf.Variable("y"))
		c := orig.Clone(WithOptional(true), WithChildren(other), WithFilters())

		assert.True(t, c.IsOptional())
		assert.Equal(t, []Pattern{other}, c.Children())
		assert.Empty(t, c.Filters())
		assert.False(t, orig.IsOptional())
	})
}

func TestPublish_Recursive(t *testing.T) {
	inner := NewGroup(thingTriple())
	alt := NewGroup(thingTriple())
	u := NewUnion(alt)
	outer := NewGroup(inner, u)

	outer.publish()

	assert.True(t, outer.IsPublished())
	assert.True(t, inner.IsPublished())
	assert.True(t, alt.IsPublished())
	assert.Panics(t, func() { alt.Add(thingTriple()) })
}

func TestOptional(t *testing.T) {
	opt := Optional(thingTriple())
	assert.True(t, opt.IsOptional())
	assert.Equal(t, 1, opt.Len())
	assert.Equal(t, thingTriple(), opt.Children()[0], "triples are kept as direct children")
}

func TestUnion_OrderAndCoercion(t *testing.T) {
	a := NewTriple(rdf.Variable("s"), rdf.IRI(ex+"a"), rdf.Variable("o"))
	b := NewGroup(NewTriple(rdf.Variable("s"), rdf.IRI(ex+"b"), rdf.Variable("o")))
	c := NewUnion(a)

	u := NewUnion(a, nil, b, c)

	alts := u.Alternatives()
	require.Len(t, alts, 3)
	assert.Equal(t, 3, u.Len())

	wrapped, ok := alts[0].(*Group)
	require.True(t, ok, "a triple alternative is wrapped in a group")
	assert.Equal(t, []Pattern{a}, wrapped.Children())
	assert.Same(t, b, alts[1])
	assert.Same(t, c, alts[2])
}

func TestUnion_Empty(t *testing.T) {
	u := NewUnion()
	assert.Equal(t, 0, u.Len())
	assert.Empty(t, u.Alternatives())
}

func TestAsGraphPattern(t *testing.T) {
	var nilGroup *Group
	var nilUnion *Union

	assert.Nil(t, AsGraphPattern(nil))
	assert.Nil(t, AsGraphPattern(nilGroup))
	assert.Nil(t, AsGraphPattern(nilUnion))

	g := NewGroup()
	assert.Same(t, g, AsGraphPattern(g))

	u := NewUnion()
	assert.Same(t, u, AsGraphPattern(u))

	wrapped := AsGraphPattern(thingTriple())
	require.NotNil(t, wrapped)
	assert.Equal(t, 1, wrapped.Len())
}
