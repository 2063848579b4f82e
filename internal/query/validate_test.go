package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sparqlq/internal/expr"
	"github.com/roach88/sparqlq/internal/rdf"
)

func TestValidate_Clean(t *testing.T) {
	result := Validate(baseQuery(t))
	assert.True(t, result.IsClean)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name string
		q    *Query
		want []string
	}{
		{
			name: "nil query",
			q:    nil,
			want: []string{"nil query"},
		},
		{
			name: "empty projection and empty root",
			q:    MustNew(),
			want: []string{
				"empty projection - compiles as SELECT *",
				"where: empty group - serializes as { }",
			},
		},
		{
			name: "limit zero",
			q:    MustNew(WithProjection(rdf.Variable("s")), WithPatterns(thingTriple()), WithLimit(0)),
			want: []string{"LIMIT 0 - query returns no solutions"},
		},
		{
			name: "filter on empty group",
			q:    MustNew(WithProjection(rdf.Variable("s"))).Filter(expr.Var("x")),
			want: []string{"where: filters on an empty group"},
		},
		{
			name: "nested empty group",
			q:    MustNew(WithProjection(rdf.Variable("s")), WithPatterns(thingTriple(), NewGroup())),
			want: []string{"where/1: empty group - serializes as { }"},
		},
		{
			name: "single alternative union",
			q:    MustNew(WithProjection(rdf.Variable("s")), WithPatterns(NewUnion(thingTriple()))),
			want: []string{"where/0/union: union has a single alternative"},
		},
		{
			name: "empty union",
			q:    MustNew(WithProjection(rdf.Variable("s")), WithPatterns(NewUnion())),
			want: []string{"where/0/union: union has no alternatives - serializes as { }"},
		},
		{
			name: "optional alternative",
			q: MustNew(
				WithProjection(rdf.Variable("s")),
				WithPatterns(NewUnion(thingTriple(), Optional(thingTriple()))),
			),
			want: []string{"where/0/union/1: OPTIONAL group used directly as a union alternative"},
		},
		{
			name: "missing triple term",
			q: MustNew(
				WithProjection(rdf.Variable("s")),
				WithPatterns(NewTriple(rdf.Variable("s"), nil, rdf.Variable("o"))),
			),
			want: []string{"where/0: triple with missing term"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.q)
			assert.False(t, result.IsClean)
			assert.Equal(t, tt.want, result.Warnings)
		})
	}
}
