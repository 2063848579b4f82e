package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlq/internal/querysparql"
)

const (
	textA = "SELECT ?s\nWHERE { ?s ?p ?o . }"
	textB = "SELECT ?s\nWHERE { ?s ?p ?o . } LIMIT 10"
)

func TestSaveQuery(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "id-1", "id-2", "id-3")

	rec, inserted, err := s.SaveQuery(ctx, "things", textA)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, Record{
		ID:          "id-1",
		Name:        "things",
		Fingerprint: querysparql.Fingerprint(textA),
		Text:        textA,
		Seq:         1,
	}, rec)

	t.Run("same text is idempotent", func(t *testing.T) {
		again, inserted, err := s.SaveQuery(ctx, "things", textA)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, rec, again)
	})

	t.Run("new text takes next seq", func(t *testing.T) {
		next, inserted, err := s.SaveQuery(ctx, "things", textB)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.Equal(t, "id-2", next.ID)
		assert.Equal(t, int64(2), next.Seq)
	})

	t.Run("same text under another name", func(t *testing.T) {
		other, inserted, err := s.SaveQuery(ctx, "others", textA)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.Equal(t, "id-3", other.ID)
		assert.Equal(t, rec.Fingerprint, other.Fingerprint)
	})
}

func TestListQueries(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "b", "a", "c")

	records, err := s.ListQueries(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	for _, name := range []string{"z", "y", "x"} {
		_, _, err := s.SaveQuery(ctx, name, textA)
		require.NoError(t, err)
	}

	records, err = s.ListQueries(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// seq order, not id or name order
	assert.Equal(t, []string{"z", "y", "x"}, []string{records[0].Name, records[1].Name, records[2].Name})
	assert.Equal(t, []int64{1, 2, 3}, []int64{records[0].Seq, records[1].Seq, records[2].Seq})
}

func TestGetQuery(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "id-1", "id-2")

	_, err := s.GetQuery(ctx, "things")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = s.SaveQuery(ctx, "things", textA)
	require.NoError(t, err)
	_, _, err = s.SaveQuery(ctx, "things", textB)
	require.NoError(t, err)

	latest, err := s.GetQuery(ctx, "things")
	require.NoError(t, err)
	assert.Equal(t, textB, latest.Text, "latest seq wins")
	assert.Equal(t, "id-2", latest.ID)
}

func TestFixedGenerator_Exhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	var g UUIDv7Generator
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
