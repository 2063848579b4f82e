package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	q := baseQuery(t)

	tests := []struct {
		name       string
		r          Range
		wantLimit  int
		hasLimit   bool
		wantOffset int
		hasOffset  bool
	}{
		{"between", Between(10, 20), 10, true, 10, true},
		{"until", Until(5), 5, true, 0, false},
		{"from", From(5), 0, false, 5, true},
		{"empty range", Between(3, 3), 0, true, 3, true},
		{"zero start", Between(0, 4), 4, true, 0, false},
		{"explicit step one", Between(2, 6).Every(1), 4, true, 2, true},
		{"no bounds", Range{}, 0, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := q.Slice(tt.r)
			require.NoError(t, err)

			n, ok := s.LimitValue()
			assert.Equal(t, tt.hasLimit, ok)
			assert.Equal(t, tt.wantLimit, n)

			n, ok = s.OffsetValue()
			assert.Equal(t, tt.hasOffset, ok)
			assert.Equal(t, tt.wantOffset, n)
		})
	}
}

func TestSlice_ClearsAbsentBound(t *testing.T) {
	q := baseQuery(t).Limit(100).Offset(7)

	s, err := q.Slice(From(20))
	require.NoError(t, err)
	_, hasLimit := s.LimitValue()
	assert.False(t, hasLimit, "a start-only slice clears the limit")
	n, _ := s.OffsetValue()
	assert.Equal(t, 20, n)

	s, err = q.Slice(Until(3))
	require.NoError(t, err)
	_, hasOffset := s.OffsetValue()
	assert.False(t, hasOffset, "a stop-only slice clears the offset")
	n, _ = s.LimitValue()
	assert.Equal(t, 3, n)

	s, err = q.Slice(Range{})
	require.NoError(t, err)
	_, hasLimit = s.LimitValue()
	_, hasOffset = s.OffsetValue()
	assert.False(t, hasLimit, "[:] clears the limit")
	assert.False(t, hasOffset, "[:] clears the offset")

	n, _ = q.LimitValue()
	assert.Equal(t, 100, n, "the sliced query is unchanged")
}

func TestSlice_Errors(t *testing.T) {
	q := baseQuery(t)

	tests := []struct {
		name string
		r    Range
		code ConstructionErrorCode
	}{
		{"step two", Between(0, 10).Every(2), ErrCodeSliceStep},
		{"step on empty range", Range{}.Every(2), ErrCodeSliceStep},
		{"step zero", From(1).Every(0), ErrCodeSliceStep},
		{"negative start", From(-1), ErrCodeSliceBounds},
		{"negative stop", Until(-1), ErrCodeSliceBounds},
		{"stop before start", Between(5, 2), ErrCodeSliceBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := q.Slice(tt.r)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, IsConstructionError(err))
			assert.Equal(t, tt.code, ErrorCode(err))
		})
	}
}

func TestSlice_DoesNotMutateReceiver(t *testing.T) {
	q := baseQuery(t)
	_, err := q.Slice(Between(1, 2))
	require.NoError(t, err)

	_, ok := q.LimitValue()
	assert.False(t, ok)
	_, ok = q.OffsetValue()
	assert.False(t, ok)
}
