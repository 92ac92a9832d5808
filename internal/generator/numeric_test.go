package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric_Size(t *testing.T) {
	t.Parallel()

	g, err := NewNumeric(4)
	require.NoError(t, err)

	assert.Equal(t, uint64(10000), g.Size())
}

func TestNumeric_ZeroPadding(t *testing.T) {
	t.Parallel()

	g, err := NewNumeric(6)
	require.NoError(t, err)

	first, err := g.At(0)
	require.NoError(t, err)
	assert.Equal(t, "000000", first)

	mid, err := g.At(42)
	require.NoError(t, err)
	assert.Equal(t, "000042", mid)

	last, err := g.At(g.Size() - 1)
	require.NoError(t, err)
	assert.Equal(t, "999999", last)
}

func TestNumeric_AscendingOrder(t *testing.T) {
	t.Parallel()

	g, err := NewNumeric(3)
	require.NoError(t, err)

	var prev string

	err = g.Iterate(0, g.Size(), func(_ uint64, candidate string) bool {
		if prev != "" {
			require.Less(t, prev, candidate)
		}

		prev = candidate

		return true
	})
	require.NoError(t, err)
}

func TestNumeric_IterateMatchesAt(t *testing.T) {
	t.Parallel()

	g, err := NewNumeric(4)
	require.NoError(t, err)

	iterateMatchesAt(t, g, 9980, 10000)
}

func TestNumeric_IterateStopsEarly(t *testing.T) {
	t.Parallel()

	g, err := NewNumeric(2)
	require.NoError(t, err)

	var count int

	err = g.Iterate(0, 100, func(uint64, string) bool {
		count++

		return count < 5
	})
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNumeric_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewNumeric(0)
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = NewNumeric(20)
	require.ErrorIs(t, err, ErrSpaceTooLarge)

	g, err := NewNumeric(2)
	require.NoError(t, err)

	_, err = g.At(100)
	require.ErrorIs(t, err, ErrOffsetOutOfRange)

	err = g.Iterate(50, 101, func(uint64, string) bool { return true })
	require.ErrorIs(t, err, ErrOffsetOutOfRange)
}
