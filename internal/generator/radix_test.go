package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabetic_Bounds(t *testing.T) {
	t.Parallel()

	g, err := NewAlphabetic(4, CaseLower)
	require.NoError(t, err)

	assert.Equal(t, uint64(26*26*26*26), g.Size())

	first, err := g.At(0)
	require.NoError(t, err)
	assert.Equal(t, "aaaa", first)

	last, err := g.At(g.Size() - 1)
	require.NoError(t, err)
	assert.Equal(t, "zzzz", last)
}

func TestAlphabetic_OdometerOrder(t *testing.T) {
	t.Parallel()

	g, err := NewAlphabetic(2, CaseLower)
	require.NoError(t, err)

	second, err := g.At(1)
	require.NoError(t, err)
	assert.Equal(t, "ab", second)

	rollover, err := g.At(26)
	require.NoError(t, err)
	assert.Equal(t, "ba", rollover)
}

func TestAlphabetic_LexicographicOrder(t *testing.T) {
	t.Parallel()

	g, err := NewAlphabetic(3, CaseLower)
	require.NoError(t, err)

	var prev string

	err = g.Iterate(0, 1000, func(_ uint64, candidate string) bool {
		if prev != "" {
			require.Less(t, prev, candidate)
		}

		prev = candidate

		return true
	})
	require.NoError(t, err)
}

func TestAlphabetic_CaseModes(t *testing.T) {
	t.Parallel()

	upper, err := NewAlphabetic(1, CaseUpper)
	require.NoError(t, err)
	assert.Equal(t, uint64(26), upper.Size())

	first, err := upper.At(0)
	require.NoError(t, err)
	assert.Equal(t, "A", first)

	mixed, err := NewAlphabetic(1, CaseMixed)
	require.NoError(t, err)
	assert.Equal(t, uint64(52), mixed.Size())

	_, err = NewAlphabetic(3, "sponge")
	require.Error(t, err)
}

func TestAlphabetic_DefaultsToLower(t *testing.T) {
	t.Parallel()

	g, err := NewAlphabetic(2, "")
	require.NoError(t, err)

	assert.Equal(t, CaseLower, g.Spec().Case)
}

func TestAlphanumeric_AlphabetSize(t *testing.T) {
	t.Parallel()

	plain, err := NewAlphanumeric(1, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(62), plain.Size())

	withSymbols, err := NewAlphanumeric(1, true)
	require.NoError(t, err)
	assert.Greater(t, withSymbols.Size(), plain.Size())
}

func TestRadix_IterateMatchesAt(t *testing.T) {
	t.Parallel()

	g, err := NewAlphanumeric(3, true)
	require.NoError(t, err)

	// Straddle several odometer rollovers.
	iterateMatchesAt(t, g, 9400, 9600)
	iterateMatchesAt(t, g, g.Size()-50, g.Size())
}

func TestRadix_IterateStopsEarly(t *testing.T) {
	t.Parallel()

	g, err := NewAlphabetic(3, CaseLower)
	require.NoError(t, err)

	var count int

	err = g.Iterate(100, 200, func(uint64, string) bool {
		count++

		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRadix_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewAlphabetic(0, CaseLower)
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = NewAlphanumeric(64, true)
	require.ErrorIs(t, err, ErrSpaceTooLarge)

	g, err := NewAlphabetic(2, CaseLower)
	require.NoError(t, err)

	_, err = g.At(g.Size())
	require.ErrorIs(t, err, ErrOffsetOutOfRange)

	err = g.Iterate(10, 5, func(uint64, string) bool { return true })
	require.ErrorIs(t, err, ErrOffsetOutOfRange)
}
