package progress

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSilent_ImplementsReporter(t *testing.T) {
	t.Parallel()

	var r Reporter = Silent{}

	r.Start(1000, 0)
	r.Add(10)
	r.Finish("done")
}

func TestConsole_TracksProgress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	c := NewConsole(&buf)
	c.Start(1000, 200)
	c.Add(300)
	c.Finish("exhausted")

	require.NotNil(t, c.tracker)
	assert.Equal(t, int64(500), c.tracker.Value())
	assert.True(t, c.tracker.IsDone())
}

func TestConsole_AddBeforeStartIsNoop(t *testing.T) {
	t.Parallel()

	c := NewConsole(&bytes.Buffer{})
	c.Add(5)
	c.Finish("nothing started")
}

func TestClampInt64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(42), clampInt64(42))
	assert.Equal(t, int64(math.MaxInt64), clampInt64(math.MaxUint64))
}
