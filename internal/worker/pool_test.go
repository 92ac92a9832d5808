package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferroclast/pdforce/internal/generator"
	"github.com/ferroclast/pdforce/internal/plan"
)

// passwordProber matches exactly one password and counts probes.
type passwordProber struct {
	password string
	probes   atomic.Uint64

	failOn string
	err    error
}

func (p *passwordProber) Try(_ context.Context, candidate string) (bool, error) {
	p.probes.Add(1)

	if p.failOn != "" && candidate == p.failOn {
		return false, p.err
	}

	return candidate == p.password, nil
}

// resultLog collects pool results. OnResult calls are serialized and all
// delivered before Run returns, so no locking is needed.
type resultLog struct {
	results []Result
}

func (l *resultLog) record(res Result) {
	l.results = append(l.results, res)
}

func (l *resultLog) byOutcome(o Outcome) []Result {
	var out []Result

	for _, res := range l.results {
		if res.Outcome == o {
			out = append(out, res)
		}
	}

	return out
}

func (l *resultLog) tried() uint64 {
	var n uint64

	for _, res := range l.results {
		n += res.Tried
	}

	return n
}

func (l *resultLog) probeErrors() uint64 {
	var n uint64

	for _, res := range l.results {
		n += res.ProbeErrors
	}

	return n
}

func numericLineup(t *testing.T, length int) []generator.Generator {
	t.Helper()

	g, err := generator.NewNumeric(length)
	require.NoError(t, err)

	return []generator.Generator{g}
}

func chunksFor(gens []generator.Generator, chunkSize uint64) []plan.Chunk {
	p := &plan.Plan{Generators: gens}

	return p.Partition(chunkSize)
}

func TestPool_FindsPassword(t *testing.T) {
	t.Parallel()

	gens := numericLineup(t, 4)
	prober := &passwordProber{password: "0042"}

	pool := New(Config{
		Workers:    4,
		Prober:     prober,
		Generators: gens,
	})

	match, err := pool.Run(context.Background(), chunksFor(gens, 100))
	require.NoError(t, err)
	require.NotNil(t, match)

	assert.Equal(t, "0042", match.Password)
	assert.Equal(t, 0, match.Generator)
	assert.Equal(t, uint64(42), match.Offset)
}

func TestPool_ExhaustsSpaceWithoutMatch(t *testing.T) {
	t.Parallel()

	gens := numericLineup(t, 3)
	prober := &passwordProber{password: "not-a-number"}

	var log resultLog

	pool := New(Config{
		Workers:    3,
		Prober:     prober,
		Generators: gens,
		OnResult:   log.record,
	})

	chunks := chunksFor(gens, 100)

	match, err := pool.Run(context.Background(), chunks)
	require.NoError(t, err)
	assert.Nil(t, match)

	// Every chunk reports exactly one exhausted result and every candidate
	// was probed exactly once.
	assert.Len(t, log.byOutcome(OutcomeExhausted), len(chunks))
	assert.Equal(t, uint64(1000), log.tried())
	assert.Equal(t, uint64(1000), prober.probes.Load())
}

func TestPool_StopsRemainingWorkAfterMatch(t *testing.T) {
	t.Parallel()

	gens := numericLineup(t, 4)
	prober := &passwordProber{password: "0005"}

	pool := New(Config{
		Workers:    1,
		Prober:     prober,
		Generators: gens,
	})

	match, err := pool.Run(context.Background(), chunksFor(gens, 100))
	require.NoError(t, err)
	require.NotNil(t, match)

	// A single worker hits the match in the first chunk and must not probe
	// the other ninety-nine.
	assert.Equal(t, uint64(6), prober.probes.Load())
}

func TestPool_MatchedChunkReportsFound(t *testing.T) {
	t.Parallel()

	gens := numericLineup(t, 2)
	prober := &passwordProber{password: "50"}

	var log resultLog

	pool := New(Config{
		Workers:    1,
		Prober:     prober,
		Generators: gens,
		OnResult:   log.record,
	})

	match, err := pool.Run(context.Background(), chunksFor(gens, 100))
	require.NoError(t, err)
	require.NotNil(t, match)

	// The matched chunk was cut short at the hit, so it must not be reported
	// as exhausted coverage.
	assert.Empty(t, log.byOutcome(OutcomeExhausted))

	found := log.byOutcome(OutcomeFound)
	require.Len(t, found, 1)
	require.NotNil(t, found[0].Match)
	assert.Equal(t, "50", found[0].Match.Password)
	assert.Equal(t, uint64(51), found[0].Tried)
}

func TestPool_SkipsFailingCandidateAndContinues(t *testing.T) {
	t.Parallel()

	gens := numericLineup(t, 3)
	prober := &passwordProber{
		password: "none",
		failOn:   "007",
		err:      errors.New("transient io failure"),
	}

	var log resultLog

	pool := New(Config{
		Workers:    2,
		Prober:     prober,
		Generators: gens,
		OnResult:   log.record,
	})

	match, err := pool.Run(context.Background(), chunksFor(gens, 50))
	require.NoError(t, err)
	assert.Nil(t, match)

	// The failing candidate was skipped, everything else was still probed.
	assert.Equal(t, uint64(1000), prober.probes.Load())
	assert.Equal(t, uint64(1), log.probeErrors())
}

func TestPool_ReportsEnumerationFailure(t *testing.T) {
	t.Parallel()

	gens := numericLineup(t, 3)
	prober := &passwordProber{password: "none"}

	var log resultLog

	pool := New(Config{
		Workers:    1,
		Prober:     prober,
		Generators: gens,
		OnResult:   log.record,
	})

	// A chunk reaching past the generator's space fails to enumerate.
	chunks := []plan.Chunk{{Generator: 0, Start: 900, End: 1100}}

	match, err := pool.Run(context.Background(), chunks)
	require.ErrorIs(t, err, generator.ErrOffsetOutOfRange)
	assert.Nil(t, match)

	aborted := log.byOutcome(OutcomeAborted)
	require.Len(t, aborted, 1)
	assert.ErrorIs(t, aborted[0].Err, generator.ErrOffsetOutOfRange)
}

func TestPool_HonorsCancellation(t *testing.T) {
	t.Parallel()

	gens := numericLineup(t, 4)
	prober := &passwordProber{password: "none"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := New(Config{
		Workers:    2,
		Prober:     prober,
		Generators: gens,
	})

	match, err := pool.Run(ctx, chunksFor(gens, 100))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, match)
}

func TestPool_DefaultWorkers(t *testing.T) {
	t.Parallel()

	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}
