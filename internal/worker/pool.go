// Package worker fans candidate chunks out to a fixed set of goroutines.
// Chunks are claimed atomically off a shared channel; a shared stop flag is
// checked before every probe so all workers wind down within one candidate
// of a match, an error, or a cancellation. Each claimed chunk produces one
// Result, and results are delivered to a single aggregator so downstream
// bookkeeping never runs concurrently.
package worker

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ferroclast/pdforce/internal/generator"
	"github.com/ferroclast/pdforce/internal/plan"
	"github.com/ferroclast/pdforce/internal/probe"
)

// Match records the candidate that opened the target.
type Match struct {
	Password  string
	Generator int
	Offset    uint64
}

// Outcome classifies how a chunk's probing ended.
type Outcome int

const (
	// OutcomeExhausted means every candidate in the chunk was probed with no
	// match. Only exhausted chunks count toward durable coverage.
	OutcomeExhausted Outcome = iota
	// OutcomeFound means a candidate in the chunk opened the target.
	OutcomeFound
	// OutcomeAborted means the chunk was cut short by a stop signal, a
	// cancellation, or an enumeration failure.
	OutcomeAborted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFound:
		return "found"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result reports one claimed chunk back to the aggregator. Chunks that were
// never claimed before the pool stopped produce no Result.
type Result struct {
	Chunk   plan.Chunk
	Outcome Outcome

	// Match is set for OutcomeFound.
	Match *Match

	// Err is set for OutcomeAborted when the chunk failed to enumerate; it is
	// nil when the chunk was merely cut short.
	Err error

	// Tried counts candidates probed in this chunk, including chunks cut
	// short partway through.
	Tried uint64

	// ProbeErrors counts candidates skipped because their probe failed.
	ProbeErrors uint64

	Elapsed time.Duration
}

// Config wires a pool's collaborators. Zero values get sensible defaults.
type Config struct {
	// Workers is the number of probing goroutines. Defaults to one less than
	// the CPU count, minimum one.
	Workers int

	// Prober tests candidates. Required.
	Prober probe.Prober

	// Generators is the lineup chunks index into. Required.
	Generators []generator.Generator

	// Logger defaults to a discard logger.
	Logger *slog.Logger

	// OnResult receives every chunk result. Calls are serialized on a single
	// aggregator goroutine, so the handler may update shared state without
	// locking against other results. All results are delivered before Run
	// returns.
	OnResult func(Result)
}

// DefaultWorkers returns the default probing parallelism.
func DefaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}

	return n
}

// Pool coordinates one search run. A pool is single use: Run may be called
// once.
type Pool struct {
	cfg Config

	stop  atomic.Bool
	match atomic.Pointer[Match]

	mu     sync.Mutex
	runErr error
}

// New creates a pool from cfg, applying defaults.
func New(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers()
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Pool{cfg: cfg}
}

// Run probes every chunk and returns the match if one was found. A nil match
// with a nil error means the chunks were exhausted without a hit. The error
// is the context's error when the run was cancelled, or the first candidate
// enumeration failure.
func (p *Pool) Run(ctx context.Context, chunks []plan.Chunk) (*Match, error) {
	work := make(chan plan.Chunk, len(chunks))
	for _, c := range chunks {
		work <- c
	}
	close(work)

	results := make(chan Result, p.cfg.Workers)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for res := range results {
			if p.cfg.OnResult != nil {
				p.cfg.OnResult(res)
			}
		}
	}()

	var wg sync.WaitGroup

	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			p.runWorker(ctx, id, work, results)
		}(i)
	}

	wg.Wait()
	close(results)
	<-done

	if m := p.match.Load(); m != nil {
		return m, nil
	}

	p.mu.Lock()
	runErr := p.runErr
	p.mu.Unlock()

	if runErr != nil {
		return nil, runErr
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return nil, nil
}

func (p *Pool) runWorker(ctx context.Context, id int, work <-chan plan.Chunk, results chan<- Result) {
	logger := p.cfg.Logger.With("worker", id)

	for chunk := range work {
		if p.stop.Load() || ctx.Err() != nil {
			return
		}

		results <- p.runChunk(ctx, logger, chunk)
	}
}

func (p *Pool) runChunk(ctx context.Context, logger *slog.Logger, chunk plan.Chunk) Result {
	g := p.cfg.Generators[chunk.Generator]
	began := time.Now()

	res := Result{Chunk: chunk, Outcome: OutcomeExhausted}

	err := g.Iterate(chunk.Start, chunk.End, func(offset uint64, candidate string) bool {
		if p.stop.Load() || ctx.Err() != nil {
			res.Outcome = OutcomeAborted

			return false
		}

		found, probeErr := p.cfg.Prober.Try(ctx, candidate)

		// A probe cut short by cancellation is the stop signal arriving
		// mid-candidate, not a candidate that failed to evaluate.
		if probeErr != nil && ctx.Err() != nil {
			res.Outcome = OutcomeAborted

			return false
		}

		res.Tried++

		if probeErr != nil {
			// Wrong passwords come back as a clean no-match; a probe error
			// means the candidate could not be evaluated. Skip it and keep
			// searching rather than losing the rest of the space.
			logger.WarnContext(ctx, "candidate skipped, probe failed",
				"generator", chunk.Generator,
				"offset", offset,
				"error", probeErr)

			res.ProbeErrors++

			return true
		}

		if found {
			m := &Match{Password: candidate, Generator: chunk.Generator, Offset: offset}
			p.recordMatch(m)

			res.Outcome = OutcomeFound
			res.Match = m

			return false
		}

		return true
	})
	if err != nil {
		p.recordError(err)

		res.Outcome = OutcomeAborted
		res.Err = err
	}

	res.Elapsed = time.Since(began)

	return res
}

// recordMatch keeps the first match and signals all workers to stop.
func (p *Pool) recordMatch(m *Match) {
	if p.match.CompareAndSwap(nil, m) {
		p.stop.Store(true)
	}
}

// recordError keeps the first enumeration failure and signals all workers to
// stop.
func (p *Pool) recordError(err error) {
	p.mu.Lock()
	if p.runErr == nil {
		p.runErr = err
	}
	p.mu.Unlock()

	p.stop.Store(true)
}
