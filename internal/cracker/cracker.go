// Package cracker orchestrates a password search end to end: it restores
// saved progress, partitions the remaining candidate space, drives the worker
// pool, and persists progress along the way. A run ends in exactly one of
// three states: the password was found, the space was exhausted, or the run
// was interrupted with its progress saved.
package cracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ferroclast/pdforce/internal/checkpoint"
	"github.com/ferroclast/pdforce/internal/observability"
	"github.com/ferroclast/pdforce/internal/plan"
	"github.com/ferroclast/pdforce/internal/probe"
	"github.com/ferroclast/pdforce/internal/progress"
	"github.com/ferroclast/pdforce/internal/worker"
)

// Status is the terminal state of a search run.
type Status int

// Terminal states.
const (
	StatusFound Status = iota
	StatusExhausted
	StatusInterrupted
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusExhausted:
		return "exhausted"
	case StatusInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// phase labels for run lifecycle logging.
const (
	phaseInit         = "init"
	phaseLoadingState = "loading_state"
	phaseRunning      = "running"
)

// Sentinel errors for run configuration.
var (
	// ErrMissingPlan indicates options without a search plan.
	ErrMissingPlan = errors.New("run requires a search plan")
	// ErrMissingProber indicates options without a prober.
	ErrMissingProber = errors.New("run requires a prober")
)

// Options wires a run's collaborators. Plan and Prober are required; nil
// optional collaborators disable their concern.
type Options struct {
	Plan   *plan.Plan
	Prober probe.Prober

	// Workers and ChunkSize are passed through to the pool and partitioner;
	// zero selects their defaults.
	Workers   int
	ChunkSize uint64

	// Store persists progress. Nil disables checkpointing entirely.
	Store *checkpoint.Store

	// IgnoreState starts fresh even when a valid checkpoint exists.
	IgnoreState bool

	// SaveInterval throttles how often progress is persisted. Zero selects
	// the default.
	SaveInterval time.Duration

	Logger   *slog.Logger
	Metrics  *observability.SearchMetrics
	Reporter progress.Reporter
}

// defaultSaveInterval matches the config default.
const defaultSaveInterval = 5 * time.Second

// Summary reports the outcome of a run.
type Summary struct {
	Status   Status
	Password string

	// Generator and Offset locate the match within the lineup. Only set for
	// StatusFound.
	Generator string
	Offset    uint64

	// Resumed is true when the run continued a previous session.
	Resumed bool

	// Tried counts candidates probed this session; TotalTried includes
	// previous sessions of the same search.
	Tried      uint64
	TotalTried uint64

	// Elapsed is this session's wall-clock time; TotalElapsed includes
	// previous sessions.
	Elapsed      time.Duration
	TotalElapsed time.Duration

	// TotalCandidates is the size of the full search space.
	TotalCandidates uint64
}

// Run executes the search to a terminal state. Interruption through ctx is a
// normal outcome: progress is saved and a StatusInterrupted summary is
// returned with a nil error. A non-nil error means the search could not run
// or could not continue, with progress saved where possible.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Plan == nil {
		return nil, ErrMissingPlan
	}

	if opts.Prober == nil {
		return nil, ErrMissingProber
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.Silent{}
	}

	saveInterval := opts.SaveInterval
	if saveInterval <= 0 {
		saveInterval = defaultSaveInterval
	}

	r := &run{
		opts:         opts,
		logger:       logger,
		reporter:     reporter,
		saveInterval: saveInterval,
		specIDs:      opts.Plan.SpecIDs(),
		began:        time.Now(),
	}

	return r.execute(ctx)
}

// run carries one execution's mutable state.
type run struct {
	opts         Options
	logger       *slog.Logger
	reporter     progress.Reporter
	saveInterval time.Duration
	specIDs      []string
	began        time.Time

	tracker *checkpoint.Tracker

	// prior progress restored from a checkpoint.
	resumed      bool
	priorTried   uint64
	priorElapsed time.Duration
	createdAt    time.Time
	priorFound   *worker.Match

	// found is recorded before the final save so the checkpoint carries the
	// password.
	found *worker.Match

	saveMu   sync.Mutex
	lastSave time.Time
}

func (r *run) execute(ctx context.Context) (*Summary, error) {
	p := r.opts.Plan

	r.logger.InfoContext(ctx, "search starting",
		"phase", phaseInit,
		"target", p.Target.Path,
		"fingerprint", p.Fingerprint,
		"generators", r.specIDs,
		"candidates", p.TotalSize())

	resume := r.loadState(ctx)
	r.tracker = checkpoint.NewTracker(len(p.Generators), resume)

	// A previous session already found the password; nothing left to search.
	if r.priorFound != nil {
		r.logger.InfoContext(ctx, "password already found in a previous session",
			"generator", r.specIDs[r.priorFound.Generator])

		r.found = r.priorFound

		return r.conclude(ctx, r.priorFound, nil)
	}

	chunks := p.PartitionFrom(resume, r.opts.ChunkSize)

	var resumedCount uint64
	for _, n := range r.tracker.Prefix() {
		resumedCount += n
	}

	r.logger.InfoContext(ctx, "search running",
		"phase", phaseRunning,
		"chunks", len(chunks),
		"resumed_candidates", resumedCount,
		"workers", r.opts.Workers)

	r.reporter.Start(p.TotalSize(), resumedCount)

	pool := worker.New(worker.Config{
		Workers:    r.opts.Workers,
		Prober:     r.opts.Prober,
		Generators: p.Generators,
		Logger:     r.logger,
		OnResult:   r.onResult(ctx),
	})

	match, err := pool.Run(ctx, chunks)

	return r.conclude(ctx, match, err)
}

// loadState restores the contiguous completed prefixes from a previous
// session, or returns nil for a fresh search. Unusable state never aborts a
// run: a mismatched or corrupt checkpoint is logged and the search starts
// over.
func (r *run) loadState(ctx context.Context) []uint64 {
	r.createdAt = r.began

	if r.opts.Store == nil {
		return nil
	}

	// An explicit fresh start discards whatever was saved.
	if r.opts.IgnoreState {
		r.clearState(ctx)

		return nil
	}

	r.logger.InfoContext(ctx, "loading saved progress", "phase", phaseLoadingState)

	state, err := r.opts.Store.Load()
	if err != nil {
		if !errors.Is(err, checkpoint.ErrNoCheckpoint) {
			r.logger.WarnContext(ctx, "saved progress unusable, starting fresh", "error", err)
		}

		return nil
	}

	err = state.Validate(r.opts.Plan.Fingerprint, len(r.opts.Plan.Generators))
	if err != nil {
		r.logger.WarnContext(ctx, "saved progress belongs to a different search, starting fresh",
			"error", err)

		return nil
	}

	r.resumed = true
	r.priorTried = state.Tried
	r.priorElapsed = time.Duration(state.ElapsedSeconds * float64(time.Second))
	r.createdAt = state.CreatedAt

	if state.Found != "" {
		r.priorFound = &worker.Match{
			Password:  state.Found,
			Generator: indexOf(r.specIDs, state.FoundGenerator),
			Offset:    state.FoundOffset,
		}
	}

	r.logger.InfoContext(ctx, "resuming previous session",
		"tried", state.Tried,
		"saved_at", state.UpdatedAt)

	return state.Completed
}

// indexOf returns the lineup position of the given spec ID, or zero when it
// is not present.
func indexOf(specIDs []string, id string) int {
	for i, s := range specIDs {
		if s == id {
			return i
		}
	}

	return 0
}

// onResult is the aggregator: the pool serializes result delivery, so this
// is the only place search progress is folded into the tracker and the only
// path that triggers checkpoint writes while workers run. Exhausted chunks
// advance durable coverage; found and aborted chunks were cut short, so
// their in-chunk progress counts toward throughput but not coverage.
func (r *run) onResult(ctx context.Context) func(worker.Result) {
	return func(res worker.Result) {
		specID := r.specIDs[res.Chunk.Generator]

		if res.Tried > 0 {
			r.tracker.AddTried(res.Tried)
			r.reporter.Add(res.Tried)
			r.opts.Metrics.RecordCandidates(ctx, specID, res.Tried)
		}

		r.opts.Metrics.RecordProbeErrors(ctx, res.ProbeErrors)

		if res.Outcome != worker.OutcomeExhausted {
			return
		}

		r.opts.Metrics.RecordChunk(ctx, specID, res.Elapsed)

		advanced := r.tracker.Complete(res.Chunk.Generator, res.Chunk.Start, res.Chunk.End)
		if !advanced {
			return
		}

		r.saveThrottled(ctx)
	}
}

func (r *run) saveThrottled(ctx context.Context) {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	if time.Since(r.lastSave) < r.saveInterval {
		return
	}

	r.saveLocked(ctx)
}

// saveFinal persists unconditionally, for terminal states.
func (r *run) saveFinal(ctx context.Context) {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.saveLocked(ctx)
}

func (r *run) saveLocked(ctx context.Context) {
	if r.opts.Store == nil {
		return
	}

	err := r.opts.Store.Save(r.buildState)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to save progress", "error", err)

		return
	}

	r.lastSave = time.Now()
	r.opts.Metrics.RecordCheckpoint(ctx)
}

func (r *run) buildState() *checkpoint.State {
	p := r.opts.Plan

	state := &checkpoint.State{
		Version:        checkpoint.StateVersion,
		Fingerprint:    p.Fingerprint,
		CreatedAt:      r.createdAt,
		UpdatedAt:      time.Now(),
		TargetPath:     p.Target.Path,
		Specs:          r.specIDs,
		Completed:      r.tracker.Prefix(),
		Tried:          r.priorTried + r.tracker.Tried(),
		ElapsedSeconds: (r.priorElapsed + time.Since(r.began)).Seconds(),
	}

	if r.found != nil {
		state.Found = r.found.Password
		state.FoundGenerator = r.specIDs[r.found.Generator]
		state.FoundOffset = r.found.Offset
	}

	return state
}

// conclude maps the pool's result onto a terminal state. Every terminal
// state flushes a final checkpoint: a found search records its password, an
// exhausted search records full coverage, and an interrupted search records
// where to pick up.
func (r *run) conclude(ctx context.Context, match *worker.Match, runErr error) (*Summary, error) {
	if match != nil {
		r.found = match
	}

	summary := r.summarize(match)

	switch {
	case match != nil:
		r.saveFinal(ctx)
		r.reporter.Finish("password found")
		r.logger.InfoContext(ctx, "password found",
			"generator", summary.Generator,
			"offset", summary.Offset,
			"tried", summary.TotalTried,
			"elapsed", summary.TotalElapsed)

		return summary, nil

	case runErr == nil:
		r.saveFinal(ctx)
		r.reporter.Finish("search space exhausted")
		r.logger.InfoContext(ctx, "search space exhausted",
			"tried", summary.TotalTried,
			"elapsed", summary.TotalElapsed)

		return summary, nil

	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		r.saveFinal(ctx)
		r.reporter.Finish("interrupted, progress saved")
		r.logger.InfoContext(ctx, "search interrupted",
			"tried", summary.TotalTried,
			"elapsed", summary.Elapsed)

		summary.Status = StatusInterrupted

		return summary, nil

	default:
		r.saveFinal(ctx)
		r.reporter.Finish("aborted, progress saved")

		return nil, fmt.Errorf("search aborted: %w", runErr)
	}
}

func (r *run) summarize(match *worker.Match) *Summary {
	elapsed := time.Since(r.began)
	tried := r.tracker.Tried()

	summary := &Summary{
		Status:          StatusExhausted,
		Resumed:         r.resumed,
		Tried:           tried,
		TotalTried:      r.priorTried + tried,
		Elapsed:         elapsed,
		TotalElapsed:    r.priorElapsed + elapsed,
		TotalCandidates: r.opts.Plan.TotalSize(),
	}

	if match != nil {
		summary.Status = StatusFound
		summary.Password = match.Password
		summary.Generator = r.specIDs[match.Generator]
		summary.Offset = match.Offset
	}

	return summary
}

func (r *run) clearState(ctx context.Context) {
	if r.opts.Store == nil {
		return
	}

	err := r.opts.Store.Clear()
	if err != nil {
		r.logger.WarnContext(ctx, "failed to clear saved progress", "error", err)
	}
}
