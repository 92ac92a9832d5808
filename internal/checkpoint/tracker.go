package checkpoint

import "sync"

// Tracker aggregates chunk completions into per-generator contiguous
// prefixes. Workers finish chunks out of order; a chunk only advances the
// durable prefix once every chunk below it has also finished, so the prefix
// never overstates progress.
type Tracker struct {
	mu      sync.Mutex
	prefix  []uint64
	pending []map[uint64]uint64
	tried   uint64
}

// NewTracker creates a tracker for a lineup of numGenerators generators,
// optionally resuming from previously completed prefixes. A nil resume
// starts every generator at zero.
func NewTracker(numGenerators int, resume []uint64) *Tracker {
	t := &Tracker{
		prefix:  make([]uint64, numGenerators),
		pending: make([]map[uint64]uint64, numGenerators),
	}

	for i := range t.pending {
		t.pending[i] = make(map[uint64]uint64)
	}

	if resume != nil {
		copy(t.prefix, resume)
	}

	return t
}

// Complete records that offsets [start, end) of the given generator have been
// fully probed. It returns true when the generator's contiguous prefix
// advanced, which is the signal that there is new progress worth persisting.
func (t *Tracker) Complete(gen int, start, end uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if end <= t.prefix[gen] {
		return false
	}

	t.pending[gen][start] = end

	advanced := false

	for {
		next, ok := t.pending[gen][t.prefix[gen]]
		if !ok {
			break
		}

		delete(t.pending[gen], t.prefix[gen])
		t.prefix[gen] = next
		advanced = true
	}

	return advanced
}

// AddTried adds n to the probed-candidate counter.
func (t *Tracker) AddTried(n uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tried += n
}

// Tried returns the probed-candidate count.
func (t *Tracker) Tried() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tried
}

// Prefix returns a copy of the per-generator contiguous completed prefixes.
func (t *Tracker) Prefix() []uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]uint64, len(t.prefix))
	copy(out, t.prefix)

	return out
}
