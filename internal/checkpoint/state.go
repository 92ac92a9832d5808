// Package checkpoint records search progress so an interrupted run resumes
// where it left off. Progress per generator is a single number, the length of
// the contiguous completed prefix; everything below it has been tried,
// everything above it has not been durably recorded.
package checkpoint

import (
	"errors"
	"fmt"
	"time"
)

// StateVersion is bumped when the on-disk state layout changes incompatibly.
const StateVersion = 1

// Sentinel errors for state validation.
var (
	// ErrNoCheckpoint indicates no saved state exists for the search.
	ErrNoCheckpoint = errors.New("no checkpoint found")
	// ErrVersionMismatch indicates state written by an incompatible version.
	ErrVersionMismatch = errors.New("checkpoint version mismatch")
	// ErrFingerprintMismatch indicates state recorded for a different search.
	ErrFingerprintMismatch = errors.New("checkpoint fingerprint mismatch")
	// ErrCorruptState indicates state whose fields are internally inconsistent.
	ErrCorruptState = errors.New("checkpoint state is corrupt")
)

// State is the durable snapshot of one search's progress.
type State struct {
	Version     int       `json:"version"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// TargetPath and Specs are informational. Identity is the fingerprint;
	// these let a human inspect what a state file belongs to.
	TargetPath string   `json:"target_path"`
	Specs      []string `json:"specs"`

	// Completed holds, per generator in lineup order, the contiguous prefix
	// of candidate offsets already tried.
	Completed []uint64 `json:"completed"`

	// Found records the matching password once the search succeeds, with the
	// generator and offset it was found at. Empty while the search is still
	// open.
	Found          string `json:"found,omitempty"`
	FoundGenerator string `json:"found_generator,omitempty"`
	FoundOffset    uint64 `json:"found_offset,omitempty"`

	// Tried counts candidates probed across all sessions of this search.
	Tried uint64 `json:"tried"`

	// ElapsedSeconds accumulates wall-clock search time across sessions.
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Validate checks that the state is usable for a search with the given
// fingerprint and generator count.
func (s *State) Validate(fingerprint string, numGenerators int) error {
	if s.Version != StateVersion {
		return fmt.Errorf("%w: state v%d, binary v%d", ErrVersionMismatch, s.Version, StateVersion)
	}

	if s.Fingerprint != fingerprint {
		return fmt.Errorf("%w: state %s, search %s", ErrFingerprintMismatch, s.Fingerprint, fingerprint)
	}

	if len(s.Completed) != numGenerators {
		return fmt.Errorf("%w: %d generators recorded, %d in lineup",
			ErrCorruptState, len(s.Completed), numGenerators)
	}

	return nil
}
