package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ferroclast/pdforce/pkg/persist"
)

// Store persists one search's state under a directory, one file per search
// fingerprint. Writes go through an atomic write-replace, so a crash during
// a save leaves the previous snapshot intact.
type Store struct {
	dir       string
	persister *persist.Persister[State]
}

// NewStore creates a store for the search identified by fingerprint, rooted
// at dir. The directory is created on demand.
func NewStore(dir, fingerprint string) *Store {
	return &Store{
		dir:       dir,
		persister: persist.NewPersister[State](dir, "search-"+fingerprint, persist.NewJSONCodec()),
	}
}

// Path returns the state file's location.
func (s *Store) Path() string {
	return s.persister.Path()
}

// Save writes the state snapshot produced by build.
func (s *Store) Save(build func() *State) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	if err := s.persister.Save(build); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	return nil
}

// Load reads and returns the saved state, or ErrNoCheckpoint when none
// exists. A file that cannot be decoded is sidelined to a .bak next to the
// original and reported as ErrCorruptState. Callers validate the state
// against their search before using it.
func (s *Store) Load() (*State, error) {
	var state *State

	err := s.persister.Load(func(loaded *State) {
		state = loaded
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoCheckpoint
		}

		// The next save would overwrite the damaged file; keep it around for
		// inspection instead.
		_ = os.Rename(s.Path(), s.Path()+".bak")

		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	return state, nil
}

// Clear removes the saved state. Clearing an absent state is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear checkpoint: %w", err)
	}

	return nil
}
