package persist

// Persister binds one state type to one file and a Codec. The file's name is
// basename plus the codec's extension, so switching codecs never leaves a
// stale file behind under the same name.
type Persister[T any] struct {
	dir      string
	basename string
	codec    Codec
}

// NewPersister creates a persister for the state file at dir/basename with
// the codec's extension.
func NewPersister[T any](dir, basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		dir:      dir,
		basename: basename,
		codec:    codec,
	}
}

// Path returns the file the persister reads and writes.
func (p *Persister[T]) Path() string {
	return statePath(p.dir, p.basename, p.codec)
}

// Save writes the snapshot produced by build, replacing any previous file
// atomically.
func (p *Persister[T]) Save(build func() *T) error {
	return SaveState(p.dir, p.basename, p.codec, build())
}

// Load reads the saved state into a fresh T and hands it to restore.
func (p *Persister[T]) Load(restore func(*T)) error {
	var state T

	err := LoadState(p.dir, p.basename, p.codec, &state)
	if err != nil {
		return err
	}

	restore(&state)

	return nil
}
