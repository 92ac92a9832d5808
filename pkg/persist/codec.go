// Package persist provides codec-based file persistence with an atomic
// write-replace discipline for state files that must survive crashes.
package persist

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Indentation used by NewJSONCodec. State files are meant to be opened in an
// editor when a search misbehaves, so the default output is pretty-printed.
const defaultIndent = "  "

// Codec defines how a state value is serialized and named on disk.
type Codec interface {
	// Encode writes the state to the writer.
	Encode(w io.Writer, state any) error
	// Decode reads the state from the reader.
	Decode(r io.Reader, state any) error
	// Extension returns the file extension for this codec (e.g. ".json").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec that pretty-prints its output.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, state any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, state any) error {
	decoder := json.NewDecoder(r)

	err := decoder.Decode(state)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return ".json"
}

// statePath builds the state file path from the basename and the codec's
// extension.
func statePath(dir, basename string, codec Codec) string {
	return filepath.Join(dir, basename+codec.Extension())
}

// SaveState saves the given state to a file in the specified directory using
// write-replace: the state is encoded into a temporary file in the same
// directory, synced, and renamed over the target path. A crash mid-write
// leaves the previous file intact.
func SaveState(dir, basename string, codec Codec, state any) error {
	path := statePath(dir, basename, codec)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	encodeErr := codec.Encode(tmp, state)
	if encodeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("encode state: %w", encodeErr)
	}

	syncErr := tmp.Sync()
	if syncErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("sync state file: %w", syncErr)
	}

	closeErr := tmp.Close()
	if closeErr != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("close state file: %w", closeErr)
	}

	renameErr := os.Rename(tmp.Name(), path)
	if renameErr != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("replace state file: %w", renameErr)
	}

	return nil
}

// LoadState loads state from a file in the specified directory. The state
// parameter must be a pointer to the target struct.
func LoadState(dir, basename string, codec Codec, state any) error {
	file, err := os.Open(statePath(dir, basename, codec))
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}
