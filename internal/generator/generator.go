// Package generator produces deterministic, seekable candidate password
// sequences. Each sequence is finite, ordered, and addressable by offset so
// that disjoint ranges can be handed to independent workers and progress can
// be recorded as a single offset per sequence.
package generator

import (
	"errors"
	"fmt"
)

// Kind identifies a password generator type. The set is closed: adding a new
// password type means adding a Kind, its constructor, and its two seek/iterate
// algorithms.
type Kind string

// Supported generator kinds.
const (
	KindSmart        Kind = "smart"
	KindNumeric      Kind = "numeric"
	KindAlphabetic   Kind = "alphabetic"
	KindAlphanumeric Kind = "alphanumeric"
	KindDictionary   Kind = "dictionary"
)

// CaseMode selects which letter case an alphabetic generator enumerates.
type CaseMode string

// Supported case modes.
const (
	CaseLower CaseMode = "lower"
	CaseUpper CaseMode = "upper"
	CaseMixed CaseMode = "mixed"
)

// Character sets used to build mixed-radix alphabets.
const (
	lowercaseLetters = "abcdefghijklmnopqrstuvwxyz"
	uppercaseLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	decimalDigits    = "0123456789"
	symbolCharacters = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Sentinel errors for generator construction and seeking.
var (
	// ErrOffsetOutOfRange indicates a seek offset at or past the sequence size.
	ErrOffsetOutOfRange = errors.New("offset out of range")
	// ErrInvalidLength indicates a non-positive candidate length.
	ErrInvalidLength = errors.New("candidate length must be positive")
	// ErrSpaceTooLarge indicates the candidate space exceeds uint64 addressing.
	ErrSpaceTooLarge = errors.New("candidate space exceeds addressable range")
	// ErrUnknownKind indicates an unrecognized generator kind.
	ErrUnknownKind = errors.New("unknown generator kind")
	// ErrEmptyWordlist indicates a dictionary generator with no words.
	ErrEmptyWordlist = errors.New("wordlist contains no words")
)

// Spec describes one deterministic candidate sequence. All fields that affect
// the sequence's contents or order are part of the spec so that an identical
// spec always reproduces an identical sequence.
type Spec struct {
	Kind    Kind     `json:"kind"`
	Length  int      `json:"length,omitempty"`
	Case    CaseMode `json:"case,omitempty"`
	Symbols bool     `json:"symbols,omitempty"`

	// WordlistPath is informational for dictionary specs; the words themselves
	// are supplied to NewDictionary by the caller.
	WordlistPath string `json:"wordlist_path,omitempty"`
}

// ID returns a stable, human-readable identifier for the spec. The ID feeds
// the checkpoint fingerprint, so any change to a sequence's contents must be
// reflected here (the smart catalog and dictionary transform set carry
// explicit version components for that reason).
func (s Spec) ID() string {
	switch s.Kind {
	case KindSmart:
		return fmt.Sprintf("smart/v%d", SmartCatalogVersion)
	case KindNumeric:
		return fmt.Sprintf("numeric/%d", s.Length)
	case KindAlphabetic:
		return fmt.Sprintf("alphabetic/%d/%s", s.Length, s.Case)
	case KindAlphanumeric:
		if s.Symbols {
			return fmt.Sprintf("alphanumeric+symbols/%d", s.Length)
		}

		return fmt.Sprintf("alphanumeric/%d", s.Length)
	case KindDictionary:
		return fmt.Sprintf("dictionary/t%d/%s", TransformSetVersion, s.WordlistPath)
	default:
		return string(s.Kind)
	}
}

// Generator produces a finite, ordered, seekable candidate sequence.
type Generator interface {
	// Spec returns the spec this generator was built from.
	Spec() Spec

	// Size returns the total number of candidates in the sequence.
	Size() uint64

	// At returns the candidate at the given zero-based offset without
	// materializing prior candidates.
	At(offset uint64) (string, error)

	// Iterate yields candidates for offsets [start, end) in ascending order.
	// Iteration stops early when yield returns false.
	Iterate(start, end uint64, yield func(offset uint64, candidate string) bool) error
}

// New constructs a generator for the given spec. Dictionary specs require the
// wordlist to be loaded by the caller; use NewDictionary for those.
func New(spec Spec) (Generator, error) {
	switch spec.Kind {
	case KindSmart:
		return NewSmart(), nil
	case KindNumeric:
		return NewNumeric(spec.Length)
	case KindAlphabetic:
		return NewAlphabetic(spec.Length, spec.Case)
	case KindAlphanumeric:
		return NewAlphanumeric(spec.Length, spec.Symbols)
	case KindDictionary:
		return nil, fmt.Errorf("%w: dictionary generators require NewDictionary", ErrUnknownKind)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
}

// ParseKind validates a password-type string from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSmart, KindNumeric, KindAlphabetic, KindAlphanumeric, KindDictionary:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// checkRange validates a half-open iteration range against the sequence size.
func checkRange(start, end, size uint64) error {
	if start > end || end > size {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrOffsetOutOfRange, start, end, size)
	}

	return nil
}
