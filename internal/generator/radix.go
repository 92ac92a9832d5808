package generator

import (
	"fmt"
	"math"
)

// radix enumerates all fixed-length strings over an alphabet in odometer
// order: the leftmost character is the most significant position and the
// rightmost character advances fastest. Offset 0 repeats the alphabet's first
// character at every position, and ascending offsets follow the alphabet's
// own ordering position by position.
type radix struct {
	spec     Spec
	alphabet string
	length   int
	size     uint64
}

// NewAlphabetic builds a letters-only generator for the given length and case.
func NewAlphabetic(length int, mode CaseMode) (Generator, error) {
	var alphabet string

	switch mode {
	case CaseUpper:
		alphabet = uppercaseLetters
	case CaseMixed:
		alphabet = lowercaseLetters + uppercaseLetters
	case CaseLower, "":
		mode = CaseLower
		alphabet = lowercaseLetters
	default:
		return nil, fmt.Errorf("unknown case mode %q", mode)
	}

	return newRadix(Spec{Kind: KindAlphabetic, Length: length, Case: mode}, alphabet, length)
}

// NewAlphanumeric builds a generator over lowercase letters, uppercase
// letters, and digits, optionally extended with printable symbols.
func NewAlphanumeric(length int, symbols bool) (Generator, error) {
	alphabet := lowercaseLetters + uppercaseLetters + decimalDigits
	if symbols {
		alphabet += symbolCharacters
	}

	return newRadix(Spec{Kind: KindAlphanumeric, Length: length, Symbols: symbols}, alphabet, length)
}

func newRadix(spec Spec, alphabet string, length int) (*radix, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	base := uint64(len(alphabet))
	size := uint64(1)

	for i := 0; i < length; i++ {
		if size > math.MaxUint64/base {
			return nil, fmt.Errorf("%w: %d^%d", ErrSpaceTooLarge, base, length)
		}

		size *= base
	}

	return &radix{spec: spec, alphabet: alphabet, length: length, size: size}, nil
}

// Spec returns the spec this generator was built from.
func (r *radix) Spec() Spec {
	return r.spec
}

// Size returns the total number of candidates.
func (r *radix) Size() uint64 {
	return r.size
}

// At decomposes the offset in mixed radix, most significant position first.
func (r *radix) At(offset uint64) (string, error) {
	if offset >= r.size {
		return "", fmt.Errorf("%w: %d of %d", ErrOffsetOutOfRange, offset, r.size)
	}

	buf := make([]byte, r.length)
	base := uint64(len(r.alphabet))

	for i := r.length - 1; i >= 0; i-- {
		buf[i] = r.alphabet[offset%base]
		offset /= base
	}

	return string(buf), nil
}

// Iterate yields candidates for offsets [start, end) in ascending order. It
// seeks once to start, then advances a positional odometer per candidate
// instead of re-decomposing every offset.
func (r *radix) Iterate(start, end uint64, yield func(offset uint64, candidate string) bool) error {
	if err := checkRange(start, end, r.size); err != nil {
		return err
	}

	if start == end {
		return nil
	}

	base := uint64(len(r.alphabet))
	indices := make([]int, r.length)
	buf := make([]byte, r.length)
	rem := start

	for i := r.length - 1; i >= 0; i-- {
		indices[i] = int(rem % base)
		buf[i] = r.alphabet[indices[i]]
		rem /= base
	}

	for offset := start; ; offset++ {
		if !yield(offset, string(buf)) {
			return nil
		}

		if offset+1 == end {
			return nil
		}

		for i := r.length - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < int(base) {
				buf[i] = r.alphabet[indices[i]]

				break
			}

			indices[i] = 0
			buf[i] = r.alphabet[0]
		}
	}
}
