package generator

import (
	"fmt"
	"strconv"
)

// maxNumericLength keeps 10^length addressable in a uint64.
const maxNumericLength = 19

// Numeric enumerates all zero-padded decimal strings of a fixed length in
// ascending numeric order. Offset 0 is all zeros.
type Numeric struct {
	length int
	size   uint64
}

// NewNumeric builds a numeric generator for the given candidate length.
func NewNumeric(length int) (*Numeric, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	if length > maxNumericLength {
		return nil, fmt.Errorf("%w: numeric length %d", ErrSpaceTooLarge, length)
	}

	size := uint64(1)
	for i := 0; i < length; i++ {
		size *= 10
	}

	return &Numeric{length: length, size: size}, nil
}

// Spec returns the spec this generator was built from.
func (n *Numeric) Spec() Spec {
	return Spec{Kind: KindNumeric, Length: n.length}
}

// Size returns the total number of candidates.
func (n *Numeric) Size() uint64 {
	return n.size
}

// At returns the zero-padded decimal string at the given offset.
func (n *Numeric) At(offset uint64) (string, error) {
	if offset >= n.size {
		return "", fmt.Errorf("%w: %d of %d", ErrOffsetOutOfRange, offset, n.size)
	}

	return n.format(offset), nil
}

// Iterate yields candidates for offsets [start, end) in ascending order.
func (n *Numeric) Iterate(start, end uint64, yield func(offset uint64, candidate string) bool) error {
	if err := checkRange(start, end, n.size); err != nil {
		return err
	}

	for offset := start; offset < end; offset++ {
		if !yield(offset, n.format(offset)) {
			return nil
		}
	}

	return nil
}

func (n *Numeric) format(offset uint64) string {
	digits := strconv.FormatUint(offset, 10)
	if len(digits) >= n.length {
		return digits
	}

	buf := make([]byte, n.length)
	pad := n.length - len(digits)

	for i := 0; i < pad; i++ {
		buf[i] = '0'
	}

	copy(buf[pad:], digits)

	return string(buf)
}
