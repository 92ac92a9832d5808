package generator

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// SmartCatalogVersion identifies the curated candidate catalog. Bump it
// whenever the catalog's contents or ordering change, so that checkpoints
// recorded against an older catalog are not resumed against a different
// sequence.
const SmartCatalogVersion = 1

// Year range covered by the year-based patterns.
const (
	smartYearMin = 1950
	smartYearMax = 2023
)

var (
	smartOnce    sync.Once
	smartCatalog []string
)

// Smart enumerates a fixed catalog of high-probability passwords: common
// choices, years, repeated and sequential digit runs, and numeric dates in
// the formats people actually type.
type Smart struct {
	catalog []string
}

// NewSmart builds a smart generator over the shared catalog. The catalog is
// constructed once per process and shared read-only between instances.
func NewSmart() *Smart {
	smartOnce.Do(func() {
		smartCatalog = buildSmartCatalog()
	})

	return &Smart{catalog: smartCatalog}
}

// Spec returns the spec this generator was built from.
func (s *Smart) Spec() Spec {
	return Spec{Kind: KindSmart}
}

// Size returns the total number of candidates.
func (s *Smart) Size() uint64 {
	return uint64(len(s.catalog))
}

// At returns the catalog entry at the given offset.
func (s *Smart) At(offset uint64) (string, error) {
	if offset >= uint64(len(s.catalog)) {
		return "", fmt.Errorf("%w: %d of %d", ErrOffsetOutOfRange, offset, len(s.catalog))
	}

	return s.catalog[offset], nil
}

// Iterate yields candidates for offsets [start, end) in catalog order.
func (s *Smart) Iterate(start, end uint64, yield func(offset uint64, candidate string) bool) error {
	if err := checkRange(start, end, uint64(len(s.catalog))); err != nil {
		return err
	}

	for offset := start; offset < end; offset++ {
		if !yield(offset, s.catalog[offset]) {
			return nil
		}
	}

	return nil
}

// buildSmartCatalog assembles the catalog in priority order and removes
// duplicates while preserving first occurrence, so every offset maps to a
// distinct candidate.
func buildSmartCatalog() []string {
	var entries []string

	entries = append(entries, commonPasswords()...)
	entries = append(entries, yearCandidates()...)
	entries = append(entries, repeatedDigitRuns()...)
	entries = append(entries, sequentialDigitRuns()...)
	entries = append(entries, dateCandidates()...)

	seen := make(map[string]struct{}, len(entries))
	catalog := make([]string, 0, len(entries))

	for _, entry := range entries {
		if _, dup := seen[entry]; dup {
			continue
		}

		seen[entry] = struct{}{}
		catalog = append(catalog, entry)
	}

	return catalog
}

func commonPasswords() []string {
	return []string{
		"password", "Password", "password1", "Password1", "password123",
		"123456", "12345678", "123456789", "1234567890",
		"qwerty", "qwerty123", "abc123", "letmein", "welcome", "Welcome1",
		"admin", "admin123", "root", "secret", "master",
		"iloveyou", "monkey", "dragon", "sunshine", "princess",
		"football", "baseball", "superman", "batman", "trustno1",
		"000000", "111111", "121212", "654321", "696969",
		"123123", "112233", "123321", "789456", "147258",
		"258369", "159753",
		"pass", "passw0rd", "P@ssw0rd", "changeme", "default",
	}
}

// yearCandidates emits each year both bare and doubled, newest first. Recent
// years are far more common in document passwords.
func yearCandidates() []string {
	out := make([]string, 0, 2*(smartYearMax-smartYearMin+1))

	for year := smartYearMax; year >= smartYearMin; year-- {
		y := strconv.Itoa(year)
		out = append(out, y, y+y)
	}

	return out
}

func repeatedDigitRuns() []string {
	var out []string

	for length := 4; length <= 8; length++ {
		for digit := '0'; digit <= '9'; digit++ {
			out = append(out, strings.Repeat(string(digit), length))
		}
	}

	return out
}

// sequentialDigitRuns emits ascending and descending digit runs of lengths 4
// through 8 from every feasible starting digit, e.g. "4567" and "7654".
func sequentialDigitRuns() []string {
	var out []string

	for length := 4; length <= 8; length++ {
		for start := 0; start+length <= 10; start++ {
			asc := make([]byte, length)
			desc := make([]byte, length)

			for i := 0; i < length; i++ {
				asc[i] = byte('0' + start + i)
				desc[i] = byte('0' + start + length - 1 - i)
			}

			out = append(out, string(asc), string(desc))
		}
	}

	return out
}

// dateCandidates emits calendar dates in the four common all-digit formats:
// MMDDYYYY, DDMMYYYY, MMDDYY, and DDMMYY. Day ranges follow the actual month
// lengths; February includes the 29th for all years to cover leap dates.
func dateCandidates() []string {
	daysInMonth := [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

	var out []string

	for year := smartYearMax; year >= smartYearMin; year-- {
		yyyy := fmt.Sprintf("%04d", year)
		yy := yyyy[2:]

		for month := 1; month <= 12; month++ {
			mm := fmt.Sprintf("%02d", month)

			for day := 1; day <= daysInMonth[month]; day++ {
				dd := fmt.Sprintf("%02d", day)

				out = append(out, mm+dd+yyyy, dd+mm+yyyy, mm+dd+yy, dd+mm+yy)
			}
		}
	}

	return out
}
