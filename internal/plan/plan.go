// Package plan turns search settings into an ordered list of candidate
// generators and a fingerprint identifying the exact search. The fingerprint
// binds saved progress to one target file and one generator lineup, so a
// checkpoint is never resumed against a different search.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ferroclast/pdforce/internal/generator"
)

// fingerprintBytes is the number of hash bytes kept in the fingerprint.
// Sixteen hex characters is plenty for distinguishing search identities.
const fingerprintBytes = 8

// ErrNoGenerators indicates settings that select no password types.
var ErrNoGenerators = errors.New("no password types selected")

// ErrWordlistRequired indicates a dictionary search without a wordlist.
var ErrWordlistRequired = errors.New("dictionary search requires a wordlist")

// Target identifies the encrypted file a plan searches against.
type Target struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// DescribeTarget resolves the target's identity from the filesystem. The
// absolute path and byte size feed the fingerprint; a renamed or modified
// file produces a different fingerprint and therefore a fresh search.
func DescribeTarget(path string) (Target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Target{}, fmt.Errorf("resolve target path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Target{}, fmt.Errorf("stat target: %w", err)
	}

	if info.IsDir() {
		return Target{}, fmt.Errorf("target %s is a directory", abs)
	}

	return Target{Path: abs, Size: info.Size()}, nil
}

// Settings selects which candidate sequences a plan contains.
type Settings struct {
	// Kinds lists the password types to try, in the caller's preferred order
	// of the overall lineup below.
	Kinds []generator.Kind

	// MinLength and MaxLength bound brute-force candidate lengths.
	MinLength int
	MaxLength int

	// ExactLength pins brute-force sequences to a single length when > 0.
	ExactLength int

	// Case selects the alphabetic character set.
	Case generator.CaseMode

	// Symbols extends alphanumeric sequences with printable symbols.
	Symbols bool

	// WordlistPath locates the dictionary wordlist.
	WordlistPath string
}

// Plan is an ordered lineup of generators plus the fingerprint binding them
// to one target.
type Plan struct {
	Target      Target
	Generators  []generator.Generator
	Fingerprint string
}

// TotalSize returns the combined candidate count across all generators.
func (p *Plan) TotalSize() uint64 {
	var total uint64
	for _, g := range p.Generators {
		total += g.Size()
	}

	return total
}

// SpecIDs returns the ordered spec identifiers of the lineup.
func (p *Plan) SpecIDs() []string {
	ids := make([]string, len(p.Generators))
	for i, g := range p.Generators {
		ids[i] = g.Spec().ID()
	}

	return ids
}

// Build assembles the generator lineup for the given settings. Sequences run
// cheapest-first: the smart catalog, then numeric, alphabetic, and
// alphanumeric brute force by ascending length, then the dictionary. Words
// are required only when the lineup includes a dictionary sequence.
func Build(target Target, settings Settings, words []string) (*Plan, error) {
	var lengths []int

	if hasKind(settings.Kinds, generator.KindNumeric) ||
		hasKind(settings.Kinds, generator.KindAlphabetic) ||
		hasKind(settings.Kinds, generator.KindAlphanumeric) {
		var err error

		lengths, err = bruteLengths(settings)
		if err != nil {
			return nil, err
		}
	}

	var generators []generator.Generator

	if hasKind(settings.Kinds, generator.KindSmart) {
		generators = append(generators, generator.NewSmart())
	}

	if hasKind(settings.Kinds, generator.KindNumeric) {
		for _, length := range lengths {
			g, err := generator.NewNumeric(length)
			if err != nil {
				return nil, fmt.Errorf("numeric length %d: %w", length, err)
			}

			generators = append(generators, g)
		}
	}

	if hasKind(settings.Kinds, generator.KindAlphabetic) {
		for _, length := range lengths {
			g, err := generator.NewAlphabetic(length, settings.Case)
			if err != nil {
				return nil, fmt.Errorf("alphabetic length %d: %w", length, err)
			}

			generators = append(generators, g)
		}
	}

	if hasKind(settings.Kinds, generator.KindAlphanumeric) {
		for _, length := range lengths {
			g, err := generator.NewAlphanumeric(length, settings.Symbols)
			if err != nil {
				return nil, fmt.Errorf("alphanumeric length %d: %w", length, err)
			}

			generators = append(generators, g)
		}
	}

	if hasKind(settings.Kinds, generator.KindDictionary) {
		if len(words) == 0 {
			return nil, ErrWordlistRequired
		}

		g, err := generator.NewDictionary(settings.WordlistPath, words)
		if err != nil {
			return nil, err
		}

		generators = append(generators, g)
	}

	if len(generators) == 0 {
		return nil, ErrNoGenerators
	}

	p := &Plan{Target: target, Generators: generators}
	p.Fingerprint = fingerprint(target, p.SpecIDs())

	return p, nil
}

// bruteLengths expands the configured length bounds into the ascending list
// of brute-force candidate lengths.
func bruteLengths(settings Settings) ([]int, error) {
	if settings.ExactLength > 0 {
		return []int{settings.ExactLength}, nil
	}

	min, max := settings.MinLength, settings.MaxLength
	if min <= 0 || max < min {
		return nil, fmt.Errorf("invalid length bounds [%d, %d]", min, max)
	}

	lengths := make([]int, 0, max-min+1)
	for l := min; l <= max; l++ {
		lengths = append(lengths, l)
	}

	return lengths, nil
}

func hasKind(kinds []generator.Kind, kind generator.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}

	return false
}

// fingerprint hashes the target identity and the ordered spec IDs into a
// short stable hex string.
func fingerprint(target Target, specIDs []string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n%d\n", target.Path, target.Size)
	fmt.Fprint(h, strings.Join(specIDs, "\n"))

	return hex.EncodeToString(h.Sum(nil)[:fingerprintBytes])
}
