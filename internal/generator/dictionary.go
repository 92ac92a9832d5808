package generator

import (
	"fmt"
	"strings"
	"unicode"
)

// TransformSetVersion identifies the ordered transform set applied to each
// dictionary word. Bump it whenever a transform is added, removed, or
// reordered.
const TransformSetVersion = 1

// TransformCount is the number of variants derived from each word.
const TransformCount = 9

// leetReplacer applies the classic digit substitutions.
var leetReplacer = strings.NewReplacer(
	"a", "4", "A", "4",
	"e", "3", "E", "3",
	"i", "1", "I", "1",
	"o", "0", "O", "0",
	"s", "5", "S", "5",
)

// transforms is the fixed, ordered variant set. Offsets within a word are
// positional: offset word*TransformCount+i always applies transforms[i], so a
// candidate's offset can be computed without enumerating earlier words.
var transforms = [TransformCount]func(string) string{
	func(w string) string { return w },
	strings.ToLower,
	strings.ToUpper,
	titleCase,
	reverse,
	func(w string) string { return w + "1" },
	func(w string) string { return w + "123" },
	func(w string) string { return w + "!" },
	leetReplacer.Replace,
}

// Dictionary enumerates every word from a wordlist under a fixed set of
// transforms, in wordlist order. Duplicate candidates across words or
// transforms are not removed: positional addressing is what makes constant
// time seeking possible, and retrying a password is merely redundant.
type Dictionary struct {
	path  string
	words []string
}

// NewDictionary builds a dictionary generator over the given words. The path
// is recorded in the spec for identification only.
func NewDictionary(path string, words []string) (*Dictionary, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyWordlist, path)
	}

	return &Dictionary{path: path, words: words}, nil
}

// Spec returns the spec this generator was built from.
func (d *Dictionary) Spec() Spec {
	return Spec{Kind: KindDictionary, WordlistPath: d.path}
}

// Size returns the total number of candidates.
func (d *Dictionary) Size() uint64 {
	return uint64(len(d.words)) * TransformCount
}

// At returns the transformed word at the given offset.
func (d *Dictionary) At(offset uint64) (string, error) {
	if offset >= d.Size() {
		return "", fmt.Errorf("%w: %d of %d", ErrOffsetOutOfRange, offset, d.Size())
	}

	word := d.words[offset/TransformCount]

	return transforms[offset%TransformCount](word), nil
}

// Iterate yields candidates for offsets [start, end) in ascending order.
func (d *Dictionary) Iterate(start, end uint64, yield func(offset uint64, candidate string) bool) error {
	if err := checkRange(start, end, d.Size()); err != nil {
		return err
	}

	for offset := start; offset < end; offset++ {
		word := d.words[offset/TransformCount]
		if !yield(offset, transforms[offset%TransformCount](word)) {
			return nil
		}
	}

	return nil
}

// titleCase uppercases the first rune and lowercases the rest.
func titleCase(w string) string {
	if w == "" {
		return w
	}

	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

// reverse returns the word with its runes in reverse order.
func reverse(w string) string {
	runes := []rune(w)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}

	return string(runes)
}
