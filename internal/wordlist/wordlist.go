// Package wordlist loads dictionary files for password candidates. Plain
// text files hold one word per line; files with an .lz4 extension are
// decompressed transparently, which keeps large wordlists small on disk.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// maxWordLength guards against binary garbage masquerading as a wordlist.
const maxWordLength = 256

// ErrNoWords indicates a wordlist file with no usable entries.
var ErrNoWords = errors.New("wordlist has no usable entries")

// Load reads the wordlist at path, one word per line, preserving file order.
// Blank lines, surrounding whitespace, and comment lines starting with '#'
// are dropped. A .lz4 extension selects transparent decompression.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".lz4") {
		reader = lz4.NewReader(f)
	}

	words, err := read(reader)
	if err != nil {
		return nil, fmt.Errorf("read wordlist %s: %w", path, err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoWords, path)
	}

	return words, nil
}

func read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxWordLength*4)

	var words []string

	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}

		if len(word) > maxWordLength {
			continue
		}

		words = append(words, word)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}
