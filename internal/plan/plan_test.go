package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferroclast/pdforce/internal/generator"
)

func testTarget() Target {
	return Target{Path: "/docs/statement.pdf", Size: 48213}
}

func allKinds() []generator.Kind {
	return []generator.Kind{
		generator.KindSmart,
		generator.KindNumeric,
		generator.KindAlphabetic,
		generator.KindAlphanumeric,
		generator.KindDictionary,
	}
}

func TestBuild_LineupOrder(t *testing.T) {
	t.Parallel()

	p, err := Build(testTarget(), Settings{
		Kinds:        allKinds(),
		MinLength:    3,
		MaxLength:    4,
		Case:         generator.CaseLower,
		WordlistPath: "words.txt",
	}, []string{"hunter"})
	require.NoError(t, err)

	want := []string{
		"smart/v1",
		"numeric/3",
		"numeric/4",
		"alphabetic/3/lower",
		"alphabetic/4/lower",
		"alphanumeric/3",
		"alphanumeric/4",
		"dictionary/t1/words.txt",
	}
	assert.Equal(t, want, p.SpecIDs())
}

func TestBuild_ExactLengthPinsBruteForce(t *testing.T) {
	t.Parallel()

	p, err := Build(testTarget(), Settings{
		Kinds:       []generator.Kind{generator.KindNumeric},
		MinLength:   1,
		MaxLength:   8,
		ExactLength: 6,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"numeric/6"}, p.SpecIDs())
	assert.Equal(t, uint64(1000000), p.TotalSize())
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	_, err := Build(testTarget(), Settings{MinLength: 1, MaxLength: 4}, nil)
	require.ErrorIs(t, err, ErrNoGenerators)

	_, err = Build(testTarget(), Settings{
		Kinds:     []generator.Kind{generator.KindDictionary},
		MinLength: 1,
		MaxLength: 4,
	}, nil)
	require.ErrorIs(t, err, ErrWordlistRequired)

	_, err = Build(testTarget(), Settings{
		Kinds:     []generator.Kind{generator.KindNumeric},
		MinLength: 5,
		MaxLength: 3,
	}, nil)
	require.Error(t, err)
}

func TestFingerprint_SensitiveToTargetAndLineup(t *testing.T) {
	t.Parallel()

	settings := Settings{
		Kinds:     []generator.Kind{generator.KindNumeric},
		MinLength: 4,
		MaxLength: 4,
	}

	base, err := Build(testTarget(), settings, nil)
	require.NoError(t, err)

	same, err := Build(testTarget(), settings, nil)
	require.NoError(t, err)
	assert.Equal(t, base.Fingerprint, same.Fingerprint)

	otherFile, err := Build(Target{Path: "/docs/other.pdf", Size: 48213}, settings, nil)
	require.NoError(t, err)
	assert.NotEqual(t, base.Fingerprint, otherFile.Fingerprint)

	otherSize, err := Build(Target{Path: "/docs/statement.pdf", Size: 1}, settings, nil)
	require.NoError(t, err)
	assert.NotEqual(t, base.Fingerprint, otherSize.Fingerprint)

	settings.MaxLength = 5
	otherLineup, err := Build(testTarget(), settings, nil)
	require.NoError(t, err)
	assert.NotEqual(t, base.Fingerprint, otherLineup.Fingerprint)
}

func TestDescribeTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 stub"), 0o600))

	target, err := DescribeTarget(path)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(target.Path))
	assert.Equal(t, int64(13), target.Size)

	_, err = DescribeTarget(filepath.Join(dir, "absent.pdf"))
	require.Error(t, err)

	_, err = DescribeTarget(dir)
	require.Error(t, err)
}

func TestPartition_CoversEveryOffsetOnce(t *testing.T) {
	t.Parallel()

	p, err := Build(testTarget(), Settings{
		Kinds:       []generator.Kind{generator.KindNumeric, generator.KindAlphabetic},
		MinLength:   2,
		MaxLength:   3,
		Case:        generator.CaseLower,
		ExactLength: 0,
	}, nil)
	require.NoError(t, err)

	const chunkSize = 700

	chunks := p.Partition(chunkSize)
	next := make([]uint64, len(p.Generators))
	lastGen := 0

	for _, c := range chunks {
		require.GreaterOrEqual(t, c.Generator, lastGen, "chunks must follow lineup order")
		lastGen = c.Generator

		require.Equal(t, next[c.Generator], c.Start, "chunks must be contiguous")
		require.Greater(t, c.End, c.Start)
		require.LessOrEqual(t, c.Len(), uint64(chunkSize))

		next[c.Generator] = c.End
	}

	for i, g := range p.Generators {
		assert.Equal(t, g.Size(), next[i], "generator %d not fully covered", i)
	}
}

func TestPartitionFrom_SkipsResumedPrefix(t *testing.T) {
	t.Parallel()

	p, err := Build(testTarget(), Settings{
		Kinds:       []generator.Kind{generator.KindNumeric, generator.KindAlphabetic},
		MinLength:   4,
		MaxLength:   4,
		Case:        generator.CaseLower,
	}, nil)
	require.NoError(t, err)

	chunks := p.PartitionFrom([]uint64{10000, 2000}, 1000)

	for _, c := range chunks {
		require.Equal(t, 1, c.Generator, "fully completed generator must yield no chunks")
		require.GreaterOrEqual(t, c.Start, uint64(2000))
	}

	require.Equal(t, uint64(2000), chunks[0].Start)
}

func TestPartition_DefaultChunkSize(t *testing.T) {
	t.Parallel()

	p, err := Build(testTarget(), Settings{
		Kinds:       []generator.Kind{generator.KindNumeric},
		ExactLength: 4,
	}, nil)
	require.NoError(t, err)

	chunks := p.Partition(0)
	require.Len(t, chunks, 2)
	assert.Equal(t, uint64(DefaultChunkSize), chunks[0].Len())
}
