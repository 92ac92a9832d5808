package plan

// DefaultChunkSize balances claim overhead against checkpoint granularity.
const DefaultChunkSize = 5000

// Chunk is a half-open candidate range [Start, End) within one generator of
// the lineup. Chunks are the unit of work claimed by workers and the unit of
// completion recorded by checkpoints.
type Chunk struct {
	Generator int    `json:"generator"`
	Start     uint64 `json:"start"`
	End       uint64 `json:"end"`
}

// Len returns the number of candidates in the chunk.
func (c Chunk) Len() uint64 {
	return c.End - c.Start
}

// Partition splits every generator's candidate space into contiguous chunks
// of at most chunkSize candidates. Chunks appear in search order: all chunks
// of generator 0 first, ascending by offset, then generator 1, and so on.
// Within one generator the chunks are disjoint and cover [0, size) exactly.
func (p *Plan) Partition(chunkSize uint64) []Chunk {
	return p.PartitionFrom(nil, chunkSize)
}

// PartitionFrom is Partition with per-generator resume offsets: chunking for
// generator i starts at resume[i] instead of zero, so already-completed
// candidates are never re-enumerated. A nil resume starts every generator at
// zero.
func (p *Plan) PartitionFrom(resume []uint64, chunkSize uint64) []Chunk {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	var chunks []Chunk

	for i, g := range p.Generators {
		size := g.Size()

		first := uint64(0)
		if resume != nil {
			first = resume[i]
		}

		for start := first; start < size; start += chunkSize {
			end := start + chunkSize
			if end > size {
				end = size
			}

			chunks = append(chunks, Chunk{Generator: i, Start: start, End: end})
		}
	}

	return chunks
}
