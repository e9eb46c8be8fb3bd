package domain

// DefaultStackCount is the default maximum number of structures handed to a
// single generator worker, used absent a generator/stack-count override.
const DefaultStackCount = 5

// Chunk is an ordered batch of structures dispatched to one worker. A chunk
// carries no semantics beyond batching.
type Chunk []Structure

// Partition splits the pending structures into consecutive chunks of at most
// size entries, preserving order: chunk N holds entries [N*size, (N+1)*size).
// A size below one falls back to DefaultStackCount.
func Partition(structures []Structure, size int) []Chunk {
	if size < 1 {
		size = DefaultStackCount
	}
	if len(structures) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, (len(structures)+size-1)/size)
	for start := 0; start < len(structures); start += size {
		end := min(start+size, len(structures))
		chunks = append(chunks, Chunk(structures[start:end:end]))
	}
	return chunks
}
