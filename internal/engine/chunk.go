package engine

const (
	// ItemsPerCore is the target number of rows per worker per chunk.
	ItemsPerCore = 100
	// MinChunkSize is the lower bound before the n/4 cap applies.
	MinChunkSize = 100
)

// ChunkSize returns the number of outer rows computed before their results
// are handed on. It is ceil(n/(threads*ItemsPerCore)) raised to
// MinChunkSize, capped at n/4 and never below 1.
func ChunkSize(n, threads int) int {
	if threads < 1 {
		threads = 1
	}
	per := threads * ItemsPerCore
	c := (n + per - 1) / per
	if c < MinChunkSize {
		c = MinChunkSize
	}
	if q := n / 4; c > q {
		c = q
	}
	if c < 1 {
		c = 1
	}
	return c
}
