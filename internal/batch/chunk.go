package batch

import (
	"fmt"
	"slices"
)

// Chunk splits files into contiguous chunks of size files each. The last
// chunk holds the remainder and may be shorter. Chunks share the backing
// array of files.
func Chunk(files []string, size int) ([][]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than zero (got %d)", size)
	}
	return slices.Collect(slices.Chunk(files, size)), nil
}
