package binary

import (
	"fmt"
	"math"
	"os"
)

// ReadChunk opens path, reads exactly length bytes at offset and closes the
// file again. No state is kept between calls.
func ReadChunk(path string, offset, length uint64) ([]byte, error) {
	if offset > math.MaxInt64 || length > math.MaxInt32 {
		return nil, fmt.Errorf("chunk out of range: offset %d length %d", offset, length)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewReader(f, DefaultConfig()).At(int64(offset)).ReadBytes(int(length))
}

// Next8 rounds n up to the next multiple of 8.
func Next8(n uint64) uint64 {
	return (n + 7) &^ 7
}
