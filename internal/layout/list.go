package layout

import (
	"fmt"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
)

// DecodeList parses n object IDs of format f.
func DecodeList(data []byte, f dtype.Format, n int) ([]int, error) {
	if !dtype.IsNumeric(f) || f == dtype.Logical {
		return nil, fmt.Errorf("list format %s is not an integer format", f)
	}
	vals, err := dtype.Decode(f, data, n)
	if err != nil {
		return nil, err
	}
	ints, err := dtype.Int64s(vals)
	if err != nil {
		return nil, fmt.Errorf("list values: %w", err)
	}
	ids := make([]int, len(ints))
	for i, v := range ints {
		ids[i] = int(v)
	}
	return ids, nil
}

// EncodeList serializes object IDs in format f, zero padded to a multiple
// of 8 bytes.
func EncodeList(f dtype.Format, ids []int) ([]byte, error) {
	raw, err := dtype.Encode(f, ids)
	if err != nil {
		return nil, err
	}
	out := make([]byte, binary.Next8(uint64(len(raw))))
	copy(out, raw)
	return out, nil
}
