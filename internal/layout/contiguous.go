package layout

import (
	"fmt"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
)

// Contiguous is a payload stored as a single block in the file.
type Contiguous struct {
	address uint64
	format  dtype.Format
	shape   []int
	reader  *binary.Reader
}

// NewContiguous creates a layout for a payload at address, in bytes.
func NewContiguous(r *binary.Reader, address uint64, f dtype.Format, shape []int) *Contiguous {
	return &Contiguous{
		address: address,
		format:  f,
		shape:   shape,
		reader:  r,
	}
}

func (c *Contiguous) Shape() []int {
	return c.shape
}

// Address returns the payload address in bytes.
func (c *Contiguous) Address() uint64 {
	return c.address
}

// Size returns the full payload size in bytes.
func (c *Contiguous) Size() (uint64, error) {
	size, err := dtype.TypeLength(c.format)
	if err != nil {
		return 0, err
	}
	return uint64(product(c.shape)) * uint64(size), nil
}

// Read reads the selected range of the last axis. Only the bytes of the
// window are read from the file.
func (c *Contiguous) Read(w Window) (*Array, error) {
	size, err := dtype.TypeLength(c.format)
	if err != nil {
		return nil, err
	}
	n, inner := lastAxis(c.shape)
	w, err = w.Normalize(n)
	if err != nil {
		return nil, err
	}

	count := (w.End - w.Begin) * inner
	offset := c.address + uint64(w.Begin*inner*size)

	var data []byte
	if count > 0 {
		data, err = c.reader.At(int64(offset)).ReadBytes(count * size)
		if err != nil {
			return nil, fmt.Errorf("reading %d bytes at %d: %w", count*size, offset, err)
		}
	}

	values, err := dtype.Decode(c.format, data, count)
	if err != nil {
		return nil, err
	}

	return &Array{
		Format: c.format,
		Shape:  windowShape(c.shape, w),
		Values: values,
	}, nil
}
