// Package binary provides low-level binary I/O for shotfile parsing.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when fewer bytes are available than requested.
var ErrShortRead = errors.New("short read")

// Reader reads fixed-width big-endian fields from an io.ReaderAt.
type Reader struct {
	r        io.ReaderAt
	order    binary.ByteOrder
	tolerant bool
	pos      int64
}

// Config holds reader and writer configuration.
type Config struct {
	ByteOrder binary.ByteOrder

	// Tolerant makes ReadBytes return whatever is available instead of
	// failing with ErrShortRead. Legacy tools behave this way.
	Tolerant bool
}

// DefaultConfig returns the shotfile configuration: big-endian, strict reads.
func DefaultConfig() Config {
	return Config{
		ByteOrder: binary.BigEndian,
	}
}

// NewReader creates a binary reader with the given configuration.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	order := cfg.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}
	return &Reader{
		r:        r,
		order:    order,
		tolerant: cfg.Tolerant,
	}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{
		r:        r.r,
		order:    r.order,
		tolerant: r.tolerant,
		pos:      offset,
	}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := r.r.ReadAt(buf, r.pos)
	if got < n {
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if !r.tolerant {
			return nil, fmt.Errorf("%w: %d of %d bytes at offset %d", ErrShortRead, got, n, r.pos)
		}
		buf = buf[:got]
	}
	r.pos += int64(got)
	return buf, nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.readFull(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(buf), nil
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.readFull(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// readFull is ReadBytes without the tolerant escape hatch: a scalar
// field is never partially usable.
func (r *Reader) readFull(n int) ([]byte, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	if len(buf) < n {
		return nil, fmt.Errorf("%w: %d of %d bytes at offset %d", ErrShortRead, len(buf), n, r.pos)
	}
	return buf, nil
}
