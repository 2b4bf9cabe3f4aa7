// Package shotfile reads and writes AUG shotfiles: a flat binary container
// holding a directory of 128-byte object headers followed by the payloads
// of lists, parameter sets and data arrays.
package shotfile

import (
	"errors"

	"github.com/robert-malhotra/go-shotfile/internal/alloc"
	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/layout"
)

// Common errors
var (
	ErrNotFound      = errors.New("object not found")
	ErrNotData       = errors.New("object carries no data payload")
	ErrRelationRange = errors.New("relation out of range")
	ErrClosed        = errors.New("file is closed")
	ErrWriteOnly     = errors.New("file is open for writing only")
	ErrLayout        = errors.New("invalid file layout")

	ErrShortRead   = binary.ErrShortRead
	ErrWindow      = layout.ErrWindow
	ErrUnsupported = dtype.ErrUnsupported
	ErrOverlap     = alloc.ErrOverlap
	ErrMisaligned  = alloc.ErrMisaligned
)

// UnsupportedFormatError reports a format, unit, calibration or timebase
// code missing from the lookup tables.
type UnsupportedFormatError = dtype.UnsupportedFormatError

// DefaultMaxSlots is the number of header slots scanned when the file
// does not declare its object count.
const DefaultMaxSlots = 1000
