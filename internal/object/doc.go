// Package object handles the fixed 128-byte shotfile object headers.
//
// The start of every shotfile is a table of object headers, one per slot.
// Slot j lives at byte offset j*128. Each header names one object and
// describes where its payload lives:
//
//	Offset | Size | Field
//	-------|------|-----------------------------------------------
//	0      | 8    | object name, space padded
//	8      | 2    | object type tag
//	10     | 2    | level
//	12     | 2    | status
//	14     | 2    | error code
//	16     | 16   | relations: 8 slot indices, 65535 = none
//	32     | 4    | payload address, in ADDRLEN units
//	36     | 4    | payload length in bytes
//	40     | 24   | type-specific sub-record
//	64     | 64   | description, space padded
//
// All integers are big-endian.
//
// # Labels
//
// The type tag resolves to a [Label]. Tags missing from the table resolve to
// [Unknown]; their sub-record is kept as raw bytes and re-emitted verbatim.
//
// # Sub-records
//
// Each known label has its own [Attributes] implementation that decodes and
// re-encodes the 24-byte sub-record. Bytes a layout does not cover are
// preserved, so Parse followed by Encode reproduces the slot exactly.
//
// # Usage
//
//	h, err := object.Read(reader, slot)
//	if errors.Is(err, object.ErrEmptyName) {
//	    // end of the header table
//	}
//	if sig, ok := h.Attrs.(*object.SignalAttrs); ok {
//	    fmt.Println(sig.Index, sig.NumDims)
//	}
package object
