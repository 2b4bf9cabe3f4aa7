// Package dtype provides shotfile data-format handling and Go type conversion.
//
// Every shotfile object or parameter that carries values names its element
// type with a 16-bit data-format code. This package holds the static tables
// that map those codes to a descriptor, a Go element type and a byte length,
// and converts between raw big-endian bytes and Go slices.
//
// # Format Table
//
//	Code   | Descriptor   | Go Type | Bytes
//	-------|--------------|---------|------
//	1      | BYTE         | int8    | 1
//	2      | CHAR         | string  | 1
//	3      | SHORT_INT    | int16   | 2
//	4      | INTEGER      | int32   | 4
//	5      | IEEE_FLOAT   | float32 | 4
//	6      | IEEE_DOUBLE  | float64 | 8
//	7      | LOGICAL      | bool    | 1
//	8      | U_BYTE       | uint8   | 1
//	10     | LONGLONG     | int64   | 8
//	11     | U_SHORT      | uint16  | 2
//	12     | U_INTEGER    | uint32  | 4
//	13     | U_LONGLONG   | uint64  | 8
//
// Character formats encode the field width in the code itself
// (code = 2 + 256*(width-1)): 1794 is CHAR*8, 3842 CHAR*16, 7938 CHAR*32,
// 12034 CHAR*48, 16130 CHAR*64 and 18178 CHAR*72.
//
// # Reading Data
//
//	values, err := dtype.Decode(dtype.Integer, raw, 16) // []int32
//
// # Writing Data
//
//	raw, err := dtype.Encode(dtype.Integer, []int32{1, 2, 3})
//
// Unknown codes fail with [*UnsupportedFormatError], which matches
// [ErrUnsupported] under errors.Is.
package dtype
