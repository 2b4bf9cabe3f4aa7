// Package param decodes and encodes the parameter records stored in the
// payload of ParamSet and Device objects.
//
// Each record is laid out as:
//
//	Offset  Size  Field
//	0       8     name, space padded
//	8       2     physunit
//	10      2     dataFormat
//	12      2     n_items
//	14      2     status
//	16      ...   data block, padded to a multiple of 8
//
// The data block depends on the format:
//
//   - character formats: dmin (1 byte), dmax (1 byte), then n_items fixed
//     width fields
//   - LOGICAL: dmin, 2 pad bytes, dmax, 1 pad byte, then n_items bytes
//   - other numeric formats: dmin, dmax and n_items values, all of the
//     format's width
package param
