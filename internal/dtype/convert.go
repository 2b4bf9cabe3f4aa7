package dtype

// Conversion from raw shotfile bytes to Go values.
//
// Shotfile payloads are always big-endian. Decode returns a freshly
// allocated typed slice whose element type is GoType(f); multi-dimensional
// payloads stay flat in column-major order and are shaped by the caller.

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrShortData is returned when a buffer holds fewer elements than requested.
var ErrShortData = errors.New("buffer too short for element count")

// Decode converts n big-endian elements of format f to a typed slice.
// Character formats yield []string with each fixed-width field kept verbatim.
func Decode(f Format, data []byte, n int) (any, error) {
	size, err := TypeLength(f)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative element count %d", n)
	}
	if len(data) < n*size {
		return nil, fmt.Errorf("%w: %s needs %d bytes for %d elements, have %d",
			ErrShortData, f, n*size, n, len(data))
	}

	if IsChar(f) {
		out := make([]string, n)
		for i := range out {
			out[i] = string(data[i*size : (i+1)*size])
		}
		return out, nil
	}

	be := binary.BigEndian
	switch f {
	case Byte:
		return decodeSlice(data, n, 1, func(b []byte) int8 { return int8(b[0]) }), nil
	case UByte:
		return decodeSlice(data, n, 1, func(b []byte) uint8 { return b[0] }), nil
	case Logical:
		return decodeSlice(data, n, 1, func(b []byte) bool { return b[0] != 0 }), nil
	case Short:
		return decodeSlice(data, n, 2, func(b []byte) int16 { return int16(be.Uint16(b)) }), nil
	case UShort:
		return decodeSlice(data, n, 2, be.Uint16), nil
	case Integer:
		return decodeSlice(data, n, 4, func(b []byte) int32 { return int32(be.Uint32(b)) }), nil
	case UInteger:
		return decodeSlice(data, n, 4, be.Uint32), nil
	case LongLong:
		return decodeSlice(data, n, 8, func(b []byte) int64 { return int64(be.Uint64(b)) }), nil
	case ULongLong:
		return decodeSlice(data, n, 8, be.Uint64), nil
	case Float:
		return decodeSlice(data, n, 4, func(b []byte) float32 { return math.Float32frombits(be.Uint32(b)) }), nil
	case Double:
		return decodeSlice(data, n, 8, func(b []byte) float64 { return math.Float64frombits(be.Uint64(b)) }), nil
	}
	return nil, &UnsupportedFormatError{Code: int(f), Table: "format"}
}

func decodeSlice[T any](data []byte, n, size int, get func([]byte) T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = get(data[i*size : (i+1)*size])
	}
	return out
}

// Len returns the length of a slice produced by Decode, or 0 for nil.
func Len(values any) int {
	if values == nil {
		return 0
	}
	v := reflect.ValueOf(values)
	if v.Kind() != reflect.Slice {
		return 1
	}
	return v.Len()
}

// Index returns element i of a slice produced by Decode.
func Index(values any, i int) (any, error) {
	v := reflect.ValueOf(values)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("not a slice: %T", values)
	}
	if i < 0 || i >= v.Len() {
		return nil, fmt.Errorf("index %d out of range [0,%d)", i, v.Len())
	}
	return v.Index(i).Interface(), nil
}

// Float64s widens any numeric slice or scalar to []float64.
func Float64s(values any) ([]float64, error) {
	switch vs := values.(type) {
	case []float64:
		out := make([]float64, len(vs))
		copy(out, vs)
		return out, nil
	case float64:
		return []float64{vs}, nil
	}

	v := reflect.ValueOf(values)
	if !v.IsValid() {
		return nil, fmt.Errorf("nil values")
	}
	if v.Kind() != reflect.Slice {
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}

	out := make([]float64, v.Len())
	for i := range out {
		f, err := toFloat64(v.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// Int64s converts any integer slice or scalar to []int64.
func Int64s(values any) ([]int64, error) {
	v := reflect.ValueOf(values)
	if !v.IsValid() {
		return nil, fmt.Errorf("nil values")
	}
	if v.Kind() != reflect.Slice {
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return []int64{i}, nil
	}

	out := make([]int64, v.Len())
	for i := range out {
		n, err := toInt64(v.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func toFloat64(v reflect.Value) (float64, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert %s to float64", v.Type())
}

func toInt64(v reflect.Value) (int64, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert %s to int64", v.Type())
}
