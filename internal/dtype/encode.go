package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Encode converts Go values to raw big-endian bytes of format f.
// The src parameter may be a slice, an array or a single scalar. Numeric
// values of any Go kind are converted to the width of f.
func Encode(f Format, src any) ([]byte, error) {
	size, err := TypeLength(f)
	if err != nil {
		return nil, err
	}

	srcVal := reflect.ValueOf(src)
	if !srcVal.IsValid() {
		return nil, fmt.Errorf("nil source value")
	}
	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}

	switch srcVal.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		// Scalar value
		sliceVal := reflect.MakeSlice(reflect.SliceOf(srcVal.Type()), 1, 1)
		sliceVal.Index(0).Set(srcVal)
		srcVal = sliceVal
	}

	n := srcVal.Len()
	data := make([]byte, n*size)

	if IsChar(f) {
		for i := 0; i < n; i++ {
			if err := encodeChar(data[i*size:(i+1)*size], srcVal.Index(i)); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return data, nil
	}

	d, err := Lookup(f)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := encodeNumber(data[i*size:(i+1)*size], d, srcVal.Index(i)); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return data, nil
}

// encodeChar writes a string left-justified and space-padded into dst.
func encodeChar(dst []byte, v reflect.Value) error {
	var s string
	switch v.Kind() {
	case reflect.String:
		s = v.String()
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("cannot encode %s as characters", v.Type())
		}
		s = string(v.Bytes())
	case reflect.Uint8:
		s = string([]byte{byte(v.Uint())})
	default:
		return fmt.Errorf("cannot encode %s as characters", v.Type())
	}
	if len(s) > len(dst) {
		return fmt.Errorf("string %q longer than field width %d", s, len(dst))
	}
	copy(dst, s+strings.Repeat(" ", len(dst)-len(s)))
	return nil
}

func encodeNumber(dst []byte, d Descriptor, v reflect.Value) error {
	be := binary.BigEndian

	if d.Kind == KindBool {
		b := false
		switch v.Kind() {
		case reflect.Bool:
			b = v.Bool()
		default:
			i, err := toInt64(v)
			if err != nil {
				return err
			}
			b = i != 0
		}
		if b {
			dst[0] = 1
		}
		return nil
	}

	if d.Kind == KindFloat {
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		if d.Size == 4 {
			be.PutUint32(dst, math.Float32bits(float32(f)))
		} else {
			be.PutUint64(dst, math.Float64bits(f))
		}
		return nil
	}

	var bits uint64
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits = v.Uint()
		if !fitsUint(d, bits) {
			return outOfRange(d, v)
		}
	case reflect.Float32, reflect.Float64:
		f := math.Trunc(v.Float())
		switch {
		case math.IsNaN(f) || f < math.MinInt64 || f >= 1<<64:
			return outOfRange(d, v)
		case f >= 1<<63:
			bits = uint64(f)
			if !fitsUint(d, bits) {
				return outOfRange(d, v)
			}
		default:
			i := int64(f)
			if !fitsInt(d, i) {
				return outOfRange(d, v)
			}
			bits = uint64(i)
		}
	default:
		i, err := toInt64(v)
		if err != nil {
			return err
		}
		if !fitsInt(d, i) {
			return outOfRange(d, v)
		}
		bits = uint64(i)
	}

	switch d.Size {
	case 1:
		dst[0] = byte(bits)
	case 2:
		be.PutUint16(dst, uint16(bits))
	case 4:
		be.PutUint32(dst, uint32(bits))
	case 8:
		be.PutUint64(dst, bits)
	default:
		return fmt.Errorf("unsupported integer size: %d", d.Size)
	}
	return nil
}

func fitsInt(d Descriptor, i int64) bool {
	bits := 8 * d.Size
	if d.Kind == KindUint {
		return i >= 0 && (bits == 64 || uint64(i) < 1<<bits)
	}
	if bits == 64 {
		return true
	}
	return i >= -(1<<(bits-1)) && i < 1<<(bits-1)
}

func fitsUint(d Descriptor, u uint64) bool {
	bits := 8 * d.Size
	if d.Kind == KindUint {
		return bits == 64 || u < 1<<bits
	}
	return u < 1<<(bits-1)
}

func outOfRange(d Descriptor, v reflect.Value) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrRange, v.Interface(), d.Name)
}
