package dtype

import (
	"errors"
	"fmt"
	"reflect"
)

// Format is a shotfile data-format code.
type Format int16

// Numeric and character format codes.
const (
	Byte      Format = 1
	Char      Format = 2
	Short     Format = 3
	Integer   Format = 4
	Float     Format = 5
	Double    Format = 6
	Logical   Format = 7
	UByte     Format = 8
	LongLong  Format = 10
	UShort    Format = 11
	UInteger  Format = 12
	ULongLong Format = 13

	Char8  Format = 1794
	Char16 Format = 3842
	Char32 Format = 7938
	Char48 Format = 12034
	Char64 Format = 16130
	Char72 Format = 18178
)

// Kind classifies the Go representation of a format.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindUint
	KindFloat
	KindBool
	KindChar
)

// Descriptor describes one numeric format.
type Descriptor struct {
	Format Format
	Name   string
	Kind   Kind
	Size   int
}

// ErrUnsupported is matched by every *UnsupportedFormatError.
var ErrUnsupported = errors.New("unsupported code")

// ErrRange is returned when a value does not fit the width of a format.
var ErrRange = errors.New("value out of range")

// UnsupportedFormatError reports a code that is absent from a lookup table.
type UnsupportedFormatError struct {
	Code  int
	Table string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported %s code %d", e.Table, e.Code)
}

// Is makes errors.Is(err, ErrUnsupported) hold.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupported
}

var numeric = map[Format]Descriptor{
	Byte:      {Byte, "BYTE", KindInt, 1},
	Short:     {Short, "SHORT_INT", KindInt, 2},
	Integer:   {Integer, "INTEGER", KindInt, 4},
	Float:     {Float, "IEEE_FLOAT", KindFloat, 4},
	Double:    {Double, "IEEE_DOUBLE", KindFloat, 8},
	Logical:   {Logical, "LOGICAL", KindBool, 1},
	UByte:     {UByte, "U_BYTE", KindUint, 1},
	LongLong:  {LongLong, "LONGLONG", KindInt, 8},
	UShort:    {UShort, "U_SHORT", KindUint, 2},
	UInteger:  {UInteger, "U_INTEGER", KindUint, 4},
	ULongLong: {ULongLong, "U_LONGLONG", KindUint, 8},
}

var charLength = map[Format]int{
	Char:   1,
	Char8:  8,
	Char16: 16,
	Char32: 32,
	Char48: 48,
	Char64: 64,
	Char72: 72,
}

// Lookup returns the descriptor of a numeric format.
func Lookup(f Format) (Descriptor, error) {
	d, ok := numeric[f]
	if !ok {
		return Descriptor{}, &UnsupportedFormatError{Code: int(f), Table: "numeric format"}
	}
	return d, nil
}

// IsNumeric reports whether f is a known numeric (or logical) format.
func IsNumeric(f Format) bool {
	_, ok := numeric[f]
	return ok
}

// IsChar reports whether f is a known character format.
func IsChar(f Format) bool {
	_, ok := charLength[f]
	return ok
}

// CharLength returns the fixed field width of a character format.
func CharLength(f Format) (int, error) {
	n, ok := charLength[f]
	if !ok {
		return 0, &UnsupportedFormatError{Code: int(f), Table: "character format"}
	}
	return n, nil
}

// TypeLength returns the byte length of one element of format f.
func TypeLength(f Format) (int, error) {
	if n, ok := charLength[f]; ok {
		return n, nil
	}
	if d, ok := numeric[f]; ok {
		return d.Size, nil
	}
	return 0, &UnsupportedFormatError{Code: int(f), Table: "format"}
}

// String returns the descriptor name, e.g. "INTEGER" or "CHAR*8".
func (f Format) String() string {
	if d, ok := numeric[f]; ok {
		return d.Name
	}
	if n, ok := charLength[f]; ok {
		if n == 1 {
			return "CHAR"
		}
		return fmt.Sprintf("CHAR*%d", n)
	}
	return fmt.Sprintf("Format(%d)", int16(f))
}

// GoType returns the Go element type that Decode produces for f.
func GoType(f Format) (reflect.Type, error) {
	if IsChar(f) {
		return reflect.TypeOf(""), nil
	}
	d, err := Lookup(f)
	if err != nil {
		return nil, err
	}

	switch d.Kind {
	case KindBool:
		return reflect.TypeOf(false), nil
	case KindFloat:
		if d.Size == 4 {
			return reflect.TypeOf(float32(0)), nil
		}
		return reflect.TypeOf(float64(0)), nil
	case KindUint:
		switch d.Size {
		case 1:
			return reflect.TypeOf(uint8(0)), nil
		case 2:
			return reflect.TypeOf(uint16(0)), nil
		case 4:
			return reflect.TypeOf(uint32(0)), nil
		}
		return reflect.TypeOf(uint64(0)), nil
	default:
		switch d.Size {
		case 1:
			return reflect.TypeOf(int8(0)), nil
		case 2:
			return reflect.TypeOf(int16(0)), nil
		case 4:
			return reflect.TypeOf(int32(0)), nil
		}
		return reflect.TypeOf(int64(0)), nil
	}
}
