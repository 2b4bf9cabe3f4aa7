package param

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/units"
)

// Record geometry.
const (
	NameSize   = 8
	HeaderSize = 16
)

// ErrTruncated is returned when a record extends past the end of its buffer.
var ErrTruncated = errors.New("parameter record truncated")

// Param is one decoded parameter record.
type Param struct {
	Name     string
	PhysUnit int16
	// Unit is empty when PhysUnit is not a known unit code.
	Unit   string
	Format dtype.Format
	NItems int16
	Status int16

	// Min and Max are scalars: byte for character formats, bool for
	// LOGICAL, GoType(Format) otherwise.
	Min, Max any

	// Value is always a slice: []string of fixed-width fields for
	// character formats, a typed slice otherwise.
	Value any
}

// New builds a parameter from a typed slice or scalar. Min and Max default
// to the zero value of the format.
func New(name string, f dtype.Format, value any) (*Param, error) {
	if len(name) > NameSize {
		return nil, fmt.Errorf("parameter name %q longer than %d bytes", name, NameSize)
	}
	// Normalize through the codec so Value has the canonical slice type.
	raw, err := dtype.Encode(f, value)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", name, err)
	}
	size, _ := dtype.TypeLength(f)
	n := len(raw) / size
	if n > math.MaxInt16 {
		return nil, fmt.Errorf("parameter %s: %d items exceed the 16-bit item count", name, n)
	}
	vals, err := dtype.Decode(f, raw, n)
	if err != nil {
		return nil, err
	}

	p := &Param{
		Name:   name,
		Format: f,
		NItems: int16(n),
		Value:  vals,
	}
	switch {
	case dtype.IsChar(f):
		p.Min, p.Max = byte(' '), byte(' ')
	case f == dtype.Logical:
		p.Min, p.Max = false, false
	default:
		t, _ := dtype.GoType(f)
		p.Min = reflect.Zero(t).Interface()
		p.Max = p.Min
	}
	return p, nil
}

// Len returns the number of values.
func (p *Param) Len() int {
	return dtype.Len(p.Value)
}

// Scalar returns the single value of a one-item parameter.
func (p *Param) Scalar() (any, error) {
	if p.Len() != 1 {
		return nil, fmt.Errorf("parameter %s has %d items, not 1", p.Name, p.Len())
	}
	return dtype.Index(p.Value, 0)
}

// Float64s widens numeric values to float64.
func (p *Param) Float64s() ([]float64, error) {
	if dtype.IsChar(p.Format) {
		return nil, fmt.Errorf("parameter %s is character data", p.Name)
	}
	return dtype.Float64s(p.Value)
}

// Float64 returns the single value widened to float64.
func (p *Param) Float64() (float64, error) {
	v, err := p.Scalar()
	if err != nil {
		return 0, err
	}
	fs, err := dtype.Float64s(v)
	if err != nil {
		return 0, err
	}
	return fs[0], nil
}

// Int64s converts integer values to int64.
func (p *Param) Int64s() ([]int64, error) {
	if dtype.IsChar(p.Format) {
		return nil, fmt.Errorf("parameter %s is character data", p.Name)
	}
	return dtype.Int64s(p.Value)
}

// Strings returns character values with trailing padding removed.
func (p *Param) Strings() ([]string, error) {
	vs, ok := p.Value.([]string)
	if !ok {
		return nil, fmt.Errorf("parameter %s is not character data", p.Name)
	}
	out := make([]string, len(vs))
	for i, s := range vs {
		out[i] = strings.TrimRight(s, " \x00")
	}
	return out, nil
}

// RecordLength returns the encoded size of the record including its header.
// The result is always a multiple of 8.
func (p *Param) RecordLength() (int, error) {
	block, err := blockLength(p.Format, int(p.NItems))
	if err != nil {
		return 0, err
	}
	return HeaderSize + block, nil
}

// blockLength is the exact size of the data block as written, including the
// bounds and the padding to 8 bytes. The decoder steps over records by it.
func blockLength(f dtype.Format, n int) (int, error) {
	size, err := dtype.TypeLength(f)
	if err != nil {
		return 0, err
	}
	switch {
	case dtype.IsChar(f):
		return next8(2 + n*size), nil
	case f == dtype.Logical:
		return next8(5 + n), nil
	default:
		return next8((n + 2) * size), nil
	}
}

func next8(n int) int {
	return (n + 7) &^ 7
}

func unitOf(code int16) string {
	s, err := units.Unit(code)
	if err != nil {
		return ""
	}
	return s
}

// sliceFrom returns values[i:] keeping the concrete slice type.
func sliceFrom(values any, i int) any {
	v := reflect.ValueOf(values)
	return v.Slice(i, v.Len()).Interface()
}
