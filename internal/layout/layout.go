package layout

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/object"
)

// Errors
var (
	ErrNotArray = errors.New("object carries no array payload")
	ErrWindow   = errors.New("invalid window")
)

// Layout produces the payload of an array object.
type Layout interface {
	// Read returns the elements selected by w along the last axis.
	Read(w Window) (*Array, error)

	// Shape returns the full, unwindowed shape.
	Shape() []int
}

// Window selects [Begin, End) along the last axis. A negative End means
// through the last index.
type Window struct {
	Begin int
	End   int
}

// All selects the whole array.
var All = Window{Begin: 0, End: -1}

// Normalize resolves a negative End against n and validates the bounds.
func (w Window) Normalize(n int) (Window, error) {
	if w.End < 0 {
		w.End = n
	}
	if w.Begin < 0 || w.Begin > w.End || w.End > n {
		return Window{}, fmt.Errorf("%w: [%d, %d) on axis of length %d", ErrWindow, w.Begin, w.End, n)
	}
	return w, nil
}

// Array is a decoded payload. Values is a flat typed slice in column-major
// order whose element type is dtype.GoType(Format), except for generated
// time axes which are []float32 or []float64.
type Array struct {
	Format dtype.Format
	Shape  []int
	Values any
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return dtype.Len(a.Values)
}

// At returns the element at the given column-major index.
func (a *Array) At(idx ...int) (any, error) {
	if len(idx) != len(a.Shape) {
		return nil, fmt.Errorf("index has %d dimensions, array has %d", len(idx), len(a.Shape))
	}
	flat, stride := 0, 1
	for d, i := range idx {
		if i < 0 || i >= a.Shape[d] {
			return nil, fmt.Errorf("index %d out of range [0,%d) on axis %d", i, a.Shape[d], d)
		}
		flat += i * stride
		stride *= a.Shape[d]
	}
	return dtype.Index(a.Values, flat)
}

// Float64s widens the values to float64.
func (a *Array) Float64s() ([]float64, error) {
	return dtype.Float64s(a.Values)
}

// ArrayShape returns the column-major shape of an array object.
func ArrayShape(h *object.Header) ([]int, error) {
	switch a := h.Attrs.(type) {
	case *object.SignalAttrs, *object.SignalGroupAttrs:
		sig, _ := object.SignalOf(a)
		n := int(sig.NumDims)
		if n < 0 || n > len(sig.Index) {
			return nil, fmt.Errorf("%s: num_dims %d out of range", h.Name, n)
		}
		shape := make([]int, 0, n)
		for i := len(sig.Index) - 1; i >= 0 && len(shape) < n; i-- {
			shape = append(shape, int(sig.Index[i]))
		}
		return shape, nil

	case *object.TimeBaseAttrs:
		return []int{int(a.NSteps)}, nil

	case *object.AreaBaseAttrs:
		var shape []int
		for _, s := range a.Size {
			if s != 0 {
				shape = append(shape, int(s))
			}
		}
		return append(shape, int(a.NSteps)), nil
	}
	return nil, fmt.Errorf("%w: %s is %s", ErrNotArray, h.Name, h.Label)
}

// ObjectLength returns the payload size in bytes implied by the header.
func ObjectLength(h *object.Header) (uint64, error) {
	shape, err := ArrayShape(h)
	if err != nil {
		return 0, err
	}
	f, ok := h.Attrs.(object.Formatted)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no data format", ErrNotArray, h.Name)
	}
	size, err := dtype.TypeLength(f.Format())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", h.Name, err)
	}
	return uint64(product(shape)) * uint64(size), nil
}

func product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// lastAxis returns the extent of the last axis and the number of elements
// in one step along it. A shape without axes holds a single element.
func lastAxis(shape []int) (n, inner int) {
	if len(shape) == 0 {
		return 1, 1
	}
	return shape[len(shape)-1], product(shape[:len(shape)-1])
}

func windowShape(shape []int, w Window) []int {
	out := append([]int(nil), shape...)
	if len(out) > 0 {
		out[len(out)-1] = w.End - w.Begin
	}
	return out
}

// sliceRange returns values[i:j] keeping the concrete slice type.
func sliceRange(values any, i, j int) any {
	return reflect.ValueOf(values).Slice(i, j).Interface()
}
