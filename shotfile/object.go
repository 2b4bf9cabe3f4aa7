package shotfile

import (
	"fmt"

	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/layout"
	"github.com/robert-malhotra/go-shotfile/internal/object"
	"github.com/robert-malhotra/go-shotfile/internal/param"
	"github.com/robert-malhotra/go-shotfile/internal/units"
)

// noRef marks an unset arena index.
const noRef = -1

// Object is one entry of the shotfile directory.
type Object struct {
	file   *File
	header *object.Header

	// address is the payload offset in bytes.
	address uint64

	// relations are arena indices of the related objects, in header order.
	relations []int

	list   []string
	params *param.Set
	ts06   int64
	hasTS  bool

	timebase int
	areabase int
	timeDim  int
	areaDim  int
	calFac   float64
	hasCal   bool

	// err holds the non-fatal error met while decoding the payload.
	err error

	cache map[layout.Window]*layout.Array

	// Payload location in the template of a created file.
	srcAddr   uint64
	srcLength uint64
}

func newObject(f *File, h *object.Header) *Object {
	return &Object{
		file:     f,
		header:   h,
		timebase: noRef,
		areabase: noRef,
		timeDim:  noRef,
		areaDim:  noRef,
	}
}

// ID returns the slot index of the object.
func (o *Object) ID() int {
	return o.header.Slot
}

// Name returns the object name.
func (o *Object) Name() string {
	return o.header.Name
}

// Descr returns the free-text description.
func (o *Object) Descr() string {
	return o.header.Descr
}

// Label returns the resolved object type.
func (o *Object) Label() Label {
	return o.header.Label
}

// Type returns the raw object type tag.
func (o *Object) Type() int16 {
	return o.header.Type
}

func (o *Object) Level() int16   { return o.header.Level }
func (o *Object) Status() int16  { return o.header.Status }
func (o *Object) ErrCode() int16 { return o.header.ErrCode }

// Address returns the payload offset in bytes.
func (o *Object) Address() uint64 {
	return o.address
}

// Length returns the payload length in bytes.
func (o *Object) Length() uint32 {
	return o.header.Length
}

// Header returns the decoded header. Changes made to it are written by
// Flush on a created file.
func (o *Object) Header() *Header {
	return o.header
}

// Attrs returns the type-specific attributes, or nil for unknown types.
func (o *Object) Attrs() Attributes {
	return o.header.Attrs
}

// Err returns the error met while decoding the object's list or parameter
// payload during Open. The object stays usable with the partial result.
func (o *Object) Err() error {
	return o.err
}

// Format returns the data format, if the object has one.
func (o *Object) Format() (Format, bool) {
	f, ok := o.header.Attrs.(object.Formatted)
	if !ok {
		return 0, false
	}
	return f.Format(), true
}

// DataType returns the name of the data format, e.g. "IEEE_FLOAT".
func (o *Object) DataType() string {
	f, ok := o.Format()
	if !ok || (!dtype.IsNumeric(f) && !dtype.IsChar(f)) {
		return ""
	}
	return f.String()
}

// Unit returns the physical unit of a Signal or SignalGroup. Unknown unit
// codes yield an empty string.
func (o *Object) Unit() string {
	sig, ok := object.SignalOf(o.header.Attrs)
	if !ok {
		return ""
	}
	u, _ := sig.Unit()
	return u
}

// Relations returns the names of the related objects.
func (o *Object) Relations() []string {
	names := make([]string, len(o.relations))
	for i, idx := range o.relations {
		names[i] = o.file.objects[idx].Name()
	}
	return names
}

// Related returns the related objects in header order.
func (o *Object) Related() []*Object {
	objs := make([]*Object, len(o.relations))
	for i, idx := range o.relations {
		objs[i] = o.file.objects[idx]
	}
	return objs
}

// List returns the member names of a List object.
func (o *Object) List() []string {
	return o.list
}

// Params returns the parameters of a ParamSet or Device, or nil.
func (o *Object) Params() *ParamSet {
	return o.params
}

// Param returns one parameter by name.
func (o *Object) Param(name string) (*Param, error) {
	if o.params == nil {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotData, o.Name(), o.Label())
	}
	p, ok := o.params.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: parameter %s in %s", ErrNotFound, name, o.Name())
	}
	return p, nil
}

// TS06 returns the absolute trigger timestamp of a Device, if recorded.
func (o *Object) TS06() (int64, bool) {
	return o.ts06, o.hasTS
}

// Timebase returns the TimeBase a signal is related to, or nil.
func (o *Object) Timebase() *Object {
	return o.ref(o.timebase)
}

// AreaBase returns the AreaBase a signal is related to, or nil.
func (o *Object) AreaBase() *Object {
	return o.ref(o.areabase)
}

func (o *Object) ref(idx int) *Object {
	if idx == noRef {
		return nil
	}
	return o.file.objects[idx]
}

// TimeDim returns the axis of a signal that runs along its timebase.
func (o *Object) TimeDim() (int, bool) {
	return o.timeDim, o.timeDim != noRef
}

// AreaDim returns the axis of a signal that runs along its areabase.
func (o *Object) AreaDim() (int, bool) {
	return o.areaDim, o.areaDim != noRef
}

// CalFac returns the calibration factor of a signal stored in counts: the
// sampling rate of its timebase.
func (o *Object) CalFac() (float64, bool) {
	return o.calFac, o.hasCal
}

// Shape returns the column-major shape of an array object.
func (o *Object) Shape() ([]int, error) {
	shape, err := layout.ArrayShape(o.header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotData, err)
	}
	return shape, nil
}

// timeLast reports whether a signal's time axis is its last axis.
func (o *Object) timeLast() bool {
	sig, ok := object.SignalOf(o.header.Attrs)
	if !ok || o.timeDim == noRef {
		return false
	}
	return o.timeDim == int(sig.NumDims)-1
}

// Windowed reports whether DataRange may select a sub-range of the last
// axis.
func (o *Object) Windowed() bool {
	switch o.Label() {
	case LabelSignal, LabelTimeBase, LabelAreaBase:
		return true
	case LabelSignalGroup:
		return o.timeLast()
	}
	return false
}

// Data reads the full payload of a Signal, SignalGroup, TimeBase or
// AreaBase.
func (o *Object) Data() (*Array, error) {
	return o.read(layout.All)
}

// DataRange reads the samples [begin, end) along the last axis. A negative
// end reads through the last sample. Results are cached per range.
func (o *Object) DataRange(begin, end int) (*Array, error) {
	return o.read(layout.Window{Begin: begin, End: end})
}

func (o *Object) read(w layout.Window) (*Array, error) {
	f := o.file
	if f.closed {
		return nil, ErrClosed
	}
	if f.reader == nil {
		return nil, ErrWriteOnly
	}
	if !o.Label().IsArray() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotData, o.Name(), o.Label())
	}

	l, err := o.layout()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.Name(), err)
	}

	shape := l.Shape()
	n := 1
	if len(shape) > 0 {
		n = shape[len(shape)-1]
	}
	w, err = w.Normalize(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.Name(), err)
	}
	if (w.Begin != 0 || w.End != n) && !o.Windowed() {
		return nil, fmt.Errorf("%w: %s does not support sub-ranges", ErrWindow, o.Name())
	}

	if a, ok := o.cache[w]; ok {
		return a, nil
	}
	a, err := l.Read(w)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", o.Name(), err)
	}
	if o.cache == nil {
		o.cache = make(map[layout.Window]*layout.Array)
	}
	o.cache[w] = a
	return a, nil
}

// layout selects where the payload comes from. TimeBases without a stored
// payload are computed from their attributes.
func (o *Object) layout() (layout.Layout, error) {
	shape, err := layout.ArrayShape(o.header)
	if err != nil {
		return nil, err
	}
	f, _ := o.Format()

	tb, ok := o.header.Attrs.(*object.TimeBaseAttrs)
	if !ok || o.header.Length != 0 {
		return layout.NewContiguous(o.file.reader, o.address, f, shape), nil
	}

	if tb.TbaseType == units.PPGProg {
		return o.ppgTimes(tb)
	}
	g, err := layout.NewADCTimes(int(tb.NSteps), int(tb.NPre), tb.SRate)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ppgTimes rebuilds a PPG timebase from the last related Device that
// carries a pulse generator configuration.
func (o *Object) ppgTimes(tb *object.TimeBaseAttrs) (layout.Layout, error) {
	var (
		g       *layout.Generated
		lastErr error
	)
	for _, rel := range o.Related() {
		if rel.Label() != LabelDevice || rel.params == nil {
			continue
		}
		ppg, ok, err := layout.PPGFromParams(rel.params)
		if !ok {
			continue
		}
		if err == nil {
			var gen *layout.Generated
			gen, err = layout.NewPPGTimes(ppg, tb.DataFormat, int(tb.NPre), int(tb.NSteps))
			if err == nil {
				g = gen
				continue
			}
		}
		lastErr = fmt.Errorf("device %s: %w", rel.Name(), err)
	}
	if g != nil {
		return g, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: no related PPG device", layout.ErrNoTimes)
}
