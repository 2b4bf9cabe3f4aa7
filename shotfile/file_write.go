package shotfile

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/robert-malhotra/go-shotfile/internal/alloc"
	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/layout"
	"github.com/robert-malhotra/go-shotfile/internal/object"
	"github.com/robert-malhotra/go-shotfile/internal/param"
)

// SignalsList is the name of the List that enumerates all array objects.
// It is regenerated on every write.
const SignalsList = "SIGNALS"

// alignment of every payload region.
const alignment = 8

// region is one payload to place in the output file. Either data holds the
// bytes to write, or copyLen bytes are copied from srcAddr in the source.
type region struct {
	obj     *Object
	addr    uint64
	data    []byte
	srcAddr uint64
	copyLen uint64
}

// Create starts a new shotfile at path holding a copy of template's
// directory. Objects of the new file may be edited before Flush or Close
// writes it. Array payloads are copied from the file template was read
// from.
func Create(path string, template *File, opts ...Option) (*File, error) {
	if template == nil {
		return nil, errors.New("nil template")
	}
	if template.closed {
		return nil, ErrClosed
	}
	source := template.path
	if template.writable {
		source = template.source
	}
	if path == source || path == template.path {
		return nil, fmt.Errorf("%w: output %s would overwrite its source", ErrLayout, path)
	}

	o := buildOptions(opts)
	osFile, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	f := &File{
		path:     path,
		file:     osFile,
		log:      o.logger,
		opts:     o,
		shot:     template.shot,
		addrlen:  template.addrlen,
		lists:    append([]string(nil), template.lists...),
		parsets:  append([]string(nil), template.parsets...),
		arrays:   append([]string(nil), template.arrays...),
		byName:   make(map[string]int, len(template.byName)),
		writable: true,
		source:   source,
		writer:   binary.NewWriter(osFile, binary.DefaultConfig()),
	}
	for name, i := range template.byName {
		f.byName[name] = i
	}

	f.objects = make([]*Object, len(template.objects))
	for i, t := range template.objects {
		c := newObject(f, t.header.Clone())
		c.address = t.address
		c.relations = append([]int(nil), t.relations...)
		c.list = append([]string(nil), t.list...)
		if t.params != nil {
			c.params = param.NewSet()
			for _, p := range t.params.Params() {
				cp := *p
				c.params.Add(&cp)
			}
		}
		c.ts06, c.hasTS = t.ts06, t.hasTS
		c.timebase, c.areabase = t.timebase, t.areabase
		c.timeDim, c.areaDim = t.timeDim, t.areaDim
		c.calFac, c.hasCal = t.calFac, t.hasCal
		if template.writable {
			c.srcAddr, c.srcLength = t.srcAddr, t.srcLength
		} else {
			c.srcAddr, c.srcLength = t.address, uint64(t.header.Length)
		}
		f.objects[i] = c
	}

	return f, nil
}

// IsWritable reports whether the file was created for writing.
func (f *File) IsWritable() bool {
	return f.writable
}

// Flush lays out and writes the whole file.
func (f *File) Flush() error {
	if !f.writable {
		return nil
	}
	if f.closed {
		return ErrClosed
	}
	return f.flush()
}

// AssignAddresses recomputes the length and address of every object
// without writing anything. The layout is: header table, SIGNALS list,
// other lists, parameter sets and devices, then the arrays in slot order,
// each region 8-byte aligned. The Diagnostic object points at the start
// of the array region and records the total file size as its length.
func (f *File) AssignAddresses() error {
	if !f.writable {
		return fmt.Errorf("%w: file is not writable", ErrLayout)
	}
	_, _, err := f.assign()
	return err
}

// AllocStats returns allocation statistics of the last layout.
func (f *File) AllocStats() alloc.Stats {
	if f.allocator == nil {
		return alloc.Stats{}
	}
	return f.allocator.Stats()
}

func (f *File) flush() error {
	regions, eof, err := f.assign()
	if err != nil {
		return err
	}

	for _, o := range f.objects {
		if err := o.header.Write(f.writer); err != nil {
			return fmt.Errorf("writing header of %s: %w", o.Name(), err)
		}
	}

	for _, r := range regions {
		data := r.data
		if r.copyLen > 0 {
			data, err = binary.ReadChunk(f.source, r.srcAddr, r.copyLen)
			if err != nil {
				return fmt.Errorf("copying payload of %s: %w", r.obj.Name(), err)
			}
		}
		if err := f.writer.At(int64(r.addr)).WriteBytes(data); err != nil {
			return fmt.Errorf("writing payload at %d: %w", r.addr, err)
		}
	}

	// Regions shorter than their declared length are zero filled.
	if err := f.file.Truncate(int64(eof)); err != nil {
		return err
	}
	if err := f.file.Sync(); err != nil {
		return err
	}

	f.log.Info("stored shotfile", "path", f.path, "objects", len(f.objects), "bytes", eof)
	return nil
}

// assign computes the layout, updating every header in place.
func (f *File) assign() ([]region, uint64, error) {
	a := alloc.New(0)
	f.allocator = a
	a.AllocTagged(uint64(len(f.objects))*object.SlotSize, "headers")
	for i, o := range f.objects {
		o.header.Slot = i
	}

	var regions []region

	// SIGNALS always directly follows the header table.
	var ids []int
	var names []string
	for i, o := range f.objects {
		if o.Label().IsArray() {
			ids = append(ids, i)
			names = append(names, o.Name())
		}
	}
	if id, ok := f.byName[SignalsList]; ok && f.objects[id].Label() == LabelList {
		o := f.objects[id]
		sigs, err := layout.EncodeList(dtype.Short, ids)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s: %w", ErrLayout, SignalsList, err)
		}
		n, err := itemCount(o, len(ids))
		if err != nil {
			return nil, 0, err
		}
		attrs := o.header.Attrs.(*object.ListAttrs)
		attrs.DataFormat = dtype.Short
		attrs.NItems = n
		o.list = names
		o.header.Length = uint32(2 * len(ids))
		addr := a.AllocAligned(uint64(len(sigs)), alignment, SignalsList)
		if err := f.setAddress(o, addr); err != nil {
			return nil, 0, err
		}
		regions = append(regions, region{obj: o, addr: addr, data: sigs})
	}

	for _, o := range f.objects {
		if o.Label() != LabelList || o.Name() == SignalsList {
			continue
		}
		attrs := o.header.Attrs.(*object.ListAttrs)
		r, err := f.listRegion(a, o, attrs)
		if err != nil {
			return nil, 0, err
		}
		regions = append(regions, r)
	}

	for _, o := range f.objects {
		if !o.Label().IsParamSet() || o.params == nil {
			continue
		}
		data, err := o.params.Encode()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s: %w", ErrLayout, o.Name(), err)
		}
		n, err := itemCount(o, o.params.Len())
		if err != nil {
			return nil, 0, err
		}
		setItems(o.header.Attrs, n)
		o.header.Length = uint32(len(data))
		addr := a.AllocAligned(uint64(len(data)), alignment, o.Name())
		if err := f.setAddress(o, addr); err != nil {
			return nil, 0, err
		}
		regions = append(regions, region{obj: o, addr: addr, data: data})
	}

	addrDiag := a.EOFAddr()

	for _, o := range f.objects {
		switch {
		case o.Label().IsArray():
			// Computed timebases have no stored payload.
			if o.Label() == LabelTimeBase && o.srcLength == 0 {
				o.header.Length = 0
				if err := f.setAddress(o, a.EOFAddr()); err != nil {
					return nil, 0, err
				}
				continue
			}
			n, err := layout.ObjectLength(o.header)
			if err != nil {
				return nil, 0, fmt.Errorf("%w: %w", ErrLayout, err)
			}
			if n > math.MaxUint32 {
				return nil, 0, fmt.Errorf("%w: %s payload of %d bytes", ErrLayout, o.Name(), n)
			}
			addr := a.AllocAligned(n, alignment, o.Name())
			o.header.Length = uint32(n)
			if err := f.setAddress(o, addr); err != nil {
				return nil, 0, err
			}
			regions = append(regions, region{obj: o, addr: addr, srcAddr: o.srcAddr, copyLen: min(n, o.srcLength)})

		case o.Label() == LabelUnknown && o.srcLength > 0:
			addr := a.AllocAligned(o.srcLength, alignment, o.Name())
			if err := f.setAddress(o, addr); err != nil {
				return nil, 0, err
			}
			regions = append(regions, region{obj: o, addr: addr, srcAddr: o.srcAddr, copyLen: o.srcLength})
		}
	}

	eof := a.EOFAddr()
	if eof > math.MaxUint32 {
		return nil, 0, fmt.Errorf("%w: file size %d exceeds 32-bit lengths", ErrLayout, eof)
	}
	for _, o := range f.objects {
		if o.Label() == LabelDiagnostic {
			if err := f.setAddress(o, addrDiag); err != nil {
				return nil, 0, err
			}
			o.header.Length = uint32(eof)
		}
	}

	if err := a.Validate(alignment); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrLayout, err)
	}
	for _, r := range a.Allocations() {
		f.log.Debug("allocated region", "kind", "layout", "tag", r.Tag, "address", r.Addr, "size", r.Size)
	}
	for _, o := range f.objects {
		o.cache = nil
	}
	return regions, eof, nil
}

func (f *File) listRegion(a *alloc.Allocator, o *Object, attrs *object.ListAttrs) (region, error) {
	ids := make([]int, len(o.list))
	for i, name := range o.list {
		id, ok := f.byName[name]
		if !ok {
			return region{}, fmt.Errorf("%w: list %s names missing object %s", ErrLayout, o.Name(), name)
		}
		ids[i] = id
	}
	data, err := layout.EncodeList(attrs.DataFormat, ids)
	if err != nil {
		return region{}, fmt.Errorf("%w: list %s: %w", ErrLayout, o.Name(), err)
	}
	n, err := itemCount(o, len(ids))
	if err != nil {
		return region{}, err
	}
	size, _ := dtype.TypeLength(attrs.DataFormat)
	attrs.NItems = n
	o.header.Length = uint32(len(ids) * size)

	addr := a.AllocAligned(uint64(len(data)), alignment, o.Name())
	if err := f.setAddress(o, addr); err != nil {
		return region{}, err
	}
	return region{obj: o, addr: addr, data: data}, nil
}

// setAddress stores a byte address, converting it to address units.
func (f *File) setAddress(o *Object, addr uint64) error {
	if addr%f.addrlen != 0 {
		return fmt.Errorf("%w: %s at %d is not a multiple of the %d-byte address unit", ErrLayout, o.Name(), addr, f.addrlen)
	}
	units := addr / f.addrlen
	if units > math.MaxUint32 {
		return fmt.Errorf("%w: %s address %d overflows", ErrLayout, o.Name(), addr)
	}
	f.log.Debug("placed object", "slot", o.ID(), "object", o.Name(), "kind", "layout",
		"address_in", o.address, "address_out", addr, "length", o.header.Length)
	o.address = addr
	o.header.Address = uint32(units)
	return nil
}

func setItems(a Attributes, n int16) {
	switch attrs := a.(type) {
	case *object.ParamSetAttrs:
		attrs.NItems = n
	case *object.DeviceAttrs:
		attrs.NItems = n
	}
}

// itemCount checks that n fits the 16-bit item count of a header.
func itemCount(o *Object, n int) (int16, error) {
	if n > math.MaxInt16 {
		return 0, fmt.Errorf("%w: %s has %d items", ErrLayout, o.Name(), n)
	}
	return int16(n), nil
}
