package shotfile

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/layout"
	"github.com/robert-malhotra/go-shotfile/internal/object"
	"github.com/robert-malhotra/go-shotfile/internal/param"
	"github.com/robert-malhotra/go-shotfile/internal/units"
)

// ts06Min separates absolute trigger timestamps from relative ones.
const ts06Min = 1e15

// directory is the result of scanning the header table.
type directory struct {
	headers []*object.Header
	raw     []byte
	shot    int32
	addrlen uint64
}

// scan reads header slots until the declared object count, an empty slot,
// the first payload byte or the end of the file. The table never overlaps
// the data region, so the lowest payload address seen so far bounds it.
func scan(r *binary.Reader, size int64, maxSlots int, log *slog.Logger) (*directory, error) {
	dir := &directory{addrlen: 1}
	nObj := maxSlots
	diagSeen := false
	var firstPayload uint32 // lowest address with a payload, in address units

	for j := 0; j < nObj; j++ {
		offset := int64(j) * object.SlotSize
		if offset >= size {
			log.Debug("header table ends at end of file", "slot", j)
			break
		}
		if firstPayload > 0 && offset+object.SlotSize > int64(uint64(firstPayload)*dir.addrlen) {
			log.Debug("header table ends at payload", "slot", j, "offset", offset)
			break
		}

		data, err := r.At(offset).ReadBytes(object.SlotSize)
		if err != nil {
			return nil, fmt.Errorf("header slot %d: %w", j, err)
		}
		if len(data) < object.SlotSize {
			log.Warn("truncated header slot", "slot", j, "kind", "header", "bytes", len(data))
			break
		}
		h, err := object.Parse(data, j)
		if errors.Is(err, object.ErrEmptyName) {
			log.Debug("empty header slot ends table", "slot", j)
			break
		}
		if err != nil {
			return nil, fmt.Errorf("header slot %d: %w", j, err)
		}

		switch a := h.Attrs.(type) {
		case *object.DiagnosticAttrs:
			dir.shot = a.ShotNr
			// Only the first Diagnostic declares the object count.
			if !diagSeen && a.NumObjs > 0 && int(a.NumObjs) < maxSlots {
				nObj = int(a.NumObjs)
			}
			diagSeen = true
		case *object.AddrLenAttrs:
			n, err := a.Size()
			if err != nil {
				log.Warn("unknown address length", "slot", j, "object", h.Name, "kind", "addrlen", "err", err)
			} else {
				dir.addrlen = n
			}
		case nil:
			log.Warn("unknown object type", "slot", j, "object", h.Name, "kind", "header", "type", h.Type)
		}

		// Addresses inside the slots read so far are bogus and do not bound the table.
		if h.Length > 0 && uint64(h.Address)*dir.addrlen >= uint64(offset+object.SlotSize) &&
			(firstPayload == 0 || h.Address < firstPayload) {
			firstPayload = h.Address
		}

		dir.headers = append(dir.headers, h)
		dir.raw = append(dir.raw, data...)
	}

	return dir, nil
}

// resolve builds the objects of f from a scanned directory: addresses are
// scaled, relations resolved, and list and parameter payloads decoded.
func (f *File) resolve(dir *directory) {
	f.shot = dir.shot
	f.addrlen = dir.addrlen
	f.headerTable = dir.raw

	f.objects = make([]*Object, len(dir.headers))
	f.byName = make(map[string]int, len(dir.headers))
	for i, h := range dir.headers {
		f.objects[i] = newObject(f, h)
		f.byName[h.Name] = i
		f.classify(h)
	}

	for _, o := range f.objects {
		o.address = uint64(o.header.Address) * f.addrlen
		f.resolveRelations(o)
		f.checkTables(o)
	}

	for _, o := range f.objects {
		switch o.Label() {
		case LabelList:
			f.decodeList(o)
		case LabelParamSet, LabelDevice:
			f.decodeParams(o)
		}
	}

	// Signals are linked after all parameter sets are decoded.
	for _, o := range f.objects {
		if o.Label() == LabelSignal || o.Label() == LabelSignalGroup {
			f.linkAxes(o)
		}
	}
}

func (f *File) classify(h *object.Header) {
	switch {
	case h.Label.IsParamSet():
		f.parsets = append(f.parsets, h.Name)
	case h.Label == object.List:
		f.lists = append(f.lists, h.Name)
	case h.Label.IsArray():
		f.arrays = append(f.arrays, h.Name)
	}
}

func (f *File) resolveRelations(o *Object) {
	o.relations = o.relations[:0]
	for _, rel := range o.header.Relations() {
		if int(rel) >= len(f.objects) {
			f.log.Warn("skipping relation", "slot", o.ID(), "object", o.Name(), "kind", "relation",
				"err", fmt.Errorf("%w: %d of %d objects", ErrRelationRange, rel, len(f.objects)))
			continue
		}
		o.relations = append(o.relations, int(rel))
	}
}

// checkTables warns about unit, calibration and timebase codes missing
// from the lookup tables. Their string form is left empty.
func (f *File) checkTables(o *Object) {
	var err error
	switch a := o.header.Attrs.(type) {
	case *object.SignalAttrs:
		_, err = a.Unit()
	case *object.SignalGroupAttrs:
		_, err = a.Unit()
	case *object.AreaBaseAttrs:
		_, err = a.Units()
	case *object.ParamSetAttrs:
		_, err = a.Calibration()
	case *object.TimeBaseAttrs:
		_, err = a.TimebaseType()
	}
	if err != nil {
		f.log.Warn("unknown table code", "slot", o.ID(), "object", o.Name(), "kind", "table", "err", err)
	}
}

func (f *File) payload(o *Object) ([]byte, error) {
	return f.reader.At(int64(o.address)).ReadBytes(int(o.header.Length))
}

func (f *File) decodeList(o *Object) {
	attrs := o.header.Attrs.(*object.ListAttrs)
	buf, err := f.payload(o)
	if err == nil {
		var ids []int
		ids, err = layout.DecodeList(buf, attrs.DataFormat, int(attrs.NItems))
		if err == nil {
			o.list = make([]string, 0, len(ids))
			for _, id := range ids {
				if id < 0 || id >= len(f.objects) {
					err = fmt.Errorf("%w: list member %d of %d objects", ErrRelationRange, id, len(f.objects))
					break
				}
				o.list = append(o.list, f.objects[id].Name())
			}
		}
	}
	if err != nil {
		o.err = fmt.Errorf("list %s: %w", o.Name(), err)
		f.log.Warn("list not decoded", "slot", o.ID(), "object", o.Name(), "kind", "list", "err", err)
	}
}

func (f *File) decodeParams(o *Object) {
	n := o.header.Attrs.(object.Counted).Items()
	buf, err := f.payload(o)
	if err != nil {
		o.params = param.NewSet()
		o.err = fmt.Errorf("parameters of %s: %w", o.Name(), err)
		f.log.Warn("parameters not read", "slot", o.ID(), "object", o.Name(), "kind", "param", "err", err)
		return
	}

	o.params, err = param.Decode(buf, n)
	if err != nil {
		o.err = fmt.Errorf("parameters of %s: %w", o.Name(), err)
		f.log.Warn("parameter decoding stopped", "slot", o.ID(), "object", o.Name(), "kind", "param",
			"decoded", o.params.Len(), "err", err)
	}

	if o.Label() != LabelDevice {
		return
	}
	if p, ok := o.params.Get("TS06"); ok {
		fs, err := p.Float64s()
		if err != nil || len(fs) == 0 || !(fs[0] > ts06Min) {
			return
		}
		// Integer formats keep the exact value; float64 cannot hold every int64.
		o.ts06, o.hasTS = int64(fs[0]), true
		if ts, err := p.Int64s(); err == nil {
			o.ts06 = ts[0]
		}
	}
}

// linkAxes attaches a signal to its related TimeBase and AreaBase.
func (f *File) linkAxes(o *Object) {
	sig, _ := object.SignalOf(o.header.Attrs)

	for jrel, idx := range o.relations {
		rel := f.objects[idx]
		switch a := rel.header.Attrs.(type) {
		case *object.TimeBaseAttrs:
			o.timebase = idx
			o.timeDim = jrel
			if shape, err := layout.ArrayShape(o.header); err == nil {
				if axis, ok := uniqueAxis(shape, int(a.NSteps)); ok {
					o.timeDim = axis
				}
			}
			if u, _ := sig.Unit(); u == units.Counts {
				o.calFac, o.hasCal = float64(a.SRate), true
			}
		case *object.AreaBaseAttrs:
			o.areabase = idx
			o.areaDim = jrel
		}
	}
}

// uniqueAxis returns the axis whose extent is n when exactly one matches.
func uniqueAxis(shape []int, n int) (int, bool) {
	axis, count := noRef, 0
	for i, d := range shape {
		if d == n {
			axis = i
			count++
		}
	}
	return axis, count == 1
}
