package main

import (
	"fmt"

	"github.com/robert-malhotra/go-shotfile/shotfile"
)

// fileDoc is the exported form of a whole shotfile.
type fileDoc struct {
	Path        string      `yaml:"path" cbor:"path"`
	Shot        int32       `yaml:"shot" cbor:"shot"`
	AddrLen     uint64      `yaml:"addrlen" cbor:"addrlen"`
	Fingerprint string      `yaml:"fingerprint" cbor:"fingerprint"`
	Objects     []objectDoc `yaml:"objects" cbor:"objects"`
}

type objectDoc struct {
	ID        int        `yaml:"id" cbor:"id"`
	Name      string     `yaml:"name" cbor:"name"`
	Label     string     `yaml:"label" cbor:"label"`
	Type      int16      `yaml:"type" cbor:"type"`
	Descr     string     `yaml:"descr,omitempty" cbor:"descr,omitempty"`
	Status    int16      `yaml:"status" cbor:"status"`
	Address   uint64     `yaml:"address" cbor:"address"`
	Length    uint32     `yaml:"length" cbor:"length"`
	DataType  string     `yaml:"data_type,omitempty" cbor:"data_type,omitempty"`
	Unit      string     `yaml:"unit,omitempty" cbor:"unit,omitempty"`
	Shape     []int      `yaml:"shape,omitempty" cbor:"shape,omitempty"`
	Timebase  string     `yaml:"timebase,omitempty" cbor:"timebase,omitempty"`
	AreaBase  string     `yaml:"areabase,omitempty" cbor:"areabase,omitempty"`
	Relations []string   `yaml:"relations,omitempty" cbor:"relations,omitempty"`
	List      []string   `yaml:"list,omitempty" cbor:"list,omitempty"`
	Params    []paramDoc `yaml:"params,omitempty" cbor:"params,omitempty"`
	Error     string     `yaml:"error,omitempty" cbor:"error,omitempty"`
	Data      any        `yaml:"data,omitempty" cbor:"data,omitempty"`
}

type paramDoc struct {
	Name   string `yaml:"name" cbor:"name"`
	Format string `yaml:"format" cbor:"format"`
	Unit   string `yaml:"unit,omitempty" cbor:"unit,omitempty"`
	Value  any    `yaml:"value" cbor:"value"`
}

type dataDoc struct {
	Name   string `yaml:"name" cbor:"name"`
	Format string `yaml:"format" cbor:"format"`
	Shape  []int  `yaml:"shape" cbor:"shape"`
	Values any    `yaml:"values" cbor:"values"`
}

func describeFile(f *shotfile.File, withData bool) fileDoc {
	doc := fileDoc{
		Path:        f.Path(),
		Shot:        f.Shot(),
		AddrLen:     f.AddrLen(),
		Fingerprint: fmt.Sprintf("%016x", f.Fingerprint()),
	}
	for _, o := range f.Objects() {
		doc.Objects = append(doc.Objects, describe(o, withData))
	}
	return doc
}

// describe collects everything known about an object. Read failures are
// recorded in the document rather than returned, so one bad object does
// not hide the rest of the file.
func describe(o *shotfile.Object, withData bool) objectDoc {
	doc := objectDoc{
		ID:        o.ID(),
		Name:      o.Name(),
		Label:     o.Label().String(),
		Type:      o.Type(),
		Descr:     o.Descr(),
		Status:    o.Status(),
		Address:   o.Address(),
		Length:    o.Length(),
		DataType:  o.DataType(),
		Unit:      o.Unit(),
		Relations: o.Relations(),
		List:      o.List(),
	}
	if tb := o.Timebase(); tb != nil {
		doc.Timebase = tb.Name()
	}
	if ab := o.AreaBase(); ab != nil {
		doc.AreaBase = ab.Name()
	}
	if o.Label().IsArray() {
		if shape, err := o.Shape(); err == nil {
			doc.Shape = shape
		}
	}
	if ps := o.Params(); ps != nil {
		for _, p := range ps.Params() {
			doc.Params = append(doc.Params, paramDoc{
				Name:   p.Name,
				Format: p.Format.String(),
				Unit:   p.Unit,
				Value:  p.Value,
			})
		}
	}

	err := o.Err()
	if withData && err == nil && o.Label().IsArray() {
		var a *shotfile.Array
		if a, err = o.Data(); err == nil {
			doc.Data = a.Values
		}
	}
	if err != nil {
		doc.Error = err.Error()
	}
	return doc
}
