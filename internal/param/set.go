package param

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
)

// Set is an ordered collection of parameters keyed by name.
type Set struct {
	params []*Param
	index  map[string]int
}

// NewSet returns a set holding ps in order.
func NewSet(ps ...*Param) *Set {
	s := &Set{index: make(map[string]int, len(ps))}
	for _, p := range ps {
		s.Add(p)
	}
	return s
}

// Add appends p. A parameter with the same name is replaced in place.
func (s *Set) Add(p *Param) {
	if i, ok := s.index[p.Name]; ok {
		s.params[i] = p
		return
	}
	s.index[p.Name] = len(s.params)
	s.params = append(s.params, p)
}

// Get returns the parameter with the given name.
func (s *Set) Get(name string) (*Param, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.params[i], true
}

// Params returns the parameters in record order.
func (s *Set) Params() []*Param {
	return s.params
}

// Names returns the parameter names in record order.
func (s *Set) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of parameters.
func (s *Set) Len() int {
	return len(s.params)
}

// Length returns the encoded size of all records.
func (s *Set) Length() (int, error) {
	total := 0
	for _, p := range s.params {
		n, err := p.RecordLength()
		if err != nil {
			return 0, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		total += n
	}
	return total, nil
}

// Decode parses up to nitems records from buf. Decoding stops early when
// the consumed offset reaches the end of buf. On a malformed record the
// parameters decoded so far are returned together with the error.
func Decode(buf []byte, nitems int) (*Set, error) {
	s := NewSet()
	off := 0
	for i := 0; i < nitems && off < len(buf); i++ {
		p, n, err := decodeRecord(buf[off:])
		if err != nil {
			return s, fmt.Errorf("record %d at offset %d: %w", i, off, err)
		}
		s.Add(p)
		off += n
	}
	return s, nil
}

func decodeRecord(b []byte) (*Param, int, error) {
	if len(b) < HeaderSize {
		return nil, 0, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, HeaderSize, len(b))
	}

	p := &Param{Name: strings.Trim(string(b[:NameSize]), " \x00")}
	r := binary.NewReader(bytes.NewReader(b[:HeaderSize]), binary.DefaultConfig()).At(NameSize)
	var format int16
	for _, f := range []*int16{&p.PhysUnit, &format, &p.NItems, &p.Status} {
		v, err := r.ReadInt16()
		if err != nil {
			return nil, 0, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		*f = v
	}
	p.Format = dtype.Format(format)
	p.Unit = unitOf(p.PhysUnit)

	n := int(p.NItems)
	if n < 0 {
		return nil, 0, fmt.Errorf("parameter %s: negative item count %d", p.Name, n)
	}
	block, err := blockLength(p.Format, n)
	if err != nil {
		return nil, 0, fmt.Errorf("parameter %s: %w", p.Name, err)
	}
	size, _ := dtype.TypeLength(p.Format)
	data := b[r.Pos():]

	switch {
	case dtype.IsChar(p.Format):
		if len(data) < 2+n*size {
			return nil, 0, truncated(p, 2+n*size, len(data))
		}
		p.Min, p.Max = data[0], data[1]
		p.Value, err = dtype.Decode(p.Format, data[2:], n)

	case p.Format == dtype.Logical:
		if len(data) < 5+n {
			return nil, 0, truncated(p, 5+n, len(data))
		}
		p.Min, p.Max = data[0] != 0, data[3] != 0
		p.Value, err = dtype.Decode(p.Format, data[5:], n)

	default:
		if len(data) < (n+2)*size {
			return nil, 0, truncated(p, (n+2)*size, len(data))
		}
		var all any
		all, err = dtype.Decode(p.Format, data, n+2)
		if err == nil {
			p.Min, _ = dtype.Index(all, 0)
			p.Max, _ = dtype.Index(all, 1)
			p.Value = sliceFrom(all, 2)
		}
	}
	if err != nil {
		return nil, 0, fmt.Errorf("parameter %s: %w", p.Name, err)
	}

	return p, HeaderSize + block, nil
}

func truncated(p *Param, need, have int) error {
	return fmt.Errorf("%w: parameter %s needs %d data bytes, have %d", ErrTruncated, p.Name, need, have)
}

// Encode serializes all records in order.
func (s *Set) Encode() ([]byte, error) {
	var out []byte
	for _, p := range s.params {
		b, err := p.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Encode serializes the record, padded to its RecordLength.
func (p *Param) Encode() ([]byte, error) {
	if len(p.Name) > NameSize {
		return nil, fmt.Errorf("parameter name %q longer than %d bytes", p.Name, NameSize)
	}
	if p.Len() != int(p.NItems) {
		return nil, fmt.Errorf("parameter %s: n_items %d but %d values", p.Name, p.NItems, p.Len())
	}
	length, err := p.RecordLength()
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
	}

	var buf binary.Buffer
	w := binary.NewWriter(&buf, binary.DefaultConfig())
	if err := w.WriteBytes([]byte(p.Name + strings.Repeat(" ", NameSize-len(p.Name)))); err != nil {
		return nil, err
	}
	for _, v := range []int16{p.PhysUnit, int16(p.Format), p.NItems, p.Status} {
		if err := w.WriteInt16(v); err != nil {
			return nil, err
		}
	}
	data := make([]byte, length-HeaderSize)

	var vals []byte
	if p.NItems > 0 {
		vals, err = dtype.Encode(p.Format, p.Value)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
	}

	switch {
	case dtype.IsChar(p.Format):
		data[0], data[1] = charBound(p.Min), charBound(p.Max)
		copy(data[2:], vals)

	case p.Format == dtype.Logical:
		if boolBound(p.Min) {
			data[0] = 1
		}
		if boolBound(p.Max) {
			data[3] = 1
		}
		copy(data[5:], vals)

	default:
		size, _ := dtype.TypeLength(p.Format)
		for i, bound := range []any{p.Min, p.Max} {
			if bound == nil {
				continue
			}
			raw, err := dtype.Encode(p.Format, bound)
			if err != nil {
				return nil, fmt.Errorf("parameter %s bounds: %w", p.Name, err)
			}
			copy(data[i*size:], raw)
		}
		copy(data[2*size:], vals)
	}

	if err := w.WriteBytes(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func charBound(v any) byte {
	switch b := v.(type) {
	case byte:
		return b
	case string:
		if len(b) > 0 {
			return b[0]
		}
	case []byte:
		if len(b) > 0 {
			return b[0]
		}
	}
	return ' '
}

func boolBound(v any) bool {
	b, _ := v.(bool)
	return b
}
