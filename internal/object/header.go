package object

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
)

// Slot geometry.
const (
	SlotSize     = 128
	NameSize     = 8
	ValSize      = 24
	DescrSize    = 64
	MaxRelations = 8

	// NoRelation marks an unused relation entry.
	NoRelation = 65535
)

// Field offsets within a slot.
const (
	offType  = 8
	offVal   = 40
	offDescr = 64
)

// Errors
var (
	ErrInvalidSize = errors.New("invalid header slot size")
	ErrEmptyName   = errors.New("empty object name")
	ErrNameTooLong = errors.New("object name too long")
)

// Header is one decoded directory slot.
type Header struct {
	// Slot is the 0-based slot index, which is also the object ID.
	Slot int

	Name    string
	Type    int16
	Label   Label
	Level   int16
	Status  int16
	ErrCode int16

	// Rel holds related slot indices; NoRelation marks unused entries.
	Rel [MaxRelations]uint16

	// Address is stored in ADDRLEN units; Length is in bytes.
	Address uint32
	Length  uint32

	// Attrs is nil when Label is Unknown.
	Attrs Attributes

	// Raw is the sub-record as read. Bytes not covered by Attrs are
	// re-emitted from here.
	Raw [ValSize]byte

	Descr string
}

// Parse decodes one 128-byte slot. An all-blank name yields ErrEmptyName,
// which marks the end of the header table.
func Parse(data []byte, slot int) (*Header, error) {
	if len(data) != SlotSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSize, len(data))
	}

	name := trimField(data[:NameSize])
	if name == "" {
		return nil, ErrEmptyName
	}

	h := &Header{Slot: slot, Name: name}
	r := binary.NewReader(bytes.NewReader(data), binary.DefaultConfig()).At(offType)
	if err := h.readFixed(r); err != nil {
		return nil, fmt.Errorf("header slot %d: %w", slot, err)
	}
	copy(h.Raw[:], data[offVal:offDescr])
	h.Descr = trimField(data[offDescr:])

	h.Label = LabelOf(h.Type)
	h.Attrs = newAttributes(h.Label)
	if h.Attrs != nil {
		h.Attrs.decode(h.Raw[:])
	}

	return h, nil
}

// readFixed reads the fields between the name and the sub-record.
func (h *Header) readFixed(r *binary.Reader) error {
	var err error
	for _, f := range []*int16{&h.Type, &h.Level, &h.Status, &h.ErrCode} {
		if *f, err = r.ReadInt16(); err != nil {
			return err
		}
	}
	for i := range h.Rel {
		if h.Rel[i], err = r.ReadUint16(); err != nil {
			return err
		}
	}
	if h.Address, err = r.ReadUint32(); err != nil {
		return err
	}
	h.Length, err = r.ReadUint32()
	return err
}

// Read reads and parses the header in the given slot.
func Read(r *binary.Reader, slot int) (*Header, error) {
	data, err := r.At(int64(slot) * SlotSize).ReadBytes(SlotSize)
	if err != nil {
		return nil, fmt.Errorf("reading header slot %d: %w", slot, err)
	}
	return Parse(data, slot)
}

// Encode serializes the header into exactly SlotSize bytes.
func (h *Header) Encode() ([]byte, error) {
	if len(h.Name) > NameSize {
		return nil, fmt.Errorf("%w: %q", ErrNameTooLong, h.Name)
	}
	if h.Name == "" {
		return nil, ErrEmptyName
	}
	if len(h.Descr) > DescrSize {
		return nil, fmt.Errorf("description of %s longer than %d bytes", h.Name, DescrSize)
	}

	var buf binary.Buffer
	w := binary.NewWriter(&buf, binary.DefaultConfig())
	if err := w.WriteBytes(padField(h.Name, NameSize)); err != nil {
		return nil, err
	}
	if err := h.writeFixed(w); err != nil {
		return nil, err
	}

	val := h.Raw
	if h.Attrs != nil {
		h.Attrs.encode(val[:])
	}
	if err := w.WriteBytes(val[:]); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(padField(h.Descr, DescrSize)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *Header) writeFixed(w *binary.Writer) error {
	for _, v := range []int16{h.Type, h.Level, h.Status, h.ErrCode} {
		if err := w.WriteInt16(v); err != nil {
			return err
		}
	}
	for _, rel := range h.Rel {
		if err := w.WriteUint16(rel); err != nil {
			return err
		}
	}
	if err := w.WriteUint32(h.Address); err != nil {
		return err
	}
	return w.WriteUint32(h.Length)
}

// Write encodes the header into its slot.
func (h *Header) Write(w *binary.Writer) error {
	b, err := h.Encode()
	if err != nil {
		return err
	}
	return w.At(int64(h.Slot) * SlotSize).WriteBytes(b)
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	c := *h
	if h.Attrs != nil {
		val := h.Raw
		h.Attrs.encode(val[:])
		c.Attrs = newAttributes(h.Attrs.Label())
		c.Attrs.decode(val[:])
	}
	return &c
}

// Relations returns the relation entries that are in use.
func (h *Header) Relations() []uint16 {
	var out []uint16
	for _, rel := range h.Rel {
		if rel != NoRelation {
			out = append(out, rel)
		}
	}
	return out
}

// trimField strips space and NUL padding from a fixed-width text field.
func trimField(b []byte) string {
	return strings.Trim(string(b), " \x00")
}

// padField left-justifies s in a space-padded field of width n.
func padField(s string, n int) []byte {
	return []byte(s + strings.Repeat(" ", n-len(s)))
}
