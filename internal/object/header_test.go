package object

import (
	"bytes"
	"testing"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slot builds a raw header slot the way a legacy writer lays it out.
func slot(name string, tag int16, rel []uint16, addr, length uint32, val []byte, descr string) []byte {
	b := make([]byte, SlotSize)
	copy(b, padField(name, NameSize))
	be.PutUint16(b[8:], uint16(tag))
	for i := 0; i < MaxRelations; i++ {
		r := uint16(NoRelation)
		if i < len(rel) {
			r = rel[i]
		}
		be.PutUint16(b[16+2*i:], r)
	}
	be.PutUint32(b[32:], addr)
	be.PutUint32(b[36:], length)
	copy(b[40:64], val)
	copy(b[64:], padField(descr, DescrSize))
	return b
}

func TestParseSignal(t *testing.T) {
	val := make([]byte, ValSize)
	be.PutUint16(val[0:], uint16(dtype.Float))
	be.PutUint16(val[2:], 3) // V
	be.PutUint16(val[4:], 2)
	be.PutUint32(val[8:], 1)
	be.PutUint32(val[12:], 1)
	be.PutUint32(val[16:], 4)
	be.PutUint32(val[20:], 100)

	data := slot("Ipa", 7, []uint16{3, 4}, 2048, 1600, val, "plasma current")
	h, err := Parse(data, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, h.Slot)
	assert.Equal(t, "Ipa", h.Name)
	assert.Equal(t, Signal, h.Label)
	assert.Equal(t, "plasma current", h.Descr)
	assert.Equal(t, uint32(2048), h.Address)
	assert.Equal(t, uint32(1600), h.Length)
	assert.Equal(t, []uint16{3, 4}, h.Relations())

	sig, ok := SignalOf(h.Attrs)
	require.True(t, ok)
	assert.Equal(t, dtype.Float, sig.DataFormat)
	assert.Equal(t, int16(2), sig.NumDims)
	assert.Equal(t, [4]uint32{1, 1, 4, 100}, sig.Index)

	unit, err := sig.Unit()
	require.NoError(t, err)
	assert.Equal(t, "V", unit)
}

func TestParseSignalGroup(t *testing.T) {
	data := slot("TE", 6, nil, 0, 0, nil, "")
	h, err := Parse(data, 0)
	require.NoError(t, err)
	assert.Equal(t, SignalGroup, h.Label)
	assert.Equal(t, SignalGroup, h.Attrs.Label())

	_, ok := SignalOf(h.Attrs)
	assert.True(t, ok)
}

func TestParseTimeBase(t *testing.T) {
	val := make([]byte, ValSize)
	be.PutUint16(val[0:], uint16(dtype.Float))
	be.PutUint16(val[6:], uint16(units.PPGProg))
	be.PutUint32(val[8:], 10000)
	be.PutUint32(val[12:], 5)
	be.PutUint32(val[16:], 1000)

	h, err := Parse(slot("T-ADC", 8, nil, 0, 0, val, ""), 2)
	require.NoError(t, err)

	tb, ok := h.Attrs.(*TimeBaseAttrs)
	require.True(t, ok)
	assert.Equal(t, int32(10000), tb.SRate)
	assert.Equal(t, int32(5), tb.NPre)
	assert.Equal(t, int32(1000), tb.NSteps)

	label, err := tb.TimebaseType()
	require.NoError(t, err)
	assert.Equal(t, "PPG_prog", label)
}

func TestParseAreaBase(t *testing.T) {
	val := make([]byte, ValSize)
	be.PutUint16(val[0:], uint16(dtype.Double))
	be.PutUint16(val[2:], 2) // m
	be.PutUint16(val[4:], 2)
	be.PutUint16(val[6:], 0)
	be.PutUint32(val[8:], 30)
	be.PutUint32(val[20:], 7)

	h, err := Parse(slot("R-area", 13, nil, 0, 0, val, ""), 1)
	require.NoError(t, err)

	ab, ok := h.Attrs.(*AreaBaseAttrs)
	require.True(t, ok)
	assert.Equal(t, [3]uint32{30, 0, 0}, ab.Size)
	assert.Equal(t, uint32(7), ab.NSteps)

	u, err := ab.Units()
	require.NoError(t, err)
	assert.Equal(t, [3]string{"m", "m", ""}, u)
}

func TestParseUnknownType(t *testing.T) {
	val := bytes.Repeat([]byte{0xAB}, ValSize)
	data := slot("MYSTERY", 99, nil, 0, 0, val, "")

	h, err := Parse(data, 3)
	require.NoError(t, err)
	assert.Equal(t, Unknown, h.Label)
	assert.Equal(t, "Unknown", h.Label.String())
	assert.Nil(t, h.Attrs)
	assert.Equal(t, val, h.Raw[:])

	// Unknown sub-records survive re-encoding untouched
	out, err := h.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestParseEmptyName(t *testing.T) {
	_, err := Parse(make([]byte, SlotSize), 0)
	require.ErrorIs(t, err, ErrEmptyName)

	blank := slot("", 7, nil, 0, 0, nil, "")
	_, err = Parse(blank, 0)
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestParseInvalidSize(t *testing.T) {
	_, err := Parse(make([]byte, 127), 0)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tag  int16
		val  func([]byte)
	}{
		{"Diagnostic", 1, func(v []byte) {
			copy(v, "MAG ")
			be.PutUint16(v[4:], 12)
			be.PutUint32(v[8:], 40000)
		}},
		{"List", 2, func(v []byte) {
			be.PutUint16(v[0:], uint16(dtype.Short))
			be.PutUint16(v[2:], 3)
		}},
		{"Device", 3, func(v []byte) {
			be.PutUint16(v[4:], 4)
			be.PutUint32(v[20:], 1024)
		}},
		{"ParamSet", 4, func(v []byte) {
			be.PutUint16(v[0:], 2)
			be.PutUint16(v[2:], 1)
			be.PutUint32(v[4:], 9)
			copy(v[20:], []byte{1, 2, 3, 4}) // spare bytes survive
		}},
		{"Signal", 7, func(v []byte) {
			be.PutUint16(v[0:], uint16(dtype.Integer))
			be.PutUint32(v[20:], 77)
		}},
		{"TimeBase", 8, func(v []byte) {
			be.PutUint32(v[8:], 500)
			copy(v[20:], []byte{9, 9, 9, 9})
		}},
		{"AreaBase", 13, func(v []byte) {
			be.PutUint32(v[12:], 3)
		}},
		{"ADDRLEN", 18, func(v []byte) {
			be.PutUint16(v[0:], 2)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val := make([]byte, ValSize)
			tt.val(val)
			data := slot("OBJ", tt.tag, []uint16{0, 1}, 4096, 64, val, "description text")

			h, err := Parse(data, 1)
			require.NoError(t, err)
			require.Equal(t, tt.name, h.Label.String())

			out, err := h.Encode()
			require.NoError(t, err)
			require.Len(t, out, SlotSize)
			require.Equal(t, data, out)
		})
	}
}

func TestEncodeAppliesAttrChanges(t *testing.T) {
	h, err := Parse(slot("PAR", 4, nil, 0, 0, nil, ""), 0)
	require.NoError(t, err)

	ps := h.Attrs.(*ParamSetAttrs)
	ps.NItems = 7
	ps.CalType = units.LinCalib

	out, err := h.Encode()
	require.NoError(t, err)

	back, err := Parse(out, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, back.Attrs.(Counted).Items())

	cal, err := back.Attrs.(*ParamSetAttrs).Calibration()
	require.NoError(t, err)
	assert.Equal(t, "LinCalib", cal)
}

func TestEncodeRejectsLongFields(t *testing.T) {
	h := &Header{Name: "TOOLONGNAME"}
	_, err := h.Encode()
	require.ErrorIs(t, err, ErrNameTooLong)

	h = &Header{Name: "OK", Descr: string(bytes.Repeat([]byte("x"), DescrSize+1))}
	_, err = h.Encode()
	require.Error(t, err)
}

func TestReadWriteSlot(t *testing.T) {
	var buf binary.Buffer
	w := binary.NewWriter(&buf, binary.DefaultConfig())

	h := &Header{Slot: 2, Name: "SIGNALS", Type: 2, Label: List, Attrs: &ListAttrs{DataFormat: dtype.Short, NItems: 1}}
	h.Rel = [MaxRelations]uint16{NoRelation, NoRelation, NoRelation, NoRelation, NoRelation, NoRelation, NoRelation, NoRelation}
	require.NoError(t, h.Write(w))
	require.Equal(t, 3*SlotSize, buf.Len())

	r := binary.NewReader(bytes.NewReader(buf.Bytes()), binary.DefaultConfig())
	back, err := Read(r, 2)
	require.NoError(t, err)
	assert.Equal(t, "SIGNALS", back.Name)
	assert.Empty(t, back.Relations())
	assert.Equal(t, 1, back.Attrs.(Counted).Items())

	_, err = Read(r, 3)
	require.ErrorIs(t, err, binary.ErrShortRead)
}

func TestLabelTags(t *testing.T) {
	for tag, l := range tagLabels {
		got, ok := l.Tag()
		require.True(t, ok)
		assert.Equal(t, tag, got)
		assert.Equal(t, l, newAttributes(l).Label())
	}
	_, ok := Unknown.Tag()
	assert.False(t, ok)
	assert.True(t, Device.IsParamSet())
	assert.True(t, AreaBase.IsArray())
	assert.False(t, List.IsArray())
}

func TestClone(t *testing.T) {
	h, err := Parse(slot("PAR", 4, []uint16{1}, 8, 24, nil, ""), 0)
	require.NoError(t, err)

	c := h.Clone()
	c.Attrs.(*ParamSetAttrs).NItems = 5
	c.Rel[0] = 9

	assert.Equal(t, 0, h.Attrs.(Counted).Items())
	assert.Equal(t, uint16(1), h.Rel[0])
	assert.Equal(t, 5, c.Attrs.(Counted).Items())
}
