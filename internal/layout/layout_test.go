package layout

import (
	"bytes"
	"testing"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signalHeader(f dtype.Format, dims int16, index [4]uint32) *object.Header {
	return &object.Header{
		Name:  "SIG",
		Label: object.Signal,
		Attrs: &object.SignalAttrs{DataFormat: f, NumDims: dims, Index: index},
	}
}

func TestArrayShape(t *testing.T) {
	tests := []struct {
		name string
		h    *object.Header
		want []int
	}{
		{"Signal1D", signalHeader(dtype.Float, 1, [4]uint32{1, 1, 1, 500}), []int{500}},
		{"Signal2D", signalHeader(dtype.Float, 2, [4]uint32{1, 1, 4, 3}), []int{3, 4}},
		{"SignalGroup", &object.Header{Label: object.SignalGroup, Attrs: &object.SignalGroupAttrs{
			SignalAttrs: object.SignalAttrs{DataFormat: dtype.Short, NumDims: 3, Index: [4]uint32{1, 7, 8, 9}},
		}}, []int{9, 8, 7}},
		{"TimeBase", &object.Header{Label: object.TimeBase, Attrs: &object.TimeBaseAttrs{NSteps: 1000}}, []int{1000}},
		{"AreaBase", &object.Header{Label: object.AreaBase, Attrs: &object.AreaBaseAttrs{
			Size: [3]uint32{30, 0, 2}, NSteps: 5,
		}}, []int{30, 2, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ArrayShape(tt.h)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArrayShapeRejectsNonArrays(t *testing.T) {
	h := &object.Header{Name: "PAR", Label: object.ParamSet, Attrs: &object.ParamSetAttrs{}}
	_, err := ArrayShape(h)
	require.ErrorIs(t, err, ErrNotArray)

	_, err = ArrayShape(signalHeader(dtype.Float, 5, [4]uint32{}))
	require.Error(t, err)
}

func TestObjectLength(t *testing.T) {
	n, err := ObjectLength(signalHeader(dtype.Double, 2, [4]uint32{1, 1, 4, 3}))
	require.NoError(t, err)
	assert.Equal(t, uint64(3*4*8), n)

	h := &object.Header{Label: object.AreaBase, Attrs: &object.AreaBaseAttrs{
		DataFormat: dtype.Float, Size: [3]uint32{10, 0, 0}, NSteps: 3,
	}}
	n, err = ObjectLength(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(10*3*4), n)
}

func int16Payload(t *testing.T, n int) []byte {
	t.Helper()
	vals := make([]int16, n)
	for i := range vals {
		vals[i] = int16(i)
	}
	b, err := dtype.Encode(dtype.Short, vals)
	require.NoError(t, err)
	return b
}

func TestContiguousRead(t *testing.T) {
	// 16 bytes of unrelated data precede the payload
	buf := append(make([]byte, 16), int16Payload(t, 12)...)
	r := binary.NewReader(bytes.NewReader(buf), binary.DefaultConfig())

	c := NewContiguous(r, 16, dtype.Short, []int{3, 4})
	size, err := c.Size()
	require.NoError(t, err)
	assert.Equal(t, uint64(24), size)

	all, err := c.Read(All)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, all.Shape)
	assert.Equal(t, 12, all.Len())

	v, err := all.At(2, 3)
	require.NoError(t, err)
	assert.Equal(t, int16(11), v)

	win, err := c.Read(Window{Begin: 1, End: 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, win.Shape)
	assert.Equal(t, []int16{3, 4, 5, 6, 7, 8}, win.Values)

	v, err = win.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, int16(8), v)
}

func TestContiguousWindowBounds(t *testing.T) {
	r := binary.NewReader(bytes.NewReader(int16Payload(t, 10)), binary.DefaultConfig())
	c := NewContiguous(r, 0, dtype.Short, []int{10})

	for _, w := range []Window{{-1, 3}, {5, 2}, {0, 11}} {
		_, err := c.Read(w)
		require.ErrorIs(t, err, ErrWindow, "window %v", w)
	}

	empty, err := c.Read(Window{Begin: 4, End: 4})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestContiguousShortPayload(t *testing.T) {
	r := binary.NewReader(bytes.NewReader(int16Payload(t, 4)), binary.DefaultConfig())
	c := NewContiguous(r, 0, dtype.Short, []int{10})

	_, err := c.Read(All)
	require.ErrorIs(t, err, binary.ErrShortRead)
}

func TestListRoundTrip(t *testing.T) {
	ids, err := DecodeList([]byte{0x00, 0x05, 0x00, 0x0A, 0x00, 0x0F}, dtype.Short, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 10, 15}, ids)

	b, err := EncodeList(dtype.Short, ids)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x05, 0x00, 0x0A, 0x00, 0x0F, 0, 0}, b)

	_, err = DecodeList(b, dtype.Char8, 1)
	require.Error(t, err)
}
