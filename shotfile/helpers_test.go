package shotfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/object"
	"github.com/robert-malhotra/go-shotfile/internal/param"
	"github.com/robert-malhotra/go-shotfile/internal/units"
)

// fixture assembles a shotfile in memory: the header table followed by
// the payloads in slot order, each padded to 8 bytes.
type fixture struct {
	headers  []*object.Header
	payloads [][]byte
	addrlen  uint64
}

func newFixture() *fixture {
	return &fixture{addrlen: 1}
}

func (fx *fixture) add(name string, label object.Label, attrs object.Attributes, rel []uint16, payload []byte) *object.Header {
	tag, _ := label.Tag()
	h := &object.Header{
		Slot:  len(fx.headers),
		Name:  name,
		Type:  tag,
		Label: label,
		Attrs: attrs,
	}
	for i := range h.Rel {
		h.Rel[i] = object.NoRelation
	}
	copy(h.Rel[:], rel)
	fx.headers = append(fx.headers, h)
	fx.payloads = append(fx.payloads, payload)
	return h
}

func (fx *fixture) bytes(t *testing.T) []byte {
	t.Helper()
	addr := uint64(len(fx.headers)) * object.SlotSize
	var body []byte
	for i, h := range fx.headers {
		p := fx.payloads[i]
		if len(p) == 0 {
			continue
		}
		h.Address = uint32(addr / fx.addrlen)
		h.Length = uint32(len(p))
		padded := make([]byte, binary.Next8(uint64(len(p))))
		copy(padded, p)
		body = append(body, padded...)
		addr += uint64(len(padded))
	}

	var out []byte
	for _, h := range fx.headers {
		b, err := h.Encode()
		require.NoError(t, err)
		out = append(out, b...)
	}
	return append(out, body...)
}

func (fx *fixture) write(t *testing.T) string {
	t.Helper()
	return writeFile(t, fx.bytes(t))
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sf")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func encode(t *testing.T, f dtype.Format, v any) []byte {
	t.Helper()
	b, err := dtype.Encode(f, v)
	require.NoError(t, err)
	return b
}

func newParam(t *testing.T, name string, f dtype.Format, v any) *param.Param {
	t.Helper()
	p, err := param.New(name, f, v)
	require.NoError(t, err)
	return p
}

func encodeSet(t *testing.T, ps ...*param.Param) []byte {
	t.Helper()
	b, err := param.NewSet(ps...).Encode()
	require.NoError(t, err)
	return b
}

const testShot = 12345

// standardFixture builds a small diagnostic:
//
//	0 TST     Diagnostic
//	1 SIGNALS List        [T-PPG Ipa T-ADC TE R]
//	2 PPG     Device      pulse generator settings, TS06
//	3 CAL     ParamSet    GAIN
//	4 T-PPG   TimeBase    PPG_prog, computed, 10 steps
//	5 Ipa     Signal      int16 counts, 10 samples -> T-PPG, CAL, slot 300
//	6 T-ADC   TimeBase    ADC_intern, computed, 4 steps
//	7 TE      SignalGroup float64 [4,3] -> T-ADC, R
//	8 ODD     type 99
//	9 R       AreaBase    float32 [3,4]
func standardFixture(t *testing.T) *fixture {
	t.Helper()
	fx := newFixture()

	fx.add("TST", object.Diagnostic, &object.DiagnosticAttrs{
		DiagCode: [4]byte{'T', 'S', 'T', ' '}, NumObjs: 10, ShotNr: testShot,
	}, nil, nil)

	fx.add(SignalsList, object.List, &object.ListAttrs{DataFormat: dtype.Short, NItems: 5}, nil,
		encode(t, dtype.Short, []int16{4, 5, 6, 7, 9}))

	resolut := make([]int32, 16)
	resfact := make([]int32, 16)
	pulses := make([]int32, 16)
	resolut[0], pulses[0] = 2, 10
	fx.add("PPG", object.Device, &object.DeviceAttrs{NItems: 5}, nil, encodeSet(t,
		newParam(t, "PRETRIG", dtype.Short, int16(0)),
		newParam(t, "RESOLUT", dtype.Integer, resolut),
		newParam(t, "RESFACT", dtype.Integer, resfact),
		newParam(t, "PULSES", dtype.Integer, pulses),
		newParam(t, "TS06", dtype.LongLong, int64(1_600_000_000_000_000_000)),
	))

	fx.add("CAL", object.ParamSet, &object.ParamSetAttrs{NItems: 1, CalType: units.LinCalib}, nil,
		encodeSet(t, newParam(t, "GAIN", dtype.Double, 2.5)))

	fx.add("T-PPG", object.TimeBase, &object.TimeBaseAttrs{
		DataFormat: dtype.Float, TbaseType: units.PPGProg, SRate: 500000, NSteps: 10,
	}, []uint16{2}, nil)

	ipa := make([]int16, 10)
	for i := range ipa {
		ipa[i] = int16(i)
	}
	fx.add("Ipa", object.Signal, &object.SignalAttrs{
		DataFormat: dtype.Short, PhysUnit: 58, NumDims: 1, Index: [4]uint32{1, 1, 1, 10},
	}, []uint16{4, 3, 300}, encode(t, dtype.Short, ipa))

	fx.add("T-ADC", object.TimeBase, &object.TimeBaseAttrs{
		DataFormat: dtype.Float, TbaseType: units.ADCIntern, SRate: 1000, NPre: 1, NSteps: 4,
	}, nil, nil)

	te := make([]float64, 12)
	for i := range te {
		te[i] = float64(i) / 2
	}
	fx.add("TE", object.SignalGroup, &object.SignalGroupAttrs{SignalAttrs: object.SignalAttrs{
		DataFormat: dtype.Double, PhysUnit: 6, NumDims: 2, Index: [4]uint32{1, 1, 3, 4},
	}}, []uint16{6, 9}, encode(t, dtype.Double, te))

	odd := fx.add("ODD", object.Unknown, nil, nil, []byte("mystery!"))
	odd.Type = 99

	r := make([]float32, 12)
	for i := range r {
		r[i] = float32(i) * 0.1
	}
	fx.add("R", object.AreaBase, &object.AreaBaseAttrs{
		DataFormat: dtype.Float, PhysUnit: [3]int16{2, 0, 0}, Size: [3]uint32{3, 0, 0}, NSteps: 4,
	}, nil, encode(t, dtype.Float, r))

	return fx
}

func openFixture(t *testing.T, fx *fixture, opts ...Option) *File {
	t.Helper()
	f, err := Open(fx.write(t), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
