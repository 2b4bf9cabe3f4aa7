package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-shotfile/internal/binary"
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/object"
	"github.com/robert-malhotra/go-shotfile/internal/param"
	"github.com/robert-malhotra/go-shotfile/internal/units"
	"github.com/robert-malhotra/go-shotfile/shotfile"
)

// writeShotfile builds a four-object diagnostic:
//
//	0 XYZ      Diagnostic
//	1 SIGNALS  List      [Ipa]
//	2 CAL      ParamSet  GAIN 2.5
//	3 Ipa      Signal    int16 [1 2 3 4 5]
func writeShotfile(t *testing.T) string {
	t.Helper()

	gain, err := param.New("GAIN", dtype.Double, 2.5)
	require.NoError(t, err)
	cal, err := param.NewSet(gain).Encode()
	require.NoError(t, err)
	sigs, err := dtype.Encode(dtype.Short, []int16{3})
	require.NoError(t, err)
	ipa, err := dtype.Encode(dtype.Short, []int16{1, 2, 3, 4, 5})
	require.NoError(t, err)

	headers := []*object.Header{
		{Name: "XYZ", Label: object.Diagnostic, Attrs: &object.DiagnosticAttrs{NumObjs: 4, ShotNr: 4242}},
		{Name: "SIGNALS", Label: object.List, Attrs: &object.ListAttrs{DataFormat: dtype.Short, NItems: 1}},
		{Name: "CAL", Label: object.ParamSet, Attrs: &object.ParamSetAttrs{NItems: 1, CalType: units.LinCalib}},
		{Name: "Ipa", Label: object.Signal, Descr: "plasma current", Attrs: &object.SignalAttrs{
			DataFormat: dtype.Short, PhysUnit: 58, NumDims: 1, Index: [4]uint32{1, 1, 1, 5},
		}},
	}
	payloads := [][]byte{nil, sigs, cal, ipa}

	addr := uint64(len(headers)) * object.SlotSize
	var body []byte
	for i, h := range headers {
		h.Slot = i
		h.Type, _ = h.Label.Tag()
		for j := range h.Rel {
			h.Rel[j] = object.NoRelation
		}
		if len(payloads[i]) == 0 {
			continue
		}
		padded := make([]byte, binary.Next8(uint64(len(payloads[i]))))
		copy(padded, payloads[i])
		h.Address, h.Length = uint32(addr), uint32(len(payloads[i]))
		body = append(body, padded...)
		addr += uint64(len(padded))
	}
	headers[3].Rel[0] = 2

	var out []byte
	for _, h := range headers {
		b, err := h.Encode()
		require.NoError(t, err)
		out = append(out, b...)
	}
	out = append(out, body...)

	path := filepath.Join(t.TempDir(), "test.sf")
	require.NoError(t, os.WriteFile(path, out, 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestList(t *testing.T) {
	path := writeShotfile(t)

	out, err := runCmd(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "shot 4242")
	assert.Contains(t, out, "4 objects")
	assert.Contains(t, out, "Ipa")
	assert.Contains(t, out, "SHORT_INT")
	assert.Contains(t, out, "counts")

	out, err = runCmd(t, "list", "--format", "yaml", path)
	require.NoError(t, err)
	var doc fileDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, int32(4242), doc.Shot)
	require.Len(t, doc.Objects, 4)
	assert.Equal(t, []string{"Ipa"}, doc.Objects[1].List)
	assert.Nil(t, doc.Objects[3].Data)
}

func TestShow(t *testing.T) {
	path := writeShotfile(t)

	out, err := runCmd(t, "show", "--data", path, "Ipa")
	require.NoError(t, err)
	var doc objectDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Ipa", doc.Name)
	assert.Equal(t, "plasma current", doc.Descr)
	assert.Equal(t, []int{5}, doc.Shape)
	assert.Equal(t, []string{"CAL"}, doc.Relations)
	assert.Equal(t, []any{1, 2, 3, 4, 5}, doc.Data)

	out, err = runCmd(t, "show", path, "CAL")
	require.NoError(t, err)
	assert.Contains(t, out, "name: GAIN")
	assert.Contains(t, out, "2.5")

	_, err = runCmd(t, "show", path, "nope")
	require.Error(t, err)
}

func TestData(t *testing.T) {
	path := writeShotfile(t)

	out, err := runCmd(t, "data", path, "Ipa")
	require.NoError(t, err)
	var doc dataDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "SHORT_INT", doc.Format)
	assert.Equal(t, []int{5}, doc.Shape)

	out, err = runCmd(t, "data", "--begin", "1", "--end", "3", path, "Ipa")
	require.NoError(t, err)
	doc = dataDoc{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []int{2}, doc.Shape)
	assert.Equal(t, []any{2, 3}, doc.Values)

	_, err = runCmd(t, "data", "--begin", "4", "--end", "9", path, "Ipa")
	require.Error(t, err)

	_, err = runCmd(t, "data", path, "CAL")
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	path := writeShotfile(t)
	dir := t.TempDir()

	decode := map[string]func([]byte) ([]byte, error){
		"none": func(b []byte) ([]byte, error) { return b, nil },
		"zstd": func(b []byte) ([]byte, error) {
			d, err := zstd.NewReader(nil)
			if err != nil {
				return nil, err
			}
			defer d.Close()
			return d.DecodeAll(b, nil)
		},
		"lz4": func(b []byte) ([]byte, error) {
			var out bytes.Buffer
			_, err := out.ReadFrom(lz4.NewReader(bytes.NewReader(b)))
			return out.Bytes(), err
		},
	}

	for _, encoding := range []string{"yaml", "cbor"} {
		for compress, unpack := range decode {
			t.Run(encoding+"/"+compress, func(t *testing.T) {
				out := filepath.Join(dir, encoding+"."+compress)
				_, err := runCmd(t, "export", "--encoding", encoding, "--compress", compress, "-o", out, path)
				require.NoError(t, err)

				raw, err := os.ReadFile(out)
				require.NoError(t, err)
				data, err := unpack(raw)
				require.NoError(t, err)

				var doc fileDoc
				if encoding == "yaml" {
					require.NoError(t, yaml.Unmarshal(data, &doc))
				} else {
					require.NoError(t, cbor.Unmarshal(data, &doc))
				}
				assert.Equal(t, int32(4242), doc.Shot)
				assert.Len(t, doc.Fingerprint, 16)
				require.Len(t, doc.Objects, 4)
				assert.Equal(t, "Ipa", doc.Objects[3].Name)
				assert.NotNil(t, doc.Objects[3].Data)
				require.Len(t, doc.Objects[2].Params, 1)
				assert.Equal(t, "GAIN", doc.Objects[2].Params[0].Name)
			})
		}
	}
}

func TestExportIsDeterministic(t *testing.T) {
	path := writeShotfile(t)

	a, err := runCmd(t, "export", "--encoding", "cbor", path)
	require.NoError(t, err)
	b, err := runCmd(t, "export", "--encoding", "cbor", path)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRewrite(t *testing.T) {
	path := writeShotfile(t)
	dst := filepath.Join(t.TempDir(), "copy.sf")

	out, err := runCmd(t, "rewrite", path, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "4 objects")

	listing, err := runCmd(t, "show", "--data", dst, "Ipa")
	require.NoError(t, err)
	var doc objectDoc
	require.NoError(t, yaml.Unmarshal([]byte(listing), &doc))
	assert.Equal(t, []any{1, 2, 3, 4, 5}, doc.Data)
}

func TestTolerantTruncatedHeaderTable(t *testing.T) {
	h := &object.Header{Name: "XYZ", Label: object.Diagnostic, Attrs: &object.DiagnosticAttrs{ShotNr: 77}}
	h.Type, _ = h.Label.Tag()
	for j := range h.Rel {
		h.Rel[j] = object.NoRelation
	}
	slot, err := h.Encode()
	require.NoError(t, err)

	// A second slot cut short by the end of the file.
	partial := append(slot, "ABC     "...)
	partial = append(partial, make([]byte, 32)...)
	path := filepath.Join(t.TempDir(), "truncated.sf")
	require.NoError(t, os.WriteFile(path, partial, 0o644))

	_, err = runCmd(t, "list", path)
	require.ErrorIs(t, err, shotfile.ErrShortRead)

	out, err := runCmd(t, "--tolerant", "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "shot 77")
	assert.Contains(t, out, "XYZ")
}

func TestUsageErrors(t *testing.T) {
	_, err := runCmd(t)
	require.Error(t, err)

	_, err = runCmd(t, "frobnicate")
	require.ErrorContains(t, err, "unknown command")

	_, err = runCmd(t, "--log-level", "loud", "list", "x")
	require.ErrorContains(t, err, "--log-level")

	_, err = runCmd(t, "list")
	require.ErrorContains(t, err, "usage")

	_, err = runCmd(t, "export", "--encoding", "xml", writeShotfile(t))
	require.ErrorContains(t, err, "unknown encoding")
}
