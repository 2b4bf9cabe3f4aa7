package units

import (
	"testing"

	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit(t *testing.T) {
	s, err := Unit(3)
	require.NoError(t, err)
	assert.Equal(t, "V", s)

	s, err = Unit(58)
	require.NoError(t, err)
	assert.Equal(t, Counts, s)

	_, err = Unit(999)
	require.ErrorIs(t, err, dtype.ErrUnsupported)
}

func TestUnitNamesAreUnique(t *testing.T) {
	seen := make(map[string]int16)
	for code, s := range unitNames {
		prev, dup := seen[s]
		require.False(t, dup, "unit %q used by codes %d and %d", s, prev, code)
		seen[s] = code
	}
}

func TestLabels(t *testing.T) {
	s, err := Timebase(PPGProg)
	require.NoError(t, err)
	assert.Equal(t, "PPG_prog", s)
	assert.Equal(t, "ADC_intern", ADCIntern.String())
	assert.Equal(t, "Unknown", TimebaseType(42).String())

	s, err = Calibration(LinCalib)
	require.NoError(t, err)
	assert.Equal(t, "LinCalib", s)

	_, err = Calibration(CalibrationType(-1))
	require.ErrorIs(t, err, dtype.ErrUnsupported)
}

func TestAddrSize(t *testing.T) {
	for code, want := range map[int16]uint64{0: 1, 1: 2, 2: 4, 3: 8} {
		n, err := AddrSize(code)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	_, err := AddrSize(4)
	require.Error(t, err)
}
