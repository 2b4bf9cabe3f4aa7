package object

import (
	"encoding/binary"

	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/units"
)

// Attributes is the decoded type-specific sub-record of a header.
// Implementations exist for every known label; Unknown has none.
type Attributes interface {
	Label() Label
	decode(val []byte)
	encode(val []byte)
}

// Formatted is implemented by sub-records that carry a data format.
type Formatted interface {
	Format() dtype.Format
}

// Counted is implemented by sub-records that carry an item count.
type Counted interface {
	Items() int
}

var be = binary.BigEndian

func getI16(b []byte) int16    { return int16(be.Uint16(b)) }
func getI32(b []byte) int32    { return int32(be.Uint32(b)) }
func putI16(b []byte, v int16) { be.PutUint16(b, uint16(v)) }
func putI32(b []byte, v int32) { be.PutUint32(b, uint32(v)) }

// newAttributes returns an empty sub-record for l, or nil for Unknown.
func newAttributes(l Label) Attributes {
	switch l {
	case Diagnostic:
		return &DiagnosticAttrs{}
	case List:
		return &ListAttrs{}
	case Device:
		return &DeviceAttrs{}
	case ParamSet:
		return &ParamSetAttrs{}
	case SignalGroup:
		return &SignalGroupAttrs{}
	case Signal:
		return &SignalAttrs{}
	case TimeBase:
		return &TimeBaseAttrs{}
	case AreaBase:
		return &AreaBaseAttrs{}
	case AddrLen:
		return &AddrLenAttrs{}
	}
	return nil
}

// DiagnosticAttrs describes the shotfile as a whole.
type DiagnosticAttrs struct {
	DiagCode [4]byte
	NumObjs  int16
	DiagType int16
	ShotNr   int32
	CTime    int32
	UpLimit  int16
	Exp      int16
	Version  int16
	SType    int16
}

func (a *DiagnosticAttrs) Label() Label { return Diagnostic }

func (a *DiagnosticAttrs) decode(val []byte) {
	copy(a.DiagCode[:], val[0:4])
	a.NumObjs = getI16(val[4:])
	a.DiagType = getI16(val[6:])
	a.ShotNr = getI32(val[8:])
	a.CTime = getI32(val[12:])
	a.UpLimit = getI16(val[16:])
	a.Exp = getI16(val[18:])
	a.Version = getI16(val[20:])
	a.SType = getI16(val[22:])
}

func (a *DiagnosticAttrs) encode(val []byte) {
	copy(val[0:4], a.DiagCode[:])
	putI16(val[4:], a.NumObjs)
	putI16(val[6:], a.DiagType)
	putI32(val[8:], a.ShotNr)
	putI32(val[12:], a.CTime)
	putI16(val[16:], a.UpLimit)
	putI16(val[18:], a.Exp)
	putI16(val[20:], a.Version)
	putI16(val[22:], a.SType)
}

// ListAttrs describes a list of object slot IDs.
type ListAttrs struct {
	DataFormat dtype.Format
	NItems     int16
	Ordering   int16
	ListType   int16
}

func (a *ListAttrs) Label() Label         { return List }
func (a *ListAttrs) Format() dtype.Format { return a.DataFormat }
func (a *ListAttrs) Items() int           { return int(a.NItems) }

func (a *ListAttrs) decode(val []byte) {
	a.DataFormat = dtype.Format(getI16(val[0:]))
	a.NItems = getI16(val[2:])
	a.Ordering = getI16(val[4:])
	a.ListType = getI16(val[6:])
}

func (a *ListAttrs) encode(val []byte) {
	putI16(val[0:], int16(a.DataFormat))
	putI16(val[2:], a.NItems)
	putI16(val[4:], a.Ordering)
	putI16(val[6:], a.ListType)
}

// DeviceAttrs describes an acquisition device and its parameter records.
type DeviceAttrs struct {
	DataFormat dtype.Format
	AcqSeq     int16
	NItems     int16
	DevType    int16
	DevAddr    int32
	NChan      int32
	Task       int16
	DevNum     int16
	NSteps     int32
}

func (a *DeviceAttrs) Label() Label         { return Device }
func (a *DeviceAttrs) Format() dtype.Format { return a.DataFormat }
func (a *DeviceAttrs) Items() int           { return int(a.NItems) }

func (a *DeviceAttrs) decode(val []byte) {
	a.DataFormat = dtype.Format(getI16(val[0:]))
	a.AcqSeq = getI16(val[2:])
	a.NItems = getI16(val[4:])
	a.DevType = getI16(val[6:])
	a.DevAddr = getI32(val[8:])
	a.NChan = getI32(val[12:])
	a.Task = getI16(val[16:])
	a.DevNum = getI16(val[18:])
	a.NSteps = getI32(val[20:])
}

func (a *DeviceAttrs) encode(val []byte) {
	putI16(val[0:], int16(a.DataFormat))
	putI16(val[2:], a.AcqSeq)
	putI16(val[4:], a.NItems)
	putI16(val[6:], a.DevType)
	putI32(val[8:], a.DevAddr)
	putI32(val[12:], a.NChan)
	putI16(val[16:], a.Task)
	putI16(val[18:], a.DevNum)
	putI32(val[20:], a.NSteps)
}

// ParamSetAttrs describes a named collection of parameter records.
type ParamSetAttrs struct {
	NItems  int16
	CalType units.CalibrationType
	Index   [4]uint32
}

func (a *ParamSetAttrs) Label() Label { return ParamSet }
func (a *ParamSetAttrs) Items() int   { return int(a.NItems) }

// Calibration returns the calibration type label.
func (a *ParamSetAttrs) Calibration() (string, error) {
	return units.Calibration(a.CalType)
}

func (a *ParamSetAttrs) decode(val []byte) {
	a.NItems = getI16(val[0:])
	a.CalType = units.CalibrationType(getI16(val[2:]))
	for i := range a.Index {
		a.Index[i] = be.Uint32(val[4+4*i:])
	}
}

func (a *ParamSetAttrs) encode(val []byte) {
	putI16(val[0:], a.NItems)
	putI16(val[2:], int16(a.CalType))
	for i, v := range a.Index {
		be.PutUint32(val[4+4*i:], v)
	}
}

// SignalAttrs describes a Signal array.
// Index holds index1..index4 as stored.
type SignalAttrs struct {
	DataFormat dtype.Format
	PhysUnit   int16
	NumDims    int16
	StatExt    int16
	Index      [4]uint32
}

// SignalGroupAttrs describes a SignalGroup; the layout equals a Signal's.
type SignalGroupAttrs struct {
	SignalAttrs
}

func (a *SignalAttrs) Label() Label      { return Signal }
func (a *SignalGroupAttrs) Label() Label { return SignalGroup }

// SignalOf returns the signal sub-record of a Signal or SignalGroup.
func SignalOf(a Attributes) (*SignalAttrs, bool) {
	switch s := a.(type) {
	case *SignalAttrs:
		return s, true
	case *SignalGroupAttrs:
		return &s.SignalAttrs, true
	}
	return nil, false
}

func (a *SignalAttrs) Format() dtype.Format { return a.DataFormat }

// Unit returns the physical unit string.
func (a *SignalAttrs) Unit() (string, error) {
	return units.Unit(a.PhysUnit)
}

func (a *SignalAttrs) decode(val []byte) {
	a.DataFormat = dtype.Format(getI16(val[0:]))
	a.PhysUnit = getI16(val[2:])
	a.NumDims = getI16(val[4:])
	a.StatExt = getI16(val[6:])
	for i := range a.Index {
		a.Index[i] = be.Uint32(val[8+4*i:])
	}
}

func (a *SignalAttrs) encode(val []byte) {
	putI16(val[0:], int16(a.DataFormat))
	putI16(val[2:], a.PhysUnit)
	putI16(val[4:], a.NumDims)
	putI16(val[6:], a.StatExt)
	for i, v := range a.Index {
		be.PutUint32(val[8+4*i:], v)
	}
}

// TimeBaseAttrs describes a time axis.
type TimeBaseAttrs struct {
	DataFormat dtype.Format
	BurstCount int16
	Event      int16
	TbaseType  units.TimebaseType
	SRate      int32
	NPre       int32
	NSteps     int32
}

func (a *TimeBaseAttrs) Label() Label         { return TimeBase }
func (a *TimeBaseAttrs) Format() dtype.Format { return a.DataFormat }

// TimebaseType returns the timebase type label.
func (a *TimeBaseAttrs) TimebaseType() (string, error) {
	return units.Timebase(a.TbaseType)
}

func (a *TimeBaseAttrs) decode(val []byte) {
	a.DataFormat = dtype.Format(getI16(val[0:]))
	a.BurstCount = getI16(val[2:])
	a.Event = getI16(val[4:])
	a.TbaseType = units.TimebaseType(getI16(val[6:]))
	a.SRate = getI32(val[8:])
	a.NPre = getI32(val[12:])
	a.NSteps = getI32(val[16:])
}

func (a *TimeBaseAttrs) encode(val []byte) {
	putI16(val[0:], int16(a.DataFormat))
	putI16(val[2:], a.BurstCount)
	putI16(val[4:], a.Event)
	putI16(val[6:], int16(a.TbaseType))
	putI32(val[8:], a.SRate)
	putI32(val[12:], a.NPre)
	putI32(val[16:], a.NSteps)
}

// AreaBaseAttrs describes a spatial axis of up to three coordinates.
type AreaBaseAttrs struct {
	DataFormat dtype.Format
	PhysUnit   [3]int16
	Size       [3]uint32
	NSteps     uint32
}

func (a *AreaBaseAttrs) Label() Label         { return AreaBase }
func (a *AreaBaseAttrs) Format() dtype.Format { return a.DataFormat }

// Units returns the unit string of each coordinate. A failed lookup leaves
// an empty string in place and is reported after all three are tried.
func (a *AreaBaseAttrs) Units() ([3]string, error) {
	var out [3]string
	var firstErr error
	for i, code := range a.PhysUnit {
		s, err := units.Unit(code)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		out[i] = s
	}
	return out, firstErr
}

func (a *AreaBaseAttrs) decode(val []byte) {
	a.DataFormat = dtype.Format(getI16(val[0:]))
	for i := range a.PhysUnit {
		a.PhysUnit[i] = getI16(val[2+2*i:])
	}
	for i := range a.Size {
		a.Size[i] = be.Uint32(val[8+4*i:])
	}
	a.NSteps = be.Uint32(val[20:])
}

func (a *AreaBaseAttrs) encode(val []byte) {
	putI16(val[0:], int16(a.DataFormat))
	for i, v := range a.PhysUnit {
		putI16(val[2+2*i:], v)
	}
	for i, v := range a.Size {
		be.PutUint32(val[8+4*i:], v)
	}
	be.PutUint32(val[20:], a.NSteps)
}

// AddrLenAttrs carries the address unit code of the file.
type AddrLenAttrs struct {
	Code int16
}

func (a *AddrLenAttrs) Label() Label { return AddrLen }

// Size returns the address unit in bytes.
func (a *AddrLenAttrs) Size() (uint64, error) {
	return units.AddrSize(a.Code)
}

func (a *AddrLenAttrs) decode(val []byte) {
	a.Code = getI16(val[0:])
}

func (a *AddrLenAttrs) encode(val []byte) {
	putI16(val[0:], a.Code)
}
