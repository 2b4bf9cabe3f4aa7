// Package units holds the shotfile lookup tables for physical units,
// calibration types, timebase types and address-unit sizes.
package units

import "github.com/robert-malhotra/go-shotfile/internal/dtype"

// TimebaseType identifies how a timebase's samples were produced.
type TimebaseType int16

const (
	ADCIntern  TimebaseType = 0
	PPGProg    TimebaseType = 1
	Datablock  TimebaseType = 2
	Chain1     TimebaseType = 3
	ExtDefined TimebaseType = 4
)

// CalibrationType identifies how a parameter set calibrates its signals.
type CalibrationType int16

const (
	NoCalib     CalibrationType = 0
	LinCalib    CalibrationType = 1
	LookUpTable CalibrationType = 2
	ExtCalib    CalibrationType = 3
)

// Counts is the unit string of raw ADC counts.
const Counts = "counts"

var unitNames = map[int16]string{
	0:  "",
	1:  "kg",
	2:  "m",
	3:  "V",
	4:  "A",
	5:  "mV",
	6:  "eV",
	7:  "J",
	8:  "s",
	9:  "min",
	10: "h",
	11: "Celsius",
	12: "K",
	13: "rad",
	14: "deg",
	15: "Hz",
	16: "W",
	17: "T",
	18: "Pa",
	19: "mbar",
	20: "m^-3",
	21: "m^-2",
	22: "m^-1",
	23: "m^2",
	24: "m^3",
	25: "m/s",
	26: "A/m^2",
	27: "W/m^2",
	28: "W/m^3",
	29: "Wb",
	30: "Ohm",
	31: "C",
	32: "F",
	33: "%",
	34: "keV",
	35: "ms",
	36: "us",
	37: "kA",
	38: "MW",
	39: "kV",
	40: "mm",
	41: "cm",
	42: "1/s",
	43: "Vs",
	44: "Tm^2",
	45: "photons/s",
	46: "W/(m^2 sr)",
	47: "nm",
	48: "mA",
	49: "dB",
	50: "1/(m^2 s)",
	51: "kW",
	52: "kHz",
	53: "MHz",
	54: "GHz",
	55: "mT",
	56: "kJ",
	57: "MJ",
	58: Counts,
	59: "kg/s",
	60: "Nm",
	61: "N",
	62: "bit",
	63: "kPa",
	64: "m^3/s",
	65: "mm/s",
	66: "1/m^3 s",
	67: "sr",
	68: "V/m",
	69: "ns",
	70: "MA",
}

var calibrationNames = map[CalibrationType]string{
	NoCalib:     "NoCalib",
	LinCalib:    "LinCalib",
	LookUpTable: "LookUpTable",
	ExtCalib:    "extCalib",
}

var timebaseNames = map[TimebaseType]string{
	ADCIntern:  "ADC_intern",
	PPGProg:    "PPG_prog",
	Datablock:  "Datablock",
	Chain1:     "Chain1",
	ExtDefined: "ExtDefined",
}

// addrSizes maps the ADDRLEN object's code to the address unit in bytes.
var addrSizes = map[int16]uint64{
	0: 1,
	1: 2,
	2: 4,
	3: 8,
}

// Unit returns the unit string for a physical-unit code.
func Unit(code int16) (string, error) {
	s, ok := unitNames[code]
	if !ok {
		return "", &dtype.UnsupportedFormatError{Code: int(code), Table: "unit"}
	}
	return s, nil
}

// Calibration returns the label of a calibration type.
func Calibration(c CalibrationType) (string, error) {
	s, ok := calibrationNames[c]
	if !ok {
		return "", &dtype.UnsupportedFormatError{Code: int(c), Table: "calibration type"}
	}
	return s, nil
}

// Timebase returns the label of a timebase type.
func Timebase(t TimebaseType) (string, error) {
	s, ok := timebaseNames[t]
	if !ok {
		return "", &dtype.UnsupportedFormatError{Code: int(t), Table: "timebase type"}
	}
	return s, nil
}

// AddrSize returns the address unit in bytes for an ADDRLEN code.
func AddrSize(code int16) (uint64, error) {
	n, ok := addrSizes[code]
	if !ok {
		return 0, &dtype.UnsupportedFormatError{Code: int(code), Table: "address length"}
	}
	return n, nil
}

func (t TimebaseType) String() string {
	if s, ok := timebaseNames[t]; ok {
		return s
	}
	return "Unknown"
}

func (c CalibrationType) String() string {
	if s, ok := calibrationNames[c]; ok {
		return s
	}
	return "Unknown"
}
