package shotfile

import (
	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/layout"
	"github.com/robert-malhotra/go-shotfile/internal/object"
	"github.com/robert-malhotra/go-shotfile/internal/param"
)

// Label is the resolved type of an object.
type Label = object.Label

// Object labels.
const (
	LabelUnknown     = object.Unknown
	LabelDiagnostic  = object.Diagnostic
	LabelList        = object.List
	LabelDevice      = object.Device
	LabelParamSet    = object.ParamSet
	LabelSignalGroup = object.SignalGroup
	LabelSignal      = object.Signal
	LabelTimeBase    = object.TimeBase
	LabelAreaBase    = object.AreaBase
	LabelAddrLen     = object.AddrLen
)

// Header is a decoded directory slot.
type Header = object.Header

// Type-specific header attributes.
type (
	Attributes       = object.Attributes
	DiagnosticAttrs  = object.DiagnosticAttrs
	ListAttrs        = object.ListAttrs
	DeviceAttrs      = object.DeviceAttrs
	ParamSetAttrs    = object.ParamSetAttrs
	SignalAttrs      = object.SignalAttrs
	SignalGroupAttrs = object.SignalGroupAttrs
	TimeBaseAttrs    = object.TimeBaseAttrs
	AreaBaseAttrs    = object.AreaBaseAttrs
	AddrLenAttrs     = object.AddrLenAttrs
)

// Format is a data-format code.
type Format = dtype.Format

// Param is one parameter of a ParamSet or Device.
type Param = param.Param

// ParamSet is the ordered parameter collection of a ParamSet or Device.
type ParamSet = param.Set

// NewParam builds a parameter from a typed slice or scalar.
func NewParam(name string, f Format, value any) (*Param, error) {
	return param.New(name, f, value)
}

// Array is a decoded data payload in column-major order.
type Array = layout.Array
