package object

// Label is the resolved semantic type of a shotfile object.
type Label uint8

const (
	Unknown Label = iota
	Diagnostic
	List
	Device
	ParamSet
	SignalGroup
	Signal
	TimeBase
	AreaBase
	AddrLen
)

var tagLabels = map[int16]Label{
	1:  Diagnostic,
	2:  List,
	3:  Device,
	4:  ParamSet,
	6:  SignalGroup,
	7:  Signal,
	8:  TimeBase,
	13: AreaBase,
	18: AddrLen,
}

var labelTags = func() map[Label]int16 {
	m := make(map[Label]int16, len(tagLabels))
	for tag, l := range tagLabels {
		m[l] = tag
	}
	return m
}()

// LabelOf resolves an object type tag. Unrecognized tags yield Unknown.
func LabelOf(tag int16) Label {
	if l, ok := tagLabels[tag]; ok {
		return l
	}
	return Unknown
}

// Tag returns the on-disk type tag of a label.
func (l Label) Tag() (int16, bool) {
	tag, ok := labelTags[l]
	return tag, ok
}

func (l Label) String() string {
	switch l {
	case Diagnostic:
		return "Diagnostic"
	case List:
		return "List"
	case Device:
		return "Device"
	case ParamSet:
		return "ParamSet"
	case SignalGroup:
		return "SignalGroup"
	case Signal:
		return "Signal"
	case TimeBase:
		return "TimeBase"
	case AreaBase:
		return "AreaBase"
	case AddrLen:
		return "ADDRLEN"
	default:
		return "Unknown"
	}
}

// IsParamSet reports whether objects of this label carry parameter records.
func (l Label) IsParamSet() bool {
	return l == ParamSet || l == Device
}

// IsArray reports whether objects of this label carry a numeric array payload.
func (l Label) IsArray() bool {
	switch l {
	case SignalGroup, Signal, TimeBase, AreaBase:
		return true
	}
	return false
}
