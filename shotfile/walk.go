package shotfile

import "errors"

// SkipAll may be returned by a WalkFunc to stop the walk without error.
var SkipAll = errors.New("skip all objects")

// WalkFunc is called for each object during traversal.
// err is the non-fatal error met while decoding the object's payload
// during Open, if any.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(obj *Object, err error) error

// Walk visits every object in slot order.
//
// Example:
//
//	Walk(f, func(obj *Object, err error) error {
//	    if err != nil {
//	        log.Printf("%s: %v", obj.Name(), err)
//	    }
//	    if obj.Label() == LabelSignal {
//	        fmt.Println(obj.Name(), obj.Unit())
//	    }
//	    return nil
//	})
func Walk(f *File, fn WalkFunc) error {
	if f.closed {
		return ErrClosed
	}
	for _, o := range f.objects {
		if err := fn(o, o.err); err != nil {
			if errors.Is(err, SkipAll) {
				return nil
			}
			return err
		}
	}
	return nil
}
