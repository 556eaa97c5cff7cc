package value

import "unsafe"

// RangeObj is the immutable half-open [From, To) numeric range produced by
// the `a..b` operator. Grounded on original_source/src/var.c's Range type.
type RangeObj struct {
	Object
	From float64
	To   float64
}

// AsRange extracts the *RangeObj backing v. Caller must have checked that v
// holds a TypeRange object.
func AsRange(v Value) *RangeObj {
	return (*RangeObj)(unsafe.Pointer(v.AsObj()))
}

// NewRangeObj constructs a bare RangeObj header; heap.New wires it onto the
// VM's sweep list.
func NewRangeObj(from, to float64) *RangeObj {
	return &RangeObj{
		Object: Object{Type: TypeRange},
		From:   from,
		To:     to,
	}
}
