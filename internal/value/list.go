package value

import "unsafe"

// growFactor mirrors original_source/src/var.c's GROW_FACTOR: buffers double
// on growth and shrink back by the same factor once usage falls to half of
// capacity.
const growFactor = 2

// ListObj is a mutable, ordered, resizable sequence of Values.
type ListObj struct {
	Object
	Elements []Value
}

// AsList extracts the *ListObj backing v. Caller must have checked that v
// holds a TypeList object.
func AsList(v Value) *ListObj {
	return (*ListObj)(unsafe.Pointer(v.AsObj()))
}

// NewListObj constructs an empty ListObj header; heap.New wires it onto the
// VM's sweep list.
func NewListObj() *ListObj {
	return &ListObj{Object: Object{Type: TypeList}}
}

// Insert shifts elements at and after index down by one slot and writes val
// into the gap, following listInsert. index == len(Elements) appends.
func (l *ListObj) Insert(index int, val Value) {
	l.Elements = append(l.Elements, Nil)
	copy(l.Elements[index+1:], l.Elements[index:len(l.Elements)-1])
	l.Elements[index] = val
}

// RemoveAt removes and returns the element at index, shifting the remainder
// up and halving the backing array once usage drops to half of its
// capacity, following listRemoveAt.
func (l *ListObj) RemoveAt(index int) Value {
	removed := l.Elements[index]
	copy(l.Elements[index:], l.Elements[index+1:])
	l.Elements = l.Elements[:len(l.Elements)-1]

	if cap(l.Elements) > 0 && cap(l.Elements)/growFactor >= len(l.Elements) {
		shrunk := make([]Value, len(l.Elements), cap(l.Elements)/growFactor)
		copy(shrunk, l.Elements)
		l.Elements = shrunk
	}
	return removed
}
