package heap

import (
	"unsafe"

	"tessera/internal/value"
)

// gray appends obj to the worklist if it isn't already marked, which is the
// collector's cycle-termination mechanism: an already-marked object is
// never regrayed. Grounded on var.c's grayObject (doubling gray_list).
func (h *Heap) gray(obj *value.Object) {
	if obj == nil || obj.Marked {
		return
	}
	obj.Marked = true
	h.grayList = append(h.grayList, obj)
}

func (h *Heap) grayValue(v value.Value) {
	if v.IsObj() {
		h.gray(v.AsObj())
	}
}

// blacken grays every object obj references, by type, following
// blackenObject in var.c's per-type reference list.
func (h *Heap) blacken(obj *value.Object) {
	switch obj.Type {
	case value.TypeString, value.TypeRange:
		// No outgoing references.

	case value.TypeList:
		l := (*value.ListObj)(unsafe.Pointer(obj))
		for _, v := range l.Elements {
			h.grayValue(v)
		}

	case value.TypeMap:
		m := (*value.MapObj)(unsafe.Pointer(obj))
		m.Each(func(k, v value.Value) {
			h.grayValue(k)
			h.grayValue(v)
		})

	case value.TypeScript:
		s := (*value.Script)(unsafe.Pointer(obj))
		for _, v := range s.Globals.Data {
			h.grayValue(v)
		}
		for _, n := range s.GlobalNames.Data {
			h.gray(&n.Object)
		}
		for _, v := range s.Literals.Data {
			h.grayValue(v)
		}
		for _, fn := range s.Functions {
			h.gray(&fn.Object)
		}
		for _, n := range s.FunctionNames.Data {
			h.gray(&n.Object)
		}
		for _, n := range s.Names.Data {
			h.gray(&n.Object)
		}
		if s.Body != nil {
			h.gray(&s.Body.Object)
		}

	case value.TypeFunction:
		fn := (*value.Function)(unsafe.Pointer(obj))
		if fn.Owner != nil {
			h.gray(&fn.Owner.Object)
		}

	case value.TypeFiber:
		f := (*value.FiberObj)(unsafe.Pointer(obj))
		if f.Function != nil {
			h.gray(&f.Function.Object)
		}
		for _, v := range f.Stack {
			h.grayValue(v)
		}
		for _, fr := range f.Frames {
			if fr.Function != nil {
				h.gray(&fr.Function.Object)
				if fr.Function.Owner != nil {
					h.gray(&fr.Function.Owner.Object)
				}
			}
		}

	case value.TypeUser:
		// User objects carry no reference graph this repo knows about.
	}
}

// Collect runs one full mark-sweep cycle: gray every root, blacken until the
// worklist drains, then sweep objects left unmarked — the standard
// tri-color mark-sweep three-phase protocol.
func (h *Heap) Collect() {
	for i := 0; i < h.tempCount; i++ {
		h.gray(h.tempRefs[i])
	}
	for _, root := range h.ExternalRoots {
		root(h.gray)
	}

	for len(h.grayList) > 0 {
		obj := h.grayList[len(h.grayList)-1]
		h.grayList = h.grayList[:len(h.grayList)-1]
		h.blacken(obj)
	}

	h.sweep()
	h.nextGC = h.bytesAllocated * 2
	if h.nextGC < defaultNextGC {
		h.nextGC = defaultNextGC
	}
}

// sweep walks the intrusive linked list, unlinking unmarked objects and
// clearing the mark bit on survivors, following var.c's sweep phase.
func (h *Heap) sweep() {
	var prev *value.Object
	obj := h.first
	freed := 0

	for obj != nil {
		if obj.Marked {
			obj.Marked = false
			prev = obj
			obj = obj.Next
			continue
		}

		unreached := obj
		obj = obj.Next
		if prev != nil {
			prev.Next = obj
		} else {
			h.first = obj
		}
		freed += sizeof(unreached)
	}

	if freed > h.bytesAllocated {
		h.bytesAllocated = 0
	} else {
		h.bytesAllocated -= freed
	}
}
