// Package heap implements the object allocator and tri-color mark-sweep
// collector shared by the compiler and the value package's container types.
// Grounded on original_source/src/vm.h's MSVM (first/bytes_allocated/
// temp_reference/config) and var.c's alloc-then-link construction routines.
package heap

import (
	"unsafe"

	"github.com/pkg/errors"

	"tessera/internal/value"
)

// sizeof is a rough per-type byte cost used to drive the collection
// threshold. It does not need to be exact — original_source only uses its
// equivalent bookkeeping to decide *when* to collect, not to free memory
// directly (Go's runtime owns that).
func sizeof(obj *value.Object) int {
	switch obj.Type {
	case value.TypeString:
		return 32 + len((*value.StringObj)(unsafe.Pointer(obj)).Value)
	case value.TypeList:
		return 24 + len((*value.ListObj)(unsafe.Pointer(obj)).Elements)*8
	case value.TypeMap:
		return 24 + (*value.MapObj)(unsafe.Pointer(obj)).Count()*16
	case value.TypeRange:
		return 16
	case value.TypeScript:
		return 96
	case value.TypeFunction:
		return 48
	case value.TypeFiber:
		return 64
	default:
		return 16
	}
}

// Heap owns the sweep list, the allocation counter that drives collection,
// and the GC's root bookkeeping (temp-root stack, gray worklist). One Heap
// belongs to exactly one VM; embedding two VMs concurrently requires two
// Heaps — this type carries no locking of its own.
type Heap struct {
	first          *value.Object
	bytesAllocated int
	nextGC         int

	tempRefs  [maxTempReference]*value.Object
	tempCount int

	grayList []*value.Object

	// ExternalRoots lets the embedder (or, in this repo, tests) register
	// additional GC roots beyond the temp-root stack. The compiler keeps its
	// in-progress Script on the temp-root stack instead.
	ExternalRoots []func(mark func(*value.Object))
}

const defaultNextGC = 1 << 20 // 1MiB, matching a typical first-collection threshold

// New constructs an empty Heap.
func New() *Heap {
	return &Heap{nextGC: defaultNextGC}
}

// BytesAllocated reports the collector's running allocation estimate.
func (h *Heap) BytesAllocated() int { return h.bytesAllocated }

// register links obj onto the sweep list and accounts for its size, then
// triggers a collection if the allocation threshold has been crossed.
// Grounded on varInitObject (self->next = vm->first; vm->first = self).
func (h *Heap) register(obj *value.Object) {
	obj.Next = h.first
	h.first = obj
	h.bytesAllocated += sizeof(obj)
	if h.bytesAllocated > h.nextGC {
		h.Collect()
	}
}

// NewString allocates and links a StringObj.
func (h *Heap) NewString(s string) *value.StringObj {
	str := value.NewStringObj(s)
	h.register(&str.Object)
	return str
}

// NewList allocates and links an empty ListObj.
func (h *Heap) NewList() *value.ListObj {
	l := value.NewListObj()
	h.register(&l.Object)
	return l
}

// NewMap allocates and links an empty MapObj.
func (h *Heap) NewMap() *value.MapObj {
	m := value.NewMapObj()
	h.register(&m.Object)
	return m
}

// NewRange allocates and links a RangeObj.
func (h *Heap) NewRange(from, to float64) *value.RangeObj {
	r := value.NewRangeObj(from, to)
	h.register(&r.Object)
	return r
}

// NewScript allocates and links a Script together with its top-level body
// Function, protecting the script across the two-step construction with the
// temp-root stack exactly as newScript does in the original source.
func (h *Heap) NewScript(path string) *value.Script {
	s := &value.Script{Object: value.Object{}, Path: path}
	s.Object.Type = value.TypeScript
	h.register(&s.Object)

	h.PushTempRef(&s.Object)
	body := h.NewFunction("@(ScriptLevel)", s, false)
	h.PopTempRef()
	s.Body = body
	return s
}

// NewFunction allocates and links a Function, registering it (native or
// scripted) in owner's function table when owner is non-nil.
func (h *Heap) NewFunction(name string, owner *value.Script, isNative bool) *value.Function {
	fn := value.NewFunction(name, owner, isNative)
	h.register(&fn.Object)
	if owner != nil {
		h.PushTempRef(&fn.Object)
		owner.AddFunction(fn)
		h.PopTempRef()
	}
	return fn
}

// NewFiber allocates and links a FiberObj bound to fn.
func (h *Heap) NewFiber(fn *value.Function) *value.FiberObj {
	f := value.NewFiberObj(fn)
	h.register(&f.Object)
	return f
}

const maxTempReference = 8

// PushTempRef protects obj from collection until the matching PopTempRef.
// Exceeding the bounded stack is a programmer error in the caller, not a
// recoverable condition, so it panics with a stack-carrying wrap.
func (h *Heap) PushTempRef(obj *value.Object) {
	if obj == nil {
		return
	}
	if h.tempCount >= maxTempReference {
		panic(errors.WithStack(errors.Errorf("heap: temp-root stack overflow (max %d)", maxTempReference)))
	}
	h.tempRefs[h.tempCount] = obj
	h.tempCount++
}

// PopTempRef releases the most recently pushed temp-root.
func (h *Heap) PopTempRef() {
	if h.tempCount == 0 {
		panic(errors.WithStack(errors.New("heap: temp-root stack underflow")))
	}
	h.tempCount--
	h.tempRefs[h.tempCount] = nil
}
