package value

import (
	"unsafe"

	"github.com/google/uuid"
)

// Frame is one call frame on a fiber's call stack.
type Frame struct {
	Function *Function
	IP       int
	StackTop int
}

// FiberObj is a cooperatively scheduled execution context: a value stack,
// a call-frame array, and the currently running function. ID is not part
// of the original MiniScript source; it gives debugserver sessions and
// diagnostics a stable handle on a running fiber.
type FiberObj struct {
	Object
	ID       uuid.UUID
	Stack    []Value
	Frames   []Frame
	Function *Function
	Error    Value
}

// AsFiber extracts the *FiberObj backing v.
func AsFiber(v Value) *FiberObj {
	return (*FiberObj)(unsafe.Pointer(v.AsObj()))
}

// NewFiberObj constructs a FiberObj bound to fn. It is never driven to
// completion by this repo (the dispatch loop is out of scope); it exists so
// the collector's blacken path and the debug server have something concrete
// to walk.
func NewFiberObj(fn *Function) *FiberObj {
	return &FiberObj{
		Object:   Object{Type: TypeFiber},
		ID:       uuid.New(),
		Function: fn,
		Error:    Nil,
	}
}
