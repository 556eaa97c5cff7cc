package config

import (
	"tessera/internal/heap"
	"tessera/internal/value"
)

// VarBool, VarNumber, and VarString wrap host scalars into the tagged
// Value the compiler and, eventually, the dispatch loop operate on.
// Grounded on var.c's msVarBool/msVarNumber/msVarString public API.
func VarBool(b bool) value.Value { return value.Bool(b) }

func VarNumber(n float64) value.Value { return value.Number(n) }

// VarString allocates a StringObj on h and returns it boxed. The caller
// must keep it temp-rooted (heap.PushTempRef) until it becomes reachable
// from a root — VarString itself does not push one, since the caller is
// about to store the result somewhere and is in the better position to
// know when that happens.
func VarString(h *heap.Heap, s string) value.Value {
	return value.Ptr(&h.NewString(s).Object)
}

// AsBool, AsNumber, and AsString are the corresponding extractors.
// Grounded on msAsBool/msAsNumber/msAsString.
func AsBool(v value.Value) bool { return v.AsBool() }

func AsNumber(v value.Value) float64 { return v.AsNumber() }

func AsString(v value.Value) string {
	return value.AsString(v).Value
}
