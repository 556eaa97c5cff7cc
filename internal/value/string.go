package value

import "unsafe"

// StringObj is an immutable, interned-by-value string. Hash is computed once
// at construction (FNV-1a, matching original_source's utilHashString) and
// reused by every map lookup and equality check without rehashing.
type StringObj struct {
	Object
	Value string
	Hash  uint32
}

func hashFNV1a(s string) uint32 {
	const offset = 2166136261
	const prime = 16777619
	h := uint32(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// AsString extracts the *StringObj backing v. Caller must have checked that
// v holds a TypeString object.
func AsString(v Value) *StringObj {
	return (*StringObj)(unsafe.Pointer(v.AsObj()))
}

// NewStringObj constructs a bare StringObj header; heap.New wires it onto the
// VM's sweep list. Kept here, rather than in internal/heap, because the hash
// computation is a property of the value, not the allocator.
func NewStringObj(s string) *StringObj {
	return &StringObj{
		Object: Object{Type: TypeString},
		Value:  s,
		Hash:   hashFNV1a(s),
	}
}

// StringFormat renders v for string-concatenation and Print builtins,
// following varToString in the original source: nil/bool/number get their
// literal spelling, strings pass through unchanged, and the remaining
// heap types get a "[Type]" placeholder since none of this spec's compiled
// output depends on their concrete printed form.
func StringFormat(v Value) string {
	switch {
	case v.IsNil():
		return "null"
	case v.IsUndefined():
		return "undefined"
	case v.IsBool():
		if v.AsBool() {
			return "true"
		}
		return "false"
	case v.IsNumber():
		return formatNumber(v.AsNumber())
	case v.IsObj():
		obj := v.AsObj()
		if obj.Type == TypeString {
			return AsString(v).Value
		}
		return "[" + obj.Type.String() + "]"
	default:
		return "?"
	}
}

func formatNumber(f float64) string {
	return trimFloat(f)
}
