package value

// Dynamic buffers: growable typed sequences used throughout the compiler
// and object heap. Grounded on original_source/src/var.c's *BufferWrite
// family (2x growth), rendered as append-based Go writers.
// Go's append already implements the growth policy, so these types exist
// only to give the growth points names the rest of the codebase can talk
// about; dedup (for the literal pool) is layered on top by Script.AddLiteral.

// ByteBuffer is a growable byte sequence (a function's opcode stream).
type ByteBuffer struct {
	Data []byte
}

func (b *ByteBuffer) Write(v byte) int {
	b.Data = append(b.Data, v)
	return len(b.Data) - 1
}

func (b *ByteBuffer) Len() int { return len(b.Data) }

// IntBuffer is a growable int sequence (a function's parallel line table).
type IntBuffer struct {
	Data []int
}

func (b *IntBuffer) Write(v int) int {
	b.Data = append(b.Data, v)
	return len(b.Data) - 1
}

func (b *IntBuffer) Len() int { return len(b.Data) }

// ValueBuffer is a growable Value sequence (globals, literals).
type ValueBuffer struct {
	Data []Value
}

func (b *ValueBuffer) Write(v Value) int {
	b.Data = append(b.Data, v)
	return len(b.Data) - 1
}

func (b *ValueBuffer) Len() int { return len(b.Data) }

// ObjectBuffer is a growable heap-object-pointer sequence (a script's
// function table).
type ObjectBuffer struct {
	Data []*Object
}

func (b *ObjectBuffer) Write(v *Object) int {
	b.Data = append(b.Data, v)
	return len(b.Data) - 1
}

func (b *ObjectBuffer) Len() int { return len(b.Data) }
