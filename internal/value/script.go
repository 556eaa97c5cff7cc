package value

import "unsafe"

// Fn holds a non-native function's compiled body: the parallel opcode and
// source-line buffers the compiler writes to, plus the highest simulated
// operand-stack depth reached while compiling it. Grounded on
// original_source/src/var.c's Fn (opcodes/oplines/stack_size).
type Fn struct {
	Opcodes  ByteBuffer
	OpLines  IntBuffer
	MaxStack int
}

// Function is a named, arity-checked callable: either a compiled Fn owned by
// a Script, or a native stub whose body lives outside the compiled artifact.
// Grounded on original_source/src/var.c's Function (name/owner/arity/
// is_native/fn union).
type Function struct {
	Object
	Name     string
	Owner    *Script // nil for a bare native registered without a script
	Arity    int     // -1 = variadic, -2 = not yet resolved
	IsNative bool
	Fn       *Fn // nil when IsNative
}

// AsFunction extracts the *Function backing v.
func AsFunction(v Value) *Function {
	return (*Function)(unsafe.Pointer(v.AsObj()))
}

// AsScript extracts the *Script backing v.
func AsScript(v Value) *Script {
	return (*Script)(unsafe.Pointer(v.AsObj()))
}

// NewFunction constructs a Function header. For a scripted function it also
// allocates the compiled-body Fn; native functions leave Fn nil.
func NewFunction(name string, owner *Script, isNative bool) *Function {
	f := &Function{
		Object:   Object{Type: TypeFunction},
		Name:     name,
		Owner:    owner,
		Arity:    -2,
		IsNative: isNative,
	}
	if !isNative {
		f.Fn = &Fn{}
	}
	return f
}

// Script is a compiled source unit: its own top-level function body
// ("@(ScriptLevel)"), its globals and their name table, its literal pool,
// and the table of functions it declares. Grounded on
// original_source/src/var.c's Script (global_names/literals/functions/
// function_names/names/body).
type Script struct {
	Object
	Path          string
	Globals       ValueBuffer
	GlobalNames   NameTable
	Literals      ValueBuffer
	Functions     []*Function
	FunctionNames NameTable
	Names         NameTable // every identifier referenced, for name-based lookups
	Body          *Function
}

// NewScript constructs a Script with its top-level body function already
// allocated, following newScript's "@(ScriptLevel)" convention.
func NewScript(path string) *Script {
	s := &Script{
		Object: Object{Type: TypeScript},
		Path:   path,
	}
	s.Body = NewFunction("@(ScriptLevel)", s, false)
	return s
}

// AddLiteral interns val into the script's literal pool, deduplicating by
// value equality and capping the pool at 65536 entries (the constant
// pool's index width). Returns the literal's index.
func (s *Script) AddLiteral(val Value) (index int, ok bool) {
	for i, v := range s.Literals.Data {
		if IsEqual(v, val) {
			return i, true
		}
	}
	if len(s.Literals.Data) >= 1<<16 {
		return 0, false
	}
	return s.Literals.Write(val), true
}

// AddFunction registers fn in the script's function table and interns its
// name, following newFunction's owner branch.
func (s *Script) AddFunction(fn *Function) int {
	s.Functions = append(s.Functions, fn)
	s.FunctionNames.Add(fn.Name)
	return len(s.Functions) - 1
}
