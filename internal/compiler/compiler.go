// Package compiler is a single-pass Pratt/precedence-climbing parser that
// emits bytecode directly — there is no intermediate AST. Grounded on
// original_source/src/compiler.c's Compiler/Parser pair and the grammar
// table captured in rules.go: a driving Compiler type with separate
// emission primitives (emitByte/emitShort/emitConstant/patchJump).
package compiler

import (
	"github.com/pkg/errors"

	"tessera/internal/bytecode"
	"tessera/internal/heap"
	"tessera/internal/lexer"
	"tessera/internal/value"
)

const (
	maxVariables = 256     // var_count <= 256
	maxConstants = 1 << 16 // literal pool capped at 2^16
	maxJump      = 1 << 16 // a jump target must fit the 2-byte operand
)

// scopeAny and scopeCurrent select how far searchVariables looks: every
// visible local, or only the ones declared at the current depth (used to
// detect a duplicate parameter name).
type scopeType int

const (
	scopeAny scopeType = iota
	scopeCurrent
)

// variable is one entry of the compiler's flat variable table. depth == -1
// is never stored here (globals don't occupy a variable slot); depth 0 is
// parameter scope, depth > 0 is a nested block.
type variable struct {
	name  string
	depth int
	line  int
}

// loop tracks the innermost enclosing while/for loop so break/continue know
// where to jump. Grounded on compiler.c's Loop struct.
type loop struct {
	start     int
	patches   []int
	outerLoop *loop
}

// Compiler holds all state for compiling one script: the heap it allocates
// into, the token stream, the flat variable table, the current emission
// target (a script-level body or a nested function), and error state.
// Grounded on compiler.c's Compiler struct.
type Compiler struct {
	heap     *heap.Heap
	scanner  *lexer.Scanner
	path     string
	reporter ErrorReporter

	scopeDepth int
	variables  []variable
	stackSize  int

	script   *value.Script
	function *value.Function
	loop     *loop

	// pendingTarget records an assignment target set by exprName/exprAttrib/
	// exprSubscript, consumed and cleared by exprAssignment. See expr.go.
	pendingTarget assignTarget

	resolver Resolver

	HasErrors bool
}

// Resolver resolves the name an `import` statement names to a declared
// module path. Satisfied by *internal/packages.Resolver; a nil Resolver
// (the default) means compileImport only validates placement, not that the
// name resolves to anything — compiling a lone file with no tessera.mod in
// scope is valid.
type Resolver interface {
	Resolve(name string) (string, error)
}

// Option configures a Compile call. Currently only WithResolver.
type Option func(*Compiler)

// WithResolver attaches r so compileImport validates import names against
// a manifest instead of only checking statement placement.
func WithResolver(r Resolver) Option {
	return func(c *Compiler) { c.resolver = r }
}

// Compile compiles source (from path, used only for diagnostics) into a new
// Script, following compileSource's shape: allocate the script, prime the
// token window, skip leading newlines, then drive the top-level loop until
// EOF. Diagnostics are delivered to reporter as they're found; the bool
// result is true only when no error was reported. The returned Script is
// always non-nil, even when the bool result is false, so a caller can
// inspect partially-compiled output.
func Compile(h *heap.Heap, path, source string, reporter ErrorReporter, opts ...Option) (*value.Script, bool) {
	c := &Compiler{heap: h, path: path, reporter: reporter, scopeDepth: -1}
	for _, opt := range opts {
		opt(c)
	}
	c.scanner = lexer.New(path, source, func(line int, msg string) {
		c.reportError(line, "%s", msg)
	})

	c.script = h.NewScript(path)
	c.function = c.script.Body
	// The in-progress script (and through it every function, literal and
	// name it owns) stays temp-rooted for the whole compile.
	h.PushTempRef(&c.script.Object)
	defer h.PopTempRef()

	for !c.match(lexer.EOF) {
		switch {
		case c.match(lexer.Native):
			c.compileFunction(true)
		case c.match(lexer.Def):
			c.compileFunction(false)
		case c.match(lexer.Import):
			c.compileImport()
		default:
			c.compileStatement()
		}
	}

	return c.script, !(c.HasErrors || c.scanner.HasErrors)
}

// --- token stream helpers, grounded on compiler.c's match/consume/peek ---

func (c *Compiler) peek() lexer.Type     { return c.scanner.Current.Type }
func (c *Compiler) peekNext() lexer.Type { return c.scanner.Next.Type }

// matchLine consumes a run of one or more Line tokens and reports whether it
// consumed any, following matchLine's "skip pending newlines" role in both
// match and consume.
func (c *Compiler) matchLine() bool {
	if c.peek() != lexer.Line {
		return false
	}
	for c.peek() == lexer.Line {
		c.scanner.Advance()
	}
	return true
}

// match skips pending newlines, then consumes and returns true only if the
// current token is t.
func (c *Compiler) match(t lexer.Type) bool {
	c.matchLine()
	if c.peek() != t {
		return false
	}
	c.scanner.Advance()
	return true
}

// consume skips pending newlines and unconditionally advances, reporting a
// parse error if the consumed token wasn't t. On mismatch it also tries to
// resync by consuming one more token if that one is t, following consume's
// cascade-error minimization.
func (c *Compiler) consume(t lexer.Type, errMsg string) {
	c.matchLine()
	c.scanner.Advance()
	if c.scanner.Previous.Type != t {
		c.parseError("%s", errMsg)
		if c.peek() == t {
			c.scanner.Advance()
		}
	}
}

// consumeEndStatement matches a same-line semicolon and/or one or more
// newlines; if neither was present (and we're not at EOF) that's a parse
// error, mirroring consumeEndStatement.
func (c *Compiler) consumeEndStatement() {
	consumed := false
	if c.peek() == lexer.Semicolon {
		c.match(lexer.Semicolon)
		consumed = true
	}
	if c.matchLine() {
		consumed = true
	}
	if !consumed && c.peek() != lexer.EOF {
		c.parseError("Expected statement end with newline or ';'.")
	}
}

// consumeStartBlock matches an optional same-line "do" and/or newlines,
// mirroring consumeStartBlock.
func (c *Compiler) consumeStartBlock() {
	consumed := false
	if c.peek() == lexer.Do {
		c.match(lexer.Do)
		consumed = true
	}
	if c.matchLine() {
		consumed = true
	}
	if !consumed {
		c.parseError("Expected enter block with newline or 'do'.")
	}
}

// --- emission primitives, byte-for-byte grounded on compiler.c's
// emitByte/emitShort/emitOpcode/emitConstant/patchJump ---

// emitByte appends one byte to the current function's opcode stream and a
// parallel line-table entry for the just-consumed token, returning the
// index the byte landed at.
func (c *Compiler) emitByte(b byte) int {
	fn := c.function.Fn
	fn.Opcodes.Write(b)
	fn.OpLines.Write(c.scanner.Previous.Line)
	return fn.Opcodes.Len() - 1
}

// emitShort writes a big-endian 16-bit operand and returns the index of its
// first byte, following emitShort's "return starting index" contract.
func (c *Compiler) emitShort(arg int) int {
	first := c.emitByte(byte((arg >> 8) & 0xff))
	c.emitByte(byte(arg & 0xff))
	return first
}

// emitOpcode writes op's byte and updates the compiler's simulated
// operand-stack depth by its static table delta, tracking the function's
// high-water mark. Do not use this for CALL/NEW_ARRAY/NEW_MAP — their
// delta depends on the operand; use emitVariadicOpcode instead.
func (c *Compiler) emitOpcode(op bytecode.OpCode) {
	c.emitByte(byte(op))
	c.stackSize += bytecode.Info(op).Stack
	if c.stackSize > c.function.Fn.MaxStack {
		c.function.Fn.MaxStack = c.stackSize
	}
}

// emitVariadicOpcode writes op and its operand (sized per the opcode table —
// CALL takes one byte, NEW_ARRAY/NEW_MAP take two), applying an
// explicitly-computed stack delta instead of the opcode table's nominal
// entry — CALL, NEW_ARRAY and NEW_MAP's real effect scales with operand.
func (c *Compiler) emitVariadicOpcode(op bytecode.OpCode, operand, stackDelta int) {
	c.emitByte(byte(op))
	switch bytecode.Info(op).Operand {
	case 1:
		c.emitByte(byte(operand))
	case 2:
		c.emitShort(operand)
	}
	c.stackSize += stackDelta
	if c.stackSize > c.function.Fn.MaxStack {
		c.function.Fn.MaxStack = c.stackSize
	}
}

// emitConstant interns v into the script's literal pool (deduplicating) and
// emits CONSTANT <index>. A pool that has hit its 65536-entry cap is a
// parse error, not a silent truncation.
func (c *Compiler) emitConstant(v value.Value) {
	index, ok := c.script.AddLiteral(v)
	if !ok {
		c.parseError("A script should contain at most %d unique constants.", maxConstants)
		return
	}
	c.emitOpcode(bytecode.OpConstant)
	c.emitShort(index)
}

// patchJump backfills the 2-byte operand at addrIndex with the current
// opcode-stream length, i.e. "jump to here". Overflowing the encodable jump
// range is a fatal assertion in the original source (ASSERT, not a
// recoverable parse error) since it means the compiler itself produced an
// unreachable function; kept fatal here too.
func (c *Compiler) patchJump(addrIndex int) {
	target := c.function.Fn.Opcodes.Len()
	if target >= maxJump {
		panic(errors.WithStack(errors.New("compiler: jump target overflows 16-bit operand")))
	}
	c.function.Fn.Opcodes.Data[addrIndex] = byte((target >> 8) & 0xff)
	c.function.Fn.Opcodes.Data[addrIndex+1] = byte(target & 0xff)
}

// --- variable table & scope, grounded on compilerSearchVariables/
// compilerAddVariable/compilerEnterBlock/compilerExitBlock ---

// searchVariables looks for name among currently visible locals. Unlike
// compilerSearchVariables's forward scan (which returns the first, i.e.
// outermost, match — a transcription bug against the source's own
// shadowing intent, see DESIGN.md), this scans back-to-front so an inner
// block's redeclaration of an outer name correctly shadows it.
func (c *Compiler) searchVariables(name string, scope scopeType) int {
	for i := len(c.variables) - 1; i >= 0; i-- {
		v := c.variables[i]
		if scope == scopeCurrent && v.depth != c.scopeDepth {
			continue
		}
		if v.name == name {
			return i
		}
	}
	return -1
}

// addVariable appends name at the current scope depth, assuming the caller
// has already confirmed it's not a duplicate in the current scope.
func (c *Compiler) addVariable(name string, line int) int {
	if len(c.variables) >= maxVariables {
		c.parseError("Too many local variables in one function (max %d).", maxVariables)
		return -1
	}
	c.variables = append(c.variables, variable{name: name, depth: c.scopeDepth, line: line})
	return len(c.variables) - 1
}

func (c *Compiler) enterBlock() { c.scopeDepth++ }

// exitBlock pops every variable declared at or below the block just exited,
// trimming both the variable table and the simulated stack depth — a
// local's lifetime is exactly its block's, and it costs one stack slot for
// its whole lifetime.
func (c *Compiler) exitBlock() {
	for len(c.variables) > 0 && c.variables[len(c.variables)-1].depth >= c.scopeDepth {
		c.variables = c.variables[:len(c.variables)-1]
		c.stackSize--
	}
	c.scopeDepth--
}

// compileBlockBody compiles statements until END, EOF, or — when ifBody is
// set — ELSE/ELIF, bracketing them in a fresh block scope.
func (c *Compiler) compileBlockBody(ifBody bool) {
	c.enterBlock()
	for {
		c.matchLine()
		next := c.peek()
		if next == lexer.End || next == lexer.EOF {
			break
		}
		if ifBody && (next == lexer.Else || next == lexer.Elif) {
			break
		}
		c.compileStatement()
	}
	c.exitBlock()
}

// compileExpression compiles one full expression, leaving its value on top
// of the stack.
func (c *Compiler) compileExpression() {
	c.parsePrecedence(PrecLowest)
}

// parsePrecedence is the Pratt/precedence-climbing core: consume one token
// and dispatch its prefix rule, then keep consuming infix operators whose
// precedence is at least precedence.
func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.scanner.Advance()
	prefix := getRule(c.scanner.Previous.Type).prefix
	if prefix == nil {
		c.parseError("Expected an expression.")
		return
	}

	canAssign := precedence <= PrecAssignment
	prefix(c, canAssign)

	for getRule(c.peek()).precedence >= precedence {
		c.scanner.Advance()
		infix := getRule(c.scanner.Previous.Type).infix
		infix(c, canAssign)
	}
}

// compileFunction compiles a `native`/`def` declaration: name, parameter
// list, and — unless native — a block body, following compileFunction.
func (c *Compiler) compileFunction(isNative bool) {
	c.consume(lexer.Name, "Expected a function name.")
	name := c.scanner.Previous.Text

	fn := c.heap.NewFunction(name, c.script, isNative)
	c.function = fn

	c.consume(lexer.LParen, "Expected '(' after function name.")
	c.scopeDepth++ // parameter scope
	arity := 0

	for c.match(lexer.Name) {
		pname := c.scanner.Previous.Text
		if c.searchVariables(pname, scopeCurrent) != -1 {
			c.parseError("Multiple definition of a parameter")
		} else {
			c.addVariable(pname, c.scanner.Previous.Line)
			arity++
		}
		c.match(lexer.Comma)
	}
	fn.Arity = arity

	c.consume(lexer.RParen, "Expected ')' after parameters end.")
	c.consumeEndStatement()

	if isNative {
		c.scopeDepth--
		for len(c.variables) > 0 && c.variables[len(c.variables)-1].depth >= c.scopeDepth+1 {
			c.variables = c.variables[:len(c.variables)-1]
		}
		c.function = c.script.Body
		return
	}

	c.compileBlockBody(false)
	c.consume(lexer.End, "Expected 'end' after function body.")

	// Parameter scope was entered by hand above (not via enterBlock/
	// exitBlock), so unwind any leftover parameter entries here.
	for len(c.variables) > 0 && c.variables[len(c.variables)-1].depth >= c.scopeDepth {
		c.variables = c.variables[:len(c.variables)-1]
	}
	c.scopeDepth--
	c.stackSize = 0
	c.function = c.script.Body
}

// compileImport enforces "import must be the first statement of the file",
// resolving the C source's own "TODO: import statement must be first of
// all other" into an implemented check (DESIGN.md Open Question
// resolution). When a Resolver is attached (internal/packages.Resolver,
// backed by a parsed tessera.mod), a bare module name is also validated
// against it; loading the resolved path's source is still the embedder's
// job, so a quoted path string — which names source directly rather than
// a manifest entry — is never run through it.
func (c *Compiler) compileImport() {
	if len(c.script.Body.Fn.Opcodes.Data) != 0 || len(c.script.Functions) != 1 {
		c.parseError("'import' must be the first statement of the file.")
	}
	if c.peek() == lexer.String {
		c.scanner.Advance()
	} else {
		c.consume(lexer.Name, "Expected a module name or path string.")
		if c.resolver != nil {
			if _, err := c.resolver.Resolve(c.scanner.Previous.Text); err != nil {
				c.parseError("%s", err)
			}
		}
	}
	c.consumeEndStatement()
}
