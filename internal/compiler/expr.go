package compiler

import (
	"tessera/internal/bytecode"
	"tessera/internal/lexer"
	"tessera/internal/value"
)

// targetKind classifies what an assignment's left-hand side resolved to.
// exprName/exprAttrib/exprSubscript record one of these in pendingTarget
// instead of emitting a load whenever they see an assignment operator
// ahead and canAssign is set; exprAssignment (the grammar table's infix for
// every assignment operator) reads and clears it.
type targetKind int

const (
	targetNone targetKind = iota
	targetLocal
	targetGlobal
	targetAttr
	targetIndex
	targetNewLocal
	targetNewGlobal
)

type assignTarget struct {
	kind  targetKind
	index int    // local slot, or Names/GlobalNames index for attr/global
	name  string // only set for targetNewLocal/targetNewGlobal
}

func isAssignOp(t lexer.Type) bool {
	switch t {
	case lexer.Eq, lexer.PlusEq, lexer.MinusEq, lexer.StarEq, lexer.DivEq:
		return true
	}
	return false
}

// exprLiteral pushes a constant for NUMBER, STRING, true, false, null, and
// the type-name keywords (Bool, Num, String, Array, Map, Range, Function,
// Object). Grounded on compiler.c's exprLiteral (`compilerAddConstant` +
// CONSTANT); NUMBER/STRING reuse the Value the lexer already boxed onto the
// token. The type-name keywords are a documented gap in the retrieved
// grammar table (see DESIGN.md): wired to exprLiteral there but never given
// a literal Value by the lexer, so one is interned here instead — the type
// name itself, as a string, for use with the `is` operator.
func exprLiteral(c *Compiler, canAssign bool) {
	tok := c.scanner.Previous
	switch tok.Type {
	case lexer.Number, lexer.String:
		c.emitConstant(tok.Literal)
	case lexer.True:
		c.emitConstant(value.True)
	case lexer.False:
		c.emitConstant(value.False)
	case lexer.Null:
		c.emitConstant(value.Nil)
	default:
		str := c.heap.NewString(tok.Text)
		c.emitConstant(value.Ptr(&str.Object))
	}
}

// exprGrouping compiles a parenthesized expression; it exists purely to
// override precedence, emitting nothing itself.
func exprGrouping(c *Compiler, canAssign bool) {
	c.compileExpression()
	c.consume(lexer.RParen, "Expected ')' after expression.")
}

// exprUnaryOp compiles `~`, unary `-`, and `not`. Grounded on
// compiler.c's exprUnaryOp: parse the operand at PREC_UNARY+1 (so unary
// binds tighter than any binary operator including another prefix unary
// stacked on top) then emit the matching opcode.
func exprUnaryOp(c *Compiler, canAssign bool) {
	op := c.scanner.Previous.Type
	c.parsePrecedence(PrecUnary + 1)
	switch op {
	case lexer.Tilde:
		c.emitOpcode(bytecode.OpBitNot)
	case lexer.Minus:
		c.emitOpcode(bytecode.OpNegate)
	case lexer.Not:
		c.emitOpcode(bytecode.OpNot)
	}
}

// exprBinaryOp compiles every plain binary operator. Grounded on
// compiler.c's exprBinaryOp: parse the right operand one precedence level
// above the operator's own (left-associative), then emit the matching
// opcode — the left operand is already on the stack, having been compiled
// either as the prefix or by an earlier iteration of parsePrecedence's loop.
func exprBinaryOp(c *Compiler, canAssign bool) {
	op := c.scanner.Previous.Type
	rule := getRule(op)
	c.parsePrecedence(rule.precedence + 1)

	switch op {
	case lexer.DotDot:
		c.emitOpcode(bytecode.OpRange)
	case lexer.Percent:
		c.emitOpcode(bytecode.OpMod)
	case lexer.Amp:
		c.emitOpcode(bytecode.OpBitAnd)
	case lexer.Pipe:
		c.emitOpcode(bytecode.OpBitOr)
	case lexer.Caret:
		c.emitOpcode(bytecode.OpBitXor)
	case lexer.Plus:
		c.emitOpcode(bytecode.OpAdd)
	case lexer.Minus:
		c.emitOpcode(bytecode.OpSub)
	case lexer.Star:
		c.emitOpcode(bytecode.OpMul)
	case lexer.FSlash:
		c.emitOpcode(bytecode.OpDiv)
	case lexer.Gt:
		c.emitOpcode(bytecode.OpGt)
	case lexer.Lt:
		c.emitOpcode(bytecode.OpLt)
	case lexer.EqEq:
		c.emitOpcode(bytecode.OpEqEq)
	case lexer.NotEq:
		c.emitOpcode(bytecode.OpNotEq)
	case lexer.GtEq:
		c.emitOpcode(bytecode.OpGtEq)
	case lexer.LtEq:
		c.emitOpcode(bytecode.OpLtEq)
	case lexer.SRight:
		c.emitOpcode(bytecode.OpBitRShift)
	case lexer.SLeft:
		c.emitOpcode(bytecode.OpBitLShift)
	case lexer.Is:
		c.emitOpcode(bytecode.OpIs)
	case lexer.In:
		c.emitOpcode(bytecode.OpIn)
	case lexer.And:
		c.emitOpcode(bytecode.OpAnd)
	case lexer.Or:
		c.emitOpcode(bytecode.OpOr)
	}
}

// exprArray compiles `[a, b, c]`: each element left-to-right, then
// NEW_ARRAY <n>. An open question resolution (DESIGN.md): one variadic
// opcode rather than N individual SET_INDEX calls.
func exprArray(c *Compiler, canAssign bool) {
	count := 0
	c.matchLine()
	for c.peek() != lexer.RBracket && c.peek() != lexer.EOF {
		c.compileExpression()
		count++
		c.matchLine()
		if !c.match(lexer.Comma) {
			break
		}
		c.matchLine()
	}
	c.consume(lexer.RBracket, "Expected ']' after array elements.")
	c.emitVariadicOpcode(bytecode.OpNewArray, count, 1-count)
}

// exprMap compiles `{k: v, ...}`: each key/value pair left-to-right, then
// NEW_MAP <n>.
func exprMap(c *Compiler, canAssign bool) {
	count := 0
	c.matchLine()
	for c.peek() != lexer.RBrace && c.peek() != lexer.EOF {
		c.compileExpression()
		c.consume(lexer.Colon, "Expected ':' after map key.")
		c.compileExpression()
		count++
		c.matchLine()
		if !c.match(lexer.Comma) {
			break
		}
		c.matchLine()
	}
	c.consume(lexer.RBrace, "Expected '}' after map elements.")
	c.emitVariadicOpcode(bytecode.OpNewMap, count, 1-2*count)
}

// exprCall compiles the argument list of a call. The callee is already on
// the stack — it was compiled as the prefix expression before this infix
// rule fired, a structural requirement of single-pass Pratt compilation
// that an AST-walking compiler (free to compile args before the callee)
// doesn't share; see DESIGN.md. Args are compiled left-to-right, then
// CALL <argc> pops the callee and every argument and pushes one return
// value.
func exprCall(c *Compiler, canAssign bool) {
	argc := 0
	if c.peek() != lexer.RParen {
		c.compileExpression()
		argc++
		for c.match(lexer.Comma) {
			c.compileExpression()
			argc++
		}
	}
	c.consume(lexer.RParen, "Expected ')' after arguments.")
	if argc > 0xff {
		c.parseError("Too many arguments in call (max 255).")
		argc = 0xff
	}
	c.emitVariadicOpcode(bytecode.OpCall, argc, -argc)
}

// exprAttrib compiles `.name`, the DOT infix rule. The receiver is already
// on the stack. When canAssign and an assignment operator follows, it
// defers to exprAssignment instead of loading: receiver stays on the
// stack as SET_ATTR's base, and only the interned name index is recorded.
func exprAttrib(c *Compiler, canAssign bool) {
	c.consume(lexer.Name, "Expected attribute name after '.'.")
	nameIdx := c.script.Names.Add(c.scanner.Previous.Text)

	if canAssign && isAssignOp(c.peek()) {
		if c.peek() != lexer.Eq {
			c.parseError("Compound assignment to an attribute is not supported.")
		}
		c.pendingTarget = assignTarget{kind: targetAttr, index: nameIdx}
		return
	}
	c.emitOpcode(bytecode.OpGetAttr)
	c.emitShort(nameIdx)
}

// exprSubscript compiles `[index]`, the LBRACKET infix rule. The receiver
// is already on the stack; the index expression is compiled here. Deferred
// to exprAssignment the same way exprAttrib is.
func exprSubscript(c *Compiler, canAssign bool) {
	c.compileExpression()
	c.consume(lexer.RBracket, "Expected ']' after index.")

	if canAssign && isAssignOp(c.peek()) {
		if c.peek() != lexer.Eq {
			c.parseError("Compound assignment to a subscript is not supported.")
		}
		c.pendingTarget = assignTarget{kind: targetIndex}
		return
	}
	c.emitOpcode(bytecode.OpGetIndex)
}

// exprName resolves a bare identifier: local, then script global, then —
// if neither exists and it's immediately followed by a plain '=' — an
// implicit declaration (a new local inside a function/block, a new global
// at top level). Any other undeclared reference is a compile error.
// Grounded on DESIGN.md's recorded resolution for the stubbed exprName.
// Only locals and this script's globals are searched; the globals of
// imported scripts are not.
func exprName(c *Compiler, canAssign bool) {
	name := c.scanner.Previous.Text

	if idx := c.searchVariables(name, scopeAny); idx != -1 {
		c.compileNameTarget(targetLocal, idx, canAssign)
		return
	}
	if idx := c.script.GlobalNames.Find(name); idx != -1 {
		c.compileNameTarget(targetGlobal, idx, canAssign)
		return
	}
	if canAssign && c.peek() == lexer.Eq {
		if c.scopeDepth >= 0 {
			c.pendingTarget = assignTarget{kind: targetNewLocal, name: name}
		} else {
			c.pendingTarget = assignTarget{kind: targetNewGlobal, name: name}
		}
		return
	}
	c.parseError("Name '%s' is not defined.", name)
}

// compileNameTarget handles an already-resolved local or global: a plain
// '=' ahead defers to exprAssignment without loading (nothing needs to be
// on the stack yet); a compound-assign operator loads the current value
// first (the desugared binary op needs it) and still defers the store;
// otherwise it's a plain read.
func (c *Compiler) compileNameTarget(kind targetKind, idx int, canAssign bool) {
	if canAssign && isAssignOp(c.peek()) {
		if c.peek() != lexer.Eq {
			c.emitLoad(kind, idx)
		}
		c.pendingTarget = assignTarget{kind: kind, index: idx}
		return
	}
	c.emitLoad(kind, idx)
}

func (c *Compiler) emitLoad(kind targetKind, idx int) {
	switch kind {
	case targetLocal:
		c.emitOpcode(bytecode.OpGetLocal)
		c.emitByte(byte(idx))
	case targetGlobal:
		c.emitOpcode(bytecode.OpGetGlobal)
		c.emitShort(idx)
	}
}

// exprAssignment is the infix rule for '=' and the four compound-assign
// operators. Plain '=' just compiles the RHS (right-associatively, so
// `a = b = c` parses as `a = (b = c)`) and stores it; compound assignment
// desugars to `<load>, <rhs>, <binary op>, <store>`, restricted to
// local/global targets: compound assignment to an attribute or subscript
// would need to duplicate the receiver (and index) on the stack to
// read-then-write without re-evaluating it, which needs a DUP opcode this
// instruction set doesn't have — see DESIGN.md's Open Question resolution
// on compound assignment scope — so this core supports compound
// assignment on names only.
func exprAssignment(c *Compiler, canAssign bool) {
	op := c.scanner.Previous.Type
	target := c.pendingTarget
	c.pendingTarget = assignTarget{}

	if target.kind == targetNone {
		c.parseError("Invalid assignment target.")
		c.parsePrecedence(PrecAssignment)
		return
	}

	c.parsePrecedence(PrecAssignment)

	if op != lexer.Eq {
		switch op {
		case lexer.PlusEq:
			c.emitOpcode(bytecode.OpAdd)
		case lexer.MinusEq:
			c.emitOpcode(bytecode.OpSub)
		case lexer.StarEq:
			c.emitOpcode(bytecode.OpMul)
		case lexer.DivEq:
			c.emitOpcode(bytecode.OpDiv)
		}
	}

	switch target.kind {
	case targetLocal:
		c.emitOpcode(bytecode.OpSetLocal)
		c.emitByte(byte(target.index))
	case targetGlobal:
		c.emitOpcode(bytecode.OpSetGlobal)
		c.emitShort(target.index)
	case targetAttr:
		c.emitOpcode(bytecode.OpSetAttr)
		c.emitShort(target.index)
	case targetIndex:
		c.emitOpcode(bytecode.OpSetIndex)
	case targetNewLocal:
		c.addVariable(target.name, c.scanner.Previous.Line)
	case targetNewGlobal:
		idx := c.script.GlobalNames.Add(target.name)
		c.script.Globals.Write(value.Nil)
		c.emitOpcode(bytecode.OpSetGlobal)
		c.emitShort(idx)
	}
}
