package compiler

import (
	"tessera/internal/bytecode"
	"tessera/internal/lexer"
)

// compileStatement dispatches one statement. Grounded on compiler.c's
// compileStatement; the trailing "else" branch — a bare expression whose
// value nobody wants — pops it, since every statement leaves the operand
// stack exactly as deep as it found it.
func (c *Compiler) compileStatement() {
	switch {
	case c.match(lexer.Break):
		c.compileBreak()
	case c.match(lexer.Continue):
		c.compileContinue()
	case c.match(lexer.Return):
		c.compileReturn()
	case c.match(lexer.If):
		c.compileIfStatement()
	case c.match(lexer.While):
		c.compileWhileStatement()
	case c.match(lexer.For):
		c.compileForStatement()
	default:
		c.compileExpression()
		c.emitOpcode(bytecode.OpPop)
		c.consumeEndStatement()
	}
}

// compileBreak emits an unpatched JUMP and records its operand's index on
// the innermost loop, patched once that loop's body is fully compiled.
func (c *Compiler) compileBreak() {
	if c.loop == nil {
		c.parseError("Cannot use 'break' outside a loop.")
		return
	}
	c.emitOpcode(bytecode.OpJump)
	patch := c.emitShort(0xffff)
	c.loop.patches = append(c.loop.patches, patch)
	c.consumeEndStatement()
}

// compileContinue emits a JUMP straight back to the loop's condition.
func (c *Compiler) compileContinue() {
	if c.loop == nil {
		c.parseError("Cannot use 'continue' outside a loop.")
		return
	}
	c.emitOpcode(bytecode.OpJump)
	c.emitShort(c.loop.start)
	c.consumeEndStatement()
}

// compileReturn compiles `return` and `return <expr>`; a bare return (end
// of statement immediately follows) returns null.
func (c *Compiler) compileReturn() {
	if c.scopeDepth == -1 {
		c.parseError("Invalid 'return' outside a function.")
		return
	}
	if c.peek() == lexer.Semicolon || c.peek() == lexer.Line || c.peek() == lexer.EOF {
		c.emitOpcode(bytecode.OpPushNull)
	} else {
		c.compileExpression()
	}
	c.emitOpcode(bytecode.OpReturn)
	c.consumeEndStatement()
}

// compileIfStatement compiles condition, JUMP_IF_NOT past the then-body,
// then an optional elif/else chain. Grounded on compileIfStatement; elif is
// just a fresh compileBlockBody reached after patching the previous
// condition's jump, so an elif chain of any length falls out for free.
func (c *Compiler) compileIfStatement() {
	c.compileExpression()
	c.emitOpcode(bytecode.OpJumpIfNot)
	ifPatch := c.emitShort(0xffff)

	c.consumeStartBlock()
	c.compileBlockBody(true)

	switch {
	case c.match(lexer.Elif):
		c.patchJump(ifPatch)
		c.compileIfStatement()
	case c.match(lexer.Else):
		c.patchJump(ifPatch)
		c.consumeStartBlock()
		c.compileBlockBody(false)
		c.consume(lexer.End, "Expected 'end' after 'else' body.")
	default:
		c.patchJump(ifPatch)
		c.consume(lexer.End, "Expected 'end' after 'if' body.")
	}
}

// compileWhileStatement pushes a fresh loop frame (so nested break/continue
// resolve to the innermost loop, restored on exit), compiles condition and
// body, jumps back to the condition, then patches the exit jump and every
// break recorded against this loop. Grounded on compileWhileStatement.
func (c *Compiler) compileWhileStatement() {
	l := &loop{start: c.function.Fn.Opcodes.Len(), outerLoop: c.loop}
	c.loop = l

	c.compileExpression()
	c.emitOpcode(bytecode.OpJumpIfNot)
	exitPatch := c.emitShort(0xffff)

	c.consumeStartBlock()
	c.compileBlockBody(false)
	c.consume(lexer.End, "Expected 'end' after 'while' body.")

	c.emitOpcode(bytecode.OpJump)
	c.emitShort(l.start)

	c.patchJump(exitPatch)
	for _, patch := range l.patches {
		c.patchJump(patch)
	}

	c.loop = l.outerLoop
}

// compileForStatement is left unimplemented: the source itself stubs
// compileForStatement with ASSERT(false, "TODO:"), and no replacement
// semantics for iterating a range/array/map by `for` are carried forward
// here. Reporting a clear parse error is better than silently misparsing
// the loop header.
func (c *Compiler) compileForStatement() {
	c.parseError("'for' loops are not yet supported.")
}
