package compiler

import (
	"fmt"

	"tessera/internal/lexer"
)

// CompileError is one reported diagnostic: a source location plus message.
// Grounded on compiler.c's reportError(file, line, fmt, args).
type CompileError struct {
	Path    string
	Line    int
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
}

// ErrorReporter receives every compile error as it is found. Compilation
// keeps going after every reported error, including constant pool overflow,
// so a single pass can surface more than one diagnostic; only a jump target
// that overflows its 16-bit operand is fatal (a panic, not a report).
type ErrorReporter func(CompileError)

func (c *Compiler) reportError(line int, format string, args ...interface{}) {
	c.HasErrors = true
	msg := fmt.Sprintf(format, args...)
	if c.reporter != nil {
		c.reporter(CompileError{Path: c.path, Line: line, Message: msg})
	}
}

// parseError reports against the just-consumed token (Previous), following
// parseError's "the associated token is assumed to be the last consumed"
// contract. A TK_ERROR previous token means the lexer already reported this
// same failure, so parseError is a no-op — the lexer's cascade suppression.
func (c *Compiler) parseError(format string, args ...interface{}) {
	if c.scanner.Previous.Type == lexer.Error {
		return
	}
	c.reportError(c.scanner.Previous.Line, format, args...)
}
