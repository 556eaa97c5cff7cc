package compiler

import "tessera/internal/lexer"

// grammarFn is a prefix or infix parselet: it consumes whatever tokens its
// rule owns and emits the corresponding bytecode. canAssign is true only
// when the enclosing parsePrecedence call started at PrecAssignment or
// looser, following parsePrecedence's `can_assign = precedence <= PREC_ASSIGNMENT`.
type grammarFn func(c *Compiler, canAssign bool)

// grammarRule is one row of the fixed table keyed by token type: its prefix
// parselet (nil if the token can't start an expression), its infix parselet
// (nil if it never follows one), and the infix precedence used to decide
// whether parsePrecedence's loop keeps consuming it.
type grammarRule struct {
	prefix     grammarFn
	infix      grammarFn
	precedence Precedence
}

// rules is the static grammar table, transcribed row-for-row from
// compiler.c's `GrammarRule rules[]`. Token types with no entry default to
// the zero grammarRule (no prefix, no infix, PrecNone) — compiler.c's
// NO_RULE macro. TK_NULL is a documented exception: the retrieved source
// leaves it NO_RULE despite `true`/`false` both being wired to exprLiteral,
// which would make the `null` keyword fail to parse as an expression at
// all. Treated as a transcription gap (see DESIGN.md) and given the same
// exprLiteral prefix as the other literal keywords here.
var rules map[lexer.Type]grammarRule

func init() {
	rules = map[lexer.Type]grammarRule{
		lexer.Dot:    {nil, exprAttrib, PrecAttrib},
		lexer.DotDot: {nil, exprBinaryOp, PrecRange},

		lexer.LParen:   {exprGrouping, exprCall, PrecCall},
		lexer.LBracket: {exprArray, exprSubscript, PrecSubscript},
		lexer.LBrace:   {exprMap, nil, PrecNone},

		lexer.Percent: {nil, exprBinaryOp, PrecFactor},
		lexer.Tilde:   {exprUnaryOp, nil, PrecNone},
		lexer.Amp:     {nil, exprBinaryOp, PrecBitwiseAnd},
		lexer.Pipe:    {nil, exprBinaryOp, PrecBitwiseOr},
		lexer.Caret:   {nil, exprBinaryOp, PrecBitwiseXor},

		lexer.Plus:   {nil, exprBinaryOp, PrecTerm},
		lexer.Minus:  {exprUnaryOp, exprBinaryOp, PrecTerm},
		lexer.Star:   {nil, exprBinaryOp, PrecFactor},
		lexer.FSlash: {nil, exprBinaryOp, PrecFactor},

		lexer.Eq:    {nil, exprAssignment, PrecAssignment},
		lexer.Gt:    {nil, exprBinaryOp, PrecComparison},
		lexer.Lt:    {nil, exprBinaryOp, PrecComparison},
		lexer.EqEq:  {nil, exprBinaryOp, PrecEquality},
		lexer.NotEq: {nil, exprBinaryOp, PrecEquality},
		lexer.GtEq:  {nil, exprBinaryOp, PrecComparison},
		lexer.LtEq:  {nil, exprBinaryOp, PrecComparison},

		lexer.PlusEq:  {nil, exprAssignment, PrecAssignment},
		lexer.MinusEq: {nil, exprAssignment, PrecAssignment},
		lexer.StarEq:  {nil, exprAssignment, PrecAssignment},
		lexer.DivEq:   {nil, exprAssignment, PrecAssignment},
		lexer.SRight:  {nil, exprBinaryOp, PrecBitwiseShift},
		lexer.SLeft:   {nil, exprBinaryOp, PrecBitwiseShift},

		lexer.Is:  {nil, exprBinaryOp, PrecIs},
		lexer.In:  {nil, exprBinaryOp, PrecIn},
		lexer.And: {nil, exprBinaryOp, PrecLogicalAnd},
		lexer.Or:  {nil, exprBinaryOp, PrecLogicalOr},
		lexer.Not: {exprUnaryOp, nil, PrecNone},

		lexer.True:  {exprLiteral, nil, PrecNone},
		lexer.False: {exprLiteral, nil, PrecNone},
		lexer.Null:  {exprLiteral, nil, PrecNone},

		lexer.BoolT:   {exprLiteral, nil, PrecNone},
		lexer.NumT:    {exprLiteral, nil, PrecNone},
		lexer.StringT: {exprLiteral, nil, PrecNone},
		lexer.ArrayT:  {exprLiteral, nil, PrecNone},
		lexer.MapT:    {exprLiteral, nil, PrecNone},
		lexer.RangeT:  {exprLiteral, nil, PrecNone},
		lexer.FuncT:   {exprLiteral, nil, PrecNone},
		lexer.ObjT:    {exprLiteral, nil, PrecNone},

		lexer.Name:   {exprName, nil, PrecNone},
		lexer.Number: {exprLiteral, nil, PrecNone},
		lexer.String: {exprLiteral, nil, PrecNone},
	}
}

func getRule(t lexer.Type) grammarRule { return rules[t] }
