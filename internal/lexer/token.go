// Package lexer turns tessera source text into a token stream. Grounded on
// original_source/src/compiler.c's lexer section (TokenType enum, keyword
// table, lexToken and its eat*/match* helpers).
package lexer

import "tessera/internal/value"

// Type is the closed set of token kinds the lexer produces.
type Type int

const (
	Error Type = iota
	EOF
	Line

	Dot
	DotDot
	Comma
	Colon
	Semicolon
	Hash
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Percent

	Tilde
	Amp
	Pipe
	Caret

	Plus
	Minus
	Star
	FSlash

	Eq
	Gt
	Lt

	EqEq
	NotEq
	GtEq
	LtEq

	PlusEq
	MinusEq
	StarEq
	DivEq
	SRight
	SLeft

	Import
	Enum
	Def
	Native
	End

	Null
	Self
	Is
	In
	And
	Or
	Not
	True
	False

	BoolT
	NumT
	StringT
	ArrayT
	MapT
	RangeT
	FuncT
	ObjT

	Do
	While
	For
	If
	Elif
	Else
	Break
	Continue
	Return

	Name
	Number
	String
)

var typeNames = map[Type]string{
	Error: "error", EOF: "eof", Line: "line",
	Dot: ".", DotDot: "..", Comma: ",", Colon: ":", Semicolon: ";", Hash: "#",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Percent: "%", Tilde: "~", Amp: "&", Pipe: "|", Caret: "^",
	Plus: "+", Minus: "-", Star: "*", FSlash: "/",
	Eq: "=", Gt: ">", Lt: "<",
	EqEq: "==", NotEq: "!=", GtEq: ">=", LtEq: "<=",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", DivEq: "/=", SRight: ">>", SLeft: "<<",
	Import: "import", Enum: "enum", Def: "def", Native: "native", End: "end",
	Null: "null", Self: "self", Is: "is", In: "in", And: "and", Or: "or", Not: "not",
	True: "true", False: "false",
	BoolT: "Bool", NumT: "Num", StringT: "String", ArrayT: "Array", MapT: "Map",
	RangeT: "Range", FuncT: "Function", ObjT: "Object",
	Do: "do", While: "while", For: "for", If: "if", Elif: "elif", Else: "else",
	Break: "break", Continue: "continue", Return: "return",
	Name: "name", Number: "number", String: "string",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "?"
}

// keywords mirrors compiler.c's _keywords table, an ordered linear-search
// list rather than a map — kept that way here too since it is the exact
// table the source defines, not a performance-sensitive path.
var keywords = []struct {
	text string
	typ  Type
}{
	{"import", Import}, {"enum", Enum}, {"def", Def}, {"native", Native}, {"end", End},
	{"null", Null}, {"self", Self}, {"is", Is}, {"in", In},
	{"and", And}, {"or", Or}, {"not", Not}, {"true", True}, {"false", False},
	{"do", Do}, {"while", While}, {"for", For}, {"if", If}, {"elif", Elif}, {"else", Else},
	{"break", Break}, {"continue", Continue}, {"return", Return},
	{"Bool", BoolT}, {"Num", NumT}, {"String", StringT}, {"Array", ArrayT},
	{"Map", MapT}, {"Range", RangeT}, {"Object", ObjT}, {"Function", FuncT},
}

func keywordType(name string) Type {
	for _, kw := range keywords {
		if kw.text == name {
			return kw.typ
		}
	}
	return Name
}

// Token is one lexed unit: its type, the exact source slice it spans, a
// 1-based line number, and — for NUMBER and STRING — the literal Value the
// parser will intern directly into the script's constant pool.
type Token struct {
	Type    Type
	Text    string
	Line    int
	Literal value.Value
}
