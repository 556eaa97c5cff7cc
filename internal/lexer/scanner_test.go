package lexer

import "testing"

func scanAll(t *testing.T, src string) ([]Token, bool) {
	var errs []string
	s := New("<test>", src, func(line int, msg string) {
		errs = append(errs, msg)
	})
	var toks []Token
	for {
		toks = append(toks, s.Current)
		if s.Current.Type == EOF {
			break
		}
		s.Advance()
	}
	return toks, len(errs) > 0
}

func types(toks []Token) []Type {
	out := make([]Type, len(toks))
	for i, tk := range toks {
		out[i] = tk.Type
	}
	return out
}

func TestTwoCharDisambiguation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Type
	}{
		{"dot", ".", []Type{Dot, EOF}},
		{"dotdot", "..", []Type{DotDot, EOF}},
		{"eq", "=", []Type{Eq, EOF}},
		{"eqeq", "==", []Type{EqEq, EOF}},
		{"not", "!", []Type{Not, EOF}},
		{"noteq", "!=", []Type{NotEq, EOF}},
		{"gt", ">", []Type{Gt, EOF}},
		{"gteq", ">=", []Type{GtEq, EOF}},
		{"sright", ">>", []Type{SRight, EOF}},
		{"lt", "<", []Type{Lt, EOF}},
		{"lteq", "<=", []Type{LtEq, EOF}},
		{"sleft", "<<", []Type{SLeft, EOF}},
		{"pluseq", "+=", []Type{PlusEq, EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, hadErr := scanAll(t, tt.src)
			if hadErr {
				t.Fatalf("unexpected lex error for %q", tt.src)
			}
			got := types(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("%q: got %v, want %v", tt.src, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("%q: got %v, want %v", tt.src, got, tt.want)
				}
			}
		})
	}
}

func TestKeywordVsName(t *testing.T) {
	toks, _ := scanAll(t, "def whilex")
	if toks[0].Type != Def {
		t.Fatalf("expected Def, got %v", toks[0].Type)
	}
	if toks[1].Type != Name {
		t.Fatalf("expected Name for whilex (not While), got %v", toks[1].Type)
	}
}

func TestStringEscape(t *testing.T) {
	toks, hadErr := scanAll(t, `"a\nb"`)
	if hadErr {
		t.Fatalf("unexpected lex error")
	}
	if toks[0].Type != String {
		t.Fatalf("expected String token, got %v", toks[0].Type)
	}
	s := toks[0].Literal
	if !s.IsObj() {
		t.Fatalf("string literal is not boxed as an object")
	}
}

func TestUnterminatedStringIsLexErrorButKeepsScanningToEOF(t *testing.T) {
	toks, hadErr := scanAll(t, `"abc`)
	if !hadErr {
		t.Fatalf("expected a lex error for an unterminated string")
	}
	if toks[len(toks)-1].Type != EOF {
		t.Fatalf("expected scanning to reach EOF, last token was %v", toks[len(toks)-1].Type)
	}
}

func TestLineCommentSkipped(t *testing.T) {
	toks, hadErr := scanAll(t, "1 # comment\n2")
	if hadErr {
		t.Fatalf("unexpected lex error")
	}
	got := types(toks)
	want := []Type{Number, Line, Number, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNumberLiteral(t *testing.T) {
	toks, hadErr := scanAll(t, "123.45")
	if hadErr {
		t.Fatalf("unexpected lex error")
	}
	if toks[0].Type != Number {
		t.Fatalf("expected Number token")
	}
	if got := toks[0].Literal.AsNumber(); got != 123.45 {
		t.Fatalf("got %v, want 123.45", got)
	}
}

func TestBOMIsSkipped(t *testing.T) {
	toks, hadErr := scanAll(t, "\xEF\xBB\xBF123")
	if hadErr {
		t.Fatalf("unexpected lex error")
	}
	if toks[0].Type != Number {
		t.Fatalf("expected Number as first token after BOM, got %v", toks[0].Type)
	}
}

func TestStickyEOF(t *testing.T) {
	s := New("<test>", "1", nil)
	for i := 0; i < 3; i++ {
		s.Advance()
	}
	if s.Current.Type != EOF {
		t.Fatalf("expected sticky EOF, got %v", s.Current.Type)
	}
}
