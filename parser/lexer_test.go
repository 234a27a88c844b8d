package parser

import "testing"

func TestLexerNumericLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hex", "x3000", "x3000"},
		{"hex upper", "X3000", "X3000"},
		{"decimal hash", "#10", "#10"},
		{"decimal hash negative", "#-5", "#-5"},
		{"bare decimal", "10", "10"},
		{"bare negative decimal", "-5", "-5"},
		{"binary", "b1010", "b1010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input, "test.asm")
			tok := lexer.NextToken()
			if tok.Type != TokenNumber {
				t.Fatalf("got token type %s, want NUMBER", tok.Type)
			}
			if tok.Literal != tt.want {
				t.Errorf("got literal %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestLexerRegisterVsIdentifier(t *testing.T) {
	lexer := NewLexer("R3 R8 RESULT", "test.asm")

	tok := lexer.NextToken()
	if tok.Type != TokenRegister || tok.Literal != "R3" {
		t.Errorf("R3: got %s %q, want REGISTER R3", tok.Type, tok.Literal)
	}

	tok = lexer.NextToken()
	if tok.Type != TokenIdentifier || tok.Literal != "R8" {
		t.Errorf("R8: got %s %q, want IDENTIFIER R8 (out of register range)", tok.Type, tok.Literal)
	}

	tok = lexer.NextToken()
	if tok.Type != TokenIdentifier || tok.Literal != "RESULT" {
		t.Errorf("RESULT: got %s %q, want IDENTIFIER RESULT", tok.Type, tok.Literal)
	}
}

func TestLexerDirectiveToken(t *testing.T) {
	lexer := NewLexer(".ORIG x3000", "test.asm")
	tok := lexer.NextToken()
	if tok.Type != TokenIdentifier || tok.Literal != ".ORIG" {
		t.Errorf("got %s %q, want IDENTIFIER .ORIG", tok.Type, tok.Literal)
	}
}

func TestLexerStringLiteral(t *testing.T) {
	lexer := NewLexer(`"hello\nworld"`, "test.asm")
	tok := lexer.NextToken()
	if tok.Type != TokenString {
		t.Fatalf("got token type %s, want STRING", tok.Type)
	}
	if tok.Literal != `hello\nworld` {
		t.Errorf("got literal %q, want %q", tok.Literal, `hello\nworld`)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	lexer := NewLexer(`"unterminated`, "test.asm")
	lexer.NextToken()
	if !lexer.Errors().HasErrors() {
		t.Error("expected an unterminated-string error")
	}
}

func TestLexerCommentToEndOfLine(t *testing.T) {
	lexer := NewLexer("ADD R0, R1, R2 ; add them up\nHALT", "test.asm")
	toks := lexer.Tokenize()

	sawComment := false
	for _, tok := range toks {
		if tok.Type == TokenComment {
			sawComment = true
			if tok.Literal != " add them up" {
				t.Errorf("comment literal = %q", tok.Literal)
			}
		}
	}
	if !sawComment {
		t.Error("expected a COMMENT token")
	}
}

func TestLexerLineAndColumnTracking(t *testing.T) {
	lexer := NewLexer("ADD\nAND", "test.asm")
	first := lexer.NextToken()
	if first.Pos.Line != 1 {
		t.Errorf("first token line = %d, want 1", first.Pos.Line)
	}
	lexer.NextToken() // newline
	second := lexer.NextToken()
	if second.Pos.Line != 2 {
		t.Errorf("second token line = %d, want 2", second.Pos.Line)
	}
}
