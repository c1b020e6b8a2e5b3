package lexer

import "testing"

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func TestScanImportStmt(t *testing.T) {
	tokens := Scan([]byte("import mod1.sub\n"))
	got := tokenTypes(tokens)
	want := []TokenType{KwImport, Identifier, Dot, Identifier, Newline, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v tokens, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestScanFromImportWithAlias(t *testing.T) {
	tokens := Scan([]byte("from mod1 import test as t, y\n"))
	got := tokenTypes(tokens)
	want := []TokenType{
		KwFrom, Identifier, KwImport, Identifier, KwAs, Identifier, Comma, Identifier,
		Newline, EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScanIndentDedent(t *testing.T) {
	src := "def test():\n    return 1\nx = 1\n"
	tokens := Scan([]byte(src))
	var sawIndent, sawDedent bool
	for _, tok := range tokens {
		if tok.Type == Indent {
			sawIndent = true
		}
		if tok.Type == Dedent {
			sawDedent = true
		}
	}
	if !sawIndent || !sawDedent {
		t.Fatalf("expected indent and dedent tokens, got %v", tokenTypes(tokens))
	}
}

func TestScanBlankAndCommentLinesDontShiftIndent(t *testing.T) {
	src := "def test():\n\n    # comment\n    return 1\n"
	tokens := Scan([]byte(src))
	indents := 0
	for _, tok := range tokens {
		if tok.Type == Indent {
			indents++
		}
	}
	if indents != 1 {
		t.Fatalf("expected exactly one indent, got %d (%v)", indents, tokenTypes(tokens))
	}
}

func TestPositionOffsetsSliceSource(t *testing.T) {
	src := "x = test()\n"
	tokens := Scan([]byte(src))
	for _, tok := range tokens {
		if tok.Type == Identifier && tok.Lexeme == "test" {
			got := src[tok.Span.Start.Offset:tok.Span.End.Offset]
			if got != "test" {
				t.Fatalf("offset slice = %q, want %q", got, "test")
			}
			return
		}
	}
	t.Fatal("identifier 'test' not found in token stream")
}
