package lexer

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/groovyscript/internal/diagnostic"
)

func tokenTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	tokens, err := New(input).Tokenize()
	require.NoError(t, err)
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestNext_Operators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "arithmetic operators",
			input:    "+ - * / % ! ~",
			expected: []TokenType{PLUS, MINUS, STAR, SLASH, PERCENT, BANG, TILDE, EOF},
		},
		{
			name:     "comparison operators",
			input:    "< > <= >= == != =~ ->",
			expected: []TokenType{LT, GT, LEQ, GEQ, EQ, NEQ, REGEX, ARROW, EOF},
		},
		{
			name:     "logical and bitwise operators",
			input:    "&& || & | ^ << >> >>>",
			expected: []TokenType{AND, OR, AMP, PIPE, CARET, SHL, SHR, USHR, EOF},
		},
		{
			name:  "assignment operators",
			input: "= += -= *= /= %= &= |= ^= ?= <<= >>= >>>=",
			expected: []TokenType{
				ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN,
				AMP_ASSIGN, PIPE_ASSIGN, CARET_ASSIGN, ELVIS_ASSIGN, SHL_ASSIGN, SHR_ASSIGN,
				USHR_ASSIGN, EOF,
			},
		},
		{
			name:     "conditional operators",
			input:    "? : ?:",
			expected: []TokenType{QUESTION, COLON, ELVIS, EOF},
		},
		{
			name:  "chain links",
			input: "a.b a?.b a.&b a*.b a...b",
			expected: []TokenType{
				IDENT, DOT, IDENT,
				IDENT, SAFE_DOT, IDENT,
				IDENT, METHOD_REF, IDENT,
				IDENT, SPREAD_DOT, IDENT,
				IDENT, ELLIPSIS, IDENT,
				EOF,
			},
		},
		{
			name:     "multiplication by leading-dot number",
			input:    "2*.5",
			expected: []TokenType{NUMBER, STAR, NUMBER, EOF},
		},
		{
			name:     "delimiters",
			input:    "( ) { } [ ] , ;",
			expected: []TokenType{LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET, COMMA, SEMICOLON, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenTypes(t, tt.input))
		})
	}
}

func TestNext_KeywordsAreCaseInsensitive(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"if", IF},
		{"IF", IF},
		{"If", IF},
		{"iF", IF},
		{"DEF", DEF},
		{"Task", TASK},
		{"NULL", NULL},
		{"True", TRUE},
		{"final", FINAL},
		{"String", TYPE},
		{"string", TYPE},
		{"INTEGER", TYPE},
		{"ifx", IDENT},
		{"define", IDENT},
		{"_if", IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok, err := New(tt.input).Next()
			require.NoError(t, err)
			if tok.Type != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tok.Type)
			}
			if tok.Literal != tt.input {
				t.Errorf("expected literal %q, got %q", tt.input, tok.Literal)
			}
		})
	}
}

func TestNext_ElseIfCompound(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
		literal  string
	}{
		{"single space", "else if", []TokenType{ELSE_IF, EOF}, "else if"},
		{"mixed case and wide gap", "ELSE   If", []TokenType{ELSE_IF, EOF}, "ELSE   If"},
		{"newline between", "else\nif", []TokenType{ELSE_IF, EOF}, "else\nif"},
		{"plain else", "else {", []TokenType{ELSE, LBRACE, EOF}, "else"},
		{"else before identifier", "else iffy", []TokenType{ELSE, IDENT, EOF}, "else"},
		{"joined word", "elseif", []TokenType{IDENT, EOF}, "elseif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := New(tt.input).Tokenize()
			require.NoError(t, err)
			types := make([]TokenType, len(tokens))
			for i, tok := range tokens {
				types[i] = tok.Type
			}
			assert.Equal(t, tt.expected, types)
			assert.Equal(t, tt.literal, tokens[0].Literal)
		})
	}
}

func TestNext_Numbers(t *testing.T) {
	tokens, err := New("123 1.5 .5 1.").Tokenize()
	require.NoError(t, err)

	expected := []struct {
		tt  TokenType
		lit string
	}{
		{NUMBER, "123"},
		{NUMBER, "1.5"},
		{NUMBER, ".5"},
		{NUMBER, "1"},
		{DOT, "."},
		{EOF, ""},
	}
	require.Len(t, tokens, len(expected))
	for i, exp := range expected {
		if tokens[i].Type != exp.tt || tokens[i].Literal != exp.lit {
			t.Errorf("token[%d]: expected %s(%q), got %s(%q)", i, exp.tt, exp.lit, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestNext_Strings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "single quoted",
			input:    `'abc'`,
			expected: []Token{{Type: STRING, Literal: `'abc'`}},
		},
		{
			name:     "escaped quote",
			input:    `'it\'s'`,
			expected: []Token{{Type: STRING, Literal: `'it\'s'`}},
		},
		{
			name:     "double quoted with interpolation",
			input:    `"a${b.c}d"`,
			expected: []Token{{Type: GSTRING, Literal: `"a${b.c}d"`}},
		},
		{
			name:     "interpolation may contain quotes",
			input:    `"x${m['k']}"`,
			expected: []Token{{Type: GSTRING, Literal: `"x${m['k']}"`}},
		},
		{
			name:     "closing brace inside a quoted run",
			input:    `"${a ? '}' : b}" + x`,
			expected: []Token{{Type: GSTRING, Literal: `"${a ? '}' : b}"`}, {Type: PLUS, Literal: "+"}, {Type: IDENT, Literal: "x"}},
		},
		{
			name:     "closure braces inside interpolation",
			input:    `"${xs.collect { it }}"`,
			expected: []Token{{Type: GSTRING, Literal: `"${xs.collect { it }}"`}},
		},
		{
			name:  "triple quote without newline is an empty string",
			input: `'''x'`,
			expected: []Token{
				{Type: STRING, Literal: `''`},
				{Type: STRING, Literal: `'x'`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := New(tt.input).Tokenize()
			require.NoError(t, err)
			require.Len(t, tokens, len(tt.expected)+1)
			for i, exp := range tt.expected {
				assert.Equal(t, exp.Type, tokens[i].Type, "token[%d] type", i)
				assert.Equal(t, exp.Literal, tokens[i].Literal, "token[%d] literal", i)
			}
		})
	}
}

func TestNext_TextBlock(t *testing.T) {
	input := "'''\n  hello\n'''"
	l := New(input)

	tok, err := l.Next()
	require.NoError(t, err)
	if tok.Type != TEXT_BLOCK {
		t.Fatalf("expected TEXT_BLOCK, got %s", tok.Type)
	}
	assert.Equal(t, input, tok.Literal)
	assert.Equal(t, ClassTextBlock, tok.Class())
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, tok.Span.Start)
	assert.Equal(t, len(input), tok.Span.End.Offset)
	assert.Equal(t, 3, tok.Span.End.Line)

	body, _ := Body(tok)
	assert.Equal(t, "\n  hello\n", body)

	eof, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, EOF, eof.Type)
}

func TestNext_TextBlockWithTrailingSpaceAfterOpener(t *testing.T) {
	tokens, err := New("'''  \nline one\nline two''' x").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, TEXT_BLOCK, tokens[0].Type)
	assert.Equal(t, IDENT, tokens[1].Type)
}

func TestNext_UnterminatedLiteral(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
		line   int
		column int
	}{
		{"double quoted at start", `"abc`, 0, 1, 1},
		{"single quoted after code", `x = 'abc`, 4, 1, 5},
		{"raw newline in string", "'ab\ncd'", 0, 1, 1},
		{"open interpolation", `"a${b`, 0, 1, 1},
		{"text block", "foo\n'''\nabc", 4, 2, 1},
		{"trailing backslash", `'abc\`, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.input).Tokenize()
			require.Error(t, err)
			assert.ErrorIs(t, err, diagnostic.ErrUnterminatedLiteral)

			var lexErr *diagnostic.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, diagnostic.UnterminatedLiteral, lexErr.Kind)
			assert.Equal(t, tt.offset, lexErr.Offset)
			assert.Equal(t, tt.line, lexErr.Line)
			assert.Equal(t, tt.column, lexErr.Column)
			assert.True(t, diagnostic.Incomplete(err))
		})
	}
}

func TestNext_UnexpectedCharacter(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"at sign", "a @ b", 2},
		{"hash after start", "x #!", 2},
		{"backtick", "`", 0},
		{"non-ascii", "a é", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.input).Tokenize()
			require.Error(t, err)
			assert.ErrorIs(t, err, diagnostic.ErrUnexpectedCharacter)
			assert.Equal(t, diagnostic.UnexpectedCharacter, diagnostic.KindOf(err))

			var lexErr *diagnostic.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, tt.offset, lexErr.Offset)
		})
	}
}

func TestNext_ErrorIsSticky(t *testing.T) {
	l := New("@ x")
	_, first := l.Next()
	require.Error(t, first)
	_, second := l.Next()
	assert.Equal(t, first, second)
}

func TestNext_Trivia(t *testing.T) {
	input := "#!/usr/bin/env groovy\n// line\nx /* block */ y"
	l := New(input)
	tokens, err := l.Tokenize()
	require.NoError(t, err)

	assert.Equal(t, []TokenType{IDENT, IDENT, EOF}, []TokenType{tokens[0].Type, tokens[1].Type, tokens[2].Type})

	trivia := l.Trivia()
	require.Len(t, trivia, 3)
	assert.Equal(t, SHEBANG, trivia[0].Type)
	assert.Equal(t, "#!/usr/bin/env groovy", trivia[0].Literal)
	assert.Equal(t, LINE_COMMENT, trivia[1].Type)
	assert.Equal(t, "// line", trivia[1].Literal)
	assert.Equal(t, BLOCK_COMMENT, trivia[2].Type)
	assert.Equal(t, "/* block */", trivia[2].Literal)
}

func TestNext_UnterminatedBlockComment(t *testing.T) {
	l := New("a = 1 /* never closed\nb = 2")
	tokens, err := l.Tokenize()
	require.Error(t, err)
	assert.Len(t, tokens, 3, "tokens before the comment are kept")
	assert.Empty(t, l.Trivia())

	var lerr *diagnostic.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, diagnostic.UnexpectedCharacter, lerr.Kind)
	assert.Equal(t, 6, lerr.Offset)
	assert.Equal(t, 7, lerr.Column)
	assert.True(t, diagnostic.Incomplete(err))

	_, again := l.Next()
	assert.Equal(t, err, again)
}

func TestNext_Positions(t *testing.T) {
	tokens, err := New("a\n  bb").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, tokens[0].Span.Start)
	assert.Equal(t, Position{Offset: 1, Line: 1, Column: 2}, tokens[0].Span.End)
	assert.Equal(t, Position{Offset: 4, Line: 2, Column: 3}, tokens[1].Span.Start)
	assert.Equal(t, Position{Offset: 6, Line: 2, Column: 5}, tokens[1].Span.End)
}

func TestTokenClass(t *testing.T) {
	tests := []struct {
		tt       TokenType
		expected string
	}{
		{IDENT, "identifier"},
		{IF, "keyword"},
		{ELSE_IF, "keyword"},
		{RESERVED, "keyword"},
		{TYPE, "type-name"},
		{NUMBER, "number"},
		{STRING, "string-literal"},
		{GSTRING, "string-literal"},
		{TEXT_BLOCK, "text-block"},
		{PLUS, "operator"},
		{USHR_ASSIGN, "operator"},
		{SPREAD_DOT, "operator"},
		{LPAREN, "punctuation"},
		{SEMICOLON, "punctuation"},
		{LINE_COMMENT, "comment"},
		{BLOCK_COMMENT, "comment"},
		{SHEBANG, "shebang"},
		{EOF, "eof"},
		{ILLEGAL, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.tt.String(), func(t *testing.T) {
			if got := tt.tt.Class().String(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestTable_Extend(t *testing.T) {
	base := DefaultTable()
	ext := base.Extend([]string{"Apply", "if", "else unless"}, []string{"File"})

	assert.Equal(t, IDENT, base.Lookup("apply"), "base table must not change")
	assert.Equal(t, RESERVED, ext.Lookup("apply"))
	assert.Equal(t, RESERVED, ext.Lookup("APPLY"))
	assert.Equal(t, IF, ext.Lookup("If"))
	assert.Equal(t, TYPE, ext.Lookup("file"))
	assert.Len(t, ext.Keywords(), len(DefaultKeywords)+2)

	canon, ok := ext.CanonicalType("FILE")
	require.True(t, ok)
	assert.Equal(t, "File", canon)
	assert.Equal(t, []string{"Boolean", "File", "Integer", "Object", "String"}, ext.Types())

	tokens, err := NewWithTable("else unless x", ext).Tokenize()
	require.NoError(t, err)
	assert.Equal(t, RESERVED, tokens[0].Type)
	assert.Equal(t, "else unless", tokens[0].Literal)
	assert.Equal(t, IDENT, tokens[1].Type)
}

func TestSplitString(t *testing.T) {
	tests := []struct {
		name     string
		tok      Token
		expected []StringPart
	}{
		{
			name: "interpolation in the middle",
			tok:  Token{Type: GSTRING, Literal: `"a${b}c"`},
			expected: []StringPart{
				{Raw: "a", Offset: 1},
				{Raw: "b", Interpolation: true, Offset: 4},
				{Raw: "c", Offset: 6},
			},
		},
		{
			name:     "escaped dollar is text",
			tok:      Token{Type: GSTRING, Literal: `"\${x}"`},
			expected: []StringPart{{Raw: `\${x}`, Offset: 1}},
		},
		{
			name:     "single quoted never interpolates",
			tok:      Token{Type: STRING, Literal: `'${x}'`},
			expected: []StringPart{{Raw: "${x}", Offset: 1}},
		},
		{
			name:     "empty string",
			tok:      Token{Type: GSTRING, Literal: `""`},
			expected: []StringPart{{Raw: "", Offset: 1}},
		},
		{
			name:     "quoted brace stays in the interpolation",
			tok:      Token{Type: GSTRING, Literal: `"${a ? '}' : b}"`},
			expected: []StringPart{{Raw: "a ? '}' : b", Interpolation: true, Offset: 3}},
		},
		{
			name: "nested closure braces",
			tok:  Token{Type: GSTRING, Literal: `"n=${xs.collect { it }}!"`},
			expected: []StringPart{
				{Raw: "n=", Offset: 1},
				{Raw: "xs.collect { it }", Interpolation: true, Offset: 5},
				{Raw: "!", Offset: 23},
			},
		},
		{
			name:     "unclosed interpolation is text",
			tok:      Token{Type: GSTRING, Literal: `"${a"`},
			expected: []StringPart{{Raw: "${a", Offset: 1}},
		},
		{
			name:     "only an interpolation",
			tok:      Token{Type: GSTRING, Literal: `"${x}"`},
			expected: []StringPart{{Raw: "x", Interpolation: true, Offset: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, SplitString(tt.tok)); diff != "" {
				t.Errorf("SplitString mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`tab\there`, "tab\there"},
		{`\u0041BC`, "ABC"},
		{`it\'s`, "it's"},
		{`\q`, "q"},
		{`\\`, `\`},
		{"line\\\nnext", "linenext"},
		{`\${x}`, "${x}"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Unescape(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestTokenize_Fuzz checks that arbitrary input always terminates with
// ordered, non-overlapping tokens and that lexing is deterministic.
func TestTokenize_Fuzz(t *testing.T) {
	f := fuzz.New().NilChance(0).RandSource(rand.NewSource(1))
	alphabet := []string{"if", "else", " ", "\n", "'", "\"", "'''", "${", "}", "{", "(", ")", ".", "?", ":", "*", "/", "x", "1", "#!", "@", "String"}

	for i := 0; i < 500; i++ {
		var input string
		if i%2 == 0 {
			f.Fuzz(&input)
		} else {
			var picks []uint8
			f.Fuzz(&picks)
			for _, n := range picks {
				input += alphabet[int(n)%len(alphabet)]
			}
		}

		first, err1 := New(input).Tokenize()
		second, err2 := New(input).Tokenize()
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("non-deterministic tokens for %q:\n%s", input, diff)
		}
		assert.Equal(t, err1, err2)

		for j := 1; j < len(first); j++ {
			if first[j].Span.Start.Offset < first[j-1].Span.End.Offset {
				t.Fatalf("overlapping tokens %s and %s in %q", first[j-1], first[j], input)
			}
		}
		if err1 == nil {
			require.NotEmpty(t, first)
			assert.Equal(t, EOF, first[len(first)-1].Type)
		} else {
			assert.NotZero(t, diagnostic.KindOf(err1))
			assert.True(t, diagnostic.KindOf(err1).Lexical())
		}
	}
}
