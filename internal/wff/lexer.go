package wff

import (
	"unicode"
	"unicode/utf8"
)

// TokenType identifies the lexical class of a formula text token.
type TokenType int

const (
	TokenSymbol TokenType = iota
	TokenLParen
	TokenRParen
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenSymbol:
		return "symbol"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is one lexeme of formula text with its source position.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// Lexer scans formula text into tokens. Parentheses are self-delimiting;
// every other run of non-space characters is a single symbol, so alias
// spellings like "→" or "/\" need no quoting.
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize scans the whole input, ending with an EOF token.
func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		switch c := l.input[l.pos]; {
		case c == '(':
			l.add(TokenLParen, "(")
			l.advance(1)
		case c == ')':
			l.add(TokenRParen, ")")
			l.advance(1)
		case isSpace(c):
			l.advance(1)
		default:
			l.lexSymbol()
		}
	}
	l.add(TokenEOF, "")
	return l.tokens
}

// lexSymbol consumes up to the next space or parenthesis. Multi-byte
// characters never collide with the break set, so byte scanning is safe.
func (l *Lexer) lexSymbol() {
	startLine, startCol := l.line, l.col
	start := l.pos
	end := start
	for end < len(l.input) {
		c := l.input[end]
		if c == '(' || c == ')' || isSpace(c) {
			break
		}
		end++
	}
	l.tokens = append(l.tokens, Token{
		Type:  TokenSymbol,
		Value: l.input[start:end],
		Line:  startLine,
		Col:   startCol,
	})
	l.advance(end - start)
}

func (l *Lexer) add(typ TokenType, value string) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Line: l.line, Col: l.col})
}

// advance moves n bytes forward, tracking line and rune column.
func (l *Lexer) advance(n int) {
	end := l.pos + n
	for l.pos < end {
		r, w := utf8.DecodeRuneInString(l.input[l.pos:])
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos += w
	}
}

func isSpace(c byte) bool {
	return unicode.IsSpace(rune(c))
}
