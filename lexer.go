package mint

import (
	"strconv"
	"unicode/utf8"
)

// Lexer turns source text into a flat token sequence. Errors are collected
// rather than returned; scanning always runs to the end of input.
type Lexer struct {
	source  string
	tokens  []Token
	errors  []*Error
	start   int
	current int
	line    int
}

func NewLexer(source string) *Lexer {
	return &Lexer{source: source, line: 1}
}

func (l *Lexer) Errors() []*Error {
	return l.errors
}

// ScanTokens scans the whole source. The result always ends with exactly one EOF token.
func (l *Lexer) ScanTokens() []Token {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line})
	return l.tokens
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) scanToken() {
	c := l.advance()
	switch c {
	case '(':
		l.addToken(LEFT_PAREN)
	case ')':
		l.addToken(RIGHT_PAREN)
	case '{':
		l.addToken(LEFT_BRACE)
	case '}':
		l.addToken(RIGHT_BRACE)
	case ',':
		l.addToken(COMMA)
	case '.':
		l.addToken(DOT)
	case '-':
		l.addToken(MINUS)
	case '+':
		l.addToken(PLUS)
	case ';':
		l.addToken(SEMICOLON)
	case '*':
		l.addToken(STAR)
	case '%':
		l.addToken(MODULO)
	case '^':
		l.addToken(XOR)
	case '~':
		l.addToken(TILDE)
	case '&':
		l.addToken(l.choose('&', AND, BIT_AND))
	case '|':
		l.addToken(l.choose('|', OR, BIT_OR))
	case '!':
		l.addToken(l.choose('=', BANG_EQUAL, BANG))
	case '=':
		l.addToken(l.choose('=', EQUAL_EQUAL, EQUAL))
	case '<':
		switch {
		case l.match('<'):
			l.addToken(LEFT_SHIFT)
		case l.match('='):
			l.addToken(LESS_EQUAL)
		default:
			l.addToken(LESS)
		}
	case '>':
		switch {
		case l.match('>'):
			l.addToken(RIGHT_SHIFT)
		case l.match('='):
			l.addToken(GREATER_EQUAL)
		default:
			l.addToken(GREATER)
		}
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(SLASH)
		}
	case ' ', '\r', '\t':
	case '\n':
		l.line++
	case '"':
		l.readString()
	default:
		switch {
		case isDigit(c):
			l.readNumber()
		case isAlpha(c):
			l.readIdentifier()
		default:
			if c >= utf8.RuneSelf {
				// skip the rest of a multi-byte rune
				_, size := utf8.DecodeRuneInString(l.source[l.current-1:])
				l.current += size - 1
			}
			l.errors = append(l.errors, lexError(l.line, "Unexpected character."))
		}
	}
}

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) choose(expected byte, matched, otherwise TokenType) TokenType {
	if l.match(expected) {
		return matched
	}
	return otherwise
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) addToken(t TokenType) {
	l.addLiteral(t, Nil)
}

func (l *Lexer) addLiteral(t TokenType, literal Value) {
	l.tokens = append(l.tokens, Token{
		Type:    t,
		Lexeme:  l.source[l.start:l.current],
		Literal: literal,
		Line:    l.line,
	})
}

func (l *Lexer) readString() {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}
	if l.isAtEnd() {
		l.errors = append(l.errors, lexError(l.line, "Unterminated string."))
		return
	}
	// closing quote
	l.advance()
	l.addLiteral(STRING, String(l.source[l.start+1:l.current-1]))
}

func (l *Lexer) readNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	// digits with an optional fraction always parse; very long runs saturate to +Inf
	n, _ := strconv.ParseFloat(l.source[l.start:l.current], 64)
	l.addLiteral(NUMBER, Number(n))
}

func (l *Lexer) readIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.current]
	if t, ok := keywords[text]; ok {
		l.addToken(t)
		return
	}
	l.addToken(IDENTIFIER)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isAlpha(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
