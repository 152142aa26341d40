package mint

import "fmt"

type TokenType int

const (
	// Single character tokens
	LEFT_PAREN TokenType = iota
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	COMMA
	DOT
	MINUS
	PLUS
	SEMICOLON
	SLASH
	STAR
	MODULO
	XOR
	TILDE

	// One or two character tokens
	BANG
	BANG_EQUAL
	EQUAL
	EQUAL_EQUAL
	GREATER
	GREATER_EQUAL
	RIGHT_SHIFT
	LESS
	LESS_EQUAL
	LEFT_SHIFT
	BIT_AND
	BIT_OR

	// Literals
	IDENTIFIER
	STRING
	NUMBER

	// Keywords
	AND
	CLASS
	ELSE
	FALSE
	FUNCTION
	FOR
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	LET
	WHILE

	EOF
)

var tokenNames = [...]string{
	LEFT_PAREN:    "LEFT_PAREN",
	RIGHT_PAREN:   "RIGHT_PAREN",
	LEFT_BRACE:    "LEFT_BRACE",
	RIGHT_BRACE:   "RIGHT_BRACE",
	COMMA:         "COMMA",
	DOT:           "DOT",
	MINUS:         "MINUS",
	PLUS:          "PLUS",
	SEMICOLON:     "SEMICOLON",
	SLASH:         "SLASH",
	STAR:          "STAR",
	MODULO:        "MODULO",
	XOR:           "XOR",
	TILDE:         "TILDE",
	BANG:          "BANG",
	BANG_EQUAL:    "BANG_EQUAL",
	EQUAL:         "EQUAL",
	EQUAL_EQUAL:   "EQUAL_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	RIGHT_SHIFT:   "RIGHT_SHIFT",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	LEFT_SHIFT:    "LEFT_SHIFT",
	BIT_AND:       "BIT_AND",
	BIT_OR:        "BIT_OR",
	IDENTIFIER:    "IDENTIFIER",
	STRING:        "STRING",
	NUMBER:        "NUMBER",
	AND:           "AND",
	CLASS:         "CLASS",
	ELSE:          "ELSE",
	FALSE:         "FALSE",
	FUNCTION:      "FUNCTION",
	FOR:           "FOR",
	IF:            "IF",
	NIL:           "NIL",
	OR:            "OR",
	PRINT:         "PRINT",
	RETURN:        "RETURN",
	SUPER:         "SUPER",
	THIS:          "THIS",
	TRUE:          "TRUE",
	LET:           "LET",
	WHILE:         "WHILE",
	EOF:           "EOF",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// keywords maps reserved words to their token type. "fn" and "function" are
// interchangeable, as are "and"/"&&" and "or"/"||".
var keywords = map[string]TokenType{
	"and":      AND,
	"class":    CLASS,
	"else":     ELSE,
	"false":    FALSE,
	"fn":       FUNCTION,
	"function": FUNCTION,
	"for":      FOR,
	"if":       IF,
	"nil":      NIL,
	"or":       OR,
	"print":    PRINT,
	"return":   RETURN,
	"super":    SUPER,
	"this":     THIS,
	"true":     TRUE,
	"let":      LET,
	"while":    WHILE,
}

type Token struct {
	Type    TokenType `json:"type"`
	Lexeme  string    `json:"lexeme"`
	Literal Value     `json:"literal"`
	Line    int       `json:"line"`
}

func (t Token) String() string {
	if t.Literal.IsNil() {
		return fmt.Sprintf("%s %s", t.Type, t.Lexeme)
	}
	return fmt.Sprintf("%s %s %s", t.Type, t.Lexeme, t.Literal)
}
