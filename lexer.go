// lexer.go
package typhoon

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LROUND    // "("
	RROUND    // ")"
	LCURLY    // "{"
	RCURLY    // "}"
	COMMA     // ","
	PERIOD    // "."
	SEMICOLON // ";"
	QUESTION  // "?"
	COLON     // ":"

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	ASSIGN // "="
	EQ     // "=="
	BANG   // "!"
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Literals & identifiers
	ID
	STRING
	NUMBER

	// Keywords
	AND
	BREAK
	CLASS
	CONTINUE
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int         // 1-based
	Col     int         // 0-based
}

// keywords map
var keywords = map[string]TokenType{
	"and":      AND,
	"break":    BREAK,
	"class":    CLASS,
	"continue": CONTINUE,
	"else":     ELSE,
	"false":    FALSE,
	"for":      FOR,
	"fun":      FUN,
	"if":       IF,
	"nil":      NIL,
	"or":       OR,
	"print":    PRINT,
	"return":   RETURN,
	"super":    SUPER,
	"this":     THIS,
	"true":     TRUE,
	"var":      VAR,
	"while":    WHILE,
}

// Lexer scans a Typhoon source string into tokens. Errors do not abort the
// scan: every bad character or unterminated string is recorded and scanning
// resumes, so one pass surfaces all lexical errors.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based column within line

	tokens []Token
	errs   []error

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

// match consumes the next byte when it equals want.
func (l *Lexer) match(want byte) bool {
	if b, ok := l.peek(); ok && b == want {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	lex := l.src[l.start:l.cur]
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
	l.start = l.cur
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		case '/':
			// "//" line comment; a lone '/' is the division operator.
			if b, ok := l.peekN(1); !ok || b != '/' {
				return
			}
			for {
				b, ok := l.peek()
				if !ok || b == '\n' {
					break
				}
				l.advance()
			}
			l.start = l.cur
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// ----- errors -----

type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

func (l *Lexer) err(msg string) {
	l.errs = append(l.errs, &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg})
}

// ----- scanners -----

// scanString parses a double-quoted string literal. Strings may span lines;
// there are no escape sequences.
func (l *Lexer) scanString() {
	for {
		ch, ok := l.advance()
		if !ok {
			l.err("string was not terminated")
			l.start = l.cur
			return
		}
		if ch == '"' {
			// literal excludes the surrounding quotes
			l.tokens = append(l.tokens, Token{
				Type:    STRING,
				Lexeme:  l.src[l.start:l.cur],
				Literal: l.src[l.start+1 : l.cur-1],
				Line:    l.tokStartLine,
				Col:     l.tokStartCol,
			})
			l.start = l.cur
			return
		}
	}
}

// scanNumber parses digits with an optional fractional part. A trailing '.'
// is left for the property-access token.
func (l *Lexer) scanNumber() {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}

	lex := l.src[l.start:l.cur]
	v, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		l.err("invalid number literal")
		return
	}
	l.addToken(NUMBER, v)
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]* and classifies keywords.
func (l *Lexer) scanIdentifier() {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	if tt, ok := keywords[lex]; ok {
		switch tt {
		case TRUE:
			l.addToken(TRUE, true)
		case FALSE:
			l.addToken(FALSE, false)
		case NIL:
			l.addToken(NIL, nil)
		default:
			l.addToken(tt, nil)
		}
		return
	}
	l.addToken(ID, nil)
}

// ----- main scanner -----

func (l *Lexer) scanToken() {
	ch, _ := l.advance()

	switch ch {
	case '(':
		l.addToken(LROUND, nil)
	case ')':
		l.addToken(RROUND, nil)
	case '{':
		l.addToken(LCURLY, nil)
	case '}':
		l.addToken(RCURLY, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '.':
		l.addToken(PERIOD, nil)
	case ';':
		l.addToken(SEMICOLON, nil)
	case '?':
		l.addToken(QUESTION, nil)
	case ':':
		l.addToken(COLON, nil)
	case '+':
		l.addToken(PLUS, nil)
	case '-':
		l.addToken(MINUS, nil)
	case '*':
		l.addToken(MULT, nil)
	case '/':
		l.addToken(DIV, nil)
	case '=':
		if l.match('=') {
			l.addToken(EQ, nil)
		} else {
			l.addToken(ASSIGN, nil)
		}
	case '!':
		if l.match('=') {
			l.addToken(NEQ, nil)
		} else {
			l.addToken(BANG, nil)
		}
	case '<':
		if l.match('=') {
			l.addToken(LESS_EQ, nil)
		} else {
			l.addToken(LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(GREATER_EQ, nil)
		} else {
			l.addToken(GREATER, nil)
		}
	case '"':
		l.scanString()
	default:
		if isDigit(ch) {
			l.scanNumber()
			return
		}
		if isAlpha(ch) {
			l.scanIdentifier()
			return
		}
		l.err(fmt.Sprintf("unexpected character: %q", ch))
		l.start = l.cur
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included) along
// with every lexical error found in the pass.
func (l *Lexer) Scan() ([]Token, []error) {
	for {
		l.skipWhitespace()
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			l.addToken(EOF, nil)
			return l.tokens, l.errs
		}
		l.scanToken()
	}
}
