// Package lexer implements the Monkey lexical analyzer.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/monkeylang/monkey/internal/position"
)

// eof marks the lookahead once the cursor has moved past the last rune.
const eof rune = -1

// ErrIntegerOverflow is reported when an integer literal does not fit in a
// signed 32-bit value.
var ErrIntegerOverflow = errors.New("integer literal out of range")

// LexError is a fatal scanning error tied to a source position
type LexError struct {
	Pos     position.Position
	Literal string
	Err     error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at %s: %v: %s", e.Pos, e.Err, e.Literal)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// Lexer turns source text into tokens, one per NextToken call.
// A Lexer is not safe for concurrent use.
type Lexer struct {
	input        []rune
	position     int  // index of ch in input
	readPosition int  // index of the rune after ch
	ch           rune // current rune under examination, eof at the end
	filename     string

	// position of ch; offsets assume valid UTF-8 input
	line   int
	column int
	offset int
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer whose token spans carry filename
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    []rune(input),
		filename: filename,
		line:     1,
		column:   1,
	}

	l.readChar()
	return l
}

// Filename returns the name token spans are attributed to
func (l *Lexer) Filename() string {
	return l.filename
}

// readChar advances the cursor by one rune. The cursor never moves past
// the end of input.
func (l *Lexer) readChar() {
	if l.readPosition > 0 && l.ch != eof {
		if l.ch == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.offset += utf8.RuneLen(l.ch)
	}

	if l.readPosition >= len(l.input) {
		l.ch = eof
		l.position = len(l.input)
		return
	}

	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next rune without advancing
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return eof
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readIdentifier consumes the maximal run of letters and underscores.
// Digits are not part of the identifier alphabet.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return string(l.input[start:l.position])
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[start:l.position])
}

func (l *Lexer) currentPosition() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.offset,
	}
}

// NextToken scans the input and returns the next token. Once the input is
// exhausted every call returns an EOF token. Unrecognized characters come
// back as TokenIllegal, not as errors; the only error is a *LexError for an
// integer literal that overflows 32 bits.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	start := l.currentPosition()

	var (
		typ     TokenType
		literal string
	)

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			typ, literal = TokenEq, "=="
		} else {
			typ, literal = TokenAssign, "="
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			typ, literal = TokenNotEq, "!="
		} else {
			typ, literal = TokenBang, "!"
		}
	case ';':
		typ, literal = TokenSemicolon, ";"
	case '(':
		typ, literal = TokenLParen, "("
	case ')':
		typ, literal = TokenRParen, ")"
	case ',':
		typ, literal = TokenComma, ","
	case '+':
		typ, literal = TokenPlus, "+"
	case '-':
		typ, literal = TokenMinus, "-"
	case '/':
		typ, literal = TokenSlash, "/"
	case '*':
		typ, literal = TokenAsterisk, "*"
	case '{':
		typ, literal = TokenLBrace, "{"
	case '}':
		typ, literal = TokenRBrace, "}"
	case '<':
		typ, literal = TokenLt, "<"
	case '>':
		typ, literal = TokenGt, ">"
	case eof:
		return l.newToken(TokenEOF, "", start), nil
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return l.newToken(LookupIdent(ident), ident, start), nil
		}
		if isDigit(l.ch) {
			return l.readInteger(start)
		}
		typ, literal = TokenIllegal, string(l.ch)
	}

	l.readChar()
	return l.newToken(typ, literal, start), nil
}

// readInteger consumes a digit run and parses it as a signed 32-bit value.
func (l *Lexer) readInteger(start position.Position) (Token, error) {
	literal := l.readNumber()

	value, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		tok := l.newToken(TokenIllegal, literal, start)
		return tok, &LexError{Pos: start, Literal: literal, Err: ErrIntegerOverflow}
	}

	tok := l.newToken(TokenInt, literal, start)
	tok.Value = int32(value)
	return tok, nil
}

// newToken creates a token spanning from start to the current cursor
func (l *Lexer) newToken(tokenType TokenType, literal string, start position.Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Span: position.Span{
			Start: start,
			End:   l.currentPosition(),
		},
	}
}

// All drains the lexer and returns every token up to and including EOF.
// It stops at the first error.
func (l *Lexer) All() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// Tokenize scans input through EOF
func Tokenize(input string) ([]Token, error) {
	return New(input).All()
}

// isLetter reports whether ch can appear in an identifier
func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if character is ASCII digit
func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
