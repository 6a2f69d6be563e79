package parser

import (
	"fmt"
	"strings"

	"github.com/monkeylang/monkey/internal/lexer"
	"github.com/monkeylang/monkey/internal/position"
)

// ErrorKind classifies a parse error
type ErrorKind int

const (
	// UnexpectedToken is an expected-token mismatch at a known grammar point.
	UnexpectedToken ErrorKind = iota
	// UnsupportedStatement means the current token starts no statement form
	// the grammar implements.
	UnsupportedStatement
	// LexicalError wraps a fatal scanner error.
	LexicalError
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnsupportedStatement:
		return "unsupported statement"
	case LexicalError:
		return "lexical error"
	default:
		return "unknown"
	}
}

// ParseError represents a parsing error with context
type ParseError struct {
	Kind     ErrorKind
	Pos      position.Position
	Expected lexer.TokenType // set for UnexpectedToken
	Actual   lexer.Token
	Message  string
	Hint     string
	Err      error // underlying scanner error for LexicalError
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Position returns where the error was detected
func (e *ParseError) Position() position.Position {
	return e.Pos
}

// ErrorList is every error accumulated during one parse, in source order.
type ErrorList []error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors:\n%s", len(l), strings.Join(msgs, "\n"))
}

func (l ErrorList) Unwrap() []error {
	return l
}
