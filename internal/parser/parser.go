// Package parser implements the Monkey recursive descent parser.
//
// The parser reads tokens through a two-token window (current and peek).
// Grammar rules may inspect both but never look further ahead, and advance
// the window explicitly.
package parser

import (
	"errors"
	"fmt"
	"slices"

	"github.com/monkeylang/monkey/internal/ast"
	"github.com/monkeylang/monkey/internal/lexer"
	"github.com/monkeylang/monkey/internal/position"
)

// Parser represents the recursive descent parser. A Parser is used for one
// ParseProgram call and is not safe for concurrent use.
type Parser struct {
	lexer   *lexer.Lexer
	current lexer.Token
	peek    lexer.Token
	errors  []error

	recoveryMode ErrorRecoveryMode

	// halted is set once the scanner reports a fatal error; from then on
	// the window only receives EOF.
	halted bool
}

// NewParser creates a new parser instance and fills the lookahead window
func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{
		lexer:        l,
		recoveryMode: PanicMode,
	}

	// Read the first two tokens
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns the errors accumulated so far
func (p *Parser) Errors() []error {
	return p.errors
}

// ParseProgram parses the whole input. It returns either a complete Program
// and a nil error, or a nil Program and an ErrorList holding every error.
// Source with no statements yields an empty Program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{
		Span: position.Span{Start: p.current.Span.Start},
	}

	for !p.currentTokenIs(lexer.TokenEOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else if p.recoveryMode == FailFast || p.halted {
			break
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	program.Span.End = p.current.Span.End

	if len(p.errors) > 0 {
		return nil, ErrorList(slices.Clone(p.errors))
	}
	return program, nil
}

// nextToken advances the window: current takes the old peek and peek is
// pulled from the lexer.
func (p *Parser) nextToken() {
	p.current = p.peek

	if p.halted {
		p.peek = lexer.Token{Type: lexer.TokenEOF, Span: p.current.Span}
		return
	}

	tok, err := p.lexer.NextToken()
	if err != nil {
		p.addLexicalError(err, tok)
		p.halted = true
		tok = lexer.Token{Type: lexer.TokenEOF, Span: tok.Span}
	}
	p.peek = tok
}

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

// peekTokenIs checks if the peek token is of the given type
func (p *Parser) peekTokenIs(tokenType lexer.TokenType) bool {
	return p.peek.Type == tokenType
}

// expectPeek advances if the peek token has the expected type, and records
// an error otherwise. Only the tag is compared: any identifier satisfies
// TokenIdent whatever its text.
func (p *Parser) expectPeek(tokenType lexer.TokenType) bool {
	if p.peekTokenIs(tokenType) {
		p.nextToken()
		return true
	}
	p.peekError(tokenType)
	return false
}

// peekError records a peek token mismatch error
func (p *Parser) peekError(expected lexer.TokenType) {
	// After a scanner failure peek is synthetic and already reported.
	if p.halted {
		return
	}

	p.errors = append(p.errors, &ParseError{
		Kind:     UnexpectedToken,
		Pos:      p.peek.Pos(),
		Expected: expected,
		Actual:   p.peek,
		Message:  fmt.Sprintf("expected next token to be %s, got %s instead", expected, p.peek),
	})
}

func (p *Parser) unsupportedStatementError() {
	err := &ParseError{
		Kind:    UnsupportedStatement,
		Pos:     p.current.Pos(),
		Actual:  p.current,
		Message: fmt.Sprintf("no statement starts with %s", p.current),
	}
	if p.current.Type == lexer.TokenIdent {
		err.Hint = suggestKeyword(p.current.Literal)
	}
	p.errors = append(p.errors, err)
}

func (p *Parser) addLexicalError(err error, tok lexer.Token) {
	pos := tok.Pos()
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		pos = lexErr.Pos
	}

	p.errors = append(p.errors, &ParseError{
		Kind:    LexicalError,
		Pos:     pos,
		Actual:  tok,
		Message: err.Error(),
		Err:     err,
	})
}

// ====== Grammar Rules ======

// parseStatement dispatches on the current token
func (p *Parser) parseStatement() ast.Statement {
	switch p.current.Type {
	case lexer.TokenLet:
		if stmt := p.parseLetStatement(); stmt != nil {
			return stmt
		}
		return nil
	default:
		p.unsupportedStatementError()
		return nil
	}
}

// parseLetStatement parses `let <ident> = <expr>;`. The expression is not
// parsed yet: its tokens are skipped up to the semicolon and an
// EmptyExpression stands in for the value. A missing semicolon before EOF
// is accepted. On return current is the semicolon (or EOF).
func (p *Parser) parseLetStatement() *ast.LetStatement {
	start := p.current.Span.Start

	if !p.expectPeek(lexer.TokenIdent) {
		return nil
	}

	name := &ast.Identifier{Span: p.current.Span, Value: p.current.Literal}

	if !p.expectPeek(lexer.TokenAssign) {
		return nil
	}

	valueStart := p.peek.Span.Start
	for !p.currentTokenIs(lexer.TokenSemicolon) && !p.currentTokenIs(lexer.TokenEOF) {
		p.nextToken()
	}

	return &ast.LetStatement{
		Span:  position.Span{Start: start, End: p.current.Span.End},
		Name:  name,
		Value: &ast.EmptyExpression{Span: position.Span{Start: valueStart, End: p.current.Span.Start}},
	}
}
