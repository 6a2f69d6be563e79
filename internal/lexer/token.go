package lexer

import (
	"fmt"

	"github.com/monkeylang/monkey/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Identifiers and literals
	TokenIdent
	TokenInt

	// Operators
	TokenAssign
	TokenPlus
	TokenMinus
	TokenBang
	TokenAsterisk
	TokenSlash
	TokenLt
	TokenGt
	TokenEq
	TokenNotEq

	// Delimiters
	TokenComma
	TokenSemicolon
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace

	// Keywords
	TokenFunction
	TokenLet
	TokenTrue
	TokenFalse
	TokenIf
	TokenElse
	TokenReturn
)

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenIllegal: "ILLEGAL",

	TokenIdent: "IDENT",
	TokenInt:   "INT",

	TokenAssign:   "ASSIGN",
	TokenPlus:     "PLUS",
	TokenMinus:    "MINUS",
	TokenBang:     "BANG",
	TokenAsterisk: "ASTERISK",
	TokenSlash:    "SLASH",
	TokenLt:       "LT",
	TokenGt:       "GT",
	TokenEq:       "EQ",
	TokenNotEq:    "NOT_EQ",

	TokenComma:     "COMMA",
	TokenSemicolon: "SEMICOLON",
	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",

	TokenFunction: "FUNCTION",
	TokenLet:      "LET",
	TokenTrue:     "TRUE",
	TokenFalse:    "FALSE",
	TokenIf:       "IF",
	TokenElse:     "ELSE",
	TokenReturn:   "RETURN",
}

// keywords maps string keywords to their token types
var keywords = map[string]TokenType{
	"fn":     TokenFunction,
	"let":    TokenLet,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"if":     TokenIf,
	"else":   TokenElse,
	"return": TokenReturn,
}

// LookupIdent classifies identifier text against the keyword table.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// Token represents a lexical token with position information.
//
// Identifier tokens carry their name in Literal. Integer tokens carry the
// source digits in Literal and the parsed value in Value. Illegal tokens
// carry the offending character in Literal.
type Token struct {
	Type    TokenType
	Literal string
	Value   int32
	Span    position.Span
}

// Equal reports whether two tokens are structurally equal. The span is not
// part of a token's identity.
func (t Token) Equal(other Token) bool {
	return t.Type == other.Type && t.Literal == other.Literal && t.Value == other.Value
}

// Pos returns the start position of the token
func (t Token) Pos() position.Position {
	return t.Span.Start
}

// String returns the debug form of the token, e.g. IDENT("x") or INT(5).
func (t Token) String() string {
	switch t.Type {
	case TokenIdent:
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	case TokenInt:
		return fmt.Sprintf("%s(%d)", t.Type, t.Value)
	case TokenIllegal:
		if t.Literal != "" {
			return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
		}
	}
	return t.Type.String()
}
