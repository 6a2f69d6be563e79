package parser

import (
	"fmt"

	"github.com/monkeylang/monkey/internal/lexer"
)

// ErrorRecoveryMode defines what the parser does after a statement rule fails
type ErrorRecoveryMode int

const (
	// PanicMode skips tokens to the next synchronization point (a semicolon
	// or EOF) and keeps parsing, so one pass reports every malformed
	// statement.
	PanicMode ErrorRecoveryMode = iota
	// FailFast stops at the first failed statement.
	FailFast
)

func (m ErrorRecoveryMode) String() string {
	switch m {
	case PanicMode:
		return "panic"
	case FailFast:
		return "fail-fast"
	default:
		return fmt.Sprintf("ErrorRecoveryMode(%d)", int(m))
	}
}

// ParseRecoveryMode maps a configuration value to a recovery mode.
func ParseRecoveryMode(s string) (ErrorRecoveryMode, error) {
	switch s {
	case "", "panic", "synchronize":
		return PanicMode, nil
	case "fail-fast", "failfast":
		return FailFast, nil
	default:
		return PanicMode, fmt.Errorf("unknown recovery mode %q", s)
	}
}

// SetRecoveryMode changes the error recovery strategy
func (p *Parser) SetRecoveryMode(mode ErrorRecoveryMode) {
	p.recoveryMode = mode
}

// skipTo skips tokens until one of the given types is current, or EOF.
func (p *Parser) skipTo(tokenTypes ...lexer.TokenType) {
	for !p.currentTokenIs(lexer.TokenEOF) {
		for _, tokenType := range tokenTypes {
			if p.currentTokenIs(tokenType) {
				return
			}
		}
		p.nextToken()
	}
}

// synchronize moves to the end of the broken statement
func (p *Parser) synchronize() {
	p.skipTo(lexer.TokenSemicolon)
}

// statementKeywords are the words that may start a statement
var statementKeywords = []string{"let"}

// suggestKeyword returns a hint when an identifier looks like a mistyped
// statement keyword.
func suggestKeyword(ident string) string {
	if len([]rune(ident)) < 2 {
		return ""
	}
	for _, kw := range statementKeywords {
		if d := editDistance(ident, kw); d > 0 && d <= 2 {
			return fmt.Sprintf("did you mean '%s'?", kw)
		}
	}
	return ""
}

// editDistance calculates the Levenshtein distance between two strings
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
