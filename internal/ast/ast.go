// Package ast defines the Monkey syntax tree produced by the parser.
//
// Statement and Expression are open interfaces: new node kinds (integer
// literals, prefix and infix operators, function literals, calls) slot in by
// implementing the marker method and adding a Visitor method, without
// touching existing statement rules.
package ast

import (
	"fmt"
	"strings"

	"github.com/monkeylang/monkey/internal/position"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span for this node
	GetSpan() position.Span
	// String returns a string representation of the node
	String() string
	// Accept implements the visitor pattern
	Accept(visitor Visitor) any
}

// Statement represents all statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents all expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root of the AST. It owns its statements.
type Program struct {
	Span       position.Span
	Statements []Statement
}

func (p *Program) GetSpan() position.Span     { return p.Span }
func (p *Program) Accept(visitor Visitor) any { return visitor.VisitProgram(p) }

// String renders one statement per line
func (p *Program) String() string {
	var out strings.Builder
	for i, stmt := range p.Statements {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(stmt.String())
	}
	return out.String()
}

// LetStatement binds Name to Value: let <name> = <value>;
type LetStatement struct {
	Span  position.Span
	Name  *Identifier
	Value Expression
}

func (l *LetStatement) GetSpan() position.Span     { return l.Span }
func (l *LetStatement) Accept(visitor Visitor) any { return visitor.VisitLetStatement(l) }
func (l *LetStatement) statementNode()             {}

func (l *LetStatement) String() string {
	value := "<nil>"
	if l.Value != nil {
		value = l.Value.String()
	}
	return fmt.Sprintf("let %s = %s;", l.Name.String(), value)
}

// Identifier represents a name. It is an expression so that identifier
// references can reuse the node.
type Identifier struct {
	Span  position.Span
	Value string
}

func (i *Identifier) GetSpan() position.Span     { return i.Span }
func (i *Identifier) String() string             { return i.Value }
func (i *Identifier) Accept(visitor Visitor) any { return visitor.VisitIdentifier(i) }
func (i *Identifier) expressionNode()            {}

// EmptyExpression is the placeholder for an expression the grammar does not
// parse yet.
type EmptyExpression struct {
	Span position.Span
}

func (e *EmptyExpression) GetSpan() position.Span     { return e.Span }
func (e *EmptyExpression) String() string             { return "<empty>" }
func (e *EmptyExpression) Accept(visitor Visitor) any { return visitor.VisitEmptyExpression(e) }
func (e *EmptyExpression) expressionNode()            {}
