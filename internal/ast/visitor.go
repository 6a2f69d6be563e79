package ast

import (
	"fmt"
	"io"
	"strings"
)

// Visitor has one method per node kind so passes can be written without
// modifying the node types.
type Visitor interface {
	VisitProgram(node *Program) any
	VisitLetStatement(node *LetStatement) any
	VisitIdentifier(node *Identifier) any
	VisitEmptyExpression(node *EmptyExpression) any
}

// BaseVisitor returns nil for every node. Embed it to override only the
// methods a pass needs.
type BaseVisitor struct{}

func (v *BaseVisitor) VisitProgram(node *Program) any                 { return nil }
func (v *BaseVisitor) VisitLetStatement(node *LetStatement) any       { return nil }
func (v *BaseVisitor) VisitIdentifier(node *Identifier) any           { return nil }
func (v *BaseVisitor) VisitEmptyExpression(node *EmptyExpression) any { return nil }

// WalkingVisitor traverses the whole tree in pre-order, calling the wrapped
// visitor on every node.
type WalkingVisitor struct {
	visitor Visitor
}

// NewWalkingVisitor creates a new walking visitor that delegates to the provided visitor.
func NewWalkingVisitor(visitor Visitor) *WalkingVisitor {
	return &WalkingVisitor{visitor: visitor}
}

// Walk traverses the AST starting from the given node.
func (w *WalkingVisitor) Walk(node Node) any {
	if node == nil {
		return nil
	}
	return node.Accept(w)
}

func (w *WalkingVisitor) VisitProgram(node *Program) any {
	result := w.visitor.VisitProgram(node)
	for _, stmt := range node.Statements {
		if stmt != nil {
			stmt.Accept(w)
		}
	}
	return result
}

func (w *WalkingVisitor) VisitLetStatement(node *LetStatement) any {
	result := w.visitor.VisitLetStatement(node)
	if node.Name != nil {
		node.Name.Accept(w)
	}
	if node.Value != nil {
		node.Value.Accept(w)
	}
	return result
}

func (w *WalkingVisitor) VisitIdentifier(node *Identifier) any {
	return w.visitor.VisitIdentifier(node)
}

func (w *WalkingVisitor) VisitEmptyExpression(node *EmptyExpression) any {
	return w.visitor.VisitEmptyExpression(node)
}

// Bindings returns the let statements under node in source order
func Bindings(node Node) []*LetStatement {
	c := &bindingCollector{}
	NewWalkingVisitor(c).Walk(node)
	return c.lets
}

type bindingCollector struct {
	BaseVisitor
	lets []*LetStatement
}

func (c *bindingCollector) VisitLetStatement(node *LetStatement) any {
	c.lets = append(c.lets, node)
	return nil
}

// Print writes an indented dump of the tree rooted at node.
func Print(w io.Writer, node Node) error {
	p := &treePrinter{w: w}
	if node != nil {
		node.Accept(p)
	}
	return p.err
}

type treePrinter struct {
	w     io.Writer
	depth int
	err   error
}

func (p *treePrinter) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.depth), fmt.Sprintf(format, args...))
}

func (p *treePrinter) VisitProgram(node *Program) any {
	p.line("Program (%d statements)", len(node.Statements))
	p.depth++
	for _, stmt := range node.Statements {
		stmt.Accept(p)
	}
	p.depth--
	return nil
}

func (p *treePrinter) VisitLetStatement(node *LetStatement) any {
	p.line("LetStatement @%s", node.Span)
	p.depth++
	if node.Name != nil {
		node.Name.Accept(p)
	}
	if node.Value != nil {
		node.Value.Accept(p)
	}
	p.depth--
	return nil
}

func (p *treePrinter) VisitIdentifier(node *Identifier) any {
	p.line("Identifier %q", node.Value)
	return nil
}

func (p *treePrinter) VisitEmptyExpression(node *EmptyExpression) any {
	p.line("EmptyExpression")
	return nil
}
