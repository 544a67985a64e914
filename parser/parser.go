// Package parser turns PHP source text into the syntax tree consumed by the
// taint engine. It is backed by the tree-sitter PHP grammar.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/phpguard/phpguard/syntax"
)

// Error is returned when the source cannot be parsed into a complete tree.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parse parses src and lowers it into a syntax.File. Partial trees are never
// returned: any syntax error yields a nil file and an *Error.
func Parse(ctx context.Context, src []byte) (*syntax.File, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(php.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root)
	}

	l := &lowerer{src: src}
	file := &syntax.File{Pos: l.pos(root)}
	file.Stmts = l.lowerNamed(root)
	file.Comments = l.comments
	return file, nil
}

// syntaxError locates the first ERROR or missing node below n.
func syntaxError(n *sitter.Node) *Error {
	for {
		if n.Type() == "ERROR" || n.IsMissing() {
			break
		}
		var next *sitter.Node
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c != nil && (c.HasError() || c.IsMissing()) {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		n = next
	}
	msg := "syntax error"
	if n.IsMissing() {
		msg = fmt.Sprintf("missing %q", n.Type())
	}
	return &Error{
		Line:    int(n.StartPoint().Row) + 1,
		Column:  int(n.StartPoint().Column) + 1,
		Message: msg,
	}
}
