package parser

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phpguard/phpguard/syntax"
)

// embeddedVar matches simple variable interpolation inside template text
// that the grammar leaves opaque (e.g. some backtick commands).
var embeddedVar = regexp.MustCompile(`(^|[^\\])\$([A-Za-z_\x80-\xff][A-Za-z0-9_\x80-\xff]*)`)

var includeKeywords = map[string]string{
	"include_expression":      "include",
	"include_once_expression": "include_once",
	"require_expression":      "require",
	"require_once_expression": "require_once",
}

var literalKinds = map[string]bool{
	"string":  true,
	"integer": true,
	"float":   true,
	"boolean": true,
	"null":    true,
	"nowdoc":  true,
}

var templateText = map[string]bool{
	"string_value":    true,
	"string_content":  true,
	"escape_sequence": true,
	"heredoc_start":   true,
	"heredoc_end":     true,
	"nowdoc_string":   true,
}

type lowerer struct {
	src      []byte
	comments []*syntax.Comment
}

func (l *lowerer) pos(n *sitter.Node) syntax.Pos {
	start := int(n.StartPoint().Row) + 1
	end := int(n.EndPoint().Row) + 1
	// a node ending at column 0 stops on the previous line
	if n.EndPoint().Column == 0 && end > start {
		end--
	}
	return syntax.Pos{Lines: syntax.Span{Start: start, End: end}}
}

func (l *lowerer) text(n *sitter.Node) string {
	return n.Content(l.src)
}

// lowerNamed lowers every named child of n, dropping those that produce no
// node (comments, tags). The statement following a <?= tag becomes an echo.
func (l *lowerer) lowerNamed(n *sitter.Node) []syntax.Node {
	var out []syntax.Node
	var tag *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch {
		case tag != nil && c.Type() == "expression_statement":
			out = append(out, l.shortEcho(tag, c))
			tag = nil
			continue
		case c.Type() != "comment":
			tag = l.echoTag(c)
		}
		if e := l.lower(c); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// echoTag returns the <?= tag that n is or ends with, if any. A tag reopened
// after inline HTML is the last child of the text_interpolation node.
func (l *lowerer) echoTag(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "php_tag":
		if strings.HasPrefix(l.text(n), "<?=") {
			return n
		}
	case "text_interpolation":
		if last := lastNamed(n); last != nil {
			return l.echoTag(last)
		}
	}
	return nil
}

// shortEcho lowers "<?= expr ?>" into an echo spanning the tag and expression.
func (l *lowerer) shortEcho(tag, stmt *sitter.Node) syntax.Node {
	pos := l.pos(stmt)
	pos.Lines = pos.Lines.Join(l.pos(tag).Lines)
	return &syntax.Echo{Pos: pos, Exprs: l.sequence(stmt)}
}

// firstNamed returns the first named child that is not a comment.
func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "comment" {
			return c
		}
	}
	return nil
}

func lastNamed(n *sitter.Node) *sitter.Node {
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		c := n.NamedChild(i)
		if c.Type() != "comment" {
			return c
		}
	}
	return nil
}

// operator returns the operator token of a binary or augmented assignment
// expression.
func operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); !c.IsNamed() {
			return c.Type()
		}
	}
	return ""
}

// calleeName normalizes a function or method name: namespace qualifiers
// are stripped and the result is lowercased.
func calleeName(s string) string {
	if i := strings.LastIndex(s, `\`); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}

func (l *lowerer) lower(n *sitter.Node) syntax.Node {
	if n == nil {
		return nil
	}
	typ := n.Type()
	switch typ {
	case "comment":
		l.comments = append(l.comments, &syntax.Comment{Pos: l.pos(n), Text: l.text(n)})
		return nil
	case "php_tag", "text", "text_interpolation":
		return nil
	case "expression_statement", "parenthesized_expression":
		return l.lower(firstNamed(n))
	case "echo_statement":
		return &syntax.Echo{Pos: l.pos(n), Exprs: l.sequence(n)}
	case "print_intrinsic":
		return &syntax.Print{Pos: l.pos(n), Expr: l.lower(firstNamed(n))}
	case "include_expression", "include_once_expression", "require_expression", "require_once_expression":
		return &syntax.Include{Pos: l.pos(n), Expr: l.lower(firstNamed(n)), Keyword: includeKeywords[typ]}
	case "assignment_expression":
		return l.assign(n, "=")
	case "reference_assignment_expression":
		return l.assign(n, "=&")
	case "augmented_assignment_expression":
		return l.assign(n, operator(n))
	case "binary_expression":
		return l.binary(n)
	case "variable_name":
		return &syntax.Variable{Pos: l.pos(n), Name: strings.TrimPrefix(l.text(n), "$")}
	case "subscript_expression":
		return l.access(n, firstNamed(n))
	case "member_access_expression", "nullsafe_member_access_expression":
		return l.access(n, n.ChildByFieldName("object"))
	case "function_call_expression":
		return l.functionCall(n)
	case "member_call_expression", "nullsafe_member_call_expression":
		return l.methodCall(n, syntax.MethodCall, "object")
	case "scoped_call_expression":
		return l.methodCall(n, syntax.StaticCall, "scope")
	case "encapsed_string", "heredoc", "shell_command_expression":
		return l.template(n)
	}
	if literalKinds[typ] {
		return &syntax.Literal{Pos: l.pos(n), Value: l.text(n)}
	}
	return &syntax.Other{Pos: l.pos(n), Label: typ, Nodes: l.lowerNamed(n)}
}

// sequence flattens the comma separated operands of an echo statement.
func (l *lowerer) sequence(n *sitter.Node) []syntax.Node {
	var out []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "sequence_expression" {
			out = append(out, l.sequence(c)...)
			continue
		}
		if e := l.lower(c); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (l *lowerer) assign(n *sitter.Node, op string) syntax.Node {
	left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
	if left == nil || right == nil {
		return &syntax.Other{Pos: l.pos(n), Label: n.Type(), Nodes: l.lowerNamed(n)}
	}
	return &syntax.Assign{Pos: l.pos(n), Target: l.lower(left), Value: l.lower(right), Op: op}
}

func (l *lowerer) binary(n *sitter.Node) syntax.Node {
	left, right := l.lower(n.ChildByFieldName("left")), l.lower(n.ChildByFieldName("right"))
	if operator(n) == "." && left != nil && right != nil {
		return &syntax.Concat{Pos: l.pos(n), Left: left, Right: right}
	}
	var nodes []syntax.Node
	for _, c := range []syntax.Node{left, right} {
		if c != nil {
			nodes = append(nodes, c)
		}
	}
	return &syntax.Other{Pos: l.pos(n), Label: n.Type(), Nodes: nodes}
}

// access lowers subscripts and property reads. Accesses rooted at a variable
// become an indexed reference to that variable.
func (l *lowerer) access(n, base *sitter.Node) syntax.Node {
	var head syntax.Node
	var rest []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if base != nil && sameNode(c, base) {
			head = l.lower(c)
			continue
		}
		if c.Type() == "name" {
			continue
		}
		if e := l.lower(c); e != nil {
			rest = append(rest, e)
		}
	}
	if v, ok := head.(*syntax.Variable); ok {
		return &syntax.Variable{
			Pos:     l.pos(n),
			Name:    v.Name,
			Indexed: true,
			Access:  append(append([]syntax.Node{}, v.Access...), rest...),
		}
	}
	if head != nil {
		rest = append([]syntax.Node{head}, rest...)
	}
	return &syntax.Other{Pos: l.pos(n), Label: n.Type(), Nodes: rest}
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func (l *lowerer) arguments(n *sitter.Node) []syntax.Node {
	if n == nil {
		return nil
	}
	var args []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "comment":
			continue
		case "argument":
			if e := l.lower(lastNamed(c)); e != nil {
				args = append(args, e)
			}
		default:
			if e := l.lower(c); e != nil {
				args = append(args, e)
			}
		}
	}
	return args
}

func (l *lowerer) functionCall(n *sitter.Node) syntax.Node {
	call := &syntax.Call{Pos: l.pos(n), Form: syntax.FunctionCall}
	fn := n.ChildByFieldName("function")
	if fn != nil {
		switch fn.Type() {
		case "name", "qualified_name":
			call.Name = calleeName(l.text(fn))
		default:
			call.Receiver = l.lower(fn)
		}
	}
	call.Args = l.arguments(n.ChildByFieldName("arguments"))
	return call
}

func (l *lowerer) methodCall(n *sitter.Node, form syntax.CallForm, receiver string) syntax.Node {
	call := &syntax.Call{Pos: l.pos(n), Form: form}
	if name := n.ChildByFieldName("name"); name != nil && name.Type() == "name" {
		call.Name = calleeName(l.text(name))
	}
	call.Receiver = l.lower(n.ChildByFieldName(receiver))
	call.Args = l.arguments(n.ChildByFieldName("arguments"))
	return call
}

func (l *lowerer) template(n *sitter.Node) syntax.Node {
	tpl := &syntax.Interpolated{Pos: l.pos(n), Shell: n.Type() == "shell_command_expression"}
	tpl.Parts = l.templateParts(n)
	if textOnly(tpl.Parts) {
		tpl.Parts = append(tpl.Parts, l.scanVariables(n)...)
	}
	return tpl
}

// textOnly reports whether the grammar left every part of a template as
// literal text.
func textOnly(parts []syntax.Node) bool {
	for _, p := range parts {
		if _, ok := p.(*syntax.Literal); !ok {
			return false
		}
	}
	return true
}

func (l *lowerer) templateParts(n *sitter.Node) []syntax.Node {
	var parts []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch {
		case templateText[c.Type()]:
			parts = append(parts, &syntax.Literal{Pos: l.pos(c), Value: l.text(c)})
		case c.Type() == "heredoc_body":
			parts = append(parts, l.templateParts(c)...)
		default:
			if e := l.lower(c); e != nil {
				parts = append(parts, e)
			}
		}
	}
	return parts
}

// scanVariables recovers unescaped $name references from template text the
// grammar did not split into parts.
func (l *lowerer) scanVariables(n *sitter.Node) []syntax.Node {
	var vars []syntax.Node
	body := l.text(n)
	start := int(n.StartPoint().Row) + 1
	for _, m := range embeddedVar.FindAllStringSubmatchIndex(body, -1) {
		line := start + strings.Count(body[:m[4]], "\n")
		vars = append(vars, &syntax.Variable{
			Pos:  syntax.Pos{Lines: syntax.Span{Start: line, End: line}},
			Name: body[m[4]:m[5]],
		})
	}
	return vars
}
