// Package syntax defines the closed set of PHP syntax nodes the taint
// engine understands. Nodes are produced by the parser package and are
// never mutated after construction.
package syntax

// Span is a 1-indexed, inclusive line range.
type Span struct {
	Start int
	End   int
}

// Join returns the smallest span covering both s and o.
func (s Span) Join(o Span) Span {
	j := s
	if o.Start < j.Start {
		j.Start = o.Start
	}
	if o.End > j.End {
		j.End = o.End
	}
	return j
}

// Kind discriminates node variants.
type Kind int

const (
	KindFile Kind = iota
	KindLiteral
	KindVariable
	KindConcat
	KindCall
	KindInterpolated
	KindAssign
	KindEcho
	KindPrint
	KindInclude
	KindOther
)

var kindNames = [...]string{
	KindFile:         "file",
	KindLiteral:      "literal",
	KindVariable:     "variable",
	KindConcat:       "concat",
	KindCall:         "call",
	KindInterpolated: "interpolated",
	KindAssign:       "assign",
	KindEcho:         "echo",
	KindPrint:        "print",
	KindInclude:      "include",
	KindOther:        "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is implemented by every syntax variant. The interface is sealed.
type Node interface {
	Kind() Kind
	Span() Span
	Children() []Node
	node()
}

// Pos is embedded in every variant to carry its span.
type Pos struct {
	Lines Span
}

// Span returns the node's line range.
func (p Pos) Span() Span { return p.Lines }

func (Pos) node() {}

// Comment is a source comment. Comments are collected on the File and are
// not part of the statement tree.
type Comment struct {
	Pos
	Text string
}

// File is the root of a parsed source file.
type File struct {
	Pos
	Stmts    []Node
	Comments []*Comment
}

func (*File) Kind() Kind         { return KindFile }
func (f *File) Children() []Node { return f.Stmts }

// Literal is a string, number, boolean, null or nowdoc constant.
type Literal struct {
	Pos
	Value string
}

func (*Literal) Kind() Kind       { return KindLiteral }
func (*Literal) Children() []Node { return nil }

// Variable is a reference to a named variable. Indexed is set for array
// subscripts and property accesses rooted at the variable ($a['k'], $a->p).
// Access holds the lowered index or property expressions.
type Variable struct {
	Pos
	Name    string
	Indexed bool
	Access  []Node
}

func (*Variable) Kind() Kind         { return KindVariable }
func (v *Variable) Children() []Node { return v.Access }

// Concat is the binary string concatenation operator.
type Concat struct {
	Pos
	Left  Node
	Right Node
}

func (*Concat) Kind() Kind         { return KindConcat }
func (c *Concat) Children() []Node { return []Node{c.Left, c.Right} }

// CallForm distinguishes free function calls from method calls.
type CallForm int

const (
	FunctionCall CallForm = iota
	MethodCall
	StaticCall
)

// Call is a function, method or static method invocation. Name is
// lowercased and stripped of any namespace qualifier. Name is empty when
// the callee is computed (e.g. $fn()).
type Call struct {
	Pos
	Form     CallForm
	Name     string
	Receiver Node
	Args     []Node
}

func (*Call) Kind() Kind { return KindCall }

func (c *Call) Children() []Node {
	if c.Receiver == nil {
		return c.Args
	}
	return append([]Node{c.Receiver}, c.Args...)
}

// Arg returns the argument at index i, or nil when absent.
func (c *Call) Arg(i int) Node {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}

// Interpolated is a double quoted string, heredoc or backtick shell command
// with its literal and embedded expression parts.
type Interpolated struct {
	Pos
	Parts []Node
	Shell bool
}

func (*Interpolated) Kind() Kind         { return KindInterpolated }
func (i *Interpolated) Children() []Node { return i.Parts }

// HasVariable reports whether any part is a variable reference.
func (i *Interpolated) HasVariable() bool {
	for _, p := range i.Parts {
		if _, ok := p.(*Variable); ok {
			return true
		}
	}
	return false
}

// Assign is a plain (=), concatenating (.=) or reference (=&) assignment.
type Assign struct {
	Pos
	Target Node
	Value  Node
	Op     string
}

func (*Assign) Kind() Kind         { return KindAssign }
func (a *Assign) Children() []Node { return []Node{a.Target, a.Value} }

// Echo is the echo statement.
type Echo struct {
	Pos
	Exprs []Node
}

func (*Echo) Kind() Kind         { return KindEcho }
func (e *Echo) Children() []Node { return e.Exprs }

// Print is the print language construct.
type Print struct {
	Pos
	Expr Node
}

func (*Print) Kind() Kind         { return KindPrint }
func (p *Print) Children() []Node { return []Node{p.Expr} }

// Include covers include, include_once, require and require_once.
type Include struct {
	Pos
	Expr    Node
	Keyword string
}

func (*Include) Kind() Kind         { return KindInclude }
func (i *Include) Children() []Node { return []Node{i.Expr} }

// Other is any construct the engine does not model. Its lowered children
// are still visited.
type Other struct {
	Pos
	Label string
	Nodes []Node
}

func (*Other) Kind() Kind         { return KindOther }
func (o *Other) Children() []Node { return o.Nodes }
