package taint_test

import (
	"github.com/phpguard/phpguard/syntax"
)

func at(line int) syntax.Pos {
	return syntax.Pos{Lines: syntax.Span{Start: line, End: line}}
}

func variable(line int, name string) *syntax.Variable {
	return &syntax.Variable{Pos: at(line), Name: name}
}

func superglobal(line int, name string) *syntax.Variable {
	return &syntax.Variable{Pos: at(line), Name: name, Indexed: true, Access: []syntax.Node{
		&syntax.Literal{Pos: at(line), Value: "'id'"},
	}}
}

func lit(line int, value string) *syntax.Literal {
	return &syntax.Literal{Pos: at(line), Value: value}
}

func concat(line int, left, right syntax.Node) *syntax.Concat {
	return &syntax.Concat{Pos: at(line), Left: left, Right: right}
}

func assign(line int, name string, value syntax.Node) *syntax.Assign {
	return &syntax.Assign{Pos: at(line), Target: variable(line, name), Value: value, Op: "="}
}

func appendAssign(line int, name string, value syntax.Node) *syntax.Assign {
	return &syntax.Assign{Pos: at(line), Target: variable(line, name), Value: value, Op: ".="}
}

func call(line int, name string, args ...syntax.Node) *syntax.Call {
	return &syntax.Call{Pos: at(line), Form: syntax.FunctionCall, Name: name, Args: args}
}

func method(line int, name string, args ...syntax.Node) *syntax.Call {
	return &syntax.Call{Pos: at(line), Form: syntax.MethodCall, Name: name, Receiver: variable(line, "db"), Args: args}
}

func echo(line int, exprs ...syntax.Node) *syntax.Echo {
	return &syntax.Echo{Pos: at(line), Exprs: exprs}
}

func template(line int, parts ...syntax.Node) *syntax.Interpolated {
	return &syntax.Interpolated{Pos: at(line), Parts: parts}
}

func file(stmts ...syntax.Node) *syntax.File {
	end := 1
	for _, s := range stmts {
		if s.Span().End > end {
			end = s.Span().End
		}
	}
	return &syntax.File{Pos: syntax.Pos{Lines: syntax.Span{Start: 1, End: end}}, Stmts: stmts}
}
