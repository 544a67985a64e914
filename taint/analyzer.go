package taint

import (
	"github.com/phpguard/phpguard/cwe"
	"github.com/phpguard/phpguard/issue"
	"github.com/phpguard/phpguard/syntax"
)

// RuleInfo holds metadata about a taint analysis rule.
type RuleInfo struct {
	ID          string
	Name        string
	Type        string
	Description string
	Suggestion  string
	Severity    issue.Score
	CWE         string
}

// scan is the state of one pass of an analyzer over one file.
type scan struct {
	*Analyzer
	state  *State
	src    []byte
	path   string
	issues *issue.Collection
}

// Scan walks the tree once in source order and returns the issues found.
// Every call starts from a fresh State, so scanning the same tree twice
// yields identical results.
func (a *Analyzer) Scan(file *syntax.File, src []byte, path string) *issue.Collection {
	s := &scan{
		Analyzer: a,
		state:    NewState(),
		src:      src,
		path:     path,
		issues:   issue.NewCollection(),
	}
	if file != nil {
		s.walk(file, false)
	}
	return s.issues
}

// walk visits root and its children depth-first. inSink is set below a sink
// that was already reported, so its payload is not reported a second time
// as a template.
func (s *scan) walk(root syntax.Node, inSink bool) {
	syntax.Inspect(root, func(n syntax.Node) bool {
		switch node := n.(type) {
		case *syntax.Assign:
			// the state changes only after both sides were checked
			s.walk(node.Target, inSink)
			s.walk(node.Value, inSink)
			s.assign(node)
			return false
		case *syntax.Interpolated:
			if s.config.FlagTemplates && !inSink && s.templateTainted(node) {
				s.record(node.Span(), nil)
			}
		}

		if sink := s.sinkOf(n); sink != nil && s.checkSink(n, sink) {
			for _, c := range n.Children() {
				s.walk(c, true)
			}
			return false
		}
		return true
	})
}

// assign updates the state for an assignment to a plain variable.
// Indexed targets ($a['k'] = ...) leave the state untouched.
func (s *scan) assign(node *syntax.Assign) {
	target, ok := node.Target.(*syntax.Variable)
	if !ok || target.Indexed {
		return
	}
	name := target.Name

	switch node.Op {
	case "=", "=&":
		switch {
		case s.isSanitizerCall(node.Value):
			s.state.Sanitize(name)
		case s.isTainted(node.Value, s.state):
			s.state.Taint(name, node)
		default:
			s.state.Reset(name)
		}
	case ".=":
		// $x .= rhs behaves as $x = $x . rhs, keeping the first origin.
		if s.state.Status(name) == Tainted || s.isTainted(node.Value, s.state) {
			origin := s.state.Origin(name)
			if origin == nil {
				origin = node
			}
			s.state.Taint(name, origin)
		}
	default:
		// arithmetic and bitwise compound assignments produce numbers
		s.state.Reset(name)
	}
}

func (s *scan) templateTainted(tpl *syntax.Interpolated) bool {
	if !tpl.HasVariable() {
		return false
	}
	for _, part := range tpl.Parts {
		if v, ok := part.(*syntax.Variable); ok && s.isTainted(v, s.state) {
			return true
		}
	}
	return false
}

// payloads selects the operands of a sink node per its argument selector.
func payloads(n syntax.Node, sink *Sink) []syntax.Node {
	var args []syntax.Node
	switch node := n.(type) {
	case *syntax.Call:
		args = node.Args
	case *syntax.Echo:
		args = node.Exprs
	case *syntax.Print:
		args = []syntax.Node{node.Expr}
	case *syntax.Include:
		args = []syntax.Node{node.Expr}
	}

	var out []syntax.Node
	if len(sink.CheckArgs) == 0 {
		for _, arg := range args {
			if arg != nil {
				out = append(out, arg)
			}
		}
		return out
	}
	for _, idx := range sink.CheckArgs {
		if idx >= 0 && idx < len(args) && args[idx] != nil {
			out = append(out, args[idx])
		}
	}
	return out
}

func (s *scan) flagged(payload syntax.Node, sink *Sink) bool {
	if v, ok := payload.(*syntax.Variable); ok {
		if sink.Operand == VariableOperand {
			return true
		}
		if s.config.RequireRecordedTaint && !s.isSource(v.Name) {
			return s.state.Status(v.Name) == Tainted
		}
	}
	return s.isTainted(payload, s.state)
}

// checkSink reports n when one of its payloads is flagged. At most one issue
// is reported per sink node.
func (s *scan) checkSink(n syntax.Node, sink *Sink) bool {
	hit := false
	var origin *syntax.Assign
	for _, p := range payloads(n, sink) {
		if !s.flagged(p, sink) {
			continue
		}
		hit = true
		if v, ok := p.(*syntax.Variable); ok && origin == nil && s.config.TrackOrigins {
			origin = s.state.Origin(v.Name)
		}
	}
	if !hit {
		return false
	}

	span := n.Span()
	if origin != nil {
		span = span.Join(origin.Span())
	}
	s.record(span, sink)
	return true
}

// record converts a flagged span into an issue and appends it.
func (s *scan) record(span syntax.Span, sink *Sink) {
	desc, suggestion, cweID := s.rule.Description, s.rule.Suggestion, s.rule.CWE
	if sink != nil {
		if sink.Description != "" {
			desc = sink.Description
		}
		if sink.Suggestion != "" {
			suggestion = sink.Suggestion
		}
		if sink.CWE != "" {
			cweID = sink.CWE
		}
	}

	i := issue.New(s.path, span.Start, span.End, s.src, s.rule.ID, desc, s.rule.Severity)
	i.Type = s.rule.Type
	i.Suggestion = suggestion
	if w := cwe.Get(cweID); w != nil {
		i.Cwe = w
	}
	s.issues.Add(i)
}
