// Package taint provides the taint propagation engine of phpguard.
// It tracks data flow from sources (superglobals) through assignments and
// string concatenation to sinks (dangerous calls and output statements)
// in a single source-ordered pass over a PHP syntax tree.
//
// The analysis is intraprocedural and branch insensitive: a status recorded
// for a variable stays visible to all code that follows it in the file.
package taint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phpguard/phpguard/syntax"
)

// SinkKind identifies the construct a sink matches.
type SinkKind int

const (
	// FunctionSink matches free function calls by name
	FunctionSink SinkKind = iota
	// MethodSink matches instance and static method calls by name, on any receiver
	MethodSink
	// EchoSink matches echo statements
	EchoSink
	// PrintSink matches print expressions
	PrintSink
	// IncludeSink matches include and require expressions
	IncludeSink
)

func (k SinkKind) String() string {
	switch k {
	case FunctionSink:
		return "function"
	case MethodSink:
		return "method"
	case EchoSink:
		return "echo"
	case PrintSink:
		return "print"
	case IncludeSink:
		return "include"
	}
	return "unknown"
}

// Operand selects when a sink payload is flagged.
type Operand int

const (
	// TaintedOperand flags payloads that evaluate as tainted
	TaintedOperand Operand = iota
	// VariableOperand additionally flags any variable payload, whatever its status
	VariableOperand
)

// Sink defines a dangerous call or statement that should not receive tainted data.
type Sink struct {
	// Kind is the construct matched by the sink
	Kind SinkKind
	// Name is the lowercased function or method name. Unused for statement sinks.
	Name string
	// CheckArgs specifies which argument positions carry the payload (0-indexed).
	// If nil or empty, all arguments are checked. A position missing at the
	// call site is skipped.
	CheckArgs []int
	// Operand is the flagging policy for payloads
	Operand Operand
	// Description, Suggestion and CWE override the rule defaults for findings
	// reported by this sink.
	Description string
	Suggestion  string
	CWE         string
}

// Config holds the rule catalog of one vulnerability class.
type Config struct {
	// Sources are variable names (without $) that are tainted whenever read
	Sources []string
	// Sinks is the list of dangerous calls and statements
	Sinks []Sink
	// Sanitizers are function names whose result is never tainted
	Sanitizers []string

	// UnknownTainted treats variables with no recorded status as attacker controlled
	UnknownTainted bool
	// RequireRecordedTaint only flags a lone variable payload when an earlier
	// assignment recorded it as tainted
	RequireRecordedTaint bool
	// TrackOrigins extends findings to cover the assignment that tainted the payload
	TrackOrigins bool
	// FlagTemplates reports interpolated strings embedding a tainted variable
	FlagTemplates bool
}

// Extend returns a copy of c with additional sources, sinks and sanitizers.
func (c Config) Extend(sources []string, sinks []Sink, sanitizers []string) Config {
	ext := c
	ext.Sources = append(append([]string{}, c.Sources...), sources...)
	ext.Sinks = append(append([]Sink{}, c.Sinks...), sinks...)
	ext.Sanitizers = append(append([]string{}, c.Sanitizers...), sanitizers...)
	return ext
}

// ParseSink parses the textual form of a sink used in configuration files:
//
//	name            free function, all arguments
//	name(1)         free function, argument 1
//	->name(0,2)     method on any receiver, arguments 0 and 2
//	echo|print|include
func ParseSink(spec string) (Sink, error) {
	s := strings.TrimSpace(spec)
	sink := Sink{Kind: FunctionSink}
	switch strings.ToLower(s) {
	case "echo":
		return Sink{Kind: EchoSink}, nil
	case "print":
		return Sink{Kind: PrintSink}, nil
	case "include":
		return Sink{Kind: IncludeSink, Operand: VariableOperand}, nil
	}
	if rest, ok := strings.CutPrefix(s, "->"); ok {
		sink.Kind = MethodSink
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "::"); ok {
		sink.Kind = MethodSink
		s = rest
	}
	if open := strings.IndexByte(s, '('); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return Sink{}, fmt.Errorf("invalid sink %q: unterminated argument list", spec)
		}
		for _, f := range strings.Split(s[open+1:len(s)-1], ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			idx, err := strconv.Atoi(f)
			if err != nil || idx < 0 {
				return Sink{}, fmt.Errorf("invalid sink %q: bad argument index %q", spec, f)
			}
			sink.CheckArgs = append(sink.CheckArgs, idx)
		}
		s = s[:open]
	}
	if s == "" {
		return Sink{}, fmt.Errorf("invalid sink %q: missing name", spec)
	}
	sink.Name = strings.ToLower(s)
	return sink, nil
}

// Analyzer is a scanner binding one rule catalog to the shared walker.
// It holds no per-scan state and is safe for concurrent use.
type Analyzer struct {
	rule       *RuleInfo
	config     *Config
	sources    map[string]struct{}
	functions  map[string]*Sink
	methods    map[string]*Sink
	statements map[SinkKind]*Sink
	sanitizers map[string]struct{}
}

// New creates a new taint analyzer for the given rule and configuration.
func New(rule *RuleInfo, config *Config) *Analyzer {
	a := &Analyzer{
		rule:       rule,
		config:     config,
		sources:    make(map[string]struct{}),
		functions:  make(map[string]*Sink),
		methods:    make(map[string]*Sink),
		statements: make(map[SinkKind]*Sink),
		sanitizers: make(map[string]struct{}),
	}

	for _, src := range config.Sources {
		a.sources[strings.TrimPrefix(src, "$")] = struct{}{}
	}

	// Index sinks for fast lookup
	for i := range config.Sinks {
		sink := &config.Sinks[i]
		switch sink.Kind {
		case FunctionSink:
			a.functions[strings.ToLower(sink.Name)] = sink
		case MethodSink:
			a.methods[strings.ToLower(sink.Name)] = sink
		default:
			a.statements[sink.Kind] = sink
		}
	}

	for _, san := range config.Sanitizers {
		a.sanitizers[strings.ToLower(san)] = struct{}{}
	}

	return a
}

// ID returns the rule id of the analyzer.
func (a *Analyzer) ID() string {
	return a.rule.ID
}

// Rule returns the rule metadata of the analyzer.
func (a *Analyzer) Rule() *RuleInfo {
	return a.rule
}

func (a *Analyzer) isSource(name string) bool {
	_, ok := a.sources[name]
	return ok
}

func (a *Analyzer) isSanitizerCall(n syntax.Node) bool {
	call, ok := n.(*syntax.Call)
	if !ok || call.Form != syntax.FunctionCall || call.Name == "" {
		return false
	}
	_, ok = a.sanitizers[call.Name]
	return ok
}

// sinkOf returns the sink matched by n, if any.
func (a *Analyzer) sinkOf(n syntax.Node) *Sink {
	switch node := n.(type) {
	case *syntax.Call:
		if node.Name == "" {
			return nil
		}
		if node.Form == syntax.FunctionCall {
			return a.functions[node.Name]
		}
		return a.methods[node.Name]
	case *syntax.Echo:
		return a.statements[EchoSink]
	case *syntax.Print:
		return a.statements[PrintSink]
	case *syntax.Include:
		return a.statements[IncludeSink]
	}
	return nil
}

// isTainted decides whether an expression may carry attacker controlled data.
// It is total over all node kinds; anything it does not model is untainted.
func (a *Analyzer) isTainted(n syntax.Node, st *State) bool {
	switch node := n.(type) {
	case *syntax.Literal:
		return false
	case *syntax.Variable:
		if a.isSource(node.Name) {
			return true
		}
		switch st.Status(node.Name) {
		case Tainted:
			return true
		case Sanitized:
			return false
		default:
			return a.config.UnknownTainted
		}
	case *syntax.Concat:
		return a.isTainted(node.Left, st) || a.isTainted(node.Right, st)
	case *syntax.Interpolated:
		for _, part := range node.Parts {
			if a.isTainted(part, st) {
				return true
			}
		}
		return false
	case *syntax.Call:
		// Sanitizers neutralize taint and propagation stops at any other call.
		return false
	case *syntax.Assign:
		return a.isTainted(node.Value, st)
	}
	return false
}
