package taint

import "github.com/phpguard/phpguard/syntax"

// Status is the taint status recorded for a variable.
type Status int

const (
	// Unknown is the status of a variable with no recorded assignment
	Unknown Status = iota
	// Tainted marks a variable last assigned attacker controlled data
	Tainted
	// Sanitized marks a variable last assigned the result of a sanitizer
	Sanitized
)

func (s Status) String() string {
	switch s {
	case Tainted:
		return "tainted"
	case Sanitized:
		return "sanitized"
	}
	return "unknown"
}

type binding struct {
	status Status
	origin *syntax.Assign
}

// State maps variable names to their last recorded status. A State lives
// for exactly one scan of one file and is never shared.
type State struct {
	vars map[string]binding
}

// NewState creates an empty taint state.
func NewState() *State {
	return &State{vars: make(map[string]binding)}
}

// Status returns the recorded status of a variable.
func (s *State) Status(name string) Status {
	return s.vars[name].status
}

// Origin returns the assignment that tainted a variable, or nil.
func (s *State) Origin(name string) *syntax.Assign {
	b := s.vars[name]
	if b.status != Tainted {
		return nil
	}
	return b.origin
}

// Taint records a variable as tainted by the given assignment.
func (s *State) Taint(name string, origin *syntax.Assign) {
	s.vars[name] = binding{status: Tainted, origin: origin}
}

// Sanitize records a variable as holding a sanitized value.
func (s *State) Sanitize(name string) {
	s.vars[name] = binding{status: Sanitized}
}

// Reset forgets any status recorded for a variable.
func (s *State) Reset(name string) {
	delete(s.vars, name)
}
