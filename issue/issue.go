// (c) Copyright phpguard's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package issue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phpguard/phpguard/cwe"
)

// Score type used by severity values
type Score int

const (
	// Info severity
	Info Score = iota
	// Low severity
	Low
	// Medium severity
	Medium
	// High severity
	High
	// Critical severity
	Critical
)

// Severities lists every score from most to least severe.
var Severities = []Score{Critical, High, Medium, Low, Info}

// ruleToCWE maps phpguard rules to CWEs
var ruleToCWE = map[string]string{
	"P201": "89",
	"P203": "79",
	"P204": "78",
}

// GetCweByRule retrieves a cwe weakness for a given RuleID
func GetCweByRule(id string) *cwe.Weakness {
	cweID, ok := ruleToCWE[id]
	if ok {
		return cwe.Get(cweID)
	}
	return nil
}

// SuppressionInfo object is to record the kind and the justification that used
// to suppress issues.
type SuppressionInfo struct {
	Kind          string `json:"kind"`
	Justification string `json:"justification"`
}

// Issue is returned by a scanner if it discovers a vulnerability in the scanned code.
type Issue struct {
	Severity     Score             `json:"severity" yaml:"severity"`         // issue severity (how problematic it is)
	Cwe          *cwe.Weakness     `json:"cwe" yaml:"cwe"`                   // Cwe associated with RuleID
	RuleID       string            `json:"rule_id" yaml:"rule_id"`           // rule that reported the issue
	Type         string            `json:"type" yaml:"type"`                 // human readable vulnerability class
	What         string            `json:"description" yaml:"description"`   // human readable explanation
	Suggestion   string            `json:"suggestion" yaml:"suggestion"`     // remediation advice
	File         string            `json:"file" yaml:"file"`                 // file name we found it in
	Code         string            `json:"code" yaml:"code"`                 // impacted code lines
	Line         int               `json:"line" yaml:"line"`                 // first line of the finding
	EndLine      int               `json:"end_line" yaml:"end_line"`         // last line of the finding
	Suppressions []SuppressionInfo `json:"suppressions" yaml:"suppressions"` // suppression info of the issue
	Autofix      string            `json:"autofix,omitempty" yaml:"autofix,omitempty"`
}

// New creates a new Issue covering lines [start, end] of src.
func New(file string, start, end int, src []byte, ruleID, desc string, severity Score) *Issue {
	if end < start {
		end = start
	}
	return &Issue{
		File:     file,
		Line:     start,
		EndLine:  end,
		RuleID:   ruleID,
		What:     desc,
		Severity: severity,
		Code:     CodeSnippet(src, start, end),
		Cwe:      GetCweByRule(ruleID),
	}
}

// FileLocation point out the file path and line number in file
func (i *Issue) FileLocation() string {
	return fmt.Sprintf("%s:%d", i.File, i.Line)
}

// LineRange returns the line or the "start-end" range of the issue.
func (i *Issue) LineRange() string {
	if i.EndLine > i.Line {
		return fmt.Sprintf("%d-%d", i.Line, i.EndLine)
	}
	return strconv.Itoa(i.Line)
}

// WithSuppression marks the issue as suppressed.
func (i *Issue) WithSuppression(kind, justification string) *Issue {
	i.Suppressions = append(i.Suppressions, SuppressionInfo{Kind: kind, Justification: justification})
	return i
}

// CodeSnippet returns the verbatim source lines [start, end], 1-indexed and
// clamped to the bounds of src. Lines are joined with "\n".
func CodeSnippet(src []byte, start, end int) string {
	lines := strings.Split(string(src), "\n")
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// String converts a Score into a string
func (c Score) String() string {
	switch c {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	case Info:
		return "info"
	}
	return "undefined"
}

// MarshalText is used to convert a Score object into its textual form in
// JSON, YAML and map keys.
func (c Score) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a textual severity.
func (c *Score) UnmarshalText(text []byte) error {
	s, err := ParseScore(string(text))
	if err != nil {
		return err
	}
	*c = s
	return nil
}

// ParseScore converts a severity name into a Score. The match is case insensitive.
func ParseScore(s string) (Score, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return Critical, nil
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low":
		return Low, nil
	case "info":
		return Info, nil
	}
	return Info, fmt.Errorf("invalid severity %q", s)
}
