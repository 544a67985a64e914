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

// Collection is an insertion ordered list of issues. It never deduplicates:
// two scanners reporting the same line produce two entries.
type Collection struct {
	issues []*Issue
}

// NewCollection creates a collection holding the given issues in order.
func NewCollection(issues ...*Issue) *Collection {
	c := &Collection{}
	for _, i := range issues {
		c.Add(i)
	}
	return c
}

// Add appends an issue to the collection.
func (c *Collection) Add(i *Issue) {
	if i != nil {
		c.issues = append(c.issues, i)
	}
}

// Merge appends the issues of other after the issues already held,
// preserving the relative order of both.
func (c *Collection) Merge(other *Collection) {
	if other == nil {
		return
	}
	c.issues = append(c.issues, other.issues...)
}

// Len returns the number of issues.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.issues)
}

// All returns the issues in insertion order.
func (c *Collection) All() []*Issue {
	if c == nil {
		return nil
	}
	out := make([]*Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Summary returns the derived counters of the collection.
func (c *Collection) Summary() Summary {
	return Summarize(c.All())
}

// Summary holds the totals handed to reporters.
type Summary struct {
	Total      int            `json:"total" yaml:"total"`
	BySeverity map[string]int `json:"by_severity" yaml:"by_severity"`
	ByType     map[string]int `json:"by_type" yaml:"by_type"`
}

// Summarize counts issues by severity and by vulnerability type. Every
// severity level is present in BySeverity, including those with no issues.
func Summarize(issues []*Issue) Summary {
	s := Summary{
		BySeverity: make(map[string]int, len(Severities)),
		ByType:     make(map[string]int),
	}
	for _, sev := range Severities {
		s.BySeverity[sev.String()] = 0
	}
	for _, i := range issues {
		s.Total++
		s.BySeverity[i.Severity.String()]++
		s.ByType[i.Type]++
	}
	return s
}
