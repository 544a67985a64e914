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

package phpguard

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phpguard/phpguard/issue"
	"github.com/phpguard/phpguard/syntax"
)

// ruleIDPattern matches the rule ids listed after a suppression tag
var ruleIDPattern = regexp.MustCompile(`\bP\d{3}\b`)

// defaultNoSecTags are the markers recognized in comments
var defaultNoSecTags = []string{"#nosec", "@nosec"}

// directive is a suppression found in a source comment.
type directive struct {
	lines         syntax.Span
	rules         map[string]bool
	justification string
}

// covers reports whether the directive applies to the issue. A directive
// applies to the lines of the finding and to the line right above it.
func (d directive) covers(i *issue.Issue) bool {
	if d.lines.End < i.Line-1 || d.lines.Start > i.EndLine {
		return false
	}
	return len(d.rules) == 0 || d.rules[i.RuleID]
}

// findTag returns the text following the first tag in the comment. A tag
// directly followed by a word character does not count.
func findTag(text string, tags []string) (string, bool) {
	for _, tag := range tags {
		for off := 0; ; {
			idx := strings.Index(text[off:], tag)
			if idx < 0 {
				break
			}
			off += idx + len(tag)
			rest := text[off:]
			r, _ := utf8.DecodeRuneInString(rest)
			if rest == "" || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
				return rest, true
			}
		}
	}
	return "", false
}

func (a *Analyzer) noSecTags() []string {
	tags := defaultNoSecTags
	if alt, err := a.config.GetGlobal(NoSecAlternative); err == nil && alt != "" {
		tags = append(append([]string{}, tags...), alt)
	}
	return tags
}

// directives collects the suppressions of a file. None are returned when
// the nosec global is enabled.
func (a *Analyzer) directives(file *syntax.File) []directive {
	if a.ignoreNosec || file == nil {
		return nil
	}
	tags := a.noSecTags()
	var dirs []directive
	for _, c := range file.Comments {
		rest, ok := findTag(c.Text, tags)
		if !ok {
			continue
		}
		d := directive{lines: c.Span(), rules: make(map[string]bool)}
		if before, after, found := strings.Cut(rest, "--"); found {
			rest = before
			d.justification = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(after), "*/"))
		}
		for _, id := range ruleIDPattern.FindAllString(rest, -1) {
			d.rules[id] = true
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// suppressions lists every suppression that applies to the issue.
func (a *Analyzer) suppressions(i *issue.Issue, dirs []directive) []issue.SuppressionInfo {
	var sups []issue.SuppressionInfo
	if a.ruleSuppressed[i.RuleID] {
		sups = append(sups, issue.SuppressionInfo{
			Kind:          "external",
			Justification: "Globally suppressed.",
		})
	}
	for _, d := range dirs {
		if d.covers(i) {
			sups = append(sups, issue.SuppressionInfo{
				Kind:          "inSource",
				Justification: d.justification,
			})
		}
	}
	return sups
}

// filter applies path exclusions and suppressions to the findings of one
// file. Suppressed findings are kept, marked, only when suppressions are
// tracked. It returns the kept findings and the number of suppressed ones.
func (a *Analyzer) filter(file *syntax.File, found *issue.Collection) (*issue.Collection, int) {
	dirs := a.directives(file)
	kept := issue.NewCollection()
	suppressed := 0
	for _, i := range found.All() {
		if a.pathFilter.ShouldExclude(i.File, i.RuleID) {
			continue
		}
		if sups := a.suppressions(i, dirs); len(sups) > 0 {
			suppressed++
			if !a.trackSuppressions {
				continue
			}
			i.Suppressions = sups
		}
		kept.Add(i)
	}
	return kept, suppressed
}
