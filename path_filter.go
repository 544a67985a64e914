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
	"fmt"
	"regexp"
	"strings"

	"github.com/phpguard/phpguard/issue"
)

// PathExcludeRule drops findings of the listed rules in files whose path
// matches a regular expression. The rule id "*" matches every rule.
type PathExcludeRule struct {
	Path  string   `json:"path" yaml:"path"`
	Rules []string `json:"rules" yaml:"rules"`
}

type pathMatcher struct {
	path  *regexp.Regexp
	rules map[string]bool
	all   bool
}

func (m pathMatcher) matches(file, ruleID string) bool {
	if !m.path.MatchString(file) {
		return false
	}
	return m.all || m.rules[ruleID]
}

// PathExclusionFilter applies a set of path exclusion rules to findings.
// The zero value and a nil filter exclude nothing.
type PathExclusionFilter struct {
	matchers []pathMatcher
}

// NewPathExclusionFilter compiles the rules into a filter.
func NewPathExclusionFilter(rules []PathExcludeRule) (*PathExclusionFilter, error) {
	f := &PathExclusionFilter{}
	for i, rule := range rules {
		if rule.Path == "" {
			return nil, fmt.Errorf("%s[%d]: path cannot be empty", ExcludeRulesKey, i)
		}
		re, err := regexp.Compile(rule.Path)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: invalid path regex %q: %w", ExcludeRulesKey, i, rule.Path, err)
		}
		m := pathMatcher{path: re, rules: make(map[string]bool)}
		for _, id := range rule.Rules {
			switch id = strings.TrimSpace(id); id {
			case "":
			case "*":
				m.all = true
			default:
				m.rules[id] = true
			}
		}
		f.matchers = append(f.matchers, m)
	}
	return f, nil
}

// Len returns the number of compiled rules.
func (f *PathExclusionFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.matchers)
}

// ShouldExclude reports whether a finding of ruleID in filePath is excluded.
// Backslashes in the path are matched as forward slashes.
func (f *PathExclusionFilter) ShouldExclude(filePath, ruleID string) bool {
	if f.Len() == 0 {
		return false
	}
	file := strings.ReplaceAll(filePath, "\\", "/")
	for _, m := range f.matchers {
		if m.matches(file, ruleID) {
			return true
		}
	}
	return false
}

// FilterIssues returns the issues that are not excluded, in their original
// order, together with the number of excluded issues.
func (f *PathExclusionFilter) FilterIssues(issues []*issue.Issue) ([]*issue.Issue, int) {
	if f.Len() == 0 {
		return issues, 0
	}
	kept := make([]*issue.Issue, 0, len(issues))
	for _, i := range issues {
		if !f.ShouldExclude(i.File, i.RuleID) {
			kept = append(kept, i)
		}
	}
	return kept, len(issues) - len(kept)
}

// ParseCLIExcludeRules parses the command line form of the exclusion rules:
//
//	vendor/.*:P201,P203;legacy/.*:*
func ParseCLIExcludeRules(input string) ([]PathExcludeRule, error) {
	var rules []PathExcludeRule
	for i, part := range strings.Split(input, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sep := strings.LastIndex(part, ":")
		if sep < 0 {
			return nil, fmt.Errorf("%s part %d: missing ':' separator in %q", ExcludeRulesKey, i+1, part)
		}
		path := strings.TrimSpace(part[:sep])
		if path == "" {
			return nil, fmt.Errorf("%s part %d: path pattern cannot be empty", ExcludeRulesKey, i+1)
		}
		var ids []string
		for _, id := range strings.Split(part[sep+1:], ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%s part %d: no rules specified", ExcludeRulesKey, i+1)
		}
		rules = append(rules, PathExcludeRule{Path: path, Rules: ids})
	}
	return rules, nil
}

// MergeExcludeRules puts the command line rules ahead of the configured ones.
func MergeExcludeRules(configRules, cliRules []PathExcludeRule) []PathExcludeRule {
	merged := make([]PathExcludeRule, 0, len(cliRules)+len(configRules))
	merged = append(merged, cliRules...)
	return append(merged, configRules...)
}
