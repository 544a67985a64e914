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

package main

import (
	"cmp"
	"slices"

	"github.com/phpguard/phpguard/issue"
)

// compareIssues orders by severity, most severe first, then by location
// and rule id.
func compareIssues(a, b *issue.Issue) int {
	if c := cmp.Compare(b.Severity, a.Severity); c != 0 {
		return c
	}
	if c := cmp.Compare(a.File, b.File); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	return cmp.Compare(a.RuleID, b.RuleID)
}

// sortIssues sorts the issues in place. Issues comparing equal keep their
// relative order.
func sortIssues(issues []*issue.Issue) {
	slices.SortStableFunc(issues, compareIssues)
}
