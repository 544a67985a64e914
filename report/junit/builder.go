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

package junit

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/issue"
)

// NewTestsuite instantiate a Testsuite
func NewTestsuite(name string) *Testsuite {
	return &Testsuite{
		Name: name,
	}
}

// NewFailure instantiate a Failure
func NewFailure(message, kind, text string) *Failure {
	return &Failure{
		Message: message,
		Type:    kind,
		Text:    text,
	}
}

// NewTestcase instantiate a Testcase
func NewTestcase(name, classname string, failure *Failure) *Testcase {
	return &Testcase{
		Name:      name,
		Classname: classname,
		Failure:   failure,
	}
}

func generatePlaintext(i *issue.Issue) string {
	return fmt.Sprintf("Results:\n[%s:%s] - %s (Severity: %s, CWE: %s)\n%s\n> %s",
		i.File, i.LineRange(), i.What, i.Severity, i.Cwe.SprintID(), i.Suggestion, i.Code)
}

// GenerateReport converts the issues into a JUnit report with one test
// suite per rule, in order of first appearance.
func GenerateReport(data *phpguard.ReportInfo) *Report {
	report := &Report{ID: uuid.New().String(), Name: "phpguard"}
	suites := map[string]*Testsuite{}

	for _, i := range data.Issues {
		suite, ok := suites[i.RuleID]
		if !ok {
			suite = NewTestsuite(fmt.Sprintf("%s: %s", i.RuleID, i.Type))
			suites[i.RuleID] = suite
			report.Testsuites = append(report.Testsuites, suite)
		}
		failure := NewFailure("Found 1 vulnerability. See stacktrace for details.", i.Type, generatePlaintext(i))
		suite.Testcases = append(suite.Testcases, NewTestcase(i.FileLocation(), i.File, failure))
		suite.Tests++
		suite.Failures++
		report.Tests++
		report.Failures++
	}
	return report
}
