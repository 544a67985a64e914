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

package analyzers

import (
	"github.com/phpguard/phpguard/issue"
	"github.com/phpguard/phpguard/taint"
)

// SQLInjectionRule holds the metadata of the SQL injection rule.
var SQLInjectionRule = taint.RuleInfo{
	ID:          "P201",
	Name:        "SQL Injection Scanner",
	Type:        "SQL Injection",
	Description: "Unescaped user input concatenated into SQL query",
	Suggestion:  "Use parameterized queries or prepared statements",
	Severity:    issue.High,
	CWE:         "89",
}

// SQLInjection returns a configuration for detecting SQL injection vulnerabilities.
func SQLInjection() taint.Config {
	return taint.Config{
		Sources: Superglobals(),
		Sinks: []taint.Sink{
			// Query methods on any connection object; every argument may carry SQL
			{Kind: taint.MethodSink, Name: "query"},
			{Kind: taint.MethodSink, Name: "exec"},
			{Kind: taint.MethodSink, Name: "execute"},
			{Kind: taint.MethodSink, Name: "rawquery"},

			// Procedural drivers
			{Kind: taint.FunctionSink, Name: "mysqli_query", CheckArgs: []int{1}},
			{Kind: taint.FunctionSink, Name: "mysql_query", CheckArgs: []int{0}},
			{Kind: taint.FunctionSink, Name: "pg_query", CheckArgs: []int{0, 1}},
		},
		// No sanitizers: placeholders are never built by concatenation, so
		// parameterized queries do not match the taint pattern.
		Sanitizers: nil,

		UnknownTainted:       true,
		RequireRecordedTaint: true,
		TrackOrigins:         true,
	}
}

// newSQLInjectionAnalyzer creates an analyzer for detecting SQL injection vulnerabilities
func newSQLInjectionAnalyzer(id string, settings Settings) (*taint.Analyzer, error) {
	return build(SQLInjectionRule, SQLInjection(), id, settings)
}
