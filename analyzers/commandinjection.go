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

// CommandInjectionRule holds the metadata of the command injection rule.
var CommandInjectionRule = taint.RuleInfo{
	ID:          "P204",
	Name:        "Command Injection Scanner",
	Type:        "Command Injection",
	Description: "User input used to build a shell command",
	Suggestion:  "Avoid shell execution with user input; quote arguments with escapeshellarg() when unavoidable",
	Severity:    issue.Critical,
	CWE:         "78",
}

// CommandInjection returns a configuration for detecting command injection vulnerabilities.
func CommandInjection() taint.Config {
	return taint.Config{
		Sources: Superglobals(),
		Sinks: []taint.Sink{
			{Kind: taint.FunctionSink, Name: "exec"},
			{Kind: taint.FunctionSink, Name: "passthru"},
			{Kind: taint.FunctionSink, Name: "system"},
			{Kind: taint.FunctionSink, Name: "shell_exec"},
			{Kind: taint.FunctionSink, Name: "popen"},
			{Kind: taint.FunctionSink, Name: "proc_open"},
			{Kind: taint.FunctionSink, Name: "pcntl_exec"},
		},
		UnknownTainted: true,
		// Backtick commands and other templates embedding a variable
		FlagTemplates: true,
	}
}

// newCommandInjectionAnalyzer creates an analyzer for detecting command injection vulnerabilities
func newCommandInjectionAnalyzer(id string, settings Settings) (*taint.Analyzer, error) {
	return build(CommandInjectionRule, CommandInjection(), id, settings)
}
