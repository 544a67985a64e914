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

// XSSRule holds the metadata of the cross-site scripting rule.
var XSSRule = taint.RuleInfo{
	ID:          "P203",
	Name:        "XSS Scanner",
	Type:        "Cross-Site Scripting (XSS)",
	Description: "Unescaped user input written to HTML output",
	Suggestion:  "Escape output with htmlspecialchars() or htmlentities() before rendering it",
	Severity:    issue.Medium,
	CWE:         "79",
}

// XSS returns a configuration for detecting Cross-Site Scripting vulnerabilities.
func XSS() taint.Config {
	return taint.Config{
		Sources: Superglobals(),
		Sinks: []taint.Sink{
			{Kind: taint.EchoSink},
			{Kind: taint.PrintSink},
			// Any variable include target is reported, sanitized or not
			{
				Kind:        taint.IncludeSink,
				Operand:     taint.VariableOperand,
				Description: "File inclusion with a variable path",
				Suggestion:  "Include files from a fixed allow-list instead of a user-controlled path",
				CWE:         "98",
			},
		},
		Sanitizers: []string{
			"htmlspecialchars",
			"htmlentities",
			"strip_tags",
			"addslashes",
			"escapeshellarg",
			"escapeshellcmd",
		},
		UnknownTainted: true,
	}
}

// newXSSAnalyzer creates an analyzer for detecting XSS vulnerabilities
func newXSSAnalyzer(id string, settings Settings) (*taint.Analyzer, error) {
	return build(XSSRule, XSS(), id, settings)
}
