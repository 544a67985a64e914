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

package sonar

import (
	"strings"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/issue"
)

const (
	// EffortMinutes effort to fix in minutes
	EffortMinutes = 5
)

// GenerateReport convert a phpguard report to a Sonar Report. Issues in
// files outside of every root path are left out.
func GenerateReport(rootPaths []string, data *phpguard.ReportInfo) (*Report, error) {
	si := &Report{Issues: []*Issue{}}
	for _, i := range data.Issues {
		sonarFilePath := parseFilePath(i, rootPaths)
		if sonarFilePath == "" {
			continue
		}

		textRange := NewTextRange(i.Line, i.EndLine)
		primaryLocation := NewLocation(i.What, sonarFilePath, textRange)
		severity := getSonarSeverity(i.Severity)

		s := NewIssue("phpguard", i.RuleID, primaryLocation, "VULNERABILITY", severity, EffortMinutes)
		si.Issues = append(si.Issues, s)
	}
	return si, nil
}

func parseFilePath(i *issue.Issue, rootPaths []string) string {
	var sonarFilePath string
	for _, rootPath := range rootPaths {
		if strings.HasPrefix(i.File, rootPath) {
			sonarFilePath = strings.Replace(i.File, rootPath+"/", "", 1)
		}
	}
	return sonarFilePath
}

func getSonarSeverity(s issue.Score) string {
	switch s {
	case issue.Info:
		return "INFO"
	case issue.Low:
		return "MINOR"
	case issue.Medium:
		return "MAJOR"
	case issue.High:
		return "CRITICAL"
	default:
		return "BLOCKER"
	}
}
