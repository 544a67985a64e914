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

package report

import (
	"io"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/issue"
	"github.com/phpguard/phpguard/report/csv"
	"github.com/phpguard/phpguard/report/golint"
	"github.com/phpguard/phpguard/report/html"
	"github.com/phpguard/phpguard/report/json"
	"github.com/phpguard/phpguard/report/junit"
	"github.com/phpguard/phpguard/report/sarif"
	"github.com/phpguard/phpguard/report/sonar"
	"github.com/phpguard/phpguard/report/text"
	"github.com/phpguard/phpguard/report/yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json", "yaml", "csv", "junit-xml", "html", "sonarqube", "golint", "sarif"}

// IsValidFormat reports whether the format is one of Formats.
func IsValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// CreateReport generates a report based for the supplied issues and metrics given
// the specified format. The formats currently accepted are: json, yaml, csv, junit-xml, html, sonarqube, golint, sarif and text.
// Suppressed issues are only written by the json and sarif formats.
func CreateReport(w io.Writer, format string, enableColor bool, rootPaths []string, data *phpguard.ReportInfo) error {
	var err error
	if format != "json" && format != "sarif" {
		data.Issues = filterOutSuppressedIssues(data.Issues)
	}
	switch format {
	case "json":
		err = json.WriteReport(w, data)
	case "yaml":
		err = yaml.WriteReport(w, data)
	case "csv":
		err = csv.WriteReport(w, data)
	case "junit-xml":
		err = junit.WriteReport(w, data)
	case "html":
		err = html.WriteReport(w, data)
	case "text":
		err = text.WriteReport(w, data, enableColor)
	case "sonarqube":
		err = sonar.WriteReport(w, data, rootPaths)
	case "golint":
		err = golint.WriteReport(w, data)
	case "sarif":
		err = sarif.WriteReport(w, data, rootPaths)
	default:
		err = text.WriteReport(w, data, enableColor)
	}
	return err
}

func filterOutSuppressedIssues(issues []*issue.Issue) []*issue.Issue {
	nonSuppressedIssues := []*issue.Issue{}
	for _, i := range issues {
		if len(i.Suppressions) == 0 {
			nonSuppressedIssues = append(nonSuppressedIssues, i)
		}
	}
	return nonSuppressedIssues
}
