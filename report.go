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
	"github.com/phpguard/phpguard/issue"
)

// ReportInfo this is report information
type ReportInfo struct {
	Errors          map[string][]Error `json:"PHP errors"`
	Issues          []*issue.Issue
	Stats           *Metrics
	PhpguardVersion string
}

// NewReportInfo instantiate a ReportInfo
func NewReportInfo(issues []*issue.Issue, metrics *Metrics, errors map[string][]Error) *ReportInfo {
	return &ReportInfo{
		Errors: errors,
		Issues: issues,
		Stats:  metrics,
	}
}

// WithVersion defines the version of phpguard used to generate the report
func (r *ReportInfo) WithVersion(version string) *ReportInfo {
	r.PhpguardVersion = version
	return r
}

// Summary aggregates the issues of the report.
func (r *ReportInfo) Summary() issue.Summary {
	return issue.Summarize(r.Issues)
}
