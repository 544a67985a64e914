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

package golint

import (
	"fmt"
	"io"

	"github.com/phpguard/phpguard"
)

// WriteReport write a report in golint format to the output writer
func WriteReport(w io.Writer, data *phpguard.ReportInfo) error {
	// Format: file:line:column: message
	for _, issue := range data.Issues {
		what := issue.What
		if issue.Cwe != nil && issue.Cwe.ID != "" {
			what = fmt.Sprintf("[%s] %s", issue.Cwe.SprintID(), issue.What)
		}

		_, err := fmt.Fprintf(w, "%s:%d:%d: %s (Rule:%s, Severity:%s)\n",
			issue.File,
			issue.Line,
			1,
			what,
			issue.RuleID,
			issue.Severity.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
