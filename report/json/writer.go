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

package json

import (
	"encoding/json"
	"io"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/issue"
)

// document is the JSON shape of a report: the summary first, then the
// vulnerabilities in scan order.
type document struct {
	Summary         issue.Summary               `json:"summary"`
	Vulnerabilities []*issue.Issue              `json:"vulnerabilities"`
	Errors          map[string][]phpguard.Error `json:"errors,omitempty"`
	Stats           *phpguard.Metrics           `json:"stats,omitempty"`
	Version         string                      `json:"version,omitempty"`
}

// WriteReport write a report in json format to the output writer
func WriteReport(w io.Writer, data *phpguard.ReportInfo) error {
	doc := document{
		Summary:         data.Summary(),
		Vulnerabilities: data.Issues,
		Errors:          data.Errors,
		Stats:           data.Stats,
		Version:         data.PhpguardVersion,
	}
	if doc.Vulnerabilities == nil {
		doc.Vulnerabilities = []*issue.Issue{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}
