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

package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/issue"
)

type document struct {
	Summary         issue.Summary               `yaml:"summary"`
	Vulnerabilities []*issue.Issue              `yaml:"vulnerabilities"`
	Errors          map[string][]phpguard.Error `yaml:"errors,omitempty"`
	Stats           *phpguard.Metrics           `yaml:"stats,omitempty"`
}

// WriteReport write a report in yaml format to the output writer
func WriteReport(w io.Writer, data *phpguard.ReportInfo) error {
	raw, err := yaml.Marshal(document{
		Summary:         data.Summary(),
		Vulnerabilities: data.Issues,
		Errors:          data.Errors,
		Stats:           data.Stats,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
