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

package sarif

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/issue"
)

const (
	// ToolName is the driver name of the run
	ToolName = "phpguard"
	// InformationURI is the home of the tool
	InformationURI = "https://github.com/phpguard/phpguard/"
)

// GenerateReport converts a phpguard report into a SARIF 2.1.0 report with a
// single run. Rules are added in order of first appearance. Every result
// carries the id of the scan that produced it.
func GenerateReport(rootPaths []string, data *phpguard.ReportInfo) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, InformationURI)
	scanID := uuid.New().String()
	version := parseSemanticVersion(data.PhpguardVersion)

	rules := map[string]bool{}
	for _, i := range data.Issues {
		if !rules[i.RuleID] {
			rules[i.RuleID] = true
			run.AddRule(i.RuleID).
				WithDescription(i.What).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: getSarifLevel(i.Severity),
				}).
				WithProperties(ruleProperties(i))
		}

		result := sarif.NewRuleResult(i.RuleID).
			WithMessage(sarif.NewTextMessage(i.What)).
			WithLevel(getSarifLevel(i.Severity)).
			WithLocations([]*sarif.Location{parseSarifLocation(i, rootPaths)})
		result.PropertyBag = *sarif.NewPropertyBag()
		result.Add("scanGuid", scanID)
		result.Add("toolVersion", version)
		result.Add("type", i.Type)
		for _, s := range i.Suppressions {
			result.Suppressions = append(result.Suppressions, sarif.NewSuppression(s.Kind).WithJustification(s.Justification))
		}
		if i.Autofix != "" {
			result.Fixes = append(result.Fixes, &sarif.Fix{Description: sarif.NewTextMessage(i.Autofix)})
		}
		run.AddResult(result)
	}

	report.AddRun(run)
	return report, nil
}

func ruleProperties(i *issue.Issue) sarif.Properties {
	tags := []string{"security", i.Severity.String()}
	props := sarif.Properties{
		"name":       i.Type,
		"suggestion": i.Suggestion,
	}
	if i.Cwe != nil {
		tags = append(tags, "external/cwe/"+strings.ToLower(i.Cwe.SprintID()))
		props["helpUri"] = i.Cwe.SprintURL()
	}
	props["tags"] = tags
	return props
}

func parseSemanticVersion(version string) string {
	if len(version) == 0 {
		return "devel"
	}
	return strings.TrimPrefix(version, "v")
}

func parseSarifLocation(i *issue.Issue, rootPaths []string) *sarif.Location {
	region := sarif.NewRegion().
		WithStartLine(i.Line).
		WithEndLine(i.EndLine).
		WithSnippet(sarif.NewArtifactContent().WithText(i.Code))
	return sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(relativePath(i.File, rootPaths))).
			WithRegion(region),
	)
}

func relativePath(file string, rootPaths []string) string {
	for _, rootPath := range rootPaths {
		if strings.HasPrefix(file, rootPath+"/") {
			return strings.TrimPrefix(file, rootPath+"/")
		}
	}
	return file
}

func getSarifLevel(s issue.Score) string {
	switch s {
	case issue.Critical, issue.High:
		return "error"
	case issue.Medium:
		return "warning"
	default:
		return "note"
	}
}
