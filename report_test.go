package phpguard_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/issue"
)

var _ = Describe("ReportInfo", func() {
	Describe("NewReportInfo", func() {
		It("should create a report with issues, metrics, and errors", func() {
			issues := []*issue.Issue{
				{RuleID: "P201", What: "test issue 1", Severity: issue.High, Type: "SQL Injection"},
				{RuleID: "P204", What: "test issue 2", Severity: issue.Critical, Type: "Command Injection"},
			}
			metrics := &phpguard.Metrics{
				NumFiles: 10,
				NumLines: 1000,
				NumNosec: 5,
				NumFound: 2,
			}
			errors := map[string][]phpguard.Error{
				"broken.php": {{Line: 1, Column: 1, Err: "syntax error"}},
			}

			report := phpguard.NewReportInfo(issues, metrics, errors)
			Expect(report).ShouldNot(BeNil())
			Expect(report.Issues).Should(HaveLen(2))
			Expect(report.Stats).Should(Equal(metrics))
			Expect(report.Errors).Should(HaveLen(1))

			summary := report.Summary()
			Expect(summary.Total).Should(Equal(2))
			Expect(summary.BySeverity).Should(HaveKeyWithValue("critical", 1))
			Expect(summary.ByType).Should(HaveKeyWithValue("SQL Injection", 1))
		})

		It("should handle nil metrics and errors", func() {
			issues := []*issue.Issue{{RuleID: "P203"}}

			report := phpguard.NewReportInfo(issues, nil, nil)
			Expect(report).ShouldNot(BeNil())
			Expect(report.Issues).Should(HaveLen(1))
			Expect(report.Stats).Should(BeNil())
			Expect(report.Errors).Should(BeNil())
		})
	})

	Describe("WithVersion", func() {
		It("should set the phpguard version", func() {
			report := phpguard.NewReportInfo([]*issue.Issue{}, &phpguard.Metrics{}, nil)
			result := report.WithVersion("1.2.0")

			Expect(result).Should(BeIdenticalTo(report))
			Expect(report.PhpguardVersion).Should(Equal("1.2.0"))
		})

		It("should overwrite existing version", func() {
			report := phpguard.NewReportInfo([]*issue.Issue{}, &phpguard.Metrics{}, nil)
			report.WithVersion("1.0.0")
			report.WithVersion("2.0.0")

			Expect(report.PhpguardVersion).Should(Equal("2.0.0"))
		})
	})
})
