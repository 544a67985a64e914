package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/cmd/vflag"
	"github.com/phpguard/phpguard/issue"
	"github.com/phpguard/phpguard/testutils"
)

var _ = BeforeSuite(func() {
	// Initialize logger for tests that use loadAnalyzers
	logger = log.New(io.Discard, "", 0)
})

var _ = Describe("usage", func() {
	It("should print usage information to stderr", func() {
		// Capture stderr
		old := os.Stderr
		r, w, _ := os.Pipe()
		os.Stderr = w

		usage()

		w.Close()
		os.Stderr = old

		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		output := buf.String()

		Expect(output).To(ContainSubstring("OPTIONS:"))
		Expect(output).To(ContainSubstring("RULES:"))
		Expect(output).To(ContainSubstring("P201: SQL query construction using string concatenation"))
		Expect(output).To(ContainSubstring("P204:"))
	})
})

var _ = Describe("loadConfig", func() {
	var tempFile *os.File

	BeforeEach(func() {
		var err error
		tempFile, err = os.CreateTemp("", "phpguard-config-*.json")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if tempFile != nil {
			os.Remove(tempFile.Name())
		}
	})

	It("should load an empty config when no file is specified", func() {
		config, err := loadConfig("")
		Expect(err).NotTo(HaveOccurred())
		Expect(config).NotTo(BeNil())
	})

	It("should load config from a valid file", func() {
		_, err := tempFile.WriteString(`{"global": {"nosec": "true"}, "P201": {"sinks": ["run_sql(0)"]}}`)
		Expect(err).NotTo(HaveOccurred())
		tempFile.Close()

		config, err := loadConfig(tempFile.Name())
		Expect(err).NotTo(HaveOccurred())

		value, err := config.GetGlobal(phpguard.Nosec)
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal("true"))

		settings, err := config.RuleSettings("P201")
		Expect(err).NotTo(HaveOccurred())
		Expect(settings).To(HaveKey("sinks"))
	})

	It("should return error for non-existent file", func() {
		_, err := loadConfig("/nonexistent/config.json")
		Expect(err).To(HaveOccurred())
	})

	It("should return error for an unparsable file", func() {
		_, err := tempFile.WriteString("{invalid: [json")
		Expect(err).NotTo(HaveOccurred())
		tempFile.Close()

		_, err = loadConfig(tempFile.Name())
		Expect(err).To(HaveOccurred())
	})

	Context("with flags set", func() {
		var origIgnoreNoSec bool
		var origShowIgnored bool
		var origAlternativeNoSec string

		BeforeEach(func() {
			origIgnoreNoSec = *flagIgnoreNoSec
			origShowIgnored = *flagShowIgnored
			origAlternativeNoSec = *flagAlternativeNoSec
		})

		AfterEach(func() {
			*flagIgnoreNoSec = origIgnoreNoSec
			*flagShowIgnored = origShowIgnored
			*flagAlternativeNoSec = origAlternativeNoSec
		})

		It("should set nosec when flagIgnoreNoSec is true", func() {
			*flagIgnoreNoSec = true
			config, err := loadConfig("")
			Expect(err).NotTo(HaveOccurred())

			enabled, err := config.IsGlobalEnabled(phpguard.Nosec)
			Expect(err).NotTo(HaveOccurred())
			Expect(enabled).To(BeTrue())
		})

		It("should set show ignored when flagShowIgnored is true", func() {
			*flagShowIgnored = true
			config, err := loadConfig("")
			Expect(err).NotTo(HaveOccurred())

			value, _ := config.GetGlobal(phpguard.ShowIgnored)
			Expect(value).To(Equal("true"))
		})

		It("should set alternative nosec when specified", func() {
			*flagAlternativeNoSec = "#falsepositive"
			config, err := loadConfig("")
			Expect(err).NotTo(HaveOccurred())

			value, _ := config.GetGlobal(phpguard.NoSecAlternative)
			Expect(value).To(Equal("#falsepositive"))
		})
	})
})

var _ = Describe("loadAnalyzers", func() {
	It("should load every analyzer when no filters are specified", func() {
		list := loadAnalyzers(nil, nil)
		Expect(list.Analyzers).To(HaveLen(3))
	})

	It("should load only included analyzers", func() {
		list := loadAnalyzers([]string{"P201", "P204"}, nil)
		Expect(list.Analyzers).To(HaveLen(2))
		Expect(list.Analyzers).NotTo(HaveKey("P203"))
	})

	It("should exclude specified analyzers", func() {
		list := loadAnalyzers(nil, []string{"P203"})
		Expect(list.Analyzers).To(HaveLen(2))
		Expect(list.AnalyzerSuppressed).To(HaveKeyWithValue("P203", true))
	})

	It("should handle both include and exclude filters", func() {
		list := loadAnalyzers([]string{"P201", "P203"}, []string{"P203"})
		Expect(list.Analyzers).To(HaveLen(1))
		Expect(list.Analyzers).To(HaveKey("P201"))
	})

	It("should accept the ids of validated flags", func() {
		include := vflag.ValidatedFlag{}
		Expect(include.Set("P204")).To(Succeed())
		list := loadAnalyzers(include.IDs(), nil)
		Expect(list.Ordered()).To(HaveLen(1))
		Expect(list.Ordered()[0].ID).To(Equal("P204"))
	})
})

var _ = Describe("buildPathExclusionFilter", func() {
	It("should create filter with empty CLI flag", func() {
		filter, err := buildPathExclusionFilter(phpguard.NewConfig(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(filter.Len()).To(Equal(0))
	})

	It("should create filter with valid CLI rule", func() {
		filter, err := buildPathExclusionFilter(phpguard.NewConfig(), "templates/.*:P203")
		Expect(err).NotTo(HaveOccurred())
		Expect(filter.ShouldExclude("templates/home.php", "P203")).To(BeTrue())
		Expect(filter.ShouldExclude("templates/home.php", "P201")).To(BeFalse())
	})

	It("should return error for invalid CLI rule format", func() {
		_, err := buildPathExclusionFilter(phpguard.NewConfig(), "invalid_format")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid --exclude-rules flag"))
	})

	It("should merge CLI and config rules", func() {
		config := phpguard.NewConfig()
		config.Set(phpguard.ExcludeRulesKey, []phpguard.PathExcludeRule{{Path: "legacy/.*", Rules: []string{"*"}}})
		filter, err := buildPathExclusionFilter(config, "api/.*:P201")
		Expect(err).NotTo(HaveOccurred())
		Expect(filter.Len()).To(Equal(2))
		Expect(filter.ShouldExclude("legacy/old.php", "P204")).To(BeTrue())
		Expect(filter.ShouldExclude("api/users.php", "P201")).To(BeTrue())
	})

	It("should return error for invalid config rules", func() {
		config := phpguard.NewConfig()
		config.Set(phpguard.ExcludeRulesKey, "not a list")
		_, err := buildPathExclusionFilter(config, "")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid exclude-rules in config"))
	})
})

var _ = Describe("getRootPaths", func() {
	It("should return absolute root paths", func() {
		paths, err := getRootPaths([]string{".", "./..."})
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(HaveLen(2))
		Expect(filepath.IsAbs(paths[0])).To(BeTrue())
		Expect(paths[1]).To(Equal(paths[0]))
	})
})

var _ = Describe("splitExtensions", func() {
	It("should split and trim the list", func() {
		Expect(splitExtensions("php, phtml,,inc")).To(Equal([]string{"php", "phtml", "inc"}))
		Expect(splitExtensions("")).To(BeEmpty())
	})
})

var _ = Describe("convertToScore", func() {
	It("should convert every severity name", func() {
		for name, want := range map[string]issue.Score{
			"info":     issue.Info,
			"low":      issue.Low,
			"medium":   issue.Medium,
			"high":     issue.High,
			"critical": issue.Critical,
		} {
			score, err := convertToScore(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(score).To(Equal(want))
		}
	})

	It("should be case insensitive", func() {
		score, err := convertToScore("HIGH")
		Expect(err).NotTo(HaveOccurred())
		Expect(score).To(Equal(issue.High))
	})

	It("should return error for invalid score", func() {
		_, err := convertToScore("invalid")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("not valid"))
	})

	It("should return error for empty string", func() {
		_, err := convertToScore("")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("filterIssues", func() {
	var testIssues []*issue.Issue

	BeforeEach(func() {
		testIssues = []*issue.Issue{
			createIssue("a.php", 1, "P204", issue.Critical),
			createIssue("a.php", 2, "P201", issue.High),
			createIssue("a.php", 3, "P203", issue.Medium),
			createIssue("a.php", 4, "P203", issue.Low),
		}
	})

	It("should keep issues at or above the severity", func() {
		filtered, trueIssues := filterIssues(testIssues, issue.High)
		Expect(filtered).To(HaveLen(2))
		Expect(trueIssues).To(Equal(2))
	})

	It("should include all issues with the lowest threshold", func() {
		filtered, trueIssues := filterIssues(testIssues, issue.Info)
		Expect(filtered).To(HaveLen(4))
		Expect(trueIssues).To(Equal(4))
	})

	It("should not count suppressed issues in trueIssues", func() {
		testIssues[0].WithSuppression("inSource", "")
		filtered, trueIssues := filterIssues(testIssues, issue.Info)
		Expect(filtered).To(HaveLen(4))
		Expect(trueIssues).To(Equal(3))
	})
})

var _ = Describe("computeExitCode", func() {
	It("should return success when no issues", func() {
		Expect(computeExitCode([]*issue.Issue{}, false)).To(Equal(exitSuccess))
	})

	It("should return failure when issues exist", func() {
		issues := []*issue.Issue{createIssue("a.php", 1, "P201", issue.High)}
		Expect(computeExitCode(issues, false)).To(Equal(exitFailure))
	})

	It("should return success with noFail flag even when issues exist", func() {
		issues := []*issue.Issue{createIssue("a.php", 1, "P201", issue.High)}
		Expect(computeExitCode(issues, true)).To(Equal(exitSuccess))
	})

	It("should not count suppressed issues", func() {
		issues := []*issue.Issue{createIssue("a.php", 1, "P201", issue.High).WithSuppression("inSource", "")}
		Expect(computeExitCode(issues, false)).To(Equal(exitSuccess))
	})
})

var _ = Describe("completionMessage", func() {
	It("should report duration and count", func() {
		Expect(completionMessage(1500*time.Millisecond, 3, "")).
			To(Equal("Analysis completed in 1.50 seconds. Found 3 vulnerabilities."))
	})

	It("should mention the output file", func() {
		Expect(completionMessage(0, 0, "report.json")).
			To(Equal("Analysis completed in 0.00 seconds. Found 0 vulnerabilities. Report saved to report.json"))
	})
})

var _ = Describe("saveReport", func() {
	var reportInfo *phpguard.ReportInfo
	var tempFile string

	BeforeEach(func() {
		reportInfo = phpguard.NewReportInfo([]*issue.Issue{}, &phpguard.Metrics{}, map[string][]phpguard.Error{})
		f, err := os.CreateTemp("", "phpguard-report-*.txt")
		Expect(err).NotTo(HaveOccurred())
		tempFile = f.Name()
		f.Close()
	})

	AfterEach(func() {
		if tempFile != "" {
			os.Remove(tempFile)
		}
	})

	It("should save report to file", func() {
		Expect(saveReport(tempFile, "text", []string{"."}, reportInfo)).To(Succeed())

		content, err := os.ReadFile(tempFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("Total vulnerabilities found: 0"))
	})

	It("should save report in json format", func() {
		Expect(saveReport(tempFile, "json", []string{"."}, reportInfo)).To(Succeed())

		content, err := os.ReadFile(tempFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring(`"vulnerabilities": []`))
	})

	It("should return error for invalid directory", func() {
		err := saveReport("/nonexistent/dir/report.txt", "text", []string{"."}, reportInfo)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("arrayFlags", func() {
	It("should implement String() method", func() {
		flags := arrayFlags{"val1", "val2"}
		Expect(flags.String()).To(Equal("val1 val2"))
	})

	It("should implement Set() method", func() {
		var flags arrayFlags
		Expect(flags.Set("value1")).To(Succeed())
		Expect(flags.Set("value2")).To(Succeed())
		Expect(flags).To(Equal(arrayFlags{"value1", "value2"}))
	})
})

var _ = Describe("Scan pipeline", func() {
	var project *testutils.TestProject

	BeforeEach(func() {
		project = testutils.NewTestProject()
		Expect(project).NotTo(BeNil())
	})

	AfterEach(func() {
		project.Close()
	})

	It("should wire configuration, analyzers and filters together", func() {
		Expect(project.AddFile("index.php", "<?php\nsystem($_GET['cmd']);\n")).To(Succeed())
		Expect(project.AddFile("legacy/old.php", "<?php\nexec($_POST['c']);\n")).To(Succeed())
		Expect(project.AddFile("vendor/lib.php", "<?php\npassthru($_GET['x']);\n")).To(Succeed())

		config, err := loadConfig("")
		Expect(err).NotTo(HaveOccurred())
		filter, err := buildPathExclusionFilter(config, "legacy/.*:*")
		Expect(err).NotTo(HaveOccurred())

		list := loadAnalyzers(nil, nil)
		analyzer := phpguard.NewAnalyzer(config, false, 2, logger)
		Expect(analyzer.LoadAnalyzers(list.Ordered(), list.AnalyzerSuppressed)).To(Succeed())
		analyzer.SetExcludedDirs(phpguard.ExcludedDirsRegExp([]string{"vendor"}))
		analyzer.SetPathFilter(filter)

		Expect(analyzer.Process(context.Background(), project.Path)).To(Succeed())
		issues, metrics, _ := analyzer.Report()
		issues, trueIssues := filterIssues(issues, issue.Info)

		Expect(issues).To(HaveLen(1))
		Expect(issues[0].RuleID).To(Equal("P204"))
		Expect(filepath.Base(issues[0].File)).To(Equal("index.php"))
		Expect(trueIssues).To(Equal(1))
		Expect(metrics.NumFiles).To(Equal(2))
		Expect(computeExitCode(issues, false)).To(Equal(exitFailure))
	})
})
