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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/analyzers"
	"github.com/phpguard/phpguard/autofix"
	"github.com/phpguard/phpguard/cmd/vflag"
	"github.com/phpguard/phpguard/issue"
	"github.com/phpguard/phpguard/report"
)

const (
	usageText = `
phpguard - PHP security checker

phpguard analyzes PHP source code to look for user input flowing into SQL
queries, HTML output and shell commands.

VERSION: %s
GIT TAG: %s
BUILD DATE: %s

USAGE:

	# Check a single file
	$ phpguard index.php

	# Check all files under the current directory and save results in
	# json format.
	$ phpguard -fmt=json -out=results.json ./...

	# Run a specific set of rules (by default all rules will be run):
	$ phpguard -include=P201,P204 ./...

	# Run all rules except the provided
	$ phpguard -exclude=P203 ./src

	# Skip the XSS rule in the templates only
	$ phpguard -exclude-rules="templates/.*:P203" ./...

`
	exitSuccess = 0
	exitFailure = 1
)

type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, " ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

var (
	// #nosec flag
	flagIgnoreNoSec = flag.Bool("nosec", false, "Ignores #nosec comments when set")

	// show ignored
	flagShowIgnored = flag.Bool("show-ignored", false, "If enabled, ignored issues are printed")

	// alternative for #nosec directive
	flagAlternativeNoSec = flag.String("nosec-tag", "", "Set an alternative string for #nosec. Some examples: #dontanalyze, #falsepositive")

	// format output
	flagFormat = flag.String("fmt", "text", "Set output format. Valid options are: "+strings.Join(report.Formats, ", "))

	// colorize text output
	flagEnableColor = flag.Bool("color", true, "Prints the text format report with colorization when it goes in the stdout")

	// output file
	flagOutput = flag.String("out", "", "Set output file for results")

	// config file
	flagConfig = flag.String("conf", "", "Path to optional config file")

	// quiet
	flagQuiet = flag.Bool("quiet", false, "Only show output when errors are found")

	// rules to explicitly include
	flagRulesInclude vflag.ValidatedFlag

	// rules to explicitly exclude
	flagRulesExclude vflag.ValidatedFlag

	// path scoped rule exclusions
	flagExcludeRules = flag.String("exclude-rules", "", "Path-scoped rule exclusions, e.g. 'vendor/.*:P201,P203;legacy/.*:*'")

	// scanned file extensions
	flagExtensions = flag.String("ext", strings.Join(phpguard.DefaultExtensions, ","), "Comma separated list of file extensions to scan")

	// log to file or stderr
	flagLogfile = flag.String("log", "", "Log messages to file rather than stderr")

	// sort the issues by severity
	flagSortIssues = flag.Bool("sort", true, "Sort issues by severity")

	// do not fail
	flagNoFail = flag.Bool("no-fail", false, "Do not fail the scanning, even if issues were found")

	// concurrency value
	flagConcurrency = flag.Int("concurrency", runtime.NumCPU(), "Number of files scanned in parallel")

	// print version and quit
	flagVersion = flag.Bool("version", false, "Print version and quit with exit code 0")

	// minimum severity reported
	flagSeverity = flag.String("severity", "info", "Filter out the issues with a lower severity than the given value. Valid options are: info, low, medium, high, critical")

	// AI platform provider to generate solutions to issues
	flagAiAPIProvider = flag.String("ai-api-provider", "", "AI model used to generate fixes, prefixed by gemini, claude or gpt (e.g. gemini-2.5-flash, claude-sonnet-4-0, gpt-4o)")

	// key to implementing AI provider services
	flagAiAPIKey = flag.String("ai-api-key", "", "Key to access the AI API")

	// base URL of an OpenAI compatible API
	flagAiBaseURL = flag.String("ai-base-url", "", "Custom base URL for OpenAI compatible APIs")

	// skip TLS verification of the AI API
	flagAiSkipSSL = flag.Bool("ai-skip-ssl", false, "Skip SSL certificate verification for the AI API")

	// directories to exclude
	flagDirsExclude arrayFlags

	logger *log.Logger
)

func init() {
	flag.Var(&flagRulesInclude, "include", "Comma separated list of rules IDs to include. (see rule list)")
	flag.Var(&flagRulesExclude, "exclude", "Comma separated list of rules IDs to exclude. (see rule list)")
	flag.Var(&flagDirsExclude, "exclude-dir", "Exclude folder from scan (can be specified multiple times)")
}

// #nosec
func usage() {
	usageText := fmt.Sprintf(usageText, Version, GitTag, BuildDate)
	fmt.Fprintln(os.Stderr, usageText)
	fmt.Fprint(os.Stderr, "OPTIONS:\n\n")
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, "\n\nRULES:\n\n")

	for _, def := range analyzers.Generate(false).Ordered() {
		fmt.Fprintf(os.Stderr, "\t%s: %s\n", def.ID, def.Description)
	}
	fmt.Fprint(os.Stderr, "\n")
}

func loadConfig(configFile string) (phpguard.Config, error) {
	config := phpguard.NewConfig()
	if configFile != "" {
		// #nosec
		file, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer file.Close() // #nosec G307
		if _, err := config.ReadFrom(file); err != nil {
			return nil, err
		}
	}
	if *flagIgnoreNoSec {
		config.SetGlobal(phpguard.Nosec, "true")
	}
	if *flagShowIgnored {
		config.SetGlobal(phpguard.ShowIgnored, "true")
	}
	if *flagAlternativeNoSec != "" {
		config.SetGlobal(phpguard.NoSecAlternative, *flagAlternativeNoSec)
	}
	return config, nil
}

func loadAnalyzers(include, exclude []string) *analyzers.AnalyzerList {
	var filters []analyzers.AnalyzerFilter
	if len(include) > 0 {
		logger.Printf("Including rules: %s", strings.Join(include, ", "))
		filters = append(filters, analyzers.NewAnalyzerFilter(false, include...))
	} else {
		logger.Println("Including rules: default")
	}

	if len(exclude) > 0 {
		logger.Printf("Excluding rules: %s", strings.Join(exclude, ", "))
		filters = append(filters, analyzers.NewAnalyzerFilter(true, exclude...))
	} else {
		logger.Println("Excluding rules: default")
	}
	return analyzers.Generate(*flagShowIgnored, filters...)
}

func buildPathExclusionFilter(config phpguard.Config, cliRules string) (*phpguard.PathExclusionFilter, error) {
	configRules, err := config.ExcludeRules()
	if err != nil {
		return nil, fmt.Errorf("invalid exclude-rules in config: %w", err)
	}
	var parsed []phpguard.PathExcludeRule
	if cliRules != "" {
		parsed, err = phpguard.ParseCLIExcludeRules(cliRules)
		if err != nil {
			return nil, fmt.Errorf("invalid --exclude-rules flag: %w", err)
		}
	}
	return phpguard.NewPathExclusionFilter(phpguard.MergeExcludeRules(configRules, parsed))
}

func getRootPaths(paths []string) ([]string, error) {
	rootPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		rootPath, err := phpguard.RootPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get the root path of the project: %w", err)
		}
		rootPaths = append(rootPaths, rootPath)
	}
	return rootPaths, nil
}

func splitExtensions(value string) []string {
	var exts []string
	for _, ext := range strings.Split(value, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

func convertToScore(value string) (issue.Score, error) {
	score, err := issue.ParseScore(value)
	if err != nil {
		return issue.Info, fmt.Errorf("provided severity %q not valid. Valid options: info, low, medium, high, critical", value)
	}
	return score, nil
}

// filterIssues keeps the issues at or above the given severity and counts
// the ones that are not suppressed.
func filterIssues(issues []*issue.Issue, severity issue.Score) ([]*issue.Issue, int) {
	result := []*issue.Issue{}
	trueIssues := 0
	for _, i := range issues {
		if i.Severity < severity {
			continue
		}
		result = append(result, i)
		if len(i.Suppressions) == 0 {
			trueIssues++
		}
	}
	return result, trueIssues
}

func computeExitCode(issues []*issue.Issue, noFail bool) int {
	if noFail {
		return exitSuccess
	}
	for _, i := range issues {
		if len(i.Suppressions) == 0 {
			return exitFailure
		}
	}
	return exitSuccess
}

func printReport(format string, color bool, rootPaths []string, reportInfo *phpguard.ReportInfo) error {
	return report.CreateReport(os.Stdout, format, color, rootPaths, reportInfo)
}

func saveReport(filename, format string, rootPaths []string, reportInfo *phpguard.ReportInfo) error {
	outfile, err := os.Create(filename) // #nosec G304
	if err != nil {
		return err
	}
	defer outfile.Close() // #nosec G307
	return report.CreateReport(outfile, format, false, rootPaths, reportInfo)
}

// completionMessage is the line printed once the scan is done.
func completionMessage(elapsed time.Duration, found int, output string) string {
	msg := fmt.Sprintf("Analysis completed in %.2f seconds. Found %d vulnerabilities.", elapsed.Seconds(), found)
	if output != "" {
		msg += fmt.Sprintf(" Report saved to %s", output)
	}
	return msg
}

func main() {
	os.Exit(run())
}

func run() int {
	// Makes sure some version information is set
	prepareVersionInfo()

	// Setup usage description
	flag.Usage = usage

	// Parse command line arguments
	flag.Parse()

	if *flagVersion {
		fmt.Printf("Version: %s\nGit tag: %s\nBuild date: %s\n", Version, GitTag, BuildDate)
		return exitSuccess
	}

	// Ensure at least one file was specified
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "\nError: FILE [FILE...] or './...' expected\n") // #nosec
		flag.Usage()
		return exitFailure
	}

	if !report.IsValidFormat(*flagFormat) {
		fmt.Fprintf(os.Stderr, "\nError: unknown format %q\n", *flagFormat) // #nosec
		return exitFailure
	}

	// Setup logging
	logWriter := os.Stderr
	if *flagLogfile != "" {
		var e error
		logWriter, e = os.Create(*flagLogfile)
		if e != nil {
			flag.Usage()
			log.Fatal(e)
		}
		defer logWriter.Close() // #nosec
	}

	if *flagQuiet {
		logger = log.New(io.Discard, "", 0)
	} else {
		logger = log.New(logWriter, "[phpguard] ", log.LstdFlags)
	}

	failSeverity, err := convertToScore(*flagSeverity)
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	// Load the analyzer configuration
	config, err := loadConfig(*flagConfig)
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	pathFilter, err := buildPathExclusionFilter(config, *flagExcludeRules)
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	analyzerList := loadAnalyzers(flagRulesInclude.IDs(), flagRulesExclude.IDs())
	if len(analyzerList.Analyzers) == 0 {
		logger.Print("No rules are configured")
		return exitFailure
	}

	// Create the analyzer
	analyzer := phpguard.NewAnalyzer(config, *flagShowIgnored, *flagConcurrency, logger)
	if err := analyzer.LoadAnalyzers(analyzerList.Ordered(), analyzerList.AnalyzerSuppressed); err != nil {
		logger.Print(err)
		return exitFailure
	}
	analyzer.SetExtensions(splitExtensions(*flagExtensions)...)
	analyzer.SetExcludedDirs(phpguard.ExcludedDirsRegExp(append([]string{"vendor"}, flagDirsExclude...)))
	analyzer.SetPathFilter(pathFilter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	paths := make([]string, 0, flag.NArg())
	for _, path := range flag.Args() {
		paths = append(paths, strings.TrimSuffix(path, "..."))
	}

	start := time.Now()
	if err := analyzer.Process(ctx, paths...); err != nil {
		logger.Print(err)
		return exitFailure
	}

	// Collect the results
	issues, metrics, errs := analyzer.Report()

	// Filter the issues by severity
	issues, trueIssues := filterIssues(issues, failSeverity)
	metrics.NumFound = trueIssues

	// Exit quietly if nothing was found
	if len(issues) == 0 && *flagQuiet {
		return exitSuccess
	}

	// Sort the issue by severity
	if *flagSortIssues {
		sortIssues(issues)
	}

	// Generate autofix suggestions
	if *flagAiAPIProvider != "" && len(issues) > 0 {
		opts := autofix.Options{
			Provider: *flagAiAPIProvider,
			APIKey:   *flagAiAPIKey,
			BaseURL:  *flagAiBaseURL,
			SkipSSL:  *flagAiSkipSSL,
		}
		if err := autofix.GenerateSolution(ctx, opts, issues, logger); err != nil {
			logger.Printf("Autofix incomplete: %v", err)
		}
	}

	rootPaths, err := getRootPaths(paths)
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	reportInfo := phpguard.NewReportInfo(issues, metrics, errs).WithVersion(Version)

	if *flagOutput == "" {
		err = printReport(*flagFormat, *flagEnableColor, rootPaths, reportInfo)
	} else {
		err = saveReport(*flagOutput, *flagFormat, rootPaths, reportInfo)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Printf("Output directory does not exist: %v", err)
		} else {
			logger.Print(err)
		}
		return exitFailure
	}

	if !*flagQuiet {
		fmt.Fprintln(os.Stderr, completionMessage(time.Since(start), trueIssues, *flagOutput)) // #nosec
	}

	return computeExitCode(issues, *flagNoFail)
}
