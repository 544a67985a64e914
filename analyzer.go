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

// Package phpguard holds the central scanning logic used by the phpguard
// security scanner. It parses PHP files, runs every registered taint
// scanner over them and collects the findings, the metrics and the files
// that could not be scanned.
package phpguard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/phpguard/phpguard/analyzers"
	"github.com/phpguard/phpguard/issue"
	"github.com/phpguard/phpguard/parser"
	"github.com/phpguard/phpguard/syntax"
)

// Scanner reports the findings of one vulnerability class in a parsed file.
// Implementations must not keep state between calls to Scan.
type Scanner interface {
	ID() string
	Scan(file *syntax.File, src []byte, path string) *issue.Collection
}

// Metrics used when reporting information about a scanning run.
type Metrics struct {
	NumFiles   int `json:"files"`
	NumLines   int `json:"lines"`
	NumNosec   int `json:"nosec"`
	NumFound   int `json:"found"`
	NumSkipped int `json:"skipped"`
}

// Analyzer object is the main object of phpguard. It has methods to load
// the scanners, to walk files and directories and to report the results.
type Analyzer struct {
	config            Config
	logger            *log.Logger
	scanners          []Scanner
	ruleSuppressed    map[string]bool
	extensions        []string
	excludedDirs      []*regexp.Regexp
	pathFilter        *PathExclusionFilter
	concurrency       int
	ignoreNosec       bool
	trackSuppressions bool

	mu     sync.Mutex
	issues []*issue.Issue
	stats  *Metrics
	errors map[string][]Error
}

// NewAnalyzer builds a new analyzer. A concurrency below one uses the
// number of CPUs.
func NewAnalyzer(conf Config, trackSuppressions bool, concurrency int, logger *log.Logger) *Analyzer {
	if conf == nil {
		conf = NewConfig()
	}
	ignoreNoSec := false
	if enabled, err := conf.IsGlobalEnabled(Nosec); err == nil {
		ignoreNoSec = enabled
	}
	showIgnored := false
	if enabled, err := conf.IsGlobalEnabled(ShowIgnored); err == nil {
		showIgnored = enabled
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[phpguard] ", log.LstdFlags)
	}
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	return &Analyzer{
		config:            conf,
		logger:            logger,
		ruleSuppressed:    make(map[string]bool),
		extensions:        DefaultExtensions,
		concurrency:       concurrency,
		ignoreNosec:       ignoreNoSec,
		trackSuppressions: trackSuppressions || showIgnored,
		stats:             &Metrics{},
		errors:            make(map[string][]Error),
	}
}

// SetConfig updates the analyzer configuration
func (a *Analyzer) SetConfig(conf Config) {
	a.config = conf
}

// Config returns the current configuration
func (a *Analyzer) Config() Config {
	return a.config
}

// SetExtensions sets the file extensions scanned in directories.
func (a *Analyzer) SetExtensions(extensions ...string) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	a.extensions = extensions
}

// SetExcludedDirs sets the directories skipped when scanning directories.
func (a *Analyzer) SetExcludedDirs(dirs []*regexp.Regexp) {
	a.excludedDirs = dirs
}

// SetPathFilter sets the path scoped rule exclusions.
func (a *Analyzer) SetPathFilter(filter *PathExclusionFilter) {
	a.pathFilter = filter
}

// LoadScanners registers scanners. Scanners run in registration order.
func (a *Analyzer) LoadScanners(scanners ...Scanner) {
	a.scanners = append(a.scanners, scanners...)
}

// LoadAnalyzers instantiates the analyzer definitions with their settings
// from the configuration and registers them in the given order.
func (a *Analyzer) LoadAnalyzers(defs []analyzers.AnalyzerDefinition, suppressed map[string]bool) error {
	for _, def := range defs {
		settings, err := a.config.RuleSettings(def.ID)
		if err != nil {
			return err
		}
		scanner, err := def.Create(def.ID, analyzers.Settings(settings))
		if err != nil {
			return fmt.Errorf("loading analyzer %s: %w", def.ID, err)
		}
		a.scanners = append(a.scanners, scanner)
		a.ruleSuppressed[def.ID] = suppressed[def.ID]
	}
	return nil
}

// Scanners returns the ids of the registered scanners in order.
func (a *Analyzer) Scanners() []string {
	ids := make([]string, 0, len(a.scanners))
	for _, s := range a.scanners {
		ids = append(ids, s.ID())
	}
	return ids
}

// Run runs every registered scanner over a parsed file and merges their
// findings in registration order.
func (a *Analyzer) Run(file *syntax.File, src []byte, path string) *issue.Collection {
	all := issue.NewCollection()
	for _, s := range a.scanners {
		all.Merge(s.Scan(file, src, path))
	}
	return all
}

// AnalyzeSource parses and scans the source of one file. A file that does
// not parse is recorded as an error and skipped with an empty result.
func (a *Analyzer) AnalyzeSource(ctx context.Context, path string, src []byte) (*issue.Collection, error) {
	file, err := parser.Parse(ctx, src)
	if err != nil {
		var perr *parser.Error
		if !errors.As(err, &perr) {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		a.skip(path, NewError(perr.Line, perr.Column, perr.Message))
		return issue.NewCollection(), nil
	}

	kept, suppressed := a.filter(file, a.Run(file, src, path))
	found := 0
	for _, i := range kept.All() {
		if len(i.Suppressions) == 0 {
			found++
		}
	}

	a.mu.Lock()
	a.stats.NumFiles++
	a.stats.NumLines += countLines(src)
	a.stats.NumNosec += suppressed
	a.stats.NumFound += found
	a.mu.Unlock()
	return kept, nil
}

// skip records a file that could not be scanned.
func (a *Analyzer) skip(path string, e *Error) {
	a.logger.Printf("Skipping %s: %s", path, e.Err)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors[path] = append(a.errors[path], *e)
	a.stats.NumSkipped++
}

// AnalyzeFile reads and scans one file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*issue.Collection, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	a.logger.Println("Checking file:", path)
	return a.AnalyzeSource(ctx, path, src)
}

// AnalyzeDirectory scans every source file under dir. Files are scanned
// concurrently and the findings are merged in file name order. A file that
// cannot be read or parsed is skipped; only cancellation stops the scan.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string) (*issue.Collection, error) {
	files, err := SourceFiles(dir, a.extensions, a.excludedDirs)
	if err != nil {
		return nil, err
	}
	return a.analyzeFiles(ctx, files)
}

func (a *Analyzer) analyzeFiles(ctx context.Context, files []string) (*issue.Collection, error) {
	results := make([]*issue.Collection, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for idx, path := range files {
		g.Go(func() error {
			found, err := a.AnalyzeFile(ctx, path)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				a.skip(path, NewError(0, 0, err.Error()))
				return nil
			}
			results[idx] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := issue.NewCollection()
	for _, found := range results {
		all.Merge(found)
	}
	return all, nil
}

// Process scans each path, a file or a directory, and accumulates the
// findings for Report. A path that does not exist is an error.
func (a *Analyzer) Process(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("path %s: %w", path, err)
		}
		var found *issue.Collection
		if info.IsDir() {
			found, err = a.AnalyzeDirectory(ctx, path)
		} else {
			found, err = a.AnalyzeFile(ctx, path)
		}
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.issues = append(a.issues, found.All()...)
		a.mu.Unlock()
	}
	return nil
}

// Report returns the current issues discovered and the metrics about the scan
func (a *Analyzer) Report() ([]*issue.Issue, *Metrics, map[string][]Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sortErrors(a.errors)
	return a.issues, a.stats, a.errors
}

// Reset clears state such as context, issues and metrics from the configured analyzer
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issues = nil
	a.stats = &Metrics{}
	a.errors = make(map[string][]Error)
}

func countLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	n := bytes.Count(src, []byte("\n"))
	if src[len(src)-1] != '\n' {
		n++
	}
	return n
}
