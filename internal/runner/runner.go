// Package runner drives a lint run: it resolves the stylesheets a
// configuration selects, lints them in parallel (reusing cached findings for
// unchanged files), and reports the aggregate result as text, JSON, or SARIF.
//
// The JSON report is checked against the output contract in
// internal/validator before it is written. A report the contract rejects is a
// bug in this package, so the run fails instead of printing it.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
	"github.com/robert-at-pretension-io/paint-lint/internal/config"
	"github.com/robert-at-pretension-io/paint-lint/internal/extractor"
	"github.com/robert-at-pretension-io/paint-lint/internal/lint"
	"github.com/robert-at-pretension-io/paint-lint/internal/scss"
	"github.com/robert-at-pretension-io/paint-lint/internal/validator"
)

// Runner lints every stylesheet under a root path.
type Runner struct {
	// Configuration; loaded from the root path when nil
	Config *config.Config

	// Verbose output (per-file progress and timing summary)
	Verbose bool

	// JSON output mode
	JSONOutput bool

	// SARIF output mode
	SARIFOutput bool

	// Timing output (JSONL)
	Timing     bool
	TimingPath string

	// Diagnostics; defaults to a discard logger
	Logger *slog.Logger

	// Report destination; defaults to os.Stdout
	Out io.Writer

	// Optional tree source override (for tests)
	extract extractFunc
}

type extractFunc func(ctx context.Context, path string, content []byte) (*ast.Node, error)

// LintResult is the structured result of a run. Its JSON form is the
// #LintOutput contract.
type LintResult struct {
	// Issues found, sorted by location
	Issues []lint.Issue `json:"issues"`

	// Summary counts
	Summary ResultSummary `json:"summary"`

	// Per-file breakdown
	Files []FileResult `json:"files"`

	// Parse errors encountered
	ParseErrors []ParseError `json:"parseErrors,omitempty"`
}

// ResultSummary provides aggregate counts
type ResultSummary struct {
	TotalViolations int `json:"totalViolations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	Files           int `json:"files"`
	CachedFiles     int `json:"cachedFiles"`
}

// FileResult provides per-file issue counts
type FileResult struct {
	Path   string `json:"path"`
	Issues int    `json:"issues"`
	Cached bool   `json:"cached"`
}

// ParseError is a file that could not be read or parsed.
type ParseError struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

// HasFailures reports whether the run should exit non-zero: any warning or
// error issue, or any file that could not be checked.
func (r *LintResult) HasFailures() bool {
	return r.Summary.Errors > 0 || r.Summary.Warnings > 0 || len(r.ParseErrors) > 0
}

type fileOutcome struct {
	path     string
	issues   []lint.Issue
	cached   bool
	parseErr *ParseError
	cacheErr error
	duration time.Duration
}

// New creates a Runner for cfg.
func New(cfg *config.Config) *Runner {
	return &Runner{Config: cfg, Out: os.Stdout}
}

// BuildLinter creates a Linter with the rules cfg enables, at their
// configured severities and options.
func BuildLinter(cfg *config.Config, logger *slog.Logger) (*lint.Linter, error) {
	opts := []lint.Option{lint.WithLogger(logger)}

	if sev, ok, err := ruleSeverity(cfg, lint.ColorRuleName); err != nil {
		return nil, err
	} else if ok {
		rule := lint.NewColorRule(lint.ColorConfig{
			AllowedFunctions: cfg.RuleOptions.Color.AllowedFunctions,
		})
		opts = append(opts, lint.WithRule(rule, sev))
	}

	if sev, ok, err := ruleSeverity(cfg, lint.UnitRuleName); err != nil {
		return nil, err
	} else if ok {
		rule := lint.NewUnitRule(lint.UnitConfig{
			AllowedFunctions: cfg.RuleOptions.Units.AllowedFunctions,
			MinPixels:        cfg.RuleOptions.Units.MinPixels,
		})
		opts = append(opts, lint.WithRule(rule, sev))
	}

	return lint.New(opts...), nil
}

func ruleSeverity(cfg *config.Config, name string) (lint.Severity, bool, error) {
	if !cfg.IsRuleEnabled(name) {
		return 0, false, nil
	}
	sev, err := lint.ParseSeverity(cfg.GetRuleSeverity(name, "warning"))
	if err != nil {
		return 0, false, fmt.Errorf("rule %s: %w", name, err)
	}
	return sev, true, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) textMode() bool {
	return !r.JSONOutput && !r.SARIFOutput
}

// Run lints rootPath (a file or a directory), writes the report, and returns
// the result. Files that fail to parse are recorded and skipped; cache and
// timing failures are logged and never fail the run.
func (r *Runner) Run(ctx context.Context, rootPath string) (*LintResult, error) {
	runStart := time.Now()
	logger := r.logger()
	out := r.out()
	recordPipelineErr := func(msg string, err error) {
		logger.Warn(msg, "error", err)
	}

	timing := newTimingRecorder(runStart, r.resolveTimingPath(rootPath))
	if err := timing.Err(); err != nil {
		recordPipelineErr("timing output disabled", err)
	}
	defer timing.Close()

	// 0. Load configuration if not already loaded
	if r.Config == nil {
		cfg, err := config.Load(rootPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		r.Config = cfg
	}
	if r.Config.Source != "" {
		logger.Info("loaded configuration", "path", r.Config.Source)
	}

	linter, err := BuildLinter(r.Config, logger)
	if err != nil {
		return nil, fmt.Errorf("CRITICAL: invalid rule configuration: %w", err)
	}

	// 1. Find all stylesheets
	stepStart := time.Now()
	resolved, err := r.Config.ResolveFiles(rootPath)
	if err != nil {
		return nil, fmt.Errorf("scanning files: %w", err)
	}
	files := make([]string, 0, len(resolved))
	for _, f := range resolved {
		if !r.Config.ShouldIgnoreFile(f) {
			files = append(files, f)
		}
	}
	if r.textMode() {
		fmt.Fprintf(out, "Found %d stylesheets\n", len(files))
	}
	scanDuration := time.Since(stepStart)
	timing.RecordStage("scan", stepStart, scanDuration, "")

	// 2. Parallel lint (with optional cache)
	stepStart = time.Now()
	var cache *findingsCache
	if r.Config.CacheEnabled() {
		cache = newFindingsCache(resolveCacheDir(rootPath, r.Config), computeCacheVersions(r.Config, linter))
		if err := cache.Load(); err != nil {
			recordPipelineErr("cache disabled", err)
			cache = nil
		}
	}

	extract := r.extract
	if extract == nil {
		extract = extractor.New(extractor.WithLogger(logger)).ExtractSource
	}

	limit := r.Config.Analysis.MaxParallelFiles
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var progressMu sync.Mutex
	progress := 0
	progressEnabled := r.Verbose && r.textMode()

	outcomes := make([]fileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.lintFile(gctx, f, linter, extract, cache, timing)
			if progressEnabled {
				progressMu.Lock()
				progress++
				fmt.Fprintf(out, "  [%d/%d] %s (%s, %s)\n", progress, len(files), f, outcomes[i].status(), formatDuration(outcomes[i].duration))
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lint interrupted: %w", err)
	}
	lintDuration := time.Since(stepStart)
	timing.RecordStage("lint", stepStart, lintDuration, "")

	if cache != nil {
		if err := cache.Save(); err != nil {
			recordPipelineErr("cache save failed", err)
		}
	}

	// 3. Aggregate
	result := aggregate(outcomes)
	for _, o := range outcomes {
		if o.cacheErr != nil {
			recordPipelineErr("cache entry skipped", o.cacheErr)
		}
	}

	// 4. Output results
	stepStart = time.Now()
	switch {
	case r.JSONOutput:
		v, err := validator.NewOutputValidator()
		if err != nil {
			return nil, fmt.Errorf("CRITICAL: Failed to initialize output validator: %w", err)
		}
		if err := v.Validate(result); err != nil {
			return nil, fmt.Errorf("CRITICAL: Output contract violation: %w", err)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return nil, fmt.Errorf("failed to encode JSON output: %w", err)
		}
	case r.SARIFOutput:
		if err := lint.NewReporter(out, lint.FormatSARIF, linter.Rules()...).Report(result.Issues); err != nil {
			return nil, err
		}
	default:
		if err := r.reportText(out, linter, result); err != nil {
			return nil, err
		}
	}
	timing.RecordStage("report", stepStart, time.Since(stepStart), "")

	if progressEnabled {
		fmt.Fprintf(out, "\n=== Timing Summary ===\n")
		fmt.Fprintf(out, "  scan:   %s\n", formatDuration(scanDuration))
		fmt.Fprintf(out, "  lint:   %s\n", formatDuration(lintDuration))
		fmt.Fprintf(out, "  total:  %s\n", formatDuration(time.Since(runStart)))
	}
	timing.RecordStage("total", runStart, time.Since(runStart), "")

	logger.Debug("run complete",
		"files", result.Summary.Files,
		"cached", result.Summary.CachedFiles,
		"issues", result.Summary.TotalViolations,
	)
	return result, nil
}

func (r *Runner) lintFile(ctx context.Context, path string, linter *lint.Linter, extract extractFunc, cache *findingsCache, timing *timingRecorder) (o fileOutcome) {
	start := time.Now()
	o.path = path
	defer func() {
		o.duration = time.Since(start)
		timing.RecordFile("lint", path, o.status(), start, o.duration)
	}()

	content, err := os.ReadFile(path)
	if err != nil {
		o.parseErr = &ParseError{File: path, Message: err.Error()}
		return o
	}

	var contentHash string
	if cache != nil {
		contentHash = hashContent(content)
		issues, ok, err := cache.Get(path, contentHash)
		if err != nil {
			o.cacheErr = fmt.Errorf("%s: %w", path, err)
		} else if ok {
			o.issues = issues
			o.cached = true
			return o
		}
	}

	tree, err := extract(ctx, path, content)
	if err != nil {
		o.parseErr = newParseError(path, err)
		return o
	}

	issues := linter.Lint(path, tree)
	if r.Config.RegionsEnabled() {
		if d := lint.ParseDirectives(content); !d.Empty() {
			issues = d.Filter(issues)
		}
	}
	o.issues = issues

	if cache != nil {
		if err := cache.Put(path, contentHash, issues); err != nil {
			o.cacheErr = fmt.Errorf("%s: %w", path, err)
		}
	}
	return o
}

func (o fileOutcome) status() string {
	switch {
	case o.parseErr != nil:
		return "parse_error"
	case o.cached:
		return "cache_hit"
	default:
		return "linted"
	}
}

func newParseError(path string, err error) *ParseError {
	pe := &ParseError{File: path, Message: err.Error()}
	var se *scss.SyntaxError
	if errors.As(err, &se) {
		pe.Line = se.Pos.Line
		pe.Column = se.Pos.Column
	}
	return pe
}

func aggregate(outcomes []fileOutcome) *LintResult {
	result := &LintResult{
		Issues: []lint.Issue{},
		Files:  []FileResult{},
	}
	result.Summary.Files = len(outcomes)
	for _, o := range outcomes {
		if o.parseErr != nil {
			result.ParseErrors = append(result.ParseErrors, *o.parseErr)
			continue
		}
		result.Files = append(result.Files, FileResult{Path: o.path, Issues: len(o.issues), Cached: o.cached})
		if o.cached {
			result.Summary.CachedFiles++
		}
		result.Issues = append(result.Issues, o.issues...)
	}
	lint.SortIssues(result.Issues)

	for _, issue := range result.Issues {
		switch issue.Severity {
		case lint.SeverityError:
			result.Summary.Errors++
		case lint.SeverityWarning:
			result.Summary.Warnings++
		default:
			result.Summary.Info++
		}
	}
	result.Summary.TotalViolations = len(result.Issues)
	return result
}

func (r *Runner) reportText(out io.Writer, linter *lint.Linter, result *LintResult) error {
	if len(result.Issues) > 0 {
		fmt.Fprintf(out, "\n=== Paint Violations ===\n")
		if err := lint.NewReporter(out, lint.FormatText, linter.Rules()...).Report(result.Issues); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\n=== Summary ===\n")
	fmt.Fprintf(out, "  Errors:   %d\n", result.Summary.Errors)
	fmt.Fprintf(out, "  Warnings: %d\n", result.Summary.Warnings)
	fmt.Fprintf(out, "  Info:     %d\n", result.Summary.Info)
	fmt.Fprintf(out, "  Files:    %d (%d cached)\n", result.Summary.Files, result.Summary.CachedFiles)

	if len(result.ParseErrors) > 0 {
		fmt.Fprintf(out, "\n=== Parse Errors ===\n")
		for _, e := range result.ParseErrors {
			fmt.Fprintf(out, "  %s\n", e.Message)
		}
	}
	return nil
}
