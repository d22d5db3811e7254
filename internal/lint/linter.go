package lint

import (
	"io"
	"log/slog"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
)

// Linter runs a fixed set of rules over syntax trees. It holds no per-run
// state, so one Linter can lint many trees concurrently.
type Linter struct {
	rules  []ruleEntry
	logger *slog.Logger
}

type ruleEntry struct {
	rule     Rule
	severity Severity
}

// Option configures a Linter.
type Option func(*Linter)

// WithRule adds a rule reported at the given severity.
func WithRule(rule Rule, severity Severity) Option {
	return func(l *Linter) {
		l.rules = append(l.rules, ruleEntry{rule: rule, severity: severity})
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Linter.
func New(opts ...Option) *Linter {
	l := &Linter{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Default returns a Linter with both paint rules at warning severity.
func Default() *Linter {
	return New(
		WithRule(NewColorRule(ColorConfig{}), SeverityWarning),
		WithRule(NewUnitRule(UnitConfig{}), SeverityWarning),
	)
}

// Rules returns the configured rules in registration order.
func (l *Linter) Rules() []Rule {
	out := make([]Rule, len(l.rules))
	for i, e := range l.rules {
		out[i] = e.rule
	}
	return out
}

// Severity returns the severity a registered rule reports at.
func (l *Linter) Severity(name string) (Severity, bool) {
	for _, e := range l.rules {
		if e.rule.Name() == name {
			return e.severity, true
		}
	}
	return 0, false
}

// Lint walks root and returns the issues of every rule, in tree order and,
// per node, in rule registration order.
func (l *Linter) Lint(file string, root *ast.Node) []Issue {
	var issues []Issue
	ast.Walk(root, func(n *ast.Node) bool {
		if !n.IsIdentifier() {
			return true
		}
		for _, e := range l.rules {
			e.rule.Visit(n, SinkFunc(func(node *ast.Node, message string) {
				issues = append(issues, Issue{
					Rule:     e.rule.Name(),
					Severity: e.severity,
					Message:  message,
					Location: Location{File: file, Line: node.Pos.Line, Column: node.Pos.Column},
				})
			}))
		}
		return true
	})
	l.logger.Debug("linted tree", "file", file, "issues", len(issues))
	return issues
}
