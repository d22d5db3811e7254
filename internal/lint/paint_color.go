package lint

import (
	"fmt"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
)

// ColorRuleName identifies the color rule in config and output.
const ColorRuleName = "paint-color"

// DefaultColorFunctions may receive raw colors as arguments.
var DefaultColorFunctions = []string{"map-get", "map-has-key", "map-remove", "color"}

// ColorConfig configures a ColorRule.
type ColorConfig struct {
	// AllowedFunctions exempts their direct arguments. Nil selects
	// DefaultColorFunctions; an empty non-nil slice allows nothing.
	AllowedFunctions []string

	// Scanner overrides the token scanner. Nil selects ColorScanner.
	Scanner Scanner
}

// ColorRule reports bare color keywords and hex codes.
type ColorRule struct {
	allowed FuncSet
	scanner Scanner
}

// NewColorRule creates a color rule from cfg.
func NewColorRule(cfg ColorConfig) *ColorRule {
	names := cfg.AllowedFunctions
	if names == nil {
		names = DefaultColorFunctions
	}
	scanner := cfg.Scanner
	if scanner == nil {
		scanner = ColorScanner{}
	}
	return &ColorRule{
		allowed: NewFuncSet(names...),
		scanner: scanner,
	}
}

// Name returns the unique identifier for this rule.
func (r *ColorRule) Name() string {
	return ColorRuleName
}

// Description returns a human-readable description of what this rule checks.
func (r *ColorRule) Description() string {
	return "Disallows raw color keywords and hex codes outside color() and palette maps"
}

// AllowedFunctions returns the allow-list in sorted order.
func (r *ColorRule) AllowedFunctions() []string {
	return r.allowed.Names()
}

// Visit implements Rule.
func (r *ColorRule) Visit(node *ast.Node, sink Sink) {
	if !node.IsIdentifier() {
		return
	}
	for _, m := range r.scanner.Scan(StripQuoted(node.Value)) {
		if r.exempt(node) {
			continue
		}
		sink.Report(node, fmt.Sprintf("Use color(%s) or an existing palette value.", m.Text))
	}
}

func (r *ColorRule) exempt(node *ast.Node) bool {
	if InMap(node) {
		return true
	}
	_, ok := AllowedCall(node, r.allowed)
	return ok
}
