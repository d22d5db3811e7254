package lint

import (
	"fmt"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
)

// UnitRuleName identifies the pixel-unit rule in config and output.
const UnitRuleName = "paint-units"

// DefaultMinPixels is the smallest pixel value the unit rule reports.
const DefaultMinPixels = 10

// DefaultUnitFunctions may receive raw pixel lengths as arguments.
var DefaultUnitFunctions = []string{"map-get", "map-has-key", "map-remove", "rem", "em", "px"}

// UnitConfig configures a UnitRule.
type UnitConfig struct {
	// AllowedFunctions exempts their direct arguments. Nil selects
	// DefaultUnitFunctions; an empty non-nil slice allows nothing.
	AllowedFunctions []string

	// MinPixels is the smallest reported magnitude. Zero or negative selects
	// DefaultMinPixels.
	MinPixels int

	// Scanner overrides the token scanner. Nil selects PixelScanner.
	Scanner Scanner
}

// UnitRule reports bare pixel lengths that should go through rem() or gutter().
type UnitRule struct {
	allowed   FuncSet
	minPixels uint64
	scanner   Scanner
}

// NewUnitRule creates a unit rule from cfg.
func NewUnitRule(cfg UnitConfig) *UnitRule {
	names := cfg.AllowedFunctions
	if names == nil {
		names = DefaultUnitFunctions
	}
	minPixels := cfg.MinPixels
	if minPixels <= 0 {
		minPixels = DefaultMinPixels
	}
	scanner := cfg.Scanner
	if scanner == nil {
		scanner = PixelScanner{}
	}
	return &UnitRule{
		allowed:   NewFuncSet(names...),
		minPixels: uint64(minPixels),
		scanner:   scanner,
	}
}

// Name returns the unique identifier for this rule.
func (r *UnitRule) Name() string {
	return UnitRuleName
}

// Description returns a human-readable description of what this rule checks.
func (r *UnitRule) Description() string {
	return fmt.Sprintf("Disallows raw pixel lengths of %dpx or more outside rem() and gutter maps", r.minPixels)
}

// MinPixels returns the effective reporting threshold.
func (r *UnitRule) MinPixels() int {
	return int(r.minPixels)
}

// AllowedFunctions returns the allow-list in sorted order.
func (r *UnitRule) AllowedFunctions() []string {
	return r.allowed.Names()
}

// Visit implements Rule.
func (r *UnitRule) Visit(node *ast.Node, sink Sink) {
	if !node.IsIdentifier() {
		return
	}
	for _, m := range r.scanner.Scan(StripQuoted(node.Value)) {
		if r.exempt(node, m) {
			continue
		}
		sink.Report(node, fmt.Sprintf("Use rem(%s) or an existing gutter($size) value instead of %s.", m.Text, m.Text))
	}
}

func (r *UnitRule) exempt(node *ast.Node, m Match) bool {
	if m.Magnitude() < r.minPixels {
		return true
	}
	if InMap(node) {
		return true
	}
	_, ok := AllowedCall(node, r.allowed)
	return ok
}
