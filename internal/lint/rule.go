// Package lint implements the paint rules: it flags raw colors and pixel
// lengths written inside stylesheet literals, unless the literal sits in a map
// or is an argument of an allow-listed function.
package lint

import (
	"sort"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
)

// Rule is a check run against every identifier string literal in a tree.
type Rule interface {
	// Name returns the rule identifier, e.g. "paint-color".
	Name() string

	// Description returns a one-line summary of what the rule enforces.
	Description() string

	// Visit evaluates one identifier string node and reports findings to sink.
	// Visit must not keep state between calls.
	Visit(node *ast.Node, sink Sink)
}

// Sink receives findings. It is called zero or more times per visited node.
type Sink interface {
	Report(node *ast.Node, message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(node *ast.Node, message string)

// Report calls f(node, message).
func (f SinkFunc) Report(node *ast.Node, message string) {
	f(node, message)
}

// FuncSet is an immutable set of function names.
type FuncSet struct {
	names map[string]struct{}
}

// NewFuncSet builds a set from names. Duplicates are ignored.
func NewFuncSet(names ...string) FuncSet {
	set := FuncSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		set.names[n] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s FuncSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set.
func (s FuncSet) Len() int {
	return len(s.names)
}

// Names returns the members in sorted order.
func (s FuncSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
