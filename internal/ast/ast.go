// Package ast is the stylesheet syntax tree shared by the parsers and the linter.
//
// Parsers own the trees they build. Everything downstream only reads them:
// the linter walks nodes and looks up ancestors, it never rewrites a tree.
package ast

import (
	"fmt"
	"strings"
)

// Kind is the closed set of node categories the linter distinguishes.
type Kind int

const (
	// KindOther is any structural node: statements, lists, operations, value wrappers.
	KindOther Kind = iota
	// KindString is a string or identifier literal.
	KindString
	// KindMap is a map literal, e.g. (key: value, other: value).
	KindMap
	// KindFuncall is a function call expression.
	KindFuncall
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindFuncall:
		return "funcall"
	default:
		return "unknown"
	}
}

// Quoting tells identifier-like strings apart from quoted string literals.
type Quoting int

const (
	// Identifier is an unquoted token: red, 16px, #fff, solid.
	Identifier Quoting = iota
	// Quoted is a string literal written with quotes.
	Quoted
)

// Pos is a 1-based source position.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is a single syntax tree node.
type Node struct {
	Kind Kind
	// Type is the grammar-level node name ("literal", "declaration",
	// "call_expression", ...). Informational only.
	Type string
	// Value is the raw text of a string node. Quoted strings store their
	// content without the surrounding quotes.
	Value   string
	Quoting Quoting
	// Name is the callee of a funcall, or the property, selector or at-rule
	// name of a statement.
	Name     string
	Pos      Pos
	Parent   *Node
	Children []*Node
}

// New returns a detached node of the given kind and type.
func New(kind Kind, typ string, pos Pos) *Node {
	return &Node{Kind: kind, Type: typ, Pos: pos}
}

// Append adds child to n, sets its parent, and returns the child.
func (n *Node) Append(child *Node) *Node {
	if child == nil {
		return nil
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// Ancestor returns the node depth levels above n, or nil when the chain is
// shorter than that. Ancestor(0) is n itself.
func (n *Node) Ancestor(depth int) *Node {
	cur := n
	for i := 0; i < depth && cur != nil; i++ {
		cur = cur.Parent
	}
	return cur
}

// IsIdentifier reports whether n is an unquoted string literal.
func (n *Node) IsIdentifier() bool {
	return n != nil && n.Kind == KindString && n.Quoting == Identifier
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the children of that node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Dump renders the subtree rooted at n, one node per line, for debugging.
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n *Node, indent int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(b, "%s %s", n.Kind, n.Type)
	if n.Name != "" {
		fmt.Fprintf(b, " name=%q", n.Name)
	}
	if n.Kind == KindString {
		q := "ident"
		if n.Quoting == Quoted {
			q = "quoted"
		}
		fmt.Fprintf(b, " %s=%q", q, n.Value)
	}
	fmt.Fprintf(b, " @%s\n", n.Pos)
	for _, c := range n.Children {
		dump(b, c, indent+1)
	}
}
