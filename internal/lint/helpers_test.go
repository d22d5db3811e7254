package lint

import "github.com/robert-at-pretension-io/paint-lint/internal/ast"

// literal wraps an identifier string in a value node under parent, matching
// the literal -> wrapper -> container shape the parsers produce.
func literal(parent *ast.Node, value string) *ast.Node {
	pos := ast.Pos{Line: 1, Column: 1}
	if parent.Pos.Line > 0 {
		pos = parent.Pos
	}
	w := parent.Append(ast.New(ast.KindOther, "literal", pos))
	return w.Append(&ast.Node{Kind: ast.KindString, Type: "string", Value: value, Pos: pos})
}

func quoted(parent *ast.Node, value string) *ast.Node {
	n := literal(parent, value)
	n.Quoting = ast.Quoted
	return n
}

// declaration builds stylesheet > rule > declaration > literal > string.
func declaration(prop, value string) (*ast.Node, *ast.Node) {
	root := ast.New(ast.KindOther, "stylesheet", ast.Pos{Line: 1, Column: 1})
	rule := root.Append(ast.New(ast.KindOther, "rule", ast.Pos{Line: 1, Column: 1}))
	rule.Name = ".a"
	decl := rule.Append(ast.New(ast.KindOther, "declaration", ast.Pos{Line: 2, Column: 3}))
	decl.Name = prop
	return root, literal(decl, value)
}

// call builds stylesheet > declaration > funcall(name) > literal > string.
func call(name, value string) (*ast.Node, *ast.Node) {
	root := ast.New(ast.KindOther, "stylesheet", ast.Pos{Line: 1, Column: 1})
	decl := root.Append(ast.New(ast.KindOther, "declaration", ast.Pos{Line: 1, Column: 1}))
	fn := decl.Append(ast.New(ast.KindFuncall, "funcall", ast.Pos{Line: 1, Column: 8}))
	fn.Name = name
	return root, literal(fn, value)
}

// mapEntry builds stylesheet > variable > map > literal(key) + literal(value).
func mapEntry(key, value string) (*ast.Node, *ast.Node) {
	root := ast.New(ast.KindOther, "stylesheet", ast.Pos{Line: 1, Column: 1})
	v := root.Append(ast.New(ast.KindOther, "variable_declaration", ast.Pos{Line: 1, Column: 1}))
	m := v.Append(ast.New(ast.KindMap, "map", ast.Pos{Line: 1, Column: 9}))
	literal(m, key)
	return root, literal(m, value)
}

type recordingSink struct {
	nodes    []*ast.Node
	messages []string
}

func (s *recordingSink) Report(node *ast.Node, message string) {
	s.nodes = append(s.nodes, node)
	s.messages = append(s.messages, message)
}
