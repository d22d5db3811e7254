package extractor

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
	"github.com/robert-at-pretension-io/paint-lint/internal/scss"
)

// ParseCSS parses plain CSS with tree-sitter and converts the result.
// Syntax errors are reported as *scss.SyntaxError at the first broken node.
func ParseCSS(ctx context.Context, content []byte) (*ast.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(css.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter: %w", err)
	}
	defer tree.Close()

	node := tree.RootNode()
	if node.HasError() {
		bad := firstError(node)
		if bad == nil {
			bad = node
		}
		return nil, &scss.SyntaxError{Pos: position(bad), Msg: fmt.Sprintf("invalid CSS near %q", snippet(bad.Content(content)))}
	}

	root := ast.New(ast.KindOther, "stylesheet", ast.Pos{Line: 1, Column: 1})
	convertChildren(root, node, content)
	return root, nil
}

func position(n *sitter.Node) ast.Pos {
	p := n.StartPoint()
	return ast.Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.HasError() {
			if bad := firstError(c); bad != nil {
				return bad
			}
		}
	}
	return nil
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}

// convertChildren appends the converted named children of n to parent.
func convertChildren(parent *ast.Node, n *sitter.Node, source []byte) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		convert(parent, n.NamedChild(i), source)
	}
}

// convert maps one tree-sitter node onto parent. Value nodes become a literal
// wrapper around a string, calls become funcalls whose arguments hang
// directly below them, and grouping nodes without meaning of their own
// (block, arguments) are flattened into their parent.
func convert(parent *ast.Node, n *sitter.Node, source []byte) {
	if n == nil {
		return
	}
	pos := position(n)

	switch n.Type() {
	case "comment", "property_name", "function_name", "selectors":
		return

	case "plain_value", "color_value", "integer_value", "float_value":
		parent.Append(stringLiteral(pos, n.Content(source), ast.Identifier))

	case "string_value":
		parent.Append(stringLiteral(pos, unquote(n.Content(source)), ast.Quoted))

	case "call_expression":
		fn := parent.Append(ast.New(ast.KindFuncall, "call_expression", pos))
		if name := n.ChildByFieldName("function_name"); name != nil {
			fn.Name = name.Content(source)
		} else if n.NamedChildCount() > 0 {
			fn.Name = n.NamedChild(0).Content(source)
		}
		convertChildren(fn, n, source)

	case "block", "arguments":
		convertChildren(parent, n, source)

	case "declaration":
		decl := parent.Append(ast.New(ast.KindOther, "declaration", pos))
		if n.NamedChildCount() > 0 {
			decl.Name = n.NamedChild(0).Content(source)
		}
		convertChildren(decl, n, source)

	case "rule_set":
		rule := parent.Append(ast.New(ast.KindOther, "rule", pos))
		if sel := n.NamedChild(0); sel != nil && sel.Type() == "selectors" {
			rule.Name = strings.TrimSpace(sel.Content(source))
		}
		convertChildren(rule, n, source)

	case "media_statement", "supports_statement", "keyframes_statement", "import_statement",
		"charset_statement", "namespace_statement", "at_rule":
		convertAtRule(parent, n, source)

	case "binary_expression":
		op := parent.Append(ast.New(ast.KindOther, "operation", pos))
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c != nil && !c.IsNamed() {
				op.Name = c.Type()
			}
		}
		convertChildren(op, n, source)

	default:
		other := parent.Append(ast.New(ast.KindOther, n.Type(), pos))
		convertChildren(other, n, source)
	}
}

// convertAtRule keeps the prelude as raw text, as the SCSS parser does, and
// converts only the body.
func convertAtRule(parent *ast.Node, n *sitter.Node, source []byte) {
	at := parent.Append(ast.New(ast.KindOther, "at_rule", position(n)))
	if n.ChildCount() == 0 {
		return
	}
	keyword := n.Child(0)
	at.Name = strings.TrimPrefix(keyword.Content(source), "@")

	var body *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "block" || c.Type() == "keyframe_block_list" {
			body = c
		}
	}

	end := n.EndByte()
	if body != nil {
		end = body.StartByte()
	}
	if start := keyword.EndByte(); start < end {
		prelude := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(string(source[start:end])), ";"))
		if prelude != "" {
			p := at.Append(ast.New(ast.KindOther, "prelude", position(n)))
			p.Value = prelude
		}
	}
	if body != nil {
		convertChildren(at, body, source)
	}
}

func stringLiteral(pos ast.Pos, value string, q ast.Quoting) *ast.Node {
	w := ast.New(ast.KindOther, "literal", pos)
	s := w.Append(ast.New(ast.KindString, "string", pos))
	s.Value = value
	s.Quoting = q
	return w
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
