// Package scss parses SCSS stylesheets into ast trees.
//
// Statements (rules, declarations, variable assignments and at-rules) are
// parsed structurally. Selectors and most at-rule preludes are kept as raw
// text. Declaration values and the expressions of the script at-rules are
// parsed into expression trees in which every literal sits under a "literal"
// wrapper node that is a direct child of its container:
//
//	declaration "width"
//	  literal
//	    string 16px
//
// A value the expression parser cannot handle falls back to a single literal
// holding the raw value text.
package scss

import (
	"strings"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
)

// Parse parses a complete stylesheet. The root node has type "stylesheet".
func Parse(src []byte) (*ast.Node, error) {
	text := string(src)
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{src: text, toks: toks}
	root := ast.New(ast.KindOther, "stylesheet", ast.Pos{Line: 1, Column: 1})
	if err := p.statements(root, nil); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseExpression parses a single SassScript expression, such as a
// declaration value.
func ParseExpression(src string) (*ast.Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	return p.expression(0, len(toks)-1)
}

// Statements whose prelude is parsed as an expression.
var scriptAtRules = map[string]bool{
	"include": true,
	"return":  true,
	"if":      true,
	"else if": true,
	"while":   true,
	"debug":   true,
	"warn":    true,
	"error":   true,
	"each":    true,
}

type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

// raw returns the trimmed source text spanned by toks[from:to].
func (p *parser) raw(from, to int) string {
	if from >= to {
		return ""
	}
	return strings.TrimSpace(p.src[p.toks[from].off:p.toks[to-1].end])
}

// statementEnd returns the index of the "{", ";" or "}" that ends the
// statement starting at from, or of the EOF token.
func (p *parser) statementEnd(from int) int {
	return findTopLevel(p.toks, from, len(p.toks), func(t token) bool {
		return t.kind == tokEOF || t.punct("{") || t.punct(";") || t.punct("}")
	})
}

// statements parses a block body into parent. open is the "{" of the block,
// nil at the top level. The closing "}" is consumed.
func (p *parser) statements(parent *ast.Node, open *token) error {
	for {
		t := p.peek()
		var err error
		switch {
		case t.kind == tokEOF:
			if open != nil {
				return errorAt(*open, "unclosed block")
			}
			return nil
		case t.punct("}"):
			if open == nil {
				return unexpected(t)
			}
			p.next()
			return nil
		case t.punct(";"):
			p.next()
		case t.kind == tokAtKeyword:
			err = p.atRule(parent)
		case t.kind == tokVariable && p.toks[p.i+1].punct(":"):
			err = p.variable(parent)
		default:
			err = p.ruleOrDeclaration(parent)
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) block(parent *ast.Node, end int) error {
	p.i = end
	switch t := p.peek(); {
	case t.punct("{"):
		p.next()
		return p.statements(parent, &t)
	case t.punct(";"):
		p.next()
	}
	return nil
}

func (p *parser) ruleOrDeclaration(parent *ast.Node) error {
	start := p.i
	end := p.statementEnd(start)
	if p.toks[end].punct("{") {
		rule := parent.Append(ast.New(ast.KindOther, "rule", p.toks[start].pos))
		rule.Name = p.raw(start, end)
		return p.block(rule, end)
	}

	colon := findTopLevel(p.toks, start, end, func(t token) bool { return t.punct(":") })
	switch {
	case colon < 0:
		return errorAt(p.toks[start], "expected \":\" after %q", p.raw(start, end))
	case colon == start:
		return errorAt(p.toks[start], "missing property name")
	}

	decl := parent.Append(ast.New(ast.KindOther, "declaration", p.toks[start].pos))
	decl.Name = p.raw(start, colon)
	p.value(decl, colon+1, end, strings.HasPrefix(decl.Name, "--"))
	return p.block(decl, end)
}

func (p *parser) variable(parent *ast.Node) error {
	name := p.next()
	p.next() // ":"
	start := p.i
	end := p.statementEnd(start)
	if p.toks[end].punct("{") {
		return unexpected(p.toks[end])
	}

	valueEnd := end
	for valueEnd-2 >= start && p.toks[valueEnd-2].punct("!") && isVariableFlag(p.toks[valueEnd-1]) {
		valueEnd -= 2
	}

	decl := parent.Append(ast.New(ast.KindOther, "variable_declaration", name.pos))
	decl.Name = name.text
	p.value(decl, start, valueEnd, false)
	return p.block(decl, end)
}

func isVariableFlag(t token) bool {
	return t.kind == tokIdent && (t.text == "default" || t.text == "global")
}

func (p *parser) atRule(parent *ast.Node) error {
	kw := p.next()
	name := strings.ToLower(strings.TrimPrefix(kw.text, "@"))
	if name == "else" && p.peek().is(tokIdent, "if") {
		name = "else if"
		p.next()
	}
	start := p.i
	end := p.statementEnd(start)

	at := parent.Append(ast.New(ast.KindOther, "at_rule", kw.pos))
	at.Name = name

	if !scriptAtRules[name] || !p.script(at, name, start, end) {
		if prelude := p.raw(start, end); prelude != "" {
			n := at.Append(ast.New(ast.KindOther, "prelude", p.toks[start].pos))
			n.Value = prelude
		}
	}
	return p.block(at, end)
}

// script parses the prelude of a script at-rule. It reports false when the
// prelude is not a valid expression, leaving at untouched.
func (p *parser) script(at *ast.Node, name string, start, end int) bool {
	from, to := start, end
	switch name {
	case "each":
		in := findTopLevel(p.toks, start, end, func(t token) bool { return t.is(tokIdent, "in") })
		if in < 0 {
			return false
		}
		from = in + 1
	case "include":
		if using := findTopLevel(p.toks, start, end, func(t token) bool { return t.is(tokIdent, "using") }); using >= 0 {
			to = using
		}
	}
	if from >= to {
		return false
	}

	expr, err := p.expression(from, to)
	if err != nil {
		return false
	}
	if name == "include" {
		switch {
		case expr.Kind == ast.KindFuncall:
		case expr.Type == "literal" && len(expr.Children) == 1:
			// A mixin included without arguments.
			fn := ast.New(ast.KindFuncall, "funcall", expr.Pos)
			fn.Name = expr.Children[0].Value
			expr = fn
		default:
			return false
		}
	}
	at.Append(expr)
	return true
}

func (p *parser) value(decl *ast.Node, from, to int, raw bool) {
	if from >= to {
		return
	}
	if !raw {
		if expr, err := p.expression(from, to); err == nil {
			decl.Append(expr)
			return
		}
	}
	decl.Append(literal(p.toks[from].pos, p.raw(from, to), ast.Identifier))
}

// expression parses toks[from:to] as one complete expression.
func (p *parser) expression(from, to int) (*ast.Node, error) {
	toks := make([]token, 0, to-from+1)
	toks = append(toks, p.toks[from:to]...)
	stop := p.toks[to]
	toks = append(toks, token{kind: tokEOF, off: stop.off, end: stop.off, pos: stop.pos})

	e := &exprParser{src: p.src, toks: toks}
	n, err := e.commaList()
	if err != nil {
		return nil, err
	}
	if t := e.peek(); t.kind != tokEOF {
		return nil, unexpected(t)
	}
	return n, nil
}

// findTopLevel returns the index of the first token in toks[from:to] that
// matches outside parentheses, brackets and interpolation, or -1.
func findTopLevel(toks []token, from, to int, match func(token) bool) int {
	depth, interp := 0, 0
	for j := from; j < to && j < len(toks); j++ {
		t := toks[j]
		switch {
		case t.kind == tokInterp:
			interp++
			continue
		case interp > 0:
			if t.punct("}") {
				interp--
			}
			continue
		}
		if depth == 0 && match(t) {
			return j
		}
		switch {
		case t.punct("(") || t.punct("["):
			depth++
		case (t.punct(")") || t.punct("]")) && depth > 0:
			depth--
		}
	}
	return -1
}

func literal(pos ast.Pos, value string, q ast.Quoting) *ast.Node {
	w := ast.New(ast.KindOther, "literal", pos)
	s := w.Append(ast.New(ast.KindString, "string", pos))
	s.Value = value
	s.Quoting = q
	return w
}
