package scss

import "github.com/robert-at-pretension-io/paint-lint/internal/ast"

// exprParser parses SassScript over a token slice that ends in tokEOF.
type exprParser struct {
	src  string
	toks []token
	i    int
}

func (e *exprParser) peek() token {
	return e.toks[e.i]
}

func (e *exprParser) at(j int) token {
	if j >= len(e.toks) {
		return e.toks[len(e.toks)-1]
	}
	return e.toks[j]
}

func (e *exprParser) next() token {
	t := e.toks[e.i]
	if t.kind != tokEOF {
		e.i++
	}
	return t
}

func (e *exprParser) expect(text string) error {
	if t := e.peek(); !t.punct(text) {
		return unexpected(t)
	}
	e.next()
	return nil
}

// listEnd reports whether the next token closes the current list.
func (e *exprParser) listEnd() bool {
	t := e.peek()
	if t.kind == tokEOF {
		return true
	}
	if t.kind != tokPunct {
		return false
	}
	switch t.text {
	case ",", ")", "]", "}", ":", ";", "{":
		return true
	}
	return false
}

func (e *exprParser) commaList() (*ast.Node, error) {
	first := e.peek()
	item, err := e.spaceList()
	if err != nil {
		return nil, err
	}
	if !e.peek().punct(",") {
		return item, nil
	}

	list := ast.New(ast.KindOther, "list", first.pos)
	list.Append(item)
	for e.peek().punct(",") {
		e.next()
		if e.listEnd() {
			break
		}
		item, err := e.spaceList()
		if err != nil {
			return nil, err
		}
		list.Append(item)
	}
	return list, nil
}

func (e *exprParser) spaceList() (*ast.Node, error) {
	first := e.peek()
	var items []*ast.Node
	for !e.listEnd() {
		item, err := e.binary(0)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	switch len(items) {
	case 0:
		return nil, unexpected(first)
	case 1:
		return items[0], nil
	}
	list := ast.New(ast.KindOther, "list", first.pos)
	for _, item := range items {
		list.Append(item)
	}
	return list, nil
}

// binaryOp returns the precedence of the operator at the cursor.
func (e *exprParser) binaryOp() (int, bool) {
	t := e.peek()
	switch {
	case t.is(tokIdent, "or"):
		return 1, true
	case t.is(tokIdent, "and"):
		return 2, true
	case t.kind != tokPunct:
		return 0, false
	}
	switch t.text {
	case "==", "!=":
		return 3, true
	case "<", ">", "<=", ">=":
		return 4, true
	case "+", "-":
		// "1px -2px" is a list of two numbers, "1px - 2px" a subtraction.
		if t.space && !e.at(e.i+1).space {
			return 0, false
		}
		return 5, true
	case "*", "/", "%":
		return 6, true
	}
	return 0, false
}

func (e *exprParser) binary(minPrec int) (*ast.Node, error) {
	left, err := e.unary()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := e.binaryOp()
		if !ok || prec < minPrec {
			return left, nil
		}
		op := e.next()
		right, err := e.binary(prec + 1)
		if err != nil {
			return nil, err
		}
		n := ast.New(ast.KindOther, "operation", op.pos)
		n.Name = op.text
		n.Append(left)
		n.Append(right)
		left = n
	}
}

func (e *exprParser) unary() (*ast.Node, error) {
	t := e.peek()
	switch {
	case t.punct("-") || t.punct("+"):
		if num := e.at(e.i + 1); num.kind == tokNumber && !num.space {
			e.next()
			e.next()
			return literal(t.pos, t.text+num.text, ast.Identifier), nil
		}
	case t.is(tokIdent, "not") && !e.at(e.i+1).punct("("):
	default:
		return e.primary()
	}

	e.next()
	operand, err := e.unary()
	if err != nil {
		return nil, err
	}
	n := ast.New(ast.KindOther, "unary", t.pos)
	n.Name = t.text
	n.Append(operand)
	return n, nil
}

func (e *exprParser) primary() (*ast.Node, error) {
	t := e.peek()
	switch t.kind {
	case tokIdent, tokNumber, tokHash, tokInterp:
		n, ok, err := e.compound()
		if err != nil || ok {
			return n, err
		}
	}

	switch t.kind {
	case tokNumber, tokHash:
		e.next()
		return literal(t.pos, t.text, ast.Identifier), nil
	case tokString:
		e.next()
		return literal(t.pos, t.value, ast.Quoted), nil
	case tokIdent:
		return e.identifier()
	case tokURL:
		e.next()
		fn := ast.New(ast.KindFuncall, "funcall", t.pos)
		fn.Name = "url"
		arg := fn.Append(ast.New(ast.KindOther, "url", t.pos))
		arg.Value = t.value
		return fn, nil
	case tokVariable:
		e.next()
		v := ast.New(ast.KindOther, "variable", t.pos)
		v.Name = t.text
		e.restArgs()
		return v, nil
	case tokInterp:
		return e.interpolation()
	}

	switch {
	case t.punct("("):
		return e.parens()
	case t.punct("["):
		return e.brackets()
	case t.punct("!") && e.at(e.i+1).kind == tokIdent && !e.at(e.i+1).space:
		e.next()
		flag := ast.New(ast.KindOther, "flag", t.pos)
		flag.Name = e.next().text
		return flag, nil
	case t.punct("&"):
		e.next()
		return ast.New(ast.KindOther, "parent_selector", t.pos), nil
	}
	return nil, unexpected(t)
}

// restArgs consumes a "..." suffix.
func (e *exprParser) restArgs() {
	for k := 0; k < 3; k++ {
		if t := e.at(e.i + k); !t.punct(".") || (k > 0 && t.space) {
			return
		}
	}
	e.i += 3
}

// compound merges tokens glued to an interpolation, as in #{$side}-margin or
// 2#{$unit}, into one identifier literal holding the raw text. A lone
// interpolation is left to the caller.
func (e *exprParser) compound() (*ast.Node, bool, error) {
	start := e.i
	j := start
	parts, interp := 0, false
	for {
		t := e.at(j)
		if j > start && t.space {
			break
		}
		if t.kind == tokInterp {
			end, err := e.interpEnd(j)
			if err != nil {
				return nil, false, err
			}
			j = end + 1
			interp = true
		} else if t.kind == tokIdent || t.kind == tokNumber || t.kind == tokHash {
			j++
		} else {
			break
		}
		parts++
	}
	if !interp || parts < 2 {
		return nil, false, nil
	}
	first := e.toks[start]
	e.i = j
	return literal(first.pos, e.src[first.off:e.toks[j-1].end], ast.Identifier), true, nil
}

// interpEnd returns the index of the "}" closing the interpolation at j.
func (e *exprParser) interpEnd(j int) (int, error) {
	depth := 0
	for k := j; k < len(e.toks); k++ {
		t := e.toks[k]
		switch {
		case t.kind == tokInterp:
			depth++
		case t.punct("}"):
			depth--
			if depth == 0 {
				return k, nil
			}
		case t.kind == tokEOF:
			return 0, errorAt(e.toks[j], "unterminated interpolation")
		}
	}
	return 0, errorAt(e.toks[j], "unterminated interpolation")
}

func (e *exprParser) interpolation() (*ast.Node, error) {
	open := e.next()
	n := ast.New(ast.KindOther, "interpolation", open.pos)
	if !e.peek().punct("}") {
		inner, err := e.commaList()
		if err != nil {
			return nil, err
		}
		n.Append(inner)
	}
	if err := e.expect("}"); err != nil {
		return nil, err
	}
	return n, nil
}

func (e *exprParser) identifier() (*ast.Node, error) {
	t := e.next()
	name := t.text
	// Module members: map.get(...), math.div(...).
	if dot, member := e.peek(), e.at(e.i+1); dot.punct(".") && !dot.space && member.kind == tokIdent && !member.space {
		e.next()
		e.next()
		name += "." + member.text
	}
	if open := e.peek(); open.punct("(") && !open.space {
		return e.call(t.pos, name)
	}
	return literal(t.pos, name, ast.Identifier), nil
}

func (e *exprParser) call(pos ast.Pos, name string) (*ast.Node, error) {
	open := e.next()
	fn := ast.New(ast.KindFuncall, "funcall", pos)
	fn.Name = name
	for !e.peek().punct(")") {
		if e.peek().kind == tokEOF {
			return nil, errorAt(open, "unclosed argument list of %s()", name)
		}
		// Keyword arguments sit directly under the call like positional ones.
		if e.peek().kind == tokVariable && e.at(e.i+1).punct(":") {
			e.next()
			e.next()
		}
		arg, err := e.spaceList()
		if err != nil {
			return nil, err
		}
		fn.Append(arg)
		if e.peek().punct(",") {
			e.next()
			continue
		}
		if !e.peek().punct(")") {
			return nil, unexpected(e.peek())
		}
	}
	e.next()
	return fn, nil
}

// parens parses a parenthesized expression, a map literal or "()".
func (e *exprParser) parens() (*ast.Node, error) {
	open := e.next()
	if e.peek().punct(")") {
		e.next()
		return ast.New(ast.KindOther, "list", open.pos), nil
	}

	sep := findTopLevel(e.toks, e.i, len(e.toks), func(t token) bool {
		return t.punct(":") || t.punct(")")
	})
	if sep < 0 || !e.toks[sep].punct(":") {
		inner, err := e.commaList()
		if err != nil {
			return nil, err
		}
		if err := e.expect(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	m := ast.New(ast.KindMap, "map", open.pos)
	for {
		key, err := e.spaceList()
		if err != nil {
			return nil, err
		}
		if err := e.expect(":"); err != nil {
			return nil, err
		}
		value, err := e.spaceList()
		if err != nil {
			return nil, err
		}
		m.Append(key)
		m.Append(value)

		if e.peek().punct(",") {
			e.next()
		}
		if e.peek().punct(")") {
			e.next()
			return m, nil
		}
		if e.peek().kind == tokEOF {
			return nil, errorAt(open, "unclosed map")
		}
	}
}

func (e *exprParser) brackets() (*ast.Node, error) {
	open := e.next()
	n := ast.New(ast.KindOther, "bracketed_list", open.pos)
	if !e.peek().punct("]") {
		inner, err := e.commaList()
		if err != nil {
			return nil, err
		}
		n.Append(inner)
	}
	if err := e.expect("]"); err != nil {
		return nil, err
	}
	return n, nil
}
