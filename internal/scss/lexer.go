package scss

import (
	"strings"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokHash
	tokString
	tokVariable
	tokAtKeyword
	tokInterp // "#{", closed by a plain "}" token
	tokURL
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokHash:
		return "hash"
	case tokString:
		return "string"
	case tokVariable:
		return "variable"
	case tokAtKeyword:
		return "at-keyword"
	case tokInterp:
		return "interpolation"
	case tokURL:
		return "url"
	default:
		return "punctuation"
	}
}

type token struct {
	kind tokenKind
	// text is the raw source text of the token.
	text string
	// value is the unquoted content of strings and the inner text of url().
	value string
	off   int
	end   int
	pos   ast.Pos
	// space is set when whitespace or a comment precedes the token.
	space bool
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) punct(text string) bool {
	return t.is(tokPunct, text)
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

// tokenize splits src into tokens. Comments and whitespace are dropped and
// recorded on the following token. The last token is always tokEOF.
func tokenize(src string) ([]token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	var toks []token
	for {
		space, err := lx.skipSpace()
		if err != nil {
			return nil, err
		}
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		tok.space = space
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) pos() ast.Pos {
	return ast.Pos{Line: lx.line, Column: lx.col}
}

func (lx *lexer) peek(n int) byte {
	if lx.off+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+n]
}

func (lx *lexer) advance(n int) {
	for i := 0; i < n && lx.off < len(lx.src); i++ {
		c := lx.src[lx.off]
		lx.off++
		switch {
		case c == '\n':
			lx.line++
			lx.col = 1
		case c&0xC0 != 0x80:
			// Columns count characters, not UTF-8 continuation bytes.
			lx.col++
		}
	}
}

func (lx *lexer) skipSpace() (bool, error) {
	skipped := false
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			lx.advance(1)
		case c == '/' && lx.peek(1) == '/':
			for lx.off < len(lx.src) && lx.src[lx.off] != '\n' {
				lx.advance(1)
			}
		case c == '/' && lx.peek(1) == '*':
			start := lx.pos()
			idx := strings.Index(lx.src[lx.off+2:], "*/")
			if idx < 0 {
				return false, &SyntaxError{Pos: start, Msg: "unterminated comment"}
			}
			lx.advance(idx + 4)
		default:
			return skipped, nil
		}
		skipped = true
	}
	return skipped, nil
}

func (lx *lexer) emit(kind tokenKind, start int, pos ast.Pos) token {
	return token{kind: kind, text: lx.src[start:lx.off], off: start, end: lx.off, pos: pos}
}

func (lx *lexer) next() (token, error) {
	start, pos := lx.off, lx.pos()
	if lx.off >= len(lx.src) {
		return token{kind: tokEOF, off: start, end: start, pos: pos}, nil
	}

	c := lx.src[lx.off]
	switch {
	case c == '"' || c == '\'':
		return lx.lexString(c)

	case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
		lx.lexNumber()
		return lx.emit(tokNumber, start, pos), nil

	case c == '$' && isNameChar(lx.peek(1)):
		lx.advance(1)
		lx.lexName()
		return lx.emit(tokVariable, start, pos), nil

	case c == '@' && isNameStart(lx.peek(1)):
		lx.advance(1)
		lx.lexName()
		return lx.emit(tokAtKeyword, start, pos), nil

	case c == '#' && lx.peek(1) == '{':
		lx.advance(2)
		return lx.emit(tokInterp, start, pos), nil

	case c == '#' && isNameChar(lx.peek(1)):
		lx.advance(1)
		lx.lexName()
		return lx.emit(tokHash, start, pos), nil

	case lx.identStart():
		lx.lexName()
		if strings.EqualFold(lx.src[start:lx.off], "url") && lx.peek(0) == '(' {
			if tok, ok := lx.lexURL(start, pos); ok {
				return tok, nil
			}
		}
		return lx.emit(tokIdent, start, pos), nil

	case (c == '=' || c == '!' || c == '<' || c == '>') && lx.peek(1) == '=':
		lx.advance(2)
		return lx.emit(tokPunct, start, pos), nil
	}

	lx.advance(1)
	return lx.emit(tokPunct, start, pos), nil
}

func (lx *lexer) lexString(quote byte) (token, error) {
	start, pos := lx.off, lx.pos()
	lx.advance(1)
	var b strings.Builder
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		switch {
		case c == '\\' && lx.off+1 < len(lx.src):
			b.WriteByte(c)
			b.WriteByte(lx.src[lx.off+1])
			lx.advance(2)
		case c == quote:
			lx.advance(1)
			tok := lx.emit(tokString, start, pos)
			tok.value = b.String()
			return tok, nil
		case c == '\n':
			return token{}, &SyntaxError{Pos: pos, Msg: "unterminated string"}
		default:
			b.WriteByte(c)
			lx.advance(1)
		}
	}
	return token{}, &SyntaxError{Pos: pos, Msg: "unterminated string"}
}

func (lx *lexer) lexNumber() {
	for isDigit(lx.peek(0)) {
		lx.advance(1)
	}
	if lx.peek(0) == '.' && isDigit(lx.peek(1)) {
		lx.advance(1)
		for isDigit(lx.peek(0)) {
			lx.advance(1)
		}
	}
	switch {
	case lx.peek(0) == '%':
		lx.advance(1)
	case isLetter(lx.peek(0)):
		for isLetter(lx.peek(0)) {
			lx.advance(1)
		}
	}
}

// lexURL reads an unquoted url(...) argument verbatim, so that slashes in it
// are not taken for comments. Quoted arguments lex as a normal call.
func (lx *lexer) lexURL(start int, pos ast.Pos) (token, bool) {
	i := lx.off + 1
	for i < len(lx.src) && isSpace(lx.src[i]) {
		i++
	}
	if i < len(lx.src) && (lx.src[i] == '"' || lx.src[i] == '\'') {
		return token{}, false
	}
	end := strings.IndexByte(lx.src[i:], ')')
	if end < 0 {
		return token{}, false
	}
	lx.advance(i + end + 1 - lx.off)
	tok := lx.emit(tokURL, start, pos)
	tok.value = strings.TrimSpace(lx.src[i : i+end])
	return tok, true
}

func (lx *lexer) identStart() bool {
	c := lx.peek(0)
	if isNameStart(c) {
		return true
	}
	if c != '-' {
		return false
	}
	n := lx.peek(1)
	return isNameStart(n) || n == '-'
}

func (lx *lexer) lexName() {
	for isNameChar(lx.peek(0)) || (lx.peek(0) == '\\' && lx.peek(1) != 0) {
		if lx.peek(0) == '\\' {
			lx.advance(2)
			continue
		}
		lx.advance(1)
	}
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }

func isNameStart(c byte) bool {
	return isLetter(c) || c == '_' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-'
}
