package scss

import (
	"errors"
	"fmt"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
)

// ErrSyntax is the sentinel wrapped by every SyntaxError.
var ErrSyntax = errors.New("scss syntax error")

// SyntaxError is a parse failure at a source position.
type SyntaxError struct {
	Pos ast.Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Unwrap lets callers test for ErrSyntax with errors.Is.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func errorAt(t token, format string, args ...any) error {
	return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func unexpected(t token) error {
	if t.kind == tokEOF {
		return errorAt(t, "unexpected end of input")
	}
	return errorAt(t, "unexpected %q", t.text)
}
