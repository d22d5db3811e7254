// paint-tree prints the syntax tree paint-lint builds for a stylesheet,
// followed by every literal string and the container the rules see for it.
//
// Usage:
//
//	paint-tree <file.scss|file.css>
//	paint-tree -e '<scss expression>'
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
	"github.com/robert-at-pretension-io/paint-lint/internal/extractor"
	"github.com/robert-at-pretension-io/paint-lint/internal/lint"
	"github.com/robert-at-pretension-io/paint-lint/internal/scss"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "paint-tree: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	var (
		root *ast.Node
		err  error
	)
	switch {
	case len(args) == 2 && args[0] == "-e":
		root, err = scss.ParseExpression(args[1])
	case len(args) == 1:
		root, err = extractor.New().Extract(context.Background(), args[0])
	default:
		return fmt.Errorf("usage: paint-tree <file> | paint-tree -e <expression>")
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "== tree ==")
	fmt.Fprint(w, ast.Dump(root))
	fmt.Fprintln(w, "\n== literals ==")
	ast.Walk(root, func(n *ast.Node) bool {
		if n.Kind != ast.KindString {
			return true
		}
		quoting := "ident"
		if !n.IsIdentifier() {
			quoting = "quoted"
		}
		fmt.Fprintf(w, "%s %q %s -> %s\n", n.Pos, n.Value, quoting, describe(n.Ancestor(lint.ContextDepth)))
		return true
	})
	return nil
}

func describe(n *ast.Node) string {
	if n == nil {
		return "(none)"
	}
	if n.Name != "" {
		return fmt.Sprintf("%s %s name=%q", n.Kind, n.Type, n.Name)
	}
	return fmt.Sprintf("%s %s", n.Kind, n.Type)
}
