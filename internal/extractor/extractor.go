// Package extractor turns stylesheet files into ast trees.
//
// SCSS sources go through the internal/scss parser. Plain CSS is parsed with
// the tree-sitter CSS grammar and converted so that both produce the same
// literal -> wrapper -> container shape the linter relies on.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/robert-at-pretension-io/paint-lint/internal/ast"
	"github.com/robert-at-pretension-io/paint-lint/internal/scss"
)

// ErrUnsupported is returned for files that are neither .scss nor .css.
var ErrUnsupported = errors.New("unsupported file type")

// Language identifies the grammar used for a file.
type Language string

const (
	LanguageSCSS Language = "scss"
	LanguageCSS  Language = "css"
)

// Extractor parses stylesheet files. It is safe for concurrent use; every
// call gets its own tree-sitter parser.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates a new Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LanguageOf returns the grammar for path, by extension.
func LanguageOf(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scss":
		return LanguageSCSS, true
	case ".css":
		return LanguageCSS, true
	default:
		return "", false
	}
}

// Supports reports whether Extract can handle path.
func (e *Extractor) Supports(path string) bool {
	_, ok := LanguageOf(path)
	return ok
}

// Extract reads and parses a stylesheet file.
func (e *Extractor) Extract(ctx context.Context, path string) (*ast.Node, error) {
	if !e.Supports(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return e.ExtractSource(ctx, path, content)
}

// ExtractSource parses already loaded content. path selects the grammar.
func (e *Extractor) ExtractSource(ctx context.Context, path string, content []byte) (*ast.Node, error) {
	lang, ok := LanguageOf(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}

	var (
		root *ast.Node
		err  error
	)
	switch lang {
	case LanguageSCSS:
		root, err = scss.Parse(content)
	case LanguageCSS:
		root, err = ParseCSS(ctx, content)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	e.logger.Debug("parsed stylesheet", "file", path, "language", lang)
	return root, nil
}
