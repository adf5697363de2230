package graph

import (
	"context"
	"errors"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// ErrParse reports that a source file could not be parsed into a usable
// syntax tree. Parse failures are per-file and non-fatal: the indexer skips
// the file's declaration analysis and continues the run.
var ErrParse = errors.New("parse failure")

// ParsedFile is one successfully parsed source file: the syntax tree plus
// the source bytes needed to read identifier text out of it.
type ParsedFile struct {
	Path   string
	Source []byte
	tree   *tree_sitter.Tree
}

// Root returns the root node of the file's syntax tree.
func (f *ParsedFile) Root() *tree_sitter.Node {
	return f.tree.RootNode()
}

// Close releases the tree-sitter C memory backing the tree.
func (f *ParsedFile) Close() {
	f.tree.Close()
}

// Parser turns source text into a syntax tree.
type Parser interface {
	// Parse parses a single source file. A file that cannot be parsed
	// returns an error wrapping ErrParse.
	Parse(ctx context.Context, path string, source []byte) (*ParsedFile, error)

	// Close releases parser resources.
	Close() error
}

// Compile-time check that RustParser satisfies Parser.
var _ Parser = (*RustParser)(nil)

// RustParser implements Parser using the tree-sitter Rust grammar. A new
// tree-sitter parser is created per Parse call, so this type is safe for
// sequential use but individual Parse calls are not thread-safe.
type RustParser struct {
	language *tree_sitter.Language
}

// NewRustParser creates a RustParser with the Rust grammar registered.
func NewRustParser() *RustParser {
	return &RustParser{
		language: tree_sitter.NewLanguage(tree_sitter_rust.Language()),
	}
}

// Parse parses Rust source into a syntax tree. A tree whose root contains
// syntax errors is rejected whole rather than analyzed partially.
func (p *RustParser) Parse(_ context.Context, path string, source []byte) (*ParsedFile, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s: tree-sitter returned no tree", ErrParse, path)
	}

	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w: %s", ErrParse, path)
	}

	return &ParsedFile{Path: path, Source: source, tree: tree}, nil
}

// Close is a no-op because parsers are created per Parse call.
func (p *RustParser) Close() error {
	return nil
}
