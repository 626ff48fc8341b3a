package ports

import "context"

// ImportKind distinguishes how a module was referenced.
type ImportKind uint8

const (
	// ImportStatic is an import declaration or re-export.
	ImportStatic ImportKind = iota
	// ImportRequire is a CommonJS require call.
	ImportRequire
	// ImportDynamic is a dynamic import() expression.
	ImportDynamic
)

// Import is a module specifier found in a source file.
type Import struct {
	Specifier string
	Kind      ImportKind
}

// ImportParser extracts module specifiers from source files.
//
//go:generate go run go.uber.org/mock/mockgen -source=imports.go -destination=mocks/mock_imports.go -package=mocks
type ImportParser interface {
	// Supports reports whether the parser understands the file's language.
	Supports(path string) bool
	// Parse returns the imports of a file. The path selects the grammar.
	Parse(ctx context.Context, path string, content []byte) ([]Import, error)
}
