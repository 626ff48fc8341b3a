// Package imports extracts module specifiers from JavaScript and TypeScript sources
// using tree-sitter grammars.
package imports

import (
	"context"
	"path"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImportParser = (*Parser)(nil)

// Parser implements ports.ImportParser with tree-sitter.
// A new tree-sitter parser is created per call, so Parser is safe for concurrent use.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Supports reports whether the file extension has a grammar.
func (p *Parser) Supports(file string) bool {
	return language(file) != nil
}

// Parse returns every static import, re-export, require call and dynamic import of the file.
//
// A dynamic import or require whose argument is not a string literal is reported with an
// empty specifier. Syntax errors are reported after extraction, together with whatever
// imports could still be recovered.
func (p *Parser) Parse(ctx context.Context, file string, content []byte) ([]ports.Import, error) {
	lang := language(file)
	if lang == nil {
		return nil, zerr.With(domain.ErrParseFailed, "path", file)
	}
	if !utf8.Valid(content) {
		return nil, zerr.With(zerr.With(domain.ErrParseFailed, "path", file), "reason", "invalid utf-8")
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrParseFailed.Error()), "path", file)
	}
	defer tree.Close()

	root := tree.RootNode()
	var found []ports.Import
	collect(root, content, &found)

	if root.HasError() {
		return found, zerr.With(zerr.With(domain.ErrParseFailed, "path", file), "reason", "syntax error")
	}
	return found, nil
}

func language(file string) *sitter.Language {
	switch strings.ToLower(path.Ext(file)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage()
	}
	return nil
}

// collect walks the tree depth first. Requires and dynamic imports may appear anywhere.
func collect(node *sitter.Node, content []byte, found *[]ports.Import) {
	switch node.Type() {
	case "import_statement":
		if spec, ok := firstString(node, content); ok {
			*found = append(*found, ports.Import{Specifier: spec, Kind: ports.ImportStatic})
		}
		return
	case "export_statement":
		if src := node.ChildByFieldName("source"); src != nil {
			*found = append(*found, ports.Import{Specifier: stringContent(src, content), Kind: ports.ImportStatic})
		}
	case "call_expression":
		if imp, ok := callImport(node, content); ok {
			*found = append(*found, imp)
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		collect(node.NamedChild(i), content, found)
	}
}

func callImport(node *sitter.Node, content []byte) (ports.Import, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ports.Import{}, false
	}

	var kind ports.ImportKind
	switch {
	case fn.Type() == "import":
		kind = ports.ImportDynamic
	case fn.Type() == "identifier" && fn.Content(content) == "require":
		kind = ports.ImportRequire
	default:
		return ports.Import{}, false
	}

	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return ports.Import{Kind: kind}, true
	}
	arg := args.NamedChild(0)
	switch arg.Type() {
	case "string":
		return ports.Import{Specifier: stringContent(arg, content), Kind: kind}, true
	case "template_string":
		if !hasChildOfType(arg, "template_substitution") {
			return ports.Import{Specifier: strings.Trim(arg.Content(content), "`"), Kind: kind}, true
		}
	}
	return ports.Import{Kind: kind}, true
}

func hasChildOfType(node *sitter.Node, typ string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if node.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}

// firstString returns the first string literal below node, which for import statements
// and import-equals declarations is the module source.
func firstString(node *sitter.Node, content []byte) (string, bool) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "string" {
			return stringContent(child, content), true
		}
		if child.Type() == "import_require_clause" {
			return firstString(child, content)
		}
	}
	return "", false
}

func stringContent(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "string_fragment" {
			return child.Content(content)
		}
	}
	return strings.Trim(node.Content(content), `"'`)
}
