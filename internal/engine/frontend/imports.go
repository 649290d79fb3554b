package frontend

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Import is one raw dependency edge extracted from a source file, before
// normalization into a module name.
type Import struct {
	Module string
	Raw    string
	Line   int
}

// ImportParser extracts direct import lists from source files by walking
// tree-sitter parse trees.
type ImportParser struct {
	grammars *GrammarSet
}

func NewImportParser(grammars *GrammarSet) *ImportParser {
	return &ImportParser{grammars: grammars}
}

// Supported reports whether files with the given extension can be parsed.
func (p *ImportParser) Supported(ext string) bool {
	lang, _ := p.grammars.LanguageFor(ext)
	return lang != nil
}

// ParseImports parses one source file and returns its imports in source
// order. The extension selects the grammar.
func (p *ImportParser) ParseImports(path, ext string, content []byte) ([]Import, error) {
	grammar, langID := p.grammars.LanguageFor(ext)
	if grammar == nil {
		return nil, fmt.Errorf("unsupported source extension %q", ext)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse failed for %s", path)
	}
	defer tree.Close()

	var imports []Import
	walkImports(tree.RootNode(), content, langID, &imports)
	return imports, nil
}

func walkImports(node *sitter.Node, source []byte, langID string, out *[]Import) {
	switch langID {
	case "go":
		if node.Kind() == "import_spec" {
			extractGoImport(node, source, out)
		}
	case "python":
		switch node.Kind() {
		case "import_statement":
			extractPythonImport(node, source, out)
		case "import_from_statement":
			extractPythonFromImport(node, source, out)
		}
	case "javascript", "typescript", "tsx":
		if node.Kind() == "import_statement" || node.Kind() == "export_statement" {
			extractQuotedChild(node, source, "string", out)
		}
	case "rust":
		switch node.Kind() {
		case "use_declaration":
			extractRustUse(node, source, out)
		case "extern_crate_declaration":
			extractRustExternCrate(node, source, out)
		}
	case "java":
		if node.Kind() == "import_declaration" {
			extractJavaImport(node, source, out)
		}
	case "css":
		if node.Kind() == "import_statement" {
			extractQuotedChild(node, source, "string_value", out)
		}
	case "html":
		if node.Kind() == "attribute" {
			extractHTMLReference(node, source, out)
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkImports(node.Child(i), source, langID, out)
	}
}

func extractGoImport(spec *sitter.Node, source []byte, out *[]Import) {
	for i := uint(0); i < spec.ChildCount(); i++ {
		child := spec.Child(i)
		if child.Kind() == "interpreted_string_literal" {
			raw := strings.Trim(nodeText(child, source), "\"")
			appendImport(out, raw, spec)
		}
	}
}

func extractPythonImport(node *sitter.Node, source []byte, out *[]Import) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			appendImport(out, nodeText(child, source), child)
		case "aliased_import":
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					appendImport(out, nodeText(sub, source), sub)
					break
				}
			}
		}
	}
}

func extractPythonFromImport(node *sitter.Node, source []byte, out *[]Import) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "relative_import":
			raw := strings.TrimLeft(nodeText(child, source), ".")
			if raw != "" {
				appendImport(out, raw, child)
			}
			return
		case "dotted_name", "identifier":
			appendImport(out, nodeText(child, source), child)
			return
		}
	}
}

func extractRustUse(node *sitter.Node, source []byte, out *[]Import) {
	text := strings.TrimSpace(nodeText(node, source))
	text = strings.TrimSpace(strings.TrimPrefix(text, "pub "))
	text = strings.TrimPrefix(text, "use ")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	root := strings.TrimSpace(strings.SplitN(text, "::", 2)[0])
	switch root {
	case "", "crate", "self", "super", "std", "core", "alloc":
		return
	}
	if strings.ContainsAny(root, "{* ") {
		return
	}
	appendImport(out, root, node)
}

func extractRustExternCrate(node *sitter.Node, source []byte, out *[]Import) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "identifier" {
			appendImport(out, nodeText(child, source), child)
			return
		}
	}
}

func extractJavaImport(node *sitter.Node, source []byte, out *[]Import) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "scoped_identifier" || child.Kind() == "identifier" {
			appendImport(out, nodeText(child, source), child)
			return
		}
	}
}

func extractQuotedChild(node *sitter.Node, source []byte, kind string, out *[]Import) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			raw := strings.Trim(nodeText(child, source), `"'`)
			appendImport(out, raw, child)
			return
		}
	}
}

func extractHTMLReference(attr *sitter.Node, source []byte, out *[]Import) {
	var name, value string
	for i := uint(0); i < attr.ChildCount(); i++ {
		child := attr.Child(i)
		switch child.Kind() {
		case "attribute_name":
			name = nodeText(child, source)
		case "quoted_attribute_value", "attribute_value":
			value = strings.Trim(nodeText(child, source), `"'`)
		}
	}
	if name != "src" && name != "href" {
		return
	}
	appendImport(out, value, attr)
}

func appendImport(out *[]Import, raw string, node *sitter.Node) {
	name := NormalizeImport(raw)
	if name == "" {
		return
	}
	*out = append(*out, Import{
		Module: name,
		Raw:    raw,
		Line:   int(node.StartPosition().Row) + 1,
	})
}

// NormalizeImport reduces a raw import string to a module name: relative
// prefixes are stripped, dotted and slashed paths keep their first segment,
// a trailing file extension on a bare name is dropped. URLs and other
// non-module references normalize to "".
func NormalizeImport(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.Contains(s, "://") || strings.HasPrefix(s, "#") {
		return ""
	}
	for strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") {
		s = strings.TrimPrefix(s, "./")
		s = strings.TrimPrefix(s, "../")
	}
	s = strings.TrimPrefix(s, "/")
	if i := strings.IndexAny(s, "/."); i == 0 {
		return ""
	} else if i > 0 {
		s = s[:i]
	}
	return s
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
