package frontend

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// extensionLanguage maps a file extension to the grammar used to parse it.
var extensionLanguage = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "tsx",
	".rs":   "rust",
	".java": "java",
	".css":  "css",
	".html": "html",
	".htm":  "html",
}

// GrammarSet holds the loaded tree-sitter grammars, keyed by language id.
type GrammarSet struct {
	languages map[string]*sitter.Language
}

// NewGrammarSet loads the grammars for the enabled languages. An empty
// enabled list loads everything.
func NewGrammarSet(enabled []string) *GrammarSet {
	want := make(map[string]bool, len(enabled))
	for _, lang := range enabled {
		want[lang] = true
	}
	all := len(want) == 0

	gs := &GrammarSet{languages: make(map[string]*sitter.Language)}
	load := func(id string, lang *sitter.Language) {
		if all || want[id] {
			gs.languages[id] = lang
		}
	}

	load("go", sitter.NewLanguage(tree_sitter_go.Language()))
	load("python", sitter.NewLanguage(tree_sitter_python.Language()))
	load("javascript", sitter.NewLanguage(tree_sitter_javascript.Language()))
	load("typescript", sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()))
	load("tsx", sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()))
	load("rust", sitter.NewLanguage(tree_sitter_rust.Language()))
	load("java", sitter.NewLanguage(tree_sitter_java.Language()))
	load("css", sitter.NewLanguage(tree_sitter_css.Language()))
	load("html", sitter.NewLanguage(tree_sitter_html.Language()))
	return gs
}

// LanguageFor returns the grammar for a file path, or nil when the extension
// is unknown or the language is disabled.
func (gs *GrammarSet) LanguageFor(ext string) (*sitter.Language, string) {
	id, ok := extensionLanguage[ext]
	if !ok {
		return nil, ""
	}
	return gs.languages[id], id
}

// Extensions returns every extension whose language is currently loaded.
func (gs *GrammarSet) Extensions() map[string]bool {
	exts := make(map[string]bool)
	for ext, id := range extensionLanguage {
		if gs.languages[id] != nil {
			exts[ext] = true
		}
	}
	return exts
}
