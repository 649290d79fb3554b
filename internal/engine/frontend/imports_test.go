package frontend

import (
	"testing"
)

func parseFixture(t *testing.T, ext, source string) []Import {
	t.Helper()
	parser := NewImportParser(NewGrammarSet(nil))
	imports, err := parser.ParseImports("fixture"+ext, ext, []byte(source))
	if err != nil {
		t.Fatalf("ParseImports failed: %v", err)
	}
	return imports
}

func moduleNames(imports []Import) []string {
	names := make([]string, 0, len(imports))
	for _, imp := range imports {
		names = append(names, imp.Module)
	}
	return names
}

func assertModules(t *testing.T, imports []Import, want ...string) {
	t.Helper()
	got := moduleNames(imports)
	if len(got) != len(want) {
		t.Fatalf("Expected imports %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected imports %v, got %v", want, got)
		}
	}
}

func TestParseImports_Go(t *testing.T) {
	imports := parseFixture(t, ".go", `package app

import (
	"fmt"
	"netmod/transport"
)

import "single"
`)
	assertModules(t, imports, "fmt", "netmod", "single")
	if imports[0].Line != 4 {
		t.Errorf("Expected fmt on line 4, got %d", imports[0].Line)
	}
}

func TestParseImports_Python(t *testing.T) {
	imports := parseFixture(t, ".py", `import os.path
import sys, json
import numpy as np
from util.text import shorten
from . import local
`)
	assertModules(t, imports, "os", "sys", "json", "numpy", "util")
}

func TestParseImports_JavaScript(t *testing.T) {
	imports := parseFixture(t, ".js", `import { render } from "./ui/render.js";
import lodash from 'lodash';
export { helper } from "shared";
import "https://cdn.example.com/lib.js";
`)
	assertModules(t, imports, "ui", "lodash", "shared")
}

func TestParseImports_TypeScript(t *testing.T) {
	imports := parseFixture(t, ".ts", `import { Api } from "../client/api";
import type { Config } from "config";
`)
	assertModules(t, imports, "client", "config")
}

func TestParseImports_Rust(t *testing.T) {
	imports := parseFixture(t, ".rs", `use serde::Serialize;
use std::fmt;
use crate::internal::thing;
pub use tokio::net;
extern crate regex;
`)
	assertModules(t, imports, "serde", "tokio", "regex")
}

func TestParseImports_Java(t *testing.T) {
	imports := parseFixture(t, ".java", `package app;

import com.example.util.Strings;
import java.util.List;
`)
	assertModules(t, imports, "com", "java")
}

func TestParseImports_UnsupportedExtension(t *testing.T) {
	parser := NewImportParser(NewGrammarSet(nil))
	if _, err := parser.ParseImports("x.zig", ".zig", []byte("")); err == nil {
		t.Fatal("Expected an error for an unsupported extension")
	}
}

func TestParseImports_DisabledLanguage(t *testing.T) {
	parser := NewImportParser(NewGrammarSet([]string{"go"}))
	if parser.Supported(".py") {
		t.Error("Expected python to be disabled")
	}
	if !parser.Supported(".go") {
		t.Error("Expected go to stay enabled")
	}
}

func TestNormalizeImport(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"fmt", "fmt"},
		{"netmod/transport", "netmod"},
		{"./ui/render.js", "ui"},
		{"../client/api", "client"},
		{"os.path", "os"},
		{"helper.js", "helper"},
		{"/abs/thing", "abs"},
		{"https://cdn.example.com/lib.js", ""},
		{"#fragment", ""},
		{"  spaced  ", "spaced"},
		{"", ""},
		{".", ""},
	}
	for _, c := range cases {
		if got := NormalizeImport(c.raw); got != c.want {
			t.Errorf("NormalizeImport(%q): expected %q, got %q", c.raw, c.want, got)
		}
	}
}
