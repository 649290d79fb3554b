// Package frontend is the collaborator that turns a module name into its
// own metadata plus the list of module names it directly imports. The
// resolution engine only sees the Frontend interface; the shipped
// implementation locates modules on search paths and extracts imports from
// source with tree-sitter, or from binary-module manifests.
package frontend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	scanerrors "depscan/internal/core/errors"
	"depscan/internal/engine/module"
	"depscan/internal/shared/observability"
	"depscan/internal/shared/util"

	"github.com/gobwas/glob"
)

// Descriptor is the frontend's answer for one module: its identity, its
// direct imports in report order, and the context needed to compile it
// later.
type Descriptor struct {
	ID          module.Identity
	Imports     []string
	SourceFiles []string
	BuildFlags  []string
	SearchPaths []string
}

// Frontend extracts one module's metadata and direct import list.
type Frontend interface {
	ScanModule(ctx context.Context, name string) (*Descriptor, error)
}

// Options carries the configuration an Instance needs beyond the invocation
// itself.
type Options struct {
	SystemModules []string
	ExcludeDirs   []string
	ExcludeFiles  []string
	// Limiter optionally bounds the rate of frontend work (watch-mode
	// churn protection). Nil means unlimited.
	Limiter *util.Limiter
}

// Instance is a one-shot, fully configured frontend bootstrapped from an
// invocation command. Construction validates the arguments; a constructed
// instance is sufficient to resolve any module's imports under that
// configuration.
type Instance struct {
	inv     *Invocation
	locator Locator
	parser  *ImportParser
	limiter *util.Limiter
}

// NewInstance parses and validates the argument vector and builds the
// frontend. All argument problems are reported together in one
// InvalidInvocationError; nothing is cached or touched beyond local
// construction.
func NewInstance(args []string, opts Options) (*Instance, error) {
	inv, diags := ParseInvocation(args)

	for _, p := range inv.SearchPaths {
		info, err := os.Stat(p)
		if err != nil {
			diags = append(diags, fmt.Sprintf("search path %q does not exist", p))
		} else if !info.IsDir() {
			diags = append(diags, fmt.Sprintf("search path %q is not a directory", p))
		}
	}

	excludeDirs, dirDiags := compileGlobs(opts.ExcludeDirs, "exclude dir")
	excludeFiles, fileDiags := compileGlobs(opts.ExcludeFiles, "exclude file")
	diags = append(diags, dirDiags...)
	diags = append(diags, fileDiags...)

	if len(diags) > 0 {
		return nil, scanerrors.InvalidInvocation(strings.Join(diags, "\n"))
	}

	grammars := NewGrammarSet(inv.Languages)
	parser := NewImportParser(grammars)
	locator := NewPathLocator(inv.SearchPaths, opts.SystemModules, grammars.Extensions(), excludeDirs, excludeFiles)

	return &Instance{
		inv:     inv,
		locator: locator,
		parser:  parser,
		limiter: opts.Limiter,
	}, nil
}

// Invocation returns the parsed invocation this instance was built from.
func (in *Instance) Invocation() *Invocation {
	return in.inv
}

// ScanModule locates the named module, classifies its kind, and extracts
// its direct import list.
func (in *Instance) ScanModule(ctx context.Context, name string) (*Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.limiter != nil {
		if err := in.limiter.Wait(ctx, 1); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	loc, err := in.locator.Locate(name)
	if err != nil {
		return nil, scanerrors.ModuleParse(name, err)
	}
	if loc == nil {
		return nil, scanerrors.ModuleNotFound(name, in.locator.SearchPaths())
	}
	defer func() {
		observability.FrontendDuration.WithLabelValues(loc.Kind.String()).Observe(time.Since(start).Seconds())
	}()

	switch loc.Kind {
	case module.KindBinary:
		m, err := LoadManifest(loc.ManifestPath)
		if err != nil {
			return nil, scanerrors.ModuleParse(name, err)
		}
		return &Descriptor{
			ID:          module.BinaryID(name),
			Imports:     dropSelf(m.Imports, name),
			BuildFlags:  m.Flags,
			SearchPaths: in.inv.SearchPaths,
		}, nil

	case module.KindSource:
		imports, err := in.scanSources(name, loc.SourceFiles)
		if err != nil {
			return nil, err
		}
		return &Descriptor{
			ID:          module.SourceID(name),
			Imports:     imports,
			SourceFiles: loc.SourceFiles,
			BuildFlags:  in.inv.BuildFlags,
			SearchPaths: in.inv.SearchPaths,
		}, nil

	case module.KindSystem:
		return &Descriptor{ID: module.SystemID(name)}, nil

	default:
		return nil, scanerrors.ModuleParse(name, fmt.Errorf("unexpected module kind %s", loc.Kind))
	}
}

// scanSources parses every source file of a module and unions the imports
// in first-seen order. Self-imports are dropped.
func (in *Instance) scanSources(name string, files []string) ([]string, error) {
	var imports []string
	seen := map[string]bool{name: true}

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, scanerrors.ModuleParse(name, fmt.Errorf("read %q: %w", path, err))
		}
		fileImports, err := in.parser.ParseImports(path, filepath.Ext(path), content)
		if err != nil {
			return nil, scanerrors.ModuleParse(name, err)
		}
		for _, imp := range fileImports {
			if seen[imp.Module] {
				continue
			}
			seen[imp.Module] = true
			imports = append(imports, imp.Module)
		}
	}
	return imports, nil
}

func dropSelf(imports []string, name string) []string {
	out := imports[:0]
	for _, imp := range imports {
		if imp != name {
			out = append(out, imp)
		}
	}
	return out
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, []string) {
	var diags []string
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			diags = append(diags, fmt.Sprintf("invalid %s pattern %q: %v", label, p, err))
			continue
		}
		compiled = append(compiled, g)
	}
	return compiled, diags
}
