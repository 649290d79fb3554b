package frontend

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"depscan/internal/engine/module"

	"github.com/gobwas/glob"
)

// Location is what the locator found for a module name: the kind it
// classified, plus the paths backing it.
type Location struct {
	Kind         module.Kind
	ManifestPath string
	SourceFiles  []string
}

// Locator is the pluggable search-path resolution policy. The engine never
// walks the filesystem itself.
type Locator interface {
	// Locate resolves a module name, returning nil when no definition
	// exists on any search path.
	Locate(name string) (*Location, error)
	// SearchPaths returns the configured paths, for diagnostics.
	SearchPaths() []string
}

// PathLocator probes each search path in order. Within one directory a
// binary manifest shadows a source directory, which shadows a single source
// file; earlier search paths shadow later ones. Names in the system table
// resolve last, as leaf system modules.
type PathLocator struct {
	searchPaths  []string
	system       map[string]bool
	extensions   map[string]bool
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

func NewPathLocator(searchPaths, systemModules []string, extensions map[string]bool, excludeDirs, excludeFiles []glob.Glob) *PathLocator {
	system := make(map[string]bool, len(systemModules))
	for _, name := range systemModules {
		system[name] = true
	}
	return &PathLocator{
		searchPaths:  append([]string(nil), searchPaths...),
		system:       system,
		extensions:   extensions,
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
	}
}

func (l *PathLocator) SearchPaths() []string {
	return append([]string(nil), l.searchPaths...)
}

func (l *PathLocator) Locate(name string) (*Location, error) {
	for _, dir := range l.searchPaths {
		manifest := filepath.Join(dir, name+ManifestExt)
		if info, err := os.Stat(manifest); err == nil && !info.IsDir() {
			return &Location{Kind: module.KindBinary, ManifestPath: manifest}, nil
		}

		moduleDir := filepath.Join(dir, name)
		if info, err := os.Stat(moduleDir); err == nil && info.IsDir() {
			files, err := l.collectSourceFiles(moduleDir)
			if err != nil {
				return nil, err
			}
			if len(files) > 0 {
				return &Location{Kind: module.KindSource, SourceFiles: files}, nil
			}
		}

		if file := l.findSingleFile(dir, name); file != "" {
			return &Location{Kind: module.KindSource, SourceFiles: []string{file}}, nil
		}
	}

	if l.system[name] {
		return &Location{Kind: module.KindSystem}, nil
	}
	return nil, nil
}

func (l *PathLocator) findSingleFile(dir, name string) string {
	exts := make([]string, 0, len(l.extensions))
	for ext := range l.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	for _, ext := range exts {
		candidate := filepath.Join(dir, name+ext)
		if l.excludedFile(filepath.Base(candidate)) {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func (l *PathLocator) collectSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && l.excludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if l.excludedFile(d.Name()) {
			return nil
		}
		if l.extensions[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (l *PathLocator) excludedDir(name string) bool {
	for _, g := range l.excludeDirs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (l *PathLocator) excludedFile(name string) bool {
	for _, g := range l.excludeFiles {
		if g.Match(name) {
			return true
		}
	}
	return false
}
