package frontend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestExt is the extension of pre-built (binary) module manifests. A
// manifest declares the module's direct dependencies so the scanner can
// expand them without any source parsing.
const ManifestExt = ".depmod"

type Manifest struct {
	Name    string   `toml:"name"`
	Imports []string `toml:"imports"`
	Flags   []string `toml:"flags"`
}

// LoadManifest reads and validates a binary-module manifest. The declared
// name must match the file's base name; an empty name defaults to it.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %q: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), ManifestExt)
	if m.Name == "" {
		m.Name = base
	} else if m.Name != base {
		return nil, fmt.Errorf("manifest %q declares name %q, expected %q", path, m.Name, base)
	}

	for i, imp := range m.Imports {
		norm := NormalizeImport(imp)
		if norm == "" {
			return nil, fmt.Errorf("manifest %q: import %q is not a module name", path, imp)
		}
		m.Imports[i] = norm
	}
	return &m, nil
}
