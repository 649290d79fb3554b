package frontend

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+ManifestExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "codec", `
name = "codec"
imports = ["compress/zlib", "./hash"]
flags = ["-lcodec"]
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Name != "codec" {
		t.Errorf("Expected name codec, got %q", m.Name)
	}
	if len(m.Imports) != 2 || m.Imports[0] != "compress" || m.Imports[1] != "hash" {
		t.Errorf("Expected normalized imports [compress hash], got %v", m.Imports)
	}
	if len(m.Flags) != 1 || m.Flags[0] != "-lcodec" {
		t.Errorf("Expected flags [-lcodec], got %v", m.Flags)
	}
}

func TestLoadManifest_DefaultsNameFromFile(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "zlib", `imports = ["libc"]`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Name != "zlib" {
		t.Errorf("Expected name zlib from the file base, got %q", m.Name)
	}
}

func TestLoadManifest_RejectsNameMismatch(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "zlib", `name = "other"`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("Expected a name mismatch error")
	}
}

func TestLoadManifest_RejectsBadImport(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "zlib", `imports = ["https://example.com/x"]`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("Expected an error for a non-module import")
	}
}

func TestLoadManifest_RejectsBadTOML(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "zlib", `imports = [`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("Expected a parse error")
	}
}
