package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte("-- "+p), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

func TestResolveLibrariesWithExplicitFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "rtl/core.vhd", "sim/tb_core.vhd")

	cfg := Config{
		Libraries: map[string]LibraryConfig{
			"work": {Files: []string{"rtl/*.vhd"}},
		},
		Files: []FileEntry{
			{File: "sim/tb_core.vhd", Library: "sim"},
			{File: "sim/skip.sv", Library: "sim"},
		},
	}

	libs, err := cfg.ResolveLibraries(root)
	if err != nil {
		t.Fatalf("ResolveLibraries: %v", err)
	}

	workFiles := findLibFiles(t, libs, "work")
	if !containsPath(workFiles, filepath.Join(root, "rtl/core.vhd")) {
		t.Fatalf("expected work lib to include core.vhd, got %v", workFiles)
	}

	simFiles := findLibFiles(t, libs, "sim")
	if !containsPath(simFiles, filepath.Join(root, "sim/tb_core.vhd")) {
		t.Fatalf("expected sim lib to include tb_core.vhd, got %v", simFiles)
	}
	if containsPath(simFiles, filepath.Join(root, "sim/skip.sv")) {
		t.Fatalf("non-VHDL file leaked into sim lib: %v", simFiles)
	}
}

func TestResolveLibrariesRecursiveGlob(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "rtl/top.vhd", "rtl/sub/leaf.vhdl", "doc/readme.md")

	cfg := Config{
		Libraries: map[string]LibraryConfig{
			"work": {Files: []string{"**/*.vhd", "**/*.vhdl"}},
		},
	}

	libs, err := cfg.ResolveLibraries(root)
	if err != nil {
		t.Fatalf("ResolveLibraries: %v", err)
	}
	files := findLibFiles(t, libs, "work")
	if !containsPath(files, filepath.Join(root, "rtl/top.vhd")) {
		t.Fatalf("missing rtl/top.vhd in %v", files)
	}
	if !containsPath(files, filepath.Join(root, "rtl/sub/leaf.vhdl")) {
		t.Fatalf("missing nested leaf.vhdl in %v", files)
	}
}

func TestResolveLibrariesHonorsIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "rtl/core.vhd", "rtl/generated_core.vhd")

	cfg := Config{
		Libraries: map[string]LibraryConfig{
			"work": {Files: []string{"rtl/*.vhd"}},
		},
		Navigation: NavigationConfig{
			IgnorePatterns: []string{"generated_*.vhd"},
		},
	}

	libs, err := cfg.ResolveLibraries(root)
	if err != nil {
		t.Fatalf("ResolveLibraries: %v", err)
	}
	files := findLibFiles(t, libs, "work")
	if containsPath(files, filepath.Join(root, "rtl/generated_core.vhd")) {
		t.Fatalf("ignored file leaked into work lib: %v", files)
	}
	if !containsPath(files, filepath.Join(root, "rtl/core.vhd")) {
		t.Fatalf("expected core.vhd in %v", files)
	}
}

func TestGetFileLibraryWithExplicitFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "sim/tb_core.vhd")
	tb := filepath.Join(root, "sim/tb_core.vhd")

	cfg := Config{
		Files: []FileEntry{
			{File: "sim/tb_core.vhd", Library: "sim", IsThirdParty: true},
		},
	}

	info := cfg.GetFileLibrary(tb, root)
	if info.LibraryName != "sim" {
		t.Fatalf("expected library sim, got %q", info.LibraryName)
	}
	if !info.IsThirdParty {
		t.Fatalf("expected IsThirdParty true")
	}
}

func TestSourceFilesDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "rtl/core.vhd")

	cfg := Config{
		Libraries: map[string]LibraryConfig{
			"work": {Files: []string{"rtl/*.vhd"}},
		},
		Files: []FileEntry{
			{File: "rtl/core.vhd"},
		},
	}

	files, err := cfg.SourceFiles(root)
	if err != nil {
		t.Fatalf("SourceFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one file, got %v", files)
	}
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "vhdl_nav.json")
	if err := os.WriteFile(path, []byte(`{"navigation":{"includeThirdParty":true}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Standard != "2008" {
		t.Fatalf("default standard not applied: %q", cfg.Standard)
	}
	if _, ok := cfg.Libraries["work"]; !ok {
		t.Fatalf("default work library not applied: %v", cfg.Libraries)
	}
	if !cfg.Navigation.IncludeThirdParty {
		t.Fatalf("includeThirdParty lost")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "vhdl_nav.json")

	cfg := DefaultConfig()
	cfg.Navigation.IgnorePatterns = []string{"*_tb.vhd"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(loaded.Navigation.IgnorePatterns) != 1 || loaded.Navigation.IgnorePatterns[0] != "*_tb.vhd" {
		t.Fatalf("ignore patterns lost: %v", loaded.Navigation.IgnorePatterns)
	}
}

func findLibFiles(t *testing.T, libs []ResolvedLibrary, name string) []string {
	t.Helper()
	for _, lib := range libs {
		if lib.Name == name {
			return lib.Files
		}
	}
	t.Fatalf("library %s not found", name)
	return nil
}

func containsPath(files []string, target string) bool {
	for _, f := range files {
		if filepath.Clean(f) == filepath.Clean(target) {
			return true
		}
	}
	return false
}
