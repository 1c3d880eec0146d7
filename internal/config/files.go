package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ResolvedLibrary contains the expanded file list for a library
type ResolvedLibrary struct {
	Name         string
	Files        []string
	IsThirdParty bool
}

// ResolveLibraries expands all glob patterns and explicit file entries into
// resolved per-library file lists. Files matching an ignore pattern are
// dropped; the resulting lists are sorted so the navigation index is
// deterministic.
func (c *Config) ResolveLibraries(rootPath string) ([]ResolvedLibrary, error) {
	sets := make(map[string]map[string]bool)
	thirdParty := make(map[string]bool)
	set := func(name string) map[string]bool {
		if sets[name] == nil {
			sets[name] = make(map[string]bool)
		}
		return sets[name]
	}

	for libName, libCfg := range c.Libraries {
		files := set(libName)
		thirdParty[libName] = libCfg.IsThirdParty
		for _, pattern := range libCfg.Files {
			for _, match := range expandPattern(rootPath, pattern) {
				if !isVHDLFile(match) || c.ShouldIgnoreFile(match) {
					continue
				}
				files[match] = true
			}
		}
		for _, pattern := range libCfg.Exclude {
			for _, match := range expandPattern(rootPath, pattern) {
				delete(files, match)
			}
		}
	}

	// Explicit entries land in their named library; "work" if unspecified.
	for _, entry := range c.Files {
		if entry.File == "" || !isVHDLFile(entry.File) || c.ShouldIgnoreFile(entry.File) {
			continue
		}
		lib := entry.Library
		if lib == "" {
			lib = "work"
		}
		path := entry.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootPath, path)
		}
		set(lib)[path] = true
		if entry.IsThirdParty {
			thirdParty[lib] = true
		}
	}

	var result []ResolvedLibrary
	for name, files := range sets {
		resolved := ResolvedLibrary{Name: name, IsThirdParty: thirdParty[name]}
		for f := range files {
			resolved.Files = append(resolved.Files, f)
		}
		sort.Strings(resolved.Files)
		result = append(result, resolved)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func isVHDLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".vhd" || ext == ".vhdl"
}

// expandPattern expands one glob pattern relative to rootPath. Patterns
// containing ** match recursively. Invalid patterns expand to nothing.
func expandPattern(rootPath, pattern string) []string {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(rootPath, pattern)
	}
	if !strings.Contains(pattern, "**") {
		matches, _ := filepath.Glob(pattern)
		return matches
	}

	parts := strings.SplitN(pattern, "**", 2)
	baseDir := filepath.Clean(parts[0])
	if baseDir == "" {
		baseDir = "."
	}
	suffix := strings.TrimPrefix(parts[1], string(filepath.Separator))

	var results []string
	filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if suffix == "" || matchSuffix(path, suffix) {
			results = append(results, path)
		}
		return nil
	})
	return results
}

// matchSuffix checks whether a walked path matches the part of a pattern
// after **.
func matchSuffix(path, pattern string) bool {
	if !strings.Contains(pattern, string(filepath.Separator)) {
		matched, _ := filepath.Match(pattern, filepath.Base(path))
		return matched
	}
	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}
	if len(path) > len(pattern) {
		matched, _ := filepath.Match(pattern, path[len(path)-len(pattern):])
		return matched
	}
	return false
}

// SourceFiles returns the full set of files to index: explicit entries
// first, then the flattened library matches, without duplicates.
func (c *Config) SourceFiles(rootPath string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, entry := range c.Files {
		if entry.File == "" || c.ShouldIgnoreFile(entry.File) {
			continue
		}
		if filepath.IsAbs(entry.File) {
			add(entry.File)
		} else {
			add(filepath.Join(rootPath, entry.File))
		}
	}

	libs, err := c.ResolveLibraries(rootPath)
	if err != nil {
		return nil, err
	}
	for _, lib := range libs {
		for _, f := range lib.Files {
			add(f)
		}
	}
	return files, nil
}

// FileLibraryInfo contains library information for a specific file
type FileLibraryInfo struct {
	LibraryName  string
	IsThirdParty bool
}

// GetFileLibrary returns the library information for a file
func (c *Config) GetFileLibrary(filePath string, rootPath string) FileLibraryInfo {
	libs, err := c.ResolveLibraries(rootPath)
	if err != nil {
		return FileLibraryInfo{LibraryName: "work", IsThirdParty: false}
	}

	absPath, _ := filepath.Abs(filePath)

	for _, lib := range libs {
		for _, f := range lib.Files {
			absF, _ := filepath.Abs(f)
			if absPath == absF {
				return FileLibraryInfo{
					LibraryName:  lib.Name,
					IsThirdParty: lib.IsThirdParty,
				}
			}
		}
	}

	// Default to work library
	return FileLibraryInfo{LibraryName: "work", IsThirdParty: false}
}
