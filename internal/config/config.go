package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for vhdl-nav
type Config struct {
	// Standard specifies the VHDL standard to use: "1993", "2002", "2008", "2019"
	Standard string `json:"standard,omitempty"`

	// Files is an explicit list of files with optional library overrides
	Files []FileEntry `json:"files,omitempty"`

	// Libraries maps library names to their configuration
	Libraries map[string]LibraryConfig `json:"libraries,omitempty"`

	// Navigation contains navigation options
	Navigation NavigationConfig `json:"navigation,omitempty"`
}

// LibraryConfig defines a VHDL library's files and options
type LibraryConfig struct {
	// Files is a list of glob patterns for VHDL files in this library
	Files []string `json:"files"`

	// Exclude is a list of glob patterns to exclude from this library
	Exclude []string `json:"exclude,omitempty"`

	// IsThirdParty marks the library as third-party; references inside
	// third-party files are hidden unless includeThirdParty is set
	IsThirdParty bool `json:"isThirdParty,omitempty"`
}

// FileEntry is an explicit file entry with optional library metadata
type FileEntry struct {
	File         string `json:"file"`
	Library      string `json:"library,omitempty"`
	IsThirdParty bool   `json:"isThirdParty,omitempty"`
}

// NavigationConfig contains navigation options
type NavigationConfig struct {
	// IncludeThirdParty also reports references found in third-party files
	IncludeThirdParty bool `json:"includeThirdParty,omitempty"`

	// IgnorePatterns is a list of file patterns to exclude from the index
	IgnorePatterns []string `json:"ignorePatterns,omitempty"`

	// Policy is a path to a Rego policy file overriding the built-in
	// scope policy
	Policy string `json:"policy,omitempty"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Standard: "2008",
		Libraries: map[string]LibraryConfig{
			"work": {
				Files:        []string{"*.vhd", "*.vhdl", "**/*.vhd", "**/*.vhdl"},
				Exclude:      []string{},
				IsThirdParty: false,
			},
		},
		Navigation: NavigationConfig{
			IncludeThirdParty: false,
			IgnorePatterns:    []string{},
		},
	}
}

// Load finds and loads the configuration file
// Search order:
//  1. ./vhdl_nav.json (current working directory)
//  2. ./.vhdl_nav.json (current working directory)
//  3. <rootPath>/vhdl_nav.json (if different from cwd)
//  4. ~/.config/vhdl_nav/config.json
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "vhdl_nav.json"),
		filepath.Join(cwd, ".vhdl_nav.json"),
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, "vhdl_nav.json"),
				filepath.Join(rootPath, ".vhdl_nav.json"),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "vhdl_nav", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	// No config found, return defaults
	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Standard == "" {
		c.Standard = "2008"
	}

	if c.Libraries == nil {
		if len(c.Files) == 0 {
			c.Libraries = map[string]LibraryConfig{
				"work": {
					Files: []string{"*.vhd", "*.vhdl", "**/*.vhd", "**/*.vhdl"},
				},
			}
		} else {
			c.Libraries = map[string]LibraryConfig{}
		}
	}
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// IsThirdPartyFile checks if a file belongs to a third-party library
func (c *Config) IsThirdPartyFile(filePath string) bool {
	for _, entry := range c.Files {
		if entry.File == "" {
			continue
		}
		path := entry.File
		if matched, _ := filepath.Match(path, filePath); matched {
			return entry.IsThirdParty
		}
		if matched, _ := filepath.Match(path, filepath.Base(filePath)); matched {
			return entry.IsThirdParty
		}
	}
	for _, lib := range c.Libraries {
		if !lib.IsThirdParty {
			continue
		}
		for _, pattern := range lib.Files {
			if matched, _ := filepath.Match(pattern, filePath); matched {
				return true
			}
			// patterns without a directory part match the base name
			if matched, _ := filepath.Match(pattern, filepath.Base(filePath)); matched {
				return true
			}
		}
	}
	return false
}

// ShouldIgnoreFile checks if a file should be skipped entirely
func (c *Config) ShouldIgnoreFile(filePath string) bool {
	for _, pattern := range c.Navigation.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, filePath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(filePath)); matched {
			return true
		}
	}
	return false
}
