package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/config"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/nav"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/validator"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit()
	case "def":
		runDef(os.Args[2:])
	case "refs":
		runRefs(os.Args[2:])
	case "symbols":
		runSymbols(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: vhdl-nav <command> [options] <args>

Commands:
  init                        Create a vhdl_nav.json configuration file
  def  <path> <file:line:col>   Find the definition of the name at the cursor
  refs <path> <file:line:col>   Find all references to the name at the cursor
  symbols <path>              List every design unit and named declaration

Cursor positions use a 1-based line and a 0-based column, matching the
locations the tool prints.

Options:
  -c, --config      Specify a config file instead of the default search
  --json            Emit the result as schema-validated JSON
  -v, --verbose     List the indexed files before answering
  -h, --help        Show this help message

Configuration:
  vhdl-nav looks for configuration in:
    1. ./vhdl_nav.json
    2. ./.vhdl_nav.json
    3. ~/.config/vhdl_nav/config.json

  Run 'vhdl-nav init' to create a default configuration file.`)
}

func runInit() {
	configPath := "vhdl_nav.json"

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file %s already exists. Overwrite? [y/N]: ", configPath)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("\nEdit this file to configure:")
	fmt.Println("  - Library file patterns")
	fmt.Println("  - Third-party library detection")
	fmt.Println("  - Navigation scope (ignore patterns, custom policy)")
}

// navFlags holds the options shared by the query subcommands.
type navFlags struct {
	configPath string
	jsonOut    bool
	verbose    bool
}

func parseNavFlags(name string, args []string, positional int) (navFlags, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var opts navFlags
	fs.StringVar(&opts.configPath, "config", "", "config file to use")
	fs.StringVar(&opts.configPath, "c", "", "config file to use (shorthand)")
	fs.BoolVar(&opts.jsonOut, "json", false, "emit schema-validated JSON")
	fs.BoolVar(&opts.verbose, "verbose", false, "list indexed files")
	fs.BoolVar(&opts.verbose, "v", false, "list indexed files (shorthand)")
	_ = fs.Parse(args)

	rest := fs.Args()
	if len(rest) != positional {
		printUsage()
		os.Exit(1)
	}
	return opts, rest
}

func loadNavigator(opts navFlags, rootPath string) *nav.Navigator {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", opts.configPath, err)
			os.Exit(1)
		}
	} else {
		cfg, err = config.Load(rootPath)
		if err != nil {
			fmt.Printf("Warning: Could not load config: %v (using defaults)\n", err)
			cfg = config.DefaultConfig()
		}
	}

	navigator, err := nav.New(cfg, rootPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if opts.verbose {
		for _, file := range navigator.Files() {
			fmt.Fprintf(os.Stderr, "indexed %s\n", file)
		}
	}
	return navigator
}

// parseCursor splits "file:line:col" into its parts. Only the last two
// colon-separated fields are positional, so paths containing colons survive.
func parseCursor(arg string) (string, ast.Position, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 3 {
		return "", ast.Position{}, fmt.Errorf("expected <file>:<line>:<col>, got %q", arg)
	}
	file := strings.Join(parts[:len(parts)-2], ":")
	line, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || line < 1 {
		return "", ast.Position{}, fmt.Errorf("bad line number in %q", arg)
	}
	col, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || col < 0 {
		return "", ast.Position{}, fmt.Errorf("bad column number in %q", arg)
	}
	return file, ast.Position{Line: line, Column: col}, nil
}

func runDef(args []string) {
	opts, rest := parseNavFlags("def", args, 2)
	file, cursor, err := parseCursor(rest[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	navigator := loadNavigator(opts, rest[0])
	result, err := navigator.DefinitionAt(file, cursor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.jsonOut {
		emitJSON(result, func(v *validator.Validator) error {
			return v.ValidateDefinition(result)
		})
		return
	}
	if !result.Found {
		fmt.Printf("No definition found at %s:%s\n", file, cursor)
		os.Exit(1)
	}
	fmt.Println(formatLocation(*result.Definition))
}

func runRefs(args []string) {
	opts, rest := parseNavFlags("refs", args, 2)
	file, cursor, err := parseCursor(rest[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	navigator := loadNavigator(opts, rest[0])
	result, err := navigator.ReferencesAt(context.Background(), file, cursor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.jsonOut {
		emitJSON(result, func(v *validator.Validator) error {
			return v.ValidateReferences(result)
		})
		return
	}
	fmt.Printf("%d references to %s\n", result.Count, formatLocation(result.Declaration))
	for _, ref := range result.References {
		fmt.Printf("  %s\n", formatLocation(ref))
	}
}

func runSymbols(args []string) {
	opts, rest := parseNavFlags("symbols", args, 1)
	navigator := loadNavigator(opts, rest[0])
	result := navigator.Symbols()

	if opts.jsonOut {
		emitJSON(result, func(v *validator.Validator) error {
			return v.ValidateSymbols(result)
		})
		return
	}
	for _, sym := range result.Symbols {
		fmt.Printf("%-12s %-24s %s\n", sym.Kind, sym.Name, formatLocation(sym.Location))
	}
}

// emitJSON runs the result through the schema contract before printing it.
// A validation failure is a bug in the tool, not in the user's input.
func emitJSON(data interface{}, check func(*validator.Validator) error) {
	v, err := validator.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading output schema: %v\n", err)
		os.Exit(1)
	}
	if err := check(v); err != nil {
		fmt.Fprintf(os.Stderr, "Internal error: output violates schema contract: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
}

func formatLocation(loc nav.Location) string {
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}
