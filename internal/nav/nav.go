// Package nav is the navigation front end: it loads and parses the
// configured design files, resolves names, and answers go-to-definition and
// find-all-references queries against the resulting forest.
package nav

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/config"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/policy"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/resolver"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/search"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/syntax"
)

// Location is one span in a source file, in output form. Lines are 1-based,
// columns are 0-based.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
}

// DefinitionResult is the outcome of a go-to-definition query
type DefinitionResult struct {
	Query      Location  `json:"query"`
	Found      bool      `json:"found"`
	Definition *Location `json:"definition,omitempty"`
}

// ReferencesResult is the outcome of a find-all-references query
type ReferencesResult struct {
	Declaration Location   `json:"declaration"`
	Count       int        `json:"count"`
	References  []Location `json:"references"`
}

// Symbol is one row of the symbol listing
type Symbol struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Location Location `json:"location"`
}

// SymbolRows is the symbol listing for the whole index
type SymbolRows struct {
	Count   int      `json:"count"`
	Symbols []Symbol `json:"symbols"`
}

// Navigator holds the parsed and resolved design forest for one project
type Navigator struct {
	cfg    *config.Config
	root   string
	engine *policy.Engine
	files  []*ast.DesignFile
	loaded []string
}

// New loads every configured file under rootPath, parses and resolves the
// forest, and prepares the scope policy. Unreadable files abort the load;
// unparseable constructs inside a file do not (the parser is tolerant).
func New(cfg *config.Config, rootPath string) (*Navigator, error) {
	paths, err := cfg.SourceFiles(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving source files: %w", err)
	}

	var engine *policy.Engine
	if cfg.Navigation.Policy != "" {
		engine, err = policy.NewFromFile(cfg.Navigation.Policy)
	} else {
		engine, err = policy.New()
	}
	if err != nil {
		return nil, fmt.Errorf("loading scope policy: %w", err)
	}

	n := &Navigator{cfg: cfg, root: rootPath, engine: engine}
	parser := syntax.New()
	for _, path := range paths {
		file, err := parser.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		n.files = append(n.files, file)
		n.loaded = append(n.loaded, path)
	}
	resolver.Resolve(n.files...)
	return n, nil
}

// Files returns the paths that were loaded into the index
func (n *Navigator) Files() []string {
	return n.loaded
}

// source maps a query path onto the identity of a loaded file. Relative
// query paths match both as given and joined with the project root.
func (n *Navigator) source(file string) (ast.Source, error) {
	candidates := []string{file}
	if !filepath.IsAbs(file) {
		candidates = append(candidates, filepath.Join(n.root, file))
	}
	for _, candidate := range candidates {
		for _, loaded := range n.loaded {
			if filepath.Clean(loaded) == filepath.Clean(candidate) {
				return ast.Source{FileName: loaded}, nil
			}
		}
	}
	return ast.Source{}, fmt.Errorf("file %s is not part of the index", file)
}

// DefinitionAt answers a go-to-definition query for the cursor position in
// the given file.
func (n *Navigator) DefinitionAt(file string, cursor ast.Position) (*DefinitionResult, error) {
	source, err := n.source(file)
	if err != nil {
		return nil, err
	}

	result := &DefinitionResult{Query: pointLocation(source, cursor)}
	pos, ok := search.NewItemAtCursor(source, cursor).Search(n.files...)
	if ok {
		loc := toLocation(pos)
		result.Found = true
		result.Definition = &loc
	}
	return result, nil
}

// ReferencesAt answers a find-all-references query for the cursor position:
// the declaration under the cursor is located first, then every occurrence
// referring back to it is collected. References in files the scope policy
// excludes are dropped.
func (n *Navigator) ReferencesAt(ctx context.Context, file string, cursor ast.Position) (*ReferencesResult, error) {
	source, err := n.source(file)
	if err != nil {
		return nil, err
	}

	declPos, ok := search.NewItemAtCursor(source, cursor).Search(n.files...)
	if !ok {
		return nil, fmt.Errorf("no declaration found at %s:%s", file, cursor)
	}
	return n.ReferencesTo(ctx, declPos)
}

// ReferencesTo collects every occurrence referring to the declaration at
// declPos, filtered through the scope policy.
func (n *Navigator) ReferencesTo(ctx context.Context, declPos ast.SrcPos) (*ReferencesResult, error) {
	result := &ReferencesResult{
		Declaration: toLocation(declPos),
		References:  []Location{},
	}

	for _, pos := range search.NewFindAllReferences(declPos).Search(n.files...) {
		ok, err := n.inScope(ctx, pos.Source.FileName)
		if err != nil {
			return nil, err
		}
		if ok {
			result.References = append(result.References, toLocation(pos))
		}
	}
	result.Count = len(result.References)
	return result, nil
}

func (n *Navigator) inScope(ctx context.Context, file string) (bool, error) {
	info := n.cfg.GetFileLibrary(file, n.root)
	ok, err := n.engine.InScope(ctx, policy.FileInput{
		File:              file,
		Library:           info.LibraryName,
		IsThirdParty:      info.IsThirdParty,
		IncludeThirdParty: n.cfg.Navigation.IncludeThirdParty,
	})
	if err != nil {
		return false, fmt.Errorf("evaluating scope policy for %s: %w", file, err)
	}
	return ok, nil
}

// Symbols lists every design unit and named declaration in the index, in
// file and position order.
func (n *Navigator) Symbols() *SymbolRows {
	rows := &SymbolRows{Symbols: []Symbol{}}
	for _, file := range n.files {
		for _, unit := range file.Units {
			collectUnitSymbols(rows, unit)
		}
	}
	sort.SliceStable(rows.Symbols, func(i, j int) bool {
		a, b := rows.Symbols[i].Location, rows.Symbols[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	rows.Count = len(rows.Symbols)
	return rows
}

func collectUnitSymbols(rows *SymbolRows, unit ast.DesignUnit) {
	add := func(name, kind string, pos ast.SrcPos) {
		if name == "" {
			return
		}
		rows.Symbols = append(rows.Symbols, Symbol{Name: name, Kind: kind, Location: toLocation(pos)})
	}

	switch u := unit.(type) {
	case *ast.EntityUnit:
		add(u.Ident.Name, "entity", u.Ident.Pos)
		collectInterfaceSymbols(rows, u.Generics)
		collectInterfaceSymbols(rows, u.Ports)
		collectDeclarationSymbols(rows, u.Declarations)
	case *ast.ArchitectureUnit:
		add(u.Ident.Name, "architecture", u.Ident.Pos)
		collectDeclarationSymbols(rows, u.Declarations)
	case *ast.PackageUnit:
		add(u.Ident.Name, "package", u.Ident.Pos)
		collectDeclarationSymbols(rows, u.Declarations)
	case *ast.PackageBodyUnit:
		add(u.Ident.Name, "package body", u.Ident.Pos)
		collectDeclarationSymbols(rows, u.Declarations)
	case *ast.PackageInstanceUnit:
		add(u.Ident.Name, "package instance", u.Ident.Pos)
	case *ast.ConfigurationUnit:
		add(u.Ident.Name, "configuration", u.Ident.Pos)
	}
}

func collectInterfaceSymbols(rows *SymbolRows, list []ast.InterfaceDeclaration) {
	for _, item := range list {
		if obj, ok := item.(*ast.InterfaceObjectDeclaration); ok {
			kind := "signal"
			if obj.Class == ast.ObjectConstant {
				kind = "constant"
			}
			rows.Symbols = append(rows.Symbols, Symbol{
				Name:     obj.Ident.Name,
				Kind:     kind,
				Location: toLocation(obj.Ident.Pos),
			})
		}
	}
}

func collectDeclarationSymbols(rows *SymbolRows, decls []ast.Declaration) {
	add := func(name, kind string, pos ast.SrcPos) {
		if name == "" {
			return
		}
		rows.Symbols = append(rows.Symbols, Symbol{Name: name, Kind: kind, Location: toLocation(pos)})
	}

	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.ObjectDeclaration:
			add(d.Ident.Name, objectKind(d.Class), d.Ident.Pos)
		case *ast.TypeDeclaration:
			kind := "type"
			if _, ok := d.Def.(*ast.SubtypeDefinition); ok {
				kind = "subtype"
			}
			add(d.Ident.Name, kind, d.Ident.Pos)
		case *ast.SubprogramBody:
			name, kind, pos := subprogramSymbol(d.Specification)
			add(name, kind, pos)
		case *ast.SubprogramDeclaration:
			name, kind, pos := subprogramSymbol(d.Specification)
			add(name, kind, pos)
		case *ast.AliasDeclaration:
			add(d.Designator.Name, "alias", d.Designator.Pos)
		case *ast.AttributeDeclaration:
			add(d.Ident.Name, "attribute", d.Ident.Pos)
		case *ast.ComponentDeclaration:
			add(d.Ident.Name, "component", d.Ident.Pos)
		}
	}
}

func objectKind(class ast.ObjectClass) string {
	switch class {
	case ast.ObjectConstant:
		return "constant"
	case ast.ObjectVariable, ast.ObjectSharedVariable:
		return "variable"
	case ast.ObjectFile:
		return "file"
	}
	return "signal"
}

func subprogramSymbol(spec ast.SubprogramSpecification) (string, string, ast.SrcPos) {
	switch s := spec.(type) {
	case *ast.ProcedureSpecification:
		return s.Designator.Name, "procedure", s.Designator.Pos
	case *ast.FunctionSpecification:
		return s.Designator.Name, "function", s.Designator.Pos
	}
	return "", "", ast.SrcPos{}
}

func toLocation(pos ast.SrcPos) Location {
	return Location{
		File:      pos.Source.FileName,
		Line:      pos.Range.Start.Line,
		Column:    pos.Range.Start.Column,
		EndLine:   pos.Range.End.Line,
		EndColumn: pos.Range.End.Column,
	}
}

func pointLocation(source ast.Source, cursor ast.Position) Location {
	return Location{
		File:      source.FileName,
		Line:      cursor.Line,
		Column:    cursor.Column,
		EndLine:   cursor.Line,
		EndColumn: cursor.Column,
	}
}
