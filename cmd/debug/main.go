package main

import (
	"fmt"
	"os"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/resolver"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/syntax"
)

// Throwaway inspection tool: parse the given files, resolve them as one
// project, and dump every unit, declaration and resolved name reference.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: debug <file.vhd>...")
		os.Exit(1)
	}

	parser := syntax.New()
	var files []*ast.DesignFile
	for _, path := range os.Args[1:] {
		file, err := parser.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		files = append(files, file)
	}
	resolver.Resolve(files...)

	for i, file := range files {
		fmt.Printf("=== %s ===\n", os.Args[1+i])
		for _, unit := range file.Units {
			dumpUnit(unit)
		}
	}
}

func dumpUnit(unit ast.DesignUnit) {
	switch u := unit.(type) {
	case *ast.EntityUnit:
		fmt.Printf("entity %s %s\n", u.Ident.Name, u.Ident.Pos.Range.Start)
		dumpInterface("generic", u.Generics)
		dumpInterface("port", u.Ports)
		dumpDeclarations(u.Declarations)
	case *ast.ArchitectureUnit:
		fmt.Printf("architecture %s of %s %s\n", u.Ident.Name, u.EntityName.Name, u.Ident.Pos.Range.Start)
		dumpDeclarations(u.Declarations)
	case *ast.PackageUnit:
		fmt.Printf("package %s %s\n", u.Ident.Name, u.Ident.Pos.Range.Start)
		dumpDeclarations(u.Declarations)
	case *ast.PackageBodyUnit:
		fmt.Printf("package body %s %s\n", u.Ident.Name, u.Ident.Pos.Range.Start)
		dumpDeclarations(u.Declarations)
	default:
		fmt.Printf("unit %T\n", unit)
	}
}

func dumpInterface(kind string, list []ast.InterfaceDeclaration) {
	for _, item := range list {
		if obj, ok := item.(*ast.InterfaceObjectDeclaration); ok {
			fmt.Printf("  %s %s %s -> %s\n", kind, obj.Ident.Name, obj.Ident.Pos.Range.Start,
				referenceTarget(obj.SubtypeIndication.TypeMark))
		}
	}
}

func dumpDeclarations(decls []ast.Declaration) {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.ObjectDeclaration:
			fmt.Printf("  object %s %s -> %s\n", d.Ident.Name, d.Ident.Pos.Range.Start,
				referenceTarget(d.SubtypeIndication.TypeMark))
		case *ast.TypeDeclaration:
			fmt.Printf("  type %s %s\n", d.Ident.Name, d.Ident.Pos.Range.Start)
		default:
			fmt.Printf("  decl %T\n", decl)
		}
	}
}

func referenceTarget(name ast.WithPos[ast.SelectedName]) string {
	ref := name.Item.Designator.Item.Reference
	if ref == nil {
		return "unresolved"
	}
	return ref.String()
}
