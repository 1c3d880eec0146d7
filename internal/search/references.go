package search

import "github.com/robert-at-pretension-io/vhdl-nav/internal/ast"

// FindAllReferences collects every occurrence of one declaration: the
// declaration site itself plus all referring name occurrences. It never
// finishes early; the whole tree is visited and results accumulate in
// traversal order, which is document order.
type FindAllReferences struct {
	NopSearcher[struct{}]
	declPos    ast.SrcPos
	references []ast.SrcPos
}

// NewFindAllReferences builds a reference query for one declaration span.
func NewFindAllReferences(declPos ast.SrcPos) *FindAllReferences {
	return &FindAllReferences{declPos: declPos}
}

// SearchEntity records the entity's identifier span when it is the target
// declaration.
func (f *FindAllReferences) SearchEntity(ent *ast.EntityUnit) SearchState[struct{}] {
	f.searchDeclPos(ent.Ident.Pos)
	return NotFinished[struct{}]()
}

// SearchDeclaration records a declaration's identifier span when it is the
// target. Type declarations are handled by SearchTypeDeclaration, which the
// traversal reaches through this node.
func (f *FindAllReferences) SearchDeclaration(decl ast.Declaration) SearchState[struct{}] {
	switch d := decl.(type) {
	case *ast.ObjectDeclaration:
		f.searchDeclPos(d.Ident.Pos)
	case *ast.AliasDeclaration:
		f.searchDeclPos(d.Designator.Pos)
	case *ast.AttributeDeclaration:
		f.searchDeclPos(d.Ident.Pos)
	case *ast.SubprogramBody:
		f.searchSpecificationPos(d.Specification)
	case *ast.SubprogramDeclaration:
		f.searchSpecificationPos(d.Specification)
	}
	return NotFinished[struct{}]()
}

// SearchTypeDeclaration records a type's identifier span when it is the
// target.
func (f *FindAllReferences) SearchTypeDeclaration(decl *ast.TypeDeclaration) SearchState[struct{}] {
	f.searchDeclPos(decl.Ident.Pos)
	return NotFinished[struct{}]()
}

// SearchInterfaceDeclaration records a generic, port or parameter identifier
// span when it is the target.
func (f *FindAllReferences) SearchInterfaceDeclaration(decl ast.InterfaceDeclaration) SearchState[struct{}] {
	switch d := decl.(type) {
	case *ast.InterfaceObjectDeclaration:
		f.searchDeclPos(d.Ident.Pos)
	case *ast.InterfaceSubprogramDeclaration:
		f.searchSpecificationPos(d.Specification)
	}
	return NotFinished[struct{}]()
}

// SearchDesignatorRef records the name occurrence when its resolved reference
// is the target declaration.
func (f *FindAllReferences) SearchDesignatorRef(pos ast.SrcPos, designator *ast.WithRef[ast.Designator]) SearchState[struct{}] {
	if designator.Reference != nil && *designator.Reference == f.declPos {
		f.references = append(f.references, pos)
	}
	return NotFinished[struct{}]()
}

func (f *FindAllReferences) searchDeclPos(declPos ast.SrcPos) {
	if declPos == f.declPos {
		f.references = append(f.references, declPos)
	}
}

func (f *FindAllReferences) searchSpecificationPos(spec ast.SubprogramSpecification) {
	switch s := spec.(type) {
	case *ast.ProcedureSpecification:
		f.searchDeclPos(s.Designator.Pos)
	case *ast.FunctionSpecification:
		f.searchDeclPos(s.Designator.Pos)
	}
}

// Search runs the query over the given files and returns all collected spans
// in document order.
func (f *FindAllReferences) Search(files ...*ast.DesignFile) []ast.SrcPos {
	for _, file := range files {
		SearchDesignFile[struct{}](file, f)
	}
	return f.references
}
