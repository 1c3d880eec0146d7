package search

import "github.com/robert-at-pretension-io/vhdl-nav/internal/ast"

// ItemAtCursor finds the declaration referenced or declared at a cursor
// position. The search descends only into subtrees whose span contains the
// cursor and returns the first declaration span reachable that way: the
// declaration itself when the cursor sits on its name, or the target of a
// resolved reference when the cursor sits on a use.
type ItemAtCursor struct {
	NopSearcher[ast.SrcPos]
	source ast.Source
	cursor ast.Position
}

// NewItemAtCursor builds a cursor query for one source document.
func NewItemAtCursor(source ast.Source, cursor ast.Position) *ItemAtCursor {
	return &ItemAtCursor{source: source, cursor: cursor}
}

// IsInside reports whether the cursor lies within the span. The cursor is the
// gap between character cursor and cursor+1, so it matches a span that starts
// or ends exactly at the cursor.
func (c *ItemAtCursor) IsInside(pos ast.SrcPos) bool {
	return pos.Range.Contains(c.cursor)
}

// SearchPos prunes subtrees whose span does not contain the cursor.
func (c *ItemAtCursor) SearchPos(pos ast.SrcPos) SearchState[ast.SrcPos] {
	if c.IsInside(pos) {
		return NotFinished[ast.SrcPos]()
	}
	return Finished(NotFound[ast.SrcPos]())
}

// SearchEntity reports the entity's own identifier span when the cursor sits
// on the entity name.
func (c *ItemAtCursor) SearchEntity(ent *ast.EntityUnit) SearchState[ast.SrcPos] {
	if c.IsInside(ent.Ident.Pos) {
		return Finished(Found(ent.Ident.Pos))
	}
	return NotFinished[ast.SrcPos]()
}

// SearchDesignatorRef follows a resolved reference when the cursor sits on
// the name occurrence. Once containment is confirmed the subtree is decided
// either way.
func (c *ItemAtCursor) SearchDesignatorRef(pos ast.SrcPos, designator *ast.WithRef[ast.Designator]) SearchState[ast.SrcPos] {
	if !c.IsInside(pos) {
		return Finished(NotFound[ast.SrcPos]())
	}
	if designator.Reference != nil {
		return Finished(Found(*designator.Reference))
	}
	return Finished(NotFound[ast.SrcPos]())
}

// SearchDeclaration reports a declaration's own identifier span when the
// cursor sits on it. A miss does not decide the subtree; the declaration's
// subtype indication may still contain the cursor. Type declarations have
// their own hook below.
func (c *ItemAtCursor) SearchDeclaration(decl ast.Declaration) SearchState[ast.SrcPos] {
	switch d := decl.(type) {
	case *ast.ObjectDeclaration:
		if c.IsInside(d.Ident.Pos) {
			return Finished(Found(d.Ident.Pos))
		}
	case *ast.AliasDeclaration:
		if c.IsInside(d.Designator.Pos) {
			return Finished(Found(d.Designator.Pos))
		}
	case *ast.AttributeDeclaration:
		if c.IsInside(d.Ident.Pos) {
			return Finished(Found(d.Ident.Pos))
		}
	case *ast.SubprogramBody:
		if pos, ok := specificationIdent(d.Specification); ok && c.IsInside(pos) {
			return Finished(Found(pos))
		}
	case *ast.SubprogramDeclaration:
		if pos, ok := specificationIdent(d.Specification); ok && c.IsInside(pos) {
			return Finished(Found(pos))
		}
	}
	return NotFinished[ast.SrcPos]()
}

// SearchInterfaceDeclaration reports a generic, port or parameter identifier
// span when the cursor sits on it.
func (c *ItemAtCursor) SearchInterfaceDeclaration(decl ast.InterfaceDeclaration) SearchState[ast.SrcPos] {
	switch d := decl.(type) {
	case *ast.InterfaceObjectDeclaration:
		if c.IsInside(d.Ident.Pos) {
			return Finished(Found(d.Ident.Pos))
		}
	case *ast.InterfaceSubprogramDeclaration:
		if pos, ok := specificationIdent(d.Specification); ok && c.IsInside(pos) {
			return Finished(Found(pos))
		}
	}
	return NotFinished[ast.SrcPos]()
}

func specificationIdent(spec ast.SubprogramSpecification) (ast.SrcPos, bool) {
	switch s := spec.(type) {
	case *ast.ProcedureSpecification:
		return s.Designator.Pos, true
	case *ast.FunctionSpecification:
		return s.Designator.Pos, true
	}
	return ast.SrcPos{}, false
}

// SearchTypeDeclaration reports the type's own identifier span when the
// cursor sits on it.
func (c *ItemAtCursor) SearchTypeDeclaration(decl *ast.TypeDeclaration) SearchState[ast.SrcPos] {
	if c.IsInside(decl.Ident.Pos) {
		return Finished(Found(decl.Ident.Pos))
	}
	return Finished(NotFound[ast.SrcPos]())
}

// SearchSource skips whole units belonging to a different document.
func (c *ItemAtCursor) SearchSource(source ast.Source) SearchState[ast.SrcPos] {
	if source == c.source {
		return NotFinished[ast.SrcPos]()
	}
	return Finished(NotFound[ast.SrcPos]())
}

// Search runs the query over the given files and returns the declaration span
// at the cursor, if any.
func (c *ItemAtCursor) Search(files ...*ast.DesignFile) (ast.SrcPos, bool) {
	for _, file := range files {
		if pos, ok := SearchDesignFile[ast.SrcPos](file, c).Value(); ok {
			return pos, true
		}
	}
	return ast.SrcPos{}, false
}
