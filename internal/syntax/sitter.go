package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
)

// SetLanguage enables the Tree-sitter front end. The VHDL grammar is not
// bundled; callers that link one in pass it here, mirroring how the fact
// extractor loads its language. Without a language the native parser is used.
func (p *Parser) SetLanguage(lang *sitter.Language) {
	if lang == nil {
		p.sitter = nil
		return
	}
	sp := sitter.NewParser()
	sp.SetLanguage(lang)
	p.sitter = &sitterFrontend{parser: sp}
}

// sitterFrontend converts a Tree-sitter parse tree into the navigation AST.
// The conversion is coarse: it maps the unit, declaration and statement node
// kinds the grammar exposes and skips everything else, which matches the
// tolerance of the native parser.
type sitterFrontend struct {
	parser *sitter.Parser
}

func (f *sitterFrontend) parse(fileName string, src []byte) (*ast.DesignFile, error) {
	tree, err := f.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	conv := &sitterConverter{source: ast.Source{FileName: fileName}, src: src}
	file := &ast.DesignFile{}
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		if unit := conv.designUnit(root.Child(i)); unit != nil {
			file.Units = append(file.Units, unit)
		}
	}
	return file, nil
}

type sitterConverter struct {
	source ast.Source
	src    []byte
}

func (c *sitterConverter) span(node *sitter.Node) ast.SrcPos {
	start := node.StartPoint()
	end := node.EndPoint()
	return ast.SrcPos{
		Source: c.source,
		Range: ast.Range{
			Start: ast.Position{Line: int(start.Row) + 1, Column: int(start.Column)},
			End:   ast.Position{Line: int(end.Row) + 1, Column: int(end.Column)},
		},
	}
}

func (c *sitterConverter) ident(node *sitter.Node) ast.Ident {
	if node == nil {
		return ast.Ident{}
	}
	return ast.Ident{Name: node.Content(c.src), Pos: c.span(node)}
}

func (c *sitterConverter) designUnit(node *sitter.Node) ast.DesignUnit {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "entity_declaration":
		unit := &ast.EntityUnit{Ident: c.ident(node.ChildByFieldName("name"))}
		c.walkBody(node, &unit.Generics, &unit.Ports, &unit.Declarations, &unit.Statements)
		return unit
	case "architecture_body":
		unit := &ast.ArchitectureUnit{
			Ident:      c.ident(node.ChildByFieldName("name")),
			EntityName: c.ident(node.ChildByFieldName("entity")),
		}
		c.walkBody(node, nil, nil, &unit.Declarations, &unit.Statements)
		return unit
	case "package_declaration":
		unit := &ast.PackageUnit{Ident: c.ident(node.ChildByFieldName("name"))}
		c.walkBody(node, &unit.Generics, nil, &unit.Declarations, nil)
		return unit
	case "package_body":
		unit := &ast.PackageBodyUnit{Ident: c.ident(node.ChildByFieldName("name"))}
		c.walkBody(node, nil, nil, &unit.Declarations, nil)
		return unit
	}
	return nil
}

// walkBody reparses the body of a unit with the native parser. The grammar
// node gives exact unit boundaries and name spans; the native parser already
// knows how to shape declarations and statements, so the two front ends stay
// behaviorally identical inside a unit.
func (c *sitterConverter) walkBody(node *sitter.Node, generics, ports *[]ast.InterfaceDeclaration, decls *[]ast.Declaration, stmts *[]ast.LabeledConcurrentStatement) {
	prefix := lineColumnPrefix(c.src, int(node.StartByte()))
	body := string(c.src[node.StartByte():node.EndByte()])

	tokens := newLexer(c.source, prefix+body).lex()
	fp := &fileParser{tokens: tokens, source: c.source}
	file := fp.parseDesignFile()

	for _, unit := range file.Units {
		switch u := unit.(type) {
		case *ast.EntityUnit:
			assign(generics, u.Generics)
			assign(ports, u.Ports)
			assign(decls, u.Declarations)
			assign(stmts, u.Statements)
		case *ast.ArchitectureUnit:
			assign(decls, u.Declarations)
			assign(stmts, u.Statements)
		case *ast.PackageUnit:
			assign(generics, u.Generics)
			assign(decls, u.Declarations)
		case *ast.PackageBodyUnit:
			assign(decls, u.Declarations)
		}
	}
}

func assign[T any](dst *[]T, src []T) {
	if dst != nil && src != nil {
		*dst = src
	}
}

// lineColumnPrefix builds whitespace padding that places re-lexed text at its
// original line/column coordinates.
func lineColumnPrefix(src []byte, offset int) string {
	line := 0
	column := 0
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			column = 0
		} else {
			column++
		}
	}
	pad := make([]byte, 0, line+column)
	for i := 0; i < line; i++ {
		pad = append(pad, '\n')
	}
	for i := 0; i < column; i++ {
		pad = append(pad, ' ')
	}
	return string(pad)
}
