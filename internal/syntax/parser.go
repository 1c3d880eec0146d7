package syntax

import (
	"fmt"
	"os"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
)

// Parser turns VHDL source into design files. By default the native
// recursive-descent parser is used; SetLanguage enables the Tree-sitter path
// when a grammar is available (see sitter.go).
type Parser struct {
	sitter *sitterFrontend
}

// New creates a Parser using the native front end.
func New() *Parser {
	return &Parser{}
}

// ParseFile reads and parses one VHDL file.
func (p *Parser) ParseFile(path string) (*ast.DesignFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return p.Parse(path, content)
}

// Parse parses VHDL source. The file name becomes the source identity of
// every design unit in the result.
func (p *Parser) Parse(fileName string, src []byte) (*ast.DesignFile, error) {
	if p.sitter != nil {
		return p.sitter.parse(fileName, src)
	}
	source := ast.Source{FileName: fileName}
	tokens := newLexer(source, string(src)).lex()
	fp := &fileParser{tokens: tokens, source: source}
	return fp.parseDesignFile(), nil
}

// fileParser is the native recursive-descent front end. It is tolerant:
// constructs outside the modeled subset are skipped to a synchronizing token.
type fileParser struct {
	tokens []token
	index  int
	source ast.Source
}

func (p *fileParser) peek() token {
	if p.index >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.index]
}

func (p *fileParser) peekAt(n int) token {
	if p.index+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.index+n]
}

func (p *fileParser) take() token {
	tok := p.peek()
	if tok.Kind != tokEOF {
		p.index++
	}
	return tok
}

// at reports whether the next token is the given word or punctuation.
func (p *fileParser) at(text string) bool {
	tok := p.peek()
	return (tok.Kind == tokWord || tok.Kind == tokPunct) && tok.Lower == text
}

func (p *fileParser) atAny(texts ...string) bool {
	for _, text := range texts {
		if p.at(text) {
			return true
		}
	}
	return false
}

// accept consumes the next token when it matches.
func (p *fileParser) accept(text string) bool {
	if p.at(text) {
		p.take()
		return true
	}
	return false
}

// skipPast advances past the next occurrence of the given token, tracking
// paren nesting so a ';' inside an aggregate does not end a declaration.
func (p *fileParser) skipPast(text string) {
	depth := 0
	for {
		tok := p.peek()
		if tok.Kind == tokEOF {
			return
		}
		switch {
		case tok.Lower == "(":
			depth++
		case tok.Lower == ")":
			if depth > 0 {
				depth--
			}
		case depth == 0 && tok.Lower == text:
			p.take()
			return
		}
		p.take()
	}
}

// skipBalanced consumes a '(' ... ')' group including nested parens.
func (p *fileParser) skipBalanced() {
	if !p.accept("(") {
		return
	}
	depth := 1
	for depth > 0 {
		tok := p.take()
		if tok.Kind == tokEOF {
			return
		}
		switch tok.Lower {
		case "(":
			depth++
		case ")":
			depth--
		}
	}
}

func (p *fileParser) takeIdent() (ast.Ident, bool) {
	tok := p.peek()
	if tok.Kind != tokWord {
		return ast.Ident{}, false
	}
	p.take()
	return ast.Ident{Name: tok.Text, Pos: tok.Pos}, true
}

func mergeSpan(a, b ast.SrcPos) ast.SrcPos {
	return ast.SrcPos{Source: a.Source, Range: ast.Range{Start: a.Range.Start, End: b.Range.End}}
}

func (p *fileParser) parseDesignFile() *ast.DesignFile {
	file := &ast.DesignFile{}
	for {
		tok := p.peek()
		if tok.Kind == tokEOF {
			return file
		}
		switch tok.Lower {
		case "library", "use", "context":
			p.skipPast(";")
		case "entity":
			if unit := p.parseEntity(); unit != nil {
				file.Units = append(file.Units, unit)
			}
		case "architecture":
			if unit := p.parseArchitecture(); unit != nil {
				file.Units = append(file.Units, unit)
			}
		case "package":
			if unit := p.parsePackage(); unit != nil {
				file.Units = append(file.Units, unit)
			}
		case "configuration":
			if unit := p.parseConfiguration(); unit != nil {
				file.Units = append(file.Units, unit)
			}
		default:
			p.take()
		}
	}
}

func (p *fileParser) parseEntity() ast.DesignUnit {
	p.take() // entity
	ident, ok := p.takeIdent()
	if !ok {
		p.skipPast(";")
		return nil
	}
	unit := &ast.EntityUnit{Ident: ident}
	p.accept("is")
	if p.accept("generic") {
		unit.Generics = p.parseInterfaceList(ast.ObjectConstant)
		p.accept(";")
	}
	if p.accept("port") {
		unit.Ports = p.parseInterfaceList(ast.ObjectSignal)
		p.accept(";")
	}
	unit.Declarations = p.parseDeclarations()
	if p.accept("begin") {
		unit.Statements = p.parseConcurrentStatements()
	}
	p.finishUnit("entity")
	return unit
}

func (p *fileParser) parseArchitecture() ast.DesignUnit {
	p.take() // architecture
	ident, ok := p.takeIdent()
	if !ok {
		p.skipPast(";")
		return nil
	}
	unit := &ast.ArchitectureUnit{Ident: ident}
	if p.accept("of") {
		if entity, ok := p.takeIdent(); ok {
			unit.EntityName = entity
		}
	}
	p.accept("is")
	unit.Declarations = p.parseDeclarations()
	if p.accept("begin") {
		unit.Statements = p.parseConcurrentStatements()
	}
	p.finishUnit("architecture")
	return unit
}

func (p *fileParser) parsePackage() ast.DesignUnit {
	p.take() // package
	if p.accept("body") {
		ident, ok := p.takeIdent()
		if !ok {
			p.skipPast(";")
			return nil
		}
		p.accept("is")
		unit := &ast.PackageBodyUnit{Ident: ident}
		unit.Declarations = p.parseDeclarations()
		p.finishUnit("package")
		return unit
	}

	ident, ok := p.takeIdent()
	if !ok {
		p.skipPast(";")
		return nil
	}
	p.accept("is")
	if p.accept("new") {
		unit := &ast.PackageInstanceUnit{Ident: ident}
		if name, ok := p.parseSelectedName(); ok {
			unit.PackageName = name
		}
		p.skipPast(";")
		return unit
	}

	unit := &ast.PackageUnit{Ident: ident}
	if p.accept("generic") {
		unit.Generics = p.parseInterfaceList(ast.ObjectConstant)
		p.accept(";")
	}
	unit.Declarations = p.parseDeclarations()
	p.finishUnit("package")
	return unit
}

func (p *fileParser) parseConfiguration() ast.DesignUnit {
	p.take() // configuration
	ident, ok := p.takeIdent()
	if !ok {
		p.skipPast(";")
		return nil
	}
	unit := &ast.ConfigurationUnit{Ident: ident}
	if p.accept("of") {
		if name, ok := p.parseSelectedName(); ok {
			unit.EntityName = name
		}
	}
	p.accept("is")
	// Skip block configurations; "for" opens a nested region closed by
	// "end for".
	depth := 0
	for {
		tok := p.peek()
		if tok.Kind == tokEOF {
			return unit
		}
		if tok.Lower == "for" {
			depth++
			p.take()
			continue
		}
		if tok.Lower == "end" {
			p.take()
			if p.accept("for") {
				depth--
				p.accept(";")
				continue
			}
			if depth == 0 {
				p.skipPast(";")
				return unit
			}
			continue
		}
		p.take()
	}
}

// finishUnit consumes "end [kind] [name];".
func (p *fileParser) finishUnit(kind string) {
	p.accept("end")
	p.accept(kind)
	p.skipPast(";")
}

// parseInterfaceList parses "( item ; item ; ... )" of a generic, port or
// parameter clause. An item declaring several identifiers yields one
// declaration per identifier. Items without an explicit object class get
// defaultClass: constant for generics and parameters, signal for ports.
func (p *fileParser) parseInterfaceList(defaultClass ast.ObjectClass) []ast.InterfaceDeclaration {
	var decls []ast.InterfaceDeclaration
	if !p.accept("(") {
		return decls
	}
	for {
		tok := p.peek()
		if tok.Kind == tokEOF || p.accept(")") {
			return decls
		}
		switch tok.Lower {
		case "function", "procedure", "pure", "impure":
			if spec := p.parseSubprogramSpecification(); spec != nil {
				decls = append(decls, &ast.InterfaceSubprogramDeclaration{Specification: spec})
			}
			p.accept(";")
		case "type", "package":
			// interface types and packages are not modeled
			p.skipInterfaceItem()
		default:
			decls = append(decls, p.parseInterfaceObjects(defaultClass)...)
		}
	}
}

// skipInterfaceItem advances past one interface item, stopping before the
// closing ')' or after the separating ';'.
func (p *fileParser) skipInterfaceItem() {
	depth := 0
	for {
		tok := p.peek()
		if tok.Kind == tokEOF {
			return
		}
		switch tok.Lower {
		case "(":
			depth++
		case ")":
			if depth == 0 {
				return
			}
			depth--
		case ";":
			if depth == 0 {
				p.take()
				return
			}
		}
		p.take()
	}
}

var objectClasses = map[string]ast.ObjectClass{
	"signal":   ast.ObjectSignal,
	"constant": ast.ObjectConstant,
	"variable": ast.ObjectVariable,
	"file":     ast.ObjectFile,
}

var interfaceModes = map[string]ast.Mode{
	"in":      ast.ModeIn,
	"out":     ast.ModeOut,
	"inout":   ast.ModeInOut,
	"buffer":  ast.ModeBuffer,
	"linkage": ast.ModeLinkage,
}

func (p *fileParser) parseInterfaceObjects(defaultClass ast.ObjectClass) []ast.InterfaceDeclaration {
	class := defaultClass
	if c, ok := objectClasses[p.peek().Lower]; ok && p.peek().Kind == tokWord {
		class = c
		p.take()
	}

	idents := p.parseIdentList()
	if len(idents) == 0 {
		p.skipInterfaceItem()
		return nil
	}
	if !p.accept(":") {
		p.skipInterfaceItem()
		return nil
	}

	mode := ast.ModeIn
	if m, ok := interfaceModes[p.peek().Lower]; ok && p.peek().Kind == tokWord {
		mode = m
		p.take()
	}

	subtype, _ := p.parseSubtypeIndication()
	var def ast.Expression
	if p.accept(":=") {
		def = p.parseExpression()
	}
	p.accept(";")

	decls := make([]ast.InterfaceDeclaration, 0, len(idents))
	for _, ident := range idents {
		decls = append(decls, &ast.InterfaceObjectDeclaration{
			Class:             class,
			Mode:              mode,
			Ident:             ident,
			SubtypeIndication: subtype,
			Expression:        def,
		})
	}
	return decls
}

func (p *fileParser) parseIdentList() []ast.Ident {
	var idents []ast.Ident
	for {
		ident, ok := p.takeIdent()
		if !ok {
			return idents
		}
		idents = append(idents, ident)
		if !p.accept(",") {
			return idents
		}
	}
}

// parseSubtypeIndication parses a type mark with an optional index or range
// constraint; constraints are skipped.
func (p *fileParser) parseSubtypeIndication() (ast.SubtypeIndication, bool) {
	name, ok := p.parseSelectedName()
	if !ok {
		return ast.SubtypeIndication{}, false
	}
	if p.at("(") {
		p.skipBalanced()
	} else if p.accept("range") {
		p.skipConstraint()
	}
	return ast.SubtypeIndication{TypeMark: name}, true
}

// skipConstraint advances past a range constraint, stopping before any token
// that can follow a subtype indication.
func (p *fileParser) skipConstraint() {
	depth := 0
	for {
		tok := p.peek()
		if tok.Kind == tokEOF {
			return
		}
		switch tok.Lower {
		case "(":
			depth++
		case ")":
			if depth == 0 {
				return
			}
			depth--
		case ";", ":=", ",":
			if depth == 0 {
				return
			}
		case "is", "begin", "register", "bus", "units", "of", "generate", "loop":
			if depth == 0 {
				return
			}
		}
		p.take()
	}
}

// parseSelectedName parses "id" or "id.id.id" keeping the span of every
// designator along the chain.
func (p *fileParser) parseSelectedName() (ast.WithPos[ast.SelectedName], bool) {
	tok := p.peek()
	if tok.Kind != tokWord {
		return ast.WithPos[ast.SelectedName]{}, false
	}
	p.take()
	name := ast.SimpleName(tok.Text, tok.Pos)
	for p.at(".") && p.peekAt(1).Kind == tokWord {
		p.take()
		suffix := p.take()
		prefix := name
		name = ast.WithPos[ast.SelectedName]{
			Item: ast.SelectedName{
				Prefix: &prefix,
				Designator: ast.WithPos[ast.WithRef[ast.Designator]]{
					Item: ast.WithRef[ast.Designator]{
						Item: ast.Designator{Kind: ast.DesignatorIdentifier, Name: suffix.Text},
					},
					Pos: suffix.Pos,
				},
			},
			Pos: mergeSpan(prefix.Pos, suffix.Pos),
		}
	}
	return name, true
}

var declarationKeywords = map[string]bool{
	"signal": true, "constant": true, "variable": true, "shared": true,
	"file": true, "type": true, "subtype": true, "alias": true,
	"attribute": true, "component": true, "use": true, "function": true,
	"procedure": true, "pure": true, "impure": true, "for": true,
}

// parseDeclarations parses a declarative part, stopping before "begin" or
// "end".
func (p *fileParser) parseDeclarations() []ast.Declaration {
	var decls []ast.Declaration
	for {
		tok := p.peek()
		if tok.Kind == tokEOF || tok.Lower == "begin" || tok.Lower == "end" {
			return decls
		}
		switch tok.Lower {
		case "signal", "constant", "variable", "file":
			decls = append(decls, p.parseObjectDeclarations(objectClasses[tok.Lower])...)
		case "shared":
			p.take()
			if p.at("variable") {
				decls = append(decls, p.parseObjectDeclarations(ast.ObjectSharedVariable)...)
			} else {
				p.skipPast(";")
			}
		case "type", "subtype":
			if decl := p.parseTypeDeclaration(); decl != nil {
				decls = append(decls, decl)
			}
		case "alias":
			if decl := p.parseAliasDeclaration(); decl != nil {
				decls = append(decls, decl)
			}
		case "attribute":
			if decl := p.parseAttribute(); decl != nil {
				decls = append(decls, decl)
			}
		case "component":
			if decl := p.parseComponentDeclaration(); decl != nil {
				decls = append(decls, decl)
			}
		case "use":
			decls = append(decls, p.parseUseClause())
		case "function", "procedure", "pure", "impure":
			if decl := p.parseSubprogram(); decl != nil {
				decls = append(decls, decl)
			}
		default:
			// configuration specifications, disconnection specifications and
			// anything else outside the subset
			p.skipPast(";")
		}
	}
}

func (p *fileParser) parseObjectDeclarations(class ast.ObjectClass) []ast.Declaration {
	p.take() // class keyword
	idents := p.parseIdentList()
	if len(idents) == 0 || !p.accept(":") {
		p.skipPast(";")
		return nil
	}
	subtype, ok := p.parseSubtypeIndication()
	if !ok {
		p.skipPast(";")
		return nil
	}
	var def ast.Expression
	if p.accept(":=") {
		def = p.parseExpression()
	}
	p.skipPast(";")

	decls := make([]ast.Declaration, 0, len(idents))
	for _, ident := range idents {
		decls = append(decls, &ast.ObjectDeclaration{
			Class:             class,
			Ident:             ident,
			SubtypeIndication: subtype,
			Expression:        def,
		})
	}
	return decls
}

func (p *fileParser) parseTypeDeclaration() ast.Declaration {
	kind := p.take().Lower // type or subtype
	ident, ok := p.takeIdent()
	if !ok {
		p.skipPast(";")
		return nil
	}
	decl := &ast.TypeDeclaration{Ident: ident, Def: &ast.IntegerTypeDefinition{}}
	if !p.accept("is") {
		// incomplete type declaration: "type foo;"
		p.skipPast(";")
		return decl
	}
	if kind == "subtype" {
		if subtype, ok := p.parseSubtypeIndication(); ok {
			decl.Def = &ast.SubtypeDefinition{Subtype: subtype}
		}
		p.skipPast(";")
		return decl
	}
	decl.Def = p.parseTypeDefinition()
	p.skipPast(";")
	return decl
}

func (p *fileParser) parseTypeDefinition() ast.TypeDefinition {
	tok := p.peek()
	switch tok.Lower {
	case "record":
		p.take()
		return p.parseRecordDefinition()
	case "access":
		p.take()
		if subtype, ok := p.parseSubtypeIndication(); ok {
			return &ast.AccessTypeDefinition{Subtype: subtype}
		}
		return &ast.IntegerTypeDefinition{}
	case "array":
		p.take()
		p.skipBalanced()
		p.accept("of")
		if subtype, ok := p.parseSubtypeIndication(); ok {
			return &ast.ArrayTypeDefinition{Subtype: subtype}
		}
		return &ast.IntegerTypeDefinition{}
	case "protected":
		p.take()
		if p.accept("body") {
			def := &ast.ProtectedTypeBody{Declarations: p.parseDeclarations()}
			p.accept("end")
			p.accept("protected")
			p.accept("body")
			return def
		}
		return p.parseProtectedDeclaration()
	case "(":
		return p.parseEnumerationDefinition()
	case "range":
		p.take()
		p.skipConstraint()
		if p.accept("units") {
			p.skipPast("units") // "end units" closes the physical type
		}
		return &ast.IntegerTypeDefinition{}
	default:
		return &ast.IntegerTypeDefinition{}
	}
}

func (p *fileParser) parseRecordDefinition() ast.TypeDefinition {
	def := &ast.RecordTypeDefinition{}
	for {
		tok := p.peek()
		if tok.Kind == tokEOF {
			return def
		}
		if p.accept("end") {
			p.accept("record")
			return def
		}
		idents := p.parseIdentList()
		if len(idents) == 0 || !p.accept(":") {
			p.skipPast(";")
			continue
		}
		subtype, ok := p.parseSubtypeIndication()
		if !ok {
			p.skipPast(";")
			continue
		}
		p.accept(";")
		for _, ident := range idents {
			def.Elements = append(def.Elements, ast.ElementDeclaration{Ident: ident, Subtype: subtype})
		}
	}
}

func (p *fileParser) parseProtectedDeclaration() ast.TypeDefinition {
	def := &ast.ProtectedTypeDeclaration{}
	for {
		tok := p.peek()
		if tok.Kind == tokEOF {
			return def
		}
		if p.accept("end") {
			p.accept("protected")
			return def
		}
		switch tok.Lower {
		case "function", "procedure", "pure", "impure":
			if spec := p.parseSubprogramSpecification(); spec != nil {
				def.Items = append(def.Items, &ast.SubprogramDeclaration{Specification: spec})
			}
			p.accept(";")
		default:
			p.skipPast(";")
		}
	}
}

func (p *fileParser) parseEnumerationDefinition() ast.TypeDefinition {
	def := &ast.EnumerationTypeDefinition{}
	p.accept("(")
	for {
		tok := p.peek()
		if tok.Kind == tokEOF || p.accept(")") {
			return def
		}
		if tok.Kind == tokWord {
			def.Literals = append(def.Literals, ast.Ident{Name: tok.Text, Pos: tok.Pos})
		}
		p.take()
		p.accept(",")
	}
}

func (p *fileParser) parseAliasDeclaration() ast.Declaration {
	p.take() // alias
	ident, ok := p.takeIdent()
	if !ok {
		p.skipPast(";")
		return nil
	}
	decl := &ast.AliasDeclaration{Designator: ident}
	if p.accept(":") {
		if subtype, ok := p.parseSubtypeIndication(); ok {
			decl.SubtypeIndication = &subtype
		}
	}
	if p.accept("is") {
		if name, ok := p.parseSelectedName(); ok {
			decl.Name = name
		}
	}
	p.skipPast(";")
	return decl
}

// parseAttribute handles attribute declarations; attribute specifications
// ("attribute foo of bar : ...") are skipped.
func (p *fileParser) parseAttribute() ast.Declaration {
	p.take() // attribute
	ident, ok := p.takeIdent()
	if !ok || !p.accept(":") {
		p.skipPast(";")
		return nil
	}
	typeMark, ok := p.parseSelectedName()
	if !ok {
		p.skipPast(";")
		return nil
	}
	p.skipPast(";")
	return &ast.AttributeDeclaration{Ident: ident, TypeMark: typeMark}
}

func (p *fileParser) parseComponentDeclaration() ast.Declaration {
	p.take() // component
	ident, ok := p.takeIdent()
	if !ok {
		p.skipPast(";")
		return nil
	}
	decl := &ast.ComponentDeclaration{Ident: ident}
	p.accept("is")
	if p.accept("generic") {
		decl.Generics = p.parseInterfaceList(ast.ObjectConstant)
		p.accept(";")
	}
	if p.accept("port") {
		decl.Ports = p.parseInterfaceList(ast.ObjectSignal)
		p.accept(";")
	}
	p.accept("end")
	p.accept("component")
	p.skipPast(";")
	return decl
}

func (p *fileParser) parseUseClause() ast.Declaration {
	p.take() // use
	clause := &ast.UseClause{}
	for {
		name, ok := p.parseSelectedName()
		if !ok {
			break
		}
		// "use work.pkg.all" carries a trailing ".all"
		clause.Names = append(clause.Names, name)
		if !p.accept(",") {
			break
		}
	}
	p.skipPast(";")
	return clause
}

func (p *fileParser) parseSubprogramSpecification() ast.SubprogramSpecification {
	p.accept("pure")
	p.accept("impure")
	isFunction := p.at("function")
	if !p.accept("function") && !p.accept("procedure") {
		return nil
	}

	tok := p.peek()
	var designator ast.Ident
	if tok.Kind == tokWord || tok.Kind == tokString {
		p.take()
		designator = ast.Ident{Name: tok.Text, Pos: tok.Pos}
	}

	var params []ast.InterfaceDeclaration
	p.accept("parameter")
	if p.at("(") {
		params = p.parseInterfaceList(ast.ObjectConstant)
	}

	if isFunction {
		spec := &ast.FunctionSpecification{Designator: designator, ParameterList: params}
		if p.accept("return") {
			if name, ok := p.parseSelectedName(); ok {
				spec.ReturnType = name
			}
		}
		return spec
	}
	return &ast.ProcedureSpecification{Designator: designator, ParameterList: params}
}

func (p *fileParser) parseSubprogram() ast.Declaration {
	spec := p.parseSubprogramSpecification()
	if spec == nil {
		p.skipPast(";")
		return nil
	}
	if !p.accept("is") {
		p.skipPast(";")
		return &ast.SubprogramDeclaration{Specification: spec}
	}
	body := &ast.SubprogramBody{Specification: spec}
	body.Declarations = p.parseDeclarations()
	if p.accept("begin") {
		body.Statements = p.parseSequentialStatements()
	}
	p.accept("end")
	p.accept("function")
	p.accept("procedure")
	p.skipPast(";")
	return body
}
