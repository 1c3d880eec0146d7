// Package resolver links name occurrences to their declarations. It walks
// the parsed design files, maintaining a stack of scopes, and fills in the
// reference back-pointer on every designator it can resolve. Unresolved
// names keep a nil reference; navigation treats those as dead ends rather
// than errors.
//
// VHDL name lookup is case-insensitive, so all scope keys are lower-cased.
// Package-level declarations are visible everywhere, which over-approximates
// use-clause visibility but errs on the side of finding a definition.
package resolver

import (
	"strings"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
)

// scope is one level of the lookup stack. Lookups walk outward through
// parent links.
type scope struct {
	parent *scope
	names  map[string]ast.SrcPos
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[string]ast.SrcPos{}}
}

func (s *scope) declare(name string, pos ast.SrcPos) {
	if name == "" {
		return
	}
	s.names[strings.ToLower(name)] = pos
}

func (s *scope) lookup(name string) (ast.SrcPos, bool) {
	key := strings.ToLower(name)
	for sc := s; sc != nil; sc = sc.parent {
		if pos, ok := sc.names[key]; ok {
			return pos, true
		}
	}
	return ast.SrcPos{}, false
}

// resolver carries the cross-file unit index built before the per-unit walk.
type resolver struct {
	global   *scope
	entities map[string]*ast.EntityUnit
	packages map[string]*ast.PackageUnit
}

// Resolve fills reference back-pointers across the given design files.
// It is a two-phase pass: first every design unit and every package-level
// declaration is indexed, then each unit is walked with its own scope stack.
// Architectures see the generics and ports of their entity.
func Resolve(files ...*ast.DesignFile) {
	r := &resolver{
		global:   newScope(nil),
		entities: map[string]*ast.EntityUnit{},
		packages: map[string]*ast.PackageUnit{},
	}
	for _, file := range files {
		r.indexFile(file)
	}
	for _, file := range files {
		for _, unit := range file.Units {
			r.resolveUnit(unit)
		}
	}
}

func (r *resolver) indexFile(file *ast.DesignFile) {
	for _, unit := range file.Units {
		switch u := unit.(type) {
		case *ast.EntityUnit:
			r.global.declare(u.Ident.Name, u.Ident.Pos)
			r.entities[strings.ToLower(u.Ident.Name)] = u
		case *ast.PackageUnit:
			r.global.declare(u.Ident.Name, u.Ident.Pos)
			r.packages[strings.ToLower(u.Ident.Name)] = u
			r.indexDeclarations(u.Declarations)
		case *ast.PackageInstanceUnit:
			r.global.declare(u.Ident.Name, u.Ident.Pos)
		case *ast.ConfigurationUnit:
			r.global.declare(u.Ident.Name, u.Ident.Pos)
		}
	}
}

// indexDeclarations exposes package-level names globally.
func (r *resolver) indexDeclarations(decls []ast.Declaration) {
	for _, decl := range decls {
		r.declareDeclaration(r.global, decl)
	}
}

func (r *resolver) resolveUnit(unit ast.DesignUnit) {
	switch u := unit.(type) {
	case *ast.EntityUnit:
		sc := newScope(r.global)
		r.resolveInterfaceList(sc, u.Generics)
		r.resolveInterfaceList(sc, u.Ports)
		r.resolveDeclarations(sc, u.Declarations)
		r.resolveConcurrentStatements(sc, u.Statements)
	case *ast.ArchitectureUnit:
		sc := newScope(r.global)
		if entity, ok := r.entities[strings.ToLower(u.EntityName.Name)]; ok {
			declareInterfaceList(sc, entity.Generics)
			declareInterfaceList(sc, entity.Ports)
		}
		r.resolveDeclarations(sc, u.Declarations)
		r.resolveConcurrentStatements(sc, u.Statements)
	case *ast.PackageUnit:
		sc := newScope(r.global)
		r.resolveInterfaceList(sc, u.Generics)
		r.resolveDeclarations(sc, u.Declarations)
	case *ast.PackageBodyUnit:
		sc := newScope(r.global)
		if pkg, ok := r.packages[strings.ToLower(u.Ident.Name)]; ok {
			for _, decl := range pkg.Declarations {
				r.declareDeclaration(sc, decl)
			}
		}
		r.resolveDeclarations(sc, u.Declarations)
	case *ast.PackageInstanceUnit:
		r.resolveName(r.global, &u.PackageName)
	case *ast.ConfigurationUnit:
		r.resolveName(r.global, &u.EntityName)
	}
}

// resolveDeclarations walks a declarative part. Each declaration's names are
// declared before its innards are resolved, so recursive subprograms and
// self-referential types resolve to themselves.
func (r *resolver) resolveDeclarations(sc *scope, decls []ast.Declaration) {
	for _, decl := range decls {
		r.declareDeclaration(sc, decl)
		r.resolveDeclaration(sc, decl)
	}
}

func (r *resolver) declareDeclaration(sc *scope, decl ast.Declaration) {
	switch d := decl.(type) {
	case *ast.ObjectDeclaration:
		sc.declare(d.Ident.Name, d.Ident.Pos)
	case *ast.TypeDeclaration:
		sc.declare(d.Ident.Name, d.Ident.Pos)
		if enum, ok := d.Def.(*ast.EnumerationTypeDefinition); ok {
			for _, lit := range enum.Literals {
				sc.declare(lit.Name, lit.Pos)
			}
		}
	case *ast.SubprogramBody:
		sc.declare(specificationName(d.Specification))
	case *ast.SubprogramDeclaration:
		sc.declare(specificationName(d.Specification))
	case *ast.AttributeDeclaration:
		sc.declare(d.Ident.Name, d.Ident.Pos)
	case *ast.AliasDeclaration:
		sc.declare(d.Designator.Name, d.Designator.Pos)
	case *ast.ComponentDeclaration:
		sc.declare(d.Ident.Name, d.Ident.Pos)
	}
}

func specificationName(spec ast.SubprogramSpecification) (string, ast.SrcPos) {
	switch s := spec.(type) {
	case *ast.ProcedureSpecification:
		return s.Designator.Name, s.Designator.Pos
	case *ast.FunctionSpecification:
		return s.Designator.Name, s.Designator.Pos
	}
	return "", ast.SrcPos{}
}

func (r *resolver) resolveDeclaration(sc *scope, decl ast.Declaration) {
	switch d := decl.(type) {
	case *ast.ObjectDeclaration:
		r.resolveSubtypeIndication(sc, &d.SubtypeIndication)
		r.resolveExpression(sc, d.Expression)
	case *ast.TypeDeclaration:
		r.resolveTypeDefinition(sc, d.Def)
	case *ast.SubprogramBody:
		inner := newScope(sc)
		r.resolveSpecification(inner, d.Specification)
		r.resolveDeclarations(inner, d.Declarations)
		r.resolveSequentialStatements(inner, d.Statements)
	case *ast.SubprogramDeclaration:
		r.resolveSpecification(newScope(sc), d.Specification)
	case *ast.AttributeDeclaration:
		r.resolveName(sc, &d.TypeMark)
	case *ast.AliasDeclaration:
		if d.SubtypeIndication != nil {
			r.resolveSubtypeIndication(sc, d.SubtypeIndication)
		}
		r.resolveName(sc, &d.Name)
	case *ast.ComponentDeclaration:
		inner := newScope(sc)
		r.resolveInterfaceList(inner, d.Generics)
		r.resolveInterfaceList(inner, d.Ports)
	case *ast.UseClause:
		for i := range d.Names {
			r.resolveName(sc, &d.Names[i])
		}
	}
}

func (r *resolver) resolveTypeDefinition(sc *scope, def ast.TypeDefinition) {
	switch d := def.(type) {
	case *ast.RecordTypeDefinition:
		for i := range d.Elements {
			r.resolveSubtypeIndication(sc, &d.Elements[i].Subtype)
		}
	case *ast.AccessTypeDefinition:
		r.resolveSubtypeIndication(sc, &d.Subtype)
	case *ast.ArrayTypeDefinition:
		r.resolveSubtypeIndication(sc, &d.Subtype)
	case *ast.SubtypeDefinition:
		r.resolveSubtypeIndication(sc, &d.Subtype)
	case *ast.ProtectedTypeDeclaration:
		for _, item := range d.Items {
			r.resolveSpecification(newScope(sc), item.Specification)
		}
	case *ast.ProtectedTypeBody:
		r.resolveDeclarations(newScope(sc), d.Declarations)
	}
}

// resolveSpecification declares parameters into the given scope so that a
// following body walk sees them.
func (r *resolver) resolveSpecification(sc *scope, spec ast.SubprogramSpecification) {
	switch s := spec.(type) {
	case *ast.ProcedureSpecification:
		r.resolveInterfaceList(sc, s.ParameterList)
	case *ast.FunctionSpecification:
		r.resolveInterfaceList(sc, s.ParameterList)
		r.resolveName(sc, &s.ReturnType)
	}
}

func declareInterfaceList(sc *scope, list []ast.InterfaceDeclaration) {
	for _, item := range list {
		if obj, ok := item.(*ast.InterfaceObjectDeclaration); ok {
			sc.declare(obj.Ident.Name, obj.Ident.Pos)
		}
	}
}

func (r *resolver) resolveInterfaceList(sc *scope, list []ast.InterfaceDeclaration) {
	for _, item := range list {
		switch obj := item.(type) {
		case *ast.InterfaceObjectDeclaration:
			sc.declare(obj.Ident.Name, obj.Ident.Pos)
			r.resolveSubtypeIndication(sc, &obj.SubtypeIndication)
			r.resolveExpression(sc, obj.Expression)
		case *ast.InterfaceSubprogramDeclaration:
			r.resolveSpecification(newScope(sc), obj.Specification)
		}
	}
}

func (r *resolver) resolveConcurrentStatements(sc *scope, stmts []ast.LabeledConcurrentStatement) {
	for i := range stmts {
		r.resolveConcurrentStatement(sc, stmts[i].Statement)
	}
}

func (r *resolver) resolveConcurrentStatement(sc *scope, stmt ast.ConcurrentStatement) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		inner := newScope(sc)
		r.resolveDeclarations(inner, s.Declarations)
		r.resolveConcurrentStatements(inner, s.Statements)
	case *ast.ProcessStatement:
		inner := newScope(sc)
		for i := range s.SensitivityList {
			r.resolveName(inner, &s.SensitivityList[i])
		}
		r.resolveDeclarations(inner, s.Declarations)
		r.resolveSequentialStatements(inner, s.Statements)
	case *ast.ForGenerateStatement:
		inner := newScope(sc)
		inner.declare(s.Index.Name, s.Index.Pos)
		r.resolveGenerateBody(inner, &s.Body)
	case *ast.IfGenerateStatement:
		for i := range s.Conditionals {
			r.resolveExpression(sc, s.Conditionals[i].Condition)
			r.resolveGenerateBody(newScope(sc), &s.Conditionals[i].Body)
		}
		if s.Else != nil {
			r.resolveGenerateBody(newScope(sc), s.Else)
		}
	case *ast.CaseGenerateStatement:
		for i := range s.Alternatives {
			r.resolveGenerateBody(newScope(sc), &s.Alternatives[i].Body)
		}
	case *ast.ComponentInstantiationStatement:
		r.resolveName(sc, &s.Unit)
	case *ast.ConcurrentSignalAssignment:
		r.resolveName(sc, &s.Target)
		r.resolveExpression(sc, s.Rhs)
	case *ast.ConcurrentProcedureCall:
		r.resolveCall(sc, &s.Call)
	}
}

func (r *resolver) resolveGenerateBody(sc *scope, body *ast.GenerateBody) {
	r.resolveDeclarations(sc, body.Declarations)
	r.resolveConcurrentStatements(sc, body.Statements)
}

func (r *resolver) resolveSequentialStatements(sc *scope, stmts []ast.LabeledSequentialStatement) {
	for i := range stmts {
		r.resolveSequentialStatement(sc, stmts[i].Statement)
	}
}

func (r *resolver) resolveSequentialStatement(sc *scope, stmt ast.SequentialStatement) {
	switch s := stmt.(type) {
	case *ast.SignalAssignmentStatement:
		r.resolveName(sc, &s.Target)
		r.resolveExpression(sc, s.Rhs)
	case *ast.VariableAssignmentStatement:
		r.resolveName(sc, &s.Target)
		r.resolveExpression(sc, s.Rhs)
	case *ast.IfStatement:
		for i := range s.Conditionals {
			r.resolveExpression(sc, s.Conditionals[i].Condition)
			r.resolveSequentialStatements(sc, s.Conditionals[i].Statements)
		}
		r.resolveSequentialStatements(sc, s.Else)
	case *ast.ReturnStatement:
		r.resolveExpression(sc, s.Expression)
	case *ast.WaitStatement:
		for i := range s.SensitivityList {
			r.resolveName(sc, &s.SensitivityList[i])
		}
	case *ast.ProcedureCallStatement:
		r.resolveCall(sc, &s.Call)
	}
}

func (r *resolver) resolveCall(sc *scope, call *ast.CallExpression) {
	r.resolveName(sc, &call.Name)
	for _, arg := range call.Args {
		r.resolveExpression(sc, arg)
	}
}

func (r *resolver) resolveExpression(sc *scope, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.NameExpression:
		r.resolveName(sc, &e.Name)
	case *ast.BinaryExpression:
		r.resolveExpression(sc, e.Left)
		r.resolveExpression(sc, e.Right)
	case *ast.UnaryExpression:
		r.resolveExpression(sc, e.Operand)
	case *ast.ParenExpression:
		r.resolveExpression(sc, e.Inner)
	case *ast.CallExpression:
		r.resolveCall(sc, e)
	}
}

func (r *resolver) resolveSubtypeIndication(sc *scope, si *ast.SubtypeIndication) {
	r.resolveName(sc, &si.TypeMark)
}

// resolveName resolves a possibly selected name. The suffix of a selected
// name is looked up among the members of the package its prefix denotes;
// library prefixes such as "work" are transparent, so the suffix of an
// unresolved prefix falls back to an ordinary scoped lookup.
func (r *resolver) resolveName(sc *scope, n *ast.WithPos[ast.SelectedName]) {
	name := &n.Item
	if name.Prefix == nil {
		r.bind(sc, &name.Designator.Item, name.Designator.Item.Item.Name)
		return
	}

	r.resolveName(sc, name.Prefix)
	prefix := name.Prefix.Item
	if prefix.Prefix == nil {
		if pkg, ok := r.packages[strings.ToLower(prefix.Designator.Item.Item.Name)]; ok {
			r.bindInPackage(pkg, &name.Designator.Item, name.Designator.Item.Item.Name)
			return
		}
	}
	r.bind(sc, &name.Designator.Item, name.Designator.Item.Item.Name)
}

func (r *resolver) bind(sc *scope, ref *ast.WithRef[ast.Designator], name string) {
	if ref.Reference != nil {
		return
	}
	if pos, ok := sc.lookup(name); ok {
		p := pos
		ref.Reference = &p
	}
}

func (r *resolver) bindInPackage(pkg *ast.PackageUnit, ref *ast.WithRef[ast.Designator], name string) {
	members := newScope(nil)
	for _, decl := range pkg.Declarations {
		r.declareDeclaration(members, decl)
	}
	r.bind(members, ref, name)
}
