// Package search is a short-circuiting traversal engine over the VHDL AST.
// A Searcher implementation is called back at each semantically interesting
// node; the traversal stops as soon as the searcher reports a terminal
// result. Two searchers are provided: ItemAtCursor (go to definition) and
// FindAllReferences. New navigation queries are written as new Searchers
// without touching the traversal rules.
package search

import "github.com/robert-at-pretension-io/vhdl-nav/internal/ast"

// SearchResult is the terminal outcome of a search: a found value or nothing.
// Once produced it is returned up the call chain without further traversal.
type SearchResult[T any] struct {
	found bool
	value T
}

// Found builds a successful result carrying a value.
func Found[T any](value T) SearchResult[T] {
	return SearchResult[T]{found: true, value: value}
}

// NotFound builds the empty result.
func NotFound[T any]() SearchResult[T] {
	return SearchResult[T]{}
}

// Value returns the carried value and whether the search succeeded.
func (r SearchResult[T]) Value() (T, bool) {
	return r.value, r.found
}

// IsFound reports whether the search succeeded.
func (r SearchResult[T]) IsFound() bool {
	return r.found
}

// SearchState is what a Searcher hook returns. NotFinished means "no opinion,
// keep walking"; Finished(Found) means "stop everywhere, this is the answer";
// Finished(NotFound) means "this subtree is provably irrelevant, skip it".
type SearchState[T any] struct {
	finished bool
	result   SearchResult[T]
}

// Finished wraps a terminal result.
func Finished[T any](result SearchResult[T]) SearchState[T] {
	return SearchState[T]{finished: true, result: result}
}

// NotFinished lets the traversal continue into children.
func NotFinished[T any]() SearchState[T] {
	return SearchState[T]{}
}

// OrElse short-circuits on a finished state, otherwise runs the fallback to
// decide among children.
func (s SearchState[T]) OrElse(fallback func() SearchResult[T]) SearchResult[T] {
	if s.finished {
		return s.result
	}
	return fallback()
}

// OrNotFound resolves an undecided state to NotFound.
func (s SearchState[T]) OrNotFound() SearchResult[T] {
	return s.OrElse(NotFound[T])
}

// Searcher is the capability interface of the traversal: one hook per
// interesting node kind. Embed NopSearcher to inherit the "no opinion"
// default for every hook and override only the ones a query needs.
type Searcher[T any] interface {
	SearchConcurrentStatement(stmt *ast.LabeledConcurrentStatement) SearchState[T]
	SearchSequentialStatement(stmt *ast.LabeledSequentialStatement) SearchState[T]
	SearchDeclaration(decl ast.Declaration) SearchState[T]
	SearchTypeDeclaration(decl *ast.TypeDeclaration) SearchState[T]
	SearchInterfaceDeclaration(decl ast.InterfaceDeclaration) SearchState[T]
	SearchSubtypeIndication(ind *ast.SubtypeIndication) SearchState[T]
	SearchEntity(ent *ast.EntityUnit) SearchState[T]
	SearchDesignatorRef(pos ast.SrcPos, designator *ast.WithRef[ast.Designator]) SearchState[T]
	SearchPos(pos ast.SrcPos) SearchState[T]
	SearchSource(source ast.Source) SearchState[T]
}

// NopSearcher returns NotFinished from every hook. Searchers embed it so that
// unimplemented hooks are transparent pass-throughs.
type NopSearcher[T any] struct{}

func (NopSearcher[T]) SearchConcurrentStatement(*ast.LabeledConcurrentStatement) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchSequentialStatement(*ast.LabeledSequentialStatement) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchDeclaration(ast.Declaration) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchTypeDeclaration(*ast.TypeDeclaration) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchInterfaceDeclaration(ast.InterfaceDeclaration) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchSubtypeIndication(*ast.SubtypeIndication) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchEntity(*ast.EntityUnit) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchDesignatorRef(ast.SrcPos, *ast.WithRef[ast.Designator]) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchPos(ast.SrcPos) SearchState[T] {
	return NotFinished[T]()
}

func (NopSearcher[T]) SearchSource(ast.Source) SearchState[T] {
	return NotFinished[T]()
}

// SearchDesignFile searches the units of one design file in order, stopping
// at the first found value.
func SearchDesignFile[T any](file *ast.DesignFile, searcher Searcher[T]) SearchResult[T] {
	for _, unit := range file.Units {
		if r := SearchUnit(unit, searcher); r.IsFound() {
			return r
		}
	}
	return NotFound[T]()
}

// SearchUnit searches one design unit. The unit first offers its source
// identity; a searcher that recognizes a foreign source skips the whole unit.
func SearchUnit[T any](unit ast.DesignUnit, searcher Searcher[T]) SearchResult[T] {
	return searcher.SearchSource(unit.Source()).OrElse(func() SearchResult[T] {
		switch u := unit.(type) {
		case *ast.EntityUnit:
			return searcher.SearchEntity(u).OrElse(func() SearchResult[T] {
				if r := searchInterfaceList(u.Generics, searcher); r.IsFound() {
					return r
				}
				if r := searchInterfaceList(u.Ports, searcher); r.IsFound() {
					return r
				}
				if r := searchDeclarations(u.Declarations, searcher); r.IsFound() {
					return r
				}
				return searchConcurrentStatements(u.Statements, searcher)
			})
		case *ast.ArchitectureUnit:
			if r := searchDeclarations(u.Declarations, searcher); r.IsFound() {
				return r
			}
			return searchConcurrentStatements(u.Statements, searcher)
		case *ast.PackageUnit:
			if r := searchInterfaceList(u.Generics, searcher); r.IsFound() {
				return r
			}
			return searchDeclarations(u.Declarations, searcher)
		case *ast.PackageBodyUnit:
			return searchDeclarations(u.Declarations, searcher)
		case *ast.PackageInstanceUnit:
			return searchSelectedName(&u.PackageName, searcher)
		case *ast.ConfigurationUnit:
			return searchSelectedName(&u.EntityName, searcher)
		default:
			return NotFound[T]()
		}
	})
}

func searchConcurrentStatements[T any](stmts []ast.LabeledConcurrentStatement, searcher Searcher[T]) SearchResult[T] {
	for i := range stmts {
		if r := searchConcurrentStatement(&stmts[i], searcher); r.IsFound() {
			return r
		}
	}
	return NotFound[T]()
}

func searchConcurrentStatement[T any](stmt *ast.LabeledConcurrentStatement, searcher Searcher[T]) SearchResult[T] {
	return searcher.SearchConcurrentStatement(stmt).OrElse(func() SearchResult[T] {
		switch s := stmt.Statement.(type) {
		case *ast.BlockStatement:
			if r := searchDeclarations(s.Declarations, searcher); r.IsFound() {
				return r
			}
			return searchConcurrentStatements(s.Statements, searcher)
		case *ast.ProcessStatement:
			if r := searchDeclarations(s.Declarations, searcher); r.IsFound() {
				return r
			}
			return searchSequentialStatements(s.Statements, searcher)
		case *ast.ForGenerateStatement:
			return searchGenerateBody(&s.Body, searcher)
		case *ast.IfGenerateStatement:
			for i := range s.Conditionals {
				if r := searchGenerateBody(&s.Conditionals[i].Body, searcher); r.IsFound() {
					return r
				}
			}
			if s.Else != nil {
				return searchGenerateBody(s.Else, searcher)
			}
			return NotFound[T]()
		case *ast.CaseGenerateStatement:
			for i := range s.Alternatives {
				if r := searchGenerateBody(&s.Alternatives[i].Body, searcher); r.IsFound() {
					return r
				}
			}
			return NotFound[T]()
		default:
			// Instantiations, concurrent assignments and concurrent calls are
			// not descended into.
			return NotFound[T]()
		}
	})
}

func searchGenerateBody[T any](body *ast.GenerateBody, searcher Searcher[T]) SearchResult[T] {
	if r := searchDeclarations(body.Declarations, searcher); r.IsFound() {
		return r
	}
	return searchConcurrentStatements(body.Statements, searcher)
}

func searchSequentialStatements[T any](stmts []ast.LabeledSequentialStatement, searcher Searcher[T]) SearchResult[T] {
	for i := range stmts {
		if r := searchSequentialStatement(&stmts[i], searcher); r.IsFound() {
			return r
		}
	}
	return NotFound[T]()
}

func searchSequentialStatement[T any](stmt *ast.LabeledSequentialStatement, searcher Searcher[T]) SearchResult[T] {
	return searcher.SearchSequentialStatement(stmt).OrElse(func() SearchResult[T] {
		switch s := stmt.Statement.(type) {
		case *ast.SignalAssignmentStatement:
			if r := searchSelectedName(&s.Target, searcher); r.IsFound() {
				return r
			}
			return searchExpression(s.Rhs, searcher)
		case *ast.VariableAssignmentStatement:
			if r := searchSelectedName(&s.Target, searcher); r.IsFound() {
				return r
			}
			return searchExpression(s.Rhs, searcher)
		case *ast.IfStatement:
			for i := range s.Conditionals {
				cond := &s.Conditionals[i]
				if r := searchExpression(cond.Condition, searcher); r.IsFound() {
					return r
				}
				if r := searchSequentialStatements(cond.Statements, searcher); r.IsFound() {
					return r
				}
			}
			return searchSequentialStatements(s.Else, searcher)
		case *ast.ReturnStatement:
			return searchExpression(s.Expression, searcher)
		case *ast.WaitStatement:
			return searchNameList(s.SensitivityList, searcher)
		case *ast.ProcedureCallStatement:
			return searchCall(&s.Call, searcher)
		default:
			return NotFound[T]()
		}
	})
}

func searchExpression[T any](expr ast.Expression, searcher Searcher[T]) SearchResult[T] {
	if expr == nil {
		return NotFound[T]()
	}
	switch e := expr.(type) {
	case *ast.NameExpression:
		return searchSelectedName(&e.Name, searcher)
	case *ast.BinaryExpression:
		if r := searchExpression(e.Left, searcher); r.IsFound() {
			return r
		}
		return searchExpression(e.Right, searcher)
	case *ast.UnaryExpression:
		return searchExpression(e.Operand, searcher)
	case *ast.ParenExpression:
		return searchExpression(e.Inner, searcher)
	case *ast.CallExpression:
		return searchCall(e, searcher)
	default:
		// Literals carry no names.
		return NotFound[T]()
	}
}

func searchCall[T any](call *ast.CallExpression, searcher Searcher[T]) SearchResult[T] {
	if r := searchSelectedName(&call.Name, searcher); r.IsFound() {
		return r
	}
	for _, arg := range call.Args {
		if r := searchExpression(arg, searcher); r.IsFound() {
			return r
		}
	}
	return NotFound[T]()
}

func searchNameList[T any](names []ast.WithPos[ast.SelectedName], searcher Searcher[T]) SearchResult[T] {
	for i := range names {
		if r := searchSelectedName(&names[i], searcher); r.IsFound() {
			return r
		}
	}
	return NotFound[T]()
}

// searchSelectedName searches a simple or selected name. A selected name
// recurses into its prefix first and then its trailing designator; a simple
// name goes straight to the designator-reference hook.
func searchSelectedName[T any](name *ast.WithPos[ast.SelectedName], searcher Searcher[T]) SearchResult[T] {
	if name.Item.Prefix != nil {
		if r := searchSelectedName(name.Item.Prefix, searcher); r.IsFound() {
			return r
		}
		return searchDesignator(&name.Item.Designator, searcher)
	}
	return searcher.SearchDesignatorRef(name.Pos, &name.Item.Designator.Item).OrNotFound()
}

// searchDesignator searches a positioned designator occurrence: the bare
// position hook first (pruning), then the designator-reference hook.
func searchDesignator[T any](designator *ast.WithPos[ast.WithRef[ast.Designator]], searcher Searcher[T]) SearchResult[T] {
	return searcher.SearchPos(designator.Pos).OrElse(func() SearchResult[T] {
		return searcher.SearchDesignatorRef(designator.Pos, &designator.Item).OrNotFound()
	})
}

func searchSubtypeIndication[T any](ind *ast.SubtypeIndication, searcher Searcher[T]) SearchResult[T] {
	return searcher.SearchSubtypeIndication(ind).OrElse(func() SearchResult[T] {
		return searchSelectedName(&ind.TypeMark, searcher)
	})
}

func searchTypeDeclaration[T any](decl *ast.TypeDeclaration, searcher Searcher[T]) SearchResult[T] {
	return searcher.SearchTypeDeclaration(decl).OrElse(func() SearchResult[T] {
		switch def := decl.Def.(type) {
		case *ast.ProtectedTypeBody:
			return searchDeclarations(def.Declarations, searcher)
		case *ast.ProtectedTypeDeclaration:
			for _, item := range def.Items {
				if r := searchSpecification(item.Specification, searcher); r.IsFound() {
					return r
				}
			}
			return NotFound[T]()
		case *ast.RecordTypeDefinition:
			for i := range def.Elements {
				if r := searchSubtypeIndication(&def.Elements[i].Subtype, searcher); r.IsFound() {
					return r
				}
			}
			return NotFound[T]()
		case *ast.AccessTypeDefinition:
			return searchSubtypeIndication(&def.Subtype, searcher)
		case *ast.ArrayTypeDefinition:
			return searchSubtypeIndication(&def.Subtype, searcher)
		case *ast.SubtypeDefinition:
			return searchSubtypeIndication(&def.Subtype, searcher)
		default:
			return NotFound[T]()
		}
	})
}

func searchDeclarations[T any](decls []ast.Declaration, searcher Searcher[T]) SearchResult[T] {
	for _, decl := range decls {
		if r := searchDeclaration(decl, searcher); r.IsFound() {
			return r
		}
	}
	return NotFound[T]()
}

func searchDeclaration[T any](decl ast.Declaration, searcher Searcher[T]) SearchResult[T] {
	return searcher.SearchDeclaration(decl).OrElse(func() SearchResult[T] {
		switch d := decl.(type) {
		case *ast.ObjectDeclaration:
			return searchSubtypeIndication(&d.SubtypeIndication, searcher)
		case *ast.TypeDeclaration:
			return searchTypeDeclaration(d, searcher)
		case *ast.SubprogramBody:
			if r := searchSpecification(d.Specification, searcher); r.IsFound() {
				return r
			}
			return searchDeclarations(d.Declarations, searcher)
		case *ast.SubprogramDeclaration:
			return searchSpecification(d.Specification, searcher)
		case *ast.AttributeDeclaration:
			return searchSelectedName(&d.TypeMark, searcher)
		case *ast.AliasDeclaration:
			if d.SubtypeIndication != nil {
				return searchSubtypeIndication(d.SubtypeIndication, searcher)
			}
			return NotFound[T]()
		default:
			return NotFound[T]()
		}
	})
}

func searchInterfaceList[T any](decls []ast.InterfaceDeclaration, searcher Searcher[T]) SearchResult[T] {
	for _, decl := range decls {
		if r := searchInterfaceDeclaration(decl, searcher); r.IsFound() {
			return r
		}
	}
	return NotFound[T]()
}

func searchInterfaceDeclaration[T any](decl ast.InterfaceDeclaration, searcher Searcher[T]) SearchResult[T] {
	return searcher.SearchInterfaceDeclaration(decl).OrElse(func() SearchResult[T] {
		switch d := decl.(type) {
		case *ast.InterfaceObjectDeclaration:
			return searchSubtypeIndication(&d.SubtypeIndication, searcher)
		case *ast.InterfaceSubprogramDeclaration:
			return searchSpecification(d.Specification, searcher)
		default:
			return NotFound[T]()
		}
	})
}

func searchSpecification[T any](spec ast.SubprogramSpecification, searcher Searcher[T]) SearchResult[T] {
	switch s := spec.(type) {
	case *ast.ProcedureSpecification:
		return searchInterfaceList(s.ParameterList, searcher)
	case *ast.FunctionSpecification:
		if r := searchInterfaceList(s.ParameterList, searcher); r.IsFound() {
			return r
		}
		return searchSelectedName(&s.ReturnType, searcher)
	default:
		return NotFound[T]()
	}
}
