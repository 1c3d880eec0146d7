// Package ast defines the VHDL abstract syntax tree consumed by the search
// engine. The tree is produced by internal/syntax, annotated with resolved
// references by internal/resolver, and is read-only from then on. Every node
// is owned by exactly one parent; traversal never needs back-links.
package ast

// DesignatorKind distinguishes the lexical forms a designator can take.
type DesignatorKind int

const (
	DesignatorIdentifier DesignatorKind = iota
	DesignatorOperatorSymbol
	DesignatorCharacter
)

// Designator is the name part of a name occurrence: a plain identifier, an
// operator symbol such as "+", or a character literal.
type Designator struct {
	Kind DesignatorKind
	Name string
}

// SelectedName is a simple or selected (prefix.designator) name occurrence.
// Prefix is nil for a simple name. The designator carries the optional
// resolved reference to its declaration site.
type SelectedName struct {
	Prefix     *WithPos[SelectedName]
	Designator WithPos[WithRef[Designator]]
}

// SubtypeIndication names a type mark, e.g. the "std_logic" in
// "signal s : std_logic". Constraints are not modeled.
type SubtypeIndication struct {
	TypeMark WithPos[SelectedName]
}

// Declaration is the closed set of declarative-part items.
type Declaration interface{ declNode() }

// ObjectClass distinguishes the object kinds sharing ObjectDeclaration.
type ObjectClass int

const (
	ObjectSignal ObjectClass = iota
	ObjectConstant
	ObjectVariable
	ObjectSharedVariable
	ObjectFile
)

// ObjectDeclaration is a signal, constant, variable, shared variable or file
// declaration.
type ObjectDeclaration struct {
	Class             ObjectClass
	Ident             Ident
	SubtypeIndication SubtypeIndication
	Expression        Expression // default value, may be nil
}

// TypeDeclaration declares a named type or subtype; Def holds the variant.
type TypeDeclaration struct {
	Ident Ident
	Def   TypeDefinition
}

// SubprogramBody is a function or procedure body. Only the specification and
// the local declarative part participate in searches.
type SubprogramBody struct {
	Specification SubprogramSpecification
	Declarations  []Declaration
	Statements    []LabeledSequentialStatement
}

// SubprogramDeclaration declares a subprogram without a body.
type SubprogramDeclaration struct {
	Specification SubprogramSpecification
}

// AttributeDeclaration declares an attribute and its type mark.
type AttributeDeclaration struct {
	Ident    Ident
	TypeMark WithPos[SelectedName]
}

// AliasDeclaration declares an alias for an existing name. The subtype
// indication is optional.
type AliasDeclaration struct {
	Designator        Ident
	SubtypeIndication *SubtypeIndication
	Name              WithPos[SelectedName]
}

// ComponentDeclaration declares a component. Its interface lists are kept for
// completeness but are not descended into by searches.
type ComponentDeclaration struct {
	Ident    Ident
	Generics []InterfaceDeclaration
	Ports    []InterfaceDeclaration
}

// UseClause is a use clause appearing in a declarative part.
type UseClause struct {
	Names []WithPos[SelectedName]
}

func (*ObjectDeclaration) declNode()     {}
func (*TypeDeclaration) declNode()       {}
func (*SubprogramBody) declNode()        {}
func (*SubprogramDeclaration) declNode() {}
func (*AttributeDeclaration) declNode()  {}
func (*AliasDeclaration) declNode()      {}
func (*ComponentDeclaration) declNode()  {}
func (*UseClause) declNode()             {}

// TypeDefinition is the closed set of type-declaration variants.
type TypeDefinition interface{ typeDefNode() }

// EnumerationTypeDefinition lists the enumeration literals.
type EnumerationTypeDefinition struct {
	Literals []Ident
}

// IntegerTypeDefinition is an integer or physical range definition. The range
// bounds are not modeled.
type IntegerTypeDefinition struct{}

// ElementDeclaration is one element of a record type.
type ElementDeclaration struct {
	Ident   Ident
	Subtype SubtypeIndication
}

// RecordTypeDefinition is a record type with its element declarations.
type RecordTypeDefinition struct {
	Elements []ElementDeclaration
}

// AccessTypeDefinition is an access type over a subtype indication.
type AccessTypeDefinition struct {
	Subtype SubtypeIndication
}

// ArrayTypeDefinition is an array type; only the element subtype is modeled.
type ArrayTypeDefinition struct {
	Subtype SubtypeIndication
}

// SubtypeDefinition is the definition part of a subtype declaration.
type SubtypeDefinition struct {
	Subtype SubtypeIndication
}

// ProtectedTypeDeclaration lists the subprograms of a protected type.
type ProtectedTypeDeclaration struct {
	Items []*SubprogramDeclaration
}

// ProtectedTypeBody is the body of a protected type.
type ProtectedTypeBody struct {
	Declarations []Declaration
}

func (*EnumerationTypeDefinition) typeDefNode() {}
func (*IntegerTypeDefinition) typeDefNode()     {}
func (*RecordTypeDefinition) typeDefNode()      {}
func (*AccessTypeDefinition) typeDefNode()      {}
func (*ArrayTypeDefinition) typeDefNode()       {}
func (*SubtypeDefinition) typeDefNode()         {}
func (*ProtectedTypeDeclaration) typeDefNode()  {}
func (*ProtectedTypeBody) typeDefNode()         {}

// Mode is the direction of an interface object.
type Mode int

const (
	ModeIn Mode = iota
	ModeOut
	ModeInOut
	ModeBuffer
	ModeLinkage
)

// InterfaceDeclaration is the closed set of generic/port/parameter items.
type InterfaceDeclaration interface{ interfaceNode() }

// InterfaceObjectDeclaration is an interface constant, signal or variable.
type InterfaceObjectDeclaration struct {
	Class             ObjectClass
	Mode              Mode
	Ident             Ident
	SubtypeIndication SubtypeIndication
	Expression        Expression // default value, may be nil
}

// InterfaceSubprogramDeclaration is an interface subprogram (generic
// subprograms in VHDL-2008).
type InterfaceSubprogramDeclaration struct {
	Specification SubprogramSpecification
}

func (*InterfaceObjectDeclaration) interfaceNode()     {}
func (*InterfaceSubprogramDeclaration) interfaceNode() {}

// SubprogramSpecification is either a procedure or a function specification.
type SubprogramSpecification interface{ specificationNode() }

// ProcedureSpecification is the header of a procedure.
type ProcedureSpecification struct {
	Designator    Ident
	ParameterList []InterfaceDeclaration
}

// FunctionSpecification is the header of a function, including its return
// type mark.
type FunctionSpecification struct {
	Designator    Ident
	ParameterList []InterfaceDeclaration
	ReturnType    WithPos[SelectedName]
}

func (*ProcedureSpecification) specificationNode() {}
func (*FunctionSpecification) specificationNode()  {}

// Expression is the closed set of expression forms. Only names inside
// expressions are interesting to searches; everything else is inert.
type Expression interface{ exprNode() }

// NameExpression is a name used as an expression.
type NameExpression struct {
	Name WithPos[SelectedName]
}

// LiteralExpression is a numeric, string, bit-string or character literal.
type LiteralExpression struct {
	Pos  SrcPos
	Text string
}

// BinaryExpression applies an infix operator.
type BinaryExpression struct {
	Left  Expression
	Op    string
	Right Expression
}

// UnaryExpression applies a prefix operator.
type UnaryExpression struct {
	Op      string
	Operand Expression
}

// ParenExpression is a parenthesized expression.
type ParenExpression struct {
	Inner Expression
}

// CallExpression is a function call or indexed name.
type CallExpression struct {
	Name WithPos[SelectedName]
	Args []Expression
}

func (*NameExpression) exprNode()    {}
func (*LiteralExpression) exprNode() {}
func (*BinaryExpression) exprNode()  {}
func (*UnaryExpression) exprNode()   {}
func (*ParenExpression) exprNode()   {}
func (*CallExpression) exprNode()    {}

// LabeledConcurrentStatement is a concurrent statement with its optional
// label.
type LabeledConcurrentStatement struct {
	Label     *Ident
	Statement ConcurrentStatement
}

// ConcurrentStatement is the closed set of concurrent-statement variants.
type ConcurrentStatement interface{ concurrentNode() }

// BlockStatement is a block with its own declarative part and statements.
type BlockStatement struct {
	Declarations []Declaration
	Statements   []LabeledConcurrentStatement
}

// ProcessStatement is a process with sensitivity list, declarative part and
// sequential body.
type ProcessStatement struct {
	SensitivityList []WithPos[SelectedName]
	Declarations    []Declaration
	Statements      []LabeledSequentialStatement
}

// GenerateBody is the shared body form of the generate statements.
type GenerateBody struct {
	Declarations []Declaration
	Statements   []LabeledConcurrentStatement
}

// ForGenerateStatement is a for-generate with its iteration parameter.
type ForGenerateStatement struct {
	Index Ident
	Body  GenerateBody
}

// ConditionalGenerateBody is one branch of an if-generate.
type ConditionalGenerateBody struct {
	Condition Expression
	Body      GenerateBody
}

// IfGenerateStatement is an if-generate with its branches and optional else.
type IfGenerateStatement struct {
	Conditionals []ConditionalGenerateBody
	Else         *GenerateBody
}

// AlternativeGenerateBody is one alternative of a case-generate.
type AlternativeGenerateBody struct {
	Body GenerateBody
}

// CaseGenerateStatement is a case-generate with its alternatives.
type CaseGenerateStatement struct {
	Alternatives []AlternativeGenerateBody
}

// ComponentInstantiationStatement instantiates a component or entity.
// Searches do not descend into it; see the traversal rules.
type ComponentInstantiationStatement struct {
	Unit WithPos[SelectedName]
}

// ConcurrentSignalAssignment is a concurrent signal assignment. Searches do
// not descend into it.
type ConcurrentSignalAssignment struct {
	Target WithPos[SelectedName]
	Rhs    Expression
}

// ConcurrentProcedureCall is a concurrent procedure call. Searches do not
// descend into it.
type ConcurrentProcedureCall struct {
	Call CallExpression
}

func (*BlockStatement) concurrentNode()                  {}
func (*ProcessStatement) concurrentNode()                {}
func (*ForGenerateStatement) concurrentNode()            {}
func (*IfGenerateStatement) concurrentNode()             {}
func (*CaseGenerateStatement) concurrentNode()           {}
func (*ComponentInstantiationStatement) concurrentNode() {}
func (*ConcurrentSignalAssignment) concurrentNode()      {}
func (*ConcurrentProcedureCall) concurrentNode()         {}

// LabeledSequentialStatement is a sequential statement with its optional
// label.
type LabeledSequentialStatement struct {
	Label     *Ident
	Statement SequentialStatement
}

// SequentialStatement is the closed set of sequential-statement variants.
type SequentialStatement interface{ sequentialNode() }

// SignalAssignmentStatement assigns to a signal.
type SignalAssignmentStatement struct {
	Target WithPos[SelectedName]
	Rhs    Expression
}

// VariableAssignmentStatement assigns to a variable.
type VariableAssignmentStatement struct {
	Target WithPos[SelectedName]
	Rhs    Expression
}

// ConditionalStatements is one branch of an if statement.
type ConditionalStatements struct {
	Condition  Expression
	Statements []LabeledSequentialStatement
}

// IfStatement is a sequential if with branches and optional else part.
type IfStatement struct {
	Conditionals []ConditionalStatements
	Else         []LabeledSequentialStatement
}

// ReturnStatement returns from a subprogram; the expression may be nil.
type ReturnStatement struct {
	Expression Expression
}

// WaitStatement waits on the named signals.
type WaitStatement struct {
	SensitivityList []WithPos[SelectedName]
}

// ProcedureCallStatement calls a procedure.
type ProcedureCallStatement struct {
	Call CallExpression
}

// NullStatement is the null statement.
type NullStatement struct{}

func (*SignalAssignmentStatement) sequentialNode()   {}
func (*VariableAssignmentStatement) sequentialNode() {}
func (*IfStatement) sequentialNode()                 {}
func (*ReturnStatement) sequentialNode()             {}
func (*WaitStatement) sequentialNode()               {}
func (*ProcedureCallStatement) sequentialNode()      {}
func (*NullStatement) sequentialNode()               {}

// DesignUnit is the closed set of library units. Every unit carries a source
// identity through its identifier; all descendants belong to that source.
type DesignUnit interface {
	unitNode()
	Source() Source
}

// EntityUnit is an entity declaration.
type EntityUnit struct {
	Ident        Ident
	Generics     []InterfaceDeclaration
	Ports        []InterfaceDeclaration
	Declarations []Declaration
	Statements   []LabeledConcurrentStatement
}

// ArchitectureUnit is an architecture body. EntityName names the entity the
// architecture belongs to.
type ArchitectureUnit struct {
	Ident        Ident
	EntityName   Ident
	Declarations []Declaration
	Statements   []LabeledConcurrentStatement
}

// PackageUnit is a package declaration.
type PackageUnit struct {
	Ident        Ident
	Generics     []InterfaceDeclaration
	Declarations []Declaration
}

// PackageBodyUnit is a package body.
type PackageBodyUnit struct {
	Ident        Ident
	Declarations []Declaration
}

// PackageInstanceUnit is a package instantiation declaration.
type PackageInstanceUnit struct {
	Ident       Ident
	PackageName WithPos[SelectedName]
}

// ConfigurationUnit is a configuration declaration.
type ConfigurationUnit struct {
	Ident      Ident
	EntityName WithPos[SelectedName]
}

func (*EntityUnit) unitNode()          {}
func (*ArchitectureUnit) unitNode()    {}
func (*PackageUnit) unitNode()         {}
func (*PackageBodyUnit) unitNode()     {}
func (*PackageInstanceUnit) unitNode() {}
func (*ConfigurationUnit) unitNode()   {}

// Source returns the document the unit belongs to.
func (u *EntityUnit) Source() Source          { return u.Ident.Pos.Source }
func (u *ArchitectureUnit) Source() Source    { return u.Ident.Pos.Source }
func (u *PackageUnit) Source() Source         { return u.Ident.Pos.Source }
func (u *PackageBodyUnit) Source() Source     { return u.Ident.Pos.Source }
func (u *PackageInstanceUnit) Source() Source { return u.Ident.Pos.Source }
func (u *ConfigurationUnit) Source() Source   { return u.Ident.Pos.Source }

// DesignFile is the ordered list of design units parsed from one document.
type DesignFile struct {
	Units []DesignUnit
}

// SimpleName builds an unresolved simple name occurrence at the given span.
func SimpleName(name string, pos SrcPos) WithPos[SelectedName] {
	return WithPos[SelectedName]{
		Item: SelectedName{
			Designator: WithPos[WithRef[Designator]]{
				Item: WithRef[Designator]{
					Item: Designator{Kind: DesignatorIdentifier, Name: name},
				},
				Pos: pos,
			},
		},
		Pos: pos,
	}
}
