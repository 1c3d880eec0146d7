package syntax

import (
	"testing"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
)

const counterSource = `library ieee;
use ieee.std_logic_1164.all;

entity counter is
  generic (
    width : natural := 8
  );
  port (
    clk   : in  std_logic;
    rst   : in  std_logic;
    count : out natural
  );
end entity;

architecture rtl of counter is
  signal value : natural := 0;
begin
  tick : process (clk)
  begin
    if rst = '1' then
      value <= 0;
    end if;
    count <= value;
  end process;
end architecture;
`

func parseTestFile(t *testing.T, src string) *ast.DesignFile {
	t.Helper()
	file, err := New().Parse("counter.vhd", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return file
}

func TestParseEntityShape(t *testing.T) {
	file := parseTestFile(t, counterSource)
	if len(file.Units) != 2 {
		t.Fatalf("expected 2 design units, got %d", len(file.Units))
	}

	entity, ok := file.Units[0].(*ast.EntityUnit)
	if !ok {
		t.Fatalf("first unit is %T, want entity", file.Units[0])
	}
	if entity.Ident.Name != "counter" {
		t.Fatalf("entity name %q, want counter", entity.Ident.Name)
	}
	if len(entity.Generics) != 1 {
		t.Fatalf("expected 1 generic, got %d", len(entity.Generics))
	}
	if len(entity.Ports) != 3 {
		t.Fatalf("expected 3 ports, got %d", len(entity.Ports))
	}

	g := entity.Generics[0].(*ast.InterfaceObjectDeclaration)
	if g.Ident.Name != "width" {
		t.Fatalf("generic name %q, want width", g.Ident.Name)
	}
	if g.Expression == nil {
		t.Fatal("generic default value missing")
	}

	count := entity.Ports[2].(*ast.InterfaceObjectDeclaration)
	if count.Ident.Name != "count" || count.Mode != ast.ModeOut {
		t.Fatalf("third port %q mode %v, want count out", count.Ident.Name, count.Mode)
	}
}

func TestParseEntityIdentSpan(t *testing.T) {
	file := parseTestFile(t, counterSource)
	entity := file.Units[0].(*ast.EntityUnit)

	// "entity counter is" on line 4, "counter" at columns 7..14
	pos := entity.Ident.Pos
	if pos.Source.FileName != "counter.vhd" {
		t.Fatalf("source %q, want counter.vhd", pos.Source.FileName)
	}
	want := ast.Range{
		Start: ast.Position{Line: 4, Column: 7},
		End:   ast.Position{Line: 4, Column: 14},
	}
	if pos.Range != want {
		t.Fatalf("entity ident range %+v, want %+v", pos.Range, want)
	}
}

func TestParseArchitectureProcess(t *testing.T) {
	file := parseTestFile(t, counterSource)
	arch, ok := file.Units[1].(*ast.ArchitectureUnit)
	if !ok {
		t.Fatalf("second unit is %T, want architecture", file.Units[1])
	}
	if arch.Ident.Name != "rtl" || arch.EntityName.Name != "counter" {
		t.Fatalf("architecture %q of %q, want rtl of counter", arch.Ident.Name, arch.EntityName.Name)
	}
	if len(arch.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(arch.Declarations))
	}

	sig := arch.Declarations[0].(*ast.ObjectDeclaration)
	if sig.Class != ast.ObjectSignal || sig.Ident.Name != "value" {
		t.Fatalf("declaration %q class %v, want signal value", sig.Ident.Name, sig.Class)
	}

	if len(arch.Statements) != 1 {
		t.Fatalf("expected 1 concurrent statement, got %d", len(arch.Statements))
	}
	stmt := arch.Statements[0]
	if stmt.Label == nil || stmt.Label.Name != "tick" {
		t.Fatalf("process label %v, want tick", stmt.Label)
	}
	proc, ok := stmt.Statement.(*ast.ProcessStatement)
	if !ok {
		t.Fatalf("statement is %T, want process", stmt.Statement)
	}
	if len(proc.SensitivityList) != 1 {
		t.Fatalf("sensitivity list %v, want one entry", proc.SensitivityList)
	}
	if len(proc.Statements) != 2 {
		t.Fatalf("expected if + assignment in process, got %d statements", len(proc.Statements))
	}

	ifStmt, ok := proc.Statements[0].Statement.(*ast.IfStatement)
	if !ok {
		t.Fatalf("first sequential statement is %T, want if", proc.Statements[0].Statement)
	}
	if len(ifStmt.Conditionals) != 1 {
		t.Fatalf("expected 1 if branch, got %d", len(ifStmt.Conditionals))
	}
	if len(ifStmt.Conditionals[0].Statements) != 1 {
		t.Fatalf("expected 1 statement in if body, got %d", len(ifStmt.Conditionals[0].Statements))
	}

	assignStmt, ok := proc.Statements[1].Statement.(*ast.SignalAssignmentStatement)
	if !ok {
		t.Fatalf("second sequential statement is %T, want signal assignment", proc.Statements[1].Statement)
	}
	if target := simpleNameOf(t, assignStmt.Target); target != "count" {
		t.Fatalf("assignment target %q, want count", target)
	}
	rhs, ok := assignStmt.Rhs.(*ast.NameExpression)
	if !ok {
		t.Fatalf("assignment rhs is %T, want name", assignStmt.Rhs)
	}
	if name := simpleNameOf(t, rhs.Name); name != "value" {
		t.Fatalf("assignment rhs %q, want value", name)
	}
}

func simpleNameOf(t *testing.T, name ast.WithPos[ast.SelectedName]) string {
	t.Helper()
	return name.Item.Designator.Item.Item.Name
}

func TestParsePackageWithTypes(t *testing.T) {
	src := `package types_pkg is
  type state_t is (idle, run, halt);
  type word_t is array (7 downto 0) of bit;
  type pair_t is record
    first  : natural;
    second : natural;
  end record;
  subtype small_t is natural range 0 to 15;
  constant zero : natural := 0;
  function clamp(x : natural) return natural;
end package;

package body types_pkg is
  function clamp(x : natural) return natural is
  begin
    if x > 15 then
      return 15;
    end if;
    return x;
  end function;
end package body;
`
	file := parseTestFile(t, src)
	if len(file.Units) != 2 {
		t.Fatalf("expected package + body, got %d units", len(file.Units))
	}

	pkg := file.Units[0].(*ast.PackageUnit)
	if pkg.Ident.Name != "types_pkg" {
		t.Fatalf("package name %q", pkg.Ident.Name)
	}
	if len(pkg.Declarations) != 6 {
		t.Fatalf("expected 6 declarations, got %d", len(pkg.Declarations))
	}

	state := pkg.Declarations[0].(*ast.TypeDeclaration)
	enum, ok := state.Def.(*ast.EnumerationTypeDefinition)
	if !ok {
		t.Fatalf("state_t definition is %T, want enumeration", state.Def)
	}
	if len(enum.Literals) != 3 || enum.Literals[1].Name != "run" {
		t.Fatalf("enumeration literals %v", enum.Literals)
	}

	word := pkg.Declarations[1].(*ast.TypeDeclaration)
	arr, ok := word.Def.(*ast.ArrayTypeDefinition)
	if !ok {
		t.Fatalf("word_t definition is %T, want array", word.Def)
	}
	if simpleNameOf(t, arr.Subtype.TypeMark) != "bit" {
		t.Fatalf("array element type %q, want bit", simpleNameOf(t, arr.Subtype.TypeMark))
	}

	pair := pkg.Declarations[2].(*ast.TypeDeclaration)
	rec, ok := pair.Def.(*ast.RecordTypeDefinition)
	if !ok {
		t.Fatalf("pair_t definition is %T, want record", pair.Def)
	}
	if len(rec.Elements) != 2 || rec.Elements[1].Ident.Name != "second" {
		t.Fatalf("record elements %v", rec.Elements)
	}

	small := pkg.Declarations[3].(*ast.TypeDeclaration)
	if _, ok := small.Def.(*ast.SubtypeDefinition); !ok {
		t.Fatalf("small_t definition is %T, want subtype", small.Def)
	}

	if _, ok := pkg.Declarations[4].(*ast.ObjectDeclaration); !ok {
		t.Fatalf("fifth declaration is %T, want constant", pkg.Declarations[4])
	}
	if _, ok := pkg.Declarations[5].(*ast.SubprogramDeclaration); !ok {
		t.Fatalf("sixth declaration is %T, want subprogram declaration", pkg.Declarations[5])
	}

	body := file.Units[1].(*ast.PackageBodyUnit)
	if len(body.Declarations) != 1 {
		t.Fatalf("expected 1 body declaration, got %d", len(body.Declarations))
	}
	fn := body.Declarations[0].(*ast.SubprogramBody)
	spec := fn.Specification.(*ast.FunctionSpecification)
	if spec.Designator.Name != "clamp" || len(spec.ParameterList) != 1 {
		t.Fatalf("clamp specification %+v", spec)
	}
	if len(fn.Statements) != 2 {
		t.Fatalf("expected if + return in body, got %d statements", len(fn.Statements))
	}
}

func TestParseGenerates(t *testing.T) {
	src := `architecture gen of top is
  signal d : bit;
begin
  g1 : for i in 0 to 3 generate
    s <= d;
  end generate;
  g2 : if width > 1 generate
    s <= d;
  else generate
    s <= d;
  end generate;
  g3 : case mode generate
    when 0 =>
      s <= d;
    when others =>
      s <= d;
  end generate;
  b1 : block
    signal local : bit;
  begin
    s <= local;
  end block;
end architecture;
`
	file := parseTestFile(t, src)
	arch := file.Units[0].(*ast.ArchitectureUnit)
	if len(arch.Statements) != 4 {
		t.Fatalf("expected 4 concurrent statements, got %d", len(arch.Statements))
	}

	forGen, ok := arch.Statements[0].Statement.(*ast.ForGenerateStatement)
	if !ok {
		t.Fatalf("g1 is %T, want for-generate", arch.Statements[0].Statement)
	}
	if forGen.Index.Name != "i" || len(forGen.Body.Statements) != 1 {
		t.Fatalf("for-generate %+v", forGen)
	}

	ifGen, ok := arch.Statements[1].Statement.(*ast.IfGenerateStatement)
	if !ok {
		t.Fatalf("g2 is %T, want if-generate", arch.Statements[1].Statement)
	}
	if len(ifGen.Conditionals) != 1 || ifGen.Else == nil {
		t.Fatalf("if-generate branches %+v", ifGen)
	}

	caseGen, ok := arch.Statements[2].Statement.(*ast.CaseGenerateStatement)
	if !ok {
		t.Fatalf("g3 is %T, want case-generate", arch.Statements[2].Statement)
	}
	if len(caseGen.Alternatives) != 2 {
		t.Fatalf("case-generate alternatives %d, want 2", len(caseGen.Alternatives))
	}

	block, ok := arch.Statements[3].Statement.(*ast.BlockStatement)
	if !ok {
		t.Fatalf("b1 is %T, want block", arch.Statements[3].Statement)
	}
	if len(block.Declarations) != 1 || len(block.Statements) != 1 {
		t.Fatalf("block shape %+v", block)
	}
}

func TestParseProtectedType(t *testing.T) {
	src := `package sync_pkg is
  type counter_prot is protected
    procedure increment;
    impure function value return natural;
  end protected;
end package;

package body sync_pkg is
  type counter_prot is protected body
    variable count : natural := 0;
    procedure increment is
    begin
      count := count + 1;
    end procedure;
  end protected body;
end package body;
`
	file := parseTestFile(t, src)
	pkg := file.Units[0].(*ast.PackageUnit)
	prot := pkg.Declarations[0].(*ast.TypeDeclaration)
	decl, ok := prot.Def.(*ast.ProtectedTypeDeclaration)
	if !ok {
		t.Fatalf("definition is %T, want protected declaration", prot.Def)
	}
	if len(decl.Items) != 2 {
		t.Fatalf("protected items %d, want 2", len(decl.Items))
	}

	body := file.Units[1].(*ast.PackageBodyUnit)
	protBody := body.Declarations[0].(*ast.TypeDeclaration)
	bodyDef, ok := protBody.Def.(*ast.ProtectedTypeBody)
	if !ok {
		t.Fatalf("body definition is %T, want protected body", protBody.Def)
	}
	if len(bodyDef.Declarations) != 2 {
		t.Fatalf("protected body declarations %d, want 2", len(bodyDef.Declarations))
	}
}

func TestParseSelectedNames(t *testing.T) {
	src := `package instovers is
end package;

package inst is new work.generic_pkg;
`
	file := parseTestFile(t, src)
	if len(file.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(file.Units))
	}
	inst := file.Units[1].(*ast.PackageInstanceUnit)
	if inst.Ident.Name != "inst" {
		t.Fatalf("instance name %q", inst.Ident.Name)
	}
	name := inst.PackageName
	if name.Item.Prefix == nil {
		t.Fatal("expected selected name work.generic_pkg")
	}
	if name.Item.Designator.Item.Item.Name != "generic_pkg" {
		t.Fatalf("suffix %q, want generic_pkg", name.Item.Designator.Item.Item.Name)
	}
	if simpleNameOf(t, *name.Item.Prefix) != "work" {
		t.Fatalf("prefix %q, want work", simpleNameOf(t, *name.Item.Prefix))
	}
}

func TestParserToleratesUnknownConstructs(t *testing.T) {
	src := `entity weird is
end entity;

architecture rtl of weird is
begin
  assert false report "boom" severity failure;
  u0 : entity work.child port map (a => b);
  with sel select q <= a when "00", b when others;
  ok : process
  begin
    wait on tick;
  end process;
end architecture;
`
	file := parseTestFile(t, src)
	if len(file.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(file.Units))
	}
	arch := file.Units[1].(*ast.ArchitectureUnit)

	var proc *ast.ProcessStatement
	for _, stmt := range arch.Statements {
		if ps, ok := stmt.Statement.(*ast.ProcessStatement); ok {
			proc = ps
		}
	}
	if proc == nil {
		t.Fatal("process after unknown constructs was lost")
	}
	wait, ok := proc.Statements[0].Statement.(*ast.WaitStatement)
	if !ok {
		t.Fatalf("statement is %T, want wait", proc.Statements[0].Statement)
	}
	if len(wait.SensitivityList) != 1 || simpleNameOf(t, wait.SensitivityList[0]) != "tick" {
		t.Fatalf("wait sensitivity %v", wait.SensitivityList)
	}
}
