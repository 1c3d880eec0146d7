package resolver_test

import (
	"testing"

	"github.com/robert-at-pretension-io/vhdl-nav/internal/ast"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/resolver"
	"github.com/robert-at-pretension-io/vhdl-nav/internal/syntax"
)

func parse(t *testing.T, name, src string) *ast.DesignFile {
	t.Helper()
	file, err := syntax.New().Parse(name, []byte(src))
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return file
}

// reference extracts the back-pointer of a simple name occurrence.
func reference(t *testing.T, name ast.WithPos[ast.SelectedName]) *ast.SrcPos {
	t.Helper()
	return name.Item.Designator.Item.Reference
}

func TestResolveSignalInProcess(t *testing.T) {
	file := parse(t, "a.vhd", `architecture rtl of top is
  signal value : natural;
begin
  p : process (value)
  begin
    value <= value;
  end process;
end architecture;
`)
	resolver.Resolve(file)

	arch := file.Units[0].(*ast.ArchitectureUnit)
	sig := arch.Declarations[0].(*ast.ObjectDeclaration)
	proc := arch.Statements[0].Statement.(*ast.ProcessStatement)

	sens := reference(t, proc.SensitivityList[0])
	if sens == nil || *sens != sig.Ident.Pos {
		t.Fatalf("sensitivity reference %v, want %v", sens, sig.Ident.Pos)
	}

	assign := proc.Statements[0].Statement.(*ast.SignalAssignmentStatement)
	if ref := reference(t, assign.Target); ref == nil || *ref != sig.Ident.Pos {
		t.Fatalf("target reference %v, want %v", ref, sig.Ident.Pos)
	}
	rhs := assign.Rhs.(*ast.NameExpression)
	if ref := reference(t, rhs.Name); ref == nil || *ref != sig.Ident.Pos {
		t.Fatalf("rhs reference %v, want %v", ref, sig.Ident.Pos)
	}
}

func TestResolveArchitectureSeesEntityInterface(t *testing.T) {
	entitySrc := parse(t, "e.vhd", `entity adder is
  generic (width : natural);
  port (a : in natural; sum : out natural);
end entity;
`)
	archSrc := parse(t, "a.vhd", `architecture rtl of adder is
begin
  sum <= a + width;
end architecture;
`)
	resolver.Resolve(entitySrc, archSrc)

	entity := entitySrc.Units[0].(*ast.EntityUnit)
	widthPos := entity.Generics[0].(*ast.InterfaceObjectDeclaration).Ident.Pos
	aPos := entity.Ports[0].(*ast.InterfaceObjectDeclaration).Ident.Pos
	sumPos := entity.Ports[1].(*ast.InterfaceObjectDeclaration).Ident.Pos

	arch := archSrc.Units[0].(*ast.ArchitectureUnit)
	assign := arch.Statements[0].Statement.(*ast.ConcurrentSignalAssignment)

	if ref := reference(t, assign.Target); ref == nil || *ref != sumPos {
		t.Fatalf("sum reference %v, want %v", ref, sumPos)
	}
	bin := assign.Rhs.(*ast.BinaryExpression)
	if ref := reference(t, bin.Left.(*ast.NameExpression).Name); ref == nil || *ref != aPos {
		t.Fatalf("a reference %v, want %v", ref, aPos)
	}
	if ref := reference(t, bin.Right.(*ast.NameExpression).Name); ref == nil || *ref != widthPos {
		t.Fatalf("width reference %v, want %v", ref, widthPos)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	file := parse(t, "a.vhd", `architecture rtl of top is
  signal Clock : bit;
begin
  CLOCK <= clock;
end architecture;
`)
	resolver.Resolve(file)

	arch := file.Units[0].(*ast.ArchitectureUnit)
	sig := arch.Declarations[0].(*ast.ObjectDeclaration)
	assign := arch.Statements[0].Statement.(*ast.ConcurrentSignalAssignment)
	if ref := reference(t, assign.Target); ref == nil || *ref != sig.Ident.Pos {
		t.Fatalf("mixed-case target did not resolve: %v", ref)
	}
	rhs := assign.Rhs.(*ast.NameExpression)
	if ref := reference(t, rhs.Name); ref == nil || *ref != sig.Ident.Pos {
		t.Fatalf("mixed-case rhs did not resolve: %v", ref)
	}
}

func TestResolveInnerShadowsOuter(t *testing.T) {
	file := parse(t, "a.vhd", `architecture rtl of top is
  signal x : bit;
begin
  b : block
    signal x : bit;
  begin
    y <= x;
  end block;
  z <= x;
end architecture;
`)
	resolver.Resolve(file)

	arch := file.Units[0].(*ast.ArchitectureUnit)
	outer := arch.Declarations[0].(*ast.ObjectDeclaration)
	block := arch.Statements[0].Statement.(*ast.BlockStatement)
	inner := block.Declarations[0].(*ast.ObjectDeclaration)

	blockAssign := block.Statements[0].Statement.(*ast.ConcurrentSignalAssignment)
	rhs := blockAssign.Rhs.(*ast.NameExpression)
	if ref := reference(t, rhs.Name); ref == nil || *ref != inner.Ident.Pos {
		t.Fatalf("block x resolved to %v, want inner %v", ref, inner.Ident.Pos)
	}

	outerAssign := arch.Statements[1].Statement.(*ast.ConcurrentSignalAssignment)
	outerRhs := outerAssign.Rhs.(*ast.NameExpression)
	if ref := reference(t, outerRhs.Name); ref == nil || *ref != outer.Ident.Pos {
		t.Fatalf("outer x resolved to %v, want %v", ref, outer.Ident.Pos)
	}
}

func TestResolvePackageMemberThroughSelectedName(t *testing.T) {
	pkg := parse(t, "p.vhd", `package util is
  constant max_depth : natural := 4;
end package;
`)
	arch := parse(t, "a.vhd", `architecture rtl of top is
  signal d : natural;
begin
  d <= util.max_depth;
end architecture;
`)
	resolver.Resolve(pkg, arch)

	constant := pkg.Units[0].(*ast.PackageUnit).Declarations[0].(*ast.ObjectDeclaration)
	a := arch.Units[0].(*ast.ArchitectureUnit)
	assign := a.Statements[0].Statement.(*ast.ConcurrentSignalAssignment)
	rhs := assign.Rhs.(*ast.NameExpression)
	if ref := reference(t, rhs.Name); ref == nil || *ref != constant.Ident.Pos {
		t.Fatalf("selected member resolved to %v, want %v", ref, constant.Ident.Pos)
	}
}

func TestResolveForGenerateIndex(t *testing.T) {
	file := parse(t, "a.vhd", `architecture rtl of top is
begin
  g : for i in 0 to 3 generate
    s <= i;
  end generate;
end architecture;
`)
	resolver.Resolve(file)

	arch := file.Units[0].(*ast.ArchitectureUnit)
	gen := arch.Statements[0].Statement.(*ast.ForGenerateStatement)
	assign := gen.Body.Statements[0].Statement.(*ast.ConcurrentSignalAssignment)
	rhs := assign.Rhs.(*ast.NameExpression)
	if ref := reference(t, rhs.Name); ref == nil || *ref != gen.Index.Pos {
		t.Fatalf("index reference %v, want %v", ref, gen.Index.Pos)
	}
}

func TestResolveSubprogramParameters(t *testing.T) {
	file := parse(t, "p.vhd", `package body math is
  function double(x : natural) return natural is
  begin
    return x + x;
  end function;
end package body;
`)
	resolver.Resolve(file)

	body := file.Units[0].(*ast.PackageBodyUnit)
	fn := body.Declarations[0].(*ast.SubprogramBody)
	spec := fn.Specification.(*ast.FunctionSpecification)
	param := spec.ParameterList[0].(*ast.InterfaceObjectDeclaration)

	ret := fn.Statements[0].Statement.(*ast.ReturnStatement)
	bin := ret.Expression.(*ast.BinaryExpression)
	if ref := reference(t, bin.Left.(*ast.NameExpression).Name); ref == nil || *ref != param.Ident.Pos {
		t.Fatalf("parameter reference %v, want %v", ref, param.Ident.Pos)
	}
}

func TestResolveUnknownNameStaysNil(t *testing.T) {
	file := parse(t, "a.vhd", `architecture rtl of top is
begin
  q <= mystery;
end architecture;
`)
	resolver.Resolve(file)

	arch := file.Units[0].(*ast.ArchitectureUnit)
	assign := arch.Statements[0].Statement.(*ast.ConcurrentSignalAssignment)
	rhs := assign.Rhs.(*ast.NameExpression)
	if ref := reference(t, rhs.Name); ref != nil {
		t.Fatalf("unknown name resolved to %v, want nil", ref)
	}
}

func TestResolveEnumerationLiterals(t *testing.T) {
	file := parse(t, "a.vhd", `architecture rtl of top is
  type state_t is (idle, run);
  signal st : state_t;
begin
  p : process
  begin
    st <= idle;
  end process;
end architecture;
`)
	resolver.Resolve(file)

	arch := file.Units[0].(*ast.ArchitectureUnit)
	typ := arch.Declarations[0].(*ast.TypeDeclaration)
	enum := typ.Def.(*ast.EnumerationTypeDefinition)

	sig := arch.Declarations[1].(*ast.ObjectDeclaration)
	if ref := reference(t, sig.SubtypeIndication.TypeMark); ref == nil || *ref != typ.Ident.Pos {
		t.Fatalf("type mark reference %v, want %v", ref, typ.Ident.Pos)
	}

	proc := arch.Statements[0].Statement.(*ast.ProcessStatement)
	assign := proc.Statements[0].Statement.(*ast.SignalAssignmentStatement)
	rhs := assign.Rhs.(*ast.NameExpression)
	if ref := reference(t, rhs.Name); ref == nil || *ref != enum.Literals[0].Pos {
		t.Fatalf("literal reference %v, want %v", ref, enum.Literals[0].Pos)
	}
}
