package parser

import (
	"testing"

	"github.com/garfr/bsl/internal/ast"
	"github.com/garfr/bsl/internal/diag"
	"github.com/garfr/bsl/internal/lexer"
)

func parseSource(t *testing.T, src string) (*ast.File, *diag.Result) {
	t.Helper()
	result := &diag.Result{}
	lex := lexer.New(src, result)
	p := New(lex, result, nil)
	file, ok := p.ParseFile()
	if !ok {
		t.Fatalf("parse failed: %s", result.String())
	}
	return file, result
}

func TestParseProcedure(t *testing.T) {
	src := `proc add(a: f32, b: f32) f32
	return a + b
	end`

	file, _ := parseSource(t, src)
	if len(file.Toplevels) != 1 {
		t.Fatalf("expected 1 toplevel, got %d", len(file.Toplevels))
	}

	proc, ok := file.Toplevels[0].(*ast.ProcDecl)
	if !ok {
		t.Fatalf("expected *ast.ProcDecl, got %T", file.Toplevels[0])
	}
	if proc.Name != "add" {
		t.Errorf("expected name 'add', got %q", proc.Name)
	}
	if len(proc.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(proc.Params))
	}
	if len(proc.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(proc.Body))
	}

	ret, ok := proc.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected *ast.ReturnStmt, got %T", proc.Body[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr, got %T", ret.Value)
	}
	if bin.Op != ast.BinAdd {
		t.Errorf("expected BinAdd, got %s", bin.Op)
	}
}

func TestParseEntryPointAttribute(t *testing.T) {
	src := `[entry_point(vertex)]
	proc main() void
	end`

	file, _ := parseSource(t, src)
	proc := file.Toplevels[0].(*ast.ProcDecl)
	if !proc.EntryPoint.Has(ast.EntryPointVertex) {
		t.Error("expected EntryPointVertex to be set")
	}
	if proc.EntryPoint.Has(ast.EntryPointFragment) {
		t.Error("did not expect EntryPointFragment to be set")
	}
}

func TestParseMultipleEntryPointAttributes(t *testing.T) {
	src := `[entry_point(vertex)]
	[entry_point(fragment)]
	proc both() void
	end`

	file, _ := parseSource(t, src)
	proc := file.Toplevels[0].(*ast.ProcDecl)
	if !proc.EntryPoint.Has(ast.EntryPointVertex) || !proc.EntryPoint.Has(ast.EntryPointFragment) {
		t.Error("expected both entry points to be set")
	}
}

func TestAttributeBeforeRecordIsRejected(t *testing.T) {
	src := `[entry_point(vertex)]
	record Foo
	x: f32
	end`

	result := &diag.Result{}
	lex := lexer.New(src, result)
	p := New(lex, result, nil)
	_, ok := p.ParseFile()
	if ok {
		t.Fatal("expected parse failure for attribute before record")
	}
	if !result.Failed() {
		t.Fatal("expected a diagnostic")
	}
}

func TestParseRecord(t *testing.T) {
	src := `record VertexOutput
	[builtin(position)] pos: vec4<f32>
	[output(0)] color: vec4<f32>
	end`

	file, _ := parseSource(t, src)
	decl := file.Toplevels[0].(*ast.RecordDecl)
	if decl.Name != "VertexOutput" {
		t.Errorf("expected name VertexOutput, got %q", decl.Name)
	}
	if len(decl.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decl.Entries))
	}
	if decl.Entries[0].Kind != ast.EntryBuiltin || decl.Entries[0].Builtin != ast.BuiltinClipPosition {
		t.Errorf("expected first entry to be builtin position, got %+v", decl.Entries[0])
	}
	if decl.Entries[1].Kind != ast.EntryOutput || decl.Entries[1].Binding != 0 {
		t.Errorf("expected second entry to be output(0), got %+v", decl.Entries[1])
	}
}

func TestParseVectorLiteral(t *testing.T) {
	src := `proc v() vec3<f32>
	return {1.0, 2.0, 3.0}
	end`

	file, _ := parseSource(t, src)
	proc := file.Toplevels[0].(*ast.ProcDecl)
	ret := proc.Body[0].(*ast.ReturnStmt)
	vec, ok := ret.Value.(*ast.VectorExpr)
	if !ok {
		t.Fatalf("expected *ast.VectorExpr, got %T", ret.Value)
	}
	if len(vec.Elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(vec.Elems))
	}
}

func TestParseRecordConstruction(t *testing.T) {
	src := `proc f() Foo
	return record Foo .x = 1.0, .y = 2.0, end
	end`

	file, _ := parseSource(t, src)
	proc := file.Toplevels[0].(*ast.ProcDecl)
	ret := proc.Body[0].(*ast.ReturnStmt)
	rec, ok := ret.Value.(*ast.RecordExpr)
	if !ok {
		t.Fatalf("expected *ast.RecordExpr, got %T", ret.Value)
	}
	if rec.Name != "Foo" || len(rec.Members) != 2 {
		t.Fatalf("unexpected record expr: %+v", rec)
	}
}

func TestParseMemberAccessAndPrecedence(t *testing.T) {
	src := `proc f(v: Foo) f32
	return v.x + v.y * 2.0
	end`

	file, _ := parseSource(t, src)
	proc := file.Toplevels[0].(*ast.ProcDecl)
	ret := proc.Body[0].(*ast.ReturnStmt)
	add, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || add.Op != ast.BinAdd {
		t.Fatalf("expected top-level add, got %+v", ret.Value)
	}
	if _, ok := add.LHS.(*ast.MemberExpr); !ok {
		t.Errorf("expected LHS to be a member expression, got %T", add.LHS)
	}
	mul, ok := add.RHS.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.BinMul {
		t.Fatalf("expected RHS to be a multiplication, got %+v", add.RHS)
	}
}

func TestParseVarStatementWithExplicitType(t *testing.T) {
	src := `proc f() f32
	var x: f32 = 1.0
	return x
	end`

	file, _ := parseSource(t, src)
	proc := file.Toplevels[0].(*ast.ProcDecl)
	varStmt, ok := proc.Body[0].(*ast.VarStmt)
	if !ok {
		t.Fatalf("expected *ast.VarStmt, got %T", proc.Body[0])
	}
	if varStmt.Name != "x" {
		t.Errorf("expected name x, got %q", varStmt.Name)
	}
	if _, ok := varStmt.Type.(*ast.NamedType); ok {
		t.Fatalf("expected f32 to resolve to a builtin type at parse time, got NamedType")
	}
}

func TestUnexpectedEOFReportsDiagnostic(t *testing.T) {
	src := `proc add(a: f32`
	result := &diag.Result{}
	lex := lexer.New(src, result)
	p := New(lex, result, nil)
	if _, ok := p.ParseFile(); ok {
		t.Fatal("expected parse failure")
	}
	if !result.Failed() {
		t.Fatal("expected a diagnostic to be recorded")
	}
}
