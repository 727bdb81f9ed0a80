// Package resolver implements BSL's two-pass name and type resolution
// (spec §4.3): pass one registers every toplevel name into the value or
// type scope, pass two walks procedure bodies annotating every
// expression's Type and checking the binary-arithmetic, member-access,
// record-construction and return-type rules.
//
// Like internal/parser, a resolve function returns false the moment it
// hits a problem; the diag.Result already carries the message.
package resolver

import (
	"github.com/garfr/bsl/internal/ast"
	"github.com/garfr/bsl/internal/diag"
	"github.com/garfr/bsl/internal/token"
)

// Resolver holds the two global scopes that live for the duration of a
// single file's resolution.
type Resolver struct {
	result    *diag.Result
	values    *ast.Scope
	typeScope *ast.Scope
}

// New creates a Resolver that writes diagnostics to result.
func New(result *diag.Result) *Resolver {
	return &Resolver{
		result:    result,
		values:    ast.NewScope(nil),
		typeScope: ast.NewScope(nil),
	}
}

// Resolve runs both passes over file. It returns false on the first
// failure, matching resolve_names' fail-fast contract.
func (r *Resolver) Resolve(file *ast.File) bool {
	for _, top := range file.Toplevels {
		if !r.registerToplevel(top) {
			return false
		}
	}

	for _, top := range file.Toplevels {
		proc, ok := top.(*ast.ProcDecl)
		if !ok {
			continue
		}
		if !r.resolveProc(proc) {
			return false
		}
	}

	return true
}

func (r *Resolver) registerToplevel(top ast.Toplevel) bool {
	switch t := top.(type) {
	case *ast.ProcDecl:
		entry, ok := r.values.Declare(t.Name)
		if !ok {
			r.errorAt(t.Pos(), "redeclaration of toplevel '%s'", t.Name)
			return false
		}
		t.Entry = entry
	case *ast.RecordDecl:
		entry, ok := r.typeScope.Declare(t.Name)
		if !ok {
			r.errorAt(t.Pos(), "redeclaration of record type '%s'", t.Name)
			return false
		}
		recType := &ast.RecordType{P: t.Pos(), Name: t.Name, Entries: t.Entries, Decl: t}
		entry.Type = recType
		entry.Record = t
		t.Type = recType
	}
	return true
}

func (r *Resolver) resolveProc(proc *ast.ProcDecl) bool {
	scope := ast.NewScope(r.values)

	retType, ok := r.resolveType(proc.ReturnType)
	if !ok {
		return false
	}
	proc.ReturnType = retType

	for _, param := range proc.Params {
		entry, ok := scope.Declare(param.Name)
		if !ok {
			r.errorAt(param.Pos(), "function parameter '%s' shadows variable", param.Name)
			return false
		}

		paramType, ok := r.resolveType(param.Type)
		if !ok {
			return false
		}
		param.Type = paramType
		entry.Type = param.Type
	}

	paramTypes := make([]ast.Type, len(proc.Params))
	for i, param := range proc.Params {
		paramTypes[i] = param.Type
	}
	procType := &ast.ProcType{P: proc.Pos(), Return: proc.ReturnType, Params: paramTypes}
	proc.Type = procType
	proc.Entry.Type = procType

	didReturn := false
	for _, stmt := range proc.Body {
		retExprType, ok := r.resolveStatement(scope, stmt)
		if !ok {
			return false
		}
		if retExprType != nil {
			if !r.compareTypes(stmt.Pos(), retExprType, proc.ReturnType) {
				r.errorAt(stmt.Pos(), "incompatible return type")
				return false
			}
			didReturn = true
		}
	}

	if _, isVoid := proc.ReturnType.(*ast.VoidType); !isVoid && !didReturn {
		r.errorAt(proc.Pos(), "non-void function must return")
		return false
	}

	return true
}

// resolveStatement resolves stmt and, for a return statement that carries
// a value, reports that value's resolved type so the caller can check it
// against the enclosing procedure's declared return type.
func (r *Resolver) resolveStatement(scope *ast.Scope, stmt ast.Stmt) (ast.Type, bool) {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		entry, ok := scope.Declare(s.Name)
		if !ok {
			r.errorAt(s.Pos(), "redeclaration of variable '%s'", s.Name)
			return nil, false
		}
		s.Entry = entry

		if !r.resolveExpr(scope, s.Value) {
			return nil, false
		}

		if s.Type != nil {
			declType, ok := r.resolveType(s.Type)
			if !ok {
				return nil, false
			}
			s.Type = declType
			if !r.compareTypes(s.Value.Pos(), s.Type, s.Value.GetType()) {
				return nil, false
			}
		} else {
			s.Type = s.Value.GetType()
		}

		entry.Type = s.Type
		return nil, true

	case *ast.ReturnStmt:
		if s.Value == nil {
			return nil, true
		}
		if !r.resolveExpr(scope, s.Value) {
			return nil, false
		}
		return s.Value.GetType(), true

	default:
		return nil, true
	}
}

func (r *Resolver) resolveExpr(scope *ast.Scope, expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		return r.resolveBinaryExpr(scope, e)

	case *ast.MemberExpr:
		if !r.resolveExpr(scope, e.Target) {
			return false
		}
		rec, ok := e.Target.GetType().(*ast.RecordType)
		if !ok {
			r.errorAt(e.Pos(), "left hand side must be a record type")
			return false
		}
		entry := rec.Entry(e.Name)
		if entry == nil {
			r.errorAt(e.Pos(), "record type '%s' does not have a member '%s'", rec.Name, e.Name)
			return false
		}
		e.Entry = entry
		e.SetType(entry.Type)
		return true

	case *ast.NumExpr:
		e.SetType(ast.BuiltinF32)
		return true

	case *ast.VarExpr:
		entry, ok := scope.Lookup(e.Name)
		if !ok {
			r.errorAt(e.Pos(), "variable '%s' not in scope", e.Name)
			return false
		}
		e.Entry = entry
		e.SetType(entry.Type)
		return true

	case *ast.VectorExpr:
		return r.resolveVectorExpr(scope, e)

	case *ast.RecordExpr:
		return r.resolveRecordExpr(scope, e)

	default:
		return true
	}
}

func (r *Resolver) resolveBinaryExpr(scope *ast.Scope, e *ast.BinaryExpr) bool {
	if !r.resolveExpr(scope, e.LHS) {
		return false
	}
	if !r.resolveExpr(scope, e.RHS) {
		return false
	}

	lhsType, rhsType := e.LHS.GetType(), e.RHS.GetType()
	lhsVec, lhsIsVec := lhsType.(*ast.VectorType)
	rhsVec, rhsIsVec := rhsType.(*ast.VectorType)

	switch {
	case isScalar(lhsType) && isScalar(rhsType) && sameScalarKind(lhsType, rhsType):
		e.SetType(lhsType)
		return true

	case lhsIsVec && rhsIsVec:
		if !r.compareTypes(e.Pos(), lhsVec.Elem, rhsVec.Elem) || lhsVec.Size != rhsVec.Size {
			r.errorAt(e.Pos(), "cannot perform arithmetic on vectors of different types or sizes")
			return false
		}
		e.SetType(lhsType)
		return true

	case lhsIsVec:
		if e.Op == ast.BinAdd || e.Op == ast.BinSub {
			r.errorAt(e.Pos(), "cannot perform addition or subtraction on mixed scalar and vector operands")
			return false
		}
		if !r.compareTypes(e.Pos(), lhsVec.Elem, rhsType) {
			r.errorAt(e.Pos(), "cannot perform vector/scalar multiplication on mixed type operands")
			return false
		}
		e.SetType(lhsType)
		return true

	case rhsIsVec:
		if e.Op == ast.BinAdd || e.Op == ast.BinSub {
			r.errorAt(e.Pos(), "cannot perform addition or subtraction on mixed scalar and vector operands")
			return false
		}
		if !r.compareTypes(e.Pos(), rhsVec.Elem, lhsType) {
			r.errorAt(e.Pos(), "cannot perform vector/scalar multiplication on mixed type operands")
			return false
		}
		e.SetType(rhsType)
		return true

	default:
		r.errorAt(e.Pos(), "invalid argument to arithmetic operation")
		return false
	}
}

func (r *Resolver) resolveVectorExpr(scope *ast.Scope, e *ast.VectorExpr) bool {
	if !r.resolveExpr(scope, e.Elems[0]) {
		return false
	}

	firstType := e.Elems[0].GetType()
	size := 0
	if vec, ok := firstType.(*ast.VectorType); ok {
		size += vec.Size
		firstType = vec.Elem
	} else {
		size++
	}

	for _, elem := range e.Elems[1:] {
		if !r.resolveExpr(scope, elem) {
			return false
		}

		elemType := elem.GetType()
		if vec, ok := elemType.(*ast.VectorType); ok {
			size += vec.Size
		} else {
			size++
		}

		if !r.compareTypes(e.Pos(), firstType, elemType) {
			return false
		}
	}

	if size > 4 {
		r.errorAt(e.Pos(), "maximum vector size is 4")
		return false
	}

	e.SetType(&ast.VectorType{P: e.Pos(), Elem: firstType, Size: size})
	return true
}

func (r *Resolver) resolveRecordExpr(scope *ast.Scope, e *ast.RecordExpr) bool {
	entry, ok := r.typeScope.Lookup(e.Name)
	if !ok {
		r.errorAt(e.Pos(), "unknown record type '%s'", e.Name)
		return false
	}
	recType := entry.Type.(*ast.RecordType)
	e.Entry = recType

	for _, member := range e.Members {
		fieldEntry := recType.Entry(member.Name)
		if fieldEntry == nil {
			r.errorAt(member.Pos(), "record type '%s' does not have a member '%s'", e.Name, member.Name)
			return false
		}
		member.Entry = fieldEntry

		if !r.resolveExpr(scope, member.Value) {
			return false
		}

		if !r.compareTypes(member.Pos(), member.Value.GetType(), fieldEntry.Type) {
			return false
		}
	}

	e.SetType(recType)
	return true
}

// compareTypes mirrors compare_types: scalars and vectors compare
// structurally, records compare by identity (spec §4.3).
func (r *Resolver) compareTypes(pos token.Position, t1, t2 ast.Type) bool {
	switch a := t1.(type) {
	case *ast.F32Type:
		if _, ok := t2.(*ast.F32Type); ok {
			return true
		}
	case *ast.F64Type:
		if _, ok := t2.(*ast.F64Type); ok {
			return true
		}
	case *ast.VectorType:
		if b, ok := t2.(*ast.VectorType); ok {
			if !r.compareTypes(pos, a.Elem, b.Elem) {
				return false
			}
			if a.Size != b.Size {
				r.errorAt(pos, "different sized vectors")
				return false
			}
			return true
		}
	case *ast.RecordType:
		if b, ok := t2.(*ast.RecordType); ok {
			if a != b {
				r.errorAt(pos, "incompatible record types '%s' and '%s'", a.Name, b.Name)
				return false
			}
			return true
		}
	}

	r.errorAt(pos, "incompatible types")
	return false
}

// resolveType replaces a *ast.NamedType with the concrete type it names.
// A vector's element type is resolved in place the same way, so no
// NamedType is left in the returned type.
func (r *Resolver) resolveType(t ast.Type) (ast.Type, bool) {
	if vec, ok := t.(*ast.VectorType); ok {
		elem, ok := r.resolveType(vec.Elem)
		if !ok {
			return nil, false
		}
		vec.Elem = elem
		return vec, true
	}

	named, ok := t.(*ast.NamedType)
	if !ok {
		return t, true
	}

	entry, found := r.typeScope.Lookup(named.Name)
	if !found {
		r.errorAt(named.Pos(), "no type '%s' in scope", named.Name)
		return nil, false
	}
	return entry.Type, true
}

func isScalar(t ast.Type) bool {
	switch t.(type) {
	case *ast.F32Type, *ast.F64Type:
		return true
	default:
		return false
	}
}

func sameScalarKind(t1, t2 ast.Type) bool {
	switch t1.(type) {
	case *ast.F32Type:
		_, ok := t2.(*ast.F32Type)
		return ok
	case *ast.F64Type:
		_, ok := t2.(*ast.F64Type)
		return ok
	}
	return false
}

func (r *Resolver) errorAt(pos token.Position, format string, args ...any) {
	r.result.Errorf(pos.Line, pos.Col, format, args...)
}
