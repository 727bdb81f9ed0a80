// Package ast defines the abstract syntax tree produced by the parser and
// annotated in place by the resolver (spec §3).
//
// Where the original C implementation threads intrusive `next` pointers
// through parameters, statements, record entries and the like, BSLC
// follows the teacher's convention (pkg/ast in the DWScript front-end) of
// holding ordered children in slices owned by the parent node — the
// "parse reversed, then invert" idiom becomes a plain append.
package ast

import "github.com/garfr/bsl/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// File is the root of a parsed, and eventually resolved, compilation unit.
type File struct {
	Toplevels []Toplevel
}

func (f *File) Pos() token.Position {
	if len(f.Toplevels) > 0 {
		return f.Toplevels[0].Pos()
	}
	return token.Position{Line: 1, Col: 1}
}

// ============================================================================
// Types
// ============================================================================

// Type is the sum type described in spec §3. After resolution no *NamedType
// survives anywhere reachable from the annotated AST (spec §3 invariant).
type Type interface {
	Node
	typeNode()
}

// F32Type, F64Type and VoidType are the builtin scalar/void types. They are
// singletons (see Builtin* vars below) so identity comparison works the
// same way it does for records.
type F32Type struct{ P token.Position }
type F64Type struct{ P token.Position }
type VoidType struct{ P token.Position }

func (t *F32Type) Pos() token.Position  { return t.P }
func (t *F64Type) Pos() token.Position  { return t.P }
func (t *VoidType) Pos() token.Position { return t.P }
func (*F32Type) typeNode()              {}
func (*F64Type) typeNode()              {}
func (*VoidType) typeNode()             {}

// Builtin are the canonical scalar/void type values; the parser and
// resolver always reference these rather than allocating fresh ones, so
// compareTypes can treat them uniformly with the generic struct-kind
// switch instead of needing special-cased identity rules for scalars.
var (
	BuiltinF32  = &F32Type{}
	BuiltinF64  = &F64Type{}
	BuiltinVoid = &VoidType{}
)

// VectorType is a fixed-size vector of 1-4 scalar elements (spec §3).
type VectorType struct {
	P    token.Position
	Elem Type
	Size int
}

func (t *VectorType) Pos() token.Position { return t.P }
func (*VectorType) typeNode()             {}

// NamedType is an unresolved reference to a user record type by name;
// the builtin keywords f32/f64/void are mapped to the Builtin* values at
// parse time and never become a NamedType. resolveType replaces every
// reachable NamedType with a concrete Type (spec §4.3).
type NamedType struct {
	P    token.Position
	Name string
}

func (t *NamedType) Pos() token.Position { return t.P }
func (*NamedType) typeNode()             {}

// ProcType is the type of a procedure: a return type plus ordered
// parameter types.
type ProcType struct {
	P      token.Position
	Return Type
	Params []Type
}

func (t *ProcType) Pos() token.Position { return t.P }
func (*ProcType) typeNode()             {}

// RecordType is the type of a record declaration. Two RecordTypes compare
// equal only when they are the same object (spec §4.3 "nominal" equality);
// there is exactly one RecordType per RecordDecl, constructed during
// resolver pass 1.
type RecordType struct {
	P       token.Position
	Name    string
	Entries []*RecordEntry
	Decl    *RecordDecl
}

func (t *RecordType) Pos() token.Position { return t.P }
func (*RecordType) typeNode()             {}

// Entry finds a field by name, or returns nil.
func (t *RecordType) Entry(name string) *RecordEntry {
	for _, e := range t.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// ============================================================================
// Record members
// ============================================================================

// EntryKind classifies a record field's binding, per spec §3.
type EntryKind int

const (
	EntryNormal EntryKind = iota
	EntryInput
	EntryOutput
	EntryBuiltin
)

// BuiltinTag is drawn from the closed set of builtin semantics a record
// field can carry (currently just clip position, spec §3/§8).
type BuiltinTag int

const (
	NoBuiltin BuiltinTag = iota
	BuiltinClipPosition
)

// RecordEntry is one field of a record declaration.
type RecordEntry struct {
	P       token.Position
	Kind    EntryKind
	Name    string
	Type    Type
	Binding int        // binding index for EntryInput/EntryOutput
	Builtin BuiltinTag // set for EntryBuiltin
}

func (e *RecordEntry) Pos() token.Position { return e.P }

// ============================================================================
// Expressions
// ============================================================================

// Expr is the sum type of spec §3. Every concrete Expr carries a Typ field
// set to nil until the resolver runs; after a successful resolve, Typ is
// non-nil and never the NamedType variant (spec §8 "resolution
// completeness").
type Expr interface {
	Node
	exprNode()
	GetType() Type
	SetType(Type)
}

type exprBase struct {
	P   token.Position
	Typ Type
}

func (e *exprBase) Pos() token.Position { return e.P }
func (e *exprBase) GetType() Type       { return e.Typ }
func (e *exprBase) SetType(t Type)      { e.Typ = t }
func (*exprBase) exprNode()             {}

// VarExpr references a variable or parameter by name.
type VarExpr struct {
	exprBase
	Name  string
	Entry *VarEntry // set by the resolver
}

// NumExpr is a numeric literal. Per spec §4.3, its resolved type is always
// F32 regardless of whether the literal was written as an integer or a
// float — there is no distinct integer type at the expression level.
type NumExpr struct {
	exprBase
	Value token.Number
}

// RecordExpr constructs a record value: `record Name .field = expr, … end`.
type RecordExpr struct {
	exprBase
	Name    string
	Members []*RecordExprMember
	Entry   *RecordType // set by the resolver
}

// RecordExprMember is one `.field = expr` clause inside a RecordExpr.
type RecordExprMember struct {
	P     token.Position
	Name  string
	Value Expr
	Entry *RecordEntry // set by the resolver
}

func (m *RecordExprMember) Pos() token.Position { return m.P }

// MemberExpr is `expr.field`.
type MemberExpr struct {
	exprBase
	Target Expr
	Name   string
	Entry  *RecordEntry // set by the resolver
}

// VectorExpr is a `{ e1, e2, … }` vector literal.
type VectorExpr struct {
	exprBase
	Elems []Expr
}

// BinOp identifies a binary arithmetic operator.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
)

func (op BinOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	default:
		return "?"
	}
}

// BinaryExpr is `lhs op rhs`.
type BinaryExpr struct {
	exprBase
	Op       BinOp
	LHS, RHS Expr
}

// ============================================================================
// Statements
// ============================================================================

// Stmt is the sum type of spec §3.
type Stmt interface {
	Node
	stmtNode()
}

// VarStmt is `var name [: Type] = expr`.
type VarStmt struct {
	P     token.Position
	Name  string
	Type  Type // nil until declared or inferred
	Value Expr
	Entry *VarEntry // set by the resolver
}

func (s *VarStmt) Pos() token.Position { return s.P }
func (*VarStmt) stmtNode()             {}

// ReturnStmt is `return expr`.
type ReturnStmt struct {
	P     token.Position
	Value Expr
}

func (s *ReturnStmt) Pos() token.Position { return s.P }
func (*ReturnStmt) stmtNode()             {}

// ============================================================================
// Toplevels
// ============================================================================

// Toplevel is the sum type of spec §3: a record or a procedure declaration.
type Toplevel interface {
	Node
	toplevelNode()
}

// RecordDecl is `record Name … end`.
type RecordDecl struct {
	P       token.Position
	Name    string
	Entries []*RecordEntry
	Type    *RecordType // constructed during resolver pass 1
}

func (d *RecordDecl) Pos() token.Position { return d.P }
func (*RecordDecl) toplevelNode()         {}

// EntryPoint is the bitmask of shader stages a procedure is exposed under
// (spec §3/§8).
type EntryPoint uint8

const (
	EntryPointVertex EntryPoint = 1 << iota
	EntryPointFragment
)

// Has reports whether stage is set in the mask.
func (ep EntryPoint) Has(stage EntryPoint) bool { return ep&stage != 0 }

// Param is one procedure parameter.
type Param struct {
	P    token.Position
	Name string
	Type Type
}

func (p *Param) Pos() token.Position { return p.P }

// ProcDecl is `proc Name(params) Type stmt* end`.
type ProcDecl struct {
	P          token.Position
	Name       string
	Params     []*Param
	ReturnType Type
	Body       []Stmt
	EntryPoint EntryPoint
	Entry      *VarEntry // set by the resolver
	Type       *ProcType // constructed during resolver pass 2
}

func (d *ProcDecl) Pos() token.Position { return d.P }
func (*ProcDecl) toplevelNode()         {}

// ============================================================================
// Scope
// ============================================================================

// VarEntry is a name binding in a Scope: a variable, parameter, procedure
// or record name (spec §3). Record carries a back-pointer to the defining
// RecordDecl when the entry names a record type.
type VarEntry struct {
	Name   string
	Type   Type
	Record *RecordDecl
}

// Scope is a parent-linked chain of frames, used for both the value
// namespace (procedures, parameters, variables) and the disjoint type
// namespace (records) — spec §3's "two global scopes on the AST root".
type Scope struct {
	outer   *Scope
	entries map[string]*VarEntry
}

// NewScope creates a new, empty Scope enclosed by outer (nil for a global
// scope).
func NewScope(outer *Scope) *Scope {
	return &Scope{outer: outer, entries: make(map[string]*VarEntry)}
}

// Declare inserts name into this scope's own frame. It returns (nil, false)
// without mutating the scope if name already exists anywhere in the chain
// from this frame outward — matching add_to_scope's "whole chain" collision
// check in the original resolver, not just the innermost frame.
func (s *Scope) Declare(name string) (*VarEntry, bool) {
	if _, ok := s.Lookup(name); ok {
		return nil, false
	}
	entry := &VarEntry{Name: name}
	s.entries[name] = entry
	return entry, true
}

// Lookup walks from this scope outward, returning the first match.
func (s *Scope) Lookup(name string) (*VarEntry, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if e, ok := sc.entries[name]; ok {
			return e, true
		}
	}
	return nil, false
}
