package hir

import (
	"adaptcall/internal/source"
	"adaptcall/internal/symbols"
	"adaptcall/internal/types"
)

// ExprKind enumerates expression kinds in the program graph.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprVarRef
	ExprCall
	ExprFieldAccess
	ExprCast
	ExprPrimitive
)

// Expr is one node of an expression tree.
type Expr struct {
	Kind ExprKind
	Type types.ID
	Span source.Span
	Data ExprData
}

type ExprData interface{ exprData() }

// LiteralData holds a constant value.
type LiteralData struct {
	Text string
}

func (LiteralData) exprData() {}

// VarRefData references a symbol by identity (an actual, a formal, or a
// generated temporary).
type VarRefData struct {
	Name     source.StringID
	SymbolID symbols.ID
}

func (VarRefData) exprData() {}

// CallData is a call to a named callee, carrying both the ordered actual
// expressions and - once resolved - the callee's Func.
type CallData struct {
	CalleeName source.StringID
	Callee     *Func
	Args       []*Expr
}

func (CallData) exprData() {}

// FieldAccessData reads a struct/record field (used when a coercion or
// promotion needs to reach into a field rather than call set_member).
type FieldAccessData struct {
	Object    *Expr
	FieldName source.StringID
}

func (FieldAccessData) exprData() {}

// CastData is an explicit conversion inserted by the coercion pipeline.
type CastData struct {
	Value  *Expr
	Target types.ID
}

func (CastData) exprData() {}

// PrimOp enumerates the primitives spec.md section 6 lists as emitted into
// the program graph.
type PrimOp uint8

const (
	PrimMove PrimOp = iota
	PrimReturn
	PrimDeref
	PrimAddrOf
	PrimInit
	PrimInitFields
	PrimSetCID
	PrimSetMember
	PrimTypeof
	PrimYield
	PrimIteratorRecordFieldValueByFormal
)

// PrimitiveData holds a primitive operation's operands. Operand meaning is
// per-op: Move/SetMember take (target, value); Deref/AddrOf/Init/Typeof/
// Yield/Return take a single operand in Args[0];
// IteratorRecordFieldValueByFormal takes the iterator record in Args[0] (the
// fast-follower probes emit it with no formal-name operand).
type PrimitiveData struct {
	Op   PrimOp
	Args []*Expr
}

func (PrimitiveData) exprData() {}

func cloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	out := *e
	switch d := e.Data.(type) {
	case LiteralData:
		out.Data = d
	case VarRefData:
		out.Data = d
	case CallData:
		args := make([]*Expr, len(d.Args))
		for i, a := range d.Args {
			args[i] = cloneExpr(a)
		}
		out.Data = CallData{CalleeName: d.CalleeName, Callee: d.Callee, Args: args}
	case FieldAccessData:
		out.Data = FieldAccessData{Object: cloneExpr(d.Object), FieldName: d.FieldName}
	case CastData:
		out.Data = CastData{Value: cloneExpr(d.Value), Target: d.Target}
	case PrimitiveData:
		args := make([]*Expr, len(d.Args))
		for i, a := range d.Args {
			args[i] = cloneExpr(a)
		}
		out.Data = PrimitiveData{Op: d.Op, Args: args}
	default:
		out.Data = e.Data
	}
	return &out
}

// CloneExpr is the exported form of cloneExpr, used when the adaptation
// layer copies a default expression or an actual's subtree into a new
// wrapper body.
func CloneExpr(e *Expr) *Expr { return cloneExpr(e) }

func VarRef(name source.StringID, sym symbols.ID, ty types.ID) *Expr {
	return &Expr{Kind: ExprVarRef, Type: ty, Data: VarRefData{Name: name, SymbolID: sym}}
}

// CallExpr builds a call expression node. Named distinctly from the Call
// call-site record in call.go, which this package's consumers keep alive
// across the whole adaptation pass while this is a throwaway leaf node.
func CallExpr(calleeName source.StringID, callee *Func, args ...*Expr) *Expr {
	ty := types.NoID
	if callee != nil {
		ty = callee.Result
	}
	return &Expr{Kind: ExprCall, Type: ty, Data: CallData{CalleeName: calleeName, Callee: callee, Args: args}}
}

func Prim(op PrimOp, ty types.ID, args ...*Expr) *Expr {
	return &Expr{Kind: ExprPrimitive, Type: ty, Data: PrimitiveData{Op: op, Args: args}}
}
