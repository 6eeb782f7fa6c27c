package hir

import (
	"adaptcall/internal/source"
	"adaptcall/internal/symbols"
	"adaptcall/internal/types"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtDef declares a new local ("def tmp").
	StmtDef StmtKind = iota
	// StmtExpr evaluates an expression for effect (a bare call, or a
	// PrimMove/PrimSetMember primitive wrapped as an expression statement).
	StmtExpr
	// StmtReturn returns a value (or nothing, for void procedures).
	StmtReturn
	// StmtFor is a serial for-loop, used by the serial iterator body.
	StmtFor
	// StmtForall is a forall loop, used by a void-returning promoted
	// callee's serial body.
	StmtForall
)

// Stmt is one statement in a Block.
type Stmt struct {
	Kind StmtKind
	Data StmtData
	Span source.Span
}

type StmtData interface{ stmtData() }

// DefData declares a local variable. Flags reuses the ArgFlag bitset: a
// coercion or default-value temporary carries the same coerce_temp/
// expr_temp/maybe_param/insert_auto_destroy/type_variable markers a formal
// would, per spec.md section 5's "temporaries generated inside wrappers
// carry flags ... that later passes read to decide destruction and
// folding."
type DefData struct {
	Name     source.StringID
	SymbolID symbols.ID
	Type     types.ID
	Flags    ArgFlag
}

func (DefData) stmtData() {}

// ExprStmtData wraps a bare expression statement.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// ReturnData is a return statement; Value is nil for a void return.
type ReturnData struct {
	Value *Expr
}

func (ReturnData) stmtData() {}

// LoopIndex is one index variable bound by a for/forall loop header; a
// promoted 1-tuple collapses to a single LoopIndex, a zippered promotion
// carries one per promoted position.
type LoopIndex struct {
	Name     source.StringID
	SymbolID symbols.ID
}

// ForData drives a serial for-loop over Iter, binding Index per iteration.
type ForData struct {
	Index    []LoopIndex
	Iter     *Expr
	Body     *Block
	Zippered bool
}

func (ForData) stmtData() {}

// ForallData drives a forall loop, used only by a void-returning promoted
// callee's serial wrapper.
type ForallData struct {
	Index    []LoopIndex
	Iter     *Expr
	Body     *Block
	Zippered bool
}

func (ForallData) stmtData() {}

// Block is an ordered sequence of statements.
type Block struct {
	Stmts []Stmt
	Span  source.Span
}

func NewBlock() *Block { return &Block{} }

func (b *Block) Append(s Stmt) { b.Stmts = append(b.Stmts, s) }

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	out := &Block{Span: b.Span, Stmts: make([]Stmt, len(b.Stmts))}
	for i := range b.Stmts {
		out.Stmts[i] = cloneStmt(b.Stmts[i])
	}
	return out
}

func cloneStmt(s Stmt) Stmt {
	out := s
	switch d := s.Data.(type) {
	case DefData:
		out.Data = d
	case ExprStmtData:
		out.Data = ExprStmtData{Expr: cloneExpr(d.Expr)}
	case ReturnData:
		out.Data = ReturnData{Value: cloneExpr(d.Value)}
	case ForData:
		out.Data = ForData{Index: d.Index, Iter: cloneExpr(d.Iter), Body: cloneBlock(d.Body), Zippered: d.Zippered}
	case ForallData:
		out.Data = ForallData{Index: d.Index, Iter: cloneExpr(d.Iter), Body: cloneBlock(d.Body), Zippered: d.Zippered}
	default:
		out.Data = s.Data
	}
	return out
}

// CloneBlock is the exported form of cloneBlock.
func CloneBlock(b *Block) *Block { return cloneBlock(b) }

// Def appends a declaration statement and returns a VarRef to it -
// the "def tmp" half of spec.md's "def tmp; move tmp, expr" idiom.
func (b *Block) Def(name source.StringID, sym symbols.ID, ty types.ID) *Expr {
	return b.DefFlagged(name, sym, ty, 0)
}

// DefFlagged is Def with explicit temporary flags, e.g. ArgCoerceTemp for a
// coercion step's temp or ArgExprTemp|ArgMaybeParam for a default-value
// temp.
func (b *Block) DefFlagged(name source.StringID, sym symbols.ID, ty types.ID, flags ArgFlag) *Expr {
	b.Append(Stmt{Kind: StmtDef, Data: DefData{Name: name, SymbolID: sym, Type: ty, Flags: flags}})
	return VarRef(name, sym, ty)
}

// Move appends "move target, value" as an expression statement wrapping a
// PrimMove primitive.
func (b *Block) Move(target, value *Expr) {
	b.Append(Stmt{Kind: StmtExpr, Data: ExprStmtData{Expr: Prim(PrimMove, target.Type, target, value)}})
}

// ExprStmt appends a bare expression statement (a call, typically).
func (b *Block) ExprStmt(e *Expr) {
	b.Append(Stmt{Kind: StmtExpr, Data: ExprStmtData{Expr: e}})
}

// Return appends a return statement; pass nil for a void return.
func (b *Block) Return(v *Expr) {
	b.Append(Stmt{Kind: StmtReturn, Data: ReturnData{Value: v}})
}

// BuildForLoop returns a serial for-loop statement, grounded in spec.md section 6's
// buildForLoop AST builder.
func BuildForLoop(index []LoopIndex, iter *Expr, body *Block, zippered bool) Stmt {
	return Stmt{Kind: StmtFor, Data: ForData{Index: index, Iter: iter, Body: body, Zippered: zippered}}
}

// BuildForallLoopStmt returns a forall loop statement, grounded in spec.md section 6's
// buildForallLoopStmt AST builder.
func BuildForallLoopStmt(index []LoopIndex, iter *Expr, body *Block, zippered bool) Stmt {
	return Stmt{Kind: StmtForall, Data: ForallData{Index: index, Iter: iter, Body: body, Zippered: zippered}}
}
