// Package adapt synthesizes wrapper procedures that reconcile a call site
// with its chosen callee: default-argument supply, actual reordering, type
// coercion, and scalar-to-collection promotion. It is invoked once a callee
// has already been picked by the surrounding resolution pass; it never
// itself searches for a callee.
package adapt

import (
	"adaptcall/internal/hir"
	"adaptcall/internal/source"
	"adaptcall/internal/symbols"
	"adaptcall/internal/types"
)

// TypePredicates is the type-relation surface this layer consumes from the
// surrounding resolver; concretely satisfied by *types.Interner.
type TypePredicates interface {
	CanCoerce(actual, formal types.ID) bool
	CanDispatch(actual, formal types.ID) (ok, promotes bool)
	IsDispatchParent(parent, child types.ID) bool
	IsRecord(id types.ID) bool
	IsUnion(id types.ID) bool
	IsRecordWrappedType(id types.ID) bool
	IsSyncType(id types.ID) bool
	IsSingleType(id types.ID) bool
	IsString(id types.ID) bool
	IsStringC(id types.ID) bool
	IsReference(id types.ID) bool
	IsTupleReference(id types.ID) bool
	MakeRefType(id types.ID) types.ID
	Get(id types.ID) *types.Type
}

// IntentResolver maps a formal's type to its effective calling intent when
// the declared intent is blank.
type IntentResolver interface {
	BlankIntentForType(t types.ID) hir.Intent
	ConcreteIntentForArg(p *hir.Param) hir.Intent
}

// Builders constructs the AST fragments this layer has no business knowing
// how to print: casts and the two loop shapes promotion needs.
type Builders interface {
	CreateCast(expr *hir.Expr, target types.ID) *hir.Expr
	BuildForLoop(index []hir.LoopIndex, iter *hir.Expr, body *hir.Block, zippered bool) hir.Stmt
	BuildForallLoopStmt(indices []hir.LoopIndex, iter *hir.Expr, body *hir.Block, zippered bool) hir.Stmt
}

// Resolver performs the body-normalization and symbol-resolution passes
// that run after this layer mutates or emits a procedure.
type Resolver interface {
	Normalize(fn *hir.Func)
	ResolveFormals(fn *hir.Func)
	ResolveCall(call *hir.Expr) error
	ResolveCallAndCallee(call *hir.Expr, checkOnly bool) error
}

// Lookup is the scope/field/allocation surface this layer reads but does
// not own.
type Lookup interface {
	VisibilityBlock(expr *hir.Expr) symbols.VisibilityBlock
	GetField(owner symbols.ID, name source.StringID, recursive bool) (symbols.ID, bool)
}

// Sentinels names the well-known symbols and types this layer splices into
// generated code without constructing them itself.
type Sentinels struct {
	Void             types.ID
	TypeDefaultToken types.ID
	MethodToken      types.ID
	Bool             types.ID
	StringT          types.ID
	StringC          types.ID
	IteratorRecord   types.ID

	// LeaderTagType/FollowerTagType type the synthetic `tag` formal added
	// to leader/follower procedures; LeaderTagValue/FollowerTagValue are
	// the param literals a `where` clause compares that formal against.
	LeaderTagType    types.ID
	FollowerTagType  types.ID
	LeaderTagValue   *hir.Expr
	FollowerTagValue *hir.Expr
	True             *hir.Expr
	False            *hir.Expr
}

// Env bundles every external collaborator AdaptCall needs. A single Env is
// shared across an entire resolution pass; this package mutates nothing in
// it, except that PromotionRequired's MakeRefType call may add a reference
// type to Types. Its other effects go through the explicit Reporter/cache
// arguments.
type Env struct {
	Types     TypePredicates
	Intents   IntentResolver
	Build     Builders
	Resolve   Resolver
	Lookup    Lookup
	Sentinels Sentinels
	Interner  *source.Interner
}
