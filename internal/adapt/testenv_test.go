package adapt

import (
	"adaptcall/internal/hir"
	"adaptcall/internal/source"
	"adaptcall/internal/symbols"
	"adaptcall/internal/types"
)

// stubBuilders is the minimal Builders implementation the tests need: a
// cast that just records its target type, loop builders that delegate to
// hir's own constructors.
type stubBuilders struct{}

func (stubBuilders) CreateCast(expr *hir.Expr, target types.ID) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprCast, Type: target, Data: hir.CastData{Value: expr, Target: target}}
}

func (stubBuilders) BuildForLoop(index []hir.LoopIndex, iter *hir.Expr, body *hir.Block, zippered bool) hir.Stmt {
	return hir.BuildForLoop(index, iter, body, zippered)
}

func (stubBuilders) BuildForallLoopStmt(indices []hir.LoopIndex, iter *hir.Expr, body *hir.Block, zippered bool) hir.Stmt {
	return hir.BuildForallLoopStmt(indices, iter, body, zippered)
}

// stubResolver treats every resolution as trivially successful unless
// failCasts is set, in which case ResolveCall fails. That is enough for
// these tests: they assert on the shape AdaptCall's stages build, not on
// name binding.
type stubResolver struct{ failCasts bool }

func (s stubResolver) Normalize(fn *hir.Func)          {}
func (s stubResolver) ResolveFormals(fn *hir.Func)     {}
func (s stubResolver) ResolveCall(call *hir.Expr) error {
	if s.failCasts {
		return errTestResolveFailed
	}
	return nil
}
func (s stubResolver) ResolveCallAndCallee(call *hir.Expr, checkOnly bool) error { return nil }

var errTestResolveFailed = &resolveFailedErr{}

type resolveFailedErr struct{}

func (*resolveFailedErr) Error() string { return "stub: resolution failed" }

type stubIntents struct{}

func (stubIntents) BlankIntentForType(t types.ID) hir.Intent       { return hir.IntentConst }
func (stubIntents) ConcreteIntentForArg(p *hir.Param) hir.Intent { return p.Intent }

type stubLookup struct{ fields map[symbols.ID]map[source.StringID]symbols.ID }

func (l stubLookup) VisibilityBlock(expr *hir.Expr) symbols.VisibilityBlock { return 1 }

func (l stubLookup) GetField(owner symbols.ID, name source.StringID, recursive bool) (symbols.ID, bool) {
	if l.fields == nil {
		return 0, false
	}
	id, ok := l.fields[owner][name]
	return id, ok
}

// newTestEnv builds an Env backed by real *types.Interner/*source.Interner
// (so CanCoerce/CanDispatch/etc exercise the actual predicate logic) and
// stub AST/resolution collaborators.
func newTestEnv() (*Env, *types.Interner, *source.Interner) {
	strs := source.NewInterner()
	ty := types.NewInterner()

	boolT := ty.Add(types.Type{Kind: types.KindBool, Name: "bool"})
	stringT := ty.Add(types.Type{Kind: types.KindString, Name: "string"})
	stringCT := ty.Add(types.Type{Kind: types.KindStringC, Name: "c_string"})
	voidT := ty.Add(types.Type{Kind: types.KindVoid, Name: "void"})
	tagT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "iterKind"})

	env := &Env{
		Types:    ty,
		Intents:  stubIntents{},
		Build:    stubBuilders{},
		Resolve:  stubResolver{},
		Lookup:   stubLookup{},
		Interner: strs,
		Sentinels: Sentinels{
			Void:             voidT,
			Bool:             boolT,
			StringT:          stringT,
			StringC:          stringCT,
			True:             &hir.Expr{Kind: hir.ExprLiteral, Type: boolT, Data: hir.LiteralData{Text: "true"}},
			False:            &hir.Expr{Kind: hir.ExprLiteral, Type: boolT, Data: hir.LiteralData{Text: "false"}},
			LeaderTagType:    tagT,
			FollowerTagType:  tagT,
			LeaderTagValue:   &hir.Expr{Kind: hir.ExprLiteral, Type: tagT, Data: hir.LiteralData{Text: "leader"}},
			FollowerTagValue: &hir.Expr{Kind: hir.ExprLiteral, Type: tagT, Data: hir.LiteralData{Text: "follower"}},
		},
	}
	return env, ty, strs
}

func mustIntern(strs *source.Interner, s string) source.StringID { return strs.Intern(s) }
