package adapt

import (
	"testing"

	"adaptcall/internal/config"
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
	"adaptcall/internal/types"
)

// TestCoerce_ChainReachesFixedPoint grounds spec.md section 8's "coercion
// reaches a fixed point in at most six steps" and section 4.5's worked
// example: a sync sync int actual coerced to a real formal inserts
// readFE -> readFE -> deref -> cast, each as its own def/move pair.
func TestCoerce_ChainReachesFixedPoint(t *testing.T) {
	env, ty, strs := newTestEnv()

	// sync sync int, unwound one readFE/deref at a time down to a cast: the
	// worked example in spec.md section 4.5.
	innerNumeric := ty.Add(types.Type{Kind: types.KindNumeric, Name: "int64"})
	refT := ty.Add(types.Type{Kind: types.KindReference, Name: "ref(int64)", Elem: innerNumeric})
	midSync := ty.Add(types.Type{Kind: types.KindSync, Name: "sync int", Elem: refT})
	outerSync := ty.Add(types.Type{Kind: types.KindSync, Name: "sync sync int", Elem: midSync})
	realT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "float64"})

	actual := &hir.Expr{Kind: hir.ExprVarRef, Type: outerSync, Data: hir.VarRefData{Name: mustIntern(strs, "x")}}
	call := &hir.Call{Actuals: []*hir.Expr{actual}}
	formals := []*hir.Param{{Name: mustIntern(strs, "x"), Type: realT}}

	body := hir.NewBlock()
	cfg := config.Default()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}

	if err := Coerce(env, cfg, reporter, body, call, formals); err != nil {
		t.Fatalf("Coerce returned an error: %v", err)
	}

	if bag.HasFatal() {
		t.Fatalf("unexpected fatal diagnostic: %v", bag.Items())
	}

	defs := 0
	for _, stmt := range body.Stmts {
		if stmt.Kind == hir.StmtDef {
			defs++
		}
	}
	if defs != 4 {
		t.Fatalf("expected exactly 4 coercion temporaries (readFE, readFE, deref, cast), got %d", defs)
	}
	if defs > cfg.Adapt.CoercionIterationCap {
		t.Fatalf("coercion inserted %d steps, exceeding the cap of %d", defs, cfg.Adapt.CoercionIterationCap)
	}

	if call.Actuals[0].Type != realT {
		t.Fatalf("expected the call's actual to end up typed as the formal's real, got %v", call.Actuals[0].Type)
	}
}

// TestCoerce_EqualTypesNoop checks that an already-matching actual/formal
// pair inserts nothing.
func TestCoerce_EqualTypesNoop(t *testing.T) {
	env, ty, strs := newTestEnv()
	intT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "int64"})

	actual := &hir.Expr{Kind: hir.ExprVarRef, Type: intT, Data: hir.VarRefData{Name: mustIntern(strs, "x")}}
	call := &hir.Call{Actuals: []*hir.Expr{actual}}
	formals := []*hir.Param{{Name: mustIntern(strs, "x"), Type: intT}}

	body := hir.NewBlock()
	bag := diag.NewBag()
	if err := Coerce(env, config.Default(), diag.BagReporter{Bag: bag}, body, call, formals); err != nil {
		t.Fatalf("Coerce returned an error: %v", err)
	}
	if len(body.Stmts) != 0 {
		t.Fatalf("expected no coercion statements for equal types, got %d", len(body.Stmts))
	}
}

// TestCoerce_StringLiteralToCString exercises the fast path: an immediate
// string literal swaps its symbol to the C-string type in place, with no
// cast call and no re-check (spec.md section 4.5).
func TestCoerce_StringLiteralToCString(t *testing.T) {
	env, _, strs := newTestEnv()

	lit := &hir.Expr{Kind: hir.ExprLiteral, Type: env.Sentinels.StringT, Data: hir.LiteralData{Text: `"hi"`}}
	call := &hir.Call{Actuals: []*hir.Expr{lit}}
	formals := []*hir.Param{{Name: mustIntern(strs, "s"), Type: env.Sentinels.StringC}}

	body := hir.NewBlock()
	bag := diag.NewBag()
	if err := Coerce(env, config.Default(), diag.BagReporter{Bag: bag}, body, call, formals); err != nil {
		t.Fatalf("Coerce returned an error: %v", err)
	}
	if len(body.Stmts) != 0 {
		t.Fatalf("string-literal-to-C-string coercion should insert no statements, got %d", len(body.Stmts))
	}
	if call.Actuals[0] != lit {
		t.Fatalf("string-literal-to-C-string coercion should keep the same expression node")
	}
	if call.Actuals[0].Type != env.Sentinels.StringC {
		t.Fatalf("expected the literal's type to be swapped to C-string")
	}
}
