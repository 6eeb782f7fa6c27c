package adapt

import (
	"testing"

	"adaptcall/internal/config"
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
	"adaptcall/internal/types"
)

// TestPromotionRequired_ScalarOverArray grounds spec.md section 8's fourth
// scenario: an array actual dispatched against a scalar formal reports a
// required promotion at that position.
func TestPromotionRequired_ScalarOverArray(t *testing.T) {
	env, ty, strs := newTestEnv()
	intT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "int64"})
	arrayT := ty.Add(types.Type{Kind: types.KindRecordWrapped, Name: "[] int64", Elem: intT})

	actual := &hir.Expr{Kind: hir.ExprVarRef, Type: arrayT, Data: hir.VarRefData{Name: mustIntern(strs, "arr")}}
	call := &hir.Call{Actuals: []*hir.Expr{actual}}
	callee := &hir.Func{Name: mustIntern(strs, "f")}
	formals := []*hir.Param{{Name: mustIntern(strs, "x"), Type: intT}}

	promoted, required := PromotionRequired(env, callee, call, formals)
	if !required {
		t.Fatalf("expected promotion to be required for an array actual over a scalar formal")
	}
	if promoted[0] != arrayT {
		t.Fatalf("expected position 0 promoted from %v, got %v", arrayT, promoted[0])
	}
}

// TestPromotionRequired_SkipsAssignAndTypeConstructor checks the two
// exclusions spec.md section 4.6 names.
func TestPromotionRequired_SkipsAssignAndTypeConstructor(t *testing.T) {
	env, ty, strs := newTestEnv()
	intT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "int64"})
	arrayT := ty.Add(types.Type{Kind: types.KindRecordWrapped, Name: "[] int64", Elem: intT})
	actual := &hir.Expr{Kind: hir.ExprVarRef, Type: arrayT, Data: hir.VarRefData{Name: mustIntern(strs, "arr")}}
	call := &hir.Call{Actuals: []*hir.Expr{actual}}
	formals := []*hir.Param{{Name: mustIntern(strs, "x"), Type: intT}}

	for _, flag := range []hir.FnFlag{hir.FlagAssignOp, hir.FlagTypeConstructor} {
		callee := &hir.Func{Name: mustIntern(strs, "f"), Flags: flag}
		if _, required := PromotionRequired(env, callee, call, formals); required {
			t.Fatalf("flag %v should exclude promotion detection", flag)
		}
	}
}

// TestBuildPromotionFamily_Collapse grounds spec.md section 8's fifth
// scenario for the single-promoted-position (collapse) case: the serial
// iterator is built, flagged, and every p_i_<n> reference the inner call
// synthesizes is bound to a real loop index by the time the family is
// returned.
func TestBuildPromotionFamily_Collapse(t *testing.T) {
	env, ty, strs := newTestEnv()
	intT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "int64"})
	arrayT := ty.Add(types.Type{Kind: types.KindRecordWrapped, Name: "[] int64", Elem: intT})

	x := &hir.Param{Name: mustIntern(strs, "x"), Type: intT}
	callee := &hir.Func{Name: mustIntern(strs, "f"), Formals: []*hir.Param{x}, Result: intT}
	formals := []*hir.Param{x}
	promoted := map[int]types.ID{0: arrayT}

	caches := NewCaches()
	cfg := config.Default()
	family := BuildPromotionFamily(env, caches, cfg, callee, formals, promoted, 1)

	if family.Serial == nil || family.Leader == nil || family.Follower == nil {
		t.Fatalf("expected serial, leader and follower to all be built")
	}
	if !family.Serial.Flags.Has(hir.FlagIterator) {
		t.Fatalf("serial promotion wrapper of a value-returning callee must be an iterator")
	}
	if len(family.Serial.Formals) != 1 {
		t.Fatalf("serial wrapper should keep exactly one (promoted) formal, got %d", len(family.Serial.Formals))
	}
	if family.StaticProbe == nil || family.DynamicProbe == nil {
		t.Fatalf("expected fast-follower probes to be built when EmitFastFollowerChecks is set")
	}
	if family.Leader.Where == nil {
		t.Fatalf("leader iterator must carry a tag-matching where clause")
	}
	if family.Follower.Where == nil {
		t.Fatalf("follower iterator must carry a tag-matching where clause")
	}

	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	for _, fn := range []*hir.Func{family.Serial, family.Leader, family.Follower} {
		if err := AssertIndexBindingComplete(env, reporter, fn); err != nil {
			t.Fatalf("index binding left an unresolved p_i_<n> reference: %v", err)
		}
	}

	again := BuildPromotionFamily(env, caches, cfg, callee, formals, promoted, 1)
	if again != family {
		t.Fatalf("cache idempotence violated: second BuildPromotionFamily call returned a different family")
	}
}

// TestBuildPromotionFamily_Zip grounds the "zip promotion" scenario: two
// promoted positions build a zippered (non-collapsed) loop over a tuple of
// the promoted formals.
func TestBuildPromotionFamily_Zip(t *testing.T) {
	env, ty, strs := newTestEnv()
	intT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "int64"})
	arrayT := ty.Add(types.Type{Kind: types.KindRecordWrapped, Name: "[] int64", Elem: intT})

	x := &hir.Param{Name: mustIntern(strs, "x"), Type: intT}
	y := &hir.Param{Name: mustIntern(strs, "y"), Type: intT}
	callee := &hir.Func{Name: mustIntern(strs, "g"), Formals: []*hir.Param{x, y}, Result: env.Sentinels.Void}
	formals := []*hir.Param{x, y}
	promoted := map[int]types.ID{0: arrayT, 1: arrayT}

	caches := NewCaches()
	family := BuildPromotionFamily(env, caches, config.Default(), callee, formals, promoted, 1)

	if family.Serial.Flags.Has(hir.FlagIterator) {
		t.Fatalf("a void callee's serial promotion wrapper should stay a forall procedure, not an iterator")
	}
	if len(family.Serial.Formals) != 2 {
		t.Fatalf("serial wrapper should keep both promoted formals, got %d", len(family.Serial.Formals))
	}

	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	if err := AssertIndexBindingComplete(env, reporter, family.Serial); err != nil {
		t.Fatalf("index binding left an unresolved p_i_<n> reference: %v", err)
	}
}
