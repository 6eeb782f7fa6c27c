package adapt

import (
	"testing"

	"adaptcall/internal/config"
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
	"adaptcall/internal/source"
	"adaptcall/internal/symbols"
	"adaptcall/internal/types"
)

// TestAdaptCall_DefaultConstructorArrayField grounds spec.md section 8's
// sixth scenario: a default constructor with an omitted array-typed field
// default runs stage 1 only, writing the field via set_member before the
// reconstructed (bare, void) call.
func TestAdaptCall_DefaultConstructorArrayField(t *testing.T) {
	env, ty, strs := newTestEnv()
	intT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "int64"})
	arrayT := ty.Add(types.Type{Kind: types.KindRecordWrapped, Name: "[] int64", Elem: intT})

	self := &hir.Param{Name: mustIntern(strs, "self"), SymbolID: symbols.ID(1)}
	arr := &hir.Param{Name: mustIntern(strs, "arr"), Type: arrayT}
	arrField := symbols.ID(2)

	callee := &hir.Func{
		Name:    mustIntern(strs, "R_init"),
		Formals: []*hir.Param{arr},
		Result:  env.Sentinels.Void,
		Flags:   hir.FlagDefaultConstructor,
	}

	env.Lookup = stubLookup{fields: map[symbols.ID]map[source.StringID]symbols.ID{
		self.SymbolID: {arr.Name: arrField},
	}}

	call := &hir.Call{}
	info := &hir.CallInfo{Call: call, Callee: callee}
	site := CallSite{Block: hir.NewBlock(), Index: 0}
	caches := NewCaches()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	wrapperCfg := DefaultWrapperConfig{
		ActualToFormal: hir.ActualToFormalMap{},
		Receiver:       self,
		IsDefaultCtor:  true,
		AutoCopyField:  true,
	}

	effective, err := AdaptCall(env, caches, config.Default(), reporter, callee, site, call, info, hir.ActualToFormalMap{}, wrapperCfg)
	if err != nil {
		t.Fatalf("AdaptCall returned an error: %v", err)
	}
	if effective == callee {
		t.Fatalf("expected a synthesized default wrapper, got the callee back unchanged")
	}
	if effective.Receiver != self {
		t.Fatalf("wrapper should carry the constructor's receiver")
	}
	if !effective.Flags.Has(hir.FlagDefaultConstructor) {
		t.Fatalf("wrapper should forward FlagDefaultConstructor")
	}

	var sawSetMember, sawBareCall bool
	for _, stmt := range effective.Body.Stmts {
		es, ok := stmt.Data.(hir.ExprStmtData)
		if !ok {
			continue
		}
		switch d := es.Expr.Data.(type) {
		case hir.PrimitiveData:
			if d.Op == hir.PrimSetMember {
				sawSetMember = true
				value := d.Args[len(d.Args)-1]
				if value.Kind != hir.ExprVarRef {
					t.Fatalf("a defaulted field's set_member must write the raw default temp, not an auto_copy wrap (got %v)", value.Kind)
				}
			}
		case hir.CallData:
			sawBareCall = true
		}
	}
	if !sawSetMember {
		t.Fatalf("expected a set_member write for the constructor's own array field")
	}
	if !sawBareCall {
		t.Fatalf("expected the reconstructed call to appear as a bare statement (void result)")
	}
	if info.Callee != effective {
		t.Fatalf("CallInfo.Callee should be retargeted to the synthesized wrapper")
	}
}

// TestAdaptCall_ParamReturningCalleeSkipsCoerce checks the stage-3 skip
// condition: a callee whose return tag is param must reach the call site
// with its actual untouched, even though it would otherwise need a
// coercion chain.
func TestAdaptCall_ParamReturningCalleeSkipsCoerce(t *testing.T) {
	env, ty, strs := newTestEnv()
	syncT := ty.Add(types.Type{Kind: types.KindSync, Name: "sync int"})
	realT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "float64"})

	x := &hir.Param{Name: mustIntern(strs, "x"), Type: realT}
	callee := &hir.Func{Name: mustIntern(strs, "paramFn"), Formals: []*hir.Param{x}, Result: realT, RetTag: hir.ReturnParamTag}

	actual := &hir.Expr{Kind: hir.ExprVarRef, Type: syncT, Data: hir.VarRefData{Name: mustIntern(strs, "a")}}
	call := &hir.Call{Actuals: []*hir.Expr{actual}}
	info := &hir.CallInfo{Call: call, Callee: callee}
	site := CallSite{Block: hir.NewBlock(), Index: 0}
	caches := NewCaches()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}

	effective, err := AdaptCall(env, caches, config.Default(), reporter, callee, site, call, info, hir.ActualToFormalMap{0: x}, DefaultWrapperConfig{})
	if err != nil {
		t.Fatalf("AdaptCall returned an error: %v", err)
	}
	if effective != callee {
		t.Fatalf("single-formal, fully-supplied, param-returning callee should pass through unchanged")
	}
	if call.Actuals[0].Type != syncT {
		t.Fatalf("coerce stage fired despite the param-return skip condition")
	}
	if len(site.Block.Stmts) != 0 {
		t.Fatalf("no coercion temporaries should have been spliced into the call site")
	}
}

// TestAdaptCall_TypeConstructorSkipsPromote checks the stage-4 skip
// condition named in spec.md section 4.6.
func TestAdaptCall_TypeConstructorSkipsPromote(t *testing.T) {
	env, ty, strs := newTestEnv()
	intT := ty.Add(types.Type{Kind: types.KindNumeric, Name: "int64"})
	arrayT := ty.Add(types.Type{Kind: types.KindRecordWrapped, Name: "[] int64", Elem: intT})

	x := &hir.Param{Name: mustIntern(strs, "x"), Type: intT}
	callee := &hir.Func{Name: mustIntern(strs, "T"), Formals: []*hir.Param{x}, Result: intT, Flags: hir.FlagTypeConstructor}

	actual := &hir.Expr{Kind: hir.ExprVarRef, Type: arrayT, Data: hir.VarRefData{Name: mustIntern(strs, "arr")}}
	call := &hir.Call{Actuals: []*hir.Expr{actual}}
	info := &hir.CallInfo{Call: call, Callee: callee}
	site := CallSite{Block: hir.NewBlock(), Index: 0}
	caches := NewCaches()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}

	effective, err := AdaptCall(env, caches, config.Default(), reporter, callee, site, call, info, hir.ActualToFormalMap{0: x}, DefaultWrapperConfig{})
	if err != nil {
		t.Fatalf("AdaptCall returned an error: %v", err)
	}
	if effective != callee {
		t.Fatalf("type-constructor callee should never gain a promotion wrapper")
	}
}
