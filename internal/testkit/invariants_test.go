package testkit

import (
	"testing"

	"adaptcall/internal/adapt"
	"adaptcall/internal/hir"
	"adaptcall/internal/source"
)

func TestCheckFormalCountPreserved(t *testing.T) {
	strs := source.NewInterner()
	x := &hir.Param{Name: strs.Intern("x")}
	wrapper := &hir.Func{Formals: []*hir.Param{x}}

	if err := CheckFormalCountPreserved(wrapper, 1); err != nil {
		t.Fatalf("expected a match, got %v", err)
	}
	if err := CheckFormalCountPreserved(wrapper, 2); err == nil {
		t.Fatalf("expected a mismatch error")
	}
}

func TestCheckFlagsForwarded(t *testing.T) {
	original := &hir.Func{Flags: hir.FlagConstructor | hir.FlagMethod | hir.FlagWrapper}
	good := &hir.Func{Flags: hir.FlagConstructor | hir.FlagMethod | hir.FlagInvisible}
	bad := &hir.Func{Flags: hir.FlagConstructor}

	if err := CheckFlagsForwarded(original, good); err != nil {
		t.Fatalf("expected forwarded flags to match despite the non-forwardable difference: %v", err)
	}
	if err := CheckFlagsForwarded(original, bad); err == nil {
		t.Fatalf("expected a mismatch error when a forwardable flag is dropped")
	}
}

func TestCheckDefaultCacheIdempotent(t *testing.T) {
	cache := adapt.NewDefaultCache()
	callee := &hir.Func{}
	key := adapt.NewDefaultShapeKey(callee, []int{0})
	wrapper := &hir.Func{}
	cache.Put(key, wrapper)

	if err := CheckDefaultCacheIdempotent(cache, key, wrapper); err != nil {
		t.Fatalf("expected idempotence to hold: %v", err)
	}

	other := &hir.Func{}
	if err := CheckDefaultCacheIdempotent(cache, key, other); err == nil {
		t.Fatalf("expected a mismatch error against an unrelated pointer")
	}
}

func TestCheckActualCountMatchesFormals(t *testing.T) {
	x := &hir.Param{}
	effective := &hir.Func{Formals: []*hir.Param{x}}
	actual := &hir.Expr{}
	call := &hir.Call{Actuals: []*hir.Expr{actual}}

	if err := CheckActualCountMatchesFormals(call, effective); err != nil {
		t.Fatalf("expected counts to line up: %v", err)
	}

	call.Actuals = append(call.Actuals, &hir.Expr{})
	if err := CheckActualCountMatchesFormals(call, effective); err == nil {
		t.Fatalf("expected a mismatch error once actuals outnumber formals")
	}
}
