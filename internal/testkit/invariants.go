// Package testkit collects the reusable invariant checks backing the
// adaptation layer's testable properties: a synthesized wrapper's
// caller-visible formal count, its forwarded-flag set, wrapper-cache
// idempotence, and a promoted family's index-binding completeness. Each
// check returns an error describing the violation. The tests of
// internal/adapt and internal/adaptdriver do not use them; they make their
// assertions inline.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"adaptcall/internal/adapt"
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
)

// CheckFormalCountPreserved verifies a synthesized wrapper's caller-visible
// signature has exactly wantCount formals - the count of actuals the
// original call site actually supplied, per spec.md section 3's invariant
// that a wrapper's signature matches what the caller wrote, not the
// callee's full declared arity.
func CheckFormalCountPreserved(wrapper *hir.Func, wantCount int) error {
	if wrapper == nil {
		return fmt.Errorf("nil wrapper")
	}
	got, err := safecast.Conv[uint32](len(wrapper.Formals))
	if err != nil {
		return fmt.Errorf("wrapper formal count overflow: %w", err)
	}
	want, err := safecast.Conv[uint32](wantCount)
	if err != nil {
		return fmt.Errorf("wanted formal count overflow: %w", err)
	}
	if got != want {
		return fmt.Errorf("wrapper has %d formals, want %d", got, want)
	}
	return nil
}

// CheckFlagsForwarded verifies wrapper carries exactly the subset of
// original's flags named in hir.ForwardableFlags - no more, no less. Flags
// the scaffold sets independently (wrapper, invisible, compiler_generated)
// are excluded from the comparison by the mask itself.
func CheckFlagsForwarded(original, wrapper *hir.Func) error {
	if original == nil || wrapper == nil {
		return fmt.Errorf("nil original or wrapper")
	}
	want := original.Flags & hir.ForwardableFlags
	got := wrapper.Flags & hir.ForwardableFlags
	if got != want {
		return fmt.Errorf("forwarded flags mismatch: got=%#x want=%#x", got, want)
	}
	return nil
}

// CheckDefaultCacheIdempotent verifies a second lookup against key returns
// the exact same wrapper pointer built the first time - spec.md section 3's
// "(callee, shape_key) -> wrapper" cache must never synthesize twice for
// one shape.
func CheckDefaultCacheIdempotent(cache *adapt.DefaultCache, key adapt.DefaultShapeKey, first *hir.Func) error {
	got, ok := cache.Get(key)
	if !ok {
		return fmt.Errorf("shape key missing from default cache after a build")
	}
	if got != first {
		return fmt.Errorf("default cache returned a different wrapper for the same shape key")
	}
	return nil
}

// CheckPromotionCacheIdempotent is CheckDefaultCacheIdempotent's analogue
// for promotion families.
func CheckPromotionCacheIdempotent(cache *adapt.PromotionCache, key adapt.PromotionShapeKey, first *adapt.PromotionFamily) error {
	got, ok := cache.Get(key)
	if !ok {
		return fmt.Errorf("shape key missing from promotion cache after a build")
	}
	if got != first {
		return fmt.Errorf("promotion cache returned a different family for the same shape key")
	}
	return nil
}

// CheckIndexBindingComplete re-exports adapt.AssertIndexBindingComplete
// under this package's naming so a caller that already imports testkit for
// the checks above doesn't need a second import just for this one.
func CheckIndexBindingComplete(env *adapt.Env, reporter diag.Reporter, fn *hir.Func) error {
	return adapt.AssertIndexBindingComplete(env, reporter, fn)
}

// CheckActualCountMatchesFormals verifies a call's actual count equals its
// effective callee's formal count after adaptation - every stage that
// changes arity (default supply, promotion collapse) must leave the call
// site and its target in lockstep.
func CheckActualCountMatchesFormals(call *hir.Call, effective *hir.Func) error {
	if len(call.Actuals) != len(effective.Formals) {
		return fmt.Errorf("call has %d actuals against %d effective formals", len(call.Actuals), len(effective.Formals))
	}
	return nil
}
