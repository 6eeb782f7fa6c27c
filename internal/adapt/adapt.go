package adapt

import (
	"adaptcall/internal/config"
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
	"adaptcall/internal/symbols"
)

// CallSite locates a call within its enclosing block, so Coerce's inserted
// def/move pairs can be spliced immediately ahead of the statement that
// contains the call (spec.md section 4.5, step 4), and carries the call
// expression itself, so a synthesized wrapper's instantiation point can be
// derived from the call's own visibility block rather than reused from the
// callee (spec.md section 3: "every wrapper records the original call's
// visibility block").
type CallSite struct {
	Block *hir.Block
	Index int
	Expr  *hir.Expr
}

// instantiationPoint resolves the visibility block a synthesized wrapper
// should record, falling back to callee's own when the call site carries no
// expression to resolve against (e.g. a callee adapted ahead of any call,
// as when a driver prebuilds a shape it expects to need).
func instantiationPoint(env *Env, callee *hir.Func, site CallSite) symbols.VisibilityBlock {
	if site.Expr != nil && env.Lookup != nil {
		return env.Lookup.VisibilityBlock(site.Expr)
	}
	return callee.InstantiationPoint
}

// AdaptCall is the single entry point spec.md section 2 and 4.7 describe:
// it composes default supply, reorder, coerce, and promote in strict
// order and returns the effective callee the call site should target.
//
// actualToFormal maps each supplied actual's position to the original
// formal it targets. When default supply fires, AdaptCall builds a new map
// against the wrapper's formals for its own later stages; the caller's map
// is not modified.
func AdaptCall(env *Env, caches *Caches, cfg config.Config, reporter diag.Reporter, callee *hir.Func, site CallSite, call *hir.Call, info *hir.CallInfo, actualToFormal hir.ActualToFormalMap, wrapperCfg DefaultWrapperConfig) (*hir.Func, error) {
	effective := callee
	formals := effective.Formals
	instPoint := instantiationPoint(env, callee, site)

	// Stage 1: default supply.
	if len(call.Actuals) < len(effective.Formals) {
		wrapperCfg.AutoCopyField = cfg.Adapt.AutoCopyDefaultConstructorFields
		w := BuildDefaultWrapper(env, caches, effective, wrapperCfg, instPoint)
		effective = w
		formals = w.Formals
		actualToFormal = remapActualToFormal(callee, actualToFormal, formals)
		info.Callee = effective
	}

	// Stage 2: reorder.
	if len(call.Actuals) > 1 {
		perm := formalPermutation(call, formals, actualToFormal)
		Reorder(call, info, perm)
	}

	// Stage 3: coerce - skipped wholesale when the callee's return tag is
	// param (spec.md section 4.5's skip condition).
	if anyActualPresent(call) && effective.RetTag != hir.ReturnParamTag {
		scratch := hir.NewBlock()
		if err := Coerce(env, cfg, reporter, scratch, call, formals); err != nil {
			return nil, err
		}
		spliceBefore(site, scratch)
	}

	// Stage 4: promote.
	if promoted, required := PromotionRequired(env, effective, call, formals); required {
		family := BuildPromotionFamily(env, caches, cfg, effective, formals, promoted, instPoint)
		effective = family.Serial
		info.Callee = effective
	}

	return effective, nil
}

func anyActualPresent(call *hir.Call) bool {
	return len(call.Actuals) > 0
}

// remapActualToFormal rebuilds the actual-to-formal map against a new
// formal list after default supply fires: the wrapper's formals are copies
// of the supplied formals in callee's declaration order, so each actual is
// mapped to the copy of the original formal it targeted.
func remapActualToFormal(callee *hir.Func, actualToFormal hir.ActualToFormalMap, wrapperFormals []*hir.Param) hir.ActualToFormalMap {
	out := make(hir.ActualToFormalMap, len(actualToFormal))
	k := 0
	for _, f := range callee.Formals {
		for i, target := range actualToFormal {
			if target == f && k < len(wrapperFormals) {
				out[i] = wrapperFormals[k]
				k++
			}
		}
	}
	return out
}

// formalPermutation builds formalPositionForActualPosition[i] = j from
// actualToFormal: the actual originally at i targets the formal at
// position j within formals.
func formalPermutation(call *hir.Call, formals []*hir.Param, actualToFormal hir.ActualToFormalMap) []int {
	perm := make([]int, len(call.Actuals))
	for i := range call.Actuals {
		target := actualToFormal[i]
		perm[i] = i
		for j, f := range formals {
			if f == target {
				perm[i] = j
				break
			}
		}
	}
	return perm
}

// spliceBefore inserts scratch's statements into site.Block immediately
// ahead of site.Index, shifting the call's own statement (and everything
// after it) later.
func spliceBefore(site CallSite, scratch *hir.Block) {
	if len(scratch.Stmts) == 0 || site.Block == nil {
		return
	}
	n := len(scratch.Stmts)
	grown := make([]hir.Stmt, len(site.Block.Stmts)+n)
	copy(grown, site.Block.Stmts[:site.Index])
	copy(grown[site.Index:], scratch.Stmts)
	copy(grown[site.Index+n:], site.Block.Stmts[site.Index:])
	site.Block.Stmts = grown
}
