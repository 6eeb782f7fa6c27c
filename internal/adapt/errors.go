package adapt

import (
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
	"adaptcall/internal/types"
)

// assertCastBaseUnresolved implements spec.md section 9's open-question
// decision: the original source unconditionally asserts a cast's base is
// either an unresolved name or crashes. An already-resolved base is an
// explicit, reported error here, not an assertion.
func assertCastBaseUnresolved(reporter diag.Reporter, cast *hir.Expr) error {
	data, ok := cast.Data.(hir.CastData)
	if !ok {
		return nil
	}
	ref, ok := data.Value.Data.(hir.VarRefData)
	if ok && ref.SymbolID != 0 {
		return diag.Fatal(reporter, diag.AdaptCastBaseAlreadyResolved,
			"cast base was already resolved before the coercion pipeline reached it")
	}
	return nil
}

// assertPromotionSubstitutionIsTypeSymbol implements spec.md section 7's
// promotion-substitution-failure check: a cached substitution entry that
// is not a type symbol is an internal fatal, never a silent skip.
func assertPromotionSubstitutionIsTypeSymbol(reporter diag.Reporter, id types.ID, in *types.Interner) error {
	if t := in.Get(id); t == nil {
		return diag.Fatal(reporter, diag.AdaptPromotionSubstitutionInvalid,
			"promotion substitution is not a type symbol")
	}
	return nil
}
