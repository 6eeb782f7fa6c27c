package adapt

import (
	"adaptcall/internal/hir"
	"adaptcall/internal/symbols"
)

// Reorder permutes a call's actuals, and the parallel actual-symbol and
// actual-name arrays in info, so their positional order matches callee's
// formal order. If the actuals are already in formal order it does
// nothing - no expression is removed or reinserted (spec.md section 8:
// "reorder applied to an already-ordered argument list is a no-op").
//
// formalPositionForActualPosition[i] = j means the actual originally at
// position i targets the formal at position j.
func Reorder(call *hir.Call, info *hir.CallInfo, formalPositionForActualPosition []int) {
	n := len(call.Actuals)

	identity := true
	for i, j := range formalPositionForActualPosition {
		if i != j {
			identity = false
			break
		}
	}
	if identity {
		return
	}

	actuals := make([]*hir.Expr, n)
	var reorderedSymbols []symbols.ID
	if info.ActualSymbols != nil {
		reorderedSymbols = make([]symbols.ID, len(info.ActualSymbols))
	}
	var reorderedNames []hir.NameOrBlank
	if info.Names != nil {
		reorderedNames = make([]hir.NameOrBlank, len(info.Names))
	}

	for i, j := range formalPositionForActualPosition {
		actuals[j] = call.Actuals[i]
		if reorderedSymbols != nil && i < len(info.ActualSymbols) {
			reorderedSymbols[j] = info.ActualSymbols[i]
		}
		if reorderedNames != nil && i < len(info.Names) {
			reorderedNames[j] = info.Names[i]
		}
	}

	call.Actuals = actuals
	if reorderedSymbols != nil {
		copy(info.ActualSymbols, reorderedSymbols)
	}
	if reorderedNames != nil {
		copy(info.Names, reorderedNames)
	}
}
