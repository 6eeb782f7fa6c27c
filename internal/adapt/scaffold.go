package adapt

import (
	"adaptcall/internal/hir"
	"adaptcall/internal/symbols"
)

// BuildEmptyWrapper produces a fresh Func sharing callee's name and the
// forwardable flag set, with an empty body and formal list. This is the
// base every emitted wrapper (default-value, promotion) starts from.
func BuildEmptyWrapper(env *Env, callee *hir.Func, instPoint symbols.VisibilityBlock) *hir.Func {
	w := &hir.Func{
		Name:               callee.Name,
		Flags:              (callee.Flags & hir.ForwardableFlags) | hir.FlagWrapper | hir.FlagInvisible | hir.FlagCompilerGenerated,
		Throws:             callee.Throws,
		Result:             callee.Result,
		RetTag:             callee.RetTag,
		InstantiationPoint: instPoint,
		Body:               hir.NewBlock(),
	}
	if callee.Flags.Has(hir.FlagCompilerGenerated) {
		w.Flags |= hir.FlagWasCompilerGenerated
	}
	if callee.IsIterator() {
		// Iterators of a wrapper are re-tagged by the promotion stage;
		// leave the scaffold's tag untouched until then.
		w.RetTag = callee.RetTag
	}
	return w
}
