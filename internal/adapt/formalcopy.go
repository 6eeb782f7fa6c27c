package adapt

import "adaptcall/internal/hir"

// CopyFormal produces a clone of src suitable for use on a wrapper, per the
// formal-copy contract (spec.md section 4.2):
//
//   - out/inout formals, and formals already carrying the written marker,
//     keep the written marker on the copy;
//   - ref/const_ref intent is preserved; every other intent flattens to
//     blank, since the wrapper forwards and re-applies semantics itself.
func CopyFormal(src *hir.Param) *hir.Param {
	dst := src.Clone()

	if src.Intent == hir.IntentOut || src.Intent == hir.IntentInout || src.Flags.Has(hir.ArgWritten) {
		dst.Flags |= hir.ArgWritten
	} else {
		dst.Flags &^= hir.ArgWritten
	}

	if src.Intent == hir.IntentRef || src.Intent == hir.IntentConstRef {
		dst.Intent = src.Intent
	} else {
		dst.Intent = hir.IntentBlank
	}

	return dst
}
