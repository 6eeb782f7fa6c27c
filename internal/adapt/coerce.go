package adapt

import (
	"adaptcall/internal/config"
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
	"adaptcall/internal/source"
	"adaptcall/internal/types"
)

// needsCoercion decides whether actualT must be converted before it can
// reach a formal of formalT, per spec.md section 4.5's four-way test.
func needsCoercion(env *Env, actualT, formalT types.ID, actualIntent hir.Intent) bool {
	if actualT == formalT {
		return false
	}
	if env.Types.IsReference(actualT) {
		if ref := env.Types.Get(actualT); ref != nil && ref.Elem == formalT && actualIntent.IsRefLike() {
			return false
		}
	}
	if env.Types.CanCoerce(actualT, formalT) {
		return true
	}
	if env.Types.IsDispatchParent(formalT, actualT) {
		return true
	}
	return false
}

// Coerce inserts explicit conversions for every actual/formal pair that
// needsCoercion, re-testing after each inserted step up to the configured
// iteration cap. body is the block the coercion temporaries and moves are
// inserted into, immediately ahead of the statement containing the call.
//
// Skip condition: callers must not invoke Coerce at all when the callee's
// return tag is param (spec.md section 4.5's skip condition) - an eager
// readFE would persist past the fold that later eliminates the call.
func Coerce(env *Env, cfg config.Config, reporter diag.Reporter, body *hir.Block, call *hir.Call, formals []*hir.Param) error {
	for i, actual := range call.Actuals {
		if i >= len(formals) {
			break
		}
		formal := formals[i]
		actualT, formalT := actual.Type, formal.Type
		stringCTarget := env.Types.IsStringC(formalT)

		steps := 0
		for needsCoercion(env, actualT, formalT, formal.Intent) {
			steps++
			if steps > cfg.Adapt.CoercionIterationCap {
				return diag.Fatal(reporter, diag.AdaptCoercionChainDiverged,
					"coercion chain exceeded its iteration cap")
			}

			next, nextType, recheck, err := coerceStep(env, reporter, body, actual, actualT, formalT, stringCTarget)
			if err != nil {
				return err
			}
			call.Actuals[i] = next
			actual, actualT = next, nextType
			if !recheck {
				break
			}
		}
	}
	return nil
}

// coerceStep inserts a single coercion step and returns the expression that
// replaces the actual, its resulting type, and whether the caller must
// re-test needsCoercion (synchronized reads can yield a still-incompatible
// type; the generic cast and the string-literal swap never do).
func coerceStep(env *Env, reporter diag.Reporter, body *hir.Block, actual *hir.Expr, actualT, formalT types.ID, stringCTarget bool) (*hir.Expr, types.ID, bool, error) {
	switch {
	case env.Types.IsSyncType(actualT):
		tmp := defCoerceTemp(env, body, runtimeHelperCall(env, "readFE", actual), elemOf(env, actualT))
		return tmp, tmp.Type, true, nil

	case env.Types.IsSingleType(actualT):
		tmp := defCoerceTemp(env, body, runtimeHelperCall(env, "readFF", actual), elemOf(env, actualT))
		return tmp, tmp.Type, true, nil

	case env.Types.IsReference(actualT) && !(env.Types.IsTupleReference(actualT) && env.Types.IsTupleReference(formalT)):
		deref := hir.Prim(hir.PrimDeref, elemOf(env, actualT), actual)
		tmp := defCoerceTemp(env, body, deref, elemOf(env, actualT))
		return tmp, tmp.Type, true, nil

	case stringCTarget && env.Types.IsString(actualT) && isImmediateStringLiteral(actual):
		swapToStringC(env, actual)
		return actual, actual.Type, false, nil

	default:
		if env.Build == nil {
			return nil, formalT, false, diag.Fatal(reporter, diag.AdaptCastResolutionFailed,
				"error resolving a cast from "+typeName(env, actualT)+" to "+typeName(env, formalT))
		}
		cast := env.Build.CreateCast(actual, formalT)
		flags := hir.ArgCoerceTemp
		if env.Types.IsString(formalT) {
			flags |= hir.ArgInsertAutoDestroy
		}
		tmp := defFlaggedTemp(env, body, "coerce_tmp", cast, flags)
		if err := resolveCastTarget(env, reporter, cast, actualT, formalT); err != nil {
			return nil, formalT, false, err
		}
		return tmp, formalT, false, nil
	}
}

func defCoerceTemp(env *Env, body *hir.Block, value *hir.Expr, resultType types.ID) *hir.Expr {
	value.Type = resultType
	return defFlaggedTemp(env, body, "coerce_tmp", value, hir.ArgCoerceTemp)
}

func defFlaggedTemp(env *Env, body *hir.Block, baseName string, value *hir.Expr, flags hir.ArgFlag) *hir.Expr {
	name := source.Astr(env.Interner, baseName)
	tmp := body.DefFlagged(name, 0, value.Type, flags)
	body.Move(tmp, value)
	return tmp
}

// resolveCastTarget asks the external resolver to resolve the cast's
// callee; a failure halts the batch with a cast-resolution diagnostic
// (spec.md section 7).
func resolveCastTarget(env *Env, reporter diag.Reporter, cast *hir.Expr, actualT, formalT types.ID) error {
	if env.Resolve == nil {
		return nil
	}
	if err := env.Resolve.ResolveCall(cast); err != nil {
		return diag.Fatal(reporter, diag.AdaptCastResolutionFailed,
			"error resolving a cast from "+typeName(env, actualT)+" to "+typeName(env, formalT))
	}
	return nil
}

func typeName(env *Env, id types.ID) string {
	if t := env.Types.Get(id); t != nil {
		return t.Name
	}
	return "<unknown>"
}

func elemOf(env *Env, refType types.ID) types.ID {
	if t := env.Types.Get(refType); t != nil {
		return t.Elem
	}
	return types.NoID
}

func runtimeHelperCall(env *Env, name string, args ...*hir.Expr) *hir.Expr {
	id := source.Astr(env.Interner, name)
	return hir.CallExpr(id, nil, args...)
}

func isImmediateStringLiteral(e *hir.Expr) bool {
	_, ok := e.Data.(hir.LiteralData)
	return ok && e.Kind == hir.ExprLiteral
}

func swapToStringC(env *Env, actual *hir.Expr) {
	actual.Type = env.Sentinels.StringC
}
