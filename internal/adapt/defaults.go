package adapt

import (
	"adaptcall/internal/hir"
	"adaptcall/internal/source"
	"adaptcall/internal/symbols"
	"adaptcall/internal/types"
)

// formalClass is how a single original formal is resolved into an argument
// for the reconstructed call inside a default-value wrapper (spec.md
// section 4.3, step 3).
type formalClass uint8

const (
	classSupplied formalClass = iota
	classParamInstantiated
	classIsMeme
	classDefaulted
)

func classify(f *hir.Param, actualMap hir.ActualToFormalMap, paramMap map[*hir.Param]*hir.Expr) formalClass {
	for _, mapped := range actualMap {
		if mapped == f {
			return classSupplied
		}
	}
	if _, ok := paramMap[f]; ok {
		return classParamInstantiated
	}
	if f.Flags.Has(hir.ArgIsMeme) {
		return classIsMeme
	}
	return classDefaulted
}

// DefaultWrapperConfig carries the per-call context BuildDefaultWrapper
// needs beyond env and caches: which original formal each supplied actual
// targets, param-instantiated values, and whether this procedure is a
// default constructor writing its own fields.
type DefaultWrapperConfig struct {
	ActualToFormal hir.ActualToFormalMap
	ParamValues    map[*hir.Param]*hir.Expr
	// Receiver, if non-nil, is the wrapper's receiver formal - required to
	// rebind is_meme formals and to emit set_member for default-constructor
	// field writes.
	Receiver      *hir.Param
	IsDefaultCtor bool
	AutoCopyField bool // config.AutoCopyDefaultConstructorFields
}

// BuildDefaultWrapper implements spec.md section 4.3: when the call
// supplies fewer actuals than callee has formals, build (or reuse, from
// the default cache) a wrapper that accepts only the supplied actuals and
// internally materializes the rest.
func BuildDefaultWrapper(env *Env, caches *Caches, callee *hir.Func, cfg DefaultWrapperConfig, instPoint symbols.VisibilityBlock) *hir.Func {
	defaulted := make([]int, 0, len(callee.Formals))
	for i, f := range callee.Formals {
		if classify(f, cfg.ActualToFormal, cfg.ParamValues) == classDefaulted {
			defaulted = append(defaulted, i)
		}
	}

	key := NewDefaultShapeKey(callee, defaulted)
	if hit, ok := caches.Defaults.Get(key); ok {
		return hit
	}

	w := BuildEmptyWrapper(env, callee, instPoint)
	w.Receiver = cfg.Receiver

	callArgs := make([]*hir.Expr, 0, len(callee.Formals))

	for _, f := range callee.Formals {
		switch classify(f, cfg.ActualToFormal, cfg.ParamValues) {
		case classSupplied:
			copied := CopyFormal(f)
			w.Formals = append(w.Formals, copied)
			arg := VarRefForParam(env, copied)

			if env.Types.IsReference(f.Type) {
				ref := materializeRefTemp(env, w.Body, arg, f.Type)
				arg = ref
			} else if recordWrappedDefaultConstructorField(env, cfg, f) {
				arg = materializeRecordWrappedFieldTemp(env, w.Body, f, arg)
			}
			callArgs = append(callArgs, arg)

			if cfg.IsDefaultCtor && isOwnFieldOfCtor(env, cfg, f) {
				fieldArg := emitDefaultCtorFieldWriteSupplied(env, w.Body, cfg, f, arg, cfg.AutoCopyField)
				callArgs[len(callArgs)-1] = fieldArg
			}

		case classParamInstantiated:
			callArgs = append(callArgs, cfg.ParamValues[f])

		case classIsMeme:
			recvType := types.NoID
			if w.Receiver != nil {
				recvType = w.Receiver.Type
			}
			f.Type = recvType
			callArgs = append(callArgs, VarRefForParam(env, w.Receiver))

		case classDefaulted:
			name := source.Astr(env.Interner, "default_arg_"+lookupName(env, f.Name))
			tmp := defaultValueForType(env, w.Body, f, name)
			callArgs = append(callArgs, tmp)

			if cfg.IsDefaultCtor && isOwnFieldOfCtor(env, cfg, f) {
				emitDefaultCtorFieldWriteDefaulted(env, w.Body, cfg, f, tmp)
			}
		}
	}

	call := hir.CallExpr(callee.Name, callee, callArgs...)
	if env.Sentinels.Void != types.NoID && callee.Result == env.Sentinels.Void {
		w.Body.ExprStmt(call)
	} else {
		resultName := source.Astr(env.Interner, "result")
		resTmp := w.Body.Def(resultName, 0, callee.Result)
		w.Body.Move(resTmp, call)
		w.Body.Return(resTmp)
	}

	if env.Resolve != nil {
		env.Resolve.Normalize(w)
		env.Resolve.ResolveFormals(w)
	}

	caches.Defaults.Put(key, w)
	return w
}

func VarRefForParam(env *Env, p *hir.Param) *hir.Expr {
	if p == nil {
		return nil
	}
	return hir.VarRef(p.Name, p.SymbolID, p.Type)
}

func lookupName(env *Env, id source.StringID) string {
	if env.Interner == nil {
		return ""
	}
	return env.Interner.MustLookup(id)
}

// materializeRefTemp binds a local `ref` temporary via address-of and
// passes that, so a reference-typed supplied formal keeps reference
// semantics through the wrapper boundary.
func materializeRefTemp(env *Env, body *hir.Block, arg *hir.Expr, refType types.ID) *hir.Expr {
	name := source.Astr(env.Interner, "ref_tmp")
	tmp := body.DefFlagged(name, 0, refType, 0)
	addr := hir.Prim(hir.PrimAddrOf, refType, arg)
	body.Move(tmp, addr)
	return tmp
}

// recordWrappedDefaultConstructorField reports whether f is a
// record-wrapped (array/domain/dist) formal of a default constructor that
// carries a type expression - the case spec.md section 4.3 singles out for
// preserving the enclosing record field's declared type.
func recordWrappedDefaultConstructorField(env *Env, cfg DefaultWrapperConfig, f *hir.Param) bool {
	return cfg.IsDefaultCtor && f.TypeExpr != nil && env.Types.IsRecordWrappedType(f.Type)
}

// materializeRecordWrappedFieldTemp evaluates the formal's type expression
// into a temporary, then assigns the incoming actual into it - preserving
// the field's declared type rather than the actual's type.
func materializeRecordWrappedFieldTemp(env *Env, body *hir.Block, f *hir.Param, actual *hir.Expr) *hir.Expr {
	name := source.Astr(env.Interner, lookupName(env, f.Name)+"_tmp")
	typeExpr := hir.CloneExpr(f.TypeExpr)
	body.ExprStmt(typeExpr)
	tmp := body.DefFlagged(name, 0, f.Type, 0)
	body.Move(tmp, actual)
	return tmp
}

func isOwnFieldOfCtor(env *Env, cfg DefaultWrapperConfig, f *hir.Param) bool {
	if !cfg.IsDefaultCtor || cfg.Receiver == nil || env.Lookup == nil {
		return false
	}
	_, ok := env.Lookup.GetField(cfg.Receiver.SymbolID, f.Name, false)
	return ok
}

// emitDefaultCtorFieldWriteSupplied implements the *supplied*-field half of
// spec.md section 4.3's default-constructor special rule (grounded on
// wrappers.cpp's updateWrapCall, lines 380-393): wrap the incoming actual
// in auto_copy (gated by autoCopy, per DESIGN.md's open-question decision),
// set_member the field with the copy, and return that same copy so the
// caller can also use it as the reconstructed call's argument - "the field
// and the argument agree".
func emitDefaultCtorFieldWriteSupplied(env *Env, body *hir.Block, cfg DefaultWrapperConfig, f *hir.Param, value *hir.Expr, autoCopy bool) *hir.Expr {
	v := value
	if autoCopy {
		name := source.Astr(env.Interner, lookupName(env, f.Name)+"_auto_copy")
		tmp := body.DefFlagged(name, 0, f.Type, 0)
		init := hir.Prim(hir.PrimInit, f.Type, value) // auto_copy modeled as an init-style wrap
		body.Move(tmp, init)
		v = tmp
	}
	setField(env, body, cfg, f, v)
	return v
}

// emitDefaultCtorFieldWriteDefaulted implements the *defaulted*-field half
// of spec.md section 4.3's rule (grounded on wrappers.cpp's PRIM_SET_MEMBER
// at lines 519-522): set_member the field directly with the materialized
// default temp, with no auto_copy wrap - the original never wraps a
// defaulted field's value, only a supplied one.
func emitDefaultCtorFieldWriteDefaulted(env *Env, body *hir.Block, cfg DefaultWrapperConfig, f *hir.Param, value *hir.Expr) {
	setField(env, body, cfg, f, value)
}

func setField(env *Env, body *hir.Block, cfg DefaultWrapperConfig, f *hir.Param, value *hir.Expr) {
	recv := VarRefForParam(env, cfg.Receiver)
	field := &hir.Expr{Kind: hir.ExprFieldAccess, Type: f.Type, Data: hir.FieldAccessData{Object: recv, FieldName: f.Name}}
	body.ExprStmt(hir.Prim(hir.PrimSetMember, types.NoID, field, value))
}

// defaultValueForType implements spec.md section 4.3.1: materialize a
// temporary from the formal's default expression if present, otherwise
// from the type's default value.
func defaultValueForType(env *Env, body *hir.Block, f *hir.Param, tmpName source.StringID) *hir.Expr {
	intent := concreteIntentForTemp(env, f)
	flags := hir.ArgFlag(0)
	if intent != hir.IntentInout && intent != hir.IntentOut {
		flags = hir.ArgMaybeParam | hir.ArgExprTemp
	}

	if f.Default != nil {
		val := hir.CloneExpr(f.Default)
		tmp := body.DefFlagged(tmpName, 0, f.Type, flags)
		body.Move(tmp, val)
		return tmp
	}

	if f.Intent == hir.IntentType {
		// Type-variable formals bind directly to the type symbol, no init.
		tmp := body.DefFlagged(tmpName, 0, f.Type, hir.ArgTypeVariable)
		body.Move(tmp, typeSymbolExpr(env, f.Type))
		return tmp
	}

	var init *hir.Expr
	if f.TypeExpr != nil {
		typeExpr := hir.CloneExpr(f.TypeExpr)
		body.ExprStmt(typeExpr)
		if last := lastMoveTarget(body); last != nil {
			init = hir.Prim(hir.PrimInit, f.Type, last)
		} else {
			init = hir.Prim(hir.PrimInit, f.Type, typeExpr)
		}
	} else {
		init = hir.Prim(hir.PrimInit, f.Type, typeSymbolExpr(env, f.Type))
	}

	tmp := body.DefFlagged(tmpName, 0, f.Type, flags)
	body.Move(tmp, init)
	return tmp
}

// lastMoveTarget returns the move-target of body's last statement if it is
// a move, so default-value-for-type can reuse it as init's argument rather
// than re-evaluating the type expression (spec.md section 4.3.1).
func lastMoveTarget(body *hir.Block) *hir.Expr {
	if len(body.Stmts) == 0 {
		return nil
	}
	last := body.Stmts[len(body.Stmts)-1]
	es, ok := last.Data.(hir.ExprStmtData)
	if !ok || es.Expr == nil {
		return nil
	}
	prim, ok := es.Expr.Data.(hir.PrimitiveData)
	if !ok || prim.Op != hir.PrimMove || len(prim.Args) < 1 {
		return nil
	}
	return prim.Args[0]
}

func typeSymbolExpr(env *Env, t types.ID) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprVarRef, Type: t, Data: hir.VarRefData{}}
}

func concreteIntentForTemp(env *Env, f *hir.Param) hir.Intent {
	if f.Intent != hir.IntentBlank {
		return f.Intent
	}
	if env.Intents == nil {
		return hir.IntentBlank
	}
	if t := env.Types.Get(f.Type); t != nil && t.Kind == types.KindMethodToken {
		return hir.IntentBlank
	}
	return env.Intents.BlankIntentForType(f.Type)
}
