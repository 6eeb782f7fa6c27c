package adapt

import (
	"adaptcall/internal/config"
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
	"adaptcall/internal/source"
	"adaptcall/internal/symbols"
	"adaptcall/internal/types"
)

// PromotionRequired implements spec.md section 4.6's detection rule: a
// promotion is needed when callee is neither the assignment operator nor a
// type constructor, and for some position canDispatch(actual, formal)
// reports promotes=true. Array/domain/dist actuals are tested against
// their reference type first.
func PromotionRequired(env *Env, callee *hir.Func, call *hir.Call, formals []*hir.Param) (map[int]types.ID, bool) {
	if callee.Flags.Has(hir.FlagAssignOp) || callee.Flags.Has(hir.FlagTypeConstructor) {
		return nil, false
	}
	promoted := map[int]types.ID{}
	for i, actual := range call.Actuals {
		if i >= len(formals) {
			break
		}
		actualT := actual.Type
		if env.Types.IsRecordWrappedType(actualT) {
			// A direct (non-promoting) ref dispatch against the formal wins
			// first; only fall back to the raw record-wrapped type, which is
			// what CanDispatch actually inspects element-wise, when that
			// fails.
			if ok, promotes := env.Types.CanDispatch(env.Types.MakeRefType(actualT), formals[i].Type); ok && !promotes {
				continue
			}
		}
		if _, promotes := env.Types.CanDispatch(actualT, formals[i].Type); promotes {
			promoted[i] = actual.Type
		}
	}
	if len(promoted) == 0 {
		return nil, false
	}
	return promoted, true
}

// BuildPromotionFamily implements spec.md section 4.6: given a callee and
// the positions promoting against it, produce (and cache) the serial,
// leader, and follower procedures, plus the four fast-follower probes when
// cfg.EmitFastFollowerChecks is set.
func BuildPromotionFamily(env *Env, caches *Caches, cfg config.Config, callee *hir.Func, formals []*hir.Param, promoted map[int]types.ID, instPoint symbols.VisibilityBlock) *PromotionFamily {
	key := NewPromotionShapeKey(callee, promoted)
	if hit, ok := caches.Promotions.Get(key); ok {
		return hit
	}

	promotedPositions := sortedKeys(promoted)
	collapse := len(promotedPositions) == 1

	// Leader/follower/probes are built first so the serial body's
	// construction, deferred to last, can reuse the same formal-clone
	// template (spec.md section 4.6: "serial ordering").
	leader := buildLeaderIterator(env, caches, callee, formals, promoted, promotedPositions, collapse, instPoint)
	follower := buildFollowerIterator(env, caches, callee, formals, promoted, promotedPositions, collapse, instPoint)

	family := &PromotionFamily{Leader: leader, Follower: follower}

	if cfg.Adapt.EmitFastFollowerChecks {
		family.StaticProbe = buildFastFollowerProbe(env, callee, "static", true, instPoint)
		family.DynamicProbe = buildFastFollowerProbe(env, callee, "dynamic", true, instPoint)
		family.StaticProbeNoLead = buildFastFollowerProbe(env, callee, "static", false, instPoint)
		family.DynamicProbeNoLead = buildFastFollowerProbe(env, callee, "dynamic", false, instPoint)
	}

	serial := buildSerialIterator(env, caches, callee, formals, promoted, promotedPositions, collapse, instPoint)
	family.Serial = serial

	caches.Leaders[serial] = leader
	caches.Followers[serial] = follower

	bindIndexReferences(env, serial)
	bindIndexReferences(env, leader)
	bindIndexReferences(env, follower)

	caches.Promotions.Put(key, family)
	return family
}

func sortedKeys(m map[int]types.ID) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// promotedFormals clones callee's formals, retyping promoted positions to
// the concrete actual type.
func promotedFormals(formals []*hir.Param, promoted map[int]types.ID) []*hir.Param {
	out := make([]*hir.Param, len(formals))
	for i, f := range formals {
		c := CopyFormal(f)
		if t, ok := promoted[i]; ok {
			c.Type = t
		}
		out[i] = c
	}
	return out
}

func loopIndices(env *Env, caches *Caches, n int) []hir.LoopIndex {
	idx := make([]hir.LoopIndex, n)
	for i := 0; i < n; i++ {
		idx[i] = hir.LoopIndex{
			Name:     source.Astr(env.Interner, "p_i_", itoa(i+1)),
			SymbolID: symbols.ID(caches.NextSyntheticSymbol()),
		}
	}
	return idx
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// innerCall builds the element-wise call to the original callee, using a
// fresh unresolved VarRef per promoted position (a `p_i_<n>` name) and the
// wrapper's own non-promoted formals otherwise. The references are left
// unresolved; bindIndexReferences binds them after the loop exists.
func innerCall(env *Env, callee *hir.Func, formals []*hir.Param, promoted map[int]types.ID) *hir.Expr {
	args := make([]*hir.Expr, len(formals))
	idxN := 1
	for i, f := range formals {
		if _, ok := promoted[i]; ok {
			name := source.Astr(env.Interner, "p_i_", itoa(idxN))
			args[i] = &hir.Expr{Kind: hir.ExprVarRef, Type: callee.Formals[i].Type, Data: hir.VarRefData{Name: name}}
			idxN++
		} else {
			args[i] = VarRefForParam(env, f)
		}
	}
	return hir.CallExpr(callee.Name, callee, args...)
}

// iterTuple builds the expression promotion's loops iterate over: the
// single promoted formal when collapse is set, else a tuple of all
// promoted formals in position order (the "zippered" case, spec.md
// section 4.6's "Zip promotion" scenario).
func iterTuple(env *Env, formals []*hir.Param, promotedPositions []int) *hir.Expr {
	refs := make([]*hir.Expr, len(promotedPositions))
	for i, pos := range promotedPositions {
		refs[i] = VarRefForParam(env, formals[pos])
	}
	if len(refs) == 1 {
		return refs[0]
	}
	tuple := hir.CallExpr(source.Astr(env.Interner, "_build_tuple"), nil, refs...)
	return tuple
}

func buildSerialIterator(env *Env, caches *Caches, callee *hir.Func, formals []*hir.Param, promoted map[int]types.ID, promotedPositions []int, collapse bool, instPoint symbols.VisibilityBlock) *hir.Func {
	w := BuildEmptyWrapper(env, callee, instPoint)
	w.Formals = promotedFormals(formals, promoted)

	call := innerCall(env, callee, w.Formals, promoted)
	indices := loopIndices(env, caches, len(promotedPositions))
	iter := iterTuple(env, w.Formals, promotedPositions)

	if env.Sentinels.Void != types.NoID && callee.Result == env.Sentinels.Void {
		body := hir.NewBlock()
		body.ExprStmt(call)
		w.Body.Append(hir.BuildForallLoopStmt(indices, iter, body, !collapse))
		return w
	}

	w.Flags |= hir.FlagIterator
	body := hir.NewBlock()
	body.ExprStmt(hir.Prim(hir.PrimYield, callee.Result, call))
	w.Body.Append(hir.BuildForLoop(indices, iter, body, !collapse))
	return w
}

func buildLeaderIterator(env *Env, caches *Caches, callee *hir.Func, formals []*hir.Param, promoted map[int]types.ID, promotedPositions []int, collapse bool, instPoint symbols.VisibilityBlock) *hir.Func {
	w := BuildEmptyWrapper(env, callee, instPoint)
	w.Formals = append([]*hir.Param{leaderTagFormal(env)}, promotedFormals(formals, promoted)...)
	w.Flags |= hir.FlagIterator | hir.FlagInlineIterator

	promotedFs := w.Formals[1:]
	helper := "_toLeader"
	if !collapse {
		helper = "_toLeaderZip"
	}
	leaderIter := runtimeHelperCall(env, helper, iterTuple(env, promotedFs, promotedPositions))
	idx := loopIndices(env, caches, len(promotedPositions))
	body := hir.NewBlock()
	body.ExprStmt(hir.Prim(hir.PrimYield, types.NoID, indicesExpr(idx)))
	w.Body.Append(hir.BuildForLoop(idx, leaderIter, body, !collapse))
	w.Where = tagWhereClause(env, w.Formals[0], env.Sentinels.LeaderTagValue)
	return w
}

func buildFollowerIterator(env *Env, caches *Caches, callee *hir.Func, formals []*hir.Param, promoted map[int]types.ID, promotedPositions []int, collapse bool, instPoint symbols.VisibilityBlock) *hir.Func {
	w := BuildEmptyWrapper(env, callee, instPoint)
	tag := followerTagFormal(env)
	followThis := &hir.Param{Name: source.Astr(env.Interner, "follow_this"), Intent: hir.IntentBlank}
	fast := &hir.Param{Name: source.Astr(env.Interner, "fast"), Type: env.Sentinels.Bool, Intent: hir.IntentParam, Default: env.Sentinels.False}

	w.Formals = append([]*hir.Param{tag}, promotedFormals(formals, promoted)...)
	w.Formals = append(w.Formals, followThis, fast)
	w.Flags |= hir.FlagIterator

	promotedFs := w.Formals[1 : len(w.Formals)-2]
	fastHelper, slowHelper := "_toFastFollower", "_toFollower"
	if !collapse {
		fastHelper, slowHelper = "_toFastFollowerZip", "_toFollowerZip"
	}

	iterExpr := VarRefForParam(env, followThis)
	fastCall := runtimeHelperCall(env, fastHelper, iterTuple(env, promotedFs, promotedPositions), iterExpr)
	slowCall := runtimeHelperCall(env, slowHelper, iterTuple(env, promotedFs, promotedPositions), iterExpr)

	idx := loopIndices(env, caches, len(promotedPositions))
	innerBody := hir.NewBlock()
	innerBody.ExprStmt(hir.Prim(hir.PrimYield, callee.Result, innerCall(env, callee, promotedFs, promoted)))

	// `fast` selects between the two loops; the surrounding normalizer
	// lowers that param-bool branch, so both arms are recorded here.
	fastLoop := hir.BuildForLoop(idx, fastCall, hir.CloneBlock(innerBody), !collapse)
	slowLoop := hir.BuildForLoop(idx, slowCall, innerBody, !collapse)

	w.Body.Append(fastLoop)
	w.Body.Append(slowLoop)
	w.Where = tagWhereClause(env, tag, env.Sentinels.FollowerTagValue)
	return w
}

// tagWhereClause builds the `tag == tagValue` guard spec.md section 4.6
// items 2-3 require on the leader/follower iterator family: without it,
// the two overloads are only distinguished by the tag formal's declared
// type, which later iterator lowering does not consult to pick a member.
func tagWhereClause(env *Env, tagFormal *hir.Param, tagValue *hir.Expr) *hir.Expr {
	if tagValue == nil {
		return nil
	}
	return runtimeHelperCall(env, "==", VarRefForParam(env, tagFormal), tagValue)
}

func indicesExpr(idx []hir.LoopIndex) *hir.Expr {
	if len(idx) == 1 {
		return &hir.Expr{Kind: hir.ExprVarRef, Data: hir.VarRefData{Name: idx[0].Name, SymbolID: idx[0].SymbolID}}
	}
	refs := make([]*hir.Expr, len(idx))
	for i, ix := range idx {
		refs[i] = &hir.Expr{Kind: hir.ExprVarRef, Data: hir.VarRefData{Name: ix.Name, SymbolID: ix.SymbolID}}
	}
	return &hir.Expr{Kind: hir.ExprCall, Data: hir.CallData{Args: refs}}
}

func leaderTagFormal(env *Env) *hir.Param {
	return &hir.Param{
		Name:   source.Astr(env.Interner, "tag"),
		Type:   env.Sentinels.LeaderTagType,
		Intent: hir.IntentParam,
	}
}

func followerTagFormal(env *Env) *hir.Param {
	return &hir.Param{
		Name:   source.Astr(env.Interner, "tag"),
		Type:   env.Sentinels.FollowerTagType,
		Intent: hir.IntentParam,
	}
}

// buildFastFollowerProbe builds one of the four probe functions spec.md
// section 4.6 names: {static, dynamic} fast-follow checks, each optionally
// accepting a lead iterand. The body applies a single
// iterator_record_field_value_by_formal to x, with no formal-name operand
// and no per-formal values, wraps it in _build_tuple_always_allow_ref, and
// returns chpl__staticFastFollowCheck or chpl__dynamicFastFollowCheck of
// that tuple (plus lead, when present). The Zip variants of those helpers
// are never used, whatever the number of promoted positions.
func buildFastFollowerProbe(env *Env, callee *hir.Func, kind string, withLead bool, instPoint symbols.VisibilityBlock) *hir.Func {
	w := BuildEmptyWrapper(env, callee, instPoint)
	w.Result = env.Sentinels.Bool

	x := &hir.Param{Name: source.Astr(env.Interner, "x"), Type: env.Sentinels.IteratorRecord, Intent: hir.IntentBlank}
	w.Formals = append(w.Formals, x)

	var lead *hir.Param
	if withLead {
		lead = &hir.Param{Name: source.Astr(env.Interner, "lead"), Intent: hir.IntentBlank}
		w.Formals = append(w.Formals, lead)
	}

	fields := hir.Prim(hir.PrimIteratorRecordFieldValueByFormal, types.NoID, VarRefForParam(env, x))
	tuple := runtimeHelperCall(env, "_build_tuple_always_allow_ref", fields)

	helper := "chpl__staticFastFollowCheck"
	if kind == "dynamic" {
		helper = "chpl__dynamicFastFollowCheck"
	}
	args := []*hir.Expr{tuple}
	if withLead {
		args = append(args, VarRefForParam(env, lead))
	}
	call := runtimeHelperCall(env, helper, args...)
	w.Body.Return(call)
	return w
}

// bindIndexReferences walks fn looking for unresolved p_i_<n> VarRefs
// (SymbolID still zero) inside the innermost call and binds each to the
// matching LoopIndex definition in the enclosing loop header, per spec.md
// section 4.6's index-threading post-pass. It is an internal invariant
// that every such name finds a binding.
func bindIndexReferences(env *Env, fn *hir.Func) {
	if fn == nil {
		return
	}
	walkBlock(fn.Body, nil)
}

func walkBlock(b *hir.Block, scope map[source.StringID]symbols.ID) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		switch d := b.Stmts[i].Data.(type) {
		case hir.ForData:
			inner := extendScope(scope, d.Index)
			walkExpr(d.Iter, inner)
			walkBlock(d.Body, inner)
		case hir.ForallData:
			inner := extendScope(scope, d.Index)
			walkExpr(d.Iter, inner)
			walkBlock(d.Body, inner)
		case hir.ExprStmtData:
			walkExpr(d.Expr, scope)
		case hir.ReturnData:
			walkExpr(d.Value, scope)
		}
	}
}

func extendScope(scope map[source.StringID]symbols.ID, idx []hir.LoopIndex) map[source.StringID]symbols.ID {
	out := make(map[source.StringID]symbols.ID, len(scope)+len(idx))
	for k, v := range scope {
		out[k] = v
	}
	for _, ix := range idx {
		out[ix.Name] = ix.SymbolID
	}
	return out
}

func walkExpr(e *hir.Expr, scope map[source.StringID]symbols.ID) {
	if e == nil {
		return
	}
	switch d := e.Data.(type) {
	case hir.VarRefData:
		if d.SymbolID == 0 {
			if sym, ok := scope[d.Name]; ok {
				e.Data = hir.VarRefData{Name: d.Name, SymbolID: sym}
			}
		}
	case hir.CallData:
		for _, a := range d.Args {
			walkExpr(a, scope)
		}
	case hir.PrimitiveData:
		for _, a := range d.Args {
			walkExpr(a, scope)
		}
	case hir.CastData:
		walkExpr(d.Value, scope)
	case hir.FieldAccessData:
		walkExpr(d.Object, scope)
	}
}

// AssertIndexBindingComplete reports the internal invariant failure
// spec.md section 7 names when an unresolved p_i_<n> name survives the
// post-pass (SymbolID left zero inside the innermost call).
func AssertIndexBindingComplete(env *Env, reporter diag.Reporter, fn *hir.Func) error {
	var unbound bool
	checkBlock(fn.Body, &unbound)
	if unbound {
		return diag.Fatal(reporter, diag.AdaptIndexBindingFailed, "promotion index binding failed")
	}
	return nil
}

func checkBlock(b *hir.Block, unbound *bool) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		switch d := b.Stmts[i].Data.(type) {
		case hir.ForData:
			checkBlock(d.Body, unbound)
		case hir.ForallData:
			checkBlock(d.Body, unbound)
		case hir.ExprStmtData:
			checkExprBound(d.Expr, unbound)
		}
	}
}

func checkExprBound(e *hir.Expr, unbound *bool) {
	if e == nil {
		return
	}
	switch d := e.Data.(type) {
	case hir.VarRefData:
		if d.SymbolID == 0 && d.Name != source.NoStringID {
			*unbound = true
		}
	case hir.CallData:
		for _, a := range d.Args {
			checkExprBound(a, unbound)
		}
	case hir.PrimitiveData:
		for _, a := range d.Args {
			checkExprBound(a, unbound)
		}
	}
}
